package models

import (
	"time"
)

// LineRole identifies the kind of evaluation line a mapping is attached to.
type LineRole string

const (
	RolePrimary   LineRole = "PRIMARY"
	RoleSecondary LineRole = "SECONDARY"
)

// Valid reports whether the role is one of the known line roles.
func (r LineRole) Valid() bool {
	return r == RolePrimary || r == RoleSecondary
}

// Employee status values
const (
	EmployeeActive   = "ACTIVE"
	EmployeeInactive = "INACTIVE"
)

// Evaluation period phases
const (
	PhaseDraft  = "DRAFT"
	PhaseOpen   = "OPEN"
	PhaseClosed = "CLOSED"
)

// Department represents an organizational unit. Departments form a tree via
// ParentDepartmentID; ManagerID is the department head, if any.
type Department struct {
	ID                 string    `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	ParentDepartmentID *string   `json:"parent_department_id,omitempty" db:"parent_department_id"`
	ManagerID          *string   `json:"manager_id,omitempty" db:"manager_id"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// Employee represents an employee in the organization directory. It doubles as
// the login identity for the API.
type Employee struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	DepartmentID *string   `json:"department_id,omitempty" db:"department_id"`
	ManagerID    *string   `json:"manager_id,omitempty" db:"manager_id"`
	Status       string    `json:"status" db:"status"` // ACTIVE or INACTIVE
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// EvaluationPeriod represents one evaluation cycle
type EvaluationPeriod struct {
	ID        string     `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	StartDate time.Time  `json:"start_date" db:"start_date"`
	EndDate   time.Time  `json:"end_date" db:"end_date"`
	Phase     string     `json:"phase" db:"phase"` // DRAFT, OPEN, CLOSED
	CreatedBy string     `json:"created_by" db:"created_by"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	OpenedAt  *time.Time `json:"opened_at,omitempty" db:"opened_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty" db:"closed_at"`
}

// Deliverable represents a WBS item within an evaluation period
type Deliverable struct {
	ID                 string    `json:"id" db:"id"`
	EvaluationPeriodID string    `json:"evaluation_period_id" db:"evaluation_period_id"`
	Name               string    `json:"name" db:"name"`
	Code               string    `json:"code" db:"code"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// DeliverableAssignment links an employee to a deliverable they work on
type DeliverableAssignment struct {
	ID            string     `json:"id" db:"id"`
	DeliverableID string     `json:"deliverable_id" db:"deliverable_id"`
	EmployeeID    string     `json:"employee_id" db:"employee_id"`
	AssignedBy    string     `json:"assigned_by" db:"assigned_by"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// EvaluationLine is a reusable role/sequence slot (e.g. "primary evaluator",
// "secondary evaluator #2"). Lines are created lazily on first use and are
// immutable afterwards; identity is (role, sequence).
type EvaluationLine struct {
	ID        string    `json:"id" db:"id"`
	Role      LineRole  `json:"role" db:"role"`
	Sequence  int       `json:"sequence" db:"sequence"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// EvaluationLineMapping is a concrete assignment of one evaluator to one
// evaluatee under one evaluation line, within one period. DeliverableID is
// nil when the line applies to the whole evaluatee rather than a single
// deliverable. Mappings are only ever soft-deleted.
type EvaluationLineMapping struct {
	ID                 string     `json:"id" db:"id"`
	EvaluationPeriodID string     `json:"evaluation_period_id" db:"evaluation_period_id"`
	EvaluateeID        string     `json:"evaluatee_id" db:"evaluatee_id"`
	EvaluatorID        string     `json:"evaluator_id" db:"evaluator_id"`
	DeliverableID      *string    `json:"deliverable_id,omitempty" db:"deliverable_id"`
	EvaluationLineID   string     `json:"evaluation_line_id" db:"evaluation_line_id"`
	CreatedBy          string     `json:"created_by" db:"created_by"`
	UpdatedBy          string     `json:"updated_by" db:"updated_by"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt          *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// Active reports whether the mapping has not been soft-deleted.
func (m *EvaluationLineMapping) Active() bool {
	return m.DeletedAt == nil
}

// MappingWithLine extends EvaluationLineMapping with the line's role and
// sequence for read endpoints.
type MappingWithLine struct {
	EvaluationLineMapping
	Role     LineRole `json:"role"`
	Sequence int      `json:"sequence"`
}

// LineAssignmentInput is one item of an explicit batch-configure request.
type LineAssignmentInput struct {
	EvaluateeID   string  `json:"evaluatee_id"`
	EvaluatorID   string  `json:"evaluator_id"`
	DeliverableID *string `json:"deliverable_id,omitempty"`
	Sequence      int     `json:"sequence,omitempty"` // defaults to 1
}

// Per-item result statuses
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultSkipped = "skipped"
	ResultFailed  = "failed"
)

// AssignmentResult records the outcome of one batch-configure item.
type AssignmentResult struct {
	Status        string                 `json:"status"` // success or error
	EvaluateeID   string                 `json:"evaluatee_id"`
	EvaluatorID   string                 `json:"evaluator_id"`
	DeliverableID *string                `json:"deliverable_id,omitempty"`
	Mapping       *EvaluationLineMapping `json:"mapping,omitempty"`
	Error         string                 `json:"error,omitempty"`
}

// BatchAssignmentSummary aggregates an explicit batch-configure call.
// Results preserve the caller-supplied item order.
type BatchAssignmentSummary struct {
	TotalCount      int                `json:"total_count"`
	SuccessCount    int                `json:"success_count"`
	FailureCount    int                `json:"failure_count"`
	CreatedLines    int                `json:"created_lines"`
	CreatedMappings int                `json:"created_mappings"`
	Results         []AssignmentResult `json:"results"`
}

// AutoAssignResult records the outcome for one employee during hierarchy
// auto-assignment. Skipped means no write was needed or possible (employee
// already covered, or no evaluator resolvable); failed means a write was
// attempted and errored.
type AutoAssignResult struct {
	Status      string                 `json:"status"` // success, skipped or failed
	EmployeeID  string                 `json:"employee_id"`
	EvaluatorID string                 `json:"evaluator_id,omitempty"`
	Mapping     *EvaluationLineMapping `json:"mapping,omitempty"`
	Reason      string                 `json:"reason,omitempty"`
	Error       string                 `json:"error,omitempty"`
}

// AutoAssignSummary aggregates a hierarchy auto-assignment run.
type AutoAssignSummary struct {
	TotalEmployees       int                `json:"total_employees"`
	SuccessCount         int                `json:"success_count"`
	SkippedCount         int                `json:"skipped_count"`
	FailedCount          int                `json:"failed_count"`
	TotalCreatedMappings int                `json:"total_created_mappings"`
	Results              []AutoAssignResult `json:"results"`
}

// AuditLog represents an audit log entry
type AuditLog struct {
	ID        uint      `json:"id" db:"id"`
	ActorID   *string   `json:"actor_id,omitempty" db:"actor_id"`
	Action    string    `json:"action" db:"action"`
	Resource  string    `json:"resource" db:"resource"`
	Details   string    `json:"details,omitempty" db:"details"`
	IPAddress string    `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent string    `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
