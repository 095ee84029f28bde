package handlers

// Common error message constants shared across handlers
const (
	ErrMsgInvalidRequestBody = "Invalid request body"
	ErrMsgUnauthorized       = "Unauthorized"
	ErrMsgActorNotFound      = "Acting employee not found in request context"
	ErrMsgPeriodClosed       = "Evaluation period is closed"
)

// API path constants
const (
	APIBasePath = "/api/v1"
)
