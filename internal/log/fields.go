package log

// Common field names for structured logging.
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldTransactionID = "transaction_id"
	FieldBackend       = "backend"
)

// Standard component names.
const (
	ComponentApp   = "app"
	ComponentStore = "store"
)

// Standard operation names.
const (
	OpAdd    = "add"
	OpUpdate = "update"
	OpDelete = "delete"
)
