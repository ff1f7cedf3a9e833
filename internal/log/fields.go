package log

import "subtrackr/internal/core"

// Common field names for structured logging
const (
	FieldComponent      = "component"
	FieldOperation      = "operation"
	FieldError          = "error"
	FieldErrorType      = "error_type"
	FieldKey            = "key"
	FieldBytes          = "bytes"
	FieldBackend        = "backend"
	FieldCount          = "count"
	FieldSubscriptionID = "subscription_id"
	FieldName           = "name"
	FieldCost           = "cost"
	FieldBillingCycle   = "billing_cycle"
	FieldRenewalDate    = "renewal_date"
	FieldCategory       = "category"
	FieldDurationMs     = "duration_ms"
	FieldRunID          = "run_id"
	FieldCommand        = "command"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentStore   = "store"
	ComponentService = "service"
	ComponentStorage = "storage"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpList     = "list"
	OpAdd      = "add"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpPersist  = "persist"
	OpSummary  = "summary"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation = "validation_error"
	ErrorTypeStorage    = "storage_error"
	ErrorTypeCorrupt    = "corrupt_data"
	ErrorTypeNotFound   = "not_found_error"
	ErrorTypeConflict   = "conflict_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithErrorType adds the error category
func (f LogFields) WithErrorType(kind string) LogFields {
	f[FieldErrorType] = kind
	return f
}

// WithSubscription adds the identifying fields of a subscription. Notes are left out.
func (f LogFields) WithSubscription(s core.Subscription) LogFields {
	f[FieldSubscriptionID] = s.ID
	f[FieldName] = s.Name
	f[FieldCost] = s.Cost
	f[FieldBillingCycle] = string(s.BillingCycle)
	f[FieldRenewalDate] = s.RenewalDate
	if s.Category != "" {
		f[FieldCategory] = s.Category
	}
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
