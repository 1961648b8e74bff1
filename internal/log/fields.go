package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldQuery         = "query"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldDurationHuman = "duration_human"
	FieldUserAgent     = "user_agent"
	FieldSuccess       = "success"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldSource        = "source"
	FieldGeneration    = "generation"
	FieldRecords       = "records"
	FieldFiltered      = "filtered"
	FieldViewSize      = "view_size"
	FieldStart         = "start"
	FieldEnd           = "end"
	FieldTeam          = "team"
	FieldEmployee      = "employee"
	FieldCategory      = "category"
	FieldSortColumn    = "sort_column"
	FieldSortDirection = "sort_direction"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentSource  = "source"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentCache   = "cache"
	ComponentConfig  = "config"
	ComponentCLI     = "cli"
)

// Operations defines standard operation names
const (
	OpIngest    = "ingest"
	OpReload    = "reload"
	OpFilter    = "filter"
	OpToggle    = "toggle_category"
	OpToggleAll = "toggle_all_categories"
	OpSort      = "sort"
	OpQuery     = "query"
	OpImport    = "import"
	OpNotify    = "notify"
	OpShutdown  = "shutdown"
	OpStartup   = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeInternal      = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithRequestID adds request ID field
func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithCriteria adds the raw filter inputs
func (f LogFields) WithCriteria(start, end, team, employee string) LogFields {
	f[FieldStart] = start
	f[FieldEnd] = end
	f[FieldTeam] = team
	f[FieldEmployee] = employee
	return f
}

// WithRecompute adds the sizes of one recompute cycle
func (f LogFields) WithRecompute(generation uint64, records, filtered, view int) LogFields {
	f[FieldGeneration] = generation
	f[FieldRecords] = records
	f[FieldFiltered] = filtered
	f[FieldViewSize] = view
	return f
}

// WithHTTPRequest adds HTTP request fields
func (f LogFields) WithHTTPRequest(method, path, query, userAgent string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	f[FieldUserAgent] = userAgent
	return f
}

// WithHTTPResponse adds HTTP response fields
func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64, success bool) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = success
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
