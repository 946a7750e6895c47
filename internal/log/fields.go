package log

// Common field names for structured logging.
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldPreset    = "preset"
	FieldWindow    = "window"
	FieldPath      = "path"
	FieldStream    = "stream"
	FieldCount     = "count"
	FieldDuration  = "duration_ms"
)

// Components.
const (
	ComponentApp      = "app"
	ComponentPeriod   = "period"
	ComponentPipeline = "pipeline"
	ComponentStore    = "store"
	ComponentImport   = "import"
	ComponentConfig   = "config"
	ComponentTUI      = "tui"
	ComponentWatch    = "watch"
)

// Operations.
const (
	OpResolve   = "resolve"
	OpLoad      = "load"
	OpAggregate = "aggregate"
	OpImport    = "import"
	OpValidate  = "validate"
)
