package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldSeed        = "seed"
	FieldBatchID     = "batch_id"
	FieldMode        = "mode"
	FieldSimulations = "simulations"
	FieldPlanFile    = "plan_file"
	FieldSuccessRate = "success_rate"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentConfig     = "config"
	ComponentEngine     = "engine"
	ComponentMultiSim   = "multisim"
	ComponentOutput     = "output"
	ComponentHistorical = "historical"
)
