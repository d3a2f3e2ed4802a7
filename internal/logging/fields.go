package logging

// Field names for structured logging.
const (
	FieldError   = "error"
	FieldPath    = "path"
	FieldOutput  = "output"
	FieldLine    = "line"
	FieldStatus  = "status"
	FieldSection = "section"
	FieldKind    = "kind"
	FieldSteps   = "steps"
	FieldRows    = "rows"
	FieldConfig  = "config"
)
