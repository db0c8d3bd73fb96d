package apperr

type Kind string

type AppError struct {
	Kind      Kind
	PublicMsg string            // shown to shoppers
	Fields    map[string]string // form field errors, optional
	Err       error             // cause, logged only
}