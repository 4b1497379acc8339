package errors

// NewRuntimeError creates an error raised while running a command. The optional
// hint is rendered as a separate field, and should tell the user how to fix
// the problem.
func NewRuntimeError(msg string, cause error, hint string) *StructuredError {
	if hint == "" {
		return NewWithCause(msg, cause)
	}
	return NewWithCause(msg, cause, "hint", hint)
}
