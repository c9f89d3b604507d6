package api

// Error defines a standard error shape for the API.
type Error struct {
	// HTTP Status Code (e.g., 400, 404, 500)
	Code int `json:"-"`
	// Safe message for the client
	Message string `json:"error"`
	// Per-field validation messages, when applicable
	Fields map[string]string `json:"fields,omitempty"`
	// Original error for internal logging; never serialized
	Log error `json:"-"`
}

// Error implements the standard error interface
func (e *Error) Error() string {
	return e.Message
}

// NewError creates a generic application error
func NewError(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Log:     err,
	}
}

// ValidationError creates a 400 carrying per-field messages
func ValidationError(fields map[string]string) *Error {
	return &Error{
		Code:    400,
		Message: "One or more fields failed validation",
		Fields:  fields,
	}
}
