package service

// ValidationError is a business-rule rejection carrying a message safe
// to show to the client. Handlers translate it to a 400 response.
type ValidationError struct {
	message string
}

func NewValidationError(message string) ValidationError {
	return ValidationError{message: message}
}

func (e ValidationError) Error() string {
	return e.message
}
