package handlers

import "github.com/danielgtaylor/huma/v2"

// ErrorResponse is the flat error body every failure returns, e.g.
// {"error": "Short URL not found"}.
type ErrorResponse struct {
	status  int
	Message string `json:"error"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *ErrorResponse) GetStatus() int {
	return e.status
}

// NewError builds the flat error model. Installed as huma.NewError so every
// error huma writes, including middleware rejections, uses the same shape.
func NewError(status int, message string, _ ...error) huma.StatusError {
	return &ErrorResponse{status: status, Message: message}
}
