package errors

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success bool           `json:"success"`
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}
