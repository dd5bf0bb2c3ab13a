package models

type ApiResponse struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message,omitempty"`
	Data       interface{}      `json:"data,omitempty"`
	Error      string           `json:"error,omitempty"`
	Violations []FieldViolation `json:"violations,omitempty"`
}

// FieldViolation describes one failed validation rule on a request field.
type FieldViolation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func SuccessResponse(data interface{}, message string) ApiResponse {
	return ApiResponse{
		Success: true,
		Data:    data,
		Message: message,
	}
}

func ErrorResponse(err string) ApiResponse {
	return ApiResponse{
		Success: false,
		Error:   err,
	}
}

func ValidationResponse(violations []FieldViolation) ApiResponse {
	return ApiResponse{
		Success:    false,
		Error:      "validation failed",
		Violations: violations,
	}
}
