package models

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type ApiResponse struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Meta       *Meta       `json:"meta,omitempty"`
}

func SuccessResponse(statusCode int, data interface{}, message string) ApiResponse {
	return ApiResponse{
		Success:    true,
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
	}
}

func PaginatedResponse(statusCode int, data interface{}, meta *Meta, message string) ApiResponse {
	return ApiResponse{
		Success:    true,
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
		Meta:       meta,
	}
}

func ErrorResponse(statusCode int, message string) ApiResponse {
	return ApiResponse{
		Success:    false,
		StatusCode: statusCode,
		Message:    message,
	}
}
