package response

type Response struct {
	Data    interface{} `json:"data,omitempty"`
	Success bool        `json:"success"`
	Message string      `json:"error,omitempty"`
}

func Ok(data interface{}) Response {
	return Response{
		Data:    data,
		Success: true,
	}
}

func Error(message string) Response {
	return Response{
		Success: false,
		Message: message,
	}
}
