package api

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// Envelope is the {success, message} wrapper used by the class booking
// endpoints. Business failures set Success=false and carry the reason
// in Message; transport failures use ErrorResponse instead.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty" example:"Class is full"`
}

func Failure(message string) Envelope {
	return Envelope{Success: false, Message: message}
}
