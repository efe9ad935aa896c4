package dto

// Response is the success envelope returned by every endpoint with a body.
type Response struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// MessageResponse carries only a human readable message.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}
