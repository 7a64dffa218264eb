package models

// Chat_Response is returned by POST /v1/chat on success.
type Chat_Response struct {
	Response string `json:"response"`
}

// ErrorResponse is the body of every 4xx/5xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by GET /.
type HealthResponse struct {
	Message string `json:"message"`
}
