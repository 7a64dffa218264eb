package models

// Chat_Request is the body accepted by POST /v1/chat.
type Chat_Request struct {
	Messages []Message `json:"messages" binding:"required,min=1,dive"`
}
