package models

// ChatMessage es un turno de conversación con rol etiquetado, tal como
// lo envía el cliente y lo consume el proveedor de IA.
type ChatMessage struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// SendMessageRequest es el cuerpo de POST /chat/send.
type SendMessageRequest struct {
	Message string        `json:"message" binding:"required"`
	History []ChatMessage `json:"history"`
}
