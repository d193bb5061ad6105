package services

import (
	"context"

	"github.com/Max-llan/ChatBox/models"
)

// EmotionAnalysis es el resultado crudo del análisis emocional del
// proveedor. El nivel de riesgo que sugiera (RiskHint) es solo
// orientativo: el nivel definitivo se recalcula siempre localmente.
type EmotionAnalysis struct {
	Emotion        string   `json:"emotion"`
	Intensity      int      `json:"intensity"`
	RiskHint       string   `json:"risk_level"`
	Keywords       []string `json:"keywords"`
	Recommendation string   `json:"recommendation"`
}

// AIProvider abstrae el proveedor externo de IA (patrón Adapter). La
// implementación concreta se inyecta, lo que permite sustituirla por un
// stub en pruebas.
type AIProvider interface {
	// ChatCompletion envía la conversación y devuelve el texto de la
	// respuesta del modelo.
	ChatCompletion(ctx context.Context, messages []models.ChatMessage) (string, error)

	// TranscribeAudio convierte audio a texto. Falla con
	// ErrPayloadTooLarge por encima del límite configurado.
	TranscribeAudio(ctx context.Context, data []byte, filename string) (string, error)

	// AnalyzeEmotion analiza el texto con hasta los últimos 5 turnos de
	// contexto y devuelve el análisis emocional.
	AnalyzeEmotion(ctx context.Context, text string, history []models.ChatMessage) (*EmotionAnalysis, error)
}
