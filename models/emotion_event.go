package models

import (
	"time"

	"github.com/google/uuid"
)

// EmotionEvent representa un evento de análisis emocional. Es inmutable
// una vez construido: los handlers solo lo leen. No retiene el texto
// original del mensaje, solo su longitud (minimización de datos,
// Ley 21.459).
type EmotionEvent struct {
	ID             string    `json:"id"`
	SubjectID      string    `json:"subject_id"` // ya anonimizado por el servicio
	Emotion        string    `json:"emotion"`
	Intensity      int       `json:"intensity"`
	RiskLevel      RiskLevel `json:"risk_level"`
	Keywords       []string  `json:"keywords"`
	Recommendation string    `json:"recommendation"`
	TextLength     int       `json:"text_length"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewEmotionEvent construye un evento validado. El nivel de riesgo se
// deriva siempre localmente con ClassifyRisk, nunca lo fija el caller.
func NewEmotionEvent(subjectID, emotion string, intensity, textLength int, keywords []string, recommendation string) (*EmotionEvent, error) {
	if emotion == "" || textLength < 0 {
		return nil, ErrInvalidInput
	}

	riskLevel, err := ClassifyRisk(emotion, intensity)
	if err != nil {
		return nil, err
	}

	return &EmotionEvent{
		ID:             uuid.New().String(),
		SubjectID:      subjectID,
		Emotion:        emotion,
		Intensity:      intensity,
		RiskLevel:      riskLevel,
		Keywords:       keywords,
		Recommendation: recommendation,
		TextLength:     textLength,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// RequiresAlert indica si el evento debe generar una alerta.
func (e *EmotionEvent) RequiresAlert() bool {
	return e.RiskLevel == RiskHigh || e.RiskLevel == RiskCritical
}
