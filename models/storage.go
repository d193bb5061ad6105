package models

import (
	"strings"
	"time"
)

// EmotionEventRow es la fila persistida por el colaborador de
// almacenamiento. Contiene exactamente los campos canónicos del evento;
// nunca el texto original.
type EmotionEventRow struct {
	ID             string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	SubjectID      string    `gorm:"type:varchar(50);index" json:"subject_id"`
	Emotion        string    `gorm:"type:varchar(50)" json:"emotion"`
	Intensity      int       `json:"intensity"`
	RiskLevel      string    `gorm:"type:varchar(20);index" json:"risk_level"`
	Keywords       string    `gorm:"type:text" json:"keywords"`
	Recommendation string    `gorm:"type:text" json:"recommendation"`
	TextLength     int       `json:"text_length"`
	CreatedAt      time.Time `json:"created_at"`
}

// AlertRow es la fila persistida de una alerta generada.
type AlertRow struct {
	ID             string     `gorm:"type:varchar(50);primaryKey" json:"id"`
	SubjectID      string     `gorm:"type:varchar(50);index" json:"subject_id"`
	Emotion        string     `gorm:"type:varchar(50)" json:"emotion"`
	Intensity      int        `json:"intensity"`
	RiskLevel      string     `gorm:"type:varchar(20)" json:"risk_level"`
	Recommendation string     `gorm:"type:text" json:"recommendation"`
	Status         string     `gorm:"type:varchar(20);index" json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	ResolvedAt     *time.Time `json:"resolved_at"`
}

// NewEmotionEventRow convierte un evento a su fila canónica.
func NewEmotionEventRow(e *EmotionEvent) EmotionEventRow {
	return EmotionEventRow{
		ID:             e.ID,
		SubjectID:      e.SubjectID,
		Emotion:        e.Emotion,
		Intensity:      e.Intensity,
		RiskLevel:      string(e.RiskLevel),
		Keywords:       strings.Join(e.Keywords, ","),
		Recommendation: e.Recommendation,
		TextLength:     e.TextLength,
		CreatedAt:      e.CreatedAt,
	}
}
