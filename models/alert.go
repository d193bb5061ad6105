package models

import "time"

// Estados de una alerta.
const (
	AlertPending  = "pending"
	AlertResolved = "resolved"
)

// AlertRecord se genera cuando un evento alcanza riesgo HIGH o CRITICAL.
// No se muta después de su creación salvo para marcarla resuelta.
type AlertRecord struct {
	ID             string     `json:"alert_id"`
	SubjectID      string     `json:"subject_id"`
	Emotion        string     `json:"emotion"`
	Intensity      int        `json:"intensity"`
	RiskLevel      RiskLevel  `json:"risk_level"`
	Recommendation string     `json:"recommendation"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
}
