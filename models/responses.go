package models

// EmotionAnalysisResponse resume el análisis emocional de un turno.
type EmotionAnalysisResponse struct {
	Emotion        string    `json:"emotion"`
	Intensity      int       `json:"intensity"`
	RiskLevel      RiskLevel `json:"risk_level"`
	Recommendation string    `json:"recommendation"`
}

// SendMessageResponse es la respuesta de POST /chat/send.
type SendMessageResponse struct {
	Success         bool                    `json:"success"`
	Response        string                  `json:"response"`
	EmotionAnalysis EmotionAnalysisResponse `json:"emotion_analysis"`
	AlertGenerated  bool                    `json:"alert_generated"`
}

// TranscribeResponse es la respuesta de POST /chat/transcribe.
type TranscribeResponse struct {
	Success         bool                    `json:"success"`
	Transcription   string                  `json:"transcription"`
	Response        string                  `json:"response"`
	EmotionAnalysis EmotionAnalysisResponse `json:"emotion_analysis"`
	AlertGenerated  bool                    `json:"alert_generated"`
}

// StatisticsResponse agrega los contadores del handler de auditoría.
type StatisticsResponse struct {
	TotalEvents          int            `json:"total_events"`
	HighRiskEvents       int            `json:"high_risk_events"`
	EmotionsDistribution map[string]int `json:"emotions_distribution"`
	AverageIntensity     float64        `json:"average_intensity"`
}
