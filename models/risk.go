package models

import (
	"errors"
	"strings"
)

// RiskLevel clasifica el riesgo emocional de un mensaje analizado.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// ErrInvalidInput se devuelve cuando la intensidad está fuera de [1,10]
// o la emoción viene vacía.
var ErrInvalidInput = errors.New("entrada inválida")

// severeEmotions son emociones que siempre implican riesgo CRITICAL,
// sin importar la intensidad reportada.
var severeEmotions = map[string]bool{
	"depresión":    true,
	"depresion":    true,
	"pánico":       true,
	"panico":       true,
	"crisis":       true,
	"suicidio":     true,
	"autolesión":   true,
	"autolesion":   true,
	"desesperanza": true,
}

// ClassifyRisk deriva el nivel de riesgo a partir de la emoción detectada
// y su intensidad. Es determinista y no tiene efectos secundarios.
// La intensidad debe estar en [1,10]; no se hace clamping aquí, la
// normalización de respuestas mal formadas del proveedor es
// responsabilidad del servicio que llama.
func ClassifyRisk(emotion string, intensity int) (RiskLevel, error) {
	if intensity < 1 || intensity > 10 {
		return "", ErrInvalidInput
	}

	normalized := strings.ToLower(strings.TrimSpace(emotion))
	switch {
	case intensity >= 8 || severeEmotions[normalized]:
		return RiskCritical, nil
	case intensity >= 7:
		return RiskHigh, nil
	case intensity >= 5:
		return RiskModerate, nil
	default:
		return RiskLow, nil
	}
}

// IsSevereEmotion indica si la emoción pertenece al conjunto severo.
func IsSevereEmotion(emotion string) bool {
	return severeEmotions[strings.ToLower(strings.TrimSpace(emotion))]
}
