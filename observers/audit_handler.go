package observers

import (
	"sync"

	"github.com/Max-llan/ChatBox/models"
	"go.uber.org/zap"
)

// AuditHandler registra una entrada de auditoría por cada evento
// publicado, sin excepción. La entrada contiene únicamente el
// identificador anonimizado del sujeto, la emoción, la intensidad, el
// nivel de riesgo, las palabras clave y la longitud del texto: nunca el
// texto original. El sink es un logger inyectado, no uno fijo.
type AuditHandler struct {
	sink *zap.SugaredLogger

	mu          sync.Mutex
	total       int
	highRisk    int
	byEmotion   map[string]int
	intensities int // suma acumulada para el promedio
}

// NewAuditHandler crea el handler con el sink de auditoría dado.
func NewAuditHandler(sink *zap.SugaredLogger) *AuditHandler {
	return &AuditHandler{
		sink:      sink,
		byEmotion: make(map[string]int),
	}
}

func (h *AuditHandler) Name() string { return "audit" }

// OnEvent escribe la entrada de auditoría y actualiza las estadísticas
// en memoria.
func (h *AuditHandler) OnEvent(event *models.EmotionEvent) error {
	h.sink.Infow("emotion_event",
		"event_id", event.ID,
		"subject_id", event.SubjectID,
		"emotion", event.Emotion,
		"intensity", event.Intensity,
		"risk_level", event.RiskLevel,
		"keywords", event.Keywords,
		"high_risk", event.RequiresAlert(),
		"text_length", event.TextLength,
		"timestamp", event.CreatedAt,
	)

	h.mu.Lock()
	h.total++
	if event.RequiresAlert() {
		h.highRisk++
	}
	h.byEmotion[event.Emotion]++
	h.intensities += event.Intensity
	h.mu.Unlock()

	return nil
}

// Statistics devuelve los agregados acumulados desde el arranque.
func (h *AuditHandler) Statistics() models.StatisticsResponse {
	h.mu.Lock()
	defer h.mu.Unlock()

	dist := make(map[string]int, len(h.byEmotion))
	for k, v := range h.byEmotion {
		dist[k] = v
	}

	avg := 0.0
	if h.total > 0 {
		avg = float64(h.intensities) / float64(h.total)
	}

	return models.StatisticsResponse{
		TotalEvents:          h.total,
		HighRiskEvents:       h.highRisk,
		EmotionsDistribution: dist,
		AverageIntensity:     avg,
	}
}

// RecordCount devuelve cuántos eventos se han auditado.
func (h *AuditHandler) RecordCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.total
}
