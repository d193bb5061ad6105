package observers

import (
	"fmt"
	"sync"
	"time"

	"github.com/Max-llan/ChatBox/metrics"
	"github.com/Max-llan/ChatBox/models"
	"github.com/Max-llan/ChatBox/utils"
	"go.uber.org/zap"
)

// DefaultAlertCapacity es el tamaño del buffer circular de alertas.
const DefaultAlertCapacity = 1000

// AlertHandler genera alertas cuando un evento alcanza riesgo HIGH o
// CRITICAL. Las alertas se guardan en un buffer circular acotado para
// que un proceso de larga vida no crezca sin límite.
type AlertHandler struct {
	mu       sync.Mutex
	ring     []*models.AlertRecord
	next     int
	total    int
	byLevel  map[models.RiskLevel]int
	capacity int
	logger   *zap.SugaredLogger
}

// NewAlertHandler crea el handler con la capacidad indicada; con
// capacity <= 0 se usa DefaultAlertCapacity.
func NewAlertHandler(capacity int, logger *zap.SugaredLogger) *AlertHandler {
	if capacity <= 0 {
		capacity = DefaultAlertCapacity
	}
	return &AlertHandler{
		ring:     make([]*models.AlertRecord, 0, capacity),
		byLevel:  make(map[models.RiskLevel]int),
		capacity: capacity,
		logger:   logger,
	}
}

func (h *AlertHandler) Name() string { return "alert" }

// OnEvent crea una alerta si el evento lo requiere; en caso contrario
// no hace nada.
func (h *AlertHandler) OnEvent(event *models.EmotionEvent) error {
	if !event.RequiresAlert() {
		return nil
	}

	alert := &models.AlertRecord{
		ID:             utils.GenerateID(),
		SubjectID:      event.SubjectID,
		Emotion:        event.Emotion,
		Intensity:      event.Intensity,
		RiskLevel:      event.RiskLevel,
		Recommendation: event.Recommendation,
		Status:         models.AlertPending,
		CreatedAt:      event.CreatedAt,
	}

	h.mu.Lock()
	if len(h.ring) < h.capacity {
		h.ring = append(h.ring, alert)
	} else {
		h.ring[h.next] = alert
	}
	h.next = (h.next + 1) % h.capacity
	h.total++
	h.byLevel[alert.RiskLevel]++
	h.mu.Unlock()

	metrics.AlertsGenerated.WithLabelValues(string(alert.RiskLevel)).Inc()

	// Log sin datos sensibles (ISO 27000).
	h.logger.Warnw("alerta generada",
		"alert_id", alert.ID,
		"risk_level", alert.RiskLevel,
		"emotion", alert.Emotion,
		"intensity", alert.Intensity,
	)
	return nil
}

// Statistics devuelve el total de alertas generadas y el desglose por
// nivel de riesgo.
func (h *AlertHandler) Statistics() (total int, byLevel map[models.RiskLevel]int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[models.RiskLevel]int, len(h.byLevel))
	for k, v := range h.byLevel {
		out[k] = v
	}
	return h.total, out
}

// Recent devuelve hasta n alertas, de la más reciente a la más antigua.
// Las alertas devueltas son copias: ningún puntero al estado protegido
// por el mutex sale de aquí.
func (h *AlertHandler) Recent(n int) []*models.AlertRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	size := len(h.ring)
	if n <= 0 || n > size {
		n = size
	}
	out := make([]*models.AlertRecord, 0, n)
	for i := 0; i < n; i++ {
		idx := (h.next - 1 - i + size) % size
		out = append(out, cloneAlert(h.ring[idx]))
	}
	return out
}

// Pending devuelve copias de las alertas aún sin resolver que siguen en
// el buffer.
func (h *AlertHandler) Pending() []*models.AlertRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []*models.AlertRecord
	for _, a := range h.ring {
		if a.Status == models.AlertPending {
			out = append(out, cloneAlert(a))
		}
	}
	return out
}

// Resolve marca una alerta como resuelta.
func (h *AlertHandler) Resolve(alertID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, a := range h.ring {
		if a.ID == alertID {
			now := time.Now().UTC()
			a.Status = models.AlertResolved
			a.ResolvedAt = &now
			return nil
		}
	}
	return fmt.Errorf("alerta %s no encontrada", alertID)
}

func cloneAlert(a *models.AlertRecord) *models.AlertRecord {
	clone := *a
	return &clone
}
