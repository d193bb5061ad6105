package observers

import (
	"sync"

	"github.com/Max-llan/ChatBox/models"
)

// DefaultHistoryPerSubject acota el historial en memoria por sujeto.
const DefaultHistoryPerSubject = 50

// HistoryHandler guarda en memoria los últimos eventos de cada sujeto
// para poder servir su historial emocional. El historial por sujeto
// está acotado; al superarlo se descarta el evento más antiguo.
type HistoryHandler struct {
	mu        sync.Mutex
	bySubject map[string][]*models.EmotionEvent
	limit     int
}

// NewHistoryHandler crea el handler con el límite por sujeto indicado;
// con limit <= 0 se usa DefaultHistoryPerSubject.
func NewHistoryHandler(limit int) *HistoryHandler {
	if limit <= 0 {
		limit = DefaultHistoryPerSubject
	}
	return &HistoryHandler{
		bySubject: make(map[string][]*models.EmotionEvent),
		limit:     limit,
	}
}

func (h *HistoryHandler) Name() string { return "history" }

func (h *HistoryHandler) OnEvent(event *models.EmotionEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := append(h.bySubject[event.SubjectID], event)
	if len(list) > h.limit {
		list = list[len(list)-h.limit:]
	}
	h.bySubject[event.SubjectID] = list
	return nil
}

// History devuelve hasta limit eventos del sujeto, del más antiguo al
// más reciente. Con limit <= 0 devuelve todo el historial retenido.
func (h *HistoryHandler) History(subjectID string, limit int) []*models.EmotionEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := h.bySubject[subjectID]
	if limit > 0 && limit < len(list) {
		list = list[len(list)-limit:]
	}
	out := make([]*models.EmotionEvent, len(list))
	copy(out, list)
	return out
}
