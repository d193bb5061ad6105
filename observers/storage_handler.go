package observers

import (
	"fmt"

	"github.com/Max-llan/ChatBox/models"
	"gorm.io/gorm"
)

// StorageHandler persiste los campos canónicos de cada evento (y la
// fila de alerta cuando corresponde) en la base de datos. Es un
// colaborador opcional: solo se registra cuando hay base de datos
// configurada. El texto original nunca llega aquí porque el evento no
// lo contiene.
type StorageHandler struct {
	db *gorm.DB
}

// NewStorageHandler crea el handler sobre la conexión gorm dada.
func NewStorageHandler(db *gorm.DB) *StorageHandler {
	return &StorageHandler{db: db}
}

func (h *StorageHandler) Name() string { return "storage" }

func (h *StorageHandler) OnEvent(event *models.EmotionEvent) error {
	row := models.NewEmotionEventRow(event)
	if err := h.db.Create(&row).Error; err != nil {
		return fmt.Errorf("persistir evento: %w", err)
	}

	if !event.RequiresAlert() {
		return nil
	}

	alert := models.AlertRow{
		ID:             event.ID,
		SubjectID:      event.SubjectID,
		Emotion:        event.Emotion,
		Intensity:      event.Intensity,
		RiskLevel:      string(event.RiskLevel),
		Recommendation: event.Recommendation,
		Status:         models.AlertPending,
		CreatedAt:      event.CreatedAt,
	}
	if err := h.db.Create(&alert).Error; err != nil {
		return fmt.Errorf("persistir alerta: %w", err)
	}
	return nil
}
