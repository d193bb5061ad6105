package events

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Max-llan/ChatBox/models"
	"go.uber.org/zap"
)

// Handler reacciona a eventos emocionales publicados.
type Handler interface {
	Name() string
	OnEvent(event *models.EmotionEvent) error
}

// Notifier mantiene la lista ordenada de handlers registrados y entrega
// cada evento publicado a todos ellos, de forma síncrona y en orden de
// registro. Se construye una sola instancia al arrancar el proceso y se
// inyecta donde haga falta; el registro ocurre durante el arranque.
type Notifier struct {
	mu       sync.RWMutex
	handlers []Handler
	logger   *zap.SugaredLogger
}

// NewNotifier crea un notificador sin handlers registrados.
func NewNotifier(logger *zap.SugaredLogger) *Notifier {
	return &Notifier{logger: logger}
}

// Register añade un handler al final de la lista. No se detectan
// duplicados: registrar dos veces el mismo handler hace que reciba cada
// evento dos veces, comportamiento documentado y probado.
func (n *Notifier) Register(h Handler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers = append(n.handlers, h)
	n.logger.Infow("handler registrado", "handler", h.Name(), "total", len(n.handlers))
}

// Publish entrega el evento a cada handler en orden de registro. Un
// handler que falla (o entra en pánico) se aísla: se registra el fallo
// y se continúa con los siguientes. Los fallos se agregan en el error
// devuelto, que es solo para logging interno del publicador.
func (n *Notifier) Publish(event *models.EmotionEvent) error {
	n.mu.RLock()
	handlers := make([]Handler, len(n.handlers))
	copy(handlers, n.handlers)
	n.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := n.invoke(h, event); err != nil {
			n.logger.Errorw("handler falló al procesar evento",
				"handler", h.Name(),
				"event_id", event.ID,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("%s: %w", h.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// HandlerCount devuelve cuántos handlers hay registrados.
func (n *Notifier) HandlerCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.handlers)
}

func (n *Notifier) invoke(h Handler, event *models.EmotionEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pánico en handler: %v", r)
		}
	}()
	return h.OnEvent(event)
}
