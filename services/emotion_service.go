package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Max-llan/ChatBox/events"
	"github.com/Max-llan/ChatBox/metrics"
	"github.com/Max-llan/ChatBox/models"
	"github.com/Max-llan/ChatBox/observers"
	"github.com/Max-llan/ChatBox/utils"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Valores por defecto del orquestador.
const (
	DefaultMaxMessageChars = 2000
	DefaultAnalysisTimeout = 20 * time.Second

	conversationKeyPrefix = "chat:history:"
	conversationTurns     = 10
	conversationTTL       = 24 * time.Hour
)

// Respuestas genéricas: el usuario nunca ve el error interno ni el
// texto de error del proveedor.
const (
	degradedReply = "Lo siento, ocurrió un error al procesar tu mensaje. Por favor, inténtalo de nuevo."
	fallbackReply = "Estoy aquí para apoyarte. ¿Cómo te puedo ayudar?"
)

const empatheticPromptTemplate = `Eres un asistente de apoyo emocional empático y profesional.

El usuario está experimentando: %s con intensidad %d/10.

Lineamientos:
- Sé empático y comprensivo
- Valida sus emociones
- Ofrece apoyo constructivo
- Si detectas riesgo alto, sugiere buscar ayuda profesional
- Mantén un tono cálido pero profesional
- Respeta la confidencialidad (Ley 21.459)`

// AnalysisResult es lo que el orquestador devuelve a la capa HTTP.
type AnalysisResult struct {
	Success        bool
	Response       string
	Transcription  string
	Analysis       models.EmotionAnalysisResponse
	AlertGenerated bool
	Event          *models.EmotionEvent
}

// EmotionService orquesta el análisis emocional: valida la entrada,
// llama al proveedor de IA, construye y publica el evento y compone la
// respuesta empática. Todas las dependencias se inyectan en el
// arranque; no hay estado global.
type EmotionService struct {
	provider AIProvider
	notifier *events.Notifier
	alerts   *observers.AlertHandler
	audit    *observers.AuditHandler
	history  *observers.HistoryHandler
	redis    *redis.Client // opcional: memoria de conversación
	logger   *zap.SugaredLogger

	maxMessageChars int
	analysisTimeout time.Duration
}

// EmotionServiceOptions agrupa los límites configurables del servicio.
type EmotionServiceOptions struct {
	MaxMessageChars int
	AnalysisTimeout time.Duration
}

// NewEmotionService construye el orquestador con sus colaboradores.
func NewEmotionService(
	provider AIProvider,
	notifier *events.Notifier,
	alerts *observers.AlertHandler,
	audit *observers.AuditHandler,
	history *observers.HistoryHandler,
	redisClient *redis.Client,
	logger *zap.SugaredLogger,
	opts EmotionServiceOptions,
) *EmotionService {
	if opts.MaxMessageChars <= 0 {
		opts.MaxMessageChars = DefaultMaxMessageChars
	}
	if opts.AnalysisTimeout <= 0 {
		opts.AnalysisTimeout = DefaultAnalysisTimeout
	}
	return &EmotionService{
		provider:        provider,
		notifier:        notifier,
		alerts:          alerts,
		audit:           audit,
		history:         history,
		redis:           redisClient,
		logger:          logger,
		maxMessageChars: opts.MaxMessageChars,
		analysisTimeout: opts.AnalysisTimeout,
	}
}

// AnalyzeText analiza un mensaje de texto. La validación local ocurre
// antes de cualquier llamada externa. Un fallo del proveedor degrada el
// turno (respuesta genérica, sin evento publicado) en vez de propagarse
// como error al usuario.
func (s *EmotionService) AnalyzeText(ctx context.Context, subjectID, text string, history []models.ChatMessage) (*AnalysisResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if len([]rune(text)) > s.maxMessageChars {
		return nil, ErrInputTooLarge
	}

	subject := utils.AnonymizeSubjectID(subjectID)
	if len(history) > 5 {
		history = history[len(history)-5:]
	}

	analysisCtx, cancel := context.WithTimeout(ctx, s.analysisTimeout)
	defer cancel()

	raw, err := s.provider.AnalyzeEmotion(analysisCtx, text, history)
	if err != nil {
		metrics.AnalysisFailures.Inc()
		s.logger.Errorw("análisis emocional falló, turno degradado",
			"subject_id", subject,
			"error", err,
		)
		return &AnalysisResult{Success: false, Response: degradedReply}, nil
	}

	analysis := sanitizeAnalysis(raw)

	event, err := models.NewEmotionEvent(
		subject,
		analysis.Emotion,
		analysis.Intensity,
		len([]rune(text)),
		analysis.Keywords,
		analysis.Recommendation,
	)
	if err != nil {
		// No debería ocurrir tras sanitizar; se degrada por seguridad.
		metrics.AnalysisFailures.Inc()
		s.logger.Errorw("construcción de evento falló", "subject_id", subject, "error", err)
		return &AnalysisResult{Success: false, Response: degradedReply}, nil
	}

	if err := s.notifier.Publish(event); err != nil {
		// Fallos de handlers: solo logging interno, el turno continúa.
		s.logger.Errorw("fallos de handlers al publicar evento",
			"event_id", event.ID,
			"error", err,
		)
	}
	metrics.EventsPublished.WithLabelValues(string(event.RiskLevel)).Inc()
	metrics.MessagesAnalyzed.Inc()

	reply := s.composeReply(ctx, text, analysis, history)
	s.rememberTurn(ctx, subject, text, reply)

	return &AnalysisResult{
		Success:  true,
		Response: reply,
		Analysis: models.EmotionAnalysisResponse{
			Emotion:        event.Emotion,
			Intensity:      event.Intensity,
			RiskLevel:      event.RiskLevel,
			Recommendation: event.Recommendation,
		},
		AlertGenerated: event.RequiresAlert(),
		Event:          event,
	}, nil
}

// AnalyzeAudio transcribe el audio y analiza el texto resultante.
func (s *EmotionService) AnalyzeAudio(ctx context.Context, subjectID string, data []byte, filename string) (*AnalysisResult, error) {
	transcription, err := s.provider.TranscribeAudio(ctx, data, filename)
	if err != nil {
		if errors.Is(err, ErrPayloadTooLarge) {
			return nil, ErrPayloadTooLarge
		}
		metrics.Transcriptions.WithLabelValues("error").Inc()
		s.logger.Errorw("transcripción falló", "error", err, "filename", filename)
		return nil, ErrEmptyTranscription
	}

	transcription = strings.TrimSpace(transcription)
	if transcription == "" {
		metrics.Transcriptions.WithLabelValues("empty").Inc()
		return nil, ErrEmptyTranscription
	}
	metrics.Transcriptions.WithLabelValues("ok").Inc()

	result, err := s.AnalyzeText(ctx, subjectID, transcription, nil)
	if err != nil {
		return nil, err
	}
	result.Transcription = transcription
	return result, nil
}

// History devuelve el historial emocional retenido de un sujeto, del
// más antiguo al más reciente.
func (s *EmotionService) History(subjectID string, limit int) []*models.EmotionEvent {
	return s.history.History(utils.AnonymizeSubjectID(subjectID), limit)
}

// Statistics devuelve los agregados del handler de auditoría.
func (s *EmotionService) Statistics() models.StatisticsResponse {
	return s.audit.Statistics()
}

// PendingAlerts devuelve las alertas sin resolver.
func (s *EmotionService) PendingAlerts() []*models.AlertRecord {
	return s.alerts.Pending()
}

// ResolveAlert marca una alerta como resuelta.
func (s *EmotionService) ResolveAlert(alertID string) error {
	return s.alerts.Resolve(alertID)
}

// ConversationHistory recupera los últimos turnos guardados en Redis.
func (s *EmotionService) ConversationHistory(ctx context.Context, subjectID string) []models.ChatMessage {
	if s.redis == nil {
		return nil
	}

	key := conversationKeyPrefix + utils.AnonymizeSubjectID(subjectID)
	entries, err := s.redis.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		s.logger.Debugw("no se pudo leer la conversación", "error", err)
		return nil
	}

	out := make([]models.ChatMessage, 0, len(entries))
	for _, entry := range entries {
		var m models.ChatMessage
		if err := json.Unmarshal([]byte(entry), &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

// composeReply genera la respuesta empática con una segunda llamada al
// modelo. Si falla, cae a la recomendación del análisis o a una
// respuesta genérica de apoyo; nunca falla el turno.
func (s *EmotionService) composeReply(ctx context.Context, text string, analysis *EmotionAnalysis, history []models.ChatMessage) string {
	messages := make([]models.ChatMessage, 0, len(history)+2)
	messages = append(messages, models.ChatMessage{
		Role:    "system",
		Content: formatEmpatheticPrompt(analysis.Emotion, analysis.Intensity),
	})
	messages = append(messages, history...)
	messages = append(messages, models.ChatMessage{Role: "user", Content: text})

	replyCtx, cancel := context.WithTimeout(ctx, s.analysisTimeout)
	defer cancel()

	reply, err := s.provider.ChatCompletion(replyCtx, messages)
	if err != nil {
		s.logger.Errorw("generación de respuesta empática falló", "error", err)
		if analysis.Recommendation != "" {
			return analysis.Recommendation
		}
		return fallbackReply
	}
	return reply
}

// rememberTurn guarda el turno en Redis, acotado y con expiración. Es
// best-effort: sin Redis o con Redis caído el turno sigue adelante.
func (s *EmotionService) rememberTurn(ctx context.Context, subject, userText, reply string) {
	if s.redis == nil {
		return
	}

	key := conversationKeyPrefix + subject
	userTurn, _ := json.Marshal(models.ChatMessage{Role: "user", Content: userText})
	assistantTurn, _ := json.Marshal(models.ChatMessage{Role: "assistant", Content: reply})

	pipe := s.redis.Pipeline()
	pipe.RPush(ctx, key, string(userTurn), string(assistantTurn))
	pipe.LTrim(ctx, key, -conversationTurns, -1)
	pipe.Expire(ctx, key, conversationTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Debugw("no se pudo guardar la conversación", "error", err)
	}
}

func formatEmpatheticPrompt(emotion string, intensity int) string {
	return fmt.Sprintf(empatheticPromptTemplate, emotion, intensity)
}

// sanitizeAnalysis normaliza un análisis mal formado del proveedor al
// valor seguro por defecto (neutral, intensidad 1) en lugar de fallar
// el turno completo.
func sanitizeAnalysis(raw *EmotionAnalysis) *EmotionAnalysis {
	if raw == nil {
		return &EmotionAnalysis{Emotion: "neutral", Intensity: 1}
	}

	analysis := *raw
	analysis.Emotion = strings.ToLower(strings.TrimSpace(analysis.Emotion))
	if analysis.Emotion == "" {
		analysis.Emotion = "neutral"
		analysis.Intensity = 1
	}
	if analysis.Intensity < 1 || analysis.Intensity > 10 {
		analysis.Emotion = "neutral"
		analysis.Intensity = 1
	}
	return &analysis
}
