package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Max-llan/ChatBox/events"
	"github.com/Max-llan/ChatBox/models"
	"github.com/Max-llan/ChatBox/observers"
	"github.com/Max-llan/ChatBox/utils"
	"go.uber.org/zap"
)

// stubProvider sustituye al proveedor de IA en pruebas.
type stubProvider struct {
	analysis      *EmotionAnalysis
	analyzeErr    error
	chatReply     string
	chatErr       error
	transcription string
	transcribeErr error

	analyzeCalls    int
	chatCalls       int
	transcribeCalls int
	lastHistory     []models.ChatMessage
}

func (s *stubProvider) ChatCompletion(ctx context.Context, messages []models.ChatMessage) (string, error) {
	s.chatCalls++
	if s.chatErr != nil {
		return "", s.chatErr
	}
	return s.chatReply, nil
}

func (s *stubProvider) TranscribeAudio(ctx context.Context, data []byte, filename string) (string, error) {
	s.transcribeCalls++
	if s.transcribeErr != nil {
		return "", s.transcribeErr
	}
	return s.transcription, nil
}

func (s *stubProvider) AnalyzeEmotion(ctx context.Context, text string, history []models.ChatMessage) (*EmotionAnalysis, error) {
	s.analyzeCalls++
	s.lastHistory = history
	if s.analyzeErr != nil {
		return nil, s.analyzeErr
	}
	return s.analysis, nil
}

type serviceFixture struct {
	service  *EmotionService
	provider *stubProvider
	alerts   *observers.AlertHandler
	audit    *observers.AuditHandler
	history  *observers.HistoryHandler
}

func newFixture(provider *stubProvider) *serviceFixture {
	logger := zap.NewNop().Sugar()
	notifier := events.NewNotifier(logger)
	alerts := observers.NewAlertHandler(10, logger)
	audit := observers.NewAuditHandler(logger)
	history := observers.NewHistoryHandler(10)

	notifier.Register(alerts)
	notifier.Register(audit)
	notifier.Register(history)

	service := NewEmotionService(provider, notifier, alerts, audit, history, nil, logger, EmotionServiceOptions{})
	return &serviceFixture{service: service, provider: provider, alerts: alerts, audit: audit, history: history}
}

func TestAnalyzeTextCriticalScenario(t *testing.T) {
	f := newFixture(&stubProvider{
		analysis: &EmotionAnalysis{
			Emotion:        "pánico",
			Intensity:      9,
			RiskHint:       "si",
			Recommendation: "busca ayuda profesional",
		},
		chatReply: "Lamento que estés pasando por esto.",
	})

	result, err := f.service.AnalyzeText(context.Background(), "usuario-1", "no puedo más con esta situación", nil)
	if err != nil {
		t.Fatalf("AnalyzeText: %v", err)
	}

	if !result.Success {
		t.Error("el turno debió completarse")
	}
	if result.Analysis.RiskLevel != models.RiskCritical {
		t.Errorf("RiskLevel = %s, se esperaba CRITICAL", result.Analysis.RiskLevel)
	}
	if !result.AlertGenerated {
		t.Error("pánico con intensidad 9 debe generar alerta")
	}
	if result.Response != "Lamento que estés pasando por esto." {
		t.Errorf("respuesta = %q", result.Response)
	}

	if total, _ := f.alerts.Statistics(); total != 1 {
		t.Errorf("alertas = %d, se esperaba 1", total)
	}
	if f.audit.RecordCount() != 1 {
		t.Errorf("registros de auditoría = %d, se esperaba 1", f.audit.RecordCount())
	}
}

func TestAnalyzeTextLowRiskScenario(t *testing.T) {
	f := newFixture(&stubProvider{
		analysis:  &EmotionAnalysis{Emotion: "alegría", Intensity: 3},
		chatReply: "¡Qué bueno escuchar eso!",
	})

	result, err := f.service.AnalyzeText(context.Background(), "usuario-1", "hoy fue un gran día", nil)
	if err != nil {
		t.Fatalf("AnalyzeText: %v", err)
	}

	if result.Analysis.RiskLevel != models.RiskLow {
		t.Errorf("RiskLevel = %s, se esperaba LOW", result.Analysis.RiskLevel)
	}
	if result.AlertGenerated {
		t.Error("alegría con intensidad 3 no debe generar alerta")
	}
	if total, _ := f.alerts.Statistics(); total != 0 {
		t.Errorf("alertas = %d, se esperaba 0", total)
	}
	if f.audit.RecordCount() != 1 {
		t.Error("la auditoría registra todos los eventos, también los de bajo riesgo")
	}
}

func TestAnalyzeTextRejectsOversizeBeforeProviderCall(t *testing.T) {
	provider := &stubProvider{analysis: &EmotionAnalysis{Emotion: "neutral", Intensity: 1}}
	f := newFixture(provider)

	_, err := f.service.AnalyzeText(context.Background(), "usuario-1", strings.Repeat("a", 2500), nil)
	if !errors.Is(err, ErrInputTooLarge) {
		t.Fatalf("se esperaba ErrInputTooLarge, se obtuvo %v", err)
	}
	if provider.analyzeCalls != 0 {
		t.Error("el proveedor no debe llamarse cuando la validación local rechaza")
	}
	if f.audit.RecordCount() != 0 {
		t.Error("un mensaje rechazado no debe publicar eventos")
	}
}

func TestAnalyzeTextRejectsEmptyMessage(t *testing.T) {
	provider := &stubProvider{}
	f := newFixture(provider)

	if _, err := f.service.AnalyzeText(context.Background(), "usuario-1", "   ", nil); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("se esperaba ErrEmptyMessage, se obtuvo %v", err)
	}
	if provider.analyzeCalls != 0 {
		t.Error("el proveedor no debe llamarse con mensaje vacío")
	}
}

func TestAnalyzeTextDegradesOnProviderFailure(t *testing.T) {
	f := newFixture(&stubProvider{analyzeErr: errors.New("timeout del proveedor")})

	result, err := f.service.AnalyzeText(context.Background(), "usuario-1", "me siento mal", nil)
	if err != nil {
		t.Fatalf("un fallo del proveedor no debe propagarse como error: %v", err)
	}

	if result.Success {
		t.Error("el turno degradado no es exitoso")
	}
	if strings.Contains(result.Response, "timeout") {
		t.Error("la respuesta degradada no debe exponer el error del proveedor")
	}
	if result.Response == "" {
		t.Error("el turno degradado debe llevar una respuesta genérica")
	}
	if f.audit.RecordCount() != 0 {
		t.Error("un turno degradado no publica eventos")
	}
	if total, _ := f.alerts.Statistics(); total != 0 {
		t.Error("un turno degradado no genera alertas")
	}
	if len(f.service.History("usuario-1", 0)) != 0 {
		t.Error("un turno degradado no deja historial")
	}
}

func TestAnalyzeTextSanitizesMalformedAnalysis(t *testing.T) {
	cases := []struct {
		name     string
		analysis *EmotionAnalysis
	}{
		{"intensidad fuera de rango", &EmotionAnalysis{Emotion: "tristeza", Intensity: 99}},
		{"intensidad cero", &EmotionAnalysis{Emotion: "tristeza", Intensity: 0}},
		{"emoción vacía", &EmotionAnalysis{Emotion: "", Intensity: 6}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(&stubProvider{analysis: tc.analysis, chatReply: "aquí estoy"})

			result, err := f.service.AnalyzeText(context.Background(), "usuario-1", "hola", nil)
			if err != nil {
				t.Fatalf("AnalyzeText: %v", err)
			}
			if result.Analysis.Emotion != "neutral" || result.Analysis.Intensity != 1 {
				t.Errorf("análisis saneado = %s/%d, se esperaba neutral/1",
					result.Analysis.Emotion, result.Analysis.Intensity)
			}
			if result.Analysis.RiskLevel != models.RiskLow {
				t.Errorf("RiskLevel = %s", result.Analysis.RiskLevel)
			}
		})
	}
}

func TestAnalyzeTextBoundsHistoryToFiveTurns(t *testing.T) {
	provider := &stubProvider{
		analysis:  &EmotionAnalysis{Emotion: "neutral", Intensity: 2},
		chatReply: "ok",
	}
	f := newFixture(provider)

	history := make([]models.ChatMessage, 12)
	for i := range history {
		history[i] = models.ChatMessage{Role: "user", Content: "turno"}
	}

	if _, err := f.service.AnalyzeText(context.Background(), "usuario-1", "hola", history); err != nil {
		t.Fatal(err)
	}
	if len(provider.lastHistory) != 5 {
		t.Errorf("se enviaron %d turnos al proveedor, el máximo es 5", len(provider.lastHistory))
	}
}

func TestAnalyzeTextFallsBackWhenReplyFails(t *testing.T) {
	f := newFixture(&stubProvider{
		analysis: &EmotionAnalysis{Emotion: "tristeza", Intensity: 4, Recommendation: "sal a caminar un rato"},
		chatErr:  errors.New("proveedor caído"),
	})

	result, err := f.service.AnalyzeText(context.Background(), "usuario-1", "estoy triste", nil)
	if err != nil {
		t.Fatal(err)
	}
	// El análisis llegó, solo falló la respuesta: el evento se publica y
	// la recomendación hace de respuesta.
	if !result.Success {
		t.Error("el turno debe completarse con la respuesta de respaldo")
	}
	if result.Response != "sal a caminar un rato" {
		t.Errorf("respuesta = %q", result.Response)
	}
	if f.audit.RecordCount() != 1 {
		t.Error("el evento debe publicarse aunque falle la respuesta empática")
	}
}

func TestHistoryIsPerSubjectAndAnonymized(t *testing.T) {
	f := newFixture(&stubProvider{
		analysis:  &EmotionAnalysis{Emotion: "tristeza", Intensity: 5},
		chatReply: "ok",
	})

	if _, err := f.service.AnalyzeText(context.Background(), "usuario-1", "hola", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.AnalyzeText(context.Background(), "usuario-2", "hola", nil); err != nil {
		t.Fatal(err)
	}

	got := f.service.History("usuario-1", 0)
	if len(got) != 1 {
		t.Fatalf("historial de usuario-1 = %d eventos", len(got))
	}
	if got[0].SubjectID == "usuario-1" {
		t.Error("el evento debe guardar el identificador anonimizado, no el original")
	}
	if got[0].SubjectID != utils.AnonymizeSubjectID("usuario-1") {
		t.Error("el identificador anonimizado debe ser estable por sujeto")
	}
}

func TestAnalyzeAudio(t *testing.T) {
	f := newFixture(&stubProvider{
		transcription: "me siento muy nervioso",
		analysis:      &EmotionAnalysis{Emotion: "ansiedad", Intensity: 6},
		chatReply:     "respira conmigo",
	})

	result, err := f.service.AnalyzeAudio(context.Background(), "usuario-1", []byte("audio"), "nota.m4a")
	if err != nil {
		t.Fatalf("AnalyzeAudio: %v", err)
	}
	if result.Transcription != "me siento muy nervioso" {
		t.Errorf("transcripción = %q", result.Transcription)
	}
	if result.Analysis.Emotion != "ansiedad" {
		t.Errorf("emoción = %q", result.Analysis.Emotion)
	}
}

func TestAnalyzeAudioPayloadTooLarge(t *testing.T) {
	f := newFixture(&stubProvider{transcribeErr: ErrPayloadTooLarge})

	if _, err := f.service.AnalyzeAudio(context.Background(), "usuario-1", []byte("enorme"), "a.m4a"); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("se esperaba ErrPayloadTooLarge, se obtuvo %v", err)
	}
}

func TestAnalyzeAudioEmptyTranscription(t *testing.T) {
	provider := &stubProvider{transcription: "   "}
	f := newFixture(provider)

	if _, err := f.service.AnalyzeAudio(context.Background(), "usuario-1", []byte("audio"), "a.m4a"); !errors.Is(err, ErrEmptyTranscription) {
		t.Fatalf("se esperaba ErrEmptyTranscription, se obtuvo %v", err)
	}
	if provider.analyzeCalls != 0 {
		t.Error("sin transcripción no hay análisis")
	}
}
