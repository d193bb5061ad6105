package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/Max-llan/ChatBox/metrics"
	"github.com/Max-llan/ChatBox/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// DefaultMaxAudioBytes es el límite de tamaño de audio (10MB).
const DefaultMaxAudioBytes = 10 * 1024 * 1024

const emotionAnalysisPrompt = `Eres un asistente experto en análisis emocional y salud mental.
Analiza el texto del usuario y proporciona:
1. Emoción principal detectada (alegría, tristeza, ansiedad, enojo, miedo, neutral)
2. Intensidad emocional (escala 1-10)
3. Indicadores de riesgo (si, no, moderado)
4. Recomendaciones breves de apoyo

Responde SOLO en formato JSON como este ejemplo:
{
    "emotion": "ansiedad",
    "intensity": 7,
    "risk_level": "moderado",
    "keywords": ["preocupado", "nervioso"],
    "recommendation": "Considera técnicas de respiración profunda"
}`

// GroqClient es el adaptador del API de GroqCloud. El chat y el
// análisis emocional van por el cliente compatible con OpenAI de
// langchaingo; la transcripción usa el endpoint de audio directamente
// porque langchaingo no lo expone.
type GroqClient struct {
	chat          llms.Model
	apiKey        string
	baseURL       string
	whisperModel  string
	maxAudioBytes int64
	httpClient    *http.Client
	logger        *zap.SugaredLogger
}

// NewGroqClient crea el adaptador contra el endpoint compatible con
// OpenAI de Groq.
func NewGroqClient(apiKey, apiEndpoint, chatModel, whisperModel string, maxAudioBytes int64, logger *zap.SugaredLogger) (*GroqClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY no configurada")
	}
	if maxAudioBytes <= 0 {
		maxAudioBytes = DefaultMaxAudioBytes
	}

	chat, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(apiEndpoint),
		openai.WithModel(chatModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Groq client: %w", err)
	}

	return &GroqClient{
		chat:          chat,
		apiKey:        apiKey,
		baseURL:       strings.TrimRight(apiEndpoint, "/"),
		whisperModel:  whisperModel,
		maxAudioBytes: maxAudioBytes,
		httpClient:    &http.Client{Timeout: 60 * time.Second},
		logger:        logger,
	}, nil
}

// ChatCompletion envía la conversación al modelo de chat.
func (g *GroqClient) ChatCompletion(ctx context.Context, messages []models.ChatMessage) (string, error) {
	timer := time.Now()
	defer func() {
		metrics.ProviderRequestDuration.WithLabelValues("chat").Observe(time.Since(timer).Seconds())
	}()

	content, err := g.generate(ctx, messages, llms.WithTemperature(0.7))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExternalCall, err)
	}

	g.logger.Debugw("chat completion exitoso", "response_length", len(content))
	return content, nil
}

// AnalyzeEmotion pide al modelo un análisis emocional estructurado del
// texto, con hasta los últimos 5 turnos como contexto. Si la respuesta
// no es JSON válido se degrada a un análisis neutral con la respuesta
// cruda como recomendación, igual que hacía el adaptador original.
func (g *GroqClient) AnalyzeEmotion(ctx context.Context, text string, history []models.ChatMessage) (*EmotionAnalysis, error) {
	timer := time.Now()
	defer func() {
		metrics.ProviderRequestDuration.WithLabelValues("analyze").Observe(time.Since(timer).Seconds())
	}()

	messages := []models.ChatMessage{{Role: "system", Content: emotionAnalysisPrompt}}
	if len(history) > 5 {
		history = history[len(history)-5:]
	}
	messages = append(messages, history...)
	messages = append(messages, models.ChatMessage{
		Role:    "user",
		Content: fmt.Sprintf("Analiza este texto: '%s'", text),
	})

	// Temperatura baja para respuestas más consistentes.
	content, err := g.generate(ctx, messages, llms.WithTemperature(0.3), llms.WithMaxTokens(500))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalCall, err)
	}

	var analysis EmotionAnalysis
	if err := json.Unmarshal([]byte(extractJSON(content)), &analysis); err != nil {
		g.logger.Warnw("respuesta de análisis no es JSON válido", "error", err)
		recommendation := content
		if len(recommendation) > 200 {
			recommendation = recommendation[:200]
		}
		return &EmotionAnalysis{
			Emotion:        "neutral",
			Intensity:      5,
			RiskHint:       "no",
			Recommendation: recommendation,
		}, nil
	}

	g.logger.Debugw("análisis emocional completado",
		"emotion", analysis.Emotion,
		"intensity", analysis.Intensity,
	)
	return &analysis, nil
}

// TranscribeAudio transcribe audio a texto con Whisper.
func (g *GroqClient) TranscribeAudio(ctx context.Context, data []byte, filename string) (string, error) {
	if int64(len(data)) > g.maxAudioBytes {
		return "", ErrPayloadTooLarge
	}

	timer := time.Now()
	defer func() {
		metrics.ProviderRequestDuration.WithLabelValues("transcribe").Observe(time.Since(timer).Seconds())
	}()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExternalCall, err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExternalCall, err)
	}
	_ = writer.WriteField("model", g.whisperModel)
	_ = writer.WriteField("temperature", "0")
	_ = writer.WriteField("response_format", "json")
	_ = writer.WriteField("language", "es")
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExternalCall, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExternalCall, err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExternalCall, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		g.logger.Errorw("transcripción rechazada por el proveedor",
			"status", resp.StatusCode,
			"body", string(raw),
		)
		return "", fmt.Errorf("%w: estado %d", ErrExternalCall, resp.StatusCode)
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExternalCall, err)
	}

	g.logger.Debugw("transcripción exitosa", "text_length", len(parsed.Text))
	return parsed.Text, nil
}

func (g *GroqClient) generate(ctx context.Context, messages []models.ChatMessage, options ...llms.CallOption) (string, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		content = append(content, llms.MessageContent{
			Role:  roleToMessageType(m.Role),
			Parts: []llms.ContentPart{llms.TextPart(m.Content)},
		})
	}

	response, err := g.chat.GenerateContent(ctx, content, options...)
	if err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("el modelo no generó contenido")
	}
	return response.Choices[0].Content, nil
}

func roleToMessageType(role string) llms.ChatMessageType {
	switch role {
	case "system":
		return llms.ChatMessageTypeSystem
	case "assistant":
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

// extractJSON recorta la respuesta al primer objeto JSON que contenga,
// tolerando bloques de código y texto alrededor.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}
