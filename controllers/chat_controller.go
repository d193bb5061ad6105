package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/Max-llan/ChatBox/config"
	"github.com/Max-llan/ChatBox/models"
	"github.com/Max-llan/ChatBox/services"
	"github.com/gin-gonic/gin"
)

func audioTooLargeMessage(limit int64) string {
	return fmt.Sprintf("Archivo de audio demasiado grande (máximo %dMB)", limit/(1024*1024))
}

// ChatController expone el flujo de análisis emocional a la capa HTTP.
type ChatController struct {
	emotionService *services.EmotionService
	maxAudioBytes  int64
}

// NewChatController crea el controlador. maxAudioBytes es el mismo
// límite configurado en el cliente de Groq, para que el pre-chequeo de
// la subida y el límite real no diverjan.
func NewChatController(emotionService *services.EmotionService, maxAudioBytes int64) *ChatController {
	if maxAudioBytes <= 0 {
		maxAudioBytes = services.DefaultMaxAudioBytes
	}
	return &ChatController{emotionService: emotionService, maxAudioBytes: maxAudioBytes}
}

// SendMessage procesa un mensaje de texto: análisis emocional completo
// más respuesta empática.
func (c *ChatController) SendMessage(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Usuario no identificado", "success": false})
		return
	}

	var request models.SendMessageRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Formato de datos inválido", "success": false})
		return
	}

	history := request.History
	if len(history) == 0 {
		// Sin historial del cliente se usa la memoria de conversación.
		history = c.emotionService.ConversationHistory(ctx, uid.(string))
	}

	result, err := c.emotionService.AnalyzeText(ctx, uid.(string), request.Message, history)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Mensaje vacío", "success": false})
		case errors.Is(err, services.ErrInputTooLarge):
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error":   "Mensaje demasiado largo (máximo 2000 caracteres)",
				"success": false,
			})
		default:
			config.Logger.Errorw("error en SendMessage", "error", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno del servidor", "success": false})
		}
		return
	}

	config.Logger.Infow("mensaje procesado",
		"emotion", result.Analysis.Emotion,
		"risk_level", result.Analysis.RiskLevel,
		"alert", result.AlertGenerated,
	)

	ctx.JSON(http.StatusOK, models.SendMessageResponse{
		Success:         result.Success,
		Response:        result.Response,
		EmotionAnalysis: result.Analysis,
		AlertGenerated:  result.AlertGenerated,
	})
}

// TranscribeAudio transcribe un archivo de audio y analiza el texto
// resultante.
func (c *ChatController) TranscribeAudio(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Usuario no identificado", "success": false})
		return
	}

	fileHeader, err := ctx.FormFile("audio")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No se recibió archivo de audio", "success": false})
		return
	}

	if fileHeader.Size > c.maxAudioBytes {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   audioTooLargeMessage(c.maxAudioBytes),
			"success": false,
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error al procesar el audio", "success": false})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error al procesar el audio", "success": false})
		return
	}

	result, err := c.emotionService.AnalyzeAudio(ctx, uid.(string), data, fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPayloadTooLarge):
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error":   audioTooLargeMessage(c.maxAudioBytes),
				"success": false,
			})
		case errors.Is(err, services.ErrEmptyTranscription):
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"error":   "No se pudo transcribir el audio",
				"success": false,
			})
		default:
			config.Logger.Errorw("error en TranscribeAudio", "error", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error al procesar el audio", "success": false})
		}
		return
	}

	ctx.JSON(http.StatusOK, models.TranscribeResponse{
		Success:         result.Success,
		Transcription:   result.Transcription,
		Response:        result.Response,
		EmotionAnalysis: result.Analysis,
		AlertGenerated:  result.AlertGenerated,
	})
}

// GetHistory devuelve el historial emocional del sujeto de la sesión.
func (c *ChatController) GetHistory(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Usuario no identificado", "success": false})
		return
	}

	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if err != nil || limit < 0 {
		limit = 10
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"history": c.emotionService.History(uid.(string), limit),
	})
}

// GetStatistics devuelve los agregados del análisis emocional.
func (c *ChatController) GetStatistics(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"statistics": c.emotionService.Statistics(),
	})
}

// GetPendingAlerts lista las alertas sin resolver.
func (c *ChatController) GetPendingAlerts(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"alerts":  c.emotionService.PendingAlerts(),
	})
}

// ResolveAlert marca una alerta como resuelta.
func (c *ChatController) ResolveAlert(ctx *gin.Context) {
	alertID := ctx.Param("id")
	if err := c.emotionService.ResolveAlert(alertID); err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Alerta no encontrada", "success": false})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
