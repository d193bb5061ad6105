package routes

import (
	"github.com/Max-llan/ChatBox/controllers"
	"github.com/Max-llan/ChatBox/middleware"
	"github.com/Max-llan/ChatBox/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes registra los endpoints del servicio.
func RegisterRoutes(r *gin.Engine, emotionService *services.EmotionService, sessionSecret string, maxAudioBytes int64) {
	chatController := controllers.NewChatController(emotionService, maxAudioBytes)

	api := r.Group("/api/v1")
	api.Use(middleware.Session(sessionSecret))
	{
		api.POST("/chat/send", chatController.SendMessage)
		api.POST("/chat/transcribe", chatController.TranscribeAudio)
		api.GET("/chat/history", chatController.GetHistory)
		api.GET("/chat/statistics", chatController.GetStatistics)

		api.GET("/alerts/pending", chatController.GetPendingAlerts)
		api.POST("/alerts/:id/resolve", chatController.ResolveAlert)
	}

	// Métricas Prometheus
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Ruta de prueba
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
