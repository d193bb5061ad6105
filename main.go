package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Max-llan/ChatBox/config"
	"github.com/Max-llan/ChatBox/events"
	"github.com/Max-llan/ChatBox/middleware"
	"github.com/Max-llan/ChatBox/observers"
	"github.com/Max-llan/ChatBox/routes"
	"github.com/Max-llan/ChatBox/services"
	"github.com/gin-gonic/gin"
)

func main() {
	// Inicializar log
	if err := config.InitLogger(); err != nil {
		log.Fatalf("no se pudo inicializar el log: %v", err)
	}
	defer config.Logger.Sync()

	// Cargar configuración
	conf, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("no se pudo cargar la configuración: %v", err)
	}

	// Base de datos opcional: sin configuración, los eventos solo viven
	// en memoria (el núcleo no exige persistencia).
	storageEnabled := conf.DBHost != ""
	if storageEnabled {
		if err := config.InitDB(conf); err != nil {
			log.Fatalf("no se pudo inicializar la base de datos: %v", err)
		}
	}

	// Redis opcional: memoria de conversación entre turnos.
	redisEnabled := conf.RedisHost != ""
	if redisEnabled {
		if err := config.InitRedis(conf); err != nil {
			log.Fatalf("no se pudo inicializar Redis: %v", err)
		}
	}

	// Cliente de GroqCloud
	groqClient, err := services.NewGroqClient(
		conf.GroqAPIKey,
		conf.GroqAPIEndpoint,
		conf.GroqChatModel,
		conf.GroqWhisperModel,
		int64(conf.MaxAudioBytes),
		config.Logger,
	)
	if err != nil {
		log.Fatalf("no se pudo inicializar el cliente de Groq: %v", err)
	}

	// Notificador de eventos y handlers, en orden de registro fijo:
	// alertas, auditoría, historial y (si hay base de datos) persistencia.
	notifier := events.NewNotifier(config.Logger)
	alertHandler := observers.NewAlertHandler(conf.AlertBufferCapacity, config.Logger)
	auditHandler := observers.NewAuditHandler(config.NewAuditLogger())
	historyHandler := observers.NewHistoryHandler(0)

	notifier.Register(alertHandler)
	notifier.Register(auditHandler)
	notifier.Register(historyHandler)
	if storageEnabled {
		notifier.Register(observers.NewStorageHandler(config.DB))
	}

	// Orquestador
	emotionService := services.NewEmotionService(
		groqClient,
		notifier,
		alertHandler,
		auditHandler,
		historyHandler,
		config.RedisClient,
		config.Logger,
		services.EmotionServiceOptions{
			MaxMessageChars: conf.MaxMessageChars,
			AnalysisTimeout: time.Duration(conf.AnalysisTimeoutSeconds) * time.Second,
		},
	)

	// Modo de Gin
	if conf.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Middlewares
	middleware.SetupMiddleware(r)

	// Rutas
	routes.RegisterRoutes(r, emotionService, conf.SessionSecret, int64(conf.MaxAudioBytes))

	srv := &http.Server{
		Addr:    ":" + conf.ServerPort,
		Handler: r,
	}

	go func() {
		log.Printf("servidor escuchando en el puerto %s", conf.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("el servidor no pudo arrancar: %v", err)
		}
	}()

	// Cierre ordenado
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("cerrando el servidor...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("el cierre del servidor falló: %v", err)
	}

	log.Println("servidor cerrado")
}
