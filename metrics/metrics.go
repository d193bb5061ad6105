package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesAnalyzed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatbox_messages_analyzed_total",
		Help: "Total de mensajes que completaron el análisis emocional.",
	})

	AnalysisFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatbox_analysis_failures_total",
		Help: "Total de turnos degradados por fallo del proveedor de IA.",
	})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chatbox_events_published_total",
		Help: "Eventos emocionales publicados, etiquetados por nivel de riesgo.",
	}, []string{"risk_level"})

	AlertsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chatbox_alerts_generated_total",
		Help: "Alertas generadas, etiquetadas por nivel de riesgo.",
	}, []string{"risk_level"})

	ProviderRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chatbox_provider_request_duration_seconds",
		Help:    "Latencia de llamadas al proveedor de IA por operación.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
	}, []string{"operation"})

	Transcriptions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chatbox_transcriptions_total",
		Help: "Transcripciones de audio, etiquetadas por resultado.",
	}, []string{"status"})
)
