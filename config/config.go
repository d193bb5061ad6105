package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config almacena toda la configuración del servicio.
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	ServerPort  string `mapstructure:"SERVER_PORT"`

	// GroqCloud
	GroqAPIKey       string `mapstructure:"GROQ_API_KEY"`
	GroqAPIEndpoint  string `mapstructure:"GROQ_API_ENDPOINT"`
	GroqChatModel    string `mapstructure:"GROQ_CHAT_MODEL"`
	GroqWhisperModel string `mapstructure:"GROQ_WHISPER_MODEL"`

	// Base de datos (colaborador de persistencia, opcional)
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`

	// Redis (memoria de conversación, opcional)
	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     string `mapstructure:"REDIS_PORT"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// Sesión anónima
	SessionSecret string `mapstructure:"SESSION_SECRET"`

	// Límites del análisis
	MaxMessageChars        int `mapstructure:"MAX_MESSAGE_CHARS"`
	MaxAudioBytes          int `mapstructure:"MAX_AUDIO_BYTES"`
	AnalysisTimeoutSeconds int `mapstructure:"ANALYSIS_TIMEOUT_SECONDS"`
	AlertBufferCapacity    int `mapstructure:"ALERT_BUFFER_CAPACITY"`
}

// LoadConfig carga la configuración desde variables de entorno o el
// archivo .env.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8000")
	viper.SetDefault("GROQ_API_ENDPOINT", "https://api.groq.com/openai/v1")
	viper.SetDefault("GROQ_CHAT_MODEL", "openai/gpt-oss-120b")
	viper.SetDefault("GROQ_WHISPER_MODEL", "whisper-large-v3")

	err = viper.ReadInConfig()
	if err != nil {
		// Se permite que el archivo no exista; en ese caso todo viene
		// de variables de entorno.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	err = viper.Unmarshal(&config)
	return
}

// GetDBConnString devuelve el DSN de MySQL.
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// GetRedisConnString devuelve la dirección de Redis.
func (c *Config) GetRedisConnString() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
