package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const sessionCookie = "chatbox_session"

// SessionClaims lleva el identificador anónimo del sujeto en la cookie
// de sesión.
type SessionClaims struct {
	SubjectID string `json:"subject_id"`
	jwt.RegisteredClaims
}

// Session asigna a cada visitante un identificador anónimo estable,
// firmado en una cookie JWT. No hay cuentas ni autenticación: la cookie
// solo permite correlacionar el historial de un mismo navegador.
func Session(secret string) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		if tokenString, err := c.Cookie(sessionCookie); err == nil {
			claims := &SessionClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
				return key, nil
			})
			if err == nil && token.Valid && claims.SubjectID != "" {
				c.Set("uid", claims.SubjectID)
				c.Next()
				return
			}
		}

		// Cookie ausente o inválida: se emite una sesión nueva.
		subjectID := uuid.New().String()
		claims := &SessionClaims{
			SubjectID: subjectID,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour * 30)),
			},
		}

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString(key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":   "Error interno del servidor",
				"success": false,
			})
			return
		}

		c.SetCookie(sessionCookie, signed, int((24 * time.Hour * 30).Seconds()), "/", "", false, true)
		c.Set("uid", subjectID)
		c.Next()
	}
}
