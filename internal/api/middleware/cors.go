package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS повертає middleware з відкритим CORS для introspection-ендпоїнтів.
// Шлюз читають дашборди з довільних доменів, тож origin не обмежуємо.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
