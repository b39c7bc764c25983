package middleware

import (
	"harmonic/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS returns a configured CORS middleware
func CORS() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = config.GetCORSOrigins()
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Range", RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Length", "Content-Range", RequestIDHeader}

	return cors.New(corsConfig)
}
