package handler

import "github.com/gin-gonic/gin"

// HealthHandler answers liveness probes.
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	}
}
