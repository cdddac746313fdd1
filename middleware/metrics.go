package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hexpertify/moodlift/utils"
)

// Metrics records request counts and latency by matched route.
func Metrics() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := ctx.Request.Method
		utils.HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(ctx.Writer.Status())).Inc()
		utils.HTTPRequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
