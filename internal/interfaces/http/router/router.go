package router

import (
	"net/http"
	"time"

	"github.com/erp/checkout-fields/internal/infrastructure/logger"
	"github.com/erp/checkout-fields/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports whether the backing database connection is alive
type Pinger interface {
	Ping() error
}

// New builds the gin engine with the checkout routes
func New(checkoutHandler *handler.CheckoutHandler, db Pinger, log *zap.Logger) *gin.Engine {
	handler.SetupValidator()

	engine := gin.New()
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	engine.GET("/health", func(c *gin.Context) {
		if db != nil {
			if err := db.Ping(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":   "unhealthy",
					"time":     time.Now().Format(time.RFC3339),
					"database": "error",
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	})

	v1 := engine.Group("/api/v1")
	{
		v1.GET("/checkout/fields", checkoutHandler.ListFields)
		v1.PUT("/checkout/:orderID", checkoutHandler.UpdateDraft)
		v1.POST("/checkout/:orderID", checkoutHandler.Submit)
	}

	return engine
}
