package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rawblock/subset-ordering/internal/ordering"
	"github.com/rawblock/subset-ordering/pkg/models"
)

// TxSource fetches a transaction's outputs. *bitcoin.Client satisfies it.
type TxSource interface {
	GetTransaction(txid string) (models.Transaction, error)
}

// Config carries the router settings read from the environment.
type Config struct {
	AuthToken       string
	AllowedOrigins  string // comma separated; empty or "*" allows any origin
	RateLimitPerMin int
	RateLimitBurst  int
	MaxTuples       uint64 // verification budget, see ordering.VerifyBounded
	ReleaseMode     bool
}

type APIHandler struct {
	txSource  TxSource
	maxTuples uint64
}

// SetupRouter builds the engine. txSource may be nil, in which case the
// transaction endpoint answers 503. Background sweeping of rate-limit
// buckets stops when ctx is done.
func SetupRouter(ctx context.Context, cfg Config, txSource TxSource) *gin.Engine {
	r := gin.Default()
	r.Use(RequestID())

	// CORS, configurable via ALLOWED_ORIGINS
	allowedOrigins := cfg.AllowedOrigins
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Authorization, X-Request-ID, accept, origin")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	maxTuples := cfg.MaxTuples
	if maxTuples == 0 {
		maxTuples = ordering.DefaultMaxTuples
	}
	handler := &APIHandler{txSource: txSource, maxTuples: maxTuples}

	api := r.Group("/api/v1")
	api.GET("/health", handler.handleHealth)

	limiter := NewRateLimiter(cfg.RateLimitPerMin, cfg.RateLimitBurst)
	go limiter.Run(ctx)
	protected := api.Group("")
	protected.Use(AuthMiddleware(cfg.AuthToken, cfg.ReleaseMode), limiter.Middleware())
	{
		protected.POST("/ordering", handler.handleOrdering)
		protected.POST("/ordering/verify", handler.handleVerify)
		protected.POST("/ordering/encode", handler.handleEncode)
		protected.POST("/ordering/decode", handler.handleDecode)
		protected.GET("/ordering/tx/:txid", handler.handleOrderingTx)
		protected.POST("/digitmap", handler.handleDigitMap)
	}

	return r
}

// handleHealth returns engine status and limits for service discovery
func (h *APIHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "operational",
		"engine": "Subset-Sum Ordering Engine v1.0",
		"limits": gin.H{
			"maxVerifyTuples":  h.maxTuples,
			"maxGroupSize":     ordering.MaxGroupSize,
			"maxDigitMapGroup": MaxDigitMapGroup,
		},
		"bitcoinRpc": h.txSource != nil,
	})
}
