package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Meliisa9/streamer-s-sanctuary-sub002/application"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/config"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Server is the HTTP surface for the prediction engine
type Server struct {
	httpServer *http.Server
}

// New builds the router and wires every handler
func New(cfg *config.Config, uowFactory application.UnitOfWorkFactory) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	predictionHandler := NewPredictionHandler(uowFactory)
	walletHandler := NewWalletHandler(uowFactory)

	api := router.Group("/api")
	api.Use(AuthMiddleware())
	{
		api.GET("/predictions", predictionHandler.ListPredictions)
		api.GET("/predictions/:id", predictionHandler.GetPrediction)
		api.POST("/predictions", RequireOperator(), predictionHandler.CreatePrediction)
		api.POST("/predictions/:id/lock", RequireOperator(), predictionHandler.LockPrediction)
		api.POST("/predictions/:id/resolve", RequireOperator(), predictionHandler.ResolvePrediction)
		api.POST("/predictions/:id/bets", predictionHandler.PlaceBet)
		api.GET("/predictions/:id/bet", predictionHandler.GetUserBet)

		api.GET("/wallet", walletHandler.GetWallet)
		api.GET("/wallet/transactions", walletHandler.GetTransactions)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// Run starts the HTTP server and blocks until it stops
func (s *Server) Run() error {
	log.WithField("addr", s.httpServer.Addr).Info("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// requestLogger logs each request with method, path, status and latency
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Info("Request handled")
	}
}
