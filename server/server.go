// Package server exposes the agent over HTTP with gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	_ "github.com/Desarso/toolchat/docs"
	"github.com/Desarso/toolchat/models"
	"github.com/Desarso/toolchat/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/swaggo/swag"
)

const (
	healthMessage        = "Everything is working fine"
	internalErrorMessage = "Internal server error."
)

// Server routes chat requests to the agent.
type Server struct {
	Agent   sessions.AgentInterface
	Pool    *sessions.WorkerPool
	Timeout time.Duration
	Logger  *log.Logger

	engine *gin.Engine
}

// New builds the gin engine and its routes.
func New(agent sessions.AgentInterface, pool *sessions.WorkerPool, timeout time.Duration) *Server {
	s := &Server{
		Agent:   agent,
		Pool:    pool,
		Timeout: timeout,
		Logger:  log.New(os.Stdout, "[Server] ", log.LstdFlags),
	}

	engine := gin.New()
	engine.Use(gin.Logger(), gin.CustomRecovery(s.recoverPanic))
	engine.GET("/", s.health)
	engine.POST("/v1/chat", s.chat)
	engine.GET("/swagger/doc.json", s.openAPI)
	s.engine = engine
	return s
}

// Router returns the bare gin engine.
func (s *Server) Router() *gin.Engine {
	return s.engine
}

// Handler returns the engine wrapped in a CORS layer that accepts any origin,
// method and header, with credentials.
func (s *Server) Handler() http.Handler {
	return newCORS().Handler(s.engine)
}

func newCORS() *cors.Cors {
	return cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Printf("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}
	return nil
}

// health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router / [get]
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Message: healthMessage})
}

// chat godoc
// @Summary Run the agent over a conversation
// @Tags chat
// @Accept json
// @Produce json
// @Param request body models.Chat_Request true "Conversation so far"
// @Success 200 {object} models.Chat_Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /v1/chat [post]
func (s *Server) chat(c *gin.Context) {
	var req models.Chat_Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	requestID := uuid.NewString()
	c.Header("X-Request-ID", requestID)
	session := sessions.NewHTTPSession(requestID, s.Agent, s.Pool, s.Timeout)

	response, err := session.Run(c.Request.Context(), req.Messages)
	if err != nil {
		s.writeError(c, requestID, err)
		return
	}
	c.JSON(http.StatusOK, models.Chat_Response{Response: response})
}

func (s *Server) writeError(c *gin.Context, requestID string, err error) {
	var agentErr *sessions.AgentError
	if errors.As(err, &agentErr) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: agentErr.Message})
		return
	}
	s.Logger.Printf("[%s] Unhandled error: %v", requestID, err)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: internalErrorMessage})
}

func (s *Server) recoverPanic(c *gin.Context, recovered any) {
	s.Logger.Printf("Panic in %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
	c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{Error: internalErrorMessage})
}

func (s *Server) openAPI(c *gin.Context) {
	doc, err := swag.ReadDoc()
	if err != nil {
		s.Logger.Printf("Reading OpenAPI document: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: internalErrorMessage})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
}
