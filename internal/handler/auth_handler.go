package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prepbuddy/internal/session"
)

type AuthHandler struct {
	sessions *session.Manager
	logger   *zap.Logger
}

func NewAuthHandler(sessions *session.Manager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	u, err := h.sessions.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Warn("Sign-up rejected", zap.String("email", req.Email), zap.Error(err))
		writeError(c, err)
		return
	}

	// The account stays unauthenticated until confirmed.
	c.JSON(http.StatusCreated, gin.H{
		"user_id":   u.ID,
		"email":     u.Email,
		"confirmed": u.ConfirmedAt != nil,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	s, err := h.sessions.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Warn("Sign-in rejected", zap.String("email", req.Email), zap.Error(err))
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   s.Token,
		"user_id": s.UserID,
		"mode":    s.Mode,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	s, ok := SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
		return
	}

	if err := h.sessions.SignOut(c.Request.Context(), s); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "signed out"})
}
