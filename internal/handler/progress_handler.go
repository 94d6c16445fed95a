package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prepbuddy/internal/store"
)

type ProgressHandler struct {
	registry *store.Registry
	logger   *zap.Logger
}

func NewProgressHandler(registry *store.Registry, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{registry: registry, logger: logger}
}

func (h *ProgressHandler) GetProgress(c *gin.Context) {
	st, ok := storeFor(c, h.registry)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, st.Progress())
}

func (h *ProgressHandler) GetDayStats(c *gin.Context) {
	st, ok := storeFor(c, h.registry)
	if !ok {
		return
	}

	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day"})
		return
	}
	c.JSON(http.StatusOK, st.GetDayStats(day))
}

func (h *ProgressHandler) GetOverallStats(c *gin.Context) {
	st, ok := storeFor(c, h.registry)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, st.GetOverallStats())
}

type navigateRequest struct {
	Direction string `json:"direction" binding:"required"`
	Confirm   bool   `json:"confirm"`
}

// NavigateDay moves the day cursor. The request's confirm flag is the
// caller's answer to the confirmation gate; the store only consults it
// when the current day has incomplete tasks.
func (h *ProgressHandler) NavigateDay(c *gin.Context) {
	st, ok := storeFor(c, h.registry)
	if !ok {
		return
	}

	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction required"})
		return
	}

	dir := store.Direction(req.Direction)
	if dir != store.DirPrev && dir != store.DirNext {
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be prev or next"})
		return
	}

	ctx := store.WithDecision(c.Request.Context(), req.Confirm)
	if err := st.NavigateDay(ctx, dir); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st.Progress())
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

func (h *ProgressHandler) ResetProgress(c *gin.Context) {
	st, ok := storeFor(c, h.registry)
	if !ok {
		return
	}

	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	ctx := store.WithDecision(c.Request.Context(), req.Confirm)
	if err := st.ResetProgress(ctx); err != nil {
		writeError(c, err)
		return
	}

	h.logger.Info("ResetProgress handled", zap.Bool("confirmed", req.Confirm))
	c.JSON(http.StatusOK, st.Progress())
}
