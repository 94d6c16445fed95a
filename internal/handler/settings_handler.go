package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prepbuddy/internal/store"
)

type SettingsHandler struct {
	registry *store.Registry
	logger   *zap.Logger
}

func NewSettingsHandler(registry *store.Registry, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{registry: registry, logger: logger}
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	st, ok := storeFor(c, h.registry)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, st.Settings())
}

type settingsRequest struct {
	EmailNotifications *bool `json:"email_notifications" binding:"required"`
	DailyReminders     *bool `json:"daily_reminders" binding:"required"`
}

func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	st, ok := storeFor(c, h.registry)
	if !ok {
		return
	}

	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "both settings flags required"})
		return
	}

	if err := st.UpdateNotificationSettings(c.Request.Context(), *req.EmailNotifications, *req.DailyReminders); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st.Settings())
}
