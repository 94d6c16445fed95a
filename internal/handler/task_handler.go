package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prepbuddy/internal/store"
)

type TaskHandler struct {
	registry *store.Registry
	logger   *zap.Logger
}

func NewTaskHandler(registry *store.Registry, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{registry: registry, logger: logger}
}

// ListTasks returns all tasks, or the tasks of one day when ?day= is set.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	st, ok := storeFor(c, h.registry)
	if !ok {
		return
	}

	dayRaw := c.Query("day")
	if dayRaw == "" {
		c.JSON(http.StatusOK, gin.H{"tasks": st.Tasks()})
		return
	}

	day, err := strconv.Atoi(dayRaw)
	if err != nil {
		h.logger.Warn("ListTasks: invalid day", zap.String("day", dayRaw))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": st.GetTasksForDay(day)})
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	st, ok := storeFor(c, h.registry)
	if !ok {
		return
	}

	var input store.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task payload"})
		return
	}

	t, err := st.AddTask(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	st, ok := storeFor(c, h.registry)
	if !ok {
		return
	}

	var patch store.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task payload"})
		return
	}

	t, err := st.UpdateTask(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	st, ok := storeFor(c, h.registry)
	if !ok {
		return
	}

	if err := st.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *TaskHandler) ToggleTask(c *gin.Context) {
	st, ok := storeFor(c, h.registry)
	if !ok {
		return
	}

	t, err := st.ToggleCompletion(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}
