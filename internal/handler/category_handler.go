package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prepbuddy/internal/store"
)

type CategoryHandler struct {
	registry *store.Registry
	logger   *zap.Logger
}

func NewCategoryHandler(registry *store.Registry, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{registry: registry, logger: logger}
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	st, ok := storeFor(c, h.registry)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": st.Categories()})
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	st, ok := storeFor(c, h.registry)
	if !ok {
		return
	}

	var input store.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category payload"})
		return
	}

	category, err := st.AddCategory(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	st, ok := storeFor(c, h.registry)
	if !ok {
		return
	}

	var patch store.CategoryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category payload"})
		return
	}

	category, err := st.UpdateCategory(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	st, ok := storeFor(c, h.registry)
	if !ok {
		return
	}

	if err := st.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
