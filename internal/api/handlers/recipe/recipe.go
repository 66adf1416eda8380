package recipe

import (
	"net/http"
	"strconv"

	recipeService "recipe-box/internal/core/recipe"
	"recipe-box/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the local recipe collection.
type Handler struct {
	service *recipeService.Service
}

// NewHandler creates the recipe handler.
func NewHandler(service *recipeService.Service) *Handler {
	return &Handler{service: service}
}

// HandleList returns a page of published recipes, optionally filtered by a
// case-insensitive title search.
func (h *Handler) HandleList(c *gin.Context) {
	q := recipeService.ListQuery{
		Search:  c.Query("search"),
		Page:    intQuery(c, "page", 1),
		PerPage: intQuery(c, "per_page", 10),
	}

	views, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		common.LogError("failed to list recipes",
			zap.Error(err),
			zap.String("request_id", c.GetHeader("X-Request-ID")),
		)
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCodeInternalError,
			Message: "failed to list recipes",
		})
		return
	}

	c.JSON(http.StatusOK, views)
}

// HandleGet returns one recipe by id.
func (h *Handler) HandleGet(c *gin.Context) {
	id := c.Param("id")

	view, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		common.LogError("failed to get recipe",
			zap.Error(err),
			zap.String("recipe_id", id),
		)
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCodeInternalError,
			Message: "failed to get recipe",
		})
		return
	}
	if view == nil {
		c.JSON(http.StatusNotFound, common.ErrorResponse{
			Code:    common.ErrCodeNotFound,
			Message: "recipe not found",
		})
		return
	}

	c.JSON(http.StatusOK, view)
}

// HandleIngredients returns the distinct ingredient names known to the
// registry, for editor autosuggestion.
func (h *Handler) HandleIngredients(c *gin.Context) {
	names, err := h.service.Autosuggest(c.Request.Context(), intQuery(c, "limit", 0))
	if err != nil {
		common.LogError("failed to list ingredients", zap.Error(err))
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCodeInternalError,
			Message: "failed to list ingredients",
		})
		return
	}

	c.JSON(http.StatusOK, names)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
