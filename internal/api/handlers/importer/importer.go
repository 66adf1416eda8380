package importer

import (
	"errors"
	"net/http"
	"strings"

	importService "recipe-box/internal/core/importer"
	"recipe-box/internal/infrastructure/config"
	"recipe-box/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PreviewRequest starts an import preview against a remote Recipe Box.
type PreviewRequest struct {
	URL string `json:"url"`
}

// PreviewResponse carries the preview session and the user-facing notice.
type PreviewResponse struct {
	Session *importService.Session `json:"session"`
	Message string                 `json:"message"`
}

// RunResponse lists the recipes created by an import run.
type RunResponse struct {
	Imported []importService.Imported `json:"imported"`
}

// Handler serves the import preview and import run endpoints.
type Handler struct {
	service  *importService.Service
	messages config.MessagesConfig
}

// NewHandler creates the import handler.
func NewHandler(service *importService.Service, messages config.MessagesConfig) *Handler {
	return &Handler{
		service:  service,
		messages: messages,
	}
}

// HandlePreview fetches the first page of recipes from the submitted URL
// and opens a preview session over them.
func (h *Handler) HandlePreview(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")

	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("invalid preview request",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "invalid request format",
		})
		return
	}

	session, err := h.service.StartPreview(c.Request.Context(), req.URL)
	if err != nil {
		switch {
		case errors.Is(err, importService.ErrEmptyURL):
			c.JSON(http.StatusBadRequest, common.ErrorResponse{
				Code:    common.ErrCodeEmptyImportURL,
				Message: h.messages.NoURL,
			})
		case errors.Is(err, importService.ErrFetchFailed):
			common.LogWarn("import preview fetch failed",
				zap.Error(err),
				zap.String("request_id", requestID),
			)
			c.JSON(http.StatusBadRequest, common.ErrorResponse{
				Code:    common.ErrCodeRemoteFetch,
				Message: h.messages.InvalidURL,
			})
		default:
			common.LogError("import preview failed",
				zap.Error(err),
				zap.String("request_id", requestID),
			)
			c.JSON(http.StatusInternalServerError, common.ErrorResponse{
				Code:    common.ErrCodeInternalError,
				Message: "import preview failed",
			})
		}
		return
	}

	c.JSON(http.StatusOK, PreviewResponse{
		Session: session,
		Message: h.messages.Found,
	})
}

// HandleFetchMore appends the next remote page to a preview session. An
// exhausted remote is a normal outcome, answered with the no-more notice.
func (h *Handler) HandleFetchMore(c *gin.Context) {
	sessionID := c.Param("id")

	session, err := h.service.FetchMore(c.Request.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, importService.ErrUnknownSession):
			c.JSON(http.StatusNotFound, common.ErrorResponse{
				Code:    common.ErrCodeUnknownSession,
				Message: "preview session not found",
			})
		case errors.Is(err, importService.ErrNoMorePages):
			c.JSON(http.StatusOK, PreviewResponse{
				Message: h.messages.NoMore,
			})
		default:
			common.LogError("fetch more failed",
				zap.Error(err),
				zap.String("session_id", sessionID),
			)
			c.JSON(http.StatusInternalServerError, common.ErrorResponse{
				Code:    common.ErrCodeInternalError,
				Message: "fetch more failed",
			})
		}
		return
	}

	c.JSON(http.StatusOK, PreviewResponse{
		Session: session,
		Message: h.messages.Found,
	})
}

// HandleRun imports the selected recipes. importIds is a comma-separated
// list of remote ids; importUrl is the remote base URL.
func (h *Handler) HandleRun(c *gin.Context) {
	rawIDs := c.Query("importIds")
	rawURL := c.Query("importUrl")

	ids := splitIDs(rawIDs)
	if len(ids) == 0 {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "no recipes selected",
		})
		return
	}

	imported, err := h.service.ImportSelected(c.Request.Context(), rawURL, ids)
	if err != nil {
		if errors.Is(err, importService.ErrEmptyURL) {
			c.JSON(http.StatusBadRequest, common.ErrorResponse{
				Code:    common.ErrCodeEmptyImportURL,
				Message: h.messages.NoURL,
			})
			return
		}
		common.LogError("import run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCodeInternalError,
			Message: "import run failed",
		})
		return
	}

	c.JSON(http.StatusOK, RunResponse{Imported: imported})
}

func splitIDs(raw string) []string {
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
