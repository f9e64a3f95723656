package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/hexasearch/internal/shared/domain"
	"github.com/davicafu/hexasearch/internal/user/application"
	"github.com/davicafu/hexasearch/internal/user/domain"
	"github.com/davicafu/hexasearch/pkg/utils"
)

const dateLayout = "2006-01-02"

// UserHandler encapsula los endpoints HTTP de búsqueda de usuarios
type UserHandler struct {
	service *application.UserService
	log     *zap.Logger
}

// NewUserHandler crea un nuevo UserHandler
func NewUserHandler(service *application.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{service: service, log: log}
}

// ---------------- Handlers ----------------

// SearchUsers endpoint POST /users/search
func (h *UserHandler) SearchUsers(c *gin.Context) {
	var req sharedDomain.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, "invalid search request: "+err.Error())
		return
	}

	result, err := h.service.SearchUsers(c.Request.Context(), req)
	if err != nil {
		switch {
		case sharedDomain.IsValidationError(err):
			utils.SendValidationErrors(c, err)
		case errors.Is(err, domain.ErrSearchUnavailable):
			utils.SendServiceUnavailable(c, "user search temporarily unavailable, retry later")
		default:
			utils.SendInternalServerError(c, "user search failed")
		}
		return
	}

	utils.SendSuccess(c, http.StatusOK, result)
}

// ListIntents endpoint GET /users/search/intents
func (h *UserHandler) ListIntents(c *gin.Context) {
	utils.SendSuccess(c, http.StatusOK, h.service.Intents())
}

// SearchStats endpoint GET /users/search/stats?from=YYYY-MM-DD&to=YYYY-MM-DD
// Por defecto devuelve los últimos 7 días.
func (h *UserHandler) SearchStats(c *gin.Context) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -7)

	if v := c.Query("from"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			utils.SendBadRequest(c, "invalid 'from' date, use YYYY-MM-DD")
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			utils.SendBadRequest(c, "invalid 'to' date, use YYYY-MM-DD")
			return
		}
		// Día completo.
		to = t.Add(24*time.Hour - time.Nanosecond)
	}
	if to.Before(from) {
		utils.SendBadRequest(c, "'to' must not be before 'from'")
		return
	}

	counts, err := h.service.SearchStats(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, application.ErrStatsUnavailable) {
			utils.SendError(c, http.StatusNotImplemented, err.Error())
			return
		}
		h.log.Error("Search stats failed", zap.Error(err))
		utils.SendInternalServerError(c, "search stats failed")
		return
	}

	utils.SendSuccess(c, http.StatusOK, counts)
}
