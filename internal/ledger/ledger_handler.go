package ledger

import (
	"net/http"

	"go-leave/internal/middleware"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service QueryService
	logger  *zap.Logger
}

func NewHandler(service QueryService, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("ledger.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ledger.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) Entries(c *gin.Context) {
	employeeID := c.Param("employee_id")
	resp, err := h.service.Entries(c.Request.Context(), employeeID, c.Query("leave_type"))
	if err != nil {
		httpErr := response.FromError(c, err)
		h.logger.Warn("list ledger entries failed",
			zap.String("request_id", c.GetString(middleware.CtxRequestID)),
			zap.String("employee_id", employeeID),
			zap.Int("status", httpErr.Status),
			zap.Error(err),
		)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
