package reschedule

import (
	"errors"
	"io"
	"net/http"

	"go-leave/internal/middleware"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"
	"go-leave/internal/workflow"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("reschedule.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("reschedule.handler")
	}
	return &Handler{service: service, logger: l}
}

func actorFrom(c *gin.Context) workflow.Actor {
	return workflow.Actor{
		EmployeeID: c.GetString(middleware.CtxEmployeeID),
		Role:       c.GetString(middleware.CtxRole),
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	httpErr := response.FromError(c, err)
	h.logger.Warn("reschedule request failed",
		zap.String("request_id", c.GetString(middleware.CtxRequestID)),
		zap.String("path", c.FullPath()),
		zap.String("reschedule_id", c.Param("id")),
		zap.String("actor_id", c.GetString(middleware.CtxEmployeeID)),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
}

func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	var req ApproveRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.fail(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Approve(c.Request.Context(), actorFrom(c), c.Param("id"), req.Remarks)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	var req RejectRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Reject(c.Request.Context(), actorFrom(c), c.Param("id"), req.Remarks)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
