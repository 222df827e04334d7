package reschedule

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	decisionMiddleware ...gin.HandlerFunc,
) {
	reschedules := r.Group("/reschedule-requests")
	{
		reschedules.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceRescheduleRequest, rbac.ActionCreate), handler.Submit)
		reschedules.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceRescheduleRequest, rbac.ActionRead), handler.GetByID)

		// only dept_head holds approve on reschedule_request
		authorize := middleware.RBACAuthorize(rbacService, rbac.ResourceRescheduleRequest, rbac.ActionApprove)
		decision := func(h gin.HandlerFunc) []gin.HandlerFunc {
			hs := append([]gin.HandlerFunc{authorize}, decisionMiddleware...)
			return append(hs, h)
		}
		reschedules.POST("/:id/approve", decision(handler.Approve)...)
		reschedules.POST("/:id/reject", decision(handler.Reject)...)
	}
}
