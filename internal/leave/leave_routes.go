package leave

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes expects r to already run the auth middleware.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	decisionMiddleware ...gin.HandlerFunc,
) {
	leaves := r.Group("/leave-requests")
	{
		leaves.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveRequest, rbac.ActionCreate), handler.Submit)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveRequest, rbac.ActionRead), handler.GetByID)

		authorize := middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveRequest, rbac.ActionApprove)
		chain := func(h gin.HandlerFunc) []gin.HandlerFunc {
			hs := []gin.HandlerFunc{authorize}
			hs = append(hs, decisionMiddleware...)
			return append(hs, h)
		}
		leaves.POST("/:id/approve", chain(handler.Approve)...)
		leaves.POST("/:id/reject", chain(handler.Reject)...)
	}
}
