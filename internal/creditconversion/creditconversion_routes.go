package creditconversion

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
	conversions := r.Group("/credit-conversions")
	{
		conversions.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceCreditConversion, rbac.ActionCreate), handler.Submit)
		conversions.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceCreditConversion, rbac.ActionRead), handler.GetByID)

		authorize := middleware.RBACAuthorize(rbacService, rbac.ResourceCreditConversion, rbac.ActionApprove)
		decision := func(h gin.HandlerFunc) []gin.HandlerFunc {
			hs := append([]gin.HandlerFunc{authorize}, decisionMiddleware...)
			return append(hs, h)
		}
		conversions.POST("/:id/approve", decision(handler.Approve)...)
		conversions.POST("/:id/reject", decision(handler.Reject)...)
	}
}
