package ledger

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	credits := r.Group("/leave-credits")
	credits.GET("/:employee_id/entries",
		middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveCredit, rbac.ActionRead),
		handler.Entries,
	)
}
