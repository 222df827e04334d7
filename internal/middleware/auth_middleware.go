package middleware

import (
	"errors"
	"fmt"
	"strings"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserID     = "user_id"
	CtxEmployeeID = "employee_id"
	CtxRole       = "role"
	CtxDepartment = "department_id"

	defaultRole = "employee"
)

// AuthMiddleware validates an HS256 bearer token (or the access_token cookie)
// and exposes user_id, employee_id, role and department_id to handlers.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abort(c, ErrTokenNotFound)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			errObj := ErrInvalidToken
			if errors.Is(err, jwt.ErrTokenExpired) {
				errObj = ErrTokenExpired
			}
			abort(c, errObj)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abort(c, ErrInvalidClaims)
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			abort(c, ErrInvalidClaims)
			return
		}

		employeeID, ok := claims["employee_id"].(string)
		if !ok || employeeID == "" {
			abort(c, ErrInvalidClaims)
			return
		}

		role, _ := claims["role"].(string)
		if role == "" {
			role = defaultRole
		}
		departmentID, _ := claims["department_id"].(string)

		c.Set(CtxUserID, userID)
		c.Set(CtxEmployeeID, employeeID)
		c.Set(CtxRole, role)
		c.Set(CtxDepartment, departmentID)

		ctx := c.Request.Context()
		ctx = contextutil.WithUserID(ctx, userID)
		ctx = contextutil.WithEmployeeID(ctx, employeeID)
		ctx = contextutil.WithRole(ctx, role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(CtxRole)
		for _, role := range allowedRoles {
			if userRole == role {
				c.Next()
				return
			}
		}
		abort(c, apperror.ErrForbidden)
	}
}
