package handler

import (
	"github.com/julianLagraba/fin-pro/internal/models"
	"github.com/julianLagraba/fin-pro/internal/util"

	"github.com/gin-gonic/gin"
)

func userView(user *models.User) gin.H {
	return gin.H{
		"id":            user.ID,
		"email":         user.Email,
		"is_active":     user.IsActive,
		"created_at":    user.CreatedAt,
		"last_login_at": user.LastLoginAt,
	}
}

// GetMe 返回当前登录用户信息（需要经过 AuthMiddleware）
func GetMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	util.Success(c, util.Response{"user": userView(user)})
}
