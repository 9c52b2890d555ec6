package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/julianLagraba/fin-pro/internal/ledger"
	"github.com/julianLagraba/fin-pro/internal/logger"
	"github.com/julianLagraba/fin-pro/internal/models"
	"github.com/julianLagraba/fin-pro/internal/util"

	"github.com/gin-gonic/gin"
)

// CurrentUserKey 是 gin.Context 中保存当前用户的 key
const CurrentUserKey = "currentUser"

// UserLoader 按 ID 查询用户
type UserLoader interface {
	UserByID(ctx context.Context, id uint) (*models.User, error)
}

// AuthMiddleware 校验 JWT，并在 context 里放入当前用户。
func AuthMiddleware(jwtSecret, issuer string, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFromRequest(c)
		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, issuer, tokenStr)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "登录已失效，请重新登录")
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		user, err := users.UserByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "用户不存在")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询用户失败")
			}
			c.Abort()
			return
		}
		if !user.IsActive {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "账号已停用")
			c.Abort()
			return
		}

		// 请求日志带上 user_id
		l := logger.FromContext(ctx, logger.Nop()).With().Uint(logger.FieldUserID, user.ID).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(ctx, l))

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// tokenFromRequest 依次从 Header、查询参数、Cookie 中读取 token
func tokenFromRequest(c *gin.Context) string {
	// 1) Header: Authorization: Bearer xxx
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	// 2) URL 查询参数 ?token=xxx（用于导出下载）
	if t := c.Query("token"); t != "" {
		return t
	}

	// 3) Cookie fp_token
	if cookie, err := c.Cookie("fp_token"); err == nil {
		return cookie
	}
	return ""
}
