package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/julianLagraba/fin-pro/internal/ledger"
	"github.com/julianLagraba/fin-pro/internal/logger"
	"github.com/julianLagraba/fin-pro/internal/middleware"
	"github.com/julianLagraba/fin-pro/internal/models"
	"github.com/julianLagraba/fin-pro/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// currentUser 读取 AuthMiddleware 放入的当前用户，失败时直接返回 401
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(middleware.CurrentUserKey)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
		return nil, false
	}
	return user, true
}

// paramID 解析路径中的 ID 参数
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "无效的ID")
		return 0, false
	}
	return uint(id), true
}

// bindJSON 绑定请求体，失败时返回 400
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "参数错误")
		return false
	}
	return true
}

// parseDate 解析请求中的日期，空字符串返回零值
func parseDate(c *gin.Context, s string) (time.Time, bool) {
	t, err := util.ParseDate(s)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "日期格式错误，应为 YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

// respondError 把业务错误映射为 HTTP 状态码和业务码
func respondError(c *gin.Context, err error) {
	var mismatch *ledger.CurrencyMismatchError
	switch {
	case errors.As(err, &mismatch):
		util.Error(c, http.StatusUnprocessableEntity, util.CodeCurrencyMismatch,
			fmt.Sprintf("币种不一致：目标为 %s，账户为 %s", mismatch.Goal, mismatch.Account))
	case errors.Is(err, ledger.ErrInsufficientFunds):
		util.Error(c, http.StatusUnprocessableEntity, util.CodeInsufficientFunds, "账户余额不足")
	case errors.Is(err, ledger.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "资源不存在")
	case errors.Is(err, ledger.ErrAlreadyPaid):
		util.Error(c, http.StatusConflict, util.CodeConflict, "该工作已收款")
	case errors.Is(err, ledger.ErrConflict):
		util.Error(c, http.StatusConflict, util.CodeConflict, err.Error())
	case errors.Is(err, ledger.ErrForbidden):
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "系统类别不能删除")
	case errors.Is(err, ledger.ErrInvalidAmount):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "请输入有效金额")
	case errors.Is(err, ledger.ErrInvalidCurrency):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "无效的币种")
	case errors.Is(err, ledger.ErrInvalidInput):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	case errors.Is(err, ledger.ErrAuth):
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "认证失败")
	default:
		reqLog := logger.FromContext(c.Request.Context(), zerolog.Nop())
		reqLog.Error().
			Err(err).
			Str("path", c.FullPath()).
			Msg("request failed")
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "服务器内部错误")
	}
}
