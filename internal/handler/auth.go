package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/julianLagraba/fin-pro/internal/ledger"
	"github.com/julianLagraba/fin-pro/internal/util"

	"github.com/gin-gonic/gin"
)

// tokenCookie 与 AuthMiddleware 读取的 Cookie 名一致
const tokenCookie = "fp_token"

// AuthHandler 负责登录/注册相关接口
type AuthHandler struct {
	Svc       *ledger.Service
	JWTSecret string
	Issuer    string
	TokenTTL  time.Duration
}

// NewAuthHandler 构造函数
func NewAuthHandler(svc *ledger.Service, jwtSecret, issuer string, ttlHours int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		Svc:       svc,
		JWTSecret: jwtSecret,
		Issuer:    issuer,
		TokenTTL:  time.Duration(ttlHours) * time.Hour,
	}
}

// ---------- 注册 ----------

type registerReq struct {
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"` // 8-32 且强度检查
	ConfirmPassword string `json:"confirm_password"`            // 填写时必须和 Password 一致
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if !bindJSON(c, &req) {
		return
	}

	if err := util.ValidateEmail(req.Email); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "邮箱格式不正确")
		return
	}

	// 密码强度检查
	if !isStrongPassword(req.Password) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "密码需8-32位，且包含大写、小写字母和数字")
		return
	}

	if req.ConfirmPassword != "" && req.Password != req.ConfirmPassword {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "两次输入的密码不一致")
		return
	}

	user, err := h.Svc.CreateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ledger.ErrConflict) {
			util.Error(c, http.StatusConflict, util.CodeConflict, "邮箱已被注册")
			return
		}
		respondError(c, err)
		return
	}

	util.Created(c, util.Response{
		"message": "注册成功",
		"user":    userView(user),
	})
}

// 检查密码强度：8-32 位，包含大小写字母和数字
func isStrongPassword(pwd string) bool {
	if len(pwd) < 8 || len(pwd) > 32 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, ch := range pwd {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

// ---------- 登录 ----------

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.Svc.Authenticate(c.Request.Context(), strings.TrimSpace(req.Email), req.Password, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrAccountLocked):
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "账户已锁定，请稍后再试")
		case errors.Is(err, ledger.ErrAuth):
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "邮箱或密码错误")
		default:
			respondError(c, err)
		}
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, h.Issuer, user.ID, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "生成 token 失败")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, token, int(h.TokenTTL.Seconds()), "/", "", false, true)

	util.Success(c, util.Response{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int(h.TokenTTL.Seconds()),
		"user":         userView(user),
	})
}
