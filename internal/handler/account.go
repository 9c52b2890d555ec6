package handler

import (
	"github.com/julianLagraba/fin-pro/internal/ledger"
	"github.com/julianLagraba/fin-pro/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AccountHandler 负责账户相关接口
type AccountHandler struct {
	Svc *ledger.Service
}

func NewAccountHandler(svc *ledger.Service) *AccountHandler {
	return &AccountHandler{Svc: svc}
}

type createAccountReq struct {
	Name     string           `json:"name" binding:"required,max=64"`
	Currency string           `json:"currency" binding:"max=8"`
	Balance  *decimal.Decimal `json:"balance"` // 期初余额，可选
}

// CreateAccount 新建账户
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createAccountReq
	if !bindJSON(c, &req) {
		return
	}

	in := ledger.AccountInput{Name: req.Name, Currency: req.Currency}
	if req.Balance != nil {
		in.OpeningBalance = *req.Balance
	}

	acc, err := h.Svc.CreateAccount(c.Request.Context(), user.ID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, util.Response{"account": acc})
}

// ListAccounts 当前用户的全部账户
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	accounts, err := h.Svc.ListAccounts(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"accounts": accounts})
}

// DeleteAccount 删除账户及其全部流水
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.Svc.DeleteAccount(c.Request.Context(), user.ID, id); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "账户已删除"})
}

// Reconcile 对账：期初余额 + 流水合计 是否等于当前余额
func (h *AccountHandler) Reconcile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	rec, err := h.Svc.Reconcile(c.Request.Context(), user.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"reconciliation": rec})
}
