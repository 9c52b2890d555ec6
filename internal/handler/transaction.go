package handler

import (
	"net/http"
	"strconv"

	"github.com/julianLagraba/fin-pro/internal/ledger"
	"github.com/julianLagraba/fin-pro/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionHandler 负责流水接口
type TransactionHandler struct {
	Svc *ledger.Service
}

func NewTransactionHandler(svc *ledger.Service) *TransactionHandler {
	return &TransactionHandler{Svc: svc}
}

type createTransactionReq struct {
	AccountID   uint             `json:"account_id" binding:"required"`
	CategoryID  uint             `json:"category_id" binding:"required"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"` // 正数收入，负数支出
	Description string           `json:"description" binding:"max=255"`
	Date        string           `json:"date"` // 为空时取当天
}

// CreateTransaction 记一笔，同时更新账户余额
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createTransactionReq
	if !bindJSON(c, &req) {
		return
	}
	date, ok := parseDate(c, req.Date)
	if !ok {
		return
	}

	tx, err := h.Svc.ApplyMovement(c.Request.Context(), user.ID, ledger.Movement{
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Amount:      *req.Amount,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, util.Response{"transaction": tx})
}

// ListTransactions 分页查询，?skip=0&limit=100&account_id=
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var q ledger.TransactionQuery
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"skip", &q.Skip},
		{"limit", &q.Limit},
	} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "分页参数错误")
			return
		}
		*p.dst = n
	}
	if raw := c.Query("account_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "无效的账户ID")
			return
		}
		q.AccountID = uint(id)
	}

	txs, err := h.Svc.ListTransactions(c.Request.Context(), user.ID, q)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"transactions": txs})
}
