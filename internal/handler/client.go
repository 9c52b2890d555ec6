package handler

import (
	"github.com/julianLagraba/fin-pro/internal/ledger"
	"github.com/julianLagraba/fin-pro/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ClientHandler 负责客户、工作和收款接口
type ClientHandler struct {
	Svc *ledger.Service
}

func NewClientHandler(svc *ledger.Service) *ClientHandler {
	return &ClientHandler{Svc: svc}
}

// ---------- 客户 ----------

type createClientReq struct {
	Name  string  `json:"name" binding:"required,max=128"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

func (h *ClientHandler) CreateClient(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createClientReq
	if !bindJSON(c, &req) {
		return
	}

	client, err := h.Svc.CreateClient(c.Request.Context(), user.ID, ledger.ClientInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, util.Response{"client": client})
}

func (h *ClientHandler) ListClients(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	clients, err := h.Svc.ListClients(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"clients": clients})
}

// ---------- 工作 ----------

type createJobReq struct {
	Description string           `json:"description" binding:"required,max=255"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Currency    string           `json:"currency" binding:"max=8"`
	Date        string           `json:"date"`
}

func (h *ClientHandler) CreateJob(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	clientID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req createJobReq
	if !bindJSON(c, &req) {
		return
	}
	date, ok := parseDate(c, req.Date)
	if !ok {
		return
	}

	job, err := h.Svc.CreateJob(c.Request.Context(), user.ID, clientID, ledger.JobInput{
		Description: req.Description,
		Amount:      *req.Amount,
		Currency:    req.Currency,
		Date:        date,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, util.Response{"job": job})
}

func (h *ClientHandler) ListJobs(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	clientID, ok := paramID(c, "id")
	if !ok {
		return
	}

	jobs, err := h.Svc.ListJobs(c.Request.Context(), user.ID, clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"jobs": jobs})
}

// ---------- 收款 ----------

type payJobReq struct {
	AccountID    uint             `json:"account_id" binding:"required"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate"` // 不填按 1
}

// PayJob 标记工作已收款，并把 金额×汇率 记入账户
func (h *ClientHandler) PayJob(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	jobID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req payJobReq
	if !bindJSON(c, &req) {
		return
	}
	rate := decimal.NewFromInt(1)
	if req.ExchangeRate != nil {
		rate = *req.ExchangeRate
	}

	tx, err := h.Svc.PayJob(c.Request.Context(), user.ID, jobID, req.AccountID, rate)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{
		"message":     "收款成功",
		"transaction": tx,
	})
}
