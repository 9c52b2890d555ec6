package handler

import (
	"github.com/julianLagraba/fin-pro/internal/ledger"
	"github.com/julianLagraba/fin-pro/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CardHandler 负责信用卡及其消费记录，消费不影响账户余额
type CardHandler struct {
	Svc *ledger.Service
}

func NewCardHandler(svc *ledger.Service) *CardHandler {
	return &CardHandler{Svc: svc}
}

// ---------- 信用卡 ----------

type createCardReq struct {
	Name       string           `json:"name" binding:"required,max=64"`
	Limit      *decimal.Decimal `json:"limit"`
	ClosingDay int              `json:"closing_day" binding:"required"`
}

func (h *CardHandler) CreateCard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createCardReq
	if !bindJSON(c, &req) {
		return
	}

	in := ledger.CreditCardInput{Name: req.Name, ClosingDay: req.ClosingDay}
	if req.Limit != nil {
		in.Limit = *req.Limit
	}

	card, err := h.Svc.CreateCreditCard(c.Request.Context(), user.ID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, util.Response{"credit_card": card})
}

func (h *CardHandler) ListCards(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	cards, err := h.Svc.ListCreditCards(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"credit_cards": cards})
}

// ---------- 消费记录 ----------

type createPurchaseReq struct {
	Description  string           `json:"description" binding:"max=255"`
	Amount       *decimal.Decimal `json:"amount" binding:"required"`
	Currency     string           `json:"currency" binding:"max=8"`
	Installments int              `json:"installments"` // 为 0 时按 1 期
	Date         string           `json:"date"`
	IsRecurring  bool             `json:"is_recurring"`
}

func (h *CardHandler) CreatePurchase(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req createPurchaseReq
	if !bindJSON(c, &req) {
		return
	}
	date, ok := parseDate(c, req.Date)
	if !ok {
		return
	}

	p, err := h.Svc.CreateCardPurchase(c.Request.Context(), user.ID, cardID, ledger.CardPurchaseInput{
		Description:  req.Description,
		Amount:       *req.Amount,
		Currency:     req.Currency,
		Installments: req.Installments,
		Date:         date,
		IsRecurring:  req.IsRecurring,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, util.Response{"purchase": p})
}

func (h *CardHandler) ListPurchases(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}

	purchases, err := h.Svc.ListCardPurchases(c.Request.Context(), user.ID, cardID)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"purchases": purchases})
}

func (h *CardHandler) DeletePurchase(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.Svc.DeleteCardPurchase(c.Request.Context(), user.ID, id); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "消费记录已删除"})
}
