package handler

import (
	"github.com/julianLagraba/fin-pro/internal/ledger"
	"github.com/julianLagraba/fin-pro/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SubscriptionHandler 负责订阅接口
type SubscriptionHandler struct {
	Svc *ledger.Service
}

func NewSubscriptionHandler(svc *ledger.Service) *SubscriptionHandler {
	return &SubscriptionHandler{Svc: svc}
}

type createSubscriptionReq struct {
	Name       string           `json:"name" binding:"required,max=64"`
	Price      *decimal.Decimal `json:"price" binding:"required"`
	Currency   string           `json:"currency" binding:"max=8"`
	BillingDay int              `json:"billing_day" binding:"required"`
	CardID     *uint            `json:"card_id"` // 绑定信用卡时自动生成一笔循环消费
}

func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createSubscriptionReq
	if !bindJSON(c, &req) {
		return
	}

	sub, err := h.Svc.CreateSubscription(c.Request.Context(), user.ID, ledger.SubscriptionInput{
		Name:       req.Name,
		Price:      *req.Price,
		Currency:   req.Currency,
		BillingDay: req.BillingDay,
		CardID:     req.CardID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, util.Response{"subscription": sub})
}

func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	subs, err := h.Svc.ListSubscriptions(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"subscriptions": subs})
}
