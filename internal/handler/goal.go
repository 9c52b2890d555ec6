package handler

import (
	"github.com/julianLagraba/fin-pro/internal/ledger"
	"github.com/julianLagraba/fin-pro/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GoalHandler 负责储蓄目标接口
type GoalHandler struct {
	Svc *ledger.Service
}

func NewGoalHandler(svc *ledger.Service) *GoalHandler {
	return &GoalHandler{Svc: svc}
}

type createGoalReq struct {
	Name         string           `json:"name" binding:"required,max=64"`
	TargetAmount *decimal.Decimal `json:"target_amount" binding:"required"`
	Currency     string           `json:"currency" binding:"max=8"`
	Deadline     string           `json:"deadline"`
}

func (h *GoalHandler) CreateGoal(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createGoalReq
	if !bindJSON(c, &req) {
		return
	}
	deadline, ok := parseDate(c, req.Deadline)
	if !ok {
		return
	}

	in := ledger.GoalInput{
		Name:         req.Name,
		TargetAmount: *req.TargetAmount,
		Currency:     req.Currency,
	}
	if !deadline.IsZero() {
		in.Deadline = &deadline
	}

	goal, err := h.Svc.CreateGoal(c.Request.Context(), user.ID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, util.Response{"goal": goal})
}

func (h *GoalHandler) ListGoals(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	goals, err := h.Svc.ListGoals(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"goals": goals})
}

func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.Svc.DeleteGoal(c.Request.Context(), user.ID, id); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "目标已删除"})
}

type depositReq struct {
	AccountID uint             `json:"account_id" binding:"required"`
	Amount    *decimal.Decimal `json:"amount" binding:"required"`
}

// Deposit 从账户转入储蓄目标，币种必须一致且余额充足
func (h *GoalHandler) Deposit(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	goalID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req depositReq
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.Svc.DepositToGoal(c.Request.Context(), user.ID, goalID, req.AccountID, *req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{
		"message":         "存入成功",
		"transaction":     res.Transaction,
		"new_goal_total":  res.GoalTotal,
		"account_balance": res.Balance,
	})
}
