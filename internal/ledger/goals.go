package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianLagraba/fin-pro/internal/models"
	"github.com/julianLagraba/fin-pro/internal/util"

	"github.com/shopspring/decimal"
)

type GoalInput struct {
	Name         string
	TargetAmount decimal.Decimal
	Currency     string
	Deadline     *time.Time
}

// CreateGoal starts a goal at zero. CurrentAmount only grows through DepositToGoal.
func (s *Service) CreateGoal(ctx context.Context, userID uint, in GoalInput) (*models.Goal, error) {
	name := strings.TrimSpace(in.Name)
	if err := util.ValidateName(name, 64); err != nil {
		return nil, invalid("goal: %v", err)
	}
	if !in.TargetAmount.IsPositive() {
		return nil, fmt.Errorf("%w: goal target must be positive", ErrInvalidAmount)
	}
	if err := checkMoney("goal target", in.TargetAmount); err != nil {
		return nil, err
	}
	currency, err := normalizeCurrency(in.Currency)
	if err != nil {
		return nil, err
	}

	goal := models.Goal{
		UserID:        userID,
		Name:          name,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: decimal.Zero,
		Currency:      currency,
		Deadline:      in.Deadline,
	}
	if err := s.db.WithContext(ctx).Create(&goal).Error; err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	return &goal, nil
}

func (s *Service) ListGoals(ctx context.Context, userID uint) ([]models.Goal, error) {
	var goals []models.Goal
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// DeleteGoal removes the goal. Money already deposited stays recorded as
// outflow transactions on the source accounts.
func (s *Service) DeleteGoal(ctx context.Context, userID, goalID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", goalID, userID).
		Delete(&models.Goal{})
	if res.Error != nil {
		return fmt.Errorf("delete goal %d: %w", goalID, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("goal", goalID)
	}
	return nil
}
