package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianLagraba/fin-pro/internal/events"
	"github.com/julianLagraba/fin-pro/internal/logger"
	"github.com/julianLagraba/fin-pro/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var one = decimal.NewFromInt(1)

// DepositResult is what a goal deposit leaves behind.
type DepositResult struct {
	Transaction *models.Transaction `json:"transaction"`
	GoalTotal   decimal.Decimal     `json:"new_goal_total"`
	Balance     decimal.Decimal     `json:"account_balance"`
}

// ---------- 收款 ----------

// PayJob marks a job as paid and credits abs(amount * rate) to the account.
// The flag flip and the movement commit together.
func (s *Service) PayJob(ctx context.Context, userID, jobID, accountID uint, rate decimal.Decimal) (*models.Transaction, error) {
	if rate.IsZero() {
		return nil, fmt.Errorf("%w: exchange rate is zero", ErrInvalidAmount)
	}

	var (
		job models.Job
		txn *models.Transaction
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := forUpdate(tx).
			Joins("JOIN clients ON clients.id = jobs.client_id").
			Where("jobs.id = ? AND clients.user_id = ?", jobID, userID).
			First(&job).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("job", jobID)
		}
		if err != nil {
			return fmt.Errorf("load job %d: %w", jobID, err)
		}
		if job.IsPaid {
			return ErrAlreadyPaid
		}
		amount := job.Amount.Mul(rate).Abs().Round(moneyScale)
		if amount.IsZero() {
			return fmt.Errorf("%w: payment of job %d rounds to zero at rate %s", ErrInvalidAmount, job.ID, rate)
		}

		// 条件更新：并发的第二次收款只会影响 0 行
		res := tx.Model(&models.Job{}).
			Where("id = ? AND is_paid = ?", job.ID, false).
			Update("is_paid", true)
		if res.Error != nil {
			return fmt.Errorf("mark job %d paid: %w", job.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyPaid
		}

		categoryID, err := s.defaultCategoryID(tx)
		if err != nil {
			return err
		}
		acc, err := lockAccount(tx, userID, accountID)
		if err != nil {
			return err
		}

		txn, err = applyMovement(tx, acc, Movement{
			AccountID:   acc.ID,
			CategoryID:  categoryID,
			Amount:      amount,
			Description: jobPaymentDescription(&job, rate),
			Date:        s.today(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.ctxLogger(ctx).Info().
		Str(logger.FieldOperation, "pay_job").
		Uint("job_id", job.ID).
		Uint(logger.FieldAccountID, accountID).
		Str("amount", txn.Amount.String()).
		Msg("job paid")
	s.publish(ctx, events.JobPaid, userID, map[string]any{
		"job_id":         job.ID,
		"transaction_id": txn.ID,
		"account_id":     txn.AccountID,
		"amount":         txn.Amount,
		"rate":           rate,
	})
	return txn, nil
}

func jobPaymentDescription(job *models.Job, rate decimal.Decimal) string {
	desc := "Payment: " + job.Description
	if job.Currency == "USD" && rate.GreaterThan(one) {
		desc += fmt.Sprintf(" (U$S %s x %s)", job.Amount.String(), rate.String())
	}
	return desc
}

// ---------- 目标存款 ----------

// DepositToGoal moves amount out of the account and into the goal. The
// account balance is written once, by the movement, so the net change is
// exactly -amount.
func (s *Service) DepositToGoal(ctx context.Context, userID, goalID, accountID uint, amount decimal.Decimal) (*DepositResult, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: deposit must be positive, got %s", ErrInvalidAmount, amount)
	}
	if err := checkMoney("deposit", amount); err != nil {
		return nil, err
	}

	result := &DepositResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var goal models.Goal
		err := forUpdate(tx).Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("goal", goalID)
		}
		if err != nil {
			return fmt.Errorf("load goal %d: %w", goalID, err)
		}

		acc, err := lockAccount(tx, userID, accountID)
		if err != nil {
			return err
		}
		if goal.Currency != acc.Currency {
			return &CurrencyMismatchError{Goal: goal.Currency, Account: acc.Currency}
		}
		if acc.Balance.LessThan(amount) {
			return fmt.Errorf("%w: balance %s is below %s", ErrInsufficientFunds, acc.Balance, amount)
		}

		categoryID, err := s.defaultCategoryID(tx)
		if err != nil {
			return err
		}
		txn, err := applyMovement(tx, acc, Movement{
			AccountID:   acc.ID,
			CategoryID:  categoryID,
			Amount:      amount.Neg(),
			Description: "Savings for goal: " + goal.Name,
			Date:        s.today(),
		})
		if err != nil {
			return err
		}

		total := goal.CurrentAmount.Add(amount)
		if err := checkMoney("goal total", total); err != nil {
			return err
		}
		if err := tx.Model(&models.Goal{}).
			Where("id = ?", goal.ID).
			Update("current_amount", total).Error; err != nil {
			return fmt.Errorf("update goal %d: %w", goal.ID, err)
		}

		result.Transaction = txn
		result.GoalTotal = total
		result.Balance = acc.Balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.ctxLogger(ctx).Info().
		Str(logger.FieldOperation, "deposit_to_goal").
		Uint("goal_id", goalID).
		Uint(logger.FieldAccountID, accountID).
		Str("amount", amount.String()).
		Msg("goal deposit")
	s.publish(ctx, events.GoalDeposited, userID, map[string]any{
		"goal_id":        goalID,
		"transaction_id": result.Transaction.ID,
		"account_id":     accountID,
		"amount":         amount,
		"goal_total":     result.GoalTotal,
	})
	return result, nil
}
