package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianLagraba/fin-pro/internal/models"
	"github.com/julianLagraba/fin-pro/internal/util"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ClientInput struct {
	Name  string
	Email *string
	Phone *string
}

type JobInput struct {
	Description string
	Amount      decimal.Decimal
	Currency    string
	Date        time.Time
}

func (s *Service) CreateClient(ctx context.Context, userID uint, in ClientInput) (*models.Client, error) {
	name := strings.TrimSpace(in.Name)
	if err := util.ValidateName(name, 128); err != nil {
		return nil, invalid("client: %v", err)
	}
	email := trimOptional(in.Email)
	if email != nil {
		if err := util.ValidateEmail(*email); err != nil {
			return nil, invalid("client: %v", err)
		}
	}

	client := models.Client{
		UserID: userID,
		Name:   name,
		Email:  email,
		Phone:  trimOptional(in.Phone),
	}
	if err := s.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return &client, nil
}

func (s *Service) ListClients(ctx context.Context, userID uint) ([]models.Client, error) {
	var clients []models.Client
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name, id").
		Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

// CreateJob adds an unpaid job for one of the user's clients.
func (s *Service) CreateJob(ctx context.Context, userID, clientID uint, in JobInput) (*models.Job, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: job amount must be positive", ErrInvalidAmount)
	}
	if err := checkMoney("job amount", in.Amount); err != nil {
		return nil, err
	}
	currency, err := normalizeCurrency(in.Currency)
	if err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		in.Date = s.today()
	}

	db := s.db.WithContext(ctx)
	if _, err := ownedClient(db, userID, clientID); err != nil {
		return nil, err
	}

	job := models.Job{
		ClientID:    clientID,
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		Currency:    currency,
		Date:        in.Date,
	}
	if err := db.Create(&job).Error; err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return &job, nil
}

func (s *Service) ListJobs(ctx context.Context, userID, clientID uint) ([]models.Job, error) {
	db := s.db.WithContext(ctx)
	if _, err := ownedClient(db, userID, clientID); err != nil {
		return nil, err
	}

	var jobs []models.Job
	if err := db.Where("client_id = ?", clientID).
		Order("date DESC, id DESC").
		Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

func ownedClient(db *gorm.DB, userID, clientID uint) (*models.Client, error) {
	var client models.Client
	err := db.Where("id = ? AND user_id = ?", clientID, userID).First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("client", clientID)
	}
	if err != nil {
		return nil, fmt.Errorf("load client %d: %w", clientID, err)
	}
	return &client, nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
