package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tradescope/internal/model"
	"tradescope/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInsufficientCredits is returned when a debit would push a user's
// balance below zero.
var ErrInsufficientCredits = fmt.Errorf("insufficient credits")

// --- DTOs ---

type CreditEntryResponse struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

type CreditBalanceResponse struct {
	UserID  string          `json:"user_id"`
	Balance decimal.Decimal `json:"balance"`
}

// --- Interface ---

type CreditService interface {
	// Debit charges amount (positive) against the user's balance inside one
	// transaction. A repeated call with the same idempotency key is a no-op
	// returning the original entry.
	Debit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, reason, description, idempotencyKey string) (*model.CreditEntry, error)
	Grant(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*model.CreditEntry, error)
	Balance(ctx context.Context, userID uuid.UUID) (CreditBalanceResponse, error)
	GetEntries(ctx context.Context, userID uuid.UUID, page, limit int) ([]CreditEntryResponse, int64, error)
}

// --- Implementation ---

type creditService struct {
	creditRepo repository.CreditRepository
	auditRepo  repository.AuditRepository
	txManager  repository.TransactionManager
}

func NewCreditService(creditRepo repository.CreditRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) CreditService {
	return &creditService{creditRepo: creditRepo, auditRepo: auditRepo, txManager: txManager}
}

func (s *creditService) Debit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, reason, description, idempotencyKey string) (*model.CreditEntry, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("debit amount must be positive")
	}
	if idempotencyKey == "" {
		return nil, fmt.Errorf("idempotency key is required")
	}

	var result *model.CreditEntry
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.creditRepo.FindByIdempotencyKey(txCtx, idempotencyKey)
		if err != nil {
			return fmt.Errorf("idempotency lookup failed: %w", err)
		}
		if existing != nil {
			result = existing
			return nil
		}

		balance, err := s.creditRepo.Balance(txCtx, userID)
		if err != nil {
			return fmt.Errorf("balance lookup failed: %w", err)
		}
		if balance.LessThan(amount) {
			return ErrInsufficientCredits
		}

		entry := model.CreditEntry{
			UserID:         userID,
			Amount:         amount.Neg(),
			Reason:         reason,
			Description:    description,
			IdempotencyKey: &idempotencyKey,
		}
		if err := s.creditRepo.CreateEntry(txCtx, &entry); err != nil {
			return fmt.Errorf("failed to record debit: %w", err)
		}
		result = &entry

		details, _ := json.Marshal(map[string]interface{}{
			"amount":          amount,
			"reason":          reason,
			"idempotency_key": idempotencyKey,
		})
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:   &userID,
			Action:   model.ActionDebitCredits,
			EntityID: entry.ID.String(),
			Details:  string(details),
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *creditService) Grant(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*model.CreditEntry, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("grant amount must be positive")
	}

	var result *model.CreditEntry
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		entry := model.CreditEntry{
			UserID:      userID,
			Amount:      amount,
			Reason:      model.CreditReasonGrant,
			Description: description,
		}
		if err := s.creditRepo.CreateEntry(txCtx, &entry); err != nil {
			return fmt.Errorf("failed to record grant: %w", err)
		}
		result = &entry

		details, _ := json.Marshal(map[string]interface{}{"amount": amount})
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:   &userID,
			Action:   model.ActionGrantCredits,
			EntityID: entry.ID.String(),
			Details:  string(details),
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *creditService) Balance(ctx context.Context, userID uuid.UUID) (CreditBalanceResponse, error) {
	balance, err := s.creditRepo.Balance(ctx, userID)
	if err != nil {
		return CreditBalanceResponse{}, err
	}
	return CreditBalanceResponse{UserID: userID.String(), Balance: balance}, nil
}

func (s *creditService) GetEntries(ctx context.Context, userID uuid.UUID, page, limit int) ([]CreditEntryResponse, int64, error) {
	entries, total, err := s.creditRepo.ListEntries(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]CreditEntryResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, CreditEntryResponse{
			ID:          e.ID.String(),
			Amount:      e.Amount,
			Reason:      e.Reason,
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		})
	}
	return res, total, nil
}
