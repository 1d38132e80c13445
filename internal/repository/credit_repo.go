package repository

import (
	"context"
	"errors"

	"tradescope/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreditRepository interface {
	CreateEntry(ctx context.Context, entry *model.CreditEntry) error
	FindByIdempotencyKey(ctx context.Context, key string) (*model.CreditEntry, error)
	Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	ListEntries(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.CreditEntry, int64, error)
}

type creditRepository struct {
	db *gorm.DB
}

func NewCreditRepository(db *gorm.DB) CreditRepository {
	return &creditRepository{db: db}
}

func (r *creditRepository) CreateEntry(ctx context.Context, entry *model.CreditEntry) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

// FindByIdempotencyKey returns nil, nil when no entry carries the key.
func (r *creditRepository) FindByIdempotencyKey(ctx context.Context, key string) (*model.CreditEntry, error) {
	var entry model.CreditEntry
	err := GetDB(ctx, r.db).Where("idempotency_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *creditRepository) Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var row struct {
		Balance decimal.Decimal
	}
	err := GetDB(ctx, r.db).Model(&model.CreditEntry{}).
		Select("COALESCE(SUM(amount), 0) as balance").
		Where("user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Balance, nil
}

func (r *creditRepository) ListEntries(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.CreditEntry, int64, error) {
	var entries []model.CreditEntry
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.CreditEntry{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
