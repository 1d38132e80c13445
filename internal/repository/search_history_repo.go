package repository

import (
	"context"

	"tradescope/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SearchHistoryRepository interface {
	Upsert(ctx context.Context, entry *model.SearchHistory) error
	List(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.SearchHistory, int64, error)
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
}

type searchHistoryRepository struct {
	db *gorm.DB
}

func NewSearchHistoryRepository(db *gorm.DB) SearchHistoryRepository {
	return &searchHistoryRepository{db: db}
}

// Upsert inserts a history row or, when the (user_id, fingerprint) natural
// key already exists, refreshes searched_at and result_count. The query
// fingerprint's determinism is what makes this correct.
func (r *searchHistoryRepository) Upsert(ctx context.Context, entry *model.SearchHistory) error {
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "fingerprint"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"result_count", "searched_at", "keyword", "filters",
		}),
	}).Create(entry).Error
}

func (r *searchHistoryRepository) List(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.SearchHistory, int64, error) {
	var entries []model.SearchHistory
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.SearchHistory{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Where("user_id = ?", userID).
		Order("searched_at DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *searchHistoryRepository) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("user_id = ? AND id = ?", userID, id).Delete(&model.SearchHistory{}).Error
}
