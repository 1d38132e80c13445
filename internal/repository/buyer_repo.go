package repository

import (
	"context"

	"tradescope/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BuyerRepository interface {
	Create(ctx context.Context, buyer *model.Buyer) error
	Update(ctx context.Context, buyer *model.Buyer) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Buyer, error)
	List(ctx context.Context, stage, search string, page, limit int) ([]model.Buyer, int64, error)
	CountByStage(ctx context.Context) (map[string]int64, error)
	CreateContact(ctx context.Context, contact *model.BuyerContact) error
}

type buyerRepository struct {
	db *gorm.DB
}

func NewBuyerRepository(db *gorm.DB) BuyerRepository {
	return &buyerRepository{db: db}
}

func (r *buyerRepository) Create(ctx context.Context, buyer *model.Buyer) error {
	return GetDB(ctx, r.db).Create(buyer).Error
}

func (r *buyerRepository) Update(ctx context.Context, buyer *model.Buyer) error {
	return GetDB(ctx, r.db).Save(buyer).Error
}

func (r *buyerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Buyer{}).Error
}

func (r *buyerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Buyer, error) {
	var buyer model.Buyer
	if err := GetDB(ctx, r.db).Preload("Contacts").First(&buyer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &buyer, nil
}

func (r *buyerRepository) List(ctx context.Context, stage, search string, page, limit int) ([]model.Buyer, int64, error) {
	var buyers []model.Buyer
	var total int64

	db := GetDB(ctx, r.db)

	apply := func(q *gorm.DB) *gorm.DB {
		if stage != "" {
			q = q.Where("stage = ?", stage)
		}
		if search != "" {
			like := "%" + search + "%"
			q = q.Where("company_name ILIKE ? OR contact_person ILIKE ? OR email ILIKE ? OR country ILIKE ?",
				like, like, like, like)
		}
		return q
	}

	if err := apply(db.Model(&model.Buyer{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := apply(db.Model(&model.Buyer{}).Preload("Contacts")).
		Order("updated_at DESC").Offset(offset).Limit(limit).Find(&buyers).Error; err != nil {
		return nil, 0, err
	}

	return buyers, total, nil
}

func (r *buyerRepository) CountByStage(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Stage string
		Count int64
	}
	if err := GetDB(ctx, r.db).Model(&model.Buyer{}).
		Select("stage, COUNT(*) as count").Group("stage").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Stage] = row.Count
	}
	return counts, nil
}

func (r *buyerRepository) CreateContact(ctx context.Context, contact *model.BuyerContact) error {
	return GetDB(ctx, r.db).Create(contact).Error
}
