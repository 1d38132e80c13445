package repository

import (
	"context"

	"tradescope/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	Update(ctx context.Context, report *model.Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error)
	List(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Report, int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *model.Report) error {
	return GetDB(ctx, r.db).Create(report).Error
}

func (r *reportRepository) Update(ctx context.Context, report *model.Report) error {
	return GetDB(ctx, r.db).Save(report).Error
}

func (r *reportRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	var report model.Report
	if err := GetDB(ctx, r.db).First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Report, int64, error) {
	var reports []model.Report
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Report{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&reports).Error; err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}
