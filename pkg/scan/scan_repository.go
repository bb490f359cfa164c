package scan

import (
	"LabelWise-Backend/entities"
	"context"

	"gorm.io/gorm"
)

type (
	ScanRepository interface {
		CreateScan(ctx context.Context, scan *entities.Scan) error
		CreateAnalysisResult(ctx context.Context, result *entities.AnalysisResult) error
		GetScanByID(ctx context.Context, id string) (*entities.Scan, error)
		GetScans(ctx context.Context, userID string, page, limit int) ([]*entities.Scan, int64, error)
	}

	scanRepository struct {
		db *gorm.DB
	}
)

func NewScanRepository(db *gorm.DB) ScanRepository {
	return &scanRepository{db: db}
}

func (r *scanRepository) CreateScan(ctx context.Context, scan *entities.Scan) error {
	return r.db.WithContext(ctx).Create(scan).Error
}

func (r *scanRepository) CreateAnalysisResult(ctx context.Context, result *entities.AnalysisResult) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *scanRepository) GetScanByID(ctx context.Context, id string) (*entities.Scan, error) {
	var scan entities.Scan
	if err := r.db.WithContext(ctx).
		Preload("AnalysisResult").
		Where("id = ?", id).
		First(&scan).Error; err != nil {
		return nil, err
	}
	return &scan, nil
}

func (r *scanRepository) GetScans(ctx context.Context, userID string, page, limit int) ([]*entities.Scan, int64, error) {
	var scans []*entities.Scan
	var count int64

	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.Scan{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("AnalysisResult").
		Offset(offset).Limit(limit).
		Order("created_at desc").
		Find(&scans).Error; err != nil {
		return nil, 0, err
	}

	return scans, count, nil
}
