package repository

import (
	"github.com/Jbmanllr/rental-catalog/internal/app/model"
	"github.com/Jbmanllr/rental-catalog/pkg/logger"
	"gorm.io/gorm"
)

type SalesChannelRepository interface {
	FindByIDs(ids []uint) ([]model.SalesChannel, error)
	WithTx(tx *gorm.DB) SalesChannelRepository
}

type salesChannelRepository struct {
	db *gorm.DB
}

func NewSalesChannelRepository(db *gorm.DB) SalesChannelRepository {
	return &salesChannelRepository{db: db}
}

func (r *salesChannelRepository) WithTx(tx *gorm.DB) SalesChannelRepository {
	return &salesChannelRepository{db: tx}
}

func (r *salesChannelRepository) FindByIDs(ids []uint) ([]model.SalesChannel, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var channels []model.SalesChannel
	if err := r.db.Where("id IN ?", ids).Find(&channels).Error; err != nil {
		logger.Error("Failed to find sales channels", err, map[string]interface{}{
			"ids": ids,
		})
		return nil, err
	}
	return channels, nil
}
