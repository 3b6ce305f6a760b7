package repository

import (
	"context"
	"errors"

	"cartapp/internal/domain/model"
	repo "cartapp/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// IDで商品を取得。ソフトデリート済みはgormのDeletedAtで除外され、
// 物理削除と同じくErrNotFoundになる。
func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&p).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}
