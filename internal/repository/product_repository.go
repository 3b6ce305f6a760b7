package repository

import (
	"context"
	"errors"

	"cartapp/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 商品の取得だけを約束。カタログ管理は本コアの外。
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (model.Product, error)
}
