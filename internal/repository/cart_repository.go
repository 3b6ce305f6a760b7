package repository

import (
	"context"

	"cartapp/internal/domain/model"
)

type CartRepository interface {
	// 同一ユーザーの並行呼び出しでも1つに収束すること
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)
	FindByUserID(ctx context.Context, userID int64) (model.Cart, error)
	// 明細を全削除
	Clear(ctx context.Context, cartID int64) error
}
