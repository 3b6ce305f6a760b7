package repository

import (
	"context"

	"cartapp/internal/domain/model"
)

type CartItemRepository interface {
	// 商品表示データをjoinした表示用フォーマットで返す（順序保証なし）
	ListLines(ctx context.Context, cartID int64) ([]model.CartLine, error)
	// 同一商品はプラス。(cart, product)行をロックしてから
	// 合算数量を検証し、数量とprice snapshotを更新する唯一の経路。
	UpsertByCartAndProduct(ctx context.Context, cartID int64, p model.Product, addQty int64, maxQty int64) error
	// 無ければno-op
	DeleteByCartAndProduct(ctx context.Context, cartID int64, productID int64) error
}
