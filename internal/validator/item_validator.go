package validator

import (
	"errors"

	"cartapp/internal/domain/model"
)

var (
	//数量が1未満
	ErrInvalidQuantity = errors.New("invalid quantity")
	//在庫超過
	ErrOutOfStock = errors.New("out of stock")
	//上限数量超過
	ErrExceedsMaximum = errors.New("exceeds maximum quantity")
)

// ValidateItem は希望数量を 数量→在庫→上限 の固定順でチェックする（副作用なし）。
// 在庫はこの時点のスナップショットで、予約はしない。
// 追加経路もマージ経路も、差分ではなく合算後の数量で呼ぶこと。
func ValidateItem(p model.Product, qty int64, maxQty int64) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	if qty > p.Stock {
		return ErrOutOfStock
	}
	if qty > maxQty {
		return ErrExceedsMaximum
	}
	return nil
}
