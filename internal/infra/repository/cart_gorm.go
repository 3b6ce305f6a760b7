package repository

import (
	"context"
	"errors"
	"time"

	"cartapp/internal/domain/model"
	repo "cartapp/internal/repository"
	"cartapp/internal/validator"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// ユーザーのカートを取得し、無ければ作成。
// user_idのunique制約前提で、Create失敗時は読み直してそのまま返す。
func (r *CartGormRepository) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {

	var cart model.Cart

	//トランザクションで探す→無ければ作る
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&cart).Error

		if findErr == nil {
			return nil
		}

		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		// 無ければ作る
		now := time.Now()
		newCart := model.Cart{
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := tx.Create(&newCart).Error; err != nil {
			//並行作成に負けた場合は勝った方を読む
			retryErr := tx.
				Where("user_id = ?", userID).
				First(&cart).Error
			if retryErr == nil {
				return nil
			}
			return err
		}

		cart = newCart
		return nil
	})

	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// ユーザーのカートを取得
func (r *CartGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// 指定カートの明細を全削除
func (r *CartGormRepository) Clear(ctx context.Context, cartID int64) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&model.CartItem{}).Error
}

// カート明細を商品名joinつきの表示用フォーマットで一覧取得。
// 削除済み・非公開商品の行は出さない。
func (r *CartGormRepository) ListLines(ctx context.Context, cartID int64) ([]model.CartLine, error) {
	var lines []model.CartLine

	if err := r.db.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.product_id AS product_id, products.name AS name, cart_items.unit_price_snapshot AS price, cart_items.quantity AS quantity").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.cart_id = ? AND products.deleted_at IS NULL AND products.is_active = ?", cartID, true).
		Order("cart_items.id asc").
		Scan(&lines).Error; err != nil {
		return []model.CartLine{}, err
	}

	return lines, nil
}

// 同一商品は数量加算。
// (cart, product)行をFOR UPDATEでロックしてから合算数量を検証し、
// 数量とunit_price_snapshot（現在価格）を更新する。数量が動く唯一の経路。
func (r *CartGormRepository) UpsertByCartAndProduct(ctx context.Context, cartID int64, p model.Product, addQty int64, maxQty int64) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.CartItem

		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("cart_id = ? AND product_id = ?", cartID, p.ID).
			First(&item).Error

		if err == nil {
			// 既存ありだったら数量を増やす
			newQty := item.Quantity + addQty

			if vErr := validator.ValidateItem(p, newQty, maxQty); vErr != nil {
				return vErr
			}

			res := tx.Model(&model.CartItem{}).
				Where("id = ?", item.ID).
				Updates(map[string]interface{}{
					"quantity":            newQty,
					"unit_price_snapshot": p.Price,
				})

			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return repo.ErrNotFound
			}
			return nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if vErr := validator.ValidateItem(p, addQty, maxQty); vErr != nil {
			return vErr
		}

		//無い場合は新規作成
		now := time.Now()
		newItem := model.CartItem{
			CartID:            cartID,
			ProductID:         p.ID,
			Quantity:          addQty,
			UnitPriceSnapshot: p.Price,
			CreatedAt:         now,
			UpdatedAt:         now,
		}

		if err := tx.Create(&newItem).Error; err != nil {
			return err
		}

		return nil
	})
}

// 明細を削除（無ければno-op）
func (r *CartGormRepository) DeleteByCartAndProduct(ctx context.Context, cartID int64, productID int64) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&model.CartItem{}).Error
}
