package usecase

import (
	"context"

	"cartapp/internal/domain/model"
	repo "cartapp/internal/repository"
	"cartapp/internal/validator"
)

// GuestCart はセッション上のゲストカート。
// 永続Cartレコードは作らず、セッションKVのマッピングだけを触る。
// 同一セッションの並行リクエスト同士のロスト更新は許容（仕様上の割り切り）。
type GuestCart struct {
	sessions repo.SessionStore
	maxQty   int64
}

func NewGuestCart(sessions repo.SessionStore, maxQty int64) *GuestCart {
	return &GuestCart{
		sessions: sessions,
		maxQty:   maxQty,
	}
}

// Add は同一商品なら合算後の数量を再検証して上書き、無ければ新規エントリを入れる。
// 価格は初回追加時点のスナップショットのまま動かさない。
func (g *GuestCart) Add(ctx context.Context, sessionID string, p model.Product, qty int64) error {
	mapping, err := g.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	if line, ok := mapping[p.ID]; ok {
		newQty := line.Quantity + qty
		if err := validator.ValidateItem(p, newQty, g.maxQty); err != nil {
			return err
		}
		line.Quantity = newQty
		mapping[p.ID] = line
	} else {
		if err := validator.ValidateItem(p, qty, g.maxQty); err != nil {
			return err
		}
		mapping[p.ID] = model.CartLine{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  qty,
		}
	}

	return g.sessions.Put(ctx, sessionID, mapping)
}

// Remove はエントリを消す。無ければno-op。
func (g *GuestCart) Remove(ctx context.Context, sessionID string, productID int64) error {
	mapping, err := g.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	if _, ok := mapping[productID]; !ok {
		return nil
	}

	delete(mapping, productID)
	return g.sessions.Put(ctx, sessionID, mapping)
}

// Clear はマッピングごと破棄する。
func (g *GuestCart) Clear(ctx context.Context, sessionID string) error {
	return g.sessions.Forget(ctx, sessionID)
}

// List はエントリを表示用フォーマットで返す（順序保証なし）。
func (g *GuestCart) List(ctx context.Context, sessionID string) ([]model.CartLine, error) {
	mapping, err := g.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	lines := make([]model.CartLine, 0, len(mapping))
	for _, line := range mapping {
		lines = append(lines, line)
	}

	return lines, nil
}
