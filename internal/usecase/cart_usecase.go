package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"cartapp/internal/domain/model"
	repo "cartapp/internal/repository"
	"cartapp/internal/validator"
)

var (
	//500 ストレージ起因。詳細はログに出し、呼び出し側には不透明なまま返す
	ErrStorage = errors.New("cart operation failed")
	//401 マージはログイン後だけ
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Identity は呼び出し元の識別。UserID > 0 なら認証済み、
// それ以外はSessionIDのゲストとして扱う。グローバルな「現在のユーザー」は持たない。
type Identity struct {
	UserID    int64
	SessionID string
}

func (id Identity) Authenticated() bool {
	return id.UserID > 0
}

// CartUsecase はカートの業務ロジック。
// 認証状態でゲストカート/永続カートに振り分け、ログイン時のマージも担う。
// 永続側の書き込みはすべて キャッシュ無効化→行ミューテーション を1トランザクションで行う。
type CartUsecase struct {
	tx          repo.TransactionManager
	productRepo repo.ProductRepository
	cartRepo    repo.CartRepository
	itemRepo    repo.CartItemRepository
	cache       repo.CartCache
	guest       *GuestCart
	maxQty      int64
	logger      zerolog.Logger
}

func NewCartUsecase(
	tx repo.TransactionManager,
	productRepo repo.ProductRepository,
	cartRepo repo.CartRepository,
	itemRepo repo.CartItemRepository,
	cache repo.CartCache,
	guest *GuestCart,
	maxQty int64,
	logger zerolog.Logger,
) *CartUsecase {
	return &CartUsecase{
		tx:          tx,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		itemRepo:    itemRepo,
		cache:       cache,
		guest:       guest,
		maxQty:      maxQty,
		logger:      logger,
	}
}

// AddItem はカートに追加（同一商品は数量加算）。
// 商品が無ければErrNotFound。検証エラーはそのまま呼び出し側へ。
func (u *CartUsecase) AddItem(ctx context.Context, id Identity, productID int64, qty int64) error {
	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return repo.ErrNotFound
	}
	if err != nil {
		return u.storageError("add_item: find product", err)
	}
	if !p.IsActive {
		return repo.ErrNotFound
	}

	if !id.Authenticated() {
		if err := u.guest.Add(ctx, id.SessionID, p, qty); err != nil {
			if IsValidationError(err) {
				return err
			}
			return u.storageError("add_item: guest cart", err)
		}
		return nil
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//コミット前に必ず無効化。再取得は次のGetItemsに任せる
		if err := u.cache.Forget(ctx, id.UserID); err != nil {
			return err
		}

		cart, err := r.Carts().GetOrCreateByUserID(ctx, id.UserID)
		if err != nil {
			return err
		}

		return r.CartItems().UpsertByCartAndProduct(ctx, cart.ID, p, qty, u.maxQty)
	})

	if IsValidationError(err) {
		return err
	}
	if err != nil {
		return u.storageError("add_item", err)
	}
	return nil
}

// GetItems はカート内容を表示用フォーマットで返す。
// 認証済みはキャッシュ経由（ミス時はDBから引いて詰め直すread-through）。
func (u *CartUsecase) GetItems(ctx context.Context, id Identity) ([]model.CartLine, error) {
	if !id.Authenticated() {
		lines, err := u.guest.List(ctx, id.SessionID)
		if err != nil {
			return nil, u.storageError("get_items: guest cart", err)
		}
		return lines, nil
	}

	lines, err := u.cache.Get(ctx, id.UserID)
	if err == nil {
		return lines, nil
	}
	if !errors.Is(err, repo.ErrCacheMiss) {
		//キャッシュ障害は読み取りを止めない。DBへフォールバック
		u.logger.Warn().Err(err).Int64("user_id", id.UserID).Msg("cart cache read failed")
	}

	cart, err := u.cartRepo.FindByUserID(ctx, id.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return []model.CartLine{}, nil
	}
	if err != nil {
		return nil, u.storageError("get_items: find cart", err)
	}

	lines, err = u.itemRepo.ListLines(ctx, cart.ID)
	if err != nil {
		return nil, u.storageError("get_items: list lines", err)
	}

	if err := u.cache.Set(ctx, id.UserID, lines); err != nil {
		u.logger.Warn().Err(err).Int64("user_id", id.UserID).Msg("cart cache repopulate failed")
	}

	return lines, nil
}

// RemoveItem は明細を消す。商品がカートに無い場合やカート自体が無い場合はno-op。
func (u *CartUsecase) RemoveItem(ctx context.Context, id Identity, productID int64) error {
	if !id.Authenticated() {
		if err := u.guest.Remove(ctx, id.SessionID, productID); err != nil {
			return u.storageError("remove_item: guest cart", err)
		}
		return nil
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := u.cache.Forget(ctx, id.UserID); err != nil {
			return err
		}

		cart, err := r.Carts().FindByUserID(ctx, id.UserID)
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return r.CartItems().DeleteByCartAndProduct(ctx, cart.ID, productID)
	})

	if err != nil {
		return u.storageError("remove_item", err)
	}
	return nil
}

// ClearCart はカートを空にする。カートが無ければno-op。
func (u *CartUsecase) ClearCart(ctx context.Context, id Identity) error {
	if !id.Authenticated() {
		if err := u.guest.Clear(ctx, id.SessionID); err != nil {
			return u.storageError("clear_cart: guest cart", err)
		}
		return nil
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := u.cache.Forget(ctx, id.UserID); err != nil {
			return err
		}

		cart, err := r.Carts().FindByUserID(ctx, id.UserID)
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return r.Carts().Clear(ctx, cart.ID)
	})

	if err != nil {
		return u.storageError("clear_cart", err)
	}
	return nil
}

// MergeCartsOnLogin はログイン時にゲストカートを永続カートへ取り込む。
// エントリ単位の問題（商品消滅・検証NG）はwarnログとスキップで済ませ、
// ストレージ障害だけが全体をロールバックしてエラーになる。
// 取り込みが全件スキップでも、ゲストカートのクリアとキャッシュ無効化は必ず行う。
func (u *CartUsecase) MergeCartsOnLogin(ctx context.Context, id Identity) error {
	if !id.Authenticated() {
		return ErrUnauthenticated
	}

	entries, err := u.guest.List(ctx, id.SessionID)
	if err != nil {
		return u.storageError("merge: read guest cart", err)
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := u.cache.Forget(ctx, id.UserID); err != nil {
			return err
		}

		if len(entries) == 0 {
			return nil
		}

		cart, err := r.Carts().GetOrCreateByUserID(ctx, id.UserID)
		if err != nil {
			return err
		}

		for _, e := range entries {
			p, err := r.Products().FindByID(ctx, e.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				u.skipMergeEntry(id, e, "product missing")
				continue
			}
			if err != nil {
				return err
			}
			if !p.IsActive {
				u.skipMergeEntry(id, e, "product inactive")
				continue
			}

			err = r.CartItems().UpsertByCartAndProduct(ctx, cart.ID, p, e.Quantity, u.maxQty)
			if IsValidationError(err) {
				u.skipMergeEntry(id, e, err.Error())
				continue
			}
			if err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return u.storageError("merge", err)
	}

	//コミット後にゲストカートを破棄
	if err := u.guest.Clear(ctx, id.SessionID); err != nil {
		return u.storageError("merge: clear guest cart", err)
	}

	return nil
}

// IsValidationError は数量/在庫/上限の検証エラーかどうか。
func IsValidationError(err error) bool {
	return errors.Is(err, validator.ErrInvalidQuantity) ||
		errors.Is(err, validator.ErrOutOfStock) ||
		errors.Is(err, validator.ErrExceedsMaximum)
}

func (u *CartUsecase) skipMergeEntry(id Identity, e model.CartLine, reason string) {
	mergeSkippedEntries.Inc()
	u.logger.Warn().
		Int64("user_id", id.UserID).
		Int64("product_id", e.ProductID).
		Int64("quantity", e.Quantity).
		Str("reason", reason).
		Msg("merge: entry skipped")
}

func (u *CartUsecase) storageError(op string, err error) error {
	u.logger.Error().Err(err).Str("op", op).Msg("cart storage failure")
	return ErrStorage
}
