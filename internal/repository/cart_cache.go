package repository

import (
	"context"
	"errors"

	"cartapp/internal/domain/model"
)

var ErrCacheMiss = errors.New("cache miss")

// 永続カートの表示用リストを載せるread-throughキャッシュ。
// 書き込み系の操作はコミット前にForgetを完了させること。
type CartCache interface {
	// 無ければErrCacheMiss
	Get(ctx context.Context, userID int64) ([]model.CartLine, error)
	Set(ctx context.Context, userID int64, lines []model.CartLine) error
	Forget(ctx context.Context, userID int64) error
}
