package repository

import (
	"context"

	"cartapp/internal/domain/model"
)

// ゲストカートを載せるセッションKV。
// マッピングはセッションのライフタイムに紐づき、マージ成功か明示クリアで消える。
type SessionStore interface {
	// キーが無ければ空のマッピングを返す（エラーにしない）
	Get(ctx context.Context, sessionID string) (map[int64]model.CartLine, error)
	Put(ctx context.Context, sessionID string, mapping map[int64]model.CartLine) error
	Forget(ctx context.Context, sessionID string) error
}
