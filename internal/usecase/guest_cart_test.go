package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"cartapp/internal/domain/model"
	"cartapp/internal/usecase"
	"cartapp/internal/validator"
)

func newGuestCart() (*usecase.GuestCart, *memSession) {
	sess := newMemSession()
	return usecase.NewGuestCart(sess, testMaxQty), sess
}

func TestGuestCart_Add_NewEntrySnapshotsPrice(t *testing.T) {
	ctx := context.Background()
	g, _ := newGuestCart()

	p := model.Product{ID: 1, Name: "Coffee", Price: 500, Stock: 10, IsActive: true}
	assert.NoError(t, g.Add(ctx, "s1", p, 2))

	lines, err := g.List(ctx, "s1")
	assert.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Equal(t, model.CartLine{ProductID: 1, Name: "Coffee", Price: 500, Quantity: 2}, lines[0])
}

// 既存エントリへの追加は数量だけ合算され、価格は初回追加時のまま
func TestGuestCart_Add_AccumulatesAndKeepsPrice(t *testing.T) {
	ctx := context.Background()
	g, _ := newGuestCart()

	p := model.Product{ID: 1, Name: "Coffee", Price: 500, Stock: 10, IsActive: true}
	assert.NoError(t, g.Add(ctx, "s1", p, 2))

	//値上げ後に追加
	p.Price = 800
	assert.NoError(t, g.Add(ctx, "s1", p, 3))

	lines, err := g.List(ctx, "s1")
	assert.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Equal(t, int64(5), lines[0].Quantity)
	assert.Equal(t, int64(500), lines[0].Price)
}

// 差分ではなく合算後の数量で検証される
func TestGuestCart_Add_ValidatesSum(t *testing.T) {
	ctx := context.Background()
	g, _ := newGuestCart()

	p := model.Product{ID: 1, Name: "Coffee", Price: 500, Stock: 5, IsActive: true}
	assert.NoError(t, g.Add(ctx, "s1", p, 3))

	err := g.Add(ctx, "s1", p, 3)
	assert.ErrorIs(t, err, validator.ErrOutOfStock)

	// 失敗した追加で既存エントリは変わらない
	lines, err := g.List(ctx, "s1")
	assert.NoError(t, err)
	assert.Equal(t, int64(3), lines[0].Quantity)
}

func TestGuestCart_Remove_AbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	g, _ := newGuestCart()

	assert.NoError(t, g.Remove(ctx, "s1", 42))
}

func TestGuestCart_Remove_DeletesEntry(t *testing.T) {
	ctx := context.Background()
	g, _ := newGuestCart()

	p1 := model.Product{ID: 1, Name: "Coffee", Price: 500, Stock: 10, IsActive: true}
	p2 := model.Product{ID: 2, Name: "Tea", Price: 300, Stock: 10, IsActive: true}
	assert.NoError(t, g.Add(ctx, "s1", p1, 1))
	assert.NoError(t, g.Add(ctx, "s1", p2, 1))

	assert.NoError(t, g.Remove(ctx, "s1", 1))

	lines, err := g.List(ctx, "s1")
	assert.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].ProductID)
}

func TestGuestCart_Clear_DropsMapping(t *testing.T) {
	ctx := context.Background()
	g, sess := newGuestCart()

	p := model.Product{ID: 1, Name: "Coffee", Price: 500, Stock: 10, IsActive: true}
	assert.NoError(t, g.Add(ctx, "s1", p, 1))

	assert.NoError(t, g.Clear(ctx, "s1"))

	lines, err := g.List(ctx, "s1")
	assert.NoError(t, err)
	assert.Empty(t, lines)
	assert.NotContains(t, sess.data, "s1")
}

// セッションが分かれていれば独立
func TestGuestCart_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	g, _ := newGuestCart()

	p := model.Product{ID: 1, Name: "Coffee", Price: 500, Stock: 10, IsActive: true}
	assert.NoError(t, g.Add(ctx, "s1", p, 1))

	lines, err := g.List(ctx, "s2")
	assert.NoError(t, err)
	assert.Empty(t, lines)
}
