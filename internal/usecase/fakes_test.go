package usecase_test

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"

	"cartapp/internal/domain/model"
	repo "cartapp/internal/repository"
	"cartapp/internal/usecase"
	"cartapp/internal/validator"
)

// =====================
// インメモリFake（状態を持つ部品はmockより素直に書ける）
// =====================

// memStore はCartRepository/CartItemRepository/TxReposをまとめたインメモリ実装。
// UpsertはGORM実装と同じく、合算数量を検証してからquantityとprice snapshotを更新する。
type memStore struct {
	nextCartID int64
	carts      map[int64]model.Cart               // userID -> cart
	items      map[int64]map[int64]model.CartItem // cartID -> productID -> item
	products   repo.ProductRepository
	events     *[]string
	failUpsert error // 非nilならUpsertがこのエラーを返す
}

func newMemStore(products repo.ProductRepository, events *[]string) *memStore {
	return &memStore{
		carts:    map[int64]model.Cart{},
		items:    map[int64]map[int64]model.CartItem{},
		products: products,
		events:   events,
	}
}

func (s *memStore) record(ev string) {
	if s.events != nil {
		*s.events = append(*s.events, ev)
	}
}

func (s *memStore) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	if c, ok := s.carts[userID]; ok {
		return c, nil
	}
	s.nextCartID++
	c := model.Cart{ID: s.nextCartID, UserID: userID}
	s.carts[userID] = c
	s.items[c.ID] = map[int64]model.CartItem{}
	return c, nil
}

func (s *memStore) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	c, ok := s.carts[userID]
	if !ok {
		return model.Cart{}, repo.ErrNotFound
	}
	return c, nil
}

func (s *memStore) Clear(ctx context.Context, cartID int64) error {
	s.record("store.clear")
	s.items[cartID] = map[int64]model.CartItem{}
	return nil
}

func (s *memStore) ListLines(ctx context.Context, cartID int64) ([]model.CartLine, error) {
	lines := []model.CartLine{}
	for _, it := range s.items[cartID] {
		p, err := s.products.FindByID(ctx, it.ProductID)
		if err != nil {
			continue
		}
		lines = append(lines, model.CartLine{
			ProductID: it.ProductID,
			Name:      p.Name,
			Price:     it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		})
	}
	return lines, nil
}

func (s *memStore) UpsertByCartAndProduct(ctx context.Context, cartID int64, p model.Product, addQty int64, maxQty int64) error {
	s.record("store.upsert")
	if s.failUpsert != nil {
		return s.failUpsert
	}

	byProduct, ok := s.items[cartID]
	if !ok {
		byProduct = map[int64]model.CartItem{}
		s.items[cartID] = byProduct
	}

	var existing int64
	if it, ok := byProduct[p.ID]; ok {
		existing = it.Quantity
	}

	newQty := existing + addQty
	if err := validator.ValidateItem(p, newQty, maxQty); err != nil {
		return err
	}

	byProduct[p.ID] = model.CartItem{
		CartID:            cartID,
		ProductID:         p.ID,
		Quantity:          newQty,
		UnitPriceSnapshot: p.Price,
	}
	return nil
}

func (s *memStore) DeleteByCartAndProduct(ctx context.Context, cartID int64, productID int64) error {
	s.record("store.delete")
	delete(s.items[cartID], productID)
	return nil
}

// TxRepos
func (s *memStore) Carts() repo.CartRepository         { return s }
func (s *memStore) CartItems() repo.CartItemRepository { return s }
func (s *memStore) Products() repo.ProductRepository   { return s.products }

// memTxManager はfnをそのまま実行し、エラー時は明細をロールバックする。
type memTxManager struct {
	store *memStore
}

func (m *memTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	snapshot := map[int64]map[int64]model.CartItem{}
	for cartID, byProduct := range m.store.items {
		cp := map[int64]model.CartItem{}
		for pid, it := range byProduct {
			cp[pid] = it
		}
		snapshot[cartID] = cp
	}

	if err := fn(m.store); err != nil {
		m.store.items = snapshot
		return err
	}
	return nil
}

type memCache struct {
	entries map[int64][]model.CartLine
	events  *[]string
}

func newMemCache(events *[]string) *memCache {
	return &memCache{entries: map[int64][]model.CartLine{}, events: events}
}

func (c *memCache) record(ev string) {
	if c.events != nil {
		*c.events = append(*c.events, ev)
	}
}

func (c *memCache) Get(ctx context.Context, userID int64) ([]model.CartLine, error) {
	lines, ok := c.entries[userID]
	if !ok {
		c.record("cache.miss")
		return nil, repo.ErrCacheMiss
	}
	c.record("cache.hit")
	return lines, nil
}

func (c *memCache) Set(ctx context.Context, userID int64, lines []model.CartLine) error {
	c.record("cache.set")
	c.entries[userID] = lines
	return nil
}

func (c *memCache) Forget(ctx context.Context, userID int64) error {
	c.record("cache.forget")
	delete(c.entries, userID)
	return nil
}

type memSession struct {
	data map[string]map[int64]model.CartLine
}

func newMemSession() *memSession {
	return &memSession{data: map[string]map[int64]model.CartLine{}}
}

func (s *memSession) Get(ctx context.Context, sessionID string) (map[int64]model.CartLine, error) {
	m, ok := s.data[sessionID]
	if !ok {
		return map[int64]model.CartLine{}, nil
	}
	cp := map[int64]model.CartLine{}
	for k, v := range m {
		cp[k] = v
	}
	return cp, nil
}

func (s *memSession) Put(ctx context.Context, sessionID string, mapping map[int64]model.CartLine) error {
	s.data[sessionID] = mapping
	return nil
}

func (s *memSession) Forget(ctx context.Context, sessionID string) error {
	delete(s.data, sessionID)
	return nil
}

type memProducts struct {
	byID map[int64]model.Product
}

func (p *memProducts) FindByID(ctx context.Context, id int64) (model.Product, error) {
	prod, ok := p.byID[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return prod, nil
}

// =====================
// Mocks（異常系用）
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

// =====================
// Fixture
// =====================

const testMaxQty = 100

type fixture struct {
	uc       *usecase.CartUsecase
	store    *memStore
	cache    *memCache
	session  *memSession
	products *memProducts
	events   []string
}

func newFixture(products ...model.Product) *fixture {
	f := &fixture{}

	byID := map[int64]model.Product{}
	for _, p := range products {
		byID[p.ID] = p
	}
	f.products = &memProducts{byID: byID}

	f.store = newMemStore(f.products, &f.events)
	f.cache = newMemCache(&f.events)
	f.session = newMemSession()

	guest := usecase.NewGuestCart(f.session, testMaxQty)

	f.uc = usecase.NewCartUsecase(
		&memTxManager{store: f.store},
		f.products,
		f.store,
		f.store,
		f.cache,
		guest,
		testMaxQty,
		zerolog.Nop(),
	)
	return f
}

func authID(userID int64) usecase.Identity {
	return usecase.Identity{UserID: userID, SessionID: "sess-auth"}
}

func guestID(sessionID string) usecase.Identity {
	return usecase.Identity{SessionID: sessionID}
}
