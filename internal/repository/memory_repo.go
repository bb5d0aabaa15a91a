package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/hitoshi/sustainabite/internal/dataset"
	"github.com/hitoshi/sustainabite/internal/model"
)

// MemoryRepos はデモデータを初期値とするインメモリリポジトリ一式。
// 在庫更新や注文作成はプロセス内でのみ保持され、再起動で初期状態に戻る。
type MemoryRepos struct {
	Users     *MemoryUserRepo
	Inventory *MemoryInventoryRepo
	Catalog   *MemoryCatalogRepo
	Orders    *MemoryOrderRepo
}

// NewMemoryRepos はデータセットからインメモリリポジトリ一式を生成する。
func NewMemoryRepos(ds *dataset.Dataset) *MemoryRepos {
	return &MemoryRepos{
		Users:     NewMemoryUserRepo(ds.Users),
		Inventory: NewMemoryInventoryRepo(ds.Inventory),
		Catalog:   NewMemoryCatalogRepo(ds.Categories, ds.Products),
		Orders:    NewMemoryOrderRepo(ds.Orders),
	}
}

// MemoryUserRepo はインメモリのユーザーリポジトリ。
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]model.UserAccount
}

// NewMemoryUserRepo はMemoryUserRepoを生成する。
func NewMemoryUserRepo(accounts []model.UserAccount) *MemoryUserRepo {
	r := &MemoryUserRepo{users: make(map[string]model.UserAccount, len(accounts))}
	for _, a := range accounts {
		r.users[a.ID] = a
	}
	return r
}

// FindByEmail はメールアドレスでアカウントを検索する。大文字小文字は区別しない。
func (r *MemoryUserRepo) FindByEmail(_ context.Context, email string) (*model.UserAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.users {
		if strings.EqualFold(a.Email, email) {
			acc := a
			return &acc, nil
		}
	}
	return nil, nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *MemoryUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	user := a.User
	return &user, nil
}

// UpdateProfile は店舗名・メールアドレス・住所・電話番号を更新する。
// 他のアカウントが同じメールアドレスを使っている場合はEMAIL_IN_USEを返す。
func (r *MemoryUserRepo) UpdateProfile(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.users[user.ID]
	if !ok {
		return model.NewUserNotFoundError()
	}
	for id, other := range r.users {
		if id != user.ID && strings.EqualFold(other.Email, user.Email) {
			return model.NewEmailInUseError(user.Email)
		}
	}
	a.StoreName = user.StoreName
	a.Email = user.Email
	a.Address = user.Address
	a.Phone = user.Phone
	r.users[user.ID] = a
	return nil
}

// MemoryInventoryRepo はインメモリの在庫リポジトリ。
type MemoryInventoryRepo struct {
	mu    sync.RWMutex
	items []model.InventoryItem
}

// NewMemoryInventoryRepo はMemoryInventoryRepoを生成する。
func NewMemoryInventoryRepo(items []model.InventoryItem) *MemoryInventoryRepo {
	return &MemoryInventoryRepo{items: append([]model.InventoryItem(nil), items...)}
}

// ListByUser はユーザーの在庫アイテムをID昇順で返す。
func (r *MemoryInventoryRepo) ListByUser(_ context.Context, userID string) ([]model.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]model.InventoryItem, 0, len(r.items))
	for _, it := range r.items {
		if it.UserID == userID {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// UpdateLevels は在庫数と最低在庫数を更新し、更新後のアイテムを返す。
func (r *MemoryInventoryRepo) UpdateLevels(_ context.Context, update model.InventoryUpdate) (*model.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		it := &r.items[i]
		if it.ID != update.ID || it.UserID != update.UserID {
			continue
		}
		it.CurrentStock = update.CurrentStock
		it.MinLevel = update.MinLevel
		updated := *it
		return &updated, nil
	}
	return nil, model.NewInventoryItemNotFoundError(update.ID)
}

// MemoryCatalogRepo はインメモリの商品カタログ。
// 起動後に変更されないためロックは持たない。
type MemoryCatalogRepo struct {
	categories []model.Category
	products   []model.Product
}

// NewMemoryCatalogRepo はMemoryCatalogRepoを生成する。
func NewMemoryCatalogRepo(categories []model.Category, products []model.Product) *MemoryCatalogRepo {
	r := &MemoryCatalogRepo{
		categories: append([]model.Category(nil), categories...),
		products:   append([]model.Product(nil), products...),
	}
	sort.Slice(r.categories, func(i, j int) bool { return r.categories[i].ID < r.categories[j].ID })
	sort.Slice(r.products, func(i, j int) bool { return r.products[i].ID < r.products[j].ID })
	return r
}

// ListCategories はカテゴリをID昇順で返す。
func (r *MemoryCatalogRepo) ListCategories(_ context.Context) ([]model.Category, error) {
	return append([]model.Category(nil), r.categories...), nil
}

// ListProducts は商品をID昇順で返す。
func (r *MemoryCatalogRepo) ListProducts(_ context.Context) ([]model.Product, error) {
	return append([]model.Product(nil), r.products...), nil
}

// FindProduct は指定IDの商品を取得する。見つからない場合はnilを返す。
func (r *MemoryCatalogRepo) FindProduct(_ context.Context, id int64) (*model.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, nil
}

// MemoryOrderRepo はインメモリの注文リポジトリ。
type MemoryOrderRepo struct {
	mu     sync.RWMutex
	orders []model.Order
}

// NewMemoryOrderRepo はMemoryOrderRepoを生成する。
func NewMemoryOrderRepo(orders []model.Order) *MemoryOrderRepo {
	r := &MemoryOrderRepo{}
	for _, o := range orders {
		r.orders = append(r.orders, cloneOrder(o))
	}
	return r
}

// Create は注文を保存する。
func (r *MemoryOrderRepo) Create(_ context.Context, order *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders = append(r.orders, cloneOrder(*order))
	return nil
}

// ListByUser はユーザーの注文を作成日時の降順で返す。
func (r *MemoryOrderRepo) ListByUser(_ context.Context, userID string, limit int) ([]model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, cloneOrder(o))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// FindByID はユーザーの注文を取得する。見つからない場合はnilを返す。
func (r *MemoryOrderRepo) FindByID(_ context.Context, userID, orderID string) (*model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.ID == orderID && o.UserID == userID {
			order := cloneOrder(o)
			return &order, nil
		}
	}
	return nil, nil
}

func cloneOrder(o model.Order) model.Order {
	o.Lines = append([]model.OrderLine(nil), o.Lines...)
	return o
}

// compile-time interface check
var (
	_ UserRepository      = (*MemoryUserRepo)(nil)
	_ InventoryRepository = (*MemoryInventoryRepo)(nil)
	_ CatalogRepository   = (*MemoryCatalogRepo)(nil)
	_ OrderRepository     = (*MemoryOrderRepo)(nil)
)
