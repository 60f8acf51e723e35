package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Supermercado-api/internal/domain"
	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
	"github.com/jhoicas/Supermercado-api/internal/domain/repository"
)

// mockUserRepository implementación en memoria de UserAdminRepository.
type mockUserRepository struct {
	byID   map[int64]*entity.User
	nextID int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{byID: map[int64]*entity.User{}}
}

// seed inserta un usuario sin pasar por el caso de uso.
func (r *mockUserRepository) seed(username string, role entity.Role, storeID int64) *entity.User {
	r.nextID++
	s := storeID
	u := &entity.User{UserID: r.nextID, Username: username, Role: role, PasswordHash: "x", StoreID: &s}
	r.byID[u.UserID] = u
	return u
}

func (r *mockUserRepository) Create(_ context.Context, u *entity.User) error {
	for _, x := range r.byID {
		if x.Username == u.Username {
			return domain.ErrUsernameTaken
		}
	}
	r.nextID++
	u.UserID = r.nextID
	u.CreatedAt = time.Now()
	r.byID[u.UserID] = u
	return nil
}

func (r *mockUserRepository) GetByID(_ context.Context, id int64) (*entity.User, error) {
	return r.byID[id], nil
}

func (r *mockUserRepository) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *mockUserRepository) List(_ context.Context, f repository.UserFilter) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.byID {
		match := f.StoreID == nil || u.InStore(f.StoreID)
		if match && len(f.Roles) > 0 {
			match = false
			for _, role := range f.Roles {
				if u.Role == role {
					match = true
				}
			}
		}
		if match || u.UserID == f.AlsoUserID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID > out[j].UserID })
	return out, nil
}

func (r *mockUserRepository) Update(_ context.Context, u *entity.User) error {
	cur, ok := r.byID[u.UserID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if u.PasswordHash == "" {
		u.PasswordHash = cur.PasswordHash
	}
	cp := *u
	r.byID[u.UserID] = &cp
	return nil
}

func (r *mockUserRepository) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// mockStoreRepository implementación en memoria de StoreRepository.
type mockStoreRepository struct {
	byID   map[int64]*entity.Store
	nextID int64
	inUse  map[int64]bool
}

func newMockStoreRepository() *mockStoreRepository {
	return &mockStoreRepository{
		byID:   map[int64]*entity.Store{1: {StoreID: 1, Name: "Casa matriz"}},
		nextID: 1,
		inUse:  map[int64]bool{},
	}
}

func (r *mockStoreRepository) Create(_ context.Context, s *entity.Store) error {
	r.nextID++
	s.StoreID = r.nextID
	r.byID[s.StoreID] = s
	return nil
}

func (r *mockStoreRepository) GetByID(_ context.Context, id int64) (*entity.Store, error) {
	return r.byID[id], nil
}

func (r *mockStoreRepository) List(context.Context) ([]*entity.Store, error) {
	out := make([]*entity.Store, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StoreID < out[j].StoreID })
	return out, nil
}

func (r *mockStoreRepository) Update(_ context.Context, s *entity.Store) error {
	if _, ok := r.byID[s.StoreID]; !ok {
		return domain.ErrNotFound
	}
	r.byID[s.StoreID] = s
	return nil
}

func (r *mockStoreRepository) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	if r.inUse[id] {
		return domain.ErrInUse
	}
	delete(r.byID, id)
	return nil
}

// mockProductRepository implementación en memoria de ProductRepository.
type mockProductRepository struct {
	byID      map[int64]*entity.Product
	nextID    int64
	lastLimit int
	lastOff   int
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{byID: map[int64]*entity.Product{}}
}

func (r *mockProductRepository) Create(_ context.Context, p *entity.Product) error {
	for _, x := range r.byID {
		if x.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	r.nextID++
	p.ProductID = r.nextID
	r.byID[p.ProductID] = p
	return nil
}

func (r *mockProductRepository) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *mockProductRepository) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	r.lastLimit, r.lastOff = limit, offset
	out := make([]*entity.Product, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *mockProductRepository) Update(_ context.Context, p *entity.Product) error {
	if _, ok := r.byID[p.ProductID]; !ok {
		return domain.ErrNotFound
	}
	r.byID[p.ProductID] = p
	return nil
}

func (r *mockProductRepository) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// mockCategoryRepository implementación en memoria de CategoryRepository.
type mockCategoryRepository struct {
	byID   map[int64]*entity.Category
	nextID int64
}

func (r *mockCategoryRepository) Create(_ context.Context, c *entity.Category) error {
	for _, x := range r.byID {
		if x.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	r.nextID++
	c.CategoryID = r.nextID
	r.byID[c.CategoryID] = c
	return nil
}

func (r *mockCategoryRepository) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	return r.byID[id], nil
}

func (r *mockCategoryRepository) List(context.Context) ([]*entity.Category, error) {
	out := make([]*entity.Category, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out, nil
}

func (r *mockCategoryRepository) Update(_ context.Context, c *entity.Category) error {
	if _, ok := r.byID[c.CategoryID]; !ok {
		return domain.ErrNotFound
	}
	r.byID[c.CategoryID] = c
	return nil
}

func (r *mockCategoryRepository) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// mockInventoryRepository implementación en memoria de InventoryRepository.
type mockInventoryRepository struct {
	byID   map[int64]*entity.InventoryItem
	nextID int64
}

func newMockInventoryRepository() *mockInventoryRepository {
	return &mockInventoryRepository{byID: map[int64]*entity.InventoryItem{}}
}

func (r *mockInventoryRepository) Upsert(_ context.Context, it *entity.InventoryItem) error {
	for _, x := range r.byID {
		if x.ProductID == it.ProductID && x.StoreID == it.StoreID {
			it.InventoryID = x.InventoryID
			r.byID[x.InventoryID] = it
			return nil
		}
	}
	r.nextID++
	it.InventoryID = r.nextID
	r.byID[it.InventoryID] = it
	return nil
}

func (r *mockInventoryRepository) GetByID(_ context.Context, id int64) (*entity.InventoryItem, error) {
	return r.byID[id], nil
}

func (r *mockInventoryRepository) List(_ context.Context, storeID *int64) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	for _, it := range r.byID {
		if storeID == nil || it.StoreID == *storeID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InventoryID < out[j].InventoryID })
	return out, nil
}

func (r *mockInventoryRepository) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
