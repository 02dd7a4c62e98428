package httpapi

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	productsrepo "github.com/dmitrijs2005/storefront/internal/server/repositories/products"
	usersrepo "github.com/dmitrijs2005/storefront/internal/server/repositories/users"
)

// memStore stands in for Postgres behind the repository interfaces.
type memStore struct {
	mu       sync.Mutex
	seq      int
	users    map[string]*models.User
	products []*models.Product
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*models.User{}}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memStore) Users(dbx.DBTX) usersrepo.Repository         { return memUsers{m} }
func (m *memStore) Products(dbx.DBTX) productsrepo.Repository   { return memProducts{m} }

type memUsers struct{ m *memStore }

func (r memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[u.Email]; ok {
		return nil, common.ErrConflict
	}
	u.ID = r.m.nextID("u")
	u.CreatedAt = time.Now()
	r.m.users[u.Email] = u
	return u, nil
}

func (r memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if u, ok := r.m.users[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

type memProducts struct{ m *memStore }

func (r memProducts) find(id string) (int, bool) {
	for i, p := range r.m.products {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (r memProducts) List(context.Context) ([]*models.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*models.Product, 0, len(r.m.products))
	for i := len(r.m.products) - 1; i >= 0; i-- {
		cp := *r.m.products[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (r memProducts) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	i, ok := r.find(id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *r.m.products[i]
	return &cp, nil
}

func (r memProducts) GetByIDForUpdate(ctx context.Context, id string) (*models.Product, error) {
	return r.GetByID(ctx, id)
}

func (r memProducts) Create(_ context.Context, p *models.Product) (*models.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p.ID = r.m.nextID("p")
	p.CreatedAt = time.Now()
	cp := *p
	r.m.products = append(r.m.products, &cp)
	return p, nil
}

func (r memProducts) Update(_ context.Context, p *models.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	i, ok := r.find(p.ID)
	if !ok {
		return common.ErrorNotFound
	}
	cp := *p
	r.m.products[i] = &cp
	return nil
}

func (r memProducts) Delete(_ context.Context, id string) (*models.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	i, ok := r.find(id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	p := r.m.products[i]
	r.m.products = append(r.m.products[:i], r.m.products[i+1:]...)
	return p, nil
}
