package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	productsrepo "github.com/dmitrijs2005/storefront/internal/server/repositories/products"
	usersrepo "github.com/dmitrijs2005/storefront/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	byEmail map[string]*models.User
	getErr  error

	createErr error
	created   []*models.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = "u-" + u.Email
	f.byEmail[u.Email] = u
	f.created = append(f.created, u)
	return u, nil
}

func (f *fakeUsersRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeProductsRepo struct {
	rows map[string]*models.Product

	createErr error
	updateErr error
	locked    []string
	nextID    int
}

func newFakeProductsRepo() *fakeProductsRepo {
	return &fakeProductsRepo{rows: map[string]*models.Product{}}
}

func (f *fakeProductsRepo) List(context.Context) ([]*models.Product, error) {
	out := make([]*models.Product, 0, len(f.rows))
	for _, p := range f.rows {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductsRepo) GetByID(_ context.Context, id string) (*models.Product, error) {
	p, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductsRepo) GetByIDForUpdate(ctx context.Context, id string) (*models.Product, error) {
	f.locked = append(f.locked, id)
	return f.GetByID(ctx, id)
}

func (f *fakeProductsRepo) Create(_ context.Context, p *models.Product) (*models.Product, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	p.ID = "p" + string(rune('0'+f.nextID))
	cp := *p
	f.rows[p.ID] = &cp
	return p, nil
}

func (f *fakeProductsRepo) Update(_ context.Context, p *models.Product) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.rows[p.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *p
	f.rows[p.ID] = &cp
	return nil
}

func (f *fakeProductsRepo) Delete(_ context.Context, id string) (*models.Product, error) {
	p, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(f.rows, id)
	return p, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	p *fakeProductsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository        { return m.u }
func (m *fakeRepoManager) Products(dbx.DBTX) productsrepo.Repository  { return m.p }

type fakeAssets struct {
	stored   map[string]bool
	storeErr error
	delErr   error
	deleted  []string
	n        int
	onStore  func()
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{stored: map[string]bool{}}
}

func (f *fakeAssets) Store(_ context.Context, u *models.Upload) (string, error) {
	if f.onStore != nil {
		f.onStore()
	}
	if f.storeErr != nil {
		return "", f.storeErr
	}
	f.n++
	ref := "/uploads/" + string(rune('0'+f.n)) + "-" + u.FileName
	f.stored[ref] = true
	return ref, nil
}

func (f *fakeAssets) Delete(_ context.Context, ref string) error {
	f.deleted = append(f.deleted, ref)
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.stored, ref)
	return nil
}

var errBoom = errors.New("boom")
