package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Supermercado-api/internal/application/dto"
	"github.com/jhoicas/Supermercado-api/internal/domain"
	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
	"github.com/jhoicas/Supermercado-api/pkg/logger"
)

func ptr[T any](v T) *T { return &v }

// userFixture: admin en casa matriz, gerente y cajero en tienda 2, gerente y cajero en tienda 3.
type userFixture struct {
	uc                 *UserUseCase
	repo               *mockUserRepository
	admin, mgr2, cash2 *entity.User
	mgr3, cash3        *entity.User
}

func newUserFixture() *userFixture {
	repo := newMockUserRepository()
	f := &userFixture{uc: NewUserUseCase(repo, logger.Nop()), repo: repo}
	f.admin = repo.seed("admin", entity.RoleSystemAdmin, entity.HeadquartersStoreID)
	f.mgr2 = repo.seed("gerente2", entity.RoleStoreManager, 2)
	f.cash2 = repo.seed("caja2", entity.RoleCashier, 2)
	f.mgr3 = repo.seed("gerente3", entity.RoleStoreManager, 3)
	f.cash3 = repo.seed("caja3", entity.RoleCashier, 3)
	return f
}

func TestUserList_VisibilidadPorRol(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	out, err := f.uc.List(ctx, f.admin.UserID)
	require.NoError(t, err)
	assert.Len(t, out.Items, 5)

	out, err = f.uc.List(ctx, f.mgr2.UserID)
	require.NoError(t, err)
	var ids []int64
	for _, u := range out.Items {
		ids = append(ids, u.UserID)
	}
	assert.ElementsMatch(t, []int64{f.mgr2.UserID, f.cash2.UserID}, ids)

	out, err = f.uc.List(ctx, f.cash2.UserID)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, f.cash2.UserID, out.Items[0].UserID)
}

func TestUserGet_GerenteSoloSuTienda(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	_, err := f.uc.Get(ctx, f.mgr2.UserID, f.cash2.UserID)
	assert.NoError(t, err)
	_, err = f.uc.Get(ctx, f.mgr2.UserID, f.cash3.UserID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.Get(ctx, f.cash2.UserID, f.mgr2.UserID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.Get(ctx, f.admin.UserID, 99)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserCreate_GerenteCreaCajerosDeSuTienda(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	out, err := f.uc.Create(ctx, f.mgr2.UserID, dto.CreateUserRequest{Username: "nueva", Password: "secreto1", StoreID: ptr(int64(2))})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCashier, out.Role)
	require.NotNil(t, out.StoreID)
	assert.Equal(t, int64(2), *out.StoreID)

	stored := f.repo.byID[out.UserID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreto1")))

	_, err = f.uc.Create(ctx, f.mgr2.UserID, dto.CreateUserRequest{Username: "otra", Password: "x", StoreID: ptr(int64(3))})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.Create(ctx, f.mgr2.UserID, dto.CreateUserRequest{Username: "otra", Password: "x", StoreID: ptr(int64(2)), Role: "store_manager"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.Create(ctx, f.mgr2.UserID, dto.CreateUserRequest{Username: "otra", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "sin store_id no es su tienda")

	_, err = f.uc.Create(ctx, f.cash2.UserID, dto.CreateUserRequest{Username: "otra", Password: "x", StoreID: ptr(int64(2))})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUserCreate_AdminSiempreEnCasaMatriz(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	out, err := f.uc.Create(ctx, f.admin.UserID, dto.CreateUserRequest{Username: "admin2", Password: "x", Role: "system_admin", StoreID: ptr(int64(3))})
	require.NoError(t, err)
	require.NotNil(t, out.StoreID)
	assert.Equal(t, entity.HeadquartersStoreID, *out.StoreID)

	out, err = f.uc.Create(ctx, f.admin.UserID, dto.CreateUserRequest{Username: "sin_tienda", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, entity.HeadquartersStoreID, *out.StoreID, "sin tienda va a casa matriz")
}

func TestUserCreate_Validaciones(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	_, err := f.uc.Create(ctx, f.admin.UserID, dto.CreateUserRequest{Username: "  ", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.Create(ctx, f.admin.UserID, dto.CreateUserRequest{Username: "z", Password: "x", Role: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
	_, err = f.uc.Create(ctx, f.admin.UserID, dto.CreateUserRequest{Username: "caja2", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestUserUpdate_GerenteNoEscala(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	// propio rol
	_, err := f.uc.Update(ctx, f.mgr2.UserID, f.mgr2.UserID, dto.UpdateUserRequest{Username: "gerente2", Role: "system_admin", StoreID: ptr(int64(2))})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// promover a un cajero
	_, err = f.uc.Update(ctx, f.mgr2.UserID, f.cash2.UserID, dto.UpdateUserRequest{Username: "caja2", Role: "store_manager", StoreID: ptr(int64(2))})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// mover un cajero a otra tienda
	_, err = f.uc.Update(ctx, f.mgr2.UserID, f.cash2.UserID, dto.UpdateUserRequest{Username: "caja2", Role: "cashier", StoreID: ptr(int64(3))})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// cajero de otra tienda
	_, err = f.uc.Update(ctx, f.mgr2.UserID, f.cash3.UserID, dto.UpdateUserRequest{Username: "caja3", Role: "cashier", StoreID: ptr(int64(3))})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// modificar a un administrador
	_, err = f.uc.Update(ctx, f.mgr2.UserID, f.admin.UserID, dto.UpdateUserRequest{Username: "admin", Role: "system_admin"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := f.uc.Update(ctx, f.mgr2.UserID, f.cash2.UserID, dto.UpdateUserRequest{Username: "caja2b", Role: "cashier", StoreID: ptr(int64(2))})
	require.NoError(t, err)
	assert.Equal(t, "caja2b", out.Username)
}

func TestUserUpdate_CajeroSoloSuCuenta(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	_, err := f.uc.Update(ctx, f.cash2.UserID, f.cash2.UserID, dto.UpdateUserRequest{Username: "caja2", Role: "store_manager"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.Update(ctx, f.cash2.UserID, f.cash2.UserID, dto.UpdateUserRequest{Username: "caja2", Role: "cashier", StoreID: ptr(int64(3))})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.Update(ctx, f.cash2.UserID, f.cash3.UserID, dto.UpdateUserRequest{Username: "caja3", Role: "cashier"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	oldHash := f.repo.byID[f.cash2.UserID].PasswordHash
	out, err := f.uc.Update(ctx, f.cash2.UserID, f.cash2.UserID, dto.UpdateUserRequest{Username: "caja2", Role: "cashier", Password: "nueva123"})
	require.NoError(t, err)
	require.NotNil(t, out.StoreID)
	assert.Equal(t, int64(2), *out.StoreID, "conserva su tienda")
	stored := f.repo.byID[f.cash2.UserID]
	assert.NotEqual(t, oldHash, stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("nueva123")))
}

func TestUserUpdate_NombreOcupadoYSinPassword(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	_, err := f.uc.Update(ctx, f.admin.UserID, f.cash2.UserID, dto.UpdateUserRequest{Username: "caja3", Role: "cashier", StoreID: ptr(int64(2))})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	_, err = f.uc.Update(ctx, f.admin.UserID, f.cash2.UserID, dto.UpdateUserRequest{Username: "caja2", Role: "cashier", StoreID: ptr(int64(2))})
	require.NoError(t, err)
	assert.Equal(t, "x", f.repo.byID[f.cash2.UserID].PasswordHash, "sin password no cambia el hash")
}

func TestUserDelete_Reglas(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	assert.ErrorIs(t, f.uc.Delete(ctx, f.admin.UserID, f.admin.UserID), domain.ErrSelfDelete)
	assert.ErrorIs(t, f.uc.Delete(ctx, f.mgr2.UserID, f.mgr3.UserID), domain.ErrForbidden)
	assert.ErrorIs(t, f.uc.Delete(ctx, f.mgr2.UserID, f.cash3.UserID), domain.ErrForbidden)
	assert.ErrorIs(t, f.uc.Delete(ctx, f.cash2.UserID, f.cash3.UserID), domain.ErrForbidden)
	assert.ErrorIs(t, f.uc.Delete(ctx, f.admin.UserID, 99), domain.ErrUserNotFound)

	require.NoError(t, f.uc.Delete(ctx, f.mgr2.UserID, f.cash2.UserID))
	assert.NotContains(t, f.repo.byID, f.cash2.UserID)
	require.NoError(t, f.uc.Delete(ctx, f.admin.UserID, f.mgr3.UserID))
}
