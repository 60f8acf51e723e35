package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Supermercado-api/internal/application/dto"
	"github.com/jhoicas/Supermercado-api/internal/domain"
	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
	"github.com/jhoicas/Supermercado-api/pkg/logger"
)

func upsertReq(store *int64, product int64, qty int, price string) dto.UpsertInventoryRequest {
	p := decimal.RequireFromString(price)
	return dto.UpsertInventoryRequest{StoreID: store, ProductID: product, Quantity: &qty, Price: &p}
}

func TestInventoryUpsert_AlcancePorTienda(t *testing.T) {
	users := newMockUserRepository()
	admin := users.seed("admin", entity.RoleSystemAdmin, entity.HeadquartersStoreID)
	cash2 := users.seed("caja2", entity.RoleCashier, 2)
	items := newMockInventoryRepository()
	uc := NewInventoryUseCase(items, users, logger.Nop())
	ctx := context.Background()

	_, err := uc.Upsert(ctx, admin.UserID, upsertReq(nil, 1, 5, "1.00"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el administrador debe indicar la tienda")

	out, err := uc.Upsert(ctx, admin.UserID, upsertReq(ptr(int64(3)), 1, 5, "1.00"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.StoreID)

	out, err = uc.Upsert(ctx, cash2.UserID, upsertReq(nil, 1, 7, "1.10"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.StoreID, "sin store_id usa la tienda propia")

	_, err = uc.Upsert(ctx, cash2.UserID, upsertReq(ptr(int64(3)), 1, 7, "1.10"))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	again, err := uc.Upsert(ctx, cash2.UserID, upsertReq(ptr(int64(2)), 1, 9, "1.20"))
	require.NoError(t, err)
	assert.Equal(t, out.InventoryID, again.InventoryID, "misma fila producto y tienda")
	assert.Equal(t, 9, again.Quantity)
}

func TestInventoryUpsert_Validaciones(t *testing.T) {
	users := newMockUserRepository()
	admin := users.seed("admin", entity.RoleSystemAdmin, entity.HeadquartersStoreID)
	uc := NewInventoryUseCase(newMockInventoryRepository(), users, logger.Nop())
	ctx := context.Background()

	_, err := uc.Upsert(ctx, admin.UserID, upsertReq(ptr(int64(1)), 1, -1, "1.00"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Upsert(ctx, admin.UserID, upsertReq(ptr(int64(1)), 1, 1, "0.001"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Upsert(ctx, admin.UserID, dto.UpsertInventoryRequest{StoreID: ptr(int64(1)), ProductID: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Upsert(ctx, 99, upsertReq(ptr(int64(1)), 1, 1, "1"))
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestInventoryList_NoAdminVeSuTienda(t *testing.T) {
	users := newMockUserRepository()
	admin := users.seed("admin", entity.RoleSystemAdmin, entity.HeadquartersStoreID)
	mgr2 := users.seed("gerente2", entity.RoleStoreManager, 2)
	items := newMockInventoryRepository()
	uc := NewInventoryUseCase(items, users, logger.Nop())
	ctx := context.Background()

	_, err := uc.Upsert(ctx, admin.UserID, upsertReq(ptr(int64(2)), 1, 1, "1"))
	require.NoError(t, err)
	_, err = uc.Upsert(ctx, admin.UserID, upsertReq(ptr(int64(3)), 1, 1, "1"))
	require.NoError(t, err)

	all, err := uc.List(ctx, admin.UserID, nil)
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	only3, err := uc.List(ctx, admin.UserID, ptr(int64(3)))
	require.NoError(t, err)
	require.Len(t, only3.Items, 1)
	assert.Equal(t, int64(3), only3.Items[0].StoreID)

	own, err := uc.List(ctx, mgr2.UserID, ptr(int64(3)))
	require.NoError(t, err)
	require.Len(t, own.Items, 1, "el filtro de otra tienda se ignora")
	assert.Equal(t, int64(2), own.Items[0].StoreID)

	nostore := users.seed("sin_tienda", entity.RoleCashier, 0)
	nostore.StoreID = nil
	empty, err := uc.List(ctx, nostore.UserID, nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.NotNil(t, empty.Items)
}

func TestInventoryDelete_OtraTiendaProhibido(t *testing.T) {
	users := newMockUserRepository()
	admin := users.seed("admin", entity.RoleSystemAdmin, entity.HeadquartersStoreID)
	mgr2 := users.seed("gerente2", entity.RoleStoreManager, 2)
	items := newMockInventoryRepository()
	uc := NewInventoryUseCase(items, users, logger.Nop())
	ctx := context.Background()

	in3, err := uc.Upsert(ctx, admin.UserID, upsertReq(ptr(int64(3)), 1, 1, "1"))
	require.NoError(t, err)
	in2, err := uc.Upsert(ctx, admin.UserID, upsertReq(ptr(int64(2)), 1, 1, "1"))
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(ctx, mgr2.UserID, in3.InventoryID), domain.ErrForbidden)
	require.NoError(t, uc.Delete(ctx, mgr2.UserID, in2.InventoryID))
	assert.ErrorIs(t, uc.Delete(ctx, mgr2.UserID, in2.InventoryID), domain.ErrNotFound)
	require.NoError(t, uc.Delete(ctx, admin.UserID, in3.InventoryID))
}
