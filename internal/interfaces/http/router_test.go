package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Supermercado-api/internal/application/auth"
	"github.com/jhoicas/Supermercado-api/internal/application/dto"
	"github.com/jhoicas/Supermercado-api/internal/application/permission"
	"github.com/jhoicas/Supermercado-api/internal/application/usecase"
	"github.com/jhoicas/Supermercado-api/internal/domain"
	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
	"github.com/jhoicas/Supermercado-api/internal/domain/repository"
	apphttp "github.com/jhoicas/Supermercado-api/internal/interfaces/http"
	"github.com/jhoicas/Supermercado-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memUsers struct {
	mu     sync.Mutex
	byID   map[int64]*entity.User
	nextID int64
}

func (r *memUsers) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
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

func (r *memUsers) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id], nil
}

func (r *memUsers) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUsers) List(_ context.Context, f repository.UserFilter) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.byID {
		match := f.StoreID == nil || u.InStore(f.StoreID)
		if match && len(f.Roles) > 0 {
			match = slices.Contains(f.Roles, u.Role)
		}
		if match || u.UserID == f.AlsoUserID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID > out[j].UserID })
	return out, nil
}

func (r *memUsers) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
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

func (r *memUsers) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type memPerms struct {
	mu       sync.Mutex
	features []entity.Feature
	rows     map[entity.Role]map[int64]entity.RolePermission
}

func (r *memPerms) ListFeatures(context.Context) ([]entity.Feature, error) {
	return r.features, nil
}

func (r *memPerms) GetFeatureByID(_ context.Context, id int64) (*entity.Feature, error) {
	for i := range r.features {
		if r.features[i].FeatureID == id {
			return &r.features[i], nil
		}
	}
	return nil, nil
}

func (r *memPerms) ListByRole(_ context.Context, role entity.Role) ([]entity.PermissionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.PermissionRecord
	for _, f := range r.features {
		if rp, ok := r.rows[role][f.FeatureID]; ok {
			out = append(out, rp.PermissionRecord)
		}
	}
	return out, nil
}

func (r *memPerms) ListAll(ctx context.Context) ([]entity.RolePermission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.RolePermission
	for _, role := range entity.Roles() {
		ids := make([]int64, 0, len(r.rows[role]))
		for id := range r.rows[role] {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			out = append(out, r.rows[role][id])
		}
	}
	return out, nil
}

func (r *memPerms) Upsert(_ context.Context, rp entity.RolePermission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rows[rp.Role] == nil {
		r.rows[rp.Role] = map[int64]entity.RolePermission{}
	}
	r.rows[rp.Role][rp.FeatureID] = rp
	return nil
}

type stubRenderer struct{}

func (stubRenderer) RenderPermissionMatrix(context.Context, permission.Matrix) ([]byte, error) {
	return []byte("%PDF-1.3 test"), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// App completa
// ──────────────────────────────────────────────────────────────────────────────

type testAPI struct {
	app       *fiber.App
	users     *memUsers
	stores    *memStores
	inventory *memInventory
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	users := &memUsers{byID: map[int64]*entity.User{}}
	perms := &memPerms{
		features: []entity.Feature{
			{FeatureID: 1, Code: entity.FeaturePOSSystem, Name: "Punto de venta", Module: entity.ModulePOS, IsActive: true},
			{FeatureID: 2, Code: entity.FeaturePermissionManagement, Name: "Gestión de permisos", Module: entity.ModulePermission, IsActive: true},
			{FeatureID: 3, Code: entity.FeatureStoreManagement, Name: "Gestión de tiendas", Module: entity.ModuleStore, IsActive: true},
			{FeatureID: 4, Code: entity.FeatureProductManagement, Name: "Gestión de productos", Module: entity.ModuleProduct, IsActive: true},
			{FeatureID: 5, Code: entity.FeatureInventoryManagement, Name: "Gestión de inventario", Module: entity.ModuleInventory, IsActive: true},
			{FeatureID: 6, Code: entity.FeatureCategoryManagement, Name: "Gestión de categorías", Module: entity.ModuleCategory, IsActive: true},
			{FeatureID: 7, Code: entity.FeatureSupplierManagement, Name: "Gestión de proveedores", Module: entity.ModuleSupplier, IsActive: true},
		},
		rows: map[entity.Role]map[int64]entity.RolePermission{},
	}
	grant := func(role entity.Role, f entity.Feature, v, c, e, d bool) {
		_ = perms.Upsert(context.Background(), entity.RolePermission{Role: role, FeatureID: f.FeatureID, PermissionRecord: entity.PermissionRecord{
			FeatureCode: f.Code, FeatureName: f.Name, Module: f.Module, CanView: v, CanCreate: c, CanEdit: e, CanDelete: d,
		}})
	}
	for _, f := range perms.features {
		grant(entity.RoleSystemAdmin, f, true, true, true, true)
	}
	grant(entity.RoleCashier, perms.features[0], true, true, false, false)
	grant(entity.RoleCashier, perms.features[3], true, false, false, false)
	grant(entity.RoleCashier, perms.features[4], true, false, true, false)
	grant(entity.RoleStoreManager, perms.features[3], true, true, true, true)
	grant(entity.RoleStoreManager, perms.features[4], true, true, true, true)
	grant(entity.RoleStoreManager, perms.features[5], true, true, true, true)

	log := logger.Nop()
	authUC := auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, log)
	permUC := permission.NewUseCase(users, perms, stubRenderer{}, log)

	stores := newMemStores()
	inventory := &memInventory{byID: map[int64]*entity.InventoryItem{}}

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:       authUC,
		PermissionUC: permUC,
		UserUC:       usecase.NewUserUseCase(users, log),
		StoreUC:      usecase.NewStoreUseCase(stores, log),
		CategoryUC:   usecase.NewCategoryUseCase(&memCategories{byID: map[int64]*entity.Category{}}),
		SupplierUC:   usecase.NewSupplierUseCase(&memSuppliers{byID: map[int64]*entity.Supplier{}}),
		ProductUC:    usecase.NewProductUseCase(&memProducts{byID: map[int64]*entity.Product{}}, log),
		InventoryUC:  usecase.NewInventoryUseCase(inventory, users, log),
		JWTSecret:    testJWTSecret,
	})
	return &testAPI{app: app, users: users, stores: stores, inventory: inventory}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	resp.Body.Close()
	return resp, buf.Bytes()
}

// registerAndLogin crea el usuario y devuelve su token.
func (a *testAPI) registerAndLogin(t *testing.T, username string, role entity.Role) (int64, string) {
	t.Helper()
	return a.registerInStore(t, username, role, nil)
}

// registerInStore crea el usuario asignado a storeID y devuelve su token.
func (a *testAPI) registerInStore(t *testing.T, username string, role entity.Role, storeID *int64) (int64, string) {
	t.Helper()
	resp, body := a.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Username: username, Password: "secreto1", Role: string(role), StoreID: storeID})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = a.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: username, Password: "secreto1"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out.User.UserID, out.AccessToken
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_RegistroYLogin(t *testing.T) {
	api := newTestAPI(t)
	id, tok := api.registerAndLogin(t, "caja1", entity.RoleCashier)
	assert.NotEmpty(t, tok)

	resp, body := api.do(t, http.MethodGet, "/api/auth/profile", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var u dto.UserResponse
	require.NoError(t, json.Unmarshal(body, &u))
	assert.Equal(t, id, u.UserID)
	assert.Equal(t, entity.RoleCashier, u.Role)
	assert.NotContains(t, string(body), "password")
}

func TestAuth_Errores(t *testing.T) {
	api := newTestAPI(t)
	api.registerAndLogin(t, "caja1", entity.RoleCashier)

	resp, body := api.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Username: "caja1", Password: "x"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "USERNAME_EXISTS")

	resp, body = api.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "caja1", Password: "mala"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var er dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &er))
	assert.NotEmpty(t, er.Message, "el cliente muestra el campo message")

	resp, _ = api.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "caja1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = api.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Username: "x", Password: "y", Role: "admin"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPermissions_UsuarioPropioYAjeno(t *testing.T) {
	api := newTestAPI(t)
	cashierID, cashierTok := api.registerAndLogin(t, "caja1", entity.RoleCashier)
	adminID, adminTok := api.registerAndLogin(t, "admin", entity.RoleSystemAdmin)

	resp, body := api.do(t, http.MethodGet, "/api/permissions/user/"+itoa(cashierID), cashierTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.UserPermissionsResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Permissions, 3)
	assert.Equal(t, entity.FeaturePOSSystem, out.Permissions[0].FeatureCode)

	resp, _ = api.do(t, http.MethodGet, "/api/permissions/user/"+itoa(adminID), cashierTok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = api.do(t, http.MethodGet, "/api/permissions/user/"+itoa(cashierID), adminTok, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = api.do(t, http.MethodGet, "/api/permissions/user/999", adminTok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = api.do(t, http.MethodGet, "/api/permissions/user/abc", adminTok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = api.do(t, http.MethodGet, "/api/permissions/user/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPermissions_AdministracionSoloAdmin(t *testing.T) {
	api := newTestAPI(t)
	_, cashierTok := api.registerAndLogin(t, "caja1", entity.RoleCashier)
	_, adminTok := api.registerAndLogin(t, "admin", entity.RoleSystemAdmin)

	for _, p := range []string{"/api/permissions/features", "/api/permissions/roles"} {
		resp, _ := api.do(t, http.MethodGet, p, cashierTok, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, p)
		resp, _ = api.do(t, http.MethodGet, p, adminTok, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, p)
	}

	upd := dto.UpdateRolePermissionRequest{CanView: true}
	resp, _ := api.do(t, http.MethodPut, "/api/permissions/roles/cashier/features/2", cashierTok, upd)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := api.do(t, http.MethodPut, "/api/permissions/roles/cashier/features/2", adminTok, upd)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = api.do(t, http.MethodPut, "/api/permissions/roles/system_admin/features/2", adminTok, dto.UpdateRolePermissionRequest{})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, string(body), "PROTECTED_PERMISSION")

	resp, _ = api.do(t, http.MethodPut, "/api/permissions/roles/cashier/features/77", adminTok, upd)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPermissions_Check(t *testing.T) {
	api := newTestAPI(t)
	_, tok := api.registerAndLogin(t, "caja1", entity.RoleCashier)

	resp, body := api.do(t, http.MethodPost, "/api/permissions/check", tok, dto.CheckPermissionRequest{FeatureCode: "pos_system"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.CheckPermissionResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, out.HasPermission)
	assert.Equal(t, entity.ActionView, out.Action)

	resp, _ = api.do(t, http.MethodPost, "/api/permissions/check", tok, dto.CheckPermissionRequest{FeatureCode: "pos_system", Action: "approve"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPermissions_ReportePDFPorFuncion(t *testing.T) {
	api := newTestAPI(t)
	_, cashierTok := api.registerAndLogin(t, "caja1", entity.RoleCashier)
	_, adminTok := api.registerAndLogin(t, "admin", entity.RoleSystemAdmin)

	resp, _ := api.do(t, http.MethodGet, "/api/permissions/roles/report.pdf", cashierTok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := api.do(t, http.MethodGet, "/api/permissions/roles/report.pdf", adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func itoa(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
