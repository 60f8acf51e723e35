package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
)

func TestDefaultRoutes_Valida(t *testing.T) {
	table, err := NewTable(DefaultRoutes())
	require.NoError(t, err)

	expected := map[string]entity.FeatureCode{
		"/stores":      entity.FeatureStoreManagement,
		"/users":       entity.FeatureUserManagement,
		"/categories":  entity.FeatureCategoryManagement,
		"/suppliers":   entity.FeatureSupplierManagement,
		"/products":    entity.FeatureProductManagement,
		"/inventory":   entity.FeatureInventoryManagement,
		"/promotions":  entity.FeaturePromotionManagement,
		"/sales":       entity.FeatureSalesManagement,
		"/pos":         entity.FeaturePOSSystem,
		"/permissions": entity.FeaturePermissionManagement,
	}
	for path, code := range expected {
		r, ok := table.Lookup(path)
		require.True(t, ok, path)
		assert.Equal(t, code, r.Feature, path)
		assert.True(t, r.RequiresAuth(), path)
	}
	home, ok := table.Lookup(PathHome)
	require.True(t, ok)
	assert.Empty(t, home.Feature)
}

func TestNewTable_Errores(t *testing.T) {
	base := func() []Route {
		return []Route{
			{Name: "Login", Path: PathLogin, Public: true},
			{Name: "Home", Path: PathHome},
		}
	}
	cases := map[string]func([]Route) []Route{
		"ruta relativa":       func(r []Route) []Route { return append(r, Route{Path: "users"}) },
		"ruta duplicada":      func(r []Route) []Route { return append(r, Route{Path: "/home/"}) },
		"nombre duplicado":    func(r []Route) []Route { return append(r, Route{Name: "Home", Path: "/x"}) },
		"función desconocida": func(r []Route) []Route { return append(r, Route{Path: "/x", Feature: "reportes"}) },
		"rol desconocido":     func(r []Route) []Route { return append(r, Route{Path: "/x", Roles: []entity.Role{"admin"}}) },
		"redirección rota":    func(r []Route) []Route { return append(r, Route{Path: "/", Redirect: "/nada"}) },
		"sin home":            func(r []Route) []Route { return r[:1] },
		"login privado": func(r []Route) []Route {
			r[0].Public = false
			return r
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewTable(mutate(base()))
			assert.ErrorIs(t, err, ErrInvalidRoute)
		})
	}
}

func TestMenu_FiltraPorRolYPermiso(t *testing.T) {
	table := DefaultTable()

	cashier := &fakeSession{authed: true, role: entity.RoleCashier}
	cashier.grant(view(entity.FeaturePOSSystem), view(entity.FeatureSalesManagement), view(entity.FeatureUserManagement))
	paths := func(items []MenuItem) []string {
		var out []string
		for _, it := range items {
			out = append(out, it.Path)
		}
		return out
	}
	// /users no aparece aunque tenga el permiso: el rol no está en la lista
	assert.Equal(t, []string{"/home", "/sales", "/pos"}, paths(table.Menu(cashier)))

	assert.Empty(t, table.Menu(&fakeSession{}))
}
