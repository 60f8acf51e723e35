package navigation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
)

// Rutas fijas que el guardia necesita.
const (
	PathLogin    = "/login"
	PathRegister = "/register"
	PathHome     = "/home"
)

// Route descriptor de una página del portal.
// Roles solo filtra el menú; el guardia controla acceso por Feature.
type Route struct {
	Name     string             `json:"name"`
	Path     string             `json:"path"`
	Title    string             `json:"title,omitempty"`
	Icon     string             `json:"icon,omitempty"`
	Public   bool               `json:"public,omitempty"`
	Redirect string             `json:"redirect,omitempty"`
	Feature  entity.FeatureCode `json:"feature,omitempty"`
	Roles    []entity.Role      `json:"roles,omitempty"`
}

// RequiresAuth toda ruta requiere sesión salvo las marcadas como públicas.
func (r Route) RequiresAuth() bool { return !r.Public }

// DefaultRoutes tabla de rutas del supermercado.
func DefaultRoutes() []Route {
	adminManager := []entity.Role{entity.RoleSystemAdmin, entity.RoleStoreManager}
	return []Route{
		{Name: "Login", Path: PathLogin, Title: "Iniciar sesión", Public: true},
		{Name: "Register", Path: PathRegister, Title: "Registro", Public: true},
		{Name: "Layout", Path: "/", Redirect: PathHome},
		{Name: "Home", Path: PathHome, Title: "Inicio", Icon: "House"},
		{Name: "Stores", Path: "/stores", Title: "Tiendas", Icon: "Shop", Feature: entity.FeatureStoreManagement, Roles: adminManager},
		{Name: "Users", Path: "/users", Title: "Usuarios", Icon: "User", Feature: entity.FeatureUserManagement, Roles: adminManager},
		{Name: "Categories", Path: "/categories", Title: "Categorías", Icon: "Menu", Feature: entity.FeatureCategoryManagement, Roles: adminManager},
		{Name: "Suppliers", Path: "/suppliers", Title: "Proveedores", Icon: "OfficeBuilding", Feature: entity.FeatureSupplierManagement, Roles: adminManager},
		{Name: "Products", Path: "/products", Title: "Productos", Icon: "Goods", Feature: entity.FeatureProductManagement, Roles: adminManager},
		{Name: "Inventory", Path: "/inventory", Title: "Inventario", Icon: "Box", Feature: entity.FeatureInventoryManagement},
		{Name: "Promotions", Path: "/promotions", Title: "Promociones", Icon: "Present", Feature: entity.FeaturePromotionManagement, Roles: adminManager},
		{Name: "Sales", Path: "/sales", Title: "Ventas", Icon: "ShoppingCart", Feature: entity.FeatureSalesManagement},
		{Name: "POS", Path: "/pos", Title: "Caja", Icon: "CreditCard", Feature: entity.FeaturePOSSystem, Roles: []entity.Role{entity.RoleCashier, entity.RoleStoreManager}},
		{Name: "Permissions", Path: "/permissions", Title: "Permisos", Icon: "Lock", Feature: entity.FeaturePermissionManagement, Roles: []entity.Role{entity.RoleSystemAdmin}},
	}
}

// ErrInvalidRoute la tabla de rutas no es consistente.
var ErrInvalidRoute = errors.New("tabla de rutas inválida")

// Table tabla de rutas validada; inmutable.
type Table struct {
	routes []Route
	byPath map[string]int
}

// NewTable valida la tabla: rutas absolutas y únicas, funciones y roles conocidos,
// redirecciones a rutas existentes, y /login (pública) y /home presentes.
func NewTable(routes []Route) (*Table, error) {
	t := &Table{byPath: make(map[string]int, len(routes))}
	names := make(map[string]bool, len(routes))
	for _, r := range routes {
		if !strings.HasPrefix(r.Path, "/") {
			return nil, fmt.Errorf("%w: ruta %q no es absoluta", ErrInvalidRoute, r.Path)
		}
		r.Path = normalize(r.Path)
		if _, dup := t.byPath[r.Path]; dup {
			return nil, fmt.Errorf("%w: ruta %q duplicada", ErrInvalidRoute, r.Path)
		}
		if r.Name != "" {
			if names[r.Name] {
				return nil, fmt.Errorf("%w: nombre %q duplicado", ErrInvalidRoute, r.Name)
			}
			names[r.Name] = true
		}
		if r.Feature != "" && !r.Feature.Known() {
			return nil, fmt.Errorf("%w: %s usa la función desconocida %q", ErrInvalidRoute, r.Path, r.Feature)
		}
		for _, role := range r.Roles {
			if !role.Valid() {
				return nil, fmt.Errorf("%w: %s usa el rol desconocido %q", ErrInvalidRoute, r.Path, role)
			}
		}
		r.Roles = append([]entity.Role(nil), r.Roles...)
		t.byPath[r.Path] = len(t.routes)
		t.routes = append(t.routes, r)
	}

	for _, r := range t.routes {
		if r.Redirect == "" {
			continue
		}
		target, ok := t.Lookup(r.Redirect)
		if !ok || target.Redirect != "" {
			return nil, fmt.Errorf("%w: %s redirige a %q", ErrInvalidRoute, r.Path, r.Redirect)
		}
	}
	login, ok := t.Lookup(PathLogin)
	if !ok || !login.Public {
		return nil, fmt.Errorf("%w: falta la ruta pública %s", ErrInvalidRoute, PathLogin)
	}
	if _, ok := t.Lookup(PathHome); !ok {
		return nil, fmt.Errorf("%w: falta la ruta %s", ErrInvalidRoute, PathHome)
	}
	return t, nil
}

// DefaultTable tabla de DefaultRoutes ya validada.
func DefaultTable() *Table {
	t, err := NewTable(DefaultRoutes())
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup ruta registrada para path ("/users/" equivale a "/users").
func (t *Table) Lookup(path string) (Route, bool) {
	i, ok := t.byPath[normalize(path)]
	if !ok {
		return Route{}, false
	}
	return t.routes[i], true
}

// Routes rutas en el orden declarado.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return "/"
		}
	}
	return path
}
