package navigation

import "github.com/jhoicas/Supermercado-api/internal/domain/entity"

// MenuItem entrada del menú lateral.
type MenuItem struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Title string `json:"title"`
	Icon  string `json:"icon,omitempty"`
}

// MenuSession consultas de sesión que usa el menú.
type MenuSession interface {
	IsAuthenticated() bool
	HasPermission(code entity.FeatureCode, action entity.Action) bool
	HasRole(roles ...entity.Role) bool
}

// Menu páginas visibles para la sesión: privadas, con título, con el rol en la lista
// (si la ruta declara una) y con permiso de ver su función.
func (t *Table) Menu(sess MenuSession) []MenuItem {
	items := []MenuItem{}
	if !sess.IsAuthenticated() {
		return items
	}
	for _, r := range t.routes {
		if r.Public || r.Redirect != "" || r.Title == "" {
			continue
		}
		if len(r.Roles) > 0 && !sess.HasRole(r.Roles...) {
			continue
		}
		if r.Feature != "" && !sess.HasPermission(r.Feature, entity.ActionView) {
			continue
		}
		items = append(items, MenuItem{Name: r.Name, Path: r.Path, Title: r.Title, Icon: r.Icon})
	}
	return items
}
