package navigation

import (
	"context"

	"github.com/jhoicas/Supermercado-api/internal/application/notice"
	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
	"github.com/jhoicas/Supermercado-api/pkg/logger"
)

const msgAccessDenied = "No tiene permiso para acceder a esta página"

// Session lo que el guardia consulta de la sesión del cliente.
type Session interface {
	IsAuthenticated() bool
	HasPermission(code entity.FeatureCode, action entity.Action) bool
	HasRole(roles ...entity.Role) bool
	EnsurePermissions(ctx context.Context) error
}

// Outcome resultado de evaluar una navegación.
type Outcome int

const (
	Allow Outcome = iota
	Redirect
)

func (o Outcome) String() string {
	if o == Redirect {
		return "redirect"
	}
	return "allow"
}

// Decision qué hacer con la navegación. Route es nil para rutas fuera de la tabla.
type Decision struct {
	Outcome  Outcome
	Location string
	Route    *Route
	Notice   *notice.Notice
}

func allow(r *Route) Decision { return Decision{Outcome: Allow, Route: r} }

func redirect(to string) Decision { return Decision{Outcome: Redirect, Location: to} }

// Guard decide cada navegación según la sesión y la tabla de rutas.
type Guard struct {
	table *Table
	log   *logger.Logger
}

func NewGuard(table *Table, log *logger.Logger) *Guard {
	if log == nil {
		log = logger.Nop()
	}
	return &Guard{table: table, log: log}
}

func (g *Guard) Table() *Table { return g.table }

// Evaluate aplica, en orden:
//  1. ruta con sesión requerida y sin sesión: a /login
//  2. con sesión hacia /login o /register: a /home
//  3. con sesión y sin permisos cargados: se cargan antes de seguir
//  4. ruta con función y sin permiso de ver: aviso y a /home
//  5. en otro caso se permite
//
// Las rutas que solo redirigen ("/" a "/home") se resuelven primero.
func (g *Guard) Evaluate(ctx context.Context, sess Session, path string) Decision {
	route, known := g.table.Lookup(path)
	if known && route.Redirect != "" {
		return redirect(route.Redirect)
	}

	authed := sess.IsAuthenticated()
	if (!known || route.RequiresAuth()) && !authed {
		return redirect(PathLogin)
	}
	if !authed {
		return allow(&route)
	}

	if known && (route.Path == PathLogin || route.Path == PathRegister) {
		return redirect(PathHome)
	}

	if err := sess.EnsurePermissions(ctx); err != nil {
		// se sigue con el conjunto vacío: sin datos no hay acceso
		g.log.Warn().Err(err).Str("path", path).Msg("permisos no disponibles")
	}

	if !known {
		return allow(nil)
	}
	if route.Feature != "" && !sess.HasPermission(route.Feature, entity.ActionView) {
		g.log.Info().Str("path", route.Path).Str("feature", string(route.Feature)).Msg("acceso denegado")
		d := redirect(PathHome)
		n := notice.Error(msgAccessDenied)
		d.Notice = &n
		return d
	}
	return allow(&route)
}
