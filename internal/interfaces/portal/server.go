package portal

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Supermercado-api/internal/application/navigation"
	"github.com/jhoicas/Supermercado-api/internal/application/notice"
	"github.com/jhoicas/Supermercado-api/internal/application/session"
	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
	"github.com/jhoicas/Supermercado-api/pkg/datefmt"
	"github.com/jhoicas/Supermercado-api/pkg/logger"
)

// Recorder recibe los eventos que se cuentan en /metrics. Lo cumple *metrics.Metrics.
type Recorder interface {
	GuardDecision(outcome, location string)
	LoginResult(ok bool)
}

type nopRecorder struct{}

func (nopRecorder) GuardDecision(string, string) {}
func (nopRecorder) LoginResult(bool)             {}

// Server portal: sesión por cliente y guardia de navegación sobre Fiber.
type Server struct {
	registry *Registry
	guard    *navigation.Guard
	dates    *datefmt.Formatter
	cookie   CookieConfig
	log      *logger.Logger
	rec      Recorder
}

func NewServer(registry *Registry, guard *navigation.Guard, dates *datefmt.Formatter, cookie CookieConfig, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{registry: registry, guard: guard, dates: dates, cookie: cookie, log: log, rec: nopRecorder{}}
}

// WithRecorder activa las métricas del portal.
func (s *Server) WithRecorder(r Recorder) *Server {
	if r != nil {
		s.rec = r
	}
	return s
}

// ── Respuestas ────────────────────────────────────────────────────────────────

// UserView usuario con fechas ya formateadas.
type UserView struct {
	UserID      int64       `json:"user_id"`
	Username    string      `json:"username"`
	Role        entity.Role `json:"role"`
	StoreID     *int64      `json:"store_id,omitempty"`
	CreatedAt   string      `json:"created_at"`
	MemberSince string      `json:"member_since"`
}

// PageResponse página permitida por el guardia.
type PageResponse struct {
	Route   *navigation.Route     `json:"route"`
	Title   string                `json:"title"`
	User    *UserView             `json:"user"`
	Menu    []navigation.MenuItem `json:"menu"`
	Notices []notice.Notice       `json:"notices"`
}

// SessionResponse estado de la sesión del cliente.
type SessionResponse struct {
	Authenticated bool                      `json:"authenticated"`
	IsAdmin       bool                      `json:"is_admin"`
	IsManager     bool                      `json:"is_manager"`
	IsCashier     bool                      `json:"is_cashier"`
	User          *UserView                 `json:"user"`
	Permissions   []entity.PermissionRecord `json:"permissions"`
	// Modules acceso de lectura por módulo para armar la navegación.
	Modules       map[entity.Module]bool    `json:"modules"`
}

// ActionResponse resultado de login, registro o logout.
type ActionResponse struct {
	OK       bool            `json:"ok"`
	Redirect string          `json:"redirect"`
	Notices  []notice.Notice `json:"notices"`
}

type loginBody struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type registerBody struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"role"`
	StoreID  *int64 `json:"store_id,omitempty" form:"store_id"`
}

// ── Rutas ─────────────────────────────────────────────────────────────────────

// Register monta las rutas del portal. GET /* queda al final: pasa por el guardia.
func (s *Server) Register(app *fiber.App) {
	app.Use(ClientMiddleware(s.registry, s.cookie))
	app.Get("/session", s.Session)
	app.Post("/login", s.Login)
	app.Post("/register", s.RegisterUser)
	app.Post("/logout", s.Logout)
	app.Get("/*", s.Page)
}

// Page evalúa la navegación: 302 si el guardia redirige, si no la página en JSON.
func (s *Server) Page(c *fiber.Ctx) error {
	cl := GetClient(c)
	path := c.Path()

	d := s.guard.Evaluate(c.UserContext(), cl.Session, path)
	s.rec.GuardDecision(d.Outcome.String(), d.Location)
	if d.Outcome == navigation.Redirect {
		if d.Notice != nil {
			cl.Notices.Push(*d.Notice)
		}
		s.log.Debug().Str("client", cl.ID).Str("from", path).Str("to", d.Location).Msg("redirección")
		return c.Redirect(d.Location, fiber.StatusFound)
	}

	resp := PageResponse{
		Route:   d.Route,
		User:    s.userView(cl.Session.User()),
		Menu:    s.guard.Table().Menu(cl.Session),
		Notices: cl.Notices.Drain(),
	}
	if d.Route == nil {
		resp.Title = "Página no encontrada"
		return c.Status(fiber.StatusNotFound).JSON(resp)
	}
	resp.Title = d.Route.Title
	return c.JSON(resp)
}

// Session GET /session.
func (s *Server) Session(c *fiber.Ctx) error {
	st := GetClient(c).Session
	modules := make(map[entity.Module]bool, len(entity.Modules()))
	for _, m := range entity.Modules() {
		modules[m] = st.CanAccessModule(m)
	}
	return c.JSON(SessionResponse{
		Authenticated: st.IsAuthenticated(),
		IsAdmin:       st.IsAdmin(),
		IsManager:     st.IsManager(),
		IsCashier:     st.IsCashier(),
		User:          s.userView(st.User()),
		Permissions:   st.Permissions(),
		Modules:       modules,
	})
}

// Login POST /login.
func (s *Server) Login(c *fiber.Ctx) error {
	cl := GetClient(c)
	var in loginBody
	if err := c.BodyParser(&in); err != nil || strings.TrimSpace(in.Username) == "" || in.Password == "" {
		cl.Notices.Push(notice.Warning("Ingrese usuario y contraseña"))
		return c.Status(fiber.StatusBadRequest).JSON(ActionResponse{Redirect: navigation.PathLogin, Notices: cl.Notices.Drain()})
	}
	ok := cl.Session.Login(c.UserContext(), strings.TrimSpace(in.Username), in.Password)
	s.rec.LoginResult(ok)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ActionResponse{Redirect: navigation.PathLogin, Notices: cl.Notices.Drain()})
	}
	return c.JSON(ActionResponse{OK: true, Redirect: navigation.PathHome, Notices: cl.Notices.Drain()})
}

// RegisterUser POST /register. No inicia sesión: redirige a /login.
func (s *Server) RegisterUser(c *fiber.Ctx) error {
	cl := GetClient(c)
	var in registerBody
	if err := c.BodyParser(&in); err != nil || strings.TrimSpace(in.Username) == "" || in.Password == "" {
		cl.Notices.Push(notice.Warning("Ingrese usuario y contraseña"))
		return c.Status(fiber.StatusBadRequest).JSON(ActionResponse{Redirect: navigation.PathRegister, Notices: cl.Notices.Drain()})
	}
	role := entity.RoleCashier
	if in.Role != "" {
		r, ok := entity.ParseRole(in.Role)
		if !ok {
			cl.Notices.Push(notice.Warning("Rol inválido"))
			return c.Status(fiber.StatusBadRequest).JSON(ActionResponse{Redirect: navigation.PathRegister, Notices: cl.Notices.Drain()})
		}
		role = r
	}
	ok := cl.Session.Register(c.UserContext(), session.RegisterInput{
		Username: strings.TrimSpace(in.Username),
		Password: in.Password,
		Role:     role,
		StoreID:  in.StoreID,
	})
	if !ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ActionResponse{Redirect: navigation.PathRegister, Notices: cl.Notices.Drain()})
	}
	return c.Status(fiber.StatusCreated).JSON(ActionResponse{OK: true, Redirect: navigation.PathLogin, Notices: cl.Notices.Drain()})
}

// Logout POST /logout.
func (s *Server) Logout(c *fiber.Ctx) error {
	cl := GetClient(c)
	cl.Session.Logout(c.UserContext())
	return c.JSON(ActionResponse{OK: true, Redirect: navigation.PathLogin, Notices: cl.Notices.Drain()})
}

func (s *Server) userView(u *entity.User) *UserView {
	if u == nil {
		return nil
	}
	return &UserView{
		UserID:      u.UserID,
		Username:    u.Username,
		Role:        u.Role,
		StoreID:     u.StoreID,
		CreatedAt:   s.dates.Time(u.CreatedAt),
		MemberSince: s.dates.Relative(u.CreatedAt),
	}
}
