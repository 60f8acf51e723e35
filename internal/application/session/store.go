package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/Supermercado-api/internal/application/notice"
	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
	"github.com/jhoicas/Supermercado-api/pkg/logger"
)

// Mensajes mostrados al usuario.
const (
	msgLoginOK        = "Inicio de sesión correcto"
	msgLoginFailed    = "No se pudo iniciar sesión"
	msgRegisterOK     = "Registro correcto, inicie sesión"
	msgRegisterFailed = "No se pudo completar el registro"
	msgLogoutOK       = "Sesión cerrada"
)

// ErrInvalidLoginResponse la API respondió 2xx sin token o sin usuario.
var ErrInvalidLoginResponse = errors.New("respuesta de login sin token o usuario")

// Store sesión de un cliente: usuario, token y permisos en caché.
// El estado vive en un Snapshot que se reemplaza completo en cada cambio.
type Store struct {
	api      AuthAPI
	state    LocalState
	notifier Notifier
	log      *logger.Logger

	mu   sync.RWMutex
	snap Snapshot
	gen  uint64

	// una sola carga perezosa de permisos en vuelo
	loads singleflight.Group
}

// New crea una sesión vacía. notifier puede ser nil.
func New(api AuthAPI, state LocalState, notifier Notifier, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{api: api, state: state, notifier: notifier, log: log}
}

// Snapshot estado actual.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Store) current() (Snapshot, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.gen
}

func (s *Store) replace(next Snapshot) {
	s.mu.Lock()
	s.snap = next
	s.gen++
	s.mu.Unlock()
}

// replaceIf publica next solo si nadie cambió la sesión desde gen.
func (s *Store) replaceIf(gen uint64, next Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	s.snap = next
	s.gen++
	return true
}

func (s *Store) notify(ctx context.Context, n notice.Notice) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, n)
	}
}

// Login autentica contra la API. Si falla avisa al usuario y no toca el estado.
func (s *Store) Login(ctx context.Context, username, password string) bool {
	res, err := s.api.Login(ctx, username, password)
	if err == nil && (res == nil || res.Token == "" || res.User.UserID <= 0) {
		err = ErrInvalidLoginResponse
	}
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("login rechazado")
		s.notify(ctx, notice.Error(UserMessage(err, msgLoginFailed)))
		return false
	}

	user := res.User
	s.replace(Snapshot{User: &user, Token: res.Token})
	s.persist(ctx, KeyToken, res.Token)
	s.persistJSON(ctx, KeyUser, user)
	// los permisos persistidos pueden ser de otro usuario
	s.forget(ctx, KeyPermissions)

	_ = s.LoadPermissions(ctx)

	s.log.Info().Int64("user_id", user.UserID).Str("role", string(user.Role)).Msg("sesión iniciada")
	s.notify(ctx, notice.Success(msgLoginOK))
	return true
}

// Register da de alta un usuario en la API. No inicia sesión.
func (s *Store) Register(ctx context.Context, in RegisterInput) bool {
	if err := s.api.Register(ctx, in); err != nil {
		s.log.Warn().Err(err).Str("username", in.Username).Msg("registro rechazado")
		s.notify(ctx, notice.Error(UserMessage(err, msgRegisterFailed)))
		return false
	}
	s.notify(ctx, notice.Success(msgRegisterOK))
	return true
}

// Logout borra usuario, token, permisos y sus copias persistidas. Siempre termina bien.
func (s *Store) Logout(ctx context.Context) {
	s.clear(ctx)
	s.notify(ctx, notice.Success(msgLogoutOK))
}

func (s *Store) clear(ctx context.Context) {
	s.replace(Snapshot{})
	s.forget(ctx, AllKeys()...)
}

// Restore recupera la sesión persistida. Un usuario o permisos ilegibles
// equivalen a no tener sesión: se limpia todo.
// Solo devuelve error si no se pudo leer el almacenamiento.
func (s *Store) Restore(ctx context.Context) error {
	token, hasToken, err := s.state.Get(ctx, KeyToken)
	if err != nil {
		return fmt.Errorf("leer token: %w", err)
	}
	rawUser, hasUser, err := s.state.Get(ctx, KeyUser)
	if err != nil {
		return fmt.Errorf("leer usuario: %w", err)
	}
	if !hasToken || !hasUser || token == "" {
		return nil
	}

	var user entity.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil || user.UserID <= 0 {
		s.log.Warn().Err(err).Msg("usuario persistido inválido, se cierra la sesión")
		s.clear(ctx)
		return nil
	}

	rawPerms, hasPerms, err := s.state.Get(ctx, KeyPermissions)
	if err != nil {
		return fmt.Errorf("leer permisos: %w", err)
	}
	next := Snapshot{User: &user, Token: token}
	if hasPerms {
		if err := json.Unmarshal([]byte(rawPerms), &next.Permissions); err != nil {
			s.log.Warn().Err(err).Msg("permisos persistidos inválidos, se cierra la sesión")
			s.clear(ctx)
			return nil
		}
	}
	s.replace(next)
	s.log.Debug().Int64("user_id", user.UserID).Bool("cached_permissions", hasPerms).Msg("sesión restaurada")

	if !hasPerms {
		_ = s.LoadPermissions(ctx)
	}
	return nil
}

// LoadPermissions pide a la API los permisos del usuario actual y reemplaza el conjunto.
// Sin usuario no hace nada. Si la API falla el conjunto queda vacío y se devuelve el error.
func (s *Store) LoadPermissions(ctx context.Context) error {
	snap, gen := s.current()
	if snap.User == nil {
		return nil
	}

	records, err := s.api.UserPermissions(ctx, snap.Token, snap.User.UserID)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", snap.User.UserID).Msg("no se pudieron obtener los permisos")
		next := snap
		next.Permissions = PermissionSet{}
		if s.replaceIf(gen, next) {
			s.forget(ctx, KeyPermissions)
		}
		return err
	}

	next := snap
	next.Permissions = NewPermissionSet(records)
	if !s.replaceIf(gen, next) {
		// la sesión cambió mientras se consultaba la API
		s.log.Debug().Int64("user_id", snap.User.UserID).Msg("permisos descartados")
		return nil
	}
	s.persistJSON(ctx, KeyPermissions, next.Permissions)
	return nil
}

// EnsurePermissions carga los permisos si hay sesión y el conjunto está vacío.
// Llamadas concurrentes esperan a la misma carga.
func (s *Store) EnsurePermissions(ctx context.Context) error {
	if !s.needsPermissions() {
		return nil
	}
	_, err, _ := s.loads.Do("permissions", func() (any, error) {
		if !s.needsPermissions() {
			return nil, nil
		}
		return nil, s.LoadPermissions(ctx)
	})
	return err
}

func (s *Store) needsPermissions() bool {
	snap := s.Snapshot()
	return snap.Authenticated() && snap.Permissions.Empty()
}

// HasPermission false si la función no tiene registro; si no, el flag de la acción.
func (s *Store) HasPermission(code entity.FeatureCode, action entity.Action) bool {
	return s.Snapshot().Permissions.Allows(code, action)
}

// CanAccessModule true si alguna función del módulo tiene can_view.
func (s *Store) CanAccessModule(m entity.Module) bool {
	return s.Snapshot().Permissions.ViewsModule(m)
}

// HasRole true si el rol del usuario está en roles; false sin sesión.
func (s *Store) HasRole(roles ...entity.Role) bool {
	role := s.Snapshot().Role()
	return role != "" && slices.Contains(roles, role)
}

func (s *Store) IsAuthenticated() bool { return s.Snapshot().Authenticated() }
func (s *Store) IsAdmin() bool         { return s.HasRole(entity.RoleSystemAdmin) }
func (s *Store) IsManager() bool       { return s.HasRole(entity.RoleStoreManager) }
func (s *Store) IsCashier() bool       { return s.HasRole(entity.RoleCashier) }

// User copia del usuario actual o nil.
func (s *Store) User() *entity.User {
	snap := s.Snapshot()
	if snap.User == nil {
		return nil
	}
	u := *snap.User
	return &u
}

func (s *Store) Token() string { return s.Snapshot().Token }

func (s *Store) Permissions() []entity.PermissionRecord {
	return s.Snapshot().Permissions.Records()
}

// Los errores de persistencia no interrumpen la operación; solo se registran.

func (s *Store) persist(ctx context.Context, key Key, value string) {
	if err := s.state.Set(ctx, key, value); err != nil {
		s.log.Error().Err(err).Str("key", string(key)).Msg("no se pudo persistir el estado")
	}
}

func (s *Store) persistJSON(ctx context.Context, key Key, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Str("key", string(key)).Msg("no se pudo serializar el estado")
		return
	}
	s.persist(ctx, key, string(b))
}

func (s *Store) forget(ctx context.Context, keys ...Key) {
	if err := s.state.Delete(ctx, keys...); err != nil {
		s.log.Error().Err(err).Msg("no se pudo borrar el estado persistido")
	}
}
