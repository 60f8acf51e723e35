package usecase

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Supermercado-api/internal/application/dto"
	"github.com/jhoicas/Supermercado-api/internal/domain"
	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
	"github.com/jhoicas/Supermercado-api/internal/domain/repository"
	"github.com/jhoicas/Supermercado-api/pkg/logger"
)

// UserUseCase administración de cuentas.
//
// Reglas por rol de quien opera:
//   - system_admin: cualquier cuenta.
//   - store_manager: cajeros de su propia tienda, además de su propia cuenta sin cambiar de rol.
//   - cashier: solo su propia cuenta, sin cambiar rol ni tienda.
//
// Un system_admin siempre queda asignado a la casa matriz.
type UserUseCase struct {
	users repository.UserAdminRepository
	log   *logger.Logger
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(users repository.UserAdminRepository, log *logger.Logger) *UserUseCase {
	return &UserUseCase{users: users, log: log}
}

// List devuelve las cuentas visibles para actorID.
func (uc *UserUseCase) List(ctx context.Context, actorID int64) (*dto.UserListResponse, error) {
	actor, err := loadActor(ctx, uc.users, actorID)
	if err != nil {
		return nil, err
	}

	var list []*entity.User
	switch {
	case actor.Role == entity.RoleSystemAdmin:
		list, err = uc.users.List(ctx, repository.UserFilter{})
	case actor.Role == entity.RoleStoreManager && actor.StoreID != nil:
		list, err = uc.users.List(ctx, repository.UserFilter{
			StoreID:    actor.StoreID,
			Roles:      []entity.Role{entity.RoleCashier, entity.RoleStoreManager},
			AlsoUserID: actor.UserID,
		})
	default:
		list = []*entity.User{actor}
	}
	if err != nil {
		return nil, err
	}

	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *dto.ToUserResponse(u))
	}
	return &dto.UserListResponse{Items: items}, nil
}

// Get devuelve una cuenta si actorID puede verla.
func (uc *UserUseCase) Get(ctx context.Context, actorID, id int64) (*dto.UserResponse, error) {
	actor, err := loadActor(ctx, uc.users, actorID)
	if err != nil {
		return nil, err
	}
	target, err := uc.target(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.UserID != target.UserID {
		switch actor.Role {
		case entity.RoleSystemAdmin:
		case entity.RoleStoreManager:
			if target.Role == entity.RoleSystemAdmin || !target.InStore(actor.StoreID) {
				return nil, fmt.Errorf("%w: solo puede ver usuarios de su tienda", domain.ErrForbidden)
			}
		default:
			return nil, fmt.Errorf("%w: solo puede ver su propia cuenta", domain.ErrForbidden)
		}
	}
	return dto.ToUserResponse(target), nil
}

// Create da de alta una cuenta. Un gerente solo puede crear cajeros en su tienda.
func (uc *UserUseCase) Create(ctx context.Context, actorID int64, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: usuario y contraseña son requeridos", domain.ErrInvalidInput)
	}
	role := entity.RoleCashier
	if in.Role != "" {
		r, ok := entity.ParseRole(in.Role)
		if !ok {
			return nil, domain.ErrInvalidRole
		}
		role = r
	}

	actor, err := loadActor(ctx, uc.users, actorID)
	if err != nil {
		return nil, err
	}
	switch actor.Role {
	case entity.RoleSystemAdmin:
	case entity.RoleStoreManager:
		if role != entity.RoleCashier {
			return nil, fmt.Errorf("%w: un gerente solo puede crear cajeros", domain.ErrForbidden)
		}
		if !actor.InStore(in.StoreID) {
			return nil, fmt.Errorf("%w: un gerente solo puede crear usuarios en su tienda", domain.ErrForbidden)
		}
	default:
		return nil, fmt.Errorf("%w: un cajero no puede crear usuarios", domain.ErrForbidden)
	}

	existing, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUsernameTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		StoreID:      assignStore(role, in.StoreID),
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().
		Int64("actor_id", actor.UserID).
		Int64("user_id", user.UserID).
		Str("role", string(role)).
		Msg("usuario creado")
	return dto.ToUserResponse(user), nil
}

// Update modifica nombre, rol, tienda y opcionalmente la contraseña de la cuenta id.
func (uc *UserUseCase) Update(ctx context.Context, actorID, id int64, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Role == "" {
		return nil, fmt.Errorf("%w: usuario y rol son requeridos", domain.ErrInvalidInput)
	}
	role, ok := entity.ParseRole(in.Role)
	if !ok {
		return nil, domain.ErrInvalidRole
	}

	actor, err := loadActor(ctx, uc.users, actorID)
	if err != nil {
		return nil, err
	}
	target, err := uc.target(ctx, id)
	if err != nil {
		return nil, err
	}
	self := actor.UserID == target.UserID

	switch actor.Role {
	case entity.RoleSystemAdmin:
	case entity.RoleStoreManager:
		switch {
		case target.Role == entity.RoleSystemAdmin:
			return nil, fmt.Errorf("%w: un gerente no puede modificar administradores", domain.ErrForbidden)
		case !target.InStore(actor.StoreID):
			return nil, fmt.Errorf("%w: un gerente solo puede modificar usuarios de su tienda", domain.ErrForbidden)
		case !self && target.Role != entity.RoleCashier:
			return nil, fmt.Errorf("%w: un gerente solo puede modificar cajeros", domain.ErrForbidden)
		case self && role != entity.RoleStoreManager, !self && role != entity.RoleCashier:
			return nil, fmt.Errorf("%w: un gerente no puede asignar ese rol", domain.ErrForbidden)
		case !actor.InStore(in.StoreID):
			return nil, fmt.Errorf("%w: un gerente solo opera en su tienda", domain.ErrForbidden)
		}
	default:
		if !self {
			return nil, fmt.Errorf("%w: un cajero solo puede modificar su propia cuenta", domain.ErrForbidden)
		}
		if role != target.Role || (in.StoreID != nil && !target.InStore(in.StoreID)) {
			return nil, fmt.Errorf("%w: un cajero no puede cambiar su rol ni su tienda", domain.ErrForbidden)
		}
		in.StoreID = target.StoreID
	}

	other, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if other != nil && other.UserID != target.UserID {
		return nil, domain.ErrUsernameTaken
	}

	updated := &entity.User{
		UserID:    target.UserID,
		Username:  username,
		Role:      role,
		StoreID:   assignStore(role, in.StoreID),
		CreatedAt: target.CreatedAt,
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		updated.PasswordHash = string(hash)
	}
	if err := uc.users.Update(ctx, updated); err != nil {
		return nil, err
	}
	uc.log.Info().
		Int64("actor_id", actor.UserID).
		Int64("user_id", updated.UserID).
		Str("role", string(role)).
		Bool("password_changed", in.Password != "").
		Msg("usuario actualizado")
	return dto.ToUserResponse(updated), nil
}

// Delete elimina la cuenta id. Nadie puede eliminar su propia cuenta.
func (uc *UserUseCase) Delete(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return domain.ErrSelfDelete
	}
	actor, err := loadActor(ctx, uc.users, actorID)
	if err != nil {
		return err
	}
	target, err := uc.target(ctx, id)
	if err != nil {
		return err
	}
	switch actor.Role {
	case entity.RoleSystemAdmin:
	case entity.RoleStoreManager:
		if target.Role != entity.RoleCashier {
			return fmt.Errorf("%w: un gerente solo puede eliminar cajeros", domain.ErrForbidden)
		}
		if !target.InStore(actor.StoreID) {
			return fmt.Errorf("%w: un gerente solo puede eliminar cajeros de su tienda", domain.ErrForbidden)
		}
	default:
		return fmt.Errorf("%w: un cajero no puede eliminar usuarios", domain.ErrForbidden)
	}
	if err := uc.users.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Int64("actor_id", actor.UserID).Int64("user_id", id).Msg("usuario eliminado")
	return nil
}

func (uc *UserUseCase) target(ctx context.Context, id int64) (*entity.User, error) {
	u, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

// assignStore aplica la tienda por defecto: administradores en casa matriz, el resto en casa matriz si no indica otra.
func assignStore(role entity.Role, storeID *int64) *int64 {
	if role == entity.RoleSystemAdmin || storeID == nil {
		hq := entity.HeadquartersStoreID
		return &hq
	}
	id := *storeID
	return &id
}

// loadActor obtiene al usuario que opera; si ya no existe la operación no procede.
func loadActor(ctx context.Context, users repository.UserRepository, id int64) (*entity.User, error) {
	u, err := users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("usuario actual: %w", domain.ErrUserNotFound)
	}
	return u, nil
}
