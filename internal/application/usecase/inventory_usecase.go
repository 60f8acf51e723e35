package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/Supermercado-api/internal/application/dto"
	"github.com/jhoicas/Supermercado-api/internal/domain"
	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
	"github.com/jhoicas/Supermercado-api/internal/domain/repository"
	"github.com/jhoicas/Supermercado-api/pkg/logger"
)

// InventoryUseCase existencias por tienda. system_admin opera cualquier tienda;
// gerentes y cajeros solo la suya, sin importar el store_id que envíen al consultar.
type InventoryUseCase struct {
	items repository.InventoryRepository
	users repository.UserRepository
	log   *logger.Logger
}

// NewInventoryUseCase construye el caso de uso.
func NewInventoryUseCase(items repository.InventoryRepository, users repository.UserRepository, log *logger.Logger) *InventoryUseCase {
	return &InventoryUseCase{items: items, users: users, log: log}
}

// List existencias visibles para actorID. storeID filtra solo para system_admin.
func (uc *InventoryUseCase) List(ctx context.Context, actorID int64, storeID *int64) (*dto.InventoryListResponse, error) {
	actor, err := loadActor(ctx, uc.users, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != entity.RoleSystemAdmin {
		if actor.StoreID == nil {
			return &dto.InventoryListResponse{Items: []dto.InventoryResponse{}}, nil
		}
		storeID = actor.StoreID
	}
	list, err := uc.items.List(ctx, storeID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventoryResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toInventoryResponse(it))
	}
	return &dto.InventoryListResponse{Items: items}, nil
}

// Upsert fija cantidad y precio de un producto en una tienda.
func (uc *InventoryUseCase) Upsert(ctx context.Context, actorID int64, in dto.UpsertInventoryRequest) (*dto.InventoryResponse, error) {
	if in.ProductID <= 0 || in.Quantity == nil || in.Price == nil {
		return nil, fmt.Errorf("%w: producto, cantidad y precio son requeridos", domain.ErrInvalidInput)
	}
	if *in.Quantity < 0 {
		return nil, fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}
	if err := validatePrice(*in.Price); err != nil {
		return nil, err
	}

	actor, err := loadActor(ctx, uc.users, actorID)
	if err != nil {
		return nil, err
	}
	storeID, err := scopeStore(actor, in.StoreID)
	if err != nil {
		return nil, err
	}

	item := &entity.InventoryItem{
		ProductID: in.ProductID,
		StoreID:   storeID,
		Quantity:  *in.Quantity,
		Price:     *in.Price,
	}
	if err := uc.items.Upsert(ctx, item); err != nil {
		return nil, err
	}
	uc.log.Info().
		Int64("actor_id", actor.UserID).
		Int64("store_id", storeID).
		Int64("product_id", in.ProductID).
		Int("quantity", item.Quantity).
		Str("price", item.Price.StringFixed(2)).
		Msg("existencias actualizadas")
	return toInventoryResponse(item), nil
}

// Delete elimina una fila de existencias de una tienda permitida.
func (uc *InventoryUseCase) Delete(ctx context.Context, actorID, id int64) error {
	actor, err := loadActor(ctx, uc.users, actorID)
	if err != nil {
		return err
	}
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("existencia %d: %w", id, domain.ErrNotFound)
	}
	if _, err := scopeStore(actor, &item.StoreID); err != nil {
		return err
	}
	return uc.items.Delete(ctx, id)
}

// scopeStore resuelve la tienda sobre la que opera actor. Un administrador debe indicarla;
// el resto solo puede usar la propia.
func scopeStore(actor *entity.User, requested *int64) (int64, error) {
	if actor.Role == entity.RoleSystemAdmin {
		if requested == nil || *requested <= 0 {
			return 0, fmt.Errorf("%w: store_id es requerido", domain.ErrInvalidInput)
		}
		return *requested, nil
	}
	if actor.StoreID == nil {
		return 0, fmt.Errorf("%w: el usuario no tiene tienda asignada", domain.ErrForbidden)
	}
	if requested != nil && *requested != *actor.StoreID {
		return 0, fmt.Errorf("%w: solo puede operar las existencias de su tienda", domain.ErrForbidden)
	}
	return *actor.StoreID, nil
}

func toInventoryResponse(it *entity.InventoryItem) *dto.InventoryResponse {
	return &dto.InventoryResponse{
		InventoryID: it.InventoryID,
		ProductID:   it.ProductID,
		ProductName: it.ProductName,
		SKU:         it.SKU,
		StoreID:     it.StoreID,
		StoreName:   it.StoreName,
		Quantity:    it.Quantity,
		Price:       it.Price,
		UpdatedAt:   it.UpdatedAt,
	}
}
