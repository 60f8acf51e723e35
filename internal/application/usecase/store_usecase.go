package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Supermercado-api/internal/application/dto"
	"github.com/jhoicas/Supermercado-api/internal/domain"
	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
	"github.com/jhoicas/Supermercado-api/internal/domain/repository"
	"github.com/jhoicas/Supermercado-api/pkg/logger"
)

// StoreUseCase casos de uso CRUD para tiendas.
type StoreUseCase struct {
	repo repository.StoreRepository
	log  *logger.Logger
}

// NewStoreUseCase construye el caso de uso.
func NewStoreUseCase(repo repository.StoreRepository, log *logger.Logger) *StoreUseCase {
	return &StoreUseCase{repo: repo, log: log}
}

// Create crea una tienda.
func (uc *StoreUseCase) Create(ctx context.Context, in dto.StoreRequest) (*dto.StoreResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre de la tienda es requerido", domain.ErrInvalidInput)
	}
	store := &entity.Store{Name: name, Address: strings.TrimSpace(in.Address)}
	if err := uc.repo.Create(ctx, store); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("store_id", store.StoreID).Str("name", store.Name).Msg("tienda creada")
	return toStoreResponse(store), nil
}

// GetByID obtiene una tienda.
func (uc *StoreUseCase) GetByID(ctx context.Context, id int64) (*dto.StoreResponse, error) {
	store, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("tienda %d: %w", id, domain.ErrNotFound)
	}
	return toStoreResponse(store), nil
}

// List lista todas las tiendas.
func (uc *StoreUseCase) List(ctx context.Context) (*dto.StoreListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StoreResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toStoreResponse(s))
	}
	return &dto.StoreListResponse{Items: items}, nil
}

// Update reemplaza nombre y dirección.
func (uc *StoreUseCase) Update(ctx context.Context, id int64, in dto.StoreRequest) (*dto.StoreResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre de la tienda es requerido", domain.ErrInvalidInput)
	}
	store := &entity.Store{StoreID: id, Name: name, Address: strings.TrimSpace(in.Address)}
	if err := uc.repo.Update(ctx, store); err != nil {
		return nil, err
	}
	return toStoreResponse(store), nil
}

// Delete elimina una tienda. La casa matriz no se puede eliminar.
func (uc *StoreUseCase) Delete(ctx context.Context, id int64) error {
	if id == entity.HeadquartersStoreID {
		return fmt.Errorf("%w: la casa matriz no se puede eliminar", domain.ErrInUse)
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Int64("store_id", id).Msg("tienda eliminada")
	return nil
}

func toStoreResponse(s *entity.Store) *dto.StoreResponse {
	return &dto.StoreResponse{
		StoreID:   s.StoreID,
		Name:      s.Name,
		Address:   s.Address,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
