package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Supermercado-api/internal/application/auth"
	"github.com/jhoicas/Supermercado-api/internal/application/permission"
	"github.com/jhoicas/Supermercado-api/internal/application/usecase"
	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	PermissionUC *permission.UseCase
	UserUC       *usecase.UserUseCase
	StoreUC      *usecase.StoreUseCase
	CategoryUC   *usecase.CategoryUseCase
	SupplierUC   *usecase.SupplierUseCase
	ProductUC    *usecase.ProductUseCase
	InventoryUC  *usecase.InventoryUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	jwtMW := AuthMiddleware(deps.JWTSecret)
	authGroup.Get("/profile", jwtMW, authHandler.Profile)

	perms := api.Group("/permissions", jwtMW)
	permHandler := NewPermissionHandler(deps.PermissionUC)
	perms.Get("/user/:user_id", permHandler.UserPermissions)
	perms.Post("/check", permHandler.Check)

	// Exportación: cualquier rol con permiso de ver la gestión de permisos
	perms.Get("/roles/report.pdf",
		RequireFeature(entity.FeaturePermissionManagement, entity.ActionView, deps.PermissionUC),
		permHandler.MatrixPDF)

	// Administración (solo system_admin)
	adminOnly := RequireRole(entity.RoleSystemAdmin)
	perms.Get("/features", adminOnly, permHandler.Features)
	perms.Get("/roles", adminOnly, permHandler.RolePermissions)
	perms.Put("/roles/:role/features/:feature_id", adminOnly, permHandler.UpdateRolePermission)

	// Usuarios: gerente y cajero tienen reglas propias por rol y tienda
	users := api.Group("/users", jwtMW)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Post("/", userHandler.Create)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	{
		h := NewStoreHandler(deps.StoreUC)
		crud(api.Group("/stores", jwtMW), entity.FeatureStoreManagement, deps.PermissionUC, crudRoutes{
			list: h.List, get: h.GetByID, create: h.Create, update: h.Update, remove: h.Delete,
		})
	}
	{
		h := NewCategoryHandler(deps.CategoryUC)
		crud(api.Group("/categories", jwtMW), entity.FeatureCategoryManagement, deps.PermissionUC, crudRoutes{
			list: h.List, create: h.Create, update: h.Update, remove: h.Delete,
		})
	}
	{
		h := NewSupplierHandler(deps.SupplierUC)
		crud(api.Group("/suppliers", jwtMW), entity.FeatureSupplierManagement, deps.PermissionUC, crudRoutes{
			list: h.List, create: h.Create, update: h.Update, remove: h.Delete,
		})
	}
	{
		h := NewProductHandler(deps.ProductUC)
		crud(api.Group("/products", jwtMW), entity.FeatureProductManagement, deps.PermissionUC, crudRoutes{
			list: h.List, get: h.GetByID, create: h.Create, update: h.Update, remove: h.Delete,
		})
	}
	{
		h := NewInventoryHandler(deps.InventoryUC)
		inv := api.Group("/inventory", jwtMW)
		inv.Get("/", RequireFeature(entity.FeatureInventoryManagement, entity.ActionView, deps.PermissionUC), h.List)
		inv.Post("/", RequireFeature(entity.FeatureInventoryManagement, entity.ActionEdit, deps.PermissionUC), h.Upsert)
		inv.Delete("/:id", RequireFeature(entity.FeatureInventoryManagement, entity.ActionDelete, deps.PermissionUC), h.Delete)
	}
}

// crudRoutes handlers de un recurso; los nil no se registran.
type crudRoutes struct {
	list, get, create, update, remove fiber.Handler
}

// crud registra un recurso con una acción de permiso por método.
func crud(g fiber.Router, feature entity.FeatureCode, checker featureChecker, r crudRoutes) {
	if r.list != nil {
		g.Get("/", RequireFeature(feature, entity.ActionView, checker), r.list)
	}
	if r.get != nil {
		g.Get("/:id", RequireFeature(feature, entity.ActionView, checker), r.get)
	}
	if r.create != nil {
		g.Post("/", RequireFeature(feature, entity.ActionCreate, checker), r.create)
	}
	if r.update != nil {
		g.Put("/:id", RequireFeature(feature, entity.ActionEdit, checker), r.update)
	}
	if r.remove != nil {
		g.Delete("/:id", RequireFeature(feature, entity.ActionDelete, checker), r.remove)
	}
}
