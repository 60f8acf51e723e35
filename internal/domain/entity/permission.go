package entity

import (
	"strings"
	"time"
)

// FeatureCode identificador estable de una función protegida de la aplicación.
type FeatureCode string

// Funciones conocidas del sistema.
const (
	FeatureUserManagement       FeatureCode = "user_management"
	FeatureStoreManagement      FeatureCode = "store_management"
	FeatureCategoryManagement   FeatureCode = "category_management"
	FeatureSupplierManagement   FeatureCode = "supplier_management"
	FeatureProductManagement    FeatureCode = "product_management"
	FeatureInventoryManagement  FeatureCode = "inventory_management"
	FeaturePromotionManagement  FeatureCode = "promotion_management"
	FeatureSalesManagement      FeatureCode = "sales_management"
	FeaturePOSSystem            FeatureCode = "pos_system"
	FeaturePermissionManagement FeatureCode = "permission_management"
)

// FeatureCodes lista de todas las funciones conocidas.
func FeatureCodes() []FeatureCode {
	return []FeatureCode{
		FeatureUserManagement, FeatureStoreManagement, FeatureCategoryManagement,
		FeatureSupplierManagement, FeatureProductManagement, FeatureInventoryManagement,
		FeaturePromotionManagement, FeatureSalesManagement, FeaturePOSSystem,
		FeaturePermissionManagement,
	}
}

// Known informa si el código pertenece al catálogo de funciones del sistema.
func (f FeatureCode) Known() bool {
	for _, c := range FeatureCodes() {
		if c == f {
			return true
		}
	}
	return false
}

// Module agrupa funciones para la navegación (user, store, pos, ...).
type Module string

// Módulos conocidos.
const (
	ModuleUser       Module = "user"
	ModuleStore      Module = "store"
	ModuleCategory   Module = "category"
	ModuleSupplier   Module = "supplier"
	ModuleProduct    Module = "product"
	ModuleInventory  Module = "inventory"
	ModulePromotion  Module = "promotion"
	ModuleSales      Module = "sales"
	ModulePOS        Module = "pos"
	ModulePermission Module = "permission"
)

// Modules módulos conocidos en orden de menú.
func Modules() []Module {
	return []Module{
		ModuleUser, ModuleStore, ModuleCategory, ModuleSupplier, ModuleProduct,
		ModuleInventory, ModulePromotion, ModuleSales, ModulePOS, ModulePermission,
	}
}

// Action capacidad tipo CRUD sobre una función.
type Action string

// Acciones posibles.
const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// ParseAction convierte un string en Action; acepta mayúsculas y espacios alrededor.
func ParseAction(s string) (Action, bool) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case ActionView, ActionCreate, ActionEdit, ActionDelete:
		return a, true
	}
	return "", false
}

// PermissionRecord las cuatro capacidades independientes de un rol sobre una función.
type PermissionRecord struct {
	FeatureCode FeatureCode `json:"feature_code"`
	FeatureName string      `json:"feature_name"`
	Module      Module      `json:"module"`
	CanView     bool        `json:"can_view"`
	CanCreate   bool        `json:"can_create"`
	CanEdit     bool        `json:"can_edit"`
	CanDelete   bool        `json:"can_delete"`
}

// Allows devuelve exactamente el flag almacenado para la acción; una acción desconocida es false.
func (p PermissionRecord) Allows(a Action) bool {
	switch a {
	case ActionView:
		return p.CanView
	case ActionCreate:
		return p.CanCreate
	case ActionEdit:
		return p.CanEdit
	case ActionDelete:
		return p.CanDelete
	}
	return false
}

// Feature fila del catálogo system_features.
type Feature struct {
	FeatureID   int64       `json:"feature_id"`
	Code        FeatureCode `json:"feature_code"`
	Name        string      `json:"feature_name"`
	Description string      `json:"description"`
	Module      Module      `json:"module"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
}

// RolePermission fila de role_permissions unida con su función.
type RolePermission struct {
	Role      Role  `json:"role"`
	FeatureID int64 `json:"feature_id"`
	PermissionRecord
}
