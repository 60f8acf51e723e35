package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
)

func TestPermissionRecord_AllowsEsIndependiente(t *testing.T) {
	actions := []entity.Action{entity.ActionView, entity.ActionCreate, entity.ActionEdit, entity.ActionDelete}

	// Cada combinación de los 4 flags debe reflejarse sin implicaciones entre acciones.
	for mask := 0; mask < 16; mask++ {
		rec := entity.PermissionRecord{
			FeatureCode: entity.FeaturePOSSystem,
			CanView:     mask&1 != 0,
			CanCreate:   mask&2 != 0,
			CanEdit:     mask&4 != 0,
			CanDelete:   mask&8 != 0,
		}
		for i, a := range actions {
			assert.Equal(t, mask&(1<<i) != 0, rec.Allows(a), "mask=%04b action=%s", mask, a)
		}
	}
}

func TestPermissionRecord_AccionDesconocida(t *testing.T) {
	rec := entity.PermissionRecord{CanView: true, CanCreate: true, CanEdit: true, CanDelete: true}
	assert.False(t, rec.Allows(entity.Action("approve")))
}

func TestParseAction(t *testing.T) {
	a, ok := entity.ParseAction(" Edit ")
	assert.True(t, ok)
	assert.Equal(t, entity.ActionEdit, a)

	_, ok = entity.ParseAction("export")
	assert.False(t, ok)
}

func TestParseRole(t *testing.T) {
	r, ok := entity.ParseRole("cashier")
	assert.True(t, ok)
	assert.Equal(t, entity.RoleCashier, r)

	_, ok = entity.ParseRole("admin")
	assert.False(t, ok, "los roles cortos del esquema antiguo no son válidos")
}

func TestFeatureCode_Known(t *testing.T) {
	assert.True(t, entity.FeaturePOSSystem.Known())
	assert.False(t, entity.FeatureCode("reports").Known())
	assert.Len(t, entity.FeatureCodes(), 10)
}
