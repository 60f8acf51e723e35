package session

import (
	"encoding/json"

	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
)

// PermissionSet conjunto ordenado de permisos, único por código de función.
// Es inmutable: se reemplaza completo, nunca se modifica en sitio.
type PermissionSet struct {
	records []entity.PermissionRecord
	index   map[entity.FeatureCode]int
}

// NewPermissionSet construye el conjunto; ante códigos repetidos gana el primero.
func NewPermissionSet(records []entity.PermissionRecord) PermissionSet {
	set := PermissionSet{index: make(map[entity.FeatureCode]int, len(records))}
	for _, r := range records {
		if _, dup := set.index[r.FeatureCode]; dup {
			continue
		}
		set.index[r.FeatureCode] = len(set.records)
		set.records = append(set.records, r)
	}
	return set
}

// Len cantidad de funciones con permiso registrado.
func (s PermissionSet) Len() int { return len(s.records) }

// Empty true si no hay permisos cargados.
func (s PermissionSet) Empty() bool { return len(s.records) == 0 }

// Records copia de los registros en su orden original.
func (s PermissionSet) Records() []entity.PermissionRecord {
	out := make([]entity.PermissionRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Lookup registro de la función, si existe.
func (s PermissionSet) Lookup(code entity.FeatureCode) (entity.PermissionRecord, bool) {
	i, ok := s.index[code]
	if !ok {
		return entity.PermissionRecord{}, false
	}
	return s.records[i], true
}

// Allows false para funciones sin registro; si no, el flag exacto de la acción.
func (s PermissionSet) Allows(code entity.FeatureCode, action entity.Action) bool {
	rec, ok := s.Lookup(code)
	if !ok {
		return false
	}
	return rec.Allows(action)
}

// ViewsModule true si alguna función del módulo tiene can_view.
func (s PermissionSet) ViewsModule(m entity.Module) bool {
	for _, r := range s.records {
		if r.Module == m && r.CanView {
			return true
		}
	}
	return false
}

// MarshalJSON serializa como lista de registros.
func (s PermissionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Records())
}

// UnmarshalJSON acepta la lista de registros persistida.
func (s *PermissionSet) UnmarshalJSON(b []byte) error {
	var records []entity.PermissionRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return err
	}
	*s = NewPermissionSet(records)
	return nil
}
