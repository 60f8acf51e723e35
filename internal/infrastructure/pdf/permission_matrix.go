// Package pdf genera el reporte PDF de la matriz de permisos por rol.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Función | Módulo | system_admin | manager | cashier  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  LEYENDA: V=ver C=crear E=editar B=borrar                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Supermercado-api/internal/application/permission"
	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
)

// Verificar en tiempo de compilación que MatrixGenerator implementa MatrixRenderer.
var _ permission.MatrixRenderer = (*MatrixGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDenied  = &props.Color{Red: 170, Green: 170, Blue: 170}
)

var roleLabels = map[entity.Role]string{
	entity.RoleSystemAdmin:  "Administrador",
	entity.RoleStoreManager: "Gerente",
	entity.RoleCashier:      "Cajero",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// TimeFormatter formatea la fecha de generación.
type TimeFormatter interface {
	Time(t time.Time) string
}

// MatrixGenerator implementa permission.MatrixRenderer usando Maroto v2.
type MatrixGenerator struct {
	dates TimeFormatter
	now   func() time.Time
}

// NewMatrixGenerator construye el generador.
func NewMatrixGenerator(dates TimeFormatter) *MatrixGenerator {
	return &MatrixGenerator{dates: dates, now: time.Now}
}

// RenderPermissionMatrix genera el PDF y devuelve sus bytes.
func (g *MatrixGenerator) RenderPermissionMatrix(_ context.Context, m permission.Matrix) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Matriz de permisos", true).
		WithAuthor("Supermercado", true).
		Build()

	doc := maroto.New(cfg)

	doc.AddRows(headerRow(g.dates.Time(g.now())))
	doc.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	doc.AddRows(tableHeaderRow())
	for _, r := range matrixRows(m) {
		doc.AddRows(r)
	}

	doc.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	doc.AddRows(legendRow())

	out, err := doc.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(generated string) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("MATRIZ DE PERMISOS POR ROL", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+generated, props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	cols := []core.Col{
		h("Función", 4, align.Left),
		h("Módulo", 2, align.Left),
	}
	for _, r := range entity.Roles() {
		cols = append(cols, h(roleLabels[r], 2, align.Center))
	}
	return row.New(8).Add(cols...)
}

// matrixRows una fila por función activa, en el orden del catálogo.
func matrixRows(m permission.Matrix) []core.Row {
	result := make([]core.Row, 0, len(m.Features))
	for _, f := range m.Features {
		cols := []core.Col{
			col.New(4).Add(text.New(f.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(string(f.Module), props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray})),
		}
		for _, r := range entity.Roles() {
			rec, ok := m.ByRole[r][f.Code]
			cell := Flags(rec, ok)
			style := props.Text{Size: 8, Align: align.Center, Top: 1}
			if cell == "—" {
				style.Color = colorDenied
			}
			cols = append(cols, col.New(2).Add(text.New(cell, style)))
		}
		result = append(result, row.New(6).Add(cols...))
	}
	return result
}

func legendRow() core.Row {
	return row.New(8).Add(
		col.New(12).Add(text.New("V = ver   C = crear   E = editar   B = borrar   — = sin acceso", props.Text{
			Size: 7, Top: 2, Color: colorGray,
		})),
	)
}

// Flags resume las capacidades de un registro ("V C E B"); "—" si no hay ninguna.
func Flags(rec entity.PermissionRecord, ok bool) string {
	if !ok {
		return "—"
	}
	var parts []string
	if rec.CanView {
		parts = append(parts, "V")
	}
	if rec.CanCreate {
		parts = append(parts, "C")
	}
	if rec.CanEdit {
		parts = append(parts, "E")
	}
	if rec.CanDelete {
		parts = append(parts, "B")
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, " ")
}
