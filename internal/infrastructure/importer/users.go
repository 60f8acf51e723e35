// Package importer carga usuarios en lote desde CSV exportados por otros sistemas.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Supermercado-api/internal/application/dto"
	"github.com/jhoicas/Supermercado-api/internal/domain"
)

// ErrBadFile el CSV no tiene el formato esperado.
var ErrBadFile = errors.New("archivo de usuarios inválido")

// Row una fila del archivo con su número de línea (1 = cabecera).
type Row struct {
	Line int
	dto.RegisterRequest
}

// Decoder envuelve r según la codificación del archivo: utf-8 (o vacío), latin1, windows-1252.
func Decoder(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	}
	return nil, fmt.Errorf("codificación no soportada %q", encoding)
}

var columns = []string{"username", "password", "role", "store_id"}

// ParseUsers lee username,password[,role[,store_id]] con cabecera. Acepta ',' o ';'.
func ParseUsers(r io.Reader, encoding string) ([]Row, error) {
	in, err := Decoder(r, encoding)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: cabecera: %v", ErrBadFile, err)
	}
	if len(header) == 1 && strings.Contains(header[0], ";") {
		header = strings.Split(header[0], ";")
		cr.Comma = ';'
	}
	idx, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []Row
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: línea %d: %v", ErrBadFile, line, err)
		}
		if blank(rec) {
			continue
		}
		row, err := parseRow(rec, idx, line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func headerIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, c := range columns {
			if h == c {
				idx[c] = i
			}
		}
	}
	if _, ok := idx["username"]; !ok {
		return nil, fmt.Errorf("%w: falta la columna username", ErrBadFile)
	}
	if _, ok := idx["password"]; !ok {
		return nil, fmt.Errorf("%w: falta la columna password", ErrBadFile)
	}
	return idx, nil
}

func parseRow(rec []string, idx map[string]int, line int) (Row, error) {
	get := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	row := Row{Line: line}
	row.Username = get("username")
	row.Password = get("password")
	row.Role = get("role")
	if row.Username == "" || row.Password == "" {
		return Row{}, fmt.Errorf("%w: línea %d: usuario y contraseña son obligatorios", ErrBadFile, line)
	}
	if s := get("store_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return Row{}, fmt.Errorf("%w: línea %d: store_id %q", ErrBadFile, line, s)
		}
		row.StoreID = &id
	}
	return row, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Registrar lo cumple auth.AuthUseCase.
type Registrar interface {
	RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error)
}

// Result resumen de una importación.
type Result struct {
	Created int
	Skipped []string
}

// Apply registra cada fila en orden. Con skipExisting los usuarios ya existentes se
// omiten; cualquier otro error corta la importación indicando la línea.
func Apply(ctx context.Context, reg Registrar, rows []Row, skipExisting bool) (Result, error) {
	var res Result
	for _, row := range rows {
		_, err := reg.RegisterUser(ctx, row.RegisterRequest)
		switch {
		case err == nil:
			res.Created++
		case skipExisting && errors.Is(err, domain.ErrUsernameTaken):
			res.Skipped = append(res.Skipped, row.Username)
		default:
			return res, fmt.Errorf("línea %d (%s): %w", row.Line, row.Username, err)
		}
	}
	return res, nil
}
