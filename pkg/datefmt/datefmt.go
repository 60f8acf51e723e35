// Package datefmt formatea fechas para mostrar al usuario, en la zona horaria
// y el idioma configurados. Las fechas ausentes se muestran como "-".
package datefmt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Empty texto para fechas ausentes.
const Empty = "-"

const (
	keyJustNow = "just now"
	keyMinutes = "%d minutes ago"
	keyHours   = "%d hours ago"
	keyDays    = "%d days ago"
)

// catalog traducciones por idioma; los plurales se eligen por el primer argumento.
var catalog = map[language.Tag][4]string{
	language.Spanish: {"justo ahora", "hace 1 minuto|hace %[1]d minutos", "hace 1 hora|hace %[1]d horas", "hace 1 día|hace %[1]d días"},
	language.English: {"just now", "1 minute ago|%[1]d minutes ago", "1 hour ago|%[1]d hours ago", "1 day ago|%[1]d days ago"},
}

func init() {
	if err := loadCatalog(catalog); err != nil {
		panic("datefmt: " + err.Error())
	}
}

// loadCatalog registra las traducciones; devuelve todos los errores juntos.
func loadCatalog(cat map[language.Tag][4]string) error {
	var errs []error
	for tag, m := range cat {
		errs = append(errs, message.SetString(tag, keyJustNow, m[0]))
		for i, key := range []string{keyMinutes, keyHours, keyDays} {
			one, other, ok := strings.Cut(m[i+1], "|")
			if !ok {
				errs = append(errs, fmt.Errorf("%s %q: falta la forma plural", tag, key))
				continue
			}
			errs = append(errs, message.Set(tag, key, plural.Selectf(1, "%d", "=1", one, "other", other)))
		}
	}
	return errors.Join(errs...)
}

var supported = language.NewMatcher([]language.Tag{language.Spanish, language.English})

type layouts struct {
	dateTime string
	date     string
}

// Formatter formatea en una zona y un idioma fijos. Seguro para uso concurrente.
type Formatter struct {
	loc     *time.Location
	printer *message.Printer
	layout  layouts
	now     func() time.Time
}

// New timezone vacío usa UTC; lang se ajusta al más cercano entre español e inglés.
func New(timezone, lang string) (*Formatter, error) {
	loc := time.UTC
	if timezone != "" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return nil, err
		}
		loc = l
	}
	matched, _ := language.MatchStrings(supported, lang)
	base, _ := matched.Base()
	tag := language.Make(base.String())

	f := &Formatter{
		loc:     loc,
		printer: message.NewPrinter(tag),
		now:     time.Now,
	}
	if en, _ := language.English.Base(); base == en {
		f.layout = layouts{dateTime: "01/02/2006 15:04:05", date: "01/02/2006"}
	} else {
		f.layout = layouts{dateTime: "02/01/2006 15:04:05", date: "02/01/2006"}
	}
	return f, nil
}

// WithClock copia del formatter con otro reloj; para tests.
func (f *Formatter) WithClock(now func() time.Time) *Formatter {
	c := *f
	c.now = now
	return &c
}

// Time fecha y hora de un time.Time; el valor cero es Empty.
func (f *Formatter) Time(t time.Time) string {
	if t.IsZero() {
		return Empty
	}
	return t.In(f.loc).Format(f.layout.dateTime)
}

// Relative "hace N minutos/horas/días"; a partir de 7 días, solo la fecha.
// Fechas futuras cuentan como "justo ahora" y el valor cero es Empty.
func (f *Formatter) Relative(t time.Time) string {
	if t.IsZero() {
		return Empty
	}
	diff := f.now().Sub(t)
	switch {
	case diff < time.Minute:
		return f.printer.Sprintf(keyJustNow)
	case diff < time.Hour:
		return f.printer.Sprintf(keyMinutes, int(diff/time.Minute))
	case diff < 24*time.Hour:
		return f.printer.Sprintf(keyHours, int(diff/time.Hour))
	case diff < 7*24*time.Hour:
		return f.printer.Sprintf(keyDays, int(diff/(24*time.Hour)))
	}
	return t.In(f.loc).Format(f.layout.date)
}
