package datefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func newES(t *testing.T) *Formatter {
	t.Helper()
	f, err := New("America/Bogota", "es-CO")
	require.NoError(t, err)
	return f
}

func TestTime_ZonaHoraria(t *testing.T) {
	f := newES(t)
	assert.Equal(t, "14/03/2024 07:30:00", f.Time(time.Date(2024, 3, 14, 12, 30, 0, 0, time.UTC)))
	assert.Equal(t, Empty, f.Time(time.Time{}))
	assert.Equal(t, Empty, f.Relative(time.Time{}))
}

func TestLoadCatalog(t *testing.T) {
	require.NoError(t, loadCatalog(catalog))

	err := loadCatalog(map[language.Tag][4]string{
		language.French: {"à l'instant", "il y a 1 minute", "il y a 1 heure|il y a %[1]d heures", "il y a 1 jour"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), keyMinutes)
	assert.Contains(t, err.Error(), keyDays, "se informan todos los errores, no solo el primero")
	assert.NotContains(t, err.Error(), keyHours)
}

func TestNew_ZonaInvalida(t *testing.T) {
	_, err := New("Marte/Olympus", "es")
	assert.Error(t, err)
}

func TestRelative(t *testing.T) {
	now := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
	f := newES(t).WithClock(func() time.Time { return now })

	cases := map[time.Duration]string{
		30 * time.Second:   "justo ahora",
		time.Minute:        "hace 1 minuto",
		45 * time.Minute:   "hace 45 minutos",
		3 * time.Hour:      "hace 3 horas",
		24 * time.Hour:     "hace 1 día",
		6 * 24 * time.Hour: "hace 6 días",
		8 * 24 * time.Hour: "06/03/2024",
	}
	for ago, want := range cases {
		assert.Equal(t, want, f.Relative(now.Add(-ago)), ago.String())
	}
	assert.Equal(t, "justo ahora", f.Relative(now.Add(time.Hour)))
}

func TestRelative_Ingles(t *testing.T) {
	now := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
	f, err := New("UTC", "en-US")
	require.NoError(t, err)
	f = f.WithClock(func() time.Time { return now })

	assert.Equal(t, "2 hours ago", f.Relative(time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "03/06/2024", f.Relative(time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "03/14/2024 10:00:00", f.Time(time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)))
}
