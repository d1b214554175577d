package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, Period("2025-01"), Format(2025, 1))
	assert.Equal(t, Period("2025-12"), Format(2025, 12))
}

func TestParse(t *testing.T) {
	p, err := Parse("2025-03")
	require.NoError(t, err)
	assert.Equal(t, 2025, p.Year())
	assert.Equal(t, 3, p.Month())
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"2025", "2025-13", "2025-00", "jan-2025", ""} {
		_, err := Parse(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestFromTime(t *testing.T) {
	p := FromTime(time.Date(2025, time.December, 31, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, Period("2025-12"), p)
}

func TestHeader(t *testing.T) {
	assert.Equal(t, "Jan/25", Period("2025-01").Header())
	assert.Equal(t, "Fev/25", Period("2025-02").Header())
	assert.Equal(t, "Dez/24", Period("2024-12").Header())
	assert.Equal(t, "Ago/26", Period("2026-08").Header())
}

func TestTime(t *testing.T) {
	got := Period("2025-06").Time()
	assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestBefore(t *testing.T) {
	assert.True(t, Period("2024-12").Before("2025-01"))
	assert.True(t, Period("2025-01").Before("2025-02"))
	assert.False(t, Period("2025-02").Before("2025-02"))
	assert.False(t, Period("2025-10").Before("2025-09"))
}

func TestSort(t *testing.T) {
	ps := []Period{"2025-10", "2024-12", "2025-01", "2025-02"}
	Sort(ps)
	assert.Equal(t, []Period{"2024-12", "2025-01", "2025-02", "2025-10"}, ps)
}
