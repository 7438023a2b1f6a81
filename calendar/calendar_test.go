package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrdf/timetable/model"
)

func TestParseHexBits(t *testing.T) {
	bits, err := ParseHexBits("F0")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, true, true, false, false, false, false}, bits)

	bits, err = ParseHexBits("A")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true, false}, bits)

	_, err = ParseHexBits("G")
	assert.Error(t, err)
}

func TestEngineOperatesOn(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	meta := &model.TimetableMetadata{StartDate: start, EndDate: end}
	e := NewEngine(meta, nil)

	bits, err := ParseHexBits("C0") // 1100 0000 -> offsets 0,1 set
	require.NoError(t, err)
	bf := &model.BitField{ID: 1, Bits: bits}

	assert.True(t, e.OperatesOn(bf, start))
	assert.True(t, e.OperatesOn(bf, start.AddDate(0, 0, 1)))
	assert.False(t, e.OperatesOn(bf, start.AddDate(0, 0, 2)))

	// Outside the timetable's validity window never operates.
	assert.False(t, e.OperatesOn(bf, end.AddDate(0, 0, 1)))
	assert.False(t, e.OperatesOn(bf, start.AddDate(0, 0, -1)))
}

func TestEngineIsHoliday(t *testing.T) {
	meta := &model.TimetableMetadata{
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	newYear := &model.Holiday{
		Localised: model.Localised{ID: 1, Names: map[string]string{"de": "Neujahr"}},
		Date:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	e := NewEngine(meta, []*model.Holiday{newYear})

	name, ok := e.IsHoliday(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, ok)
	assert.Equal(t, "Neujahr", name)

	_, ok = e.IsHoliday(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)
}

func TestAddDaysAndDaysBetween(t *testing.T) {
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), AddDays(d, 1))
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), AddDays(d, -1))
	assert.Equal(t, 1, DaysBetween(d, d))
	assert.Equal(t, 10, DaysBetween(d, AddDays(d, 9)))
}
