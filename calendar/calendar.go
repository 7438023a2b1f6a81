// Package calendar implements the day-offset bit field engine: turning
// a BITFELD hex string into a per-day bit vector anchored on the
// timetable's start date, and answering "does this journey run on
// date D" (operates_on).
package calendar

import (
	"fmt"
	"time"

	"github.com/hrdf/timetable/model"
)

// ParseHexBits expands a BITFELD hex string into a bit vector, MSB
// first within each nibble.
func ParseHexBits(hex string) ([]bool, error) {
	bits := make([]bool, 0, len(hex)*4)
	for _, r := range hex {
		var v int
		switch {
		case r >= '0' && r <= '9':
			v = int(r - '0')
		case r >= 'A' && r <= 'F':
			v = int(r-'A') + 10
		case r >= 'a' && r <= 'f':
			v = int(r-'a') + 10
		default:
			return nil, fmt.Errorf("invalid hex digit %q", r)
		}
		for i := 3; i >= 0; i-- {
			bits = append(bits, (v>>uint(i))&1 == 1)
		}
	}
	return bits, nil
}

// Engine resolves BitField operates-on queries against a fixed
// timetable validity window.
type Engine struct {
	Metadata *model.TimetableMetadata
	Holidays map[string]*model.Holiday // "20060102" -> holiday
}

// NewEngine builds an Engine over the given metadata and holiday set.
func NewEngine(metadata *model.TimetableMetadata, holidays []*model.Holiday) *Engine {
	byDate := make(map[string]*model.Holiday, len(holidays))
	for _, h := range holidays {
		byDate[h.Date.Format("20060102")] = h
	}
	return &Engine{Metadata: metadata, Holidays: byDate}
}

// OperatesOn reports whether bitField is set for date: offset is the
// zero-based day count from the timetable's start date, and any date outside [StartDate, EndDate] never operates.
func (e *Engine) OperatesOn(bitField *model.BitField, date time.Time) bool {
	if bitField == nil {
		return false
	}
	offset, inRange := e.Metadata.DayOffset(date)
	if !inRange {
		return false
	}
	return bitField.OperatesOnOffset(offset)
}

// IsHoliday reports whether date is a declared holiday, and its name
// if so. Ambient metadata per the supplemented FEIERTAG feature: no
// core operation consults it, but it is available to callers that
// want to annotate a day.
func (e *Engine) IsHoliday(date time.Time) (string, bool) {
	h, ok := e.Holidays[date.Format("20060102")]
	if !ok {
		return "", false
	}
	name := h.Names["de"]
	if name == "" {
		for _, v := range h.Names {
			name = v
			break
		}
	}
	return name, true
}

// AddDays returns date shifted by n days (n may be negative).
func AddDays(date time.Time, n int) time.Time {
	return date.AddDate(0, 0, n)
}

// DaysBetween returns the inclusive day count between two dates.
func DaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours()/24) + 1
}
