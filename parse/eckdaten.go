package parse

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hrdf/timetable/model"
	"github.com/hrdf/timetable/parse/fixedwidth"
)

// ParseEckdaten reads ECKDATEN: two dd.mm.yyyy dates (start, end) then
// a third line "name$created_at$version$provider".
func ParseEckdaten(dir string) (*model.TimetableMetadata, error) {
	const name = "ECKDATEN"
	f, err := fixedwidth.Open(dir + "/" + name)
	if err != nil {
		return nil, err
	}
	if f.Len() < 3 {
		return nil, &fixedwidth.Error{File: name, Line: f.Len(), Kind: fixedwidth.Truncated, Err: errors.New("expected at least 3 lines")}
	}

	s := f.Scanner()
	startLine, _, _ := s.Next()
	endLine, _, _ := s.Next()
	thirdLine, _, _ := s.Next()

	start, err := time.Parse("02.01.2006", strings.TrimSpace(startLine))
	if err != nil {
		return nil, &fixedwidth.Error{File: name, Line: 0, Kind: fixedwidth.BadField, Err: errors.Wrap(err, "parsing start date")}
	}
	end, err := time.Parse("02.01.2006", strings.TrimSpace(endLine))
	if err != nil {
		return nil, &fixedwidth.Error{File: name, Line: 1, Kind: fixedwidth.BadField, Err: errors.Wrap(err, "parsing end date")}
	}
	if end.Before(start) {
		return nil, &fixedwidth.Error{File: name, Line: 1, Kind: fixedwidth.BadField, Err: errors.New("end_date precedes start_date")}
	}

	parts := strings.Split(thirdLine, "$")
	meta := &model.TimetableMetadata{StartDate: start, EndDate: end}
	if len(parts) > 0 {
		meta.Name = parts[0]
	}
	if len(parts) > 1 {
		meta.CreatedAt = parts[1]
	}
	if len(parts) > 2 {
		meta.Version = parts[2]
	}
	if len(parts) > 3 {
		meta.Provider = parts[3]
	}
	return meta, nil
}
