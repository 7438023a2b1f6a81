package parse

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hrdf/timetable/model"
	"github.com/hrdf/timetable/storage"
)

// writeFile drops content into dir under name, for parsers that read
// one file family at a time.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

// testStore returns an empty DataStore covering 2024-06-01 through
// 2024-06-10.
func testStore() *storage.DataStore {
	ds := storage.New()
	ds.Metadata = &model.TimetableMetadata{
		StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
	}
	return ds
}
