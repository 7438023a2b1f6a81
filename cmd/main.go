package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hrdf/timetable"
	"github.com/hrdf/timetable/downloader"
	"github.com/hrdf/timetable/errs"
	"github.com/hrdf/timetable/parse/fixedwidth"
	"github.com/hrdf/timetable/storage"
)

var rootCmd = &cobra.Command{
	Use:          "hrdf",
	Short:        "Swiss timetable tool",
	Long:         "Ingests an HRDF timetable and answers trip-planning and isochrone queries",
	SilenceUsage: true,
}

var (
	hrdfDir      string
	hrdfURL      string
	cacheDir     string
	snapshotPath string
	snapshotPG   string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&hrdfDir, "dir", "d", "", "Directory holding the HRDF files")
	rootCmd.PersistentFlags().StringVarP(&hrdfURL, "url", "u", "", "URL of an HRDF zip bundle to download")
	rootCmd.PersistentFlags().StringVarP(&cacheDir, "cache-dir", "", ".hrdf-cache", "Directory for downloaded bundles")
	rootCmd.PersistentFlags().StringVarP(&snapshotPath, "snapshot", "", "", "SQLite snapshot database to load from / save to")
	rootCmd.PersistentFlags().StringVarP(&snapshotPG, "snapshot-postgres", "", "", "Postgres snapshot connection string to load from / save to")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(isochroneCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(stopsCmd)
	rootCmd.AddCommand(holidaysCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode maps the error taxonomy to process exit codes: 1 for input
// errors, 2 for query errors, 64 for configuration errors.
func exitCode(err error) int {
	var queryErr *errs.QueryError
	if errors.As(err, &queryErr) {
		return 2
	}
	var ingestErr *errs.IngestError
	var parseErr *fixedwidth.Error
	if errors.As(err, &ingestErr) || errors.As(err, &parseErr) || errors.Is(err, os.ErrNotExist) {
		return 1
	}
	var confErr *configError
	if errors.As(err, &confErr) {
		return 64
	}
	return 1
}

type configError struct{ msg string }

func (e *configError) Error() string { return e.msg }

// openSnapshot returns the configured snapshot store, or nil when
// snapshotting is not requested.
func openSnapshot() (*storage.Snapshot, error) {
	switch {
	case snapshotPath != "" && snapshotPG != "":
		return nil, &configError{msg: "--snapshot and --snapshot-postgres are mutually exclusive"}
	case snapshotPath != "":
		return storage.NewSQLiteSnapshot(snapshotPath)
	case snapshotPG != "":
		return storage.NewPostgresSnapshot(snapshotPG)
	default:
		return nil, nil
	}
}

// loadTimetable produces a ready-to-query Timetable from, in order of
// preference: an existing snapshot, a local HRDF directory, or a
// downloaded bundle. Freshly parsed data is written back to the
// snapshot when one is configured.
func loadTimetable() (*timetable.Timetable, error) {
	snap, err := openSnapshot()
	if err != nil {
		return nil, err
	}
	if snap != nil {
		defer snap.Close()

		ds, err := snap.Load()
		if err == nil {
			return timetable.NewFromDataStore(ds), nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}

	dir := hrdfDir
	if dir == "" && hrdfURL != "" {
		dir, err = fetchBundle(hrdfURL)
		if err != nil {
			return nil, err
		}
	}
	if dir == "" {
		return nil, &configError{msg: "one of --dir or --url is required"}
	}

	start := time.Now()
	tt, err := timetable.Load(dir)
	if err != nil {
		return nil, err
	}
	fmt.Printf("ingested %s in %s\n", dir, time.Since(start).Round(time.Millisecond))

	if snap != nil {
		if err := snap.Save(tt.DataStore()); err != nil {
			return nil, fmt.Errorf("saving snapshot: %w", err)
		}
	}
	return tt, nil
}

func fetchBundle(url string) (string, error) {
	fs, err := downloader.NewFilesystem(cacheDir)
	if err != nil {
		return "", err
	}

	buf, err := fs.Get(context.Background(), url, nil, downloader.GetOptions{
		Timeout:  5 * time.Minute,
		Cache:    true,
		CacheTTL: 24 * time.Hour,
	})
	if err != nil {
		return "", fmt.Errorf("downloading bundle: %w", err)
	}

	dir, err := os.MkdirTemp("", "hrdf")
	if err != nil {
		return "", err
	}
	if err := downloader.ExtractZip(buf, dir); err != nil {
		return "", err
	}
	return dir, nil
}
