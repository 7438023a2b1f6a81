package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hrdf/timetable/isochrone"
)

var isochroneCmd = &cobra.Command{
	Use:   "isochrone <latitude> <longitude>",
	Short: "Renders the area reachable from a point within a time budget",
	Args:  cobra.ExactArgs(2),
	RunE:  runIsochrone,
}

var (
	isoAt       string
	isoLimit    int
	isoInterval int
	isoMode     string
)

func init() {
	isochroneCmd.Flags().StringVarP(&isoAt, "at", "t", "", "Departure date-time (2006-01-02 15:04), defaults to now")
	isochroneCmd.Flags().IntVarP(&isoLimit, "time-limit", "l", 60, "Time budget in minutes")
	isochroneCmd.Flags().IntVarP(&isoInterval, "interval", "i", 15, "Band interval in minutes")
	isochroneCmd.Flags().StringVarP(&isoMode, "mode", "m", string(isochrone.ModeCircles), "Display mode: circles or contour_line")
}

func runIsochrone(cmd *cobra.Command, args []string) error {
	var lat, lon float64
	if _, err := fmt.Sscanf(args[0], "%f", &lat); err != nil {
		return &configError{msg: fmt.Sprintf("%q is not a latitude", args[0])}
	}
	if _, err := fmt.Sscanf(args[1], "%f", &lon); err != nil {
		return &configError{msg: fmt.Sprintf("%q is not a longitude", args[1])}
	}

	at := time.Now()
	if isoAt != "" {
		var err error
		at, err = time.Parse("2006-01-02 15:04", isoAt)
		if err != nil {
			return &configError{msg: fmt.Sprintf("invalid --at: %v", err)}
		}
	}

	tt, err := loadTimetable()
	if err != nil {
		return err
	}

	driver := isochrone.New(tt.DataStore())
	collection, err := driver.Query(context.Background(), isochrone.Request{
		OriginLat:   lat,
		OriginLon:   lon,
		DepartureAt: at,
		TimeLimit:   time.Duration(isoLimit) * time.Minute,
		Interval:    time.Duration(isoInterval) * time.Minute,
		Mode:        isochrone.DisplayMode(isoMode),
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(collection)
}
