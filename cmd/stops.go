package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hrdf/timetable/storage"
)

var stopsCmd = &cobra.Command{
	Use:   "stops <latitude> <longitude>",
	Short: "Lists stops near a geographical location",
	Args:  cobra.ExactArgs(2),
	RunE:  stops,
}

var stopsLimit int

func init() {
	stopsCmd.Flags().IntVarP(&stopsLimit, "limit", "l", 10, "Number of stops to list")
}

func stops(cmd *cobra.Command, args []string) error {
	var lat, lon float64
	if _, err := fmt.Sscanf(args[0], "%f", &lat); err != nil {
		return &configError{msg: fmt.Sprintf("%q is not a latitude", args[0])}
	}
	if _, err := fmt.Sscanf(args[1], "%f", &lon); err != nil {
		return &configError{msg: fmt.Sprintf("%q is not a longitude", args[1])}
	}

	tt, err := loadTimetable()
	if err != nil {
		return err
	}

	type entry struct {
		id       int
		name     string
		distance float64
	}
	var entries []entry
	for _, stop := range tt.DataStore().Stops.Values() {
		if stop.WGS84 == nil {
			continue
		}
		entries = append(entries, entry{
			id:       stop.ID,
			name:     stop.Name,
			distance: storage.HaversineDistance(lat, lon, stop.WGS84.Latitude(), stop.WGS84.Longitude()),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].distance < entries[j].distance })

	if len(entries) > stopsLimit {
		entries = entries[:stopsLimit]
	}
	for _, e := range entries {
		fmt.Printf("%07d %-36s %.2f km\n", e.id, e.name, e.distance)
	}
	return nil
}
