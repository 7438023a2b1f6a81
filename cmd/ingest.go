package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Parses the HRDF corpus and summarizes it",
	Long:  "Parses the HRDF corpus, writes the snapshot when one is configured, and summarizes the ingested stores",
	RunE:  ingest,
}

func ingest(cmd *cobra.Command, args []string) error {
	tt, err := loadTimetable()
	if err != nil {
		return err
	}

	ds := tt.DataStore()
	meta := tt.Metadata()
	fmt.Printf("timetable %s (%s), %s to %s\n",
		meta.Name, meta.Provider,
		meta.StartDate.Format("2006-01-02"), meta.EndDate.Format("2006-01-02"))
	fmt.Printf("  stops:            %d\n", ds.Stops.Len())
	fmt.Printf("  journeys:         %d\n", ds.Journeys.Len())
	fmt.Printf("  platforms:        %d\n", ds.Platforms.Len())
	fmt.Printf("  stop connections: %d\n", ds.StopConnections.Len())
	fmt.Printf("  bit fields:       %d\n", ds.BitFields.Len())
	fmt.Printf("  through services: %d\n", len(ds.ThroughServices))
	return nil
}
