package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan <departure_stop_id> <arrival_stop_id>",
	Short: "Finds the earliest-arrival trip between two stops",
	Args:  cobra.ExactArgs(2),
	RunE:  plan,
}

var departAt string

func init() {
	planCmd.Flags().StringVarP(&departAt, "at", "t", "", "Departure date-time (2006-01-02 15:04), defaults to now")
}

func plan(cmd *cobra.Command, args []string) error {
	from, err := strconv.Atoi(args[0])
	if err != nil {
		return &configError{msg: fmt.Sprintf("%q is not a stop id", args[0])}
	}
	to, err := strconv.Atoi(args[1])
	if err != nil {
		return &configError{msg: fmt.Sprintf("%q is not a stop id", args[1])}
	}

	at := time.Now()
	if departAt != "" {
		at, err = time.Parse("2006-01-02 15:04", departAt)
		if err != nil {
			return &configError{msg: fmt.Sprintf("invalid --at: %v", err)}
		}
	}

	tt, err := loadTimetable()
	if err != nil {
		return err
	}

	route, err := tt.Plan(context.Background(), from, to, at)
	if err != nil {
		return err
	}

	fmt.Print(tt.Itinerary(route))
	fmt.Printf("Arrival: %s  connections: %d\n", route.ArrivalAt().Format("2006-01-02 15:04"), route.CountConnections())
	return nil
}
