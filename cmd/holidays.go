package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var holidaysCmd = &cobra.Command{
	Use:   "holidays",
	Short: "Lists the holidays declared in the timetable",
	RunE:  holidays,
}

func holidays(cmd *cobra.Command, args []string) error {
	tt, err := loadTimetable()
	if err != nil {
		return err
	}

	for _, h := range tt.DataStore().Holidays.Values() {
		name := h.Names["de"]
		if name == "" {
			for _, v := range h.Names {
				name = v
				break
			}
		}
		fmt.Printf("%s %s\n", h.Date.Format("2006-01-02"), name)
	}
	return nil
}
