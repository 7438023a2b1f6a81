package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/hrdf/timetable/httpapi"
	"github.com/hrdf/timetable/isochrone"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the isochrone HTTP API",
	RunE:  serve,
}

var listenAddr string

func init() {
	serveCmd.Flags().StringVarP(&listenAddr, "listen", "", ":8080", "Listen address")
}

func serve(cmd *cobra.Command, args []string) error {
	tt, err := loadTimetable()
	if err != nil {
		return err
	}

	handler := httpapi.New(isochrone.New(tt.DataStore()))
	fmt.Printf("listening on %s\n", listenAddr)
	return http.ListenAndServe(listenAddr, handler)
}
