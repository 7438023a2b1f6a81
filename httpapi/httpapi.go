// Package httpapi is the thin HTTP surface over the isochrone driver:
// a single GET /isochrones endpoint. Deliberately small -- the engine
// and its inputs live in the routing and isochrone packages, and
// nothing here is consulted by them.
package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/paulmach/orb/geojson"

	"github.com/hrdf/timetable/errs"
	"github.com/hrdf/timetable/isochrone"
)

// New returns the API router bound to driver.
func New(driver *isochrone.Driver) http.Handler {
	h := &handler{driver: driver}
	r := mux.NewRouter()
	r.HandleFunc("/isochrones", h.isochrones).Methods(http.MethodGet)
	return r
}

type handler struct {
	driver *isochrone.Driver
}

type isochroneJSON struct {
	TimeLimitMinutes int                 `json:"time_limit"`
	Polygons         []*geojson.Geometry `json:"polygons"`
}

type collectionJSON struct {
	OriginPointLatitude  float64         `json:"origin_point_latitude"`
	OriginPointLongitude float64         `json:"origin_point_longitude"`
	DepartureAt          string          `json:"departure_at"`
	Isochrones           []isochroneJSON `json:"isochrones"`
}

type responseJSON struct {
	IsochroneCollection collectionJSON `json:"isochrone_collection"`
}

type errorJSON struct {
	Error string `json:"error"`
}

func (h *handler) isochrones(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, err := strconv.ParseFloat(q.Get("origin_point_latitude"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid origin_point_latitude")
		return
	}
	lon, err := strconv.ParseFloat(q.Get("origin_point_longitude"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid origin_point_longitude")
		return
	}
	date, err := time.Parse("2006-01-02", q.Get("departure_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid departure_date, want YYYY-MM-DD")
		return
	}
	clock, err := time.Parse("15:04", q.Get("departure_time"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid departure_time, want HH:MM")
		return
	}
	timeLimit, err := strconv.Atoi(q.Get("time_limit"))
	if err != nil || timeLimit <= 0 {
		writeError(w, http.StatusBadRequest, "invalid time_limit, want positive minutes")
		return
	}
	interval, err := strconv.Atoi(q.Get("isochrone_interval"))
	if err != nil || interval <= 0 {
		writeError(w, http.StatusBadRequest, "invalid isochrone_interval, want positive minutes")
		return
	}

	mode := isochrone.DisplayMode(q.Get("display_mode"))
	switch mode {
	case isochrone.ModeCircles, isochrone.ModeContourLine:
	case "":
		mode = isochrone.ModeCircles
	default:
		writeError(w, http.StatusBadRequest, "invalid display_mode, want circles or contour_line")
		return
	}

	departureAt := time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC)

	collection, err := h.driver.Query(r.Context(), isochrone.Request{
		OriginLat:   lat,
		OriginLon:   lon,
		DepartureAt: departureAt,
		TimeLimit:   time.Duration(timeLimit) * time.Minute,
		Interval:    time.Duration(interval) * time.Minute,
		Mode:        mode,
	})
	if err != nil {
		var qerr *errs.QueryError
		if errors.As(err, &qerr) {
			writeError(w, http.StatusUnprocessableEntity, qerr.Error())
			return
		}
		log.Printf("isochrones: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := responseJSON{
		IsochroneCollection: collectionJSON{
			OriginPointLatitude:  collection.OriginLat,
			OriginPointLongitude: collection.OriginLon,
			DepartureAt:          collection.DepartureAt.Format(time.RFC3339),
			Isochrones:           make([]isochroneJSON, 0, len(collection.Isochrones)),
		},
	}
	for _, iso := range collection.Isochrones {
		entry := isochroneJSON{
			TimeLimitMinutes: int(iso.TimeLimit.Minutes()),
			Polygons:         make([]*geojson.Geometry, 0, len(iso.Polygons)),
		}
		for _, poly := range iso.Polygons {
			entry.Polygons = append(entry.Polygons, geojson.NewGeometry(poly))
		}
		resp.IsochroneCollection.Isochrones = append(resp.IsochroneCollection.Isochrones, entry)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("isochrones: encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorJSON{Error: msg})
}
