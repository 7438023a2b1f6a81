package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrdf/timetable/calendar"
	"github.com/hrdf/timetable/isochrone"
	"github.com/hrdf/timetable/model"
	"github.com/hrdf/timetable/storage"
)

func testHandler(t *testing.T) http.Handler {
	t.Helper()

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	ds := storage.New()
	ds.Metadata = &model.TimetableMetadata{StartDate: start, EndDate: end}

	a := model.NewLV95Coordinates(2600000, 1200000)
	b := model.NewLV95Coordinates(2605000, 1200000)
	ds.Stops.Put(1, &model.Stop{ID: 1, Name: "A", LV95: &a})
	ds.Stops.Put(2, &model.Stop{ID: 2, Name: "B", LV95: &b})

	dep := model.NewServiceTimeHHMM(800)
	arr := model.NewServiceTimeHHMM(810)
	ds.Journeys.Put(100, &model.Journey{
		ID: 100,
		Route: []model.JourneyRouteEntry{
			{StopID: 1, Departure: &dep},
			{StopID: 2, Arrival: &arr},
		},
	})

	require.NoError(t, ds.BuildIndices())
	ds.Calendar = calendar.NewEngine(ds.Metadata, nil)

	return New(isochrone.New(ds))
}

func TestIsochronesEndpoint(t *testing.T) {
	h := testHandler(t)

	req := httptest.NewRequest(http.MethodGet,
		"/isochrones?origin_point_latitude=46.95&origin_point_longitude=7.44"+
			"&departure_date=2024-06-01&departure_time=07:55"+
			"&time_limit=30&isochrone_interval=15&display_mode=circles", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp struct {
		IsochroneCollection struct {
			OriginPointLatitude  float64 `json:"origin_point_latitude"`
			OriginPointLongitude float64 `json:"origin_point_longitude"`
			Isochrones           []struct {
				TimeLimit int               `json:"time_limit"`
				Polygons  []json.RawMessage `json:"polygons"`
			} `json:"isochrones"`
		} `json:"isochrone_collection"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 46.95, resp.IsochroneCollection.OriginPointLatitude)
	require.Len(t, resp.IsochroneCollection.Isochrones, 2)
	assert.Equal(t, 15, resp.IsochroneCollection.Isochrones[0].TimeLimit)
	assert.Equal(t, 30, resp.IsochroneCollection.Isochrones[1].TimeLimit)
	assert.NotEmpty(t, resp.IsochroneCollection.Isochrones[0].Polygons)
}

func TestIsochronesBadParams(t *testing.T) {
	h := testHandler(t)

	for _, url := range []string{
		"/isochrones",
		"/isochrones?origin_point_latitude=x&origin_point_longitude=7.44&departure_date=2024-06-01&departure_time=07:55&time_limit=30&isochrone_interval=15",
		"/isochrones?origin_point_latitude=46.95&origin_point_longitude=7.44&departure_date=June&departure_time=07:55&time_limit=30&isochrone_interval=15",
		"/isochrones?origin_point_latitude=46.95&origin_point_longitude=7.44&departure_date=2024-06-01&departure_time=07:55&time_limit=30&isochrone_interval=15&display_mode=triangles",
	} {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, url)
	}
}
