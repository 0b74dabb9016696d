package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mgnrega-api/internal/config"
	"mgnrega-api/internal/geocode"
	"mgnrega-api/internal/leaderboard"
	"mgnrega-api/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { logger.Set(logger.Discard()) }

type locatorFunc func(ctx context.Context, c geocode.Coordinate) (geocode.Result, error)

func (f locatorFunc) Resolve(ctx context.Context, c geocode.Coordinate) (geocode.Result, error) {
	return f(ctx, c)
}

type fakeBoards struct {
	rows       []leaderboard.Record
	err        error
	gotState   string
	gotFinYear string
}

func (f *fakeBoards) Board(_ context.Context, state, finYear string) (string, *leaderboard.Board, error) {
	f.gotState, f.gotFinYear = state, finYear
	if f.err != nil {
		return "", nil, f.err
	}
	if finYear == "" {
		finYear = "2024-2025"
	}
	return finYear, leaderboard.Build(f.rows), nil
}

var sampleRows = []leaderboard.Record{
	{District: "PUNE", TotalPersonDays: 1000, TotalExpenditure: 1000},
	{District: "CHHATRAPATI SAMBHAJINAGAR", TotalPersonDays: 800, TotalExpenditure: 700},
	{District: "KOLHAPUR", TotalPersonDays: 600, TotalExpenditure: 500},
	{District: "WASHIM", TotalPersonDays: 100, TotalExpenditure: 50},
}

func newTestServer(t *testing.T, loc geocode.Locator, boards BoardSource) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(BuildRoutes(Deps{Geo: loc, Leaderboard: boards, Region: "Maharashtra"}))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestGeoResolveOK(t *testing.T) {
	loc := locatorFunc(func(_ context.Context, c geocode.Coordinate) (geocode.Result, error) {
		return geocode.Result{State: "Maharashtra", District: "PUNE", Country: "India", Coordinates: c, Provider: "google", Accuracy: "ROOFTOP"}, nil
	})
	srv := newTestServer(t, loc, &fakeBoards{})

	var body map[string]any
	code := getJSON(t, srv.URL+"/geo/resolve?lat=18.52&lon=73.85", &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "PUNE", body["district"])
	assert.Equal(t, "google", body["provider"])
	assert.Equal(t, true, body["inRegion"])
	assert.Equal(t, 18.52, body["coordinates"].(map[string]any)["lat"])
}

func TestGeoResolveBadCoordinate(t *testing.T) {
	called := false
	loc := locatorFunc(func(context.Context, geocode.Coordinate) (geocode.Result, error) {
		called = true
		return geocode.Result{}, nil
	})
	srv := newTestServer(t, loc, &fakeBoards{})
	for _, q := range []string{"", "?lat=abc&lon=73", "?lat=91&lon=73", "?lat=18&lon=-181", "?lat=18"} {
		var body errorBody
		code := getJSON(t, srv.URL+"/geo/resolve"+q, &body)
		assert.Equal(t, http.StatusBadRequest, code, q)
		assert.Equal(t, "invalid_coordinate", body.Error)
	}
	assert.False(t, called)
}

func TestGeoResolveExhausted(t *testing.T) {
	loc := locatorFunc(func(_ context.Context, c geocode.Coordinate) (geocode.Result, error) {
		return geocode.Result{}, &geocode.ExhaustedError{Coordinate: c, Attempts: []geocode.Attempt{
			{Provider: "google", Outcome: geocode.OutcomeSkipped, Reason: "unconfigured"},
			{Provider: "nominatim", Outcome: geocode.OutcomeTimeout, Reason: "nominatim: provider timeout"},
		}}
	})
	srv := newTestServer(t, loc, &fakeBoards{})

	var body struct {
		Error    string `json:"error"`
		Attempts []struct {
			Provider string `json:"provider"`
			Outcome  string `json:"outcome"`
		} `json:"attempts"`
	}
	code := getJSON(t, srv.URL+"/geo/resolve?lat=18.52&lon=73.85", &body)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "location_undetermined", body.Error)
	require.Len(t, body.Attempts, 2)
	assert.Equal(t, "skipped", body.Attempts[0].Outcome)
	assert.Equal(t, "timeout", body.Attempts[1].Outcome)
}

func TestGeoResolveExhaustedHidesProviderKey(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	endpoint := down.URL
	down.Close()

	google := geocode.NewGoogle(config.Provider{
		Name:       "google",
		Endpoint:   endpoint,
		Credential: config.ParseCredential("AIzaSECRETKEY123"),
		Timeout:    2 * time.Second,
	}, "Maharashtra", nil)
	srv := newTestServer(t, geocode.NewResolver("Maharashtra", nil, google), &fakeBoards{})

	resp, err := http.Get(srv.URL + "/geo/resolve?lat=18.52&lon=73.85")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(raw), `"outcome":"http_error"`)
	assert.NotContains(t, string(raw), "AIzaSECRETKEY123")
}

func TestGeoResolveInternalError(t *testing.T) {
	loc := locatorFunc(func(context.Context, geocode.Coordinate) (geocode.Result, error) {
		return geocode.Result{}, errors.New("boom")
	})
	srv := newTestServer(t, loc, &fakeBoards{})
	assert.Equal(t, http.StatusInternalServerError, getJSON(t, srv.URL+"/geo/resolve?lat=1&lon=1", nil))
}

func TestGeoRateLimitHook(t *testing.T) {
	blocked := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusTooManyRequests, "rate_limited", "")
		})
	}
	srv := httptest.NewServer(BuildRoutes(Deps{Geo: locatorFunc(nil), Leaderboard: &fakeBoards{rows: sampleRows}, Region: "Maharashtra", GeoLimit: blocked}))
	defer srv.Close()
	assert.Equal(t, http.StatusTooManyRequests, getJSON(t, srv.URL+"/geo/resolve?lat=1&lon=1", nil))
	// 排行榜不受 /geo 限流影响
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/leaderboard", nil))
}

func TestLeaderboardFull(t *testing.T) {
	fb := &fakeBoards{rows: sampleRows}
	srv := newTestServer(t, nil, fb)

	var body boardResponse
	code := getJSON(t, srv.URL+"/leaderboard?fin_year=2023-2024", &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Maharashtra", fb.gotState)
	assert.Equal(t, "2023-2024", body.FinYear)
	assert.Equal(t, 4, body.Count)
	assert.Equal(t, "PUNE", body.Entries[0].District)
	assert.Equal(t, 1, body.Entries[0].Rank)
}

func TestLeaderboardTop(t *testing.T) {
	srv := newTestServer(t, nil, &fakeBoards{rows: sampleRows})

	var body boardResponse
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/leaderboard/top?n=2", &body))
	require.Len(t, body.Entries, 2)
	assert.Equal(t, "CHHATRAPATI SAMBHAJINAGAR", body.Entries[1].District)

	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/leaderboard/top?n=100", &body))
	assert.Equal(t, 4, body.Count)

	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/leaderboard/top?n=two", nil))
}

func TestLeaderboardCategory(t *testing.T) {
	srv := newTestServer(t, nil, &fakeBoards{rows: sampleRows})

	var body boardResponse
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/leaderboard/category?name=needs_improvement", &body))
	require.Len(t, body.Entries, 1)
	assert.Equal(t, "WASHIM", body.Entries[0].District)

	var eb errorBody
	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/leaderboard/category?name=stellar", &eb))
	assert.Equal(t, "unknown_category", eb.Error)
}

func TestLeaderboardDistrict(t *testing.T) {
	srv := newTestServer(t, nil, &fakeBoards{rows: sampleRows})

	cases := []struct {
		query    string
		code     int
		district string
		rank     float64
	}{
		{"name=pune", http.StatusOK, "PUNE", 1},
		{"name=Aurangabad", http.StatusOK, "CHHATRAPATI SAMBHAJINAGAR", 2},
		{"name=Kolhapur%20District", http.StatusOK, "KOLHAPUR", 3},
	}
	for _, tc := range cases {
		var body map[string]any
		code := getJSON(t, srv.URL+"/leaderboard/district?"+tc.query, &body)
		assert.Equal(t, tc.code, code, tc.query)
		assert.Equal(t, tc.district, body["districtName"], tc.query)
		assert.Equal(t, tc.rank, body["rank"], tc.query)
	}
}

func TestLeaderboardDistrictNotRanked(t *testing.T) {
	srv := newTestServer(t, nil, &fakeBoards{rows: sampleRows})

	var body notRankedBody
	code := getJSON(t, srv.URL+"/leaderboard/district?name=Kolhapr", &body)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "district_not_ranked", body.Error)
	require.NotNil(t, body.Suggestion)
	assert.Equal(t, "KOLHAPUR", *body.Suggestion)

	var raw map[string]any
	code = getJSON(t, srv.URL+"/leaderboard/district?name=Unknown%20District", &raw)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Nil(t, raw["suggestion"])

	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/leaderboard/district", nil))
}

func TestLeaderboardErrors(t *testing.T) {
	srv := newTestServer(t, nil, &fakeBoards{err: fmt.Errorf("%w for Goa", leaderboard.ErrNoFinancialYear)})
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/leaderboard?state=Goa", nil))

	srv2 := newTestServer(t, nil, &fakeBoards{err: errors.New("pq: connection refused")})
	var eb errorBody
	assert.Equal(t, http.StatusServiceUnavailable, getJSON(t, srv2.URL+"/leaderboard", &eb))
	assert.Equal(t, "leaderboard_unavailable", eb.Error)
}

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(BuildRoutes(Deps{Region: "Maharashtra", DB: pingerFunc(func(context.Context) error { return errors.New("down") })}))
	defer srv.Close()
	var body map[string]any
	assert.Equal(t, http.StatusServiceUnavailable, getJSON(t, srv.URL+"/health", &body))
	assert.Equal(t, "degraded", body["status"])
}
