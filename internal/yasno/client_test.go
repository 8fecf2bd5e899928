package yasno

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svitlo-tech/svitlo-tracker/internal/model"
)

var testRegions = []Region{
	{Code: "yasno-kyiv", Name: "YASNO Київ", Region: "Київ", RegionID: 25, DsoID: 902},
	{Code: "yasno-dnipro", Name: "YASNO Дніпро", Region: "Дніпро", RegionID: 3, DsoID: 301},
}

// newTestClient points a Client at a fake provider. The server sees the
// region id as the first path-ish format argument.
func newTestClient(serverURL string, regions []Region) *Client {
	c := New(regions)
	c.baseURL = serverURL + "/regions/%d/dsos/%d"
	return c
}

func TestSlotsToOutages_DefiniteOnly(t *testing.T) {
	slots := []rawSlot{
		{Start: 240, End: 480, Type: "Definite"},
		{Start: 600, End: 720, Type: "NotPlanned"},
		{Start: 840, End: 960, Type: "Definite"},
	}

	outages := slotsToOutages(slots)

	require.Len(t, outages, 2)
	// relative order preserved
	assert.Equal(t, "04:00", outages[0].StartTime)
	assert.Equal(t, "08:00", outages[0].EndTime)
	assert.Equal(t, "14:00", outages[1].StartTime)
	assert.Equal(t, "16:00", outages[1].EndTime)
	for _, o := range outages {
		assert.True(t, o.IsConfirmed)
		assert.Equal(t, model.OutageTypePlanned, o.Type)
		assert.Equal(t, model.OutageStatusScheduled, o.Status)
	}
}

func TestNormalizeDay(t *testing.T) {
	now := time.Date(2026, time.January, 11, 10, 0, 0, 0, time.UTC)

	t.Run("definite slot becomes outage", func(t *testing.T) {
		day := normalizeDay(&rawDay{
			Date:   "2026-01-11T00:00:00Z",
			Status: "ScheduleApplies",
			Slots:  []rawSlot{{Start: 240, End: 480, Type: "Definite"}},
		}, now)

		assert.Equal(t, "2026-01-11", day.Date)
		assert.Equal(t, model.ScheduleApplies, day.Status)
		require.Len(t, day.Outages, 1)
		assert.Equal(t, "04:00", day.Outages[0].StartTime)
		assert.Equal(t, "08:00", day.Outages[0].EndTime)
	})

	t.Run("absent day payload has no status", func(t *testing.T) {
		day := normalizeDay(nil, now)
		assert.Equal(t, "2026-01-11", day.Date)
		assert.Empty(t, day.Outages)
		assert.Empty(t, day.Status)
	})

	t.Run("waiting day keeps its explicit status", func(t *testing.T) {
		day := normalizeDay(&rawDay{Date: "2026-01-12", Status: "WaitingForSchedule"}, now)
		assert.Equal(t, model.WaitingForSchedule, day.Status)
		assert.Empty(t, day.Outages)
	})

	t.Run("missing slots degrade to empty schedule", func(t *testing.T) {
		day := normalizeDay(&rawDay{Date: "2026-01-11", Status: "ScheduleApplies"}, now)
		assert.Empty(t, day.Outages)
	})
}

func TestFetchAll_PartialFailure(t *testing.T) {
	payload := map[string]rawGroup{
		"1.1": {
			Today: &rawDay{
				Date:   "2026-01-11",
				Status: "ScheduleApplies",
				Slots:  []rawSlot{{Start: 240, End: 480, Type: "Definite"}},
			},
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// region 25 (kyiv) succeeds, region 3 (dnipro) is down
		if r.URL.Path == "/regions/25/dsos/902" {
			_ = json.NewEncoder(w).Encode(payload)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	agg, err := newTestClient(srv.URL, testRegions).FetchAll(context.Background())
	require.NoError(t, err)

	require.Len(t, agg.Operators, 1)
	assert.Equal(t, "yasno-kyiv", agg.Operators[0].OperatorCode)
	// noOutages is computed only from the operators that succeeded
	assert.False(t, agg.NoOutages)
}

func TestFetchAll_NoOutagesAnywhere(t *testing.T) {
	payload := map[string]rawGroup{
		"1.1": {Today: &rawDay{Date: "2026-01-11", Status: "ScheduleApplies"}},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	agg, err := newTestClient(srv.URL, testRegions).FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, agg.Operators, 2)
	assert.True(t, agg.NoOutages)
}

func TestFetchAll_MalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	agg, err := newTestClient(srv.URL, testRegions).FetchAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, agg.Operators)
	assert.True(t, agg.NoOutages)
}
