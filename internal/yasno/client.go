// Package yasno fetches planned-outage schedules from the public YASNO
// blackout API and normalizes them into the canonical model shapes.
package yasno

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/svitlo-tech/svitlo-tracker/internal/model"
	"github.com/svitlo-tech/svitlo-tracker/internal/redis"
	"github.com/svitlo-tech/svitlo-tracker/internal/timeutil"
)

const plannedOutagesURL = "https://app.yasno.ua/api/blackout-service/public/shutdowns/regions/%d/dsos/%d/planned-outages"

// cacheTTL matches the provider's own publish cadence.
const cacheTTL = 5 * time.Minute

// Region describes one operator: a provider region/DSO identifier pair.
type Region struct {
	Code     string
	Name     string
	Region   string
	RegionID int
	DsoID    int
}

// DefaultRegions are the two operators the product serves.
var DefaultRegions = []Region{
	{Code: "yasno-kyiv", Name: "YASNO Київ", Region: "Київ", RegionID: 25, DsoID: 902},
	{Code: "yasno-dnipro", Name: "YASNO Дніпро", Region: "Дніпро", RegionID: 3, DsoID: 301},
}

// RegionNames maps operator codes to the short region name used in
// user-facing texts.
func RegionNames(regions []Region) map[string]string {
	names := make(map[string]string, len(regions))
	for _, r := range regions {
		names[r.Code] = r.Region
	}
	return names
}

// slotDefinite marks slots that are actual planned outages; NotPlanned
// slots are "might be affected" windows the product does not surface.
const slotDefinite = "Definite"

type rawSlot struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Type  string `json:"type"`
}

type rawDay struct {
	Date   string    `json:"date"`
	Status string    `json:"status"`
	Slots  []rawSlot `json:"slots"`
}

type rawGroup struct {
	Today    *rawDay `json:"today"`
	Tomorrow *rawDay `json:"tomorrow"`
}

// Client talks to the YASNO API. Construct once at startup and inject.
type Client struct {
	http    *http.Client
	regions []Region
	baseURL string // overridable in tests
}

// New returns a Client for the given regions with a bounded request timeout.
func New(regions []Region) *Client {
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		regions: regions,
		baseURL: plannedOutagesURL,
	}
}

// Aggregate is the result of fetching every configured region.
// NoOutages is true iff no queue anywhere has outages today or tomorrow;
// it never suppresses emergency or waiting statuses.
type Aggregate struct {
	Operators []model.OperatorSchedule `json:"operators"`
	NoOutages bool                     `json:"no_outages"`
}

// FetchAll fetches every region concurrently. A single region failing is
// logged and dropped; the aggregate contains only the regions that
// succeeded. FetchAll itself errors only on a broken context.
func (c *Client) FetchAll(ctx context.Context) (Aggregate, error) {
	results := make([]*model.OperatorSchedule, len(c.regions))

	g, gctx := errgroup.WithContext(ctx)
	for i, region := range c.regions {
		g.Go(func() error {
			op, err := c.fetchRegion(gctx, region)
			if err != nil {
				log.Error().Err(err).Str("operator", region.Code).Msg("failed to fetch region schedule")
				return nil
			}
			results[i] = op
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Aggregate{}, err
	}

	agg := Aggregate{NoOutages: true}
	for _, op := range results {
		if op == nil {
			continue
		}
		agg.Operators = append(agg.Operators, *op)
		if op.HasOutages() {
			agg.NoOutages = false
		}
	}
	if agg.NoOutages {
		log.Info().Msg("no outages scheduled in any region")
	}
	return agg, nil
}

// fetchRegion loads one region's schedule, consulting the cache first.
func (c *Client) fetchRegion(ctx context.Context, region Region) (*model.OperatorSchedule, error) {
	cacheKey := "yasno:planned:" + region.Code

	var cached model.OperatorSchedule
	if redis.GetJSON(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	url := fmt.Sprintf(c.baseURL, region.RegionID, region.DsoID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "SvitloTracker/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", region.Code, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", region.Code, resp.StatusCode)
	}

	var payload map[string]rawGroup
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode %s: %w", region.Code, err)
	}

	op := normalizeOperator(region, payload, time.Now())
	redis.SetJSON(ctx, cacheKey, op, cacheTTL)
	return op, nil
}

// normalizeOperator converts a raw provider payload into the canonical
// OperatorSchedule. Group keys are queue numbers like "1.1", "3.2".
func normalizeOperator(region Region, payload map[string]rawGroup, now time.Time) *model.OperatorSchedule {
	queues := make(map[string]model.QueueSchedule, len(payload))
	for groupKey, group := range payload {
		queues[groupKey] = model.QueueSchedule{
			QueueNumber: groupKey,
			Today:       normalizeDay(group.Today, now),
			Tomorrow:    normalizeDay(group.Tomorrow, now),
		}
	}
	return &model.OperatorSchedule{
		OperatorCode: region.Code,
		OperatorName: region.Name,
		Region:       region.Region,
		Queues:       queues,
		LastUpdated:  now.UTC().Format(time.RFC3339),
	}
}

// normalizeDay turns one raw day into a DaySchedule. An absent day payload
// yields an empty schedule dated to the fetch instant with no status, which
// is distinct from an explicit WaitingForSchedule.
func normalizeDay(day *rawDay, now time.Time) model.DaySchedule {
	if day == nil {
		return model.DaySchedule{
			Date:    timeutil.DateString(now),
			Outages: []model.Outage{},
		}
	}

	date := day.Date
	if idx := strings.IndexByte(date, 'T'); idx >= 0 {
		date = date[:idx]
	}
	if date == "" {
		date = timeutil.DateString(now)
	}

	return model.DaySchedule{
		Date:    date,
		Outages: slotsToOutages(day.Slots),
		Status:  model.ScheduleStatus(day.Status),
	}
}

// slotsToOutages keeps only Definite slots, in original relative order.
func slotsToOutages(slots []rawSlot) []model.Outage {
	outages := make([]model.Outage, 0, len(slots))
	for _, slot := range slots {
		if slot.Type != slotDefinite {
			continue
		}
		outages = append(outages, model.Outage{
			StartTime:   timeutil.MinutesToClock(slot.Start),
			EndTime:     timeutil.MinutesToClock(slot.End),
			Type:        model.OutageTypePlanned,
			IsConfirmed: true,
			Status:      model.OutageStatusScheduled,
		})
	}
	return outages
}
