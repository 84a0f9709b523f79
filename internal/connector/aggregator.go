package connector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/almastelek/Sourceror/internal/catalog"
	"github.com/almastelek/Sourceror/internal/events"
	"github.com/almastelek/Sourceror/internal/recommend"
)

// conditionQualifiers are stripped from titles before duplicate comparison so
// "Sony WH-1000XM5" and "Sony WH-1000XM5 Refurbished" collapse together.
var conditionQualifiers = []string{"refurbished", "renewed", "certified", "pre-owned"}

// Aggregator fans a search out to every connector, tolerates partial
// failure, and merges the results into one deduplicated pool. Merge order
// follows connector registration order, so source priority is implicit.
type Aggregator struct {
	connectors   []Connector
	maxPerSource int
	events       events.Client // nil disables failure events
	logger       *slog.Logger
}

// NewAggregator creates an aggregator over the given connectors.
func NewAggregator(connectors []Connector, maxPerSource int, ev events.Client, logger *slog.Logger) *Aggregator {
	return &Aggregator{connectors: connectors, maxPerSource: maxPerSource, events: ev, logger: logger}
}

// Fetch queries all connectors concurrently and returns the deduplicated
// supply. A failing source contributes an error string instead of aborting:
// the engine still runs on whatever the healthy sources returned, and an
// all-sources-failed result is simply an empty pool.
func (a *Aggregator) Fetch(ctx context.Context, spec *catalog.DecisionSpec) recommend.Supply {
	results := make([][]catalog.Listing, len(a.connectors))
	fetchErrs := make([]error, len(a.connectors))

	var g errgroup.Group
	for i, c := range a.connectors {
		i, c := i, c
		g.Go(func() error {
			listings, err := c.Search(ctx, spec.Query, spec.Category, a.maxPerSource)
			results[i] = listings
			fetchErrs[i] = err
			return nil // partial failure is tolerated, never propagated
		})
	}
	_ = g.Wait()

	supply := recommend.Supply{}
	var merged []catalog.Listing
	for i, c := range a.connectors {
		if fetchErrs[i] != nil {
			a.logger.Warn("source fetch failed", "source", c.SourceName(), "error", fetchErrs[i])
			supply.Errors = append(supply.Errors, fmt.Sprintf("%s error: %v", c.SourceName(), fetchErrs[i]))
			a.publishFetchFailed(c.SourceName(), fetchErrs[i])
			continue
		}
		if len(results[i]) > 0 {
			merged = append(merged, results[i]...)
			supply.SourcesUsed = append(supply.SourcesUsed, c.SourceName())
		}
	}

	supply.Listings = Deduplicate(merged)
	a.logger.Info("candidates fetched",
		"sources", supply.SourcesUsed,
		"fetched", len(merged),
		"after_dedup", len(supply.Listings),
	)
	return supply
}

func (a *Aggregator) publishFetchFailed(source string, fetchErr error) {
	if a.events == nil {
		return
	}
	evt := events.FetchFailedEvent{
		Source:    source,
		Error:     fetchErr.Error(),
		Timestamp: time.Now().UTC(),
	}
	if err := a.events.Publish(events.SubjectFetchFailed(source), evt); err != nil {
		a.logger.Warn("failed to publish fetch event", "source", source, "error", err)
	}
}

// Deduplicate drops listings whose normalized titles collide. First
// occurrence wins, preserving source priority from the merge order.
func Deduplicate(listings []catalog.Listing) []catalog.Listing {
	seen := make(map[string]bool, len(listings))
	unique := make([]catalog.Listing, 0, len(listings))
	for _, l := range listings {
		key := normalizeTitle(l.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, l)
	}
	return unique
}

func normalizeTitle(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	for _, q := range conditionQualifiers {
		t = strings.ReplaceAll(t, q, "")
	}
	return strings.Join(strings.Fields(t), " ")
}
