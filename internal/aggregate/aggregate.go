// Package aggregate turns a category's entries into the ordered listing a
// page shows: filter, newest-first sort, and an optional manifest cap.
package aggregate

import (
	"context"
	"slices"
	"time"

	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/metrics"
	"github.com/starford/folio/internal/models"
)

// Policy is the per-page combination of category, filter and count cap.
type Policy struct {
	Name     string
	Category models.Category
	// Limit caps the manifest before any document is fetched. Zero means
	// no cap. The cap is applied in manifest order, not date order.
	Limit int
	// FeaturedOnly keeps entries whose featured field is exactly "true".
	FeaturedOnly bool
}

// Keep reports whether e passes the policy filter.
func (p Policy) Keep(e *models.Entry) bool {
	if e == nil {
		return false
	}
	if p.FeaturedOnly && !e.Featured() {
		return false
	}
	return true
}

// Result is the outcome of one aggregation pass.
type Result struct {
	Policy  Policy
	Entries []*models.Entry
	// Empty signals that the presenter should show its placeholder.
	Empty bool
}

// Aggregate filters and sorts raw entries under p. Nil entries are always
// dropped. The sort is stable and newest first; entries without a valid
// date follow every dated entry.
func Aggregate(raw []*models.Entry, p Policy) []*models.Entry {
	out := make([]*models.Entry, 0, len(raw))
	for _, e := range raw {
		if p.Keep(e) {
			out = append(out, e)
		}
	}
	SortByDate(out)
	return out
}

// SortByDate stable-sorts entries newest first, undated last.
func SortByDate(entries []*models.Entry) {
	type keyed struct {
		e  *models.Entry
		t  time.Time
		ok bool
	}
	ks := make([]keyed, len(entries))
	for i, e := range entries {
		t, ok := e.Date()
		ks[i] = keyed{e: e, t: t, ok: ok}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		switch {
		case a.ok && !b.ok:
			return -1
		case !a.ok && b.ok:
			return 1
		case !a.ok && !b.ok:
			return 0
		}
		return b.t.Compare(a.t)
	})
	for i, k := range ks {
		entries[i] = k.e
	}
}

// Aggregator runs the fetch-parse-aggregate cycle for a policy.
type Aggregator struct {
	fetcher  *content.Fetcher
	recorder metrics.Recorder
}

// New creates an Aggregator. A nil recorder disables metrics.
func New(fetcher *content.Fetcher, recorder metrics.Recorder) *Aggregator {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Aggregator{fetcher: fetcher, recorder: recorder}
}

// Collect lists the policy category, truncates the manifest to the policy
// limit, fetches the remaining documents concurrently and aggregates them.
// Every call is a fresh pass; nothing is cached.
func (a *Aggregator) Collect(ctx context.Context, p Policy) Result {
	start := time.Now()

	names := a.fetcher.ListCategory(ctx, p.Category)
	if p.Limit > 0 && len(names) > p.Limit {
		names = names[:p.Limit]
	}

	var entries []*models.Entry
	if len(names) > 0 {
		entries = Aggregate(a.fetcher.LoadAll(ctx, p.Category, names), p)
	} else {
		entries = []*models.Entry{}
	}

	a.recorder.ObserveAggregation(p.Name, time.Since(start), len(entries))
	return Result{Policy: p, Entries: entries, Empty: len(entries) == 0}
}
