package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/PYAG1/scheduling-agent/internal/instrumentation"
)

// Lister lists the events of a calendar in a time range.
type Lister interface {
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, maxResults int64) ([]EventSummary, error)
}

// CachedSource memoizes ListEvents results for a short TTL so repeated
// schedule lookups within one conversation do not hit the API each time.
type CachedSource struct {
	next    Lister
	cache   *gocache.Cache
	metrics *instrumentation.Metrics
}

// NewCachedSource wraps next with a cache whose entries live for ttl.
// A non-positive ttl disables caching.
func NewCachedSource(next Lister, ttl time.Duration, metrics *instrumentation.Metrics) *CachedSource {
	cs := &CachedSource{next: next, metrics: metrics}
	if ttl > 0 {
		cs.cache = gocache.New(ttl, 2*ttl)
	}
	return cs
}

// ListEvents returns the cached result for the same query, or fetches and
// caches it. Errors are never cached.
func (s *CachedSource) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, maxResults int64) ([]EventSummary, error) {
	if s.cache == nil {
		return s.next.ListEvents(ctx, calendarID, timeMin, timeMax, maxResults)
	}

	key := cacheKey(calendarID, timeMin, timeMax, maxResults)
	if v, ok := s.cache.Get(key); ok {
		s.metrics.RecordCacheLookup(ctx, true)
		return cloneSummaries(v.([]EventSummary)), nil
	}
	s.metrics.RecordCacheLookup(ctx, false)

	events, err := s.next.ListEvents(ctx, calendarID, timeMin, timeMax, maxResults)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, cloneSummaries(events))
	return events, nil
}

// Invalidate drops every cached listing of calendarID. It is called after
// an event is created on that calendar.
func (s *CachedSource) Invalidate(calendarID string) {
	if s.cache == nil {
		return
	}
	prefix := calendarID + "|"
	for key := range s.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			s.cache.Delete(key)
		}
	}
}

func cacheKey(calendarID string, timeMin, timeMax time.Time, maxResults int64) string {
	return fmt.Sprintf("%s|%d|%d|%d", calendarID, timeMin.Unix(), timeMax.Unix(), maxResults)
}

func cloneSummaries(in []EventSummary) []EventSummary {
	if in == nil {
		return nil
	}
	out := make([]EventSummary, len(in))
	copy(out, in)
	return out
}
