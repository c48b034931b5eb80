package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"bruinplan/internal/domain"
)

// sessionCacheSize bounds the per-session LRU so a single long-lived
// session (many planner/editor calls against the same catalog) can't grow
// memory unbounded; it is not a correctness knob.
const sessionCacheSize = 512

// Session wraps a Gateway with a per-session memoization layer: an LRU
// cache plus request collapsing via singleflight, so repeated lookups of
// the same course set within one planning session hit the catalog store
// once. The cache is scoped to one session and never shared across
// requests — callers must construct a new Session per planning/editing
// session rather than reusing one globally.
type Session struct {
	gw     Gateway
	cache  *lru.Cache[string, any]
	flight singleflight.Group
}

// NewSession wraps gw in a fresh, empty per-session cache.
func NewSession(gw Gateway) *Session {
	c, err := lru.New[string, any](sessionCacheSize)
	if err != nil {
		// Only non-nil for a non-positive size constant; never happens here.
		panic(fmt.Sprintf("catalog: session cache init: %v", err))
	}
	return &Session{gw: gw, cache: c}
}

func keysCacheKey(prefix string, keys []domain.CourseKey) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.String()
	}
	sort.Strings(parts)
	return prefix + ":" + strings.Join(parts, ",")
}

func (s *Session) LookupCourses(ctx context.Context, keys []domain.CourseKey) ([]domain.Course, error) {
	if len(keys) == 0 {
		return []domain.Course{}, nil
	}
	cacheKey := keysCacheKey("courses", keys)
	if v, ok := s.cache.Get(cacheKey); ok {
		return v.([]domain.Course), nil
	}
	v, err, _ := s.flight.Do(cacheKey, func() (any, error) {
		return s.gw.LookupCourses(ctx, keys)
	})
	if err != nil {
		return nil, err
	}
	courses := v.([]domain.Course)
	s.cache.Add(cacheKey, courses)
	return courses, nil
}

func (s *Session) SectionsFor(ctx context.Context, keys []domain.CourseKey) ([]domain.Section, error) {
	if len(keys) == 0 {
		return []domain.Section{}, nil
	}
	cacheKey := keysCacheKey("sections", keys)
	if v, ok := s.cache.Get(cacheKey); ok {
		return v.([]domain.Section), nil
	}
	v, err, _ := s.flight.Do(cacheKey, func() (any, error) {
		return s.gw.SectionsFor(ctx, keys)
	})
	if err != nil {
		return nil, err
	}
	sections := v.([]domain.Section)
	s.cache.Add(cacheKey, sections)
	return sections, nil
}

func (s *Session) Subjects(ctx context.Context) ([]domain.Subject, error) {
	const cacheKey = "subjects"
	if v, ok := s.cache.Get(cacheKey); ok {
		return v.([]domain.Subject), nil
	}
	v, err, _ := s.flight.Do(cacheKey, func() (any, error) {
		return s.gw.Subjects(ctx)
	})
	if err != nil {
		return nil, err
	}
	subjects := v.([]domain.Subject)
	s.cache.Add(cacheKey, subjects)
	return subjects, nil
}

func (s *Session) OfferingTerms(ctx context.Context, key domain.CourseKey) (map[domain.Term]bool, error) {
	cacheKey := "offering:" + key.String()
	if v, ok := s.cache.Get(cacheKey); ok {
		return v.(map[domain.Term]bool), nil
	}
	v, err, _ := s.flight.Do(cacheKey, func() (any, error) {
		return s.gw.OfferingTerms(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	terms := v.(map[domain.Term]bool)
	s.cache.Add(cacheKey, terms)
	return terms, nil
}

func (s *Session) Close() error {
	return s.gw.Close()
}
