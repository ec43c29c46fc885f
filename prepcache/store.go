package prepcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/prepdeck/appcore/blob"
	"github.com/prepdeck/appcore/gateway"
	"github.com/prepdeck/appcore/observe"
)

// Sentinel errors for store operations.
var (
	// ErrPrimaryFetch is returned when the primary prep fetch fails; the
	// underlying gateway message is attached.
	ErrPrimaryFetch = errors.New("prepcache: primary fetch failed")

	// ErrBadPayload is returned when the primary response is missing the
	// prep id or overview document.
	ErrBadPayload = errors.New("prepcache: malformed primary payload")
)

// DefaultSnapshotKey is the blob store key the entry map is persisted under.
const DefaultSnapshotKey = "prepcache:snapshot"

// Gateway is the outbound-call surface the store consumes. Satisfied by
// *gateway.Client.
type Gateway interface {
	Execute(ctx context.Context, method, endpointPath string, opts ...gateway.RequestOption) (gateway.Result, error)
}

// Store is a read-through cache of preps keyed by tailored-resume id.
//
// A hit returns the cached entry immediately, however partially
// enriched; there is no TTL and no staleness check. A miss fetches the
// primary overview, makes the partial entry visible at once, and starts
// the eight-way enrichment fan-out in the background. The entry map is
// persisted write-through on every mutation and restored on init;
// loading flags are transient and always start false after a restart.
type Store struct {
	gw          Gateway
	backend     blob.Store
	snapshotKey string
	logger      observe.Logger
	metrics     observe.Metrics

	mu         sync.RWMutex
	entries    map[int]*Prep
	loading    bool
	catLoading [numCategories]bool

	// persistMu orders snapshot writes; see persist.
	persistMu sync.Mutex

	enriching sync.WaitGroup
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithBackend sets the persistence backend. Default: in-memory (no
// persistence across restarts).
func WithBackend(backend blob.Store) StoreOption {
	return func(s *Store) {
		s.backend = backend
	}
}

// WithSnapshotKey overrides the blob store key for the persisted entry map.
func WithSnapshotKey(key string) StoreOption {
	return func(s *Store) {
		s.snapshotKey = key
	}
}

// WithLogger attaches a structured logger.
func WithLogger(l observe.Logger) StoreOption {
	return func(s *Store) {
		s.logger = l
	}
}

// WithMetrics attaches cache metrics.
func WithMetrics(m observe.Metrics) StoreOption {
	return func(s *Store) {
		s.metrics = m
	}
}

// NewStore creates a prep cache over the given gateway.
func NewStore(gw Gateway, opts ...StoreOption) *Store {
	s := &Store{
		gw:          gw,
		snapshotKey: DefaultSnapshotKey,
		entries:     make(map[int]*Prep),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.backend == nil {
		s.backend = blob.NewMemoryStore()
	}
	if s.logger == nil {
		s.logger = observe.NopLogger()
	}
	if s.metrics == nil {
		s.metrics = observe.NopMetrics()
	}
	return s
}

// Restore reloads the persisted entry map. Call once at startup, before
// serving reads. Loading flags are not persisted: nothing can be in
// flight across a restart.
func (s *Store) Restore(ctx context.Context) error {
	data, ok, err := s.backend.Get(ctx, s.snapshotKey)
	if err != nil {
		return fmt.Errorf("prepcache: restore: %w", err)
	}
	if !ok {
		return nil
	}

	entries := make(map[int]*Prep)
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("prepcache: restore: decode snapshot: %w", err)
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

// Get returns the prep cached under resumeID, fetching it on a miss.
// A hit is served without any network access, even when enrichment is
// still filling slots in. On a miss the returned entry is partial; the
// enrichment fan-out proceeds in the background.
func (s *Store) Get(ctx context.Context, resumeID int) (*Prep, error) {
	s.mu.RLock()
	entry, ok := s.entries[resumeID]
	s.mu.RUnlock()

	if ok {
		s.metrics.RecordCacheLookup(ctx, true)
		return entry, nil
	}
	s.metrics.RecordCacheLookup(ctx, false)

	return s.fetch(ctx, resumeID)
}

// Regenerate fetches a fresh prep for resumeID regardless of cache
// state, replacing any existing entry. Enrichment still in flight for
// the replaced generation is dropped when it tries to merge.
func (s *Store) Regenerate(ctx context.Context, resumeID int) (*Prep, error) {
	return s.fetch(ctx, resumeID)
}

// Delete removes the entry for resumeID. Enrichment fetches already in
// flight for the deleted entry will find it gone and drop their results.
func (s *Store) Delete(ctx context.Context, resumeID int) error {
	s.mu.Lock()
	delete(s.entries, resumeID)
	s.mu.Unlock()

	return s.persist(ctx)
}

// ClearAll empties the entire entry map.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	s.entries = make(map[int]*Prep)
	s.mu.Unlock()

	return s.persist(ctx)
}

// Loading reports whether a primary fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// CategoryLoading reports whether the enrichment fetch for one category
// is in flight.
func (s *Store) CategoryLoading(c Category) bool {
	if c < 0 || c >= numCategories {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catLoading[c]
}

// Wait blocks until all in-flight enrichment activity has settled. The
// fan-out is finished only when all eight categories have succeeded or
// failed independently.
func (s *Store) Wait() {
	s.enriching.Wait()
}

// fetch runs the miss path: primary fetch, insert, background fan-out.
func (s *Store) fetch(ctx context.Context, resumeID int) (*Prep, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	res, err := s.gw.Execute(ctx, http.MethodGet, fmt.Sprintf("/interview-preps/by-resume/%d", resumeID))
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, fmt.Errorf("%w: %s", ErrPrimaryFetch, res.Error)
	}

	doc, ok := res.Data.(map[string]any)
	if !ok {
		return nil, ErrBadPayload
	}
	prepID, ok := asInt(doc["prepId"])
	if !ok {
		return nil, ErrBadPayload
	}
	overview, ok := doc["overview"].(map[string]any)
	if !ok {
		return nil, ErrBadPayload
	}

	entry := &Prep{
		PrepID:   prepID,
		ResumeID: resumeID,
		Overview: overview,
		CachedAt: time.Now(),
	}

	s.mu.Lock()
	s.entries[resumeID] = entry
	s.mu.Unlock()

	if err := s.persist(ctx); err != nil {
		s.logger.Warn(ctx, "snapshot persist failed", observe.Field{Key: "error", Value: err.Error()})
	}

	// The fan-out outlives the caller's request context: a screen
	// navigating away must not cancel enrichment of the entry it
	// created.
	s.startEnrichment(context.WithoutCancel(ctx), resumeID, prepID)

	return entry, nil
}

// startEnrichment launches the eight category fetches concurrently.
// Each is contained: one category's failure never cancels or blocks the
// others.
func (s *Store) startEnrichment(ctx context.Context, resumeID, prepID int) {
	s.enriching.Add(1)
	go func() {
		defer s.enriching.Done()

		var g errgroup.Group
		for _, cat := range Categories() {
			g.Go(func() error {
				s.enrichOne(ctx, resumeID, prepID, cat)
				return nil
			})
		}
		g.Wait()
	}()
}

// enrichOne fetches one category and merges the result into the latest
// entry. Failures are terminal for the slot until the next Regenerate
// and never surface to Get/Regenerate callers.
func (s *Store) enrichOne(ctx context.Context, resumeID, prepID int, cat Category) {
	s.setCategoryLoading(cat, true)
	defer s.setCategoryLoading(cat, false)

	doc, err := s.fetchCategory(ctx, prepID, cat)
	if err != nil {
		s.metrics.RecordEnrichmentFailure(ctx, cat.String())
		s.logger.Warn(ctx, "enrichment fetch failed",
			observe.Field{Key: "category", Value: cat.String()},
			observe.Field{Key: "resume_id", Value: resumeID},
			observe.Field{Key: "error", Value: err.Error()},
		)
		return
	}

	s.mu.Lock()
	merged := apply(s.entries, slotUpdate{resumeID: resumeID, prepID: prepID, category: cat, document: doc})
	s.mu.Unlock()

	if !merged {
		// Entry deleted or regenerated while the fetch was in flight.
		s.logger.Debug(ctx, "enrichment result dropped",
			observe.Field{Key: "category", Value: cat.String()},
			observe.Field{Key: "resume_id", Value: resumeID},
		)
		return
	}

	if err := s.persist(ctx); err != nil {
		s.logger.Warn(ctx, "snapshot persist failed", observe.Field{Key: "error", Value: err.Error()})
	}
}

// fetchCategory calls one enrichment endpoint and unwraps its
// {success, data} body.
func (s *Store) fetchCategory(ctx context.Context, prepID int, cat Category) (map[string]any, error) {
	res, err := s.gw.Execute(ctx, http.MethodGet, cat.endpointPath(prepID))
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, errors.New(res.Error)
	}

	body, ok := res.Data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("prepcache: malformed %s response", cat)
	}
	if success, _ := body["success"].(bool); !success {
		return nil, fmt.Errorf("prepcache: %s endpoint reported failure", cat)
	}
	doc, ok := body["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("prepcache: %s response missing data", cat)
	}
	return doc, nil
}

// persist writes the whole entry map through to the backend. Marshal
// and backend write happen together under persistMu: if a snapshot
// captured earlier could commit after a later one, a slow writer would
// reinstate state a Delete already persisted away. The entry lock is
// held only for the marshal.
func (s *Store) persist(ctx context.Context) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.RLock()
	data, err := json.Marshal(s.entries)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("prepcache: encode snapshot: %w", err)
	}

	return s.backend.Set(ctx, s.snapshotKey, data)
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Store) setCategoryLoading(c Category, v bool) {
	s.mu.Lock()
	s.catLoading[c] = v
	s.mu.Unlock()
}

// asInt coerces a decoded JSON number to int.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}
