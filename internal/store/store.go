package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

const (
	// DefaultPageSize is used when a List call passes limit <= 0.
	DefaultPageSize = 20
	// MaxPageSize caps a single List call.
	MaxPageSize = 100
)

// Options configures a Collection.
type Options struct {
	// PageSize is the default List limit; DefaultPageSize when zero.
	PageSize int
	// MaxPageSize caps List limits; MaxPageSize when zero.
	MaxPageSize int
	// Logger receives corruption and snapshot diagnostics.
	Logger zerolog.Logger
	// Snapshotter, when non-nil, persists the collection after mutations
	// and restores it at startup. The in-memory state stays authoritative.
	Snapshotter *Snapshotter
}

// Page is one List result.
type Page[R Record] struct {
	Items []R     `json:"items"`
	Next  *string `json:"next"`
}

type orderEntry struct {
	seq uint64
	id  string
}

// Collection is a generic ordered key/value store over records of type R.
// Records are kept in insertion order under monotonically increasing
// sequence numbers; deletes never renumber survivors, which is what keeps
// previously issued cursors valid. All state is in-memory; mutations are
// serialized under the write lock, reads share the read lock and see a
// consistent snapshot per call.
type Collection[R Record] struct {
	name     string
	codec    Codec[R]
	pageSize int
	maxPage  int
	logger   zerolog.Logger
	snap     *Snapshotter

	mu      sync.RWMutex
	nextSeq uint64
	order   []orderEntry
	items   map[string][]byte
	seeded  bool
}

// NewCollection creates an empty collection with the given name. The name
// identifies the collection in logs and snapshot keys.
func NewCollection[R Record](name string, opts Options) *Collection[R] {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	maxPage := opts.MaxPageSize
	if maxPage <= 0 {
		maxPage = MaxPageSize
	}

	return &Collection[R]{
		name:     name,
		pageSize: pageSize,
		maxPage:  maxPage,
		logger:   opts.Logger.With().Str("collection", name).Logger(),
		snap:     opts.Snapshotter,
		items:    make(map[string][]byte),
	}
}

// Name returns the collection name.
func (c *Collection[R]) Name() string { return c.name }

// Len returns the number of records currently stored.
func (c *Collection[R]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Create inserts a record at the tail of the collection order. The record
// is returned unchanged. Fails with ErrDuplicateID if the id is taken.
func (c *Collection[R]) Create(r R) (R, error) {
	id := r.RecordID()
	if id == "" {
		return r, fmt.Errorf("create in %s: %w: empty id", c.name, ErrCorruptRecord)
	}

	data, err := c.codec.Encode(r)
	if err != nil {
		return r, err
	}

	c.mu.Lock()
	if _, ok := c.items[id]; ok {
		c.mu.Unlock()
		return r, fmt.Errorf("create %q in %s: %w", id, c.name, ErrDuplicateID)
	}
	c.insertLocked(id, data)
	dump := c.dumpLocked()
	c.mu.Unlock()

	c.scheduleSnapshot(dump)
	return r, nil
}

// Get returns the record with the given id. A record whose stored
// representation no longer decodes yields ErrCorruptRecord, distinct from
// ErrNotFound.
func (c *Collection[R]) Get(id string) (R, error) {
	c.mu.RLock()
	data, ok := c.items[id]
	c.mu.RUnlock()

	var zero R
	if !ok {
		return zero, fmt.Errorf("get %q in %s: %w", id, c.name, ErrNotFound)
	}
	return c.codec.Decode(data)
}

// Exists reports whether a record with the given id is present.
func (c *Collection[R]) Exists(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.items[id]
	return ok
}

// Update applies mutate to the stored record and persists the result in
// place, keeping the record's position in the collection order. The mutate
// function must not change the record id.
func (c *Collection[R]) Update(id string, mutate func(R) R) (R, error) {
	var zero R

	c.mu.Lock()
	data, ok := c.items[id]
	if !ok {
		c.mu.Unlock()
		return zero, fmt.Errorf("update %q in %s: %w", id, c.name, ErrNotFound)
	}

	r, err := c.codec.Decode(data)
	if err != nil {
		c.mu.Unlock()
		return zero, err
	}

	r = mutate(r)
	if r.RecordID() != id {
		c.mu.Unlock()
		return zero, fmt.Errorf("update %q in %s: mutation changed record id to %q", id, c.name, r.RecordID())
	}

	encoded, err := c.codec.Encode(r)
	if err != nil {
		c.mu.Unlock()
		return zero, err
	}
	c.items[id] = encoded
	dump := c.dumpLocked()
	c.mu.Unlock()

	c.scheduleSnapshot(dump)
	return r, nil
}

// Delete removes the record with the given id. It reports whether a record
// was removed. Remaining records keep their sequence numbers, so cursors
// issued before the delete stay valid.
func (c *Collection[R]) Delete(id string) bool {
	c.mu.Lock()
	_, ok := c.items[id]
	if !ok {
		c.mu.Unlock()
		return false
	}
	delete(c.items, id)
	for i, e := range c.order {
		if e.id == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	dump := c.dumpLocked()
	c.mu.Unlock()

	c.scheduleSnapshot(dump)
	return true
}

// DeleteMany removes every listed id that is present and returns the count
// actually removed. Missing ids are skipped silently. The whole batch runs
// under one write lock; readers either see the collection before or after
// the batch, never mid-removal.
func (c *Collection[R]) DeleteMany(ids []string) int {
	if len(ids) == 0 {
		return 0
	}

	victims := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		victims[id] = struct{}{}
	}

	c.mu.Lock()
	removed := 0
	kept := c.order[:0]
	for _, e := range c.order {
		if _, hit := victims[e.id]; hit {
			if _, ok := c.items[e.id]; ok {
				delete(c.items, e.id)
				removed++
				continue
			}
		}
		kept = append(kept, e)
	}
	c.order = kept
	var dump []byte
	if removed > 0 {
		dump = c.dumpLocked()
	}
	c.mu.Unlock()

	if removed > 0 {
		c.scheduleSnapshot(dump)
	}
	return removed
}

// List returns up to limit records starting immediately after the position
// encoded by cursor, in insertion order. An empty cursor starts from the
// beginning; a cursor that no longer decodes is treated the same way.
// Next is nil once the end of the collection is reached. Records that fail
// to decode are skipped and logged rather than aborting the page.
func (c *Collection[R]) List(cursor string, limit int) Page[R] {
	if limit <= 0 {
		limit = c.pageSize
	}
	if limit > c.maxPage {
		limit = c.maxPage
	}

	var afterSeq uint64
	if cursor != "" {
		seq, _, err := DecodeCursor(cursor)
		if err != nil {
			c.logger.Debug().Err(err).Msg("stale or malformed cursor, restarting from head")
		} else {
			afterSeq = seq
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	// First entry strictly past the cursor position. Sequence numbers are
	// assigned in increasing order, so c.order is sorted by seq.
	start := sort.Search(len(c.order), func(i int) bool {
		return c.order[i].seq > afterSeq
	})

	page := Page[R]{Items: make([]R, 0, limit)}
	i := start
	for i < len(c.order) && len(page.Items) < limit {
		e := c.order[i]
		r, err := c.codec.Decode(c.items[e.id])
		i++
		if err != nil {
			c.logger.Error().Err(err).Str("id", e.id).Msg("skipping corrupt record")
			continue
		}
		page.Items = append(page.Items, r)
	}

	if i < len(c.order) {
		last := c.order[i-1]
		token := EncodeCursor(last.seq, last.id)
		page.Next = &token
	}
	return page
}

// All returns every record in insertion order, skipping corrupt entries.
// Intended for bounded collections and index rebuilds, not request paths.
func (c *Collection[R]) All() []R {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]R, 0, len(c.order))
	for _, e := range c.order {
		r, err := c.codec.Decode(c.items[e.id])
		if err != nil {
			c.logger.Error().Err(err).Str("id", e.id).Msg("skipping corrupt record")
			continue
		}
		out = append(out, r)
	}
	return out
}

// EnsureSeed populates an empty collection with the batch produced by seed.
// The check and the insert happen under one write lock, so concurrent
// callers cannot double-seed. Seeding happens at most once per process
// lifetime; a collection emptied by deletes is not re-seeded. Returns the
// number of records inserted.
func (c *Collection[R]) EnsureSeed(seed func() []R) (int, error) {
	c.mu.Lock()
	if c.seeded || len(c.order) > 0 {
		c.seeded = true
		c.mu.Unlock()
		return 0, nil
	}

	inserted := 0
	for _, r := range seed() {
		id := r.RecordID()
		if id == "" {
			c.mu.Unlock()
			return inserted, fmt.Errorf("seed %s: %w: empty id", c.name, ErrCorruptRecord)
		}
		if _, ok := c.items[id]; ok {
			c.mu.Unlock()
			return inserted, fmt.Errorf("seed %s: %w: %q", c.name, ErrDuplicateID, id)
		}
		data, err := c.codec.Encode(r)
		if err != nil {
			c.mu.Unlock()
			return inserted, err
		}
		c.insertLocked(id, data)
		inserted++
	}
	c.seeded = true
	dump := c.dumpLocked()
	c.mu.Unlock()

	c.scheduleSnapshot(dump)
	return inserted, nil
}

// Restore loads the collection from its snapshot, if one exists. A restored
// collection counts as seeded. Must be called before the collection serves
// traffic.
func (c *Collection[R]) Restore(ctx context.Context) error {
	if c.snap == nil {
		return nil
	}
	data, err := c.snap.Load(ctx, c.name)
	if err != nil {
		return fmt.Errorf("restore %s: %w", c.name, err)
	}
	if data == nil {
		return nil
	}

	entries, err := parseSnapshot(data)
	if err != nil {
		return fmt.Errorf("restore %s: %w", c.name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.order = c.order[:0]
	c.items = make(map[string][]byte, len(entries))
	c.nextSeq = 0
	for _, e := range entries {
		c.order = append(c.order, orderEntry{seq: e.Seq, id: e.ID})
		c.items[e.ID] = e.Data
		if e.Seq > c.nextSeq {
			c.nextSeq = e.Seq
		}
	}
	c.seeded = true

	c.logger.Info().Int("records", len(entries)).Msg("collection restored from snapshot")
	return nil
}

func (c *Collection[R]) insertLocked(id string, data []byte) {
	c.nextSeq++
	c.order = append(c.order, orderEntry{seq: c.nextSeq, id: id})
	c.items[id] = data
}

func (c *Collection[R]) scheduleSnapshot(dump []byte) {
	if c.snap == nil || dump == nil {
		return
	}
	go c.snap.Save(context.Background(), c.name, dump)
}
