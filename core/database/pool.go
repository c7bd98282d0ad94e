package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultPoolSize is the number of environment handles kept open.
const DefaultPoolSize = 8

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("connection pool is closed")

// Resolver looks up the connection settings of a named environment.
type Resolver interface {
	Resolve(name string) (Config, error)
}

// Connector opens a handle for cfg. Connect is the default.
type Connector func(cfg Config) (*gorm.DB, error)

// PoolOptions configures a Pool. Zero values fall back to defaults.
type PoolOptions struct {
	Size    int
	Connect Connector
	Logger  *zap.Logger
	Now     func() time.Time
}

type poolEntry struct {
	db       *gorm.DB
	inUse    int
	lastUsed time.Time
}

// Pool owns one *gorm.DB per environment. Handles are checked with a ping
// before reuse and the least recently used idle handle is closed when the
// pool grows past its size.
type Pool struct {
	mu       sync.Mutex
	entries  map[string]*poolEntry
	retired  map[*gorm.DB]*poolEntry
	closed   bool
	resolver Resolver
	size     int
	connect  Connector
	logger   *zap.Logger
	now      func() time.Time
}

// NewPool creates an empty pool resolving environments through r.
func NewPool(r Resolver, opts PoolOptions) *Pool {
	p := &Pool{
		entries:  make(map[string]*poolEntry),
		retired:  make(map[*gorm.DB]*poolEntry),
		resolver: r,
		size:     opts.Size,
		connect:  opts.Connect,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if p.size <= 0 {
		p.size = DefaultPoolSize
	}
	if p.connect == nil {
		p.connect = Connect
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// Acquire returns the handle for name, connecting on first use or when the
// cached handle fails its liveness ping. Every successful Acquire must be
// paired with Release of the returned handle.
func (p *Pool) Acquire(ctx context.Context, name string) (*gorm.DB, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	entry, ok := p.entries[name]
	if ok {
		entry.inUse++
		entry.lastUsed = p.now()
	}
	p.mu.Unlock()

	if ok {
		err := Ping(ctx, entry.db)
		if err == nil {
			return entry.db, nil
		}
		p.logger.Warn("Pooled connection failed liveness check, reconnecting",
			zap.String("environment", name),
			zap.Error(err),
		)
		p.discard(name, entry)
	}

	cfg, err := p.resolver.Resolve(name)
	if err != nil {
		return nil, err
	}

	db, err := p.connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("environment %s: %w", name, err)
	}

	return p.insert(name, db)
}

// insert stores a fresh handle, preferring one another caller stored first.
func (p *Pool) insert(name string, db *gorm.DB) (*gorm.DB, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		_ = Close(db)
		return nil, ErrPoolClosed
	}

	if existing, ok := p.entries[name]; ok {
		existing.inUse++
		existing.lastUsed = p.now()
		p.mu.Unlock()
		_ = Close(db)
		return existing.db, nil
	}

	p.entries[name] = &poolEntry{db: db, inUse: 1, lastUsed: p.now()}
	evicted := p.evictLocked()
	p.mu.Unlock()

	for evictedName, handle := range evicted {
		p.logger.Debug("Evicting idle connection", zap.String("environment", evictedName))
		if err := Close(handle); err != nil {
			p.logger.Warn("Failed to close evicted connection",
				zap.String("environment", evictedName),
				zap.Error(err),
			)
		}
	}

	p.logger.Debug("Opened connection", zap.String("environment", name))
	return db, nil
}

// evictLocked removes least recently used idle entries until the pool fits.
// Entries in use are never evicted, so the pool may exceed its size briefly.
func (p *Pool) evictLocked() map[string]*gorm.DB {
	excess := len(p.entries) - p.size
	if excess <= 0 {
		return nil
	}

	type candidate struct {
		name     string
		lastUsed time.Time
	}
	var idle []candidate
	for name, e := range p.entries {
		if e.inUse == 0 {
			idle = append(idle, candidate{name: name, lastUsed: e.lastUsed})
		}
	}
	sort.Slice(idle, func(i, j int) bool {
		return idle[i].lastUsed.Before(idle[j].lastUsed)
	})

	evicted := make(map[string]*gorm.DB)
	for _, c := range idle {
		if excess == 0 {
			break
		}
		evicted[c.name] = p.entries[c.name].db
		delete(p.entries, c.name)
		excess--
	}
	return evicted
}

// discard gives up the caller's use of a handle that failed its ping. The
// handle leaves the pool at once but is only closed after its last user
// releases it.
func (p *Pool) discard(name string, entry *poolEntry) {
	p.mu.Lock()
	if current, ok := p.entries[name]; ok && current == entry {
		delete(p.entries, name)
		entry.inUse--
		if entry.inUse > 0 {
			p.retired[entry.db] = entry
		}
	} else if p.retired[entry.db] == entry {
		entry.inUse--
		if entry.inUse == 0 {
			delete(p.retired, entry.db)
		}
	}
	idle := entry.inUse == 0
	p.mu.Unlock()

	if idle {
		_ = Close(entry.db)
	}
}

// Release marks one use of the handle db for name as finished.
func (p *Pool) Release(name string, db *gorm.DB) {
	p.mu.Lock()
	if entry, ok := p.entries[name]; ok && entry.db == db {
		if entry.inUse > 0 {
			entry.inUse--
		}
		entry.lastUsed = p.now()
		p.mu.Unlock()
		return
	}

	entry, ok := p.retired[db]
	if !ok {
		p.mu.Unlock()
		return
	}
	entry.inUse--
	if entry.inUse > 0 {
		p.mu.Unlock()
		return
	}
	delete(p.retired, db)
	p.mu.Unlock()

	p.logger.Debug("Closing discarded connection", zap.String("environment", name))
	_ = Close(db)
}

// Len returns the number of open handles.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Has reports whether a handle for name is open.
func (p *Pool) Has(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.entries[name]
	return ok
}

// Close closes every handle. Further Acquire calls fail with ErrPoolClosed.
func (p *Pool) Close() error {
	p.mu.Lock()
	entries := p.entries
	retired := p.retired
	p.entries = make(map[string]*poolEntry)
	p.retired = make(map[*gorm.DB]*poolEntry)
	p.closed = true
	p.mu.Unlock()

	var errs []error
	for name, e := range entries {
		if err := Close(e.db); err != nil {
			errs = append(errs, fmt.Errorf("environment %s: %w", name, err))
		}
	}
	for db := range retired {
		_ = Close(db)
	}
	return errors.Join(errs...)
}
