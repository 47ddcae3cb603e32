package datalayer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/ec-datalayer/internal/domain/ecommerce"
)

// ErrSchemaCheck wraps a Checker failure.
var ErrSchemaCheck = errors.New("schema check failed")

// Checker is an extra check run on pushes that already passed validation.
// *schema.Catalog satisfies it.
type Checker interface {
	ValidatePush(ecommerce.DataLayerPush) error
}

// Entry is one recorded push. Its Push is a copy taken at push time and never
// retains the EventCallback.
type Entry struct {
	ID       string                  `json:"id"`
	Kind     ecommerce.Kind          `json:"kind"`
	Push     ecommerce.DataLayerPush `json:"push"`
	PushedAt time.Time               `json:"pushed_at"`
}

type Config struct {
	// MaxEntries bounds the recorded entries; the oldest are dropped first.
	// Zero means unbounded.
	MaxEntries int
	Checker    Checker
	Metrics    *Metrics
}

// DataLayer is the ordered queue pushes are handed to.
type DataLayer struct {
	mu         sync.RWMutex
	entries    []Entry
	maxEntries int
	checker    Checker
	metrics    *Metrics
}

func New(cfg Config) *DataLayer {
	return &DataLayer{
		maxEntries: cfg.MaxEntries,
		checker:    cfg.Checker,
		metrics:    cfg.Metrics,
	}
}

// Push validates and records push, then runs its EventCallback once.
// Invalid pushes are returned to the caller and never recorded.
func (d *DataLayer) Push(ctx context.Context, push ecommerce.DataLayerPush) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}

	if err := push.Validate(); err != nil {
		d.metrics.rejected(rejectionReason(err))
		log.Printf("[DataLayer] Rejected push (event=%q): %v", push.Event, err)
		return Entry{}, err
	}
	kind, _ := push.Kind()

	if d.checker != nil {
		if err := d.checker.ValidatePush(push); err != nil {
			d.metrics.rejected(ReasonSchema)
			log.Printf("[DataLayer] Rejected %s push: %v", kind, err)
			return Entry{}, fmt.Errorf("%w: %w", ErrSchemaCheck, err)
		}
	}

	callback := push.EventCallback
	push = push.Clone()
	push.EventCallback = nil

	entry := Entry{
		ID:       uuid.New().String(),
		Kind:     kind,
		Push:     push,
		PushedAt: time.Now().UTC(),
	}
	returned := entry
	returned.Push = push.Clone()

	d.mu.Lock()
	d.entries = append(d.entries, entry)
	dropped := 0
	if d.maxEntries > 0 && len(d.entries) > d.maxEntries {
		dropped = len(d.entries) - d.maxEntries
		d.entries = append([]Entry(nil), d.entries[dropped:]...)
	}
	d.mu.Unlock()

	d.metrics.accepted(kind)
	d.metrics.dropped(dropped)

	if callback != nil {
		runCallback(entry, callback)
	}
	return returned, nil
}

// Entries returns a deep copy of the recorded entries in push order.
func (d *DataLayer) Entries() []Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Entry, len(d.entries))
	for i, entry := range d.entries {
		entry.Push = entry.Push.Clone()
		out[i] = entry
	}
	return out
}

func (d *DataLayer) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// Reset drops every recorded entry.
func (d *DataLayer) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = nil
}

func runCallback(entry Entry, callback func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[DataLayer] eventCallback for %s push %s panicked: %v", entry.Kind, entry.ID, r)
		}
	}()
	callback()
}
