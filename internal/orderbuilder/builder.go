package orderbuilder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/safar/vendor-portal/internal/models"
	"github.com/safar/vendor-portal/internal/simulate"
	"github.com/safar/vendor-portal/internal/store"
)

// Builder keeps one draft per session and submits them.
type Builder struct {
	mu     sync.Mutex
	drafts map[string]*Draft

	store       store.Store
	ids         *IDGenerator
	submitDelay time.Duration
	wait        func(ctx context.Context, d time.Duration) error
	now         func() time.Time
}

func New(s store.Store, submitDelay time.Duration) *Builder {
	return &Builder{
		drafts:      make(map[string]*Draft),
		store:       s,
		ids:         NewIDGenerator(),
		submitDelay: submitDelay,
		wait:        simulate.Delay,
		now:         time.Now,
	}
}

// openLocked returns the session's draft, creating an empty one on first
// use. b.mu must be held.
func (b *Builder) openLocked(sessionID string) *Draft {
	d, ok := b.drafts[sessionID]
	if !ok {
		d = NewDraft(b.now())
		b.drafts[sessionID] = d
	}
	return d
}

// Discard drops the session's draft, as when the builder is left.
func (b *Builder) Discard(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.drafts, sessionID)
}

// Update runs fn on the session's draft under the builder lock.
func (b *Builder) Update(sessionID string, fn func(d *Draft) error) (Summary, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.openLocked(sessionID)
	err := fn(d)
	return d.Summary(), err
}

// View returns the session's draft summary.
func (b *Builder) View(sessionID string) Summary {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.openLocked(sessionID).Summary()
}

// SelectVendor loads the vendor's catalog and switches the session's draft to it.
func (b *Builder) SelectVendor(ctx context.Context, sessionID, vendorID string) (Summary, error) {
	vendor, err := b.store.GetVendor(ctx, vendorID)
	if err != nil {
		return Summary{}, fmt.Errorf("select vendor: %w", err)
	}
	catalog, err := b.store.VendorCatalog(ctx, vendorID)
	if err != nil {
		return Summary{}, fmt.Errorf("load vendor catalog: %w", err)
	}

	return b.Update(sessionID, func(d *Draft) error {
		d.SelectVendor(*vendor, catalog)
		return nil
	})
}

type Submission struct {
	OrderID      string               `json:"order_id"`
	Summary      Summary              `json:"summary"`
	Notification *models.Notification `json:"notification"`
}

// Submit validates the session's draft, assigns it an order id, waits the
// simulated round-trip and discards the draft. The order is not retained.
// A draft that fails validation is left untouched. The draft leaves the
// session once it validates, so edits made during the wait start a new one.
// If the submission fails the draft is put back unless the session has
// already started another.
func (b *Builder) Submit(ctx context.Context, sessionID string) (*Submission, error) {
	b.mu.Lock()
	d, ok := b.drafts[sessionID]
	if !ok {
		d = NewDraft(b.now())
	}
	if err := d.Validate(); err != nil {
		b.mu.Unlock()
		return nil, err
	}
	summary := d.Summary()
	delete(b.drafts, sessionID)
	b.mu.Unlock()

	id, err := b.nextOrderID(ctx)
	if err != nil {
		b.restore(sessionID, d)
		return nil, err
	}

	if err := b.wait(ctx, b.submitDelay); err != nil {
		b.restore(sessionID, d)
		return nil, fmt.Errorf("submit order: %w", err)
	}

	return &Submission{
		OrderID: id,
		Summary: summary,
		Notification: models.Success(
			"Purchase Order Created",
			fmt.Sprintf("Order %s has been created successfully and sent to the vendor.", id),
		),
	}, nil
}

func (b *Builder) nextOrderID(ctx context.Context) (string, error) {
	orders, err := b.store.ListOrders(ctx)
	if err != nil {
		return "", fmt.Errorf("list orders: %w", err)
	}
	existing := make(map[string]bool, len(orders))
	for _, o := range orders {
		existing[o.ID] = true
	}
	return b.ids.Next(func(id string) bool { return existing[id] }), nil
}

// restore puts an unsubmitted draft back unless the session has a newer one.
func (b *Builder) restore(sessionID string, d *Draft) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.drafts[sessionID]; !ok {
		b.drafts[sessionID] = d
	}
}
