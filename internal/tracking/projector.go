// Package tracking turns the shop's domain events into data layer pushes.
package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/example/ec-datalayer/internal/datalayer"
	"github.com/example/ec-datalayer/internal/domain/ecommerce"
)

// ErrMalformedEvent reports a shop event whose envelope or data cannot be decoded.
var ErrMalformedEvent = errors.New("malformed shop event")

// Pusher accepts validated pushes. *datalayer.DataLayer satisfies it.
type Pusher interface {
	Push(ctx context.Context, push ecommerce.DataLayerPush) (datalayer.Entry, error)
}

type Projector struct {
	pusher   Pusher
	currency string
}

// NewProjector returns a projector stamping currency on every push it builds.
// An empty currency leaves currencyCode unset.
func NewProjector(pusher Pusher, currency string) *Projector {
	return &Projector{pusher: pusher, currency: currency}
}

// HandleEvent has the kafka.MessageHandler signature. Events the catalog has
// no push for are ignored.
func (p *Projector) HandleEvent(ctx context.Context, key, value []byte) error {
	var event SourceEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}

	log.Printf("[Projector] Received event: %s (aggregate: %s)", event.EventType, event.AggregateType)

	var (
		push ecommerce.DataLayerPush
		ok   bool
		err  error
	)
	switch event.AggregateType {
	case AggregateCart:
		push, ok, err = cartPush(event)
	case AggregateOrder:
		push, ok, err = orderPush(event)
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", event.AggregateType, event.EventType, err)
	}
	if !ok {
		return nil
	}

	if p.currency != "" {
		push = push.WithCurrencyCode(p.currency)
	}
	entry, err := p.pusher.Push(ctx, push)
	if err != nil {
		return fmt.Errorf("%s %s: push rejected: %w", event.AggregateType, event.EventType, err)
	}
	log.Printf("[Projector] Pushed %s (entry: %s, source: %s)", entry.Kind, entry.ID, event.ID)
	return nil
}

func cartPush(event SourceEvent) (ecommerce.DataLayerPush, bool, error) {
	switch event.EventType {
	case EventItemAddedToCart:
		var e ItemAddedToCart
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return ecommerce.DataLayerPush{}, false, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
		}
		product, err := ecommerce.NewProduct(e.ProductID, "")
		if err != nil {
			return ecommerce.DataLayerPush{}, false, err
		}
		product.Quantity = e.Quantity
		product.Price = FormatPrice(e.Price)
		push, err := ecommerce.NewAddToCartPush(product)
		return push, err == nil, err

	case EventItemRemovedFromCart:
		var e ItemRemovedFromCart
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return ecommerce.DataLayerPush{}, false, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
		}
		product, err := ecommerce.NewProduct(e.ProductID, "")
		if err != nil {
			return ecommerce.DataLayerPush{}, false, err
		}
		push, err := ecommerce.NewRemoveFromCartPush(product)
		return push, err == nil, err
	}
	return ecommerce.DataLayerPush{}, false, nil
}

func orderPush(event SourceEvent) (ecommerce.DataLayerPush, bool, error) {
	switch event.EventType {
	case EventOrderPlaced:
		var e OrderPlaced
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return ecommerce.DataLayerPush{}, false, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
		}
		tx, err := ecommerce.NewTransaction(e.OrderID)
		if err != nil {
			return ecommerce.DataLayerPush{}, false, err
		}
		tx.Revenue = FormatPrice(e.Total)

		products := make([]ecommerce.ProductFieldObject, 0, len(e.Items))
		for _, item := range e.Items {
			product, err := ecommerce.NewProduct(item.ProductID, "")
			if err != nil {
				return ecommerce.DataLayerPush{}, false, err
			}
			product.Quantity = item.Quantity
			product.Price = FormatPrice(item.Price)
			products = append(products, product)
		}
		push, err := ecommerce.NewPurchasePush(tx, products...)
		return push, err == nil, err

	case EventOrderCancelled:
		var e OrderCancelled
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return ecommerce.DataLayerPush{}, false, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
		}
		// Full refund: the action field alone refunds the whole transaction.
		push, err := ecommerce.NewRefundPush(ecommerce.RefundActionField{ID: e.OrderID})
		return push, err == nil, err
	}
	return ecommerce.DataLayerPush{}, false, nil
}

// Rejected reports whether err comes from an event or push that fails the same
// way on every delivery, so redelivering it cannot help.
func Rejected(err error) bool {
	for _, target := range []error{
		ErrMalformedEvent,
		datalayer.ErrSchemaCheck,
		ecommerce.ErrMissingIdentifier,
		ecommerce.ErrMissingTransactionID,
		ecommerce.ErrInvalidDiscriminator,
		ecommerce.ErrMalformedShape,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// FormatPrice renders integer cents as a decimal string, 1525 as "15.25".
func FormatPrice(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
