package ecommerce

import "fmt"

// Kind resolves the variant a push carries from its nested key and its event
// literal. Exactly one nested key must be set, and the event must be the one
// that key is pushed with; the event alone separates checkout from checkoutOption.
func (p DataLayerPush) Kind() (Kind, error) {
	keys := p.Ecommerce.actionKeys()
	switch {
	case len(keys) == 0:
		return "", malformed("ecommerce", "no action key present")
	case len(keys) > 1:
		return "", malformed("ecommerce", "several action keys present %v", keys)
	}

	key := keys[0]
	for _, kind := range Kinds() {
		spec := kindSpecs[kind]
		if spec.key == key && spec.event == p.Event {
			return kind, nil
		}
	}
	return "", fieldError("event", fmt.Errorf("%w: event %q cannot carry ecommerce.%s", ErrInvalidDiscriminator, p.Event, key))
}

// Validate checks the push against the catalog and returns the first
// violation as a *FieldError.
func (p DataLayerPush) Validate() error {
	kind, err := p.Kind()
	if err != nil {
		return err
	}

	e := p.Ecommerce
	switch kind {
	case KindImpressions:
		return validateEntries("ecommerce.impressions", e.Impressions)
	case KindProductClick:
		return validateEntries("ecommerce.click.products", e.Click.Products)
	case KindDetail:
		return validateEntries("ecommerce.detail.products", e.Detail.Products)
	case KindAddToCart:
		return validateEntries("ecommerce.add.products", e.Add.Products)
	case KindRemoveFromCart:
		return validateEntries("ecommerce.remove.products", e.Remove.Products)
	case KindPromoView:
		return validateEntries("ecommerce.promoView.promotions", e.PromoView.Promotions)
	case KindPromotionClick:
		return validateEntries("ecommerce.promoClick.promotions", e.PromoClick.Promotions)
	case KindCheckout:
		return validateEntries("ecommerce.checkout.products", e.Checkout.Products)
	case KindCheckoutOption:
		if len(e.Checkout.Products) > 0 {
			return malformed("ecommerce.checkout.products", "checkoutOption carries no products")
		}
	case KindPurchase:
		if err := e.Purchase.ActionField.Validate(); err != nil {
			return fieldError("ecommerce.purchase.actionField.id", err)
		}
		return validateEntries("ecommerce.purchase.products", e.Purchase.Products)
	case KindRefund:
		if err := e.Refund.ActionField.Validate(); err != nil {
			return fieldError("ecommerce.refund.actionField.id", err)
		}
		for i, product := range e.Refund.Products {
			if err := product.Validate(); err != nil {
				return fieldError(fmt.Sprintf("ecommerce.refund.products[%d]", i), err)
			}
		}
	}
	return nil
}

// validateEntries requires a non-empty list whose entries each validate.
func validateEntries[T interface{ Validate() error }](path string, entries []T) error {
	if len(entries) == 0 {
		return malformed(path, "at least one entry is required")
	}
	for i, entry := range entries {
		if err := entry.Validate(); err != nil {
			return fieldError(fmt.Sprintf("%s[%d]", path, i), err)
		}
	}
	return nil
}
