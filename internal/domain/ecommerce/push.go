package ecommerce

import "maps"

// EventName is the literal "event" discriminator of a push.
type EventName string

const (
	EventProductClick   EventName = "productClick"
	EventAddToCart      EventName = "addToCart"
	EventRemoveFromCart EventName = "removeFromCart"
	EventPromotionClick EventName = "promotionClick"
	EventCheckout       EventName = "checkout"
	EventCheckoutOption EventName = "checkoutOption"
)

const (
	CurrencyEUR = "EUR"
	CurrencyUSD = "USD"
)

// Kind identifies one of the push variants of the catalog.
type Kind string

const (
	KindImpressions    Kind = "impressions"
	KindProductClick   Kind = "productClick"
	KindDetail         Kind = "detail"
	KindAddToCart      Kind = "addToCart"
	KindRemoveFromCart Kind = "removeFromCart"
	KindPromoView      Kind = "promoView"
	KindPromotionClick Kind = "promotionClick"
	KindCheckout       Kind = "checkout"
	KindCheckoutOption Kind = "checkoutOption"
	KindPurchase       Kind = "purchase"
	KindRefund         Kind = "refund"
)

// Nested keys of the ecommerce object.
const (
	keyImpressions = "impressions"
	keyClick       = "click"
	keyDetail      = "detail"
	keyAdd         = "add"
	keyRemove      = "remove"
	keyPromoView   = "promoView"
	keyPromoClick  = "promoClick"
	keyCheckout    = "checkout"
	keyPurchase    = "purchase"
	keyRefund      = "refund"
)

type kindSpec struct {
	key    string
	event  EventName
	action Action
}

var kindSpecs = map[Kind]kindSpec{
	KindImpressions:    {key: keyImpressions},
	KindProductClick:   {key: keyClick, event: EventProductClick, action: ActionClick},
	KindDetail:         {key: keyDetail, action: ActionDetail},
	KindAddToCart:      {key: keyAdd, event: EventAddToCart, action: ActionAdd},
	KindRemoveFromCart: {key: keyRemove, event: EventRemoveFromCart, action: ActionRemove},
	KindPromoView:      {key: keyPromoView},
	KindPromotionClick: {key: keyPromoClick, event: EventPromotionClick, action: ActionPromoClick},
	KindCheckout:       {key: keyCheckout, event: EventCheckout, action: ActionCheckout},
	KindCheckoutOption: {key: keyCheckout, event: EventCheckoutOption, action: ActionCheckoutOption},
	KindPurchase:       {key: keyPurchase, action: ActionPurchase},
	KindRefund:         {key: keyRefund, action: ActionRefund},
}

// Kinds lists every push kind in catalog order.
func Kinds() []Kind {
	return []Kind{
		KindImpressions, KindProductClick, KindDetail, KindAddToCart, KindRemoveFromCart,
		KindPromoView, KindPromotionClick, KindCheckout, KindCheckoutOption, KindPurchase, KindRefund,
	}
}

// EventName returns the event literal a push of this kind carries, or "" for
// kinds pushed without one (impressions, detail, promoView, purchase, refund).
func (k Kind) EventName() EventName { return kindSpecs[k].event }

// Key returns the nested ecommerce key holding the payload.
func (k Kind) Key() string { return kindSpecs[k].key }

// Action returns the collector action verb, or "" for impressions and promoView.
func (k Kind) Action() Action { return kindSpecs[k].action }

// ProductListPayload backs the click and detail actions.
type ProductListPayload struct {
	ActionField *ListActionField     `json:"actionField,omitempty"`
	Products    []ProductFieldObject `json:"products"`
}

// ProductsPayload backs the add and remove actions.
type ProductsPayload struct {
	Products []ProductFieldObject `json:"products"`
}

// PromotionsPayload backs promoView and promoClick.
type PromotionsPayload struct {
	Promotions []PromotionFieldObject `json:"promotions"`
}

// CheckoutPayload backs both checkout and checkoutOption; the event literal
// decides which. Products are required for checkout and absent for checkoutOption.
type CheckoutPayload struct {
	ActionField *StepOptionActionField `json:"actionField,omitempty"`
	Products    []ProductFieldObject   `json:"products,omitempty"`
}

type PurchasePayload struct {
	ActionField TransactionActionField `json:"actionField"`
	Products    []ProductFieldObject   `json:"products"`
}

type RefundPayload struct {
	ActionField RefundActionField     `json:"actionField"`
	Products    []RefundProductObject `json:"products,omitempty"`
}

// Ecommerce is the per-push container. Exactly one action key must be set.
type Ecommerce struct {
	CurrencyCode string                  `json:"currencyCode,omitempty"`
	Impressions  []ImpressionFieldObject `json:"impressions,omitempty"`
	Click        *ProductListPayload     `json:"click,omitempty"`
	Detail       *ProductListPayload     `json:"detail,omitempty"`
	Add          *ProductsPayload        `json:"add,omitempty"`
	Remove       *ProductsPayload        `json:"remove,omitempty"`
	PromoView    *PromotionsPayload      `json:"promoView,omitempty"`
	PromoClick   *PromotionsPayload      `json:"promoClick,omitempty"`
	Checkout     *CheckoutPayload        `json:"checkout,omitempty"`
	Purchase     *PurchasePayload        `json:"purchase,omitempty"`
	Refund       *RefundPayload          `json:"refund,omitempty"`
}

// actionKeys returns the nested keys that are set, in declaration order.
func (e Ecommerce) actionKeys() []string {
	var keys []string
	add := func(set bool, key string) {
		if set {
			keys = append(keys, key)
		}
	}
	add(e.Impressions != nil, keyImpressions)
	add(e.Click != nil, keyClick)
	add(e.Detail != nil, keyDetail)
	add(e.Add != nil, keyAdd)
	add(e.Remove != nil, keyRemove)
	add(e.PromoView != nil, keyPromoView)
	add(e.PromoClick != nil, keyPromoClick)
	add(e.Checkout != nil, keyCheckout)
	add(e.Purchase != nil, keyPurchase)
	add(e.Refund != nil, keyRefund)
	return keys
}

// DataLayerPush is the top-level message handed to the data layer.
type DataLayerPush struct {
	Event     EventName `json:"event,omitempty"`
	Ecommerce Ecommerce `json:"ecommerce"`
	// EventCallback is invoked by the data layer at most once, after the push
	// has been recorded. It is never encoded.
	EventCallback func() `json:"-"`
}

// WithCurrencyCode returns a copy of the push with the currency code set.
func (p DataLayerPush) WithCurrencyCode(code string) DataLayerPush {
	p.Ecommerce.CurrencyCode = code
	return p
}

// WithEventCallback returns a copy of the push with the completion callback set.
func (p DataLayerPush) WithEventCallback(fn func()) DataLayerPush {
	p.EventCallback = fn
	return p
}

// Clone returns a deep copy of the push. Nil lists stay nil, and custom
// metric and dimension maps are copied one level deep.
func (p DataLayerPush) Clone() DataLayerPush {
	e := p.Ecommerce
	e.Impressions = cloneEach(e.Impressions, func(o ImpressionFieldObject) ImpressionFieldObject {
		o.BaseProductObject = o.BaseProductObject.clone()
		return o
	})
	if e.Click != nil {
		e.Click = e.Click.clone()
	}
	if e.Detail != nil {
		e.Detail = e.Detail.clone()
	}
	if e.Add != nil {
		e.Add = &ProductsPayload{Products: cloneProductList(e.Add.Products)}
	}
	if e.Remove != nil {
		e.Remove = &ProductsPayload{Products: cloneProductList(e.Remove.Products)}
	}
	if e.PromoView != nil {
		e.PromoView = &PromotionsPayload{Promotions: cloneEach(e.PromoView.Promotions, nil)}
	}
	if e.PromoClick != nil {
		e.PromoClick = &PromotionsPayload{Promotions: cloneEach(e.PromoClick.Promotions, nil)}
	}
	if e.Checkout != nil {
		e.Checkout = &CheckoutPayload{
			ActionField: clonePtr(e.Checkout.ActionField),
			Products:    cloneProductList(e.Checkout.Products),
		}
	}
	if e.Purchase != nil {
		e.Purchase = &PurchasePayload{
			ActionField: e.Purchase.ActionField,
			Products:    cloneProductList(e.Purchase.Products),
		}
	}
	if e.Refund != nil {
		e.Refund = &RefundPayload{
			ActionField: e.Refund.ActionField,
			Products:    cloneEach(e.Refund.Products, nil),
		}
	}
	p.Ecommerce = e
	return p
}

func (pl *ProductListPayload) clone() *ProductListPayload {
	return &ProductListPayload{
		ActionField: clonePtr(pl.ActionField),
		Products:    cloneProductList(pl.Products),
	}
}

func (b BaseProductObject) clone() BaseProductObject {
	b.Metrics = maps.Clone(b.Metrics)
	b.Dimensions = maps.Clone(b.Dimensions)
	return b
}

func cloneProductList(products []ProductFieldObject) []ProductFieldObject {
	return cloneEach(products, func(o ProductFieldObject) ProductFieldObject {
		o.BaseProductObject = o.BaseProductObject.clone()
		return o
	})
}

// cloneEach copies s, passing every element through each when it is non-nil.
func cloneEach[T any](s []T, each func(T) T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	for i, v := range s {
		if each != nil {
			v = each(v)
		}
		out[i] = v
	}
	return out
}

func NewImpressionsPush(impressions ...ImpressionFieldObject) (DataLayerPush, error) {
	return build(DataLayerPush{
		Ecommerce: Ecommerce{Impressions: append([]ImpressionFieldObject{}, impressions...)},
	})
}

func NewProductClickPush(actionField *ListActionField, products ...ProductFieldObject) (DataLayerPush, error) {
	return build(DataLayerPush{
		Event:     EventProductClick,
		Ecommerce: Ecommerce{Click: &ProductListPayload{ActionField: clonePtr(actionField), Products: cloneProducts(products)}},
	})
}

func NewDetailPush(actionField *ListActionField, products ...ProductFieldObject) (DataLayerPush, error) {
	return build(DataLayerPush{
		Ecommerce: Ecommerce{Detail: &ProductListPayload{ActionField: clonePtr(actionField), Products: cloneProducts(products)}},
	})
}

func NewAddToCartPush(products ...ProductFieldObject) (DataLayerPush, error) {
	return build(DataLayerPush{
		Event:     EventAddToCart,
		Ecommerce: Ecommerce{Add: &ProductsPayload{Products: cloneProducts(products)}},
	})
}

func NewRemoveFromCartPush(products ...ProductFieldObject) (DataLayerPush, error) {
	return build(DataLayerPush{
		Event:     EventRemoveFromCart,
		Ecommerce: Ecommerce{Remove: &ProductsPayload{Products: cloneProducts(products)}},
	})
}

func NewPromoViewPush(promotions ...PromotionFieldObject) (DataLayerPush, error) {
	return build(DataLayerPush{
		Ecommerce: Ecommerce{PromoView: &PromotionsPayload{Promotions: append([]PromotionFieldObject{}, promotions...)}},
	})
}

func NewPromotionClickPush(promotions ...PromotionFieldObject) (DataLayerPush, error) {
	return build(DataLayerPush{
		Event:     EventPromotionClick,
		Ecommerce: Ecommerce{PromoClick: &PromotionsPayload{Promotions: append([]PromotionFieldObject{}, promotions...)}},
	})
}

func NewCheckoutPush(actionField *StepOptionActionField, products ...ProductFieldObject) (DataLayerPush, error) {
	return build(DataLayerPush{
		Event:     EventCheckout,
		Ecommerce: Ecommerce{Checkout: &CheckoutPayload{ActionField: clonePtr(actionField), Products: cloneProducts(products)}},
	})
}

func NewCheckoutOptionPush(actionField StepOptionActionField) (DataLayerPush, error) {
	return build(DataLayerPush{
		Event:     EventCheckoutOption,
		Ecommerce: Ecommerce{Checkout: &CheckoutPayload{ActionField: &actionField}},
	})
}

func NewPurchasePush(actionField TransactionActionField, products ...ProductFieldObject) (DataLayerPush, error) {
	return build(DataLayerPush{
		Ecommerce: Ecommerce{Purchase: &PurchasePayload{ActionField: actionField, Products: cloneProducts(products)}},
	})
}

// NewRefundPush builds a refund push. Without products the whole transaction is refunded.
func NewRefundPush(actionField RefundActionField, products ...RefundProductObject) (DataLayerPush, error) {
	var refunded []RefundProductObject
	if len(products) > 0 {
		refunded = append(refunded, products...)
	}
	return build(DataLayerPush{
		Ecommerce: Ecommerce{Refund: &RefundPayload{ActionField: actionField, Products: refunded}},
	})
}

func build(push DataLayerPush) (DataLayerPush, error) {
	if err := push.Validate(); err != nil {
		return DataLayerPush{}, err
	}
	return push, nil
}

func cloneProducts(products []ProductFieldObject) []ProductFieldObject {
	return append([]ProductFieldObject{}, products...)
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
