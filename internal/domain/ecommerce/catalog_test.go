package ecommerce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id, name string) ProductFieldObject {
	return ProductFieldObject{BaseProductObject: BaseProductObject{Identity: Identity{ID: id, Name: name}}}
}

func tShirt() ProductFieldObject {
	return ProductFieldObject{
		BaseProductObject: BaseProductObject{
			Identity: Identity{ID: "12345", Name: "Triblend Android T-Shirt"},
			ProductObjectCommon: ProductObjectCommon{
				Price:    "15.25",
				Brand:    "Google",
				Category: "Apparel",
				Variant:  "Gray",
			},
		},
		Quantity: 1,
	}
}

// ============================================
// Literal pushes
// ============================================

func TestCatalog_ImpressionsPush(t *testing.T) {
	push := DataLayerPush{
		Ecommerce: Ecommerce{
			CurrencyCode: CurrencyEUR,
			Impressions: []ImpressionFieldObject{
				{
					BaseProductObject: BaseProductObject{
						Identity: Identity{ID: "12345", Name: "Triblend Android T-Shirt"},
						ProductObjectCommon: ProductObjectCommon{
							Price: "15.25", Brand: "Google", Category: "Apparel", Variant: "Gray", Position: 1,
						},
					},
					List: "Search Results",
				},
				{
					BaseProductObject: BaseProductObject{
						Identity: Identity{ID: "67890", Name: "Donut Friday Scented T-Shirt"},
						ProductObjectCommon: ProductObjectCommon{
							Price: "33.75", Brand: "Google", Category: "Apparel", Variant: "Black", Position: 2,
						},
					},
					List: "Search Results",
				},
			},
		},
	}

	require.NoError(t, push.Validate())
	kind, err := push.Kind()
	require.NoError(t, err)
	assert.Equal(t, KindImpressions, kind)
	assert.Empty(t, push.Event)
	require.Len(t, push.Ecommerce.Impressions, 2)
	assert.Equal(t, "12345", push.Ecommerce.Impressions[0].ID)
	assert.Equal(t, "67890", push.Ecommerce.Impressions[1].ID)
}

func TestCatalog_ProductClickPush(t *testing.T) {
	called := false
	push := DataLayerPush{
		Event: EventProductClick,
		Ecommerce: Ecommerce{
			Click: &ProductListPayload{
				ActionField: &ListActionField{List: "Search Results"},
				Products: []ProductFieldObject{{
					BaseProductObject: BaseProductObject{
						Identity: Identity{ID: "id", Name: "name"},
						ProductObjectCommon: ProductObjectCommon{
							Price: "price", Brand: "brand", Category: "cat", Variant: "variant", Position: 4,
						},
					},
				}},
			},
		},
		EventCallback: func() { called = true },
	}

	// Both id and name may be set at once.
	require.NoError(t, push.Validate())
	kind, err := push.Kind()
	require.NoError(t, err)
	assert.Equal(t, KindProductClick, kind)
	assert.False(t, called)
}

func TestCatalog_DetailPush(t *testing.T) {
	shirt := tShirt()
	shirt.Quantity = 0
	push := DataLayerPush{
		Ecommerce: Ecommerce{
			Detail: &ProductListPayload{
				ActionField: &ListActionField{List: "Apparel Gallery"},
				Products:    []ProductFieldObject{shirt},
			},
		},
	}

	require.NoError(t, push.Validate())
	kind, _ := push.Kind()
	assert.Equal(t, KindDetail, kind)
}

func TestCatalog_CartPushes(t *testing.T) {
	add := DataLayerPush{
		Event: EventAddToCart,
		Ecommerce: Ecommerce{
			CurrencyCode: CurrencyEUR,
			Add:          &ProductsPayload{Products: []ProductFieldObject{tShirt()}},
		},
	}
	remove := DataLayerPush{
		Event:     EventRemoveFromCart,
		Ecommerce: Ecommerce{Remove: &ProductsPayload{Products: []ProductFieldObject{tShirt()}}},
	}

	require.NoError(t, add.Validate())
	require.NoError(t, remove.Validate())

	kind, _ := add.Kind()
	assert.Equal(t, KindAddToCart, kind)
	kind, _ = remove.Kind()
	assert.Equal(t, KindRemoveFromCart, kind)
}

func TestCatalog_PromotionPushes(t *testing.T) {
	view := DataLayerPush{
		Ecommerce: Ecommerce{
			PromoView: &PromotionsPayload{Promotions: []PromotionFieldObject{
				{Identity: Identity{ID: "JUNE_PROMO13", Name: "June Sale"}, Creative: "banner1", Position: "slot1"},
				{Identity: Identity{ID: "FREE_SHIP13", Name: "Free Shipping Promo"}, Creative: "skyscraper1", Position: "slot2"},
			}},
		},
	}
	click := DataLayerPush{
		Event: EventPromotionClick,
		Ecommerce: Ecommerce{
			PromoClick: &PromotionsPayload{Promotions: []PromotionFieldObject{
				{Identity: Identity{ID: "id", Name: "name"}, Creative: "creative", Position: "pos"},
			}},
		},
		EventCallback: func() {},
	}

	require.NoError(t, view.Validate())
	require.NoError(t, click.Validate())

	kind, _ := view.Kind()
	assert.Equal(t, KindPromoView, kind)
	kind, _ = click.Kind()
	assert.Equal(t, KindPromotionClick, kind)
}

func TestCatalog_CheckoutPushes(t *testing.T) {
	checkout := DataLayerPush{
		Event: EventCheckout,
		Ecommerce: Ecommerce{
			Checkout: &CheckoutPayload{
				ActionField: &StepOptionActionField{Step: 1, Option: "Visa"},
				Products:    []ProductFieldObject{tShirt()},
			},
		},
	}
	option := DataLayerPush{
		Event: EventCheckoutOption,
		Ecommerce: Ecommerce{
			Checkout: &CheckoutPayload{ActionField: &StepOptionActionField{Step: 1, Option: "Visa"}},
		},
	}

	require.NoError(t, checkout.Validate())
	require.NoError(t, option.Validate())

	kind, _ := checkout.Kind()
	assert.Equal(t, KindCheckout, kind)
	kind, _ = option.Kind()
	assert.Equal(t, KindCheckoutOption, kind)
}

func TestCatalog_PurchaseAndRefundPushes(t *testing.T) {
	purchase := DataLayerPush{
		Ecommerce: Ecommerce{
			CurrencyCode: CurrencyUSD,
			Purchase: &PurchasePayload{
				ActionField: TransactionActionField{
					ID: "T12345", Affiliation: "Online Store", Revenue: "35.43", Tax: "4.90", Shipping: "5.99", Coupon: "SUMMER_SALE",
				},
				Products: []ProductFieldObject{tShirt()},
			},
		},
	}
	refund := DataLayerPush{
		Ecommerce: Ecommerce{
			Refund: &RefundPayload{
				ActionField: RefundActionField{ID: "T12345"},
				Products:    []RefundProductObject{{ID: "P4567", Quantity: 4}, {ID: "P8901", Quantity: 3}},
			},
		},
	}

	require.NoError(t, purchase.Validate())
	require.NoError(t, refund.Validate())

	kind, _ := purchase.Kind()
	assert.Equal(t, KindPurchase, kind)
	kind, _ = refund.Kind()
	assert.Equal(t, KindRefund, kind)
}

// ============================================
// Kind metadata
// ============================================

func TestKind_Metadata(t *testing.T) {
	tests := []struct {
		kind   Kind
		event  EventName
		key    string
		action Action
	}{
		{KindImpressions, "", "impressions", ""},
		{KindProductClick, EventProductClick, "click", ActionClick},
		{KindDetail, "", "detail", ActionDetail},
		{KindAddToCart, EventAddToCart, "add", ActionAdd},
		{KindRemoveFromCart, EventRemoveFromCart, "remove", ActionRemove},
		{KindPromoView, "", "promoView", ""},
		{KindPromotionClick, EventPromotionClick, "promoClick", ActionPromoClick},
		{KindCheckout, EventCheckout, "checkout", ActionCheckout},
		{KindCheckoutOption, EventCheckoutOption, "checkout", ActionCheckoutOption},
		{KindPurchase, "", "purchase", ActionPurchase},
		{KindRefund, "", "refund", ActionRefund},
	}

	require.Len(t, Kinds(), len(tests))
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.event, tt.kind.EventName())
			assert.Equal(t, tt.key, tt.kind.Key())
			assert.Equal(t, tt.action, tt.kind.Action())
		})
	}
}

// ============================================
// Constructors
// ============================================

func TestConstructors_SetDiscriminator(t *testing.T) {
	shirt := tShirt()
	promo, err := NewPromotion("JUNE_PROMO13", "")
	require.NoError(t, err)
	impression, err := NewImpression("", "Triblend Android T-Shirt")
	require.NoError(t, err)
	tx, err := NewTransaction("T1234")
	require.NoError(t, err)

	build := map[Kind]func() (DataLayerPush, error){
		KindImpressions:    func() (DataLayerPush, error) { return NewImpressionsPush(impression) },
		KindProductClick:   func() (DataLayerPush, error) { return NewProductClickPush(&ListActionField{List: "Search Results"}, shirt) },
		KindDetail:         func() (DataLayerPush, error) { return NewDetailPush(nil, shirt) },
		KindAddToCart:      func() (DataLayerPush, error) { return NewAddToCartPush(shirt) },
		KindRemoveFromCart: func() (DataLayerPush, error) { return NewRemoveFromCartPush(shirt) },
		KindPromoView:      func() (DataLayerPush, error) { return NewPromoViewPush(promo) },
		KindPromotionClick: func() (DataLayerPush, error) { return NewPromotionClickPush(promo) },
		KindCheckout:       func() (DataLayerPush, error) { return NewCheckoutPush(&StepOptionActionField{Step: 1}, shirt) },
		KindCheckoutOption: func() (DataLayerPush, error) { return NewCheckoutOptionPush(StepOptionActionField{Option: "Visa"}) },
		KindPurchase:       func() (DataLayerPush, error) { return NewPurchasePush(tx, shirt) },
		KindRefund:         func() (DataLayerPush, error) { return NewRefundPush(RefundActionField{ID: "T1234"}) },
	}

	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			push, err := build[kind]()
			require.NoError(t, err)
			assert.Equal(t, kind.EventName(), push.Event)

			got, err := push.Kind()
			require.NoError(t, err)
			assert.Equal(t, kind, got)
		})
	}
}

func TestConstructors_RejectEmptyLists(t *testing.T) {
	_, err := NewAddToCartPush()
	assert.ErrorIs(t, err, ErrMalformedShape)

	_, err = NewPromoViewPush()
	assert.ErrorIs(t, err, ErrMalformedShape)

	_, err = NewImpressionsPush()
	assert.ErrorIs(t, err, ErrMalformedShape)

	_, err = NewCheckoutPush(nil)
	assert.ErrorIs(t, err, ErrMalformedShape)
}

func TestConstructors_CopyInputs(t *testing.T) {
	products := []ProductFieldObject{tShirt()}
	list := &ListActionField{List: "Search Results"}

	push, err := NewProductClickPush(list, products...)
	require.NoError(t, err)

	products[0].ID = "changed"
	list.List = "changed"

	assert.Equal(t, "12345", push.Ecommerce.Click.Products[0].ID)
	assert.Equal(t, "Search Results", push.Ecommerce.Click.ActionField.List)
}

func TestConstructors_WithOptions(t *testing.T) {
	push, err := NewAddToCartPush(tShirt())
	require.NoError(t, err)

	called := 0
	withOptions := push.WithCurrencyCode(CurrencyEUR).WithEventCallback(func() { called++ })

	assert.Equal(t, CurrencyEUR, withOptions.Ecommerce.CurrencyCode)
	assert.Empty(t, push.Ecommerce.CurrencyCode)
	assert.Nil(t, push.EventCallback)
	require.NotNil(t, withOptions.EventCallback)
	withOptions.EventCallback()
	assert.Equal(t, 1, called)
}

func TestRefundPush_WholeTransaction(t *testing.T) {
	push, err := NewRefundPush(RefundActionField{ID: "T12345"})

	require.NoError(t, err)
	assert.Nil(t, push.Ecommerce.Refund.Products)
}

// ============================================
// Smart constructors
// ============================================

func TestSmartConstructors(t *testing.T) {
	_, err := NewProduct("", "")
	assert.ErrorIs(t, err, ErrMissingIdentifier)
	_, err = NewImpression("", "")
	assert.ErrorIs(t, err, ErrMissingIdentifier)
	_, err = NewPromotion("", "")
	assert.ErrorIs(t, err, ErrMissingIdentifier)
	_, err = NewTransaction("")
	assert.ErrorIs(t, err, ErrMissingTransactionID)
	_, err = NewRefundProduct("", 1)
	assert.ErrorIs(t, err, ErrMissingIdentifier)
	_, err = NewRefundProduct("P1", 0)
	assert.ErrorIs(t, err, ErrMalformedShape)

	p, err := NewProduct("P67890", "")
	require.NoError(t, err)
	assert.Equal(t, "P67890", p.ID)

	p, err = NewProduct("", "Android T-Shirt")
	require.NoError(t, err)
	assert.Equal(t, "Android T-Shirt", p.Name)

	rp, err := NewRefundProduct("P4567", 4)
	require.NoError(t, err)
	assert.Equal(t, RefundProductObject{ID: "P4567", Quantity: 4}, rp)
}

func TestClone_PreservesPresenceAndDetaches(t *testing.T) {
	impression, err := NewImpression("P1", "")
	require.NoError(t, err)
	impression.Metrics = CustomMetrics{"metric1": 1}
	push, err := NewImpressionsPush(impression)
	require.NoError(t, err)

	clone := push.Clone()
	push.Ecommerce.Impressions[0].Metrics["metric1"] = 2
	push.Ecommerce.Impressions[0].List = "changed"

	assert.Equal(t, 1, clone.Ecommerce.Impressions[0].Metrics["metric1"])
	assert.Empty(t, clone.Ecommerce.Impressions[0].List)
	kind, err := clone.Kind()
	require.NoError(t, err)
	assert.Equal(t, KindImpressions, kind)
}

func TestClone_CheckoutOptionKeepsNilProducts(t *testing.T) {
	push, err := NewCheckoutOptionPush(StepOptionActionField{Step: 2, Option: "FedEx"})
	require.NoError(t, err)

	clone := push.Clone()
	push.Ecommerce.Checkout.ActionField.Option = "DHL"

	assert.Nil(t, clone.Ecommerce.Checkout.Products)
	assert.Equal(t, "FedEx", clone.Ecommerce.Checkout.ActionField.Option)
	assert.NoError(t, clone.Validate())
}
