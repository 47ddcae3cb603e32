package ecommerce

import (
	"encoding/json"
	"fmt"
)

// Identity is the id/name pair shared by products and promotions.
// One of ID or Name must be set; both may be.
type Identity struct {
	// The product ID or SKU (e.g. P67890).
	ID string `json:"id,omitempty"`
	// The name of the product (e.g. Android T-Shirt).
	Name string `json:"name,omitempty"`
}

// Validate reports ErrMissingIdentifier when neither ID nor Name is set.
func (i Identity) Validate() error {
	if i.ID == "" && i.Name == "" {
		return ErrMissingIdentifier
	}
	return nil
}

type ProductObjectCommon struct {
	// The brand associated with the product (e.g. Google).
	Brand string `json:"brand,omitempty"`
	// The category to which the product belongs (e.g. Apparel). Use / as a
	// delimiter to specify up to 5 levels of hierarchy (e.g. Apparel/Men/T-Shirts).
	Category string `json:"category,omitempty"`
	// The variant of the product (e.g. Black).
	Variant string `json:"variant,omitempty"`
	// The product's 1-based position in a list or collection. Zero means unset.
	Position int `json:"position,omitempty"`
	// The price of a product (e.g. 29.20).
	Price string `json:"price,omitempty"`
}

// CustomMetrics and CustomDimensions are supplied by the caller and merged
// flat into the encoded product record (e.g. "metric1": 3, "dimension2": "gold").
// The catalog does not interpret them.
type (
	CustomMetrics    map[string]any
	CustomDimensions map[string]any
)

type BaseProductObject struct {
	Identity
	ProductObjectCommon
	Metrics    CustomMetrics    `json:"-"`
	Dimensions CustomDimensions `json:"-"`
}

// ImpressionFieldObject is one product shown in a list.
type ImpressionFieldObject struct {
	BaseProductObject
	// The list or collection to which the product belongs (e.g. Search Results).
	List string `json:"list,omitempty"`
}

func (o ImpressionFieldObject) MarshalJSON() ([]byte, error) {
	type plain ImpressionFieldObject
	return marshalWithExtensions(plain(o), impressionKeys, o.Metrics, o.Dimensions)
}

// ProductFieldObject is one product taking part in an action.
type ProductFieldObject struct {
	BaseProductObject
	// The quantity of a product (e.g. 2).
	Quantity int `json:"quantity,omitempty"`
	// The coupon code associated with a product (e.g. SUMMER_SALE13).
	Coupon string `json:"coupon,omitempty"`
}

func (o ProductFieldObject) MarshalJSON() ([]byte, error) {
	type plain ProductFieldObject
	return marshalWithExtensions(plain(o), productKeys, o.Metrics, o.Dimensions)
}

type PromotionFieldObject struct {
	Identity
	// The creative associated with the promotion (e.g. summer_banner2).
	Creative string `json:"creative,omitempty"`
	// The position of the creative (e.g. banner_slot_1).
	Position string `json:"position,omitempty"`
}

// RefundProductObject identifies a product being refunded. Both fields are required.
type RefundProductObject struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

func (o RefundProductObject) Validate() error {
	if o.ID == "" {
		return ErrMissingIdentifier
	}
	if o.Quantity <= 0 {
		return fmt.Errorf("%w: quantity is required", ErrMalformedShape)
	}
	return nil
}

func NewProduct(id, name string) (ProductFieldObject, error) {
	p := ProductFieldObject{BaseProductObject: BaseProductObject{Identity: Identity{ID: id, Name: name}}}
	if err := p.Validate(); err != nil {
		return ProductFieldObject{}, err
	}
	return p, nil
}

func NewImpression(id, name string) (ImpressionFieldObject, error) {
	o := ImpressionFieldObject{BaseProductObject: BaseProductObject{Identity: Identity{ID: id, Name: name}}}
	if err := o.Validate(); err != nil {
		return ImpressionFieldObject{}, err
	}
	return o, nil
}

func NewPromotion(id, name string) (PromotionFieldObject, error) {
	o := PromotionFieldObject{Identity: Identity{ID: id, Name: name}}
	if err := o.Validate(); err != nil {
		return PromotionFieldObject{}, err
	}
	return o, nil
}

func NewRefundProduct(id string, quantity int) (RefundProductObject, error) {
	o := RefundProductObject{ID: id, Quantity: quantity}
	if err := o.Validate(); err != nil {
		return RefundProductObject{}, err
	}
	return o, nil
}

// Catalog keys of each product record. Custom fields never take them, even
// when the catalog field is empty and omitted from the encoding.
var (
	baseProductKeys = []string{"id", "name", "brand", "category", "variant", "position", "price"}
	impressionKeys  = keySet(baseProductKeys, "list")
	productKeys     = keySet(baseProductKeys, "quantity", "coupon")
)

func keySet(base []string, extra ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(base)+len(extra))
	for _, k := range append(append([]string{}, base...), extra...) {
		set[k] = struct{}{}
	}
	return set
}

// marshalWithExtensions encodes v and merges the extension maps into the
// resulting object. Reserved keys and keys already present in the encoding
// are never replaced.
func marshalWithExtensions(v any, reserved map[string]struct{}, extensions ...map[string]any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	n := 0
	for _, ext := range extensions {
		n += len(ext)
	}
	if n == 0 {
		return data, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for _, ext := range extensions {
		for key, value := range ext {
			if _, isCatalogKey := reserved[key]; isCatalogKey {
				continue
			}
			if _, taken := fields[key]; taken {
				continue
			}
			raw, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("failed to encode custom field %s: %w", key, err)
			}
			fields[key] = raw
		}
	}
	return json.Marshal(fields)
}
