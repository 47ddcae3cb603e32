package ecommerce

// Action is the collector-side action verb a push records.
type Action string

const (
	ActionClick          Action = "click"           // A click on a product or product link for one or more products.
	ActionDetail         Action = "detail"          // A view of product details.
	ActionAdd            Action = "add"             // Adding one or more products to a shopping cart.
	ActionRemove         Action = "remove"          // Remove one or more products from a shopping cart.
	ActionCheckout       Action = "checkout"        // Initiating the checkout process for one or more products.
	ActionCheckoutOption Action = "checkout_option" // Sending the option value for a given checkout step.
	ActionPurchase       Action = "purchase"        // The sale of one or more products.
	ActionRefund         Action = "refund"          // The refund of one or more products.
	ActionPromoClick     Action = "promo_click"     // A click on an internal promotion.
)

// TransactionActionField describes a purchase. ID is required.
type TransactionActionField struct {
	// The transaction ID (e.g. T1234).
	ID string `json:"id"`
	// The store or affiliation from which this transaction occurred (e.g. Google Store).
	Affiliation string `json:"affiliation,omitempty"`
	// Total revenue or grand total of the transaction (e.g. 11.99), including
	// shipping, tax or other adjustments. When empty the collector computes it
	// from the quantity and price of the products in the same hit.
	Revenue  string `json:"revenue,omitempty"`
	Tax      string `json:"tax,omitempty"`
	Shipping string `json:"shipping,omitempty"`
	// The transaction coupon redeemed with the transaction.
	Coupon string `json:"coupon,omitempty"`
	List   string `json:"list,omitempty"`
	Step   int    `json:"step,omitempty"`
	Option string `json:"option,omitempty"`
}

func (a TransactionActionField) Validate() error {
	if a.ID == "" {
		return ErrMissingTransactionID
	}
	return nil
}

func NewTransaction(id string) (TransactionActionField, error) {
	a := TransactionActionField{ID: id}
	if err := a.Validate(); err != nil {
		return TransactionActionField{}, err
	}
	return a, nil
}

// StepOptionActionField accepts a step, an option, both, or neither.
type StepOptionActionField struct {
	// A number representing a step in the checkout process. Zero means unset.
	Step int `json:"step,omitempty"`
	// Option information for the checkout step, like the selected payment method.
	Option string `json:"option,omitempty"`
}

type ListActionField struct {
	// The list that the associated products belong to.
	List string `json:"list"`
}

// RefundActionField names the transaction being refunded.
type RefundActionField struct {
	ID string `json:"id"`
}

func (a RefundActionField) Validate() error {
	if a.ID == "" {
		return ErrMissingTransactionID
	}
	return nil
}
