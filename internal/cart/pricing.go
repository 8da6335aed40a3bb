package cart

import "storefront-demo/internal/model"

// Flat-rate delivery and default discount. There is no promotion
// engine; the discount stays zero unless a caller passes its own.
const (
	DeliveryCharge  float64 = 5
	DefaultDiscount float64 = 0
)

// Compute derives the pricing summary for a list of line items. It is
// a pure function and tolerates partial data: a zero or negative
// quantity counts as 1, a missing price as 0. Values are exact; any
// rounding for display is up to the caller.
func Compute(items []model.LineItem, deliveryCharge, discount float64) model.PricingSummary {
	var subTotal float64
	for _, it := range items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		subTotal += it.Price * float64(qty)
	}

	return model.PricingSummary{
		SubTotal:       subTotal,
		DeliveryCharge: deliveryCharge,
		Discount:       discount,
		Total:          subTotal + deliveryCharge - discount,
	}
}
