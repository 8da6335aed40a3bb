package model

// Product mirrors the catalog object returned by GET /api/product.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	SVGImage    string  `json:"svgImage,omitempty"`
}

// LineItem is a product plus the cart-local quantity. Quantity is kept
// at 1 or above by the cart store.
type LineItem struct {
	Product
	Quantity int `json:"quantity"`
}

// PricingSummary is the derived monetary breakdown of a cart. It is
// always recomputed from the items, never mutated directly.
type PricingSummary struct {
	SubTotal       float64 `json:"subTotal"`
	DeliveryCharge float64 `json:"deliveryCharge"`
	Discount       float64 `json:"discount"`
	Total          float64 `json:"total"`
}

// CartSnapshot is the persisted mirror of the cart: the item list plus
// the summary derived from it.
type CartSnapshot struct {
	Items []LineItem `json:"items"`
	PricingSummary
}

type OrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderRequest is the body of POST /api/order/add.
type OrderRequest struct {
	Name          string      `json:"name"`
	Address       string      `json:"address"`
	MobileNumber  string      `json:"mobileNumber"`
	PaymentMethod string      `json:"paymentMethod"`
	Items         []OrderItem `json:"items"`
	Total         float64     `json:"total"`
}

// OrderSummary is one row of GET /api/order-history/all.
type OrderSummary struct {
	OrderID     string `json:"orderId"`
	OrderDate   string `json:"orderDate"`
	OrderStatus string `json:"orderStatus"`
	OrderTotal  string `json:"orderTotal"`
}

// OrderDetail is the response of GET /api/order-history/{id}.
type OrderDetail struct {
	OrderID       string      `json:"orderId"`
	Name          string      `json:"name"`
	Address       string      `json:"address"`
	MobileNumber  string      `json:"mobileNumber"`
	PaymentMethod string      `json:"paymentMethod"`
	Items         []OrderItem `json:"items"`
	Total         float64     `json:"total"`
	Status        int         `json:"status"`
	OrderDate     string      `json:"orderDate"`
}

type DeliveryAddress struct {
	ID        string `json:"id"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
	Label     string `json:"label,omitempty"`
	IsDefault bool   `json:"isDefault"`
}

type UserProfile struct {
	FirstName         string            `json:"firstName"`
	LastName          string            `json:"lastName"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	DateOfBirth       string            `json:"dateOfBirth,omitempty"`
	Gender            string            `json:"gender,omitempty"`
	DeliveryAddresses []DeliveryAddress `json:"deliveryAddresses"`
}
