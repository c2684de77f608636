package models

// Timestamps are ISO-8601 UTC strings with second precision
// ("2006-01-02T15:04:05Z"), stored as TEXT. Monetary amounts are integer
// minor units (cents). Nullable columns map to pointer fields so JSON
// output carries null rather than a zero value.

// Customer represents a CRM account, individual or business
type Customer struct {
	ID        int64   `db:"id" json:"id"`
	Name      string  `db:"name" json:"name"`
	Type      string  `db:"type" json:"type"`
	Email     *string `db:"email" json:"email"`
	Phone     *string `db:"phone" json:"phone"`
	Status    string  `db:"status" json:"status"`
	CreatedAt string  `db:"created_at" json:"created_at"`
	UpdatedAt string  `db:"updated_at" json:"updated_at"`
}

// CustomerDetail is a customer with its nested addresses and contacts
type CustomerDetail struct {
	Customer
	Addresses []Address `json:"addresses"`
	Contacts  []Contact `json:"contacts"`
}

// Address is a postal address owned by a customer
type Address struct {
	ID         int64   `db:"id" json:"id"`
	CustomerID int64   `db:"customer_id" json:"customer_id"`
	Line1      string  `db:"line1" json:"line1"`
	Line2      *string `db:"line2" json:"line2"`
	City       *string `db:"city" json:"city"`
	State      *string `db:"state" json:"state"`
	PostalCode *string `db:"postal_code" json:"postal_code"`
	Country    string  `db:"country" json:"country"`
	IsPrimary  bool    `db:"is_primary" json:"is_primary"`
}

// Contact is a named person attached to a customer
type Contact struct {
	ID         int64   `db:"id" json:"id"`
	CustomerID int64   `db:"customer_id" json:"customer_id"`
	Name       string  `db:"name" json:"name"`
	Email      *string `db:"email" json:"email"`
	Phone      *string `db:"phone" json:"phone"`
	Role       *string `db:"role" json:"role"`
}

// Product represents a catalog entry
type Product struct {
	ID          int64   `db:"id" json:"id"`
	SKU         string  `db:"sku" json:"sku"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description"`
	Category    *string `db:"category" json:"category"`
	PriceCents  int64   `db:"price_cents" json:"price_cents"`
	Currency    string  `db:"currency" json:"currency"`
	IsActive    bool    `db:"is_active" json:"is_active"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
}

// Order represents a customer order; TotalCents is derived from the
// order's items and never updated independently
type Order struct {
	ID         int64   `db:"id" json:"id"`
	CustomerID int64   `db:"customer_id" json:"customer_id"`
	Status     string  `db:"status" json:"status"`
	TotalCents int64   `db:"total_cents" json:"total_cents"`
	Currency   string  `db:"currency" json:"currency"`
	Notes      *string `db:"notes" json:"notes"`
	CreatedAt  string  `db:"created_at" json:"created_at"`
	UpdatedAt  string  `db:"updated_at" json:"updated_at"`
}

// OrderSummary is an order joined with its customer's name, for listings
type OrderSummary struct {
	Order
	CustomerName string `db:"customer_name" json:"customer_name"`
}

// OrderItem is a line on an order. UnitPriceCents is a snapshot of the
// product price at order time, not a live reference.
type OrderItem struct {
	ID             int64 `db:"id" json:"id"`
	OrderID        int64 `db:"order_id" json:"order_id"`
	ProductID      int64 `db:"product_id" json:"product_id"`
	Quantity       int64 `db:"quantity" json:"quantity"`
	UnitPriceCents int64 `db:"unit_price_cents" json:"unit_price_cents"`
	LineTotalCents int64 `db:"line_total_cents" json:"line_total_cents"`
}

// OrderItemDetail is an order item joined with the referenced product's
// sku and name
type OrderItemDetail struct {
	OrderItem
	SKU  string `db:"sku" json:"sku"`
	Name string `db:"name" json:"name"`
}

// CreatedOrder is the shape returned by order creation: the order plus
// its freshly inserted items
type CreatedOrder struct {
	Order
	Items []OrderItem `json:"items"`
}

// OrderDetail is the shape returned by order fetch: the order plus its
// items joined with product sku and name
type OrderDetail struct {
	Order
	Items []OrderItemDetail `json:"items"`
}

// Case is a support case, optionally linked to an order
type Case struct {
	ID          int64   `db:"id" json:"id"`
	CustomerID  int64   `db:"customer_id" json:"customer_id"`
	OrderID     *int64  `db:"order_id" json:"order_id"`
	Title       string  `db:"title" json:"title"`
	Description *string `db:"description" json:"description"`
	Status      string  `db:"status" json:"status"`
	Priority    string  `db:"priority" json:"priority"`
	Assignee    *string `db:"assignee" json:"assignee"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
	UpdatedAt   string  `db:"updated_at" json:"updated_at"`
}

// CaseSummary is a case joined with its customer's name, for listings
type CaseSummary struct {
	Case
	CustomerName string `db:"customer_name" json:"customer_name"`
}

// Activity is an audit-trail entry recorded on every mutating write
type Activity struct {
	ID         int64  `db:"id" json:"id"`
	EntityType string `db:"entity_type" json:"entity_type"`
	EntityID   int64  `db:"entity_id" json:"entity_id"`
	Activity   string `db:"activity" json:"activity"`
	CreatedAt  string `db:"created_at" json:"created_at"`
}

// SearchResults holds the four bounded result lists of a cross-entity
// search. All four are present regardless of whether anything matched.
type SearchResults struct {
	Customers []Customer `json:"customers"`
	Products  []Product  `json:"products"`
	Orders    []Order    `json:"orders"`
	Cases     []Case     `json:"cases"`
}

// DashboardMetrics holds the six counters, recomputed fresh on every call
type DashboardMetrics struct {
	Customers     int64 `json:"customers"`
	Products      int64 `json:"products"`
	Orders        int64 `json:"orders"`
	Cases         int64 `json:"cases"`
	OpenCases     int64 `json:"open_cases"`
	PendingOrders int64 `json:"pending_orders"`
}

// Customer types
const (
	CustomerTypeIndividual = "Individual"
	CustomerTypeBusiness   = "Business"
)

// Customer statuses
const (
	CustomerStatusActive   = "Active"
	CustomerStatusInactive = "Inactive"
)

// Order statuses
const (
	OrderStatusPending   = "Pending"
	OrderStatusConfirmed = "Confirmed"
	OrderStatusShipped   = "Shipped"
	OrderStatusCancelled = "Cancelled"
)

// Case statuses
const (
	CaseStatusOpen       = "Open"
	CaseStatusInProgress = "In Progress"
	CaseStatusResolved   = "Resolved"
	CaseStatusClosed     = "Closed"
)

// Case priorities
const (
	CasePriorityLow    = "Low"
	CasePriorityMedium = "Medium"
	CasePriorityHigh   = "High"
)
