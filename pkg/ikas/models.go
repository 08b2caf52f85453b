package ikas

import (
	"strings"
	"time"
)

// Order is the subset of the ikas order the actions read.
type Order struct {
	ID                 string     `json:"id"`
	OrderNumber        string     `json:"orderNumber,omitempty"`
	OrderedAt          int64      `json:"orderedAt,omitempty"` // epoch milliseconds
	Status             string     `json:"status,omitempty"`
	OrderPaymentStatus string     `json:"orderPaymentStatus,omitempty"`
	OrderPackageStatus string     `json:"orderPackageStatus,omitempty"`
	TotalFinalPrice    float64    `json:"totalFinalPrice"`
	CurrencyCode       string     `json:"currencyCode,omitempty"`
	Customer           *Customer  `json:"customer,omitempty"`
	BillingAddress     *Address   `json:"billingAddress,omitempty"`
	ShippingAddress    *Address   `json:"shippingAddress,omitempty"`
	OrderLineItems     []LineItem `json:"orderLineItems,omitempty"`
}

// OrderedTime converts OrderedAt to a UTC time. The zero time is returned
// when the order has no timestamp.
func (o *Order) OrderedTime() time.Time {
	if o.OrderedAt == 0 {
		return time.Time{}
	}

	return time.UnixMilli(o.OrderedAt).UTC()
}

// CustomerName returns the customer's full name, falling back to first and
// last name.
func (o *Order) CustomerName() string {
	if o.Customer == nil {
		return ""
	}

	if o.Customer.FullName != "" {
		return o.Customer.FullName
	}

	return strings.TrimSpace(o.Customer.FirstName + " " + o.Customer.LastName)
}

// ItemCount returns the number of line items.
func (o *Order) ItemCount() int {
	return len(o.OrderLineItems)
}

type Customer struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	FullName  string `json:"fullName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type Address struct {
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Phone        string `json:"phone,omitempty"`
	AddressLine1 string `json:"addressLine1,omitempty"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         *Named `json:"city,omitempty"`
	State        *Named `json:"state,omitempty"`
	Country      *Named `json:"country,omitempty"`
	PostalCode   string `json:"postalCode,omitempty"`
}

// Summary renders the address on one line, skipping empty parts.
func (a *Address) Summary() string {
	if a == nil {
		return ""
	}

	parts := []string{a.AddressLine1, a.AddressLine2, a.City.name(), a.State.name(), a.PostalCode, a.Country.name()}

	nonEmpty := parts[:0]
	for _, part := range parts {
		if part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}

	return strings.Join(nonEmpty, ", ")
}

// Named is a location reference (city, state, country).
type Named struct {
	Name string `json:"name,omitempty"`
}

func (n *Named) name() string {
	if n == nil {
		return ""
	}

	return n.Name
}

type LineItem struct {
	ID         string   `json:"id"`
	Quantity   float64  `json:"quantity"`
	FinalPrice float64  `json:"finalPrice"`
	Variant    *Variant `json:"variant,omitempty"`
}

type Variant struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	SKU  string `json:"sku,omitempty"`
}

// Merchant is the store owning an installation.
type Merchant struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	StoreName string `json:"storeName,omitempty"`
}

// AuthorizedApp is an installation of the app on a store.
type AuthorizedApp struct {
	ID             string `json:"id"`
	SalesChannelID string `json:"salesChannelId,omitempty"`
}
