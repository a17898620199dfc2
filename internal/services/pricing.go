package services

import (
	"storefront/internal/models"

	"github.com/shopspring/decimal"
)

// Pricing holds the rules used to turn a subtotal into tax, shipping and a
// total. The same rules price the cart view and the order created from it.
type Pricing struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
}

// DefaultPricing is 8% tax, free shipping from 50.00, otherwise a 5.99 flat fee.
func DefaultPricing() Pricing {
	return Pricing{
		TaxRate:               decimal.RequireFromString("0.08"),
		FreeShippingThreshold: decimal.RequireFromString("50.00"),
		ShippingFee:           decimal.RequireFromString("5.99"),
	}
}

// Totals computes tax, shipping and total for subtotal. An empty cart
// (itemCount 0) ships for free.
func (p Pricing) Totals(subtotal decimal.Decimal, itemCount int) (tax, shipping, total decimal.Decimal) {
	subtotal = subtotal.Round(2)
	tax = subtotal.Mul(p.TaxRate).Round(2)
	shipping = decimal.Zero
	if itemCount > 0 && subtotal.LessThan(p.FreeShippingThreshold) {
		shipping = p.ShippingFee.Round(2)
	}
	total = subtotal.Add(tax).Add(shipping)
	return tax, shipping, total
}

// PriceCart fills the aggregate fields of a cart from its items.
func (p Pricing) PriceCart(userID string, items []models.CartItem) *models.Cart {
	cart := &models.Cart{UserID: userID, Items: items}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal().Round(2))
		cart.ItemCount += item.Quantity
	}
	cart.Subtotal = subtotal
	cart.Tax, cart.Shipping, cart.Total = p.Totals(subtotal, len(items))
	return cart
}
