package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
)

var orderProgression = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
}

var (
	ErrUnknownOrderStatus = errors.New("unknown order status")
	ErrOrderFinal         = errors.New("order already delivered")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range orderProgression {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOrderStatus, s)
}

// Next returns the status that follows s.
func (s OrderStatus) Next() (OrderStatus, error) {
	for i, st := range orderProgression {
		if st != s {
			continue
		}
		if i == len(orderProgression)-1 {
			return "", ErrOrderFinal
		}
		return orderProgression[i+1], nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOrderStatus, s)
}

// CheckTransition allows exactly one forward step.
func CheckTransition(from, to OrderStatus) error {
	next, err := from.Next()
	if err != nil {
		return err
	}
	if next != to {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

var TaxRate = decimal.RequireFromString("0.08")

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

func ComputeTotals(items []OrderItem) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	tax := subtotal.Mul(TaxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// Rounded returns the totals rounded to cents for display.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal: t.Subtotal.Round(2),
		Tax:      t.Tax.Round(2),
		Total:    t.Total.Round(2),
	}
}
