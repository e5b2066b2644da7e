package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/dnguyen-dev/bistro/app/models"
	"github.com/dnguyen-dev/bistro/config"
	"github.com/dnguyen-dev/bistro/pkg/collection"
)

// TaxRate is applied to every cart subtotal.
const TaxRate = 0.10

// Totals is the derived price breakdown for a cart.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// ComputeTotals derives subtotal, tax and total from the cart.
// Deterministic: tax is exactly 10% of subtotal, total = subtotal + tax.
func ComputeTotals(cart []models.CartItem) Totals {
	subtotal := collection.Sum(cart, func(it models.CartItem) float64 {
		return it.Price * float64(it.Quantity)
	})
	tax := subtotal * TaxRate
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// AvailableTables filters tables to those available with capacity for
// the party, preserving input order. An empty result is a valid answer.
func AvailableTables(tables []models.Table, partySize int) []models.Table {
	return collection.Filter(tables, func(t models.Table) bool {
		return t.Status == models.TableAvailable && t.Capacity >= partySize
	})
}

// TimeSlots is the bookable hourly grid.
func TimeSlots() []string {
	slots := make([]string, 0, 15)
	for h := 8; h <= 22; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h))
	}
	return slots
}

// ValidSlot reports whether label is one of the bookable time slots.
func ValidSlot(label string) bool {
	return collection.Contains(TimeSlots(), func(s string) bool { return s == label })
}

// FormatCurrency renders an amount in the configured display style:
// "plain" gives $x.xx, "locale" gives a grouped integer ($1,234).
func FormatCurrency(amount float64) string {
	if config.CurrencyStyle() == "locale" {
		return "$" + groupThousands(int64(math.Round(amount)))
	}
	return fmt.Sprintf("$%.2f", amount)
}

func groupThousands(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
