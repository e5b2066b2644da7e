package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dnguyen-dev/bistro/app/models"
	"github.com/dnguyen-dev/bistro/app/services"
)

func TestComputeTotalsEmptyCart(t *testing.T) {
	totals := services.ComputeTotals(nil)
	assert.Zero(t, totals.Subtotal)
	assert.Zero(t, totals.Tax)
	assert.Zero(t, totals.Total)
}

func TestComputeTotalsSingleItem(t *testing.T) {
	totals := services.ComputeTotals([]models.CartItem{
		{ID: "4", Price: 45.00, Quantity: 1},
	})
	assert.InDelta(t, 45.00, totals.Subtotal, 1e-9)
	assert.InDelta(t, 4.50, totals.Tax, 1e-9)
	assert.InDelta(t, 49.50, totals.Total, 1e-9)
}

func TestComputeTotalsMultipleLines(t *testing.T) {
	cart := []models.CartItem{
		{ID: "1", Price: 24.00, Quantity: 2},
		{ID: "9", Price: 18.00, Quantity: 3},
	}
	totals := services.ComputeTotals(cart)
	assert.InDelta(t, 102.00, totals.Subtotal, 1e-9)
	assert.InDelta(t, totals.Subtotal*services.TaxRate, totals.Tax, 1e-9)
	assert.InDelta(t, totals.Subtotal+totals.Tax, totals.Total, 1e-9)
}

func TestAvailableTablesFiltersStatusAndCapacity(t *testing.T) {
	tables := []models.Table{
		{Number: 1, Capacity: 2, Status: models.TableAvailable},
		{Number: 4, Capacity: 4, Status: models.TableReserved},
		{Number: 5, Capacity: 4, Status: models.TableAvailable},
		{Number: 8, Capacity: 8, Status: models.TableAvailable},
	}

	got := services.AvailableTables(tables, 4)
	if assert.Len(t, got, 2) {
		// Input order is preserved.
		assert.Equal(t, 5, got[0].Number)
		assert.Equal(t, 8, got[1].Number)
	}
}

func TestAvailableTablesEmptyResult(t *testing.T) {
	tables := []models.Table{
		{Number: 1, Capacity: 2, Status: models.TableAvailable},
	}
	assert.Empty(t, services.AvailableTables(tables, 12))
}

func TestTimeSlots(t *testing.T) {
	slots := services.TimeSlots()
	assert.Len(t, slots, 15)
	assert.Equal(t, "08:00", slots[0])
	assert.Equal(t, "22:00", slots[len(slots)-1])
}

func TestValidSlot(t *testing.T) {
	assert.True(t, services.ValidSlot("08:00"))
	assert.True(t, services.ValidSlot("19:00"))
	assert.False(t, services.ValidSlot("07:00"))
	assert.False(t, services.ValidSlot("19:30"))
	assert.False(t, services.ValidSlot(""))
}

func TestFormatCurrencyPlain(t *testing.T) {
	assert.Equal(t, "$45.00", services.FormatCurrency(45))
	assert.Equal(t, "$49.50", services.FormatCurrency(49.5))
	assert.Equal(t, "$0.00", services.FormatCurrency(0))
}
