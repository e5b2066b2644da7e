package controllers

import (
	"net/http"
	"strconv"

	"github.com/dnguyen-dev/bistro/app/repositories"
	"github.com/dnguyen-dev/bistro/app/services"
	"github.com/dnguyen-dev/bistro/pkg/response"
)

// TableController serves the table inventory and the time-slot grid.
type TableController struct {
	tables *repositories.TableRepository
}

func NewTableController() *TableController {
	return &TableController{tables: repositories.NewTableRepository()}
}

// Index lists tables. With ?guests=N only tables that are available
// and can seat the party are returned, in room order.
// GET /api/tables
func (c *TableController) Index(w http.ResponseWriter, r *http.Request) {
	tables, err := c.tables.All()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "tables unavailable")
		return
	}

	if raw := r.URL.Query().Get("guests"); raw != "" {
		guests, err := strconv.Atoi(raw)
		if err != nil || guests < 1 {
			response.Error(w, http.StatusBadRequest, "guests must be a positive integer")
			return
		}
		tables = services.AvailableTables(tables, guests)
	}

	response.Success(w, tables)
}

// Slots returns the bookable time labels. GET /api/tables/slots
func (c *TableController) Slots(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, services.TimeSlots())
}
