package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dnguyen-dev/bistro/app/models"
	"github.com/dnguyen-dev/bistro/app/repositories"
	"github.com/dnguyen-dev/bistro/pkg/response"
)

// MenuController serves the read-only dish catalogue.
type MenuController struct {
	menu *repositories.MenuRepository
}

func NewMenuController() *MenuController {
	return &MenuController{menu: repositories.NewMenuRepository()}
}

// Index lists the catalogue, optionally filtered by ?category= or
// ?bestsellers=1. GET /api/menu
func (c *MenuController) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("bestsellers") == "1" {
		items, err := c.menu.BestSellers()
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "menu unavailable")
			return
		}
		response.Success(w, items)
		return
	}

	if category := r.URL.Query().Get("category"); category != "" {
		switch category {
		case models.CategoryAppetizers, models.CategoryMain, models.CategoryDesserts:
		default:
			response.Error(w, http.StatusBadRequest, "unknown category")
			return
		}
		items, err := c.menu.ByCategory(category)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "menu unavailable")
			return
		}
		response.Success(w, items)
		return
	}

	items, err := c.menu.All()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "menu unavailable")
		return
	}
	response.Success(w, items)
}

// Show returns one dish with its full description. GET /api/menu/{code}
func (c *MenuController) Show(w http.ResponseWriter, r *http.Request) {
	item, err := c.menu.FindByCode(chi.URLParam(r, "code"))
	if err != nil {
		response.NotFound(w)
		return
	}
	response.Success(w, item)
}
