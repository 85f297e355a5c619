package handlers

import (
	"foodcart-service/internal/api/dto"
	"foodcart-service/internal/ports"
	"log"
	"net/http"
	"strings"
)

type CatalogHandler struct {
	Repo ports.CatalogRepository
	// URL prefix for product images and banner files.
	StaticURL string
}

var banners = []dto.BannerResponse{
	{Title: "Burger", Src: "burger.jpg", Text: "Tasty Burger at your door step"},
	{Title: "Spices", Src: "food.jpg", Text: "All Cuisines"},
	{Title: "New York", Src: "tasty.jpg", Text: "Food is incomplete without a tasty dessert"},
}

// Banners returns the static promotional banners.
func (h *CatalogHandler) Banners(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	res := make([]dto.BannerResponse, 0, len(banners))
	for _, b := range banners {
		b.Src = h.staticURL(b.Src)
		res = append(res, b)
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Products lists products offered by at least one restaurant.
func (h *CatalogHandler) Products(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	products, err := h.Repo.ListAvailableProducts(r.Context())
	if err != nil {
		log.Printf("list products failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		item := dto.ProductResponse{
			ID:            p.ID,
			Name:          p.Name,
			Price:         formatMinor(p.PriceMinor),
			SpecialStatus: p.SpecialStatus,
			Description:   p.Description,
		}
		if p.Image != "" {
			item.Image = h.staticURL(p.Image)
		}
		if p.Category != nil {
			item.Category = &dto.CategoryResponse{ID: p.Category.ID, Name: p.Category.Name}
		}
		res = append(res, item)
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *CatalogHandler) staticURL(name string) string {
	prefix := h.StaticURL
	if prefix == "" {
		prefix = "/static/"
	}
	return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(name, "/")
}
