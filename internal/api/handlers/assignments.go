package handlers

import (
	"context"
	"foodcart-service/internal/api/dto"
	"foodcart-service/internal/services"
	"log"
	"net/http"
)

type AssignmentLister interface {
	List(ctx context.Context) ([]services.OrderAssignment, error)
}

type AssignmentHandler struct {
	Service AssignmentLister
}

// List returns unprocessed orders with candidate restaurants, nearest first.
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	assignments, err := h.Service.List(r.Context())
	if err != nil {
		log.Printf("list assignments failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListAssignmentResponse{Orders: make([]dto.AssignmentResponse, 0, len(assignments))}
	for _, a := range assignments {
		o := a.Order
		candidates := make([]dto.CandidateRestaurantResponse, 0, len(a.Restaurants))
		for _, rr := range a.Restaurants {
			candidates = append(candidates, dto.CandidateRestaurantResponse{
				ID:         rr.Restaurant.ID,
				Name:       rr.Restaurant.Name,
				Address:    rr.Restaurant.Address,
				DistanceKm: rr.DistanceKm,
			})
		}

		res.Orders = append(res.Orders, dto.AssignmentResponse{
			OrderID:      o.ID,
			Status:       string(o.Status),
			Client:       o.FullName(),
			Phonenumber:  o.Phonenumber,
			Address:      o.Address,
			Comment:      o.Comment,
			Payment:      string(o.Payment),
			Total:        formatMinor(o.TotalMinor()),
			RegisteredAt: o.RegisteredAt,
			Restaurants:  candidates,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
