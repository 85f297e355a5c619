package handlers

import (
	"context"
	"errors"
	"foodcart-service/internal/api/dto"
	"foodcart-service/internal/domain"
	"foodcart-service/internal/services"
	"log"
	"net/http"
)

type OrderRegistrar interface {
	Register(ctx context.Context, req services.OrderRequest) (*domain.Order, error)
}

type OrderHandler struct {
	Intake OrderRegistrar
}

// Register validates and stores a submitted order.
func (h *OrderHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.OrderRequest
	if err := decodeJSON(r, &req); err != nil {
		if errors.Is(err, errTrailingData) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	svcReq := services.OrderRequest{
		Products:    make([]services.OrderRequestLine, 0, len(req.Products)),
		Firstname:   req.Firstname,
		Lastname:    req.Lastname,
		Phonenumber: req.Phonenumber,
		Address:     req.Address,
		Comment:     req.Comment,
		Payment:     req.Payment,
	}
	for _, p := range req.Products {
		svcReq.Products = append(svcReq.Products, services.OrderRequestLine{Product: p.Product, Quantity: p.Quantity})
	}

	order, err := h.Intake.Register(r.Context(), svcReq)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			writeValidationError(w, r, verr)
			return
		}
		log.Printf("register order failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.OrderCreatedResponse{Status: "ok", OrderID: order.ID})
}

func writeValidationError(w http.ResponseWriter, r *http.Request, verr *services.ValidationError) {
	res := dto.ValidationErrorResponse{
		Error:  verr.Error(),
		Fields: make([]dto.FieldErrorResponse, 0, len(verr.Fields)),
	}
	for _, f := range verr.Fields {
		res.Fields = append(res.Fields, dto.FieldErrorResponse{Field: f.Field, Message: f.Message})
	}
	writeJSON(w, r, http.StatusBadRequest, res)
}
