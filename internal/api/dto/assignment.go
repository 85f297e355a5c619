package dto

import "time"

// DistanceKm is null when either address could not be geocoded.
type CandidateRestaurantResponse struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	DistanceKm *float64 `json:"distance_km"`
}

type AssignmentResponse struct {
	OrderID      int                           `json:"order_id"`
	Status       string                        `json:"status"`
	Client       string                        `json:"client"`
	Phonenumber  string                        `json:"phonenumber"`
	Address      string                        `json:"address"`
	Comment      string                        `json:"comment"`
	Payment      string                        `json:"payment"`
	Total        string                        `json:"total"`
	RegisteredAt time.Time                     `json:"registered_at"`
	Restaurants  []CandidateRestaurantResponse `json:"restaurants"`
}

type ListAssignmentResponse struct {
	Orders []AssignmentResponse `json:"orders"`
}
