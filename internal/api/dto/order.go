package dto

type OrderLineRequest struct {
	Product  int `json:"product"`
	Quantity int `json:"quantity"`
}

type OrderRequest struct {
	Products    []OrderLineRequest `json:"products"`
	Firstname   string             `json:"firstname"`
	Lastname    string             `json:"lastname"`
	Phonenumber string             `json:"phonenumber"`
	Address     string             `json:"address"`
	Comment     string             `json:"comment"`
	Payment     string             `json:"payment"`
}

type OrderCreatedResponse struct {
	Status  string `json:"status"`
	OrderID int    `json:"order_id"`
}

type FieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Error  string               `json:"error"`
	Fields []FieldErrorResponse `json:"fields"`
}
