package dto

type CategoryResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type ProductResponse struct {
	ID            int               `json:"id"`
	Name          string            `json:"name"`
	Price         string            `json:"price"`
	SpecialStatus bool              `json:"special_status"`
	Description   string            `json:"description"`
	Category      *CategoryResponse `json:"category"`
	Image         string            `json:"image"`
}

type BannerResponse struct {
	Title string `json:"title"`
	Src   string `json:"src"`
	Text  string `json:"text"`
}
