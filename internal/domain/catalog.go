package domain

type Restaurant struct {
	ID           int
	Name         string
	Address      string
	ContactPhone string
}

type ProductCategory struct {
	ID   int
	Name string
}

// Product is a catalog entry. Price is held in minor currency units.
type Product struct {
	ID            int
	Name          string
	Category      *ProductCategory
	PriceMinor    int64
	Image         string
	SpecialStatus bool
	Description   string
}

// MenuItem pairs a restaurant with a product it may offer.
// A (restaurant, product) pair appears at most once.
type MenuItem struct {
	Restaurant Restaurant
	Product    Product
	Available  bool
}
