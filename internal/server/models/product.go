package models

import "time"

// Product is a catalog item. Image is the asset reference returned by the
// asset store, e.g. "/uploads/1718000000000000000-1a2b3c4d-shoe.png".
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductFields carries the writable attributes of a product. On update a nil
// field means "leave unchanged".
type ProductFields struct {
	Name        *string
	Description *string
	Price       *float64
}

// Upload is an image file received with a product mutation.
type Upload struct {
	Data        []byte
	ContentType string
	FileName    string
}
