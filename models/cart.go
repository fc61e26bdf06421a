package models

import "time"

type CartItem struct {
	LaptopID int    `json:"id"`
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Price    string `json:"price"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
}

type WishlistItem struct {
	LaptopID  int       `json:"id"`
	Name      string    `json:"name"`
	Brand     string    `json:"brand"`
	Price     string    `json:"price"`
	Image     string    `json:"image"`
	DateAdded time.Time `json:"dateAdded"`
}

// CartItemFromLaptop denormalizes the display fields of l into a cart line.
func CartItemFromLaptop(l Laptop) CartItem {
	return CartItem{
		LaptopID: l.ID,
		Name:     l.Name,
		Brand:    l.Brand,
		Price:    l.Price,
		Image:    l.PrimaryImage(),
	}
}

func WishlistItemFromLaptop(l Laptop) WishlistItem {
	return WishlistItem{
		LaptopID: l.ID,
		Name:     l.Name,
		Brand:    l.Brand,
		Price:    l.Price,
		Image:    l.PrimaryImage(),
	}
}
