package catalog

import (
	"strings"

	"laptopshop/models"
)

// AllBrands is the brand selector value that matches every laptop.
const AllBrands = "All"

// Filter keeps laptops of the given brand whose name, brand or any spec
// contains query, case-insensitively. An empty brand or AllBrands matches
// any brand; an empty query matches everything.
func Filter(laptops []models.Laptop, brand, query string) []models.Laptop {
	brand = strings.TrimSpace(brand)
	query = strings.ToLower(strings.TrimSpace(query))

	out := []models.Laptop{}
	for _, l := range laptops {
		if brand != "" && brand != AllBrands && l.Brand != brand {
			continue
		}
		if query != "" && !matches(l, query) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func matches(l models.Laptop, q string) bool {
	if strings.Contains(strings.ToLower(l.Name), q) || strings.Contains(strings.ToLower(l.Brand), q) {
		return true
	}
	for _, spec := range l.Specs {
		if strings.Contains(strings.ToLower(spec), q) {
			return true
		}
	}
	return false
}

// Brands returns AllBrands followed by each distinct brand in first-seen order.
func Brands(laptops []models.Laptop) []string {
	brands := []string{AllBrands}
	seen := map[string]bool{}
	for _, l := range laptops {
		if l.Brand == "" || seen[l.Brand] {
			continue
		}
		seen[l.Brand] = true
		brands = append(brands, l.Brand)
	}
	return brands
}
