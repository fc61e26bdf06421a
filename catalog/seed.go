package catalog

import "laptopshop/models"

// DefaultLaptops is the starter catalog inserted into an empty store.
func DefaultLaptops() []models.LaptopInput {
	return []models.LaptopInput{
		seed("MacBook Air M2", "Apple", "ZMW 18,500", "ZMW 20,000", "MacBook+Air+M2", 4.9, 124, "Best Seller",
			[]string{"13.6-inch Display", "8GB RAM", "256GB SSD", "M2 Chip"},
			"The new MacBook Air M2 delivers incredible performance and battery life in an ultra-thin design."),
		seed("ThinkPad X1 Carbon", "Lenovo", "ZMW 15,200", "ZMW 16,800", "ThinkPad+X1", 4.7, 89, "Professional",
			[]string{"14-inch Display", "16GB RAM", "512GB SSD", "Intel i7"},
			"Premium business laptop with legendary ThinkPad durability and performance."),
		seed("XPS 13 Plus", "Dell", "ZMW 16,800", "ZMW 18,200", "Dell+XPS+13", 4.6, 156, "Premium",
			[]string{"13.4-inch OLED", "16GB RAM", "512GB SSD", "Intel i7"},
			"Stunning OLED display and premium design make this Dell XPS a standout choice."),
		seed("Surface Laptop 5", "Microsoft", "ZMW 14,500", "ZMW 15,800", "Surface+Laptop", 4.5, 203, "Popular",
			[]string{"13.5-inch Touch", "8GB RAM", "256GB SSD", "Intel i5"},
			"Perfect balance of style, performance, and portability with Windows 11."),
		seed("ZenBook 14", "ASUS", "ZMW 12,300", "ZMW 13,500", "ASUS+ZenBook", 4.4, 178, "Value",
			[]string{"14-inch FHD", "8GB RAM", "512GB SSD", "AMD Ryzen 7"},
			"Exceptional value with premium features and all-day battery life."),
		seed("Pavilion 15", "HP", "ZMW 9,800", "ZMW 11,200", "HP+Pavilion", 4.2, 267, "Budget",
			[]string{"15.6-inch FHD", "8GB RAM", "256GB SSD", "Intel i5"},
			"Affordable laptop perfect for students and everyday computing needs."),
	}
}

func seed(name, brand, price, original, label string, rating float64, reviews int, badge string, specs []string, desc string) models.LaptopInput {
	inStock := true
	return models.LaptopInput{
		Name:          name,
		Brand:         brand,
		Price:         price,
		OriginalPrice: &original,
		Images:        []string{"/placeholder.svg?height=300&width=400&text=" + label},
		Rating:        &rating,
		Reviews:       &reviews,
		Badge:         &badge,
		Specs:         specs,
		InStock:       &inStock,
		Description:   &desc,
	}
}
