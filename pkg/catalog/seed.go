package catalog

import "github.com/shopspring/decimal"

// Seed returns the sample product data the storefront starts with.
func Seed() []*Product {
	return []*Product{
		{ID: 1, Name: "Classic White T-Shirt", Category: "Clothing", Price: decimal.RequireFromString("19.99"), Stock: 25, Description: "100% cotton, comfortable everyday tee."},
		{ID: 2, Name: "Wireless Headphones", Category: "Electronics", Price: decimal.RequireFromString("89.50"), Stock: 10, Description: "Over-ear, 20hr battery life, noise cancellation."},
		{ID: 3, Name: "Stainless Water Bottle 1L", Category: "Home", Price: decimal.RequireFromString("24.00"), Stock: 40, Description: "Keeps drinks hot or cold for hours."},
		{ID: 4, Name: "Running Shoes", Category: "Footwear", Price: decimal.RequireFromString("120.00"), Stock: 8, Description: "Lightweight, breathable, great for daily runs."},
		{ID: 5, Name: "Bluetooth Speaker", Category: "Electronics", Price: decimal.RequireFromString("45.25"), Stock: 15, Description: "Portable, splash resistant, rich bass."},
		{ID: 6, Name: "Canvas Tote Bag", Category: "Accessories", Price: decimal.RequireFromString("12.75"), Stock: 50, Description: "Durable bag for shopping and everyday use."},
	}
}
