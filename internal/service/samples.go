package service

import "campustech-backend/internal/models"

func sampleItems() []models.Item {
	return []models.Item{
		{Name: "Little Prince", Description: "A book for all ages", Category: "book", Brand: "Penguin", Price: 20, Quantity: 100, ImageURL: "/images/little-prince.jpg"},
		{Name: "iPad Pro", Description: "A portable device for personal use", Category: "computer", Brand: "Apple", Price: 500, Quantity: 50, ImageURL: "/images/ipad.jpg"},
		{Name: "Dell XPS Laptop", Description: "A laptop for personal use", Category: "computer", Brand: "Dell", Price: 1500, Quantity: 30, ImageURL: "/images/dell-laptop.jpg"},
		{Name: "iPhone 15 Pro", Description: "Latest smartphone with advanced camera and A17 chip", Category: "phone", Brand: "Apple", Price: 999, Quantity: 75, ImageURL: "/images/iphone15.jpg"},
		{Name: "Samsung Galaxy S24", Description: "Flagship Android phone with stunning display", Category: "phone", Brand: "Samsung", Price: 899, Quantity: 60, ImageURL: "/images/galaxy-s24.jpg"},
		{Name: "AirPods Pro", Description: "Wireless earbuds with active noise cancellation", Category: "audio", Brand: "Apple", Price: 249, Quantity: 120, ImageURL: "/images/airpods-pro.jpg"},
		{Name: "Sony WH-1000XM5", Description: "Premium noise-canceling over-ear headphones", Category: "audio", Brand: "Sony", Price: 399, Quantity: 45, ImageURL: "/images/sony-headphones.jpg"},
		{Name: "MacBook Air M2", Description: "Lightweight laptop with Apple silicon", Category: "computer", Brand: "Apple", Price: 1199, Quantity: 35, ImageURL: "/images/macbook-air.jpg"},
		{Name: "HP Pavilion Desktop", Description: "Powerful desktop computer for work and gaming", Category: "computer", Brand: "HP", Price: 899, Quantity: 25, ImageURL: "/images/hp-desktop.jpg"},
		{Name: "Nintendo Switch", Description: "Portable gaming console with versatile play modes", Category: "gaming", Brand: "Nintendo", Price: 299, Quantity: 80, ImageURL: "/images/nintendo-switch.jpg"},
		{Name: "PlayStation 5", Description: "Next-gen gaming console with 4K graphics", Category: "gaming", Brand: "Sony", Price: 499, Quantity: 40, ImageURL: "/images/ps5.jpg"},
		{Name: "Apple Watch Series 9", Description: "Advanced fitness and health tracking smartwatch", Category: "wearable", Brand: "Apple", Price: 399, Quantity: 65, ImageURL: "/images/apple-watch.jpg"},
	}
}
