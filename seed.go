package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/repository"
	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func seedProducts() []entity.Product {
	return []entity.Product{
		{
			Name: "Brake Pad Set (Front)", Brand: "Bosch", Category: "Brakes",
			Description:      "Low-dust ceramic front brake pads with wear indicator.",
			Price:            decimal.RequireFromString("1450.00"),
			OriginalPrice:    decimal.NewNullDecimal(decimal.RequireFromString("1799.00")),
			ImageURL:         strPtr("https://images.unsplash.com/photo-1486262715619-67b85e0b08d3?w=400"),
			Stock:            40,
			CompatibleModels: []string{"Maruti Swift", "Maruti Dzire", "Hyundai i20"},
			IsActive:         true,
		},
		{
			Name: "Engine Oil 5W-30 (4L)", Brand: "Castrol", Category: "Lubricants",
			Description:      "Fully synthetic engine oil for petrol and diesel engines.",
			Price:            decimal.RequireFromString("2399.00"),
			Stock:            120,
			CompatibleModels: []string{"Universal"},
			IsActive:         true,
		},
		{
			Name: "Air Filter", Brand: "Mann", Category: "Filters",
			Description:      "High-flow paper air filter element.",
			Price:            decimal.RequireFromString("349.00"),
			OriginalPrice:    decimal.NewNullDecimal(decimal.RequireFromString("425.00")),
			Stock:            85,
			CompatibleModels: []string{"Honda City", "Honda Amaze"},
			IsActive:         true,
		},
		{
			Name: "Spark Plug (Iridium)", Brand: "NGK", Category: "Ignition",
			Description:      "Iridium tip spark plug for longer service life.",
			Price:            decimal.RequireFromString("520.00"),
			Stock:            200,
			CompatibleModels: []string{"Maruti Swift", "Hyundai Creta", "Tata Nexon"},
			IsActive:         true,
		},
		{
			Name: "Headlight Bulb H4", Brand: "Philips", Category: "Lighting",
			Description:      "Halogen H4 bulb with 30% more light.",
			Price:            decimal.RequireFromString("399.00"),
			Stock:            60,
			CompatibleModels: []string{"Universal"},
			IsActive:         true,
		},
		{
			Name: "Clutch Plate Kit", Brand: "Valeo", Category: "Transmission",
			Description:      "Clutch disc, pressure plate and release bearing.",
			Price:            decimal.RequireFromString("6850.00"),
			Stock:            0,
			CompatibleModels: []string{"Mahindra Scorpio"},
			IsActive:         true,
		},
	}
}

func seedDeliveryAreas() []entity.DeliveryArea {
	return []entity.DeliveryArea{
		{Pincode: "400001", AreaName: "Fort", City: "Mumbai", DeliveryCharge: decimal.Zero, EstimatedDays: 1, IsActive: true},
		{Pincode: "400050", AreaName: "Bandra West", City: "Mumbai", DeliveryCharge: decimal.NewFromInt(49), EstimatedDays: 2, IsActive: true},
		{Pincode: "411001", AreaName: "Pune Camp", City: "Pune", DeliveryCharge: decimal.NewFromInt(99), EstimatedDays: 3, IsActive: true},
	}
}

// seed fills an empty catalog and delivery area list.
func seed(ctx context.Context, products repository.ProductRepository, areas repository.DeliveryAreaRepository) error {
	if err := products.Seed(ctx, seedProducts()); err != nil {
		return err
	}

	existing, err := areas.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	list := seedDeliveryAreas()
	for i := range list {
		if err := areas.Create(ctx, &list[i]); err != nil {
			return fmt.Errorf("failed to seed delivery area %s: %w", list[i].Pincode, err)
		}
	}
	slog.Info("Seeded delivery areas", "count", len(list))
	return nil
}
