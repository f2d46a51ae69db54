package product

import "github.com/shopspring/decimal"

// SeedCatalog returns the built-in agricultural machinery catalog used when
// no external catalog source is configured.
func SeedCatalog() *MemoryCatalog {
	return NewMemoryCatalog(
		Product{
			ID:               "1",
			Name:             "Tractor Cultivator",
			Description:      "Heavy-duty tractor cultivator with adjustable tines for efficient soil cultivation. Adjustable working width from 1.5m to 2.5m, compatible with most standard tractor hitch systems.",
			ShortDescription: "Heavy-duty cultivator for efficient soil preparation",
			Price:            decimal.NewFromInt(12500),
			Category:         "Soil Preparation",
			Colors:           []string{"Red", "Blue", "Green"},
			Specifications: map[string]string{
				"Width":          "1.5-2.5m",
				"Weight":         "350kg",
				"Material":       "Hardened Steel",
				"Tines":          "11",
				"Power Required": "40-80 HP",
			},
			Stock: 15,
		},
		Product{
			ID:               "2",
			Name:             "Irrigation Sprinkler System",
			Description:      "Complete irrigation sprinkler system providing even water coverage for up to 2 acres of crops, with adjustable spray patterns and water-saving technology.",
			ShortDescription: "Water-efficient sprinkler system for crops",
			Price:            decimal.NewFromInt(8700),
			Category:         "Irrigation",
			Colors:           []string{"Blue", "Black"},
			Specifications: map[string]string{
				"Coverage":       "Up to 2 acres",
				"Water Pressure": "30-70 PSI",
			},
			Stock: 23,
		},
		Product{
			ID:               "3",
			Name:             "Seed Drill",
			Description:      "Precision seed drill for accurate seed placement and spacing, with adjustable row width and depth control.",
			ShortDescription: "Precision seeding for uniform crop emergence",
			Price:            decimal.NewFromInt(35000),
			Category:         "Planting",
			Colors:           []string{"Red", "Yellow"},
			Specifications: map[string]string{
				"Rows":           "9",
				"Power Required": "35-50 HP",
			},
			Stock: 7,
		},
		Product{
			ID:               "4",
			Name:             "Fertilizer Spreader",
			Description:      "Broadcast fertilizer spreader with even distribution pattern and corrosion-resistant hopper.",
			ShortDescription: "Even-spread broadcast fertilizer application",
			Price:            decimal.NewFromInt(18900),
			Category:         "Fertilization",
			Colors:           []string{"Green", "Orange"},
			Specifications: map[string]string{
				"Hopper Capacity": "500L",
			},
			Stock: 12,
		},
		Product{
			ID:               "5",
			Name:             "Rotary Tiller",
			Description:      "Rotary tiller for seedbed preparation with heavy-duty gearbox and replaceable blades.",
			ShortDescription: "Fine seedbed preparation in a single pass",
			Price:            decimal.NewFromInt(27500),
			Category:         "Soil Preparation",
			Colors:           []string{"Red", "Black"},
			Specifications: map[string]string{
				"Working Width": "1.8m",
				"Blades":        "42",
			},
			Stock: 9,
		},
		Product{
			ID:               "6",
			Name:             "Grain Moisture Meter",
			Description:      "Portable grain moisture meter supporting 14 grain types with digital readout.",
			ShortDescription: "Accurate moisture readings for stored grain",
			Price:            decimal.NewFromInt(4500),
			Category:         "Testing Equipment",
			Colors:           []string{"Gray", "Yellow"},
			Specifications: map[string]string{
				"Grain Types": "14",
				"Accuracy":    "±0.5%",
			},
			Stock: 35,
		},
		Product{
			ID:               "7",
			Name:             "Paddy Harvester",
			Description:      "Compact paddy harvester suited to small and medium holdings, with low grain loss and easy maintenance.",
			ShortDescription: "Compact harvester for paddy fields",
			Price:            decimal.NewFromInt(175000),
			Category:         "Harvesting",
			Colors:           []string{"Yellow", "Green"},
			Specifications: map[string]string{
				"Cutting Width": "1.2m",
				"Engine":        "35 HP Diesel",
			},
			Stock: 3,
		},
		Product{
			ID:               "8",
			Name:             "Solar Water Pump",
			Description:      "Solar-powered water pump for off-grid irrigation with MPPT controller and dry-run protection.",
			ShortDescription: "Off-grid solar irrigation pumping",
			Price:            decimal.NewFromInt(65000),
			Category:         "Irrigation",
			Colors:           []string{"Blue", "Black"},
			Specifications: map[string]string{
				"Head":  "Up to 50m",
				"Panel": "1800W",
			},
			Stock: 6,
		},
	)
}
