package directory

import "tradelink/models"

func floatPtr(v float64) *float64 { return &v }

// Seed is the directory used when storage holds nothing usable.
func Seed() models.DirectoryState {
	return models.DirectoryState{
		"auto": {
			{
				ID:           "seed-auto-1",
				Name:         "Marcus Reid",
				CategoryID:   "auto",
				CompanyName:  "Reid Motorworks",
				Email:        "marcus@reidmotorworks.com",
				Phone:        "+1 (555) 201-4410",
				Location:     "Austin, TX",
				Specialty:    "Engine diagnostics & rebuilds",
				Rating:       4.8,
				Reviews:      124,
				HourlyRate:   floatPtr(95),
				Availability: models.Available,
				Image:        models.IconImage("auto"),
				Comments:     []models.ReviewComment{},
				IsVerified:   true,
			},
			{
				ID:              "seed-auto-2",
				Name:            "Sofia Alvarez",
				CategoryID:      "auto",
				CompanyName:     "Alvarez Auto Care",
				Email:           "sofia@alvarezauto.com",
				Phone:           "+1 (555) 318-0092",
				Location:        "San Antonio, TX",
				Specialty:       "Brakes, suspension and hybrid servicing",
				Rating:          4.6,
				Reviews:         87,
				FixedPriceStart: floatPtr(120),
				Availability:    models.Busy,
				Image:           models.IconImage("auto"),
				Comments:        []models.ReviewComment{},
				IsVerified:      true,
			},
		},
		"plumbing": {
			{
				ID:           "seed-plumbing-1",
				Name:         "David Chen",
				CategoryID:   "plumbing",
				CompanyName:  "Flowline Plumbing",
				Email:        "david@flowline.com",
				Phone:        "+1 (555) 442-7781",
				Location:     "Portland, OR",
				Specialty:    "Leak detection & emergency pipe repair",
				Rating:       4.9,
				Reviews:      210,
				HourlyRate:   floatPtr(85),
				Availability: models.Available,
				Image:        models.IconImage("plumbing"),
				Comments:     []models.ReviewComment{},
				IsVerified:   true,
			},
		},
		"carpentry": {
			{
				ID:              "seed-carpentry-1",
				Name:            "Elena Novak",
				CategoryID:      "carpentry",
				CompanyName:     "Novak Joinery",
				Email:           "elena@novakjoinery.com",
				Phone:           "+1 (555) 690-1123",
				Location:        "Denver, CO",
				Specialty:       "Custom furniture & deck building",
				Rating:          4.7,
				Reviews:         64,
				FixedPriceStart: floatPtr(450),
				Availability:    models.Offline,
				Image:           models.IconImage("carpentry"),
				Comments:        []models.ReviewComment{},
				IsVerified:      true,
			},
		},
		"electrical": {
			{
				ID:           "seed-electrical-1",
				Name:         "Priya Raman",
				CategoryID:   "electrical",
				CompanyName:  "Brightwire Electric",
				Email:        "priya@brightwire.com",
				Phone:        "+1 (555) 775-3019",
				Location:     "Seattle, WA",
				Specialty:    "Panel upgrades & EV charger installs",
				Rating:       4.9,
				Reviews:      58,
				HourlyRate:   floatPtr(110),
				Availability: models.Available,
				Image:        models.IconImage("electrical"),
				Comments:     []models.ReviewComment{},
				IsVerified:   true,
			},
		},
	}
}
