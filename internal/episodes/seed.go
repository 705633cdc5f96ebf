package episodes

import "dropline/internal/domain"

// Seed returns the starter collection served when nothing usable is stored.
// Every call builds a fresh copy.
func Seed() []domain.Episode {
	revenue := 38500.0
	sold := 180
	out := []domain.Episode{
		{
			ID:            "1",
			Name:          "Episode 12: Winter Drop",
			Concept:       "Winter-themed streetwear collection featuring cozy hoodies and thermal wear",
			Status:        domain.StatusLaunched,
			StartDate:     "2024-01-01",
			LaunchDate:    "2024-01-15",
			Budget:        15000,
			TargetRevenue: 45000,
			ActualRevenue: &revenue,
			Views:         "125K",
			TeamMembers: []domain.TeamMember{
				{ID: "1", Name: "Alex Chen", Role: "Creative Director"},
				{ID: "2", Name: "Sarah Kim", Role: "Production Manager"},
			},
			Products: []domain.Product{{
				ID:       "1",
				Name:     "Winter Hoodie",
				Variants: []string{"S", "M", "L", "XL"},
				Quantity: 200,
				Cost:     35,
				Price:    89,
				Sold:     &sold,
			}},
			Tasks: []domain.Task{{
				ID:          "1",
				Title:       "Design winter graphics",
				Category:    domain.CategoryDesign,
				Status:      domain.TaskCompleted,
				DueDate:     "2024-01-05",
				CreatedAt:   "2024-01-01",
				CompletedAt: "2024-01-04",
			}},
			CreatedAt: "2024-01-01",
			UpdatedAt: "2024-01-15",
		},
		{
			ID:            "2",
			Name:          "Episode 11: Street Essentials",
			Concept:       "Core streetwear pieces focusing on quality basics",
			Status:        domain.StatusPlanning,
			StartDate:     "2024-01-08",
			LaunchDate:    "2024-02-01",
			Budget:        12000,
			TargetRevenue: 35000,
			Views:         "98K",
			TeamMembers: []domain.TeamMember{
				{ID: "3", Name: "Mike Johnson", Role: "Designer"},
			},
			Tasks: []domain.Task{{
				ID:        "2",
				Title:     "Research market trends",
				Category:  domain.CategoryMarketing,
				Status:    domain.TaskInProgress,
				DueDate:   "2024-01-20",
				CreatedAt: "2024-01-08",
			}},
			CreatedAt: "2024-01-08",
			UpdatedAt: "2024-01-08",
		},
	}
	for i := range out {
		out[i].Normalize()
	}
	return out
}
