// Package workout provides workout generation: the exercise catalog,
// predefined templates, heuristic daily generation and weekly plan assembly.
package workout

import "strings"

// exercisesByCategory is the built-in exercise catalog.
var exercisesByCategory = map[string][]string{
	"legs": {
		"Squats", "Lunges", "Leg Press", "Leg Extensions", "Leg Curls",
		"Calf Raises", "Bulgarian Split Squats", "Pistol Squats",
		"Glute Bridges", "Jump Squats",
	},
	"back": {
		"Lat Pulldowns", "Seated Cable Rows", "Deadlifts", "Dumbbell Rows",
		"Back Extensions", "Pull-Ups", "Barbell Rows", "Supermans",
		"Reverse Push-Ups",
	},
	"chest": {
		"Bench Press", "Push-Ups", "Dumbbell Press", "Dumbbell Flyes",
		"Dips", "Pullovers", "Cable Crossovers", "Incline Push-Ups",
	},
	"arms": {
		"Biceps Curls", "Skull Crushers", "Close-Grip Push-Ups",
		"Hammer Curls", "Concentration Curls", "Triceps Extensions",
		"Chin-Ups",
	},
	"shoulders": {
		"Overhead Press", "Dumbbell Raises", "Upright Rows",
		"Lateral Raises", "Military Press", "Side Raises", "Front Raises",
	},
	"cardio": {
		"Running", "Burpees", "Jump Rope", "Stationary Bike", "Elliptical",
		"Running in Place", "Jumping Jacks", "Rowing", "Plank",
	},
}

// categoryOrder fixes the presentation order of catalog categories.
var categoryOrder = []string{"legs", "back", "chest", "arms", "shoulders", "cardio"}

var categoryLabels = map[string]string{
	"legs":      "Legs",
	"back":      "Back",
	"chest":     "Chest",
	"arms":      "Arms",
	"shoulders": "Shoulders",
	"cardio":    "Cardio",
}

// Categories returns the catalog categories in presentation order.
func Categories() []string {
	return categoryOrder
}

// CategoryLabel returns the display name for a category key.
func CategoryLabel(category string) string {
	if label, ok := categoryLabels[category]; ok {
		return label
	}
	return category
}

// ExercisesByCategory returns the exercise names of one category, or nil for
// an unknown category.
func ExercisesByCategory(category string) []string {
	return exercisesByCategory[category]
}

// ExerciseCategory returns the category of a known exercise name, or "".
func ExerciseCategory(name string) string {
	for category, exercises := range exercisesByCategory {
		for _, exercise := range exercises {
			if exercise == name {
				return category
			}
		}
	}
	return ""
}

// SearchExercises returns catalog exercises whose name contains the query,
// case-insensitively, in catalog order.
func SearchExercises(query string) []string {
	lower := strings.ToLower(query)
	var results []string
	for _, category := range categoryOrder {
		for _, exercise := range exercisesByCategory[category] {
			if strings.Contains(strings.ToLower(exercise), lower) {
				results = append(results, exercise)
			}
		}
	}
	return results
}
