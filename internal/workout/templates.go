package workout

import "github.com/fitcoach-bot/fitcoach/internal/models"

// Template is a predefined workout with a fixed exercise list. Template
// weights are baselines; generation scales them to the user's experience.
type Template struct {
	ID          string
	Name        string
	Description string
	Focus       string
	Location    models.Location
	Experience  models.Experience
	Exercises   []models.Exercise
}

func ptr[T any](v T) *T { return &v }

var templates = []Template{
	{
		ID:          "home_legs_beginner",
		Name:        "Legs at Home (beginner)",
		Description: "Basic leg workout, no equipment",
		Focus:       "legs",
		Location:    models.LocationHome,
		Experience:  models.ExperienceBeginner,
		Exercises: []models.Exercise{
			{Name: "Squats", Reps: 15, Sets: 3, RestSeconds: ptr(60)},
			{Name: "Lunges", Reps: 12, Sets: 3, RestSeconds: ptr(60)},
			{Name: "Glute Bridges", Reps: 15, Sets: 3, RestSeconds: ptr(45)},
		},
	},
	{
		ID:          "home_back_beginner",
		Name:        "Back at Home (beginner)",
		Description: "Back strengthening, no equipment",
		Focus:       "back",
		Location:    models.LocationHome,
		Experience:  models.ExperienceBeginner,
		Exercises: []models.Exercise{
			{Name: "Supermans", Reps: 12, Sets: 3, RestSeconds: ptr(45)},
			{Name: "Reverse Push-Ups", Reps: 10, Sets: 3, RestSeconds: ptr(60)},
			{Name: "Plank", Reps: 1, Sets: 3, RestSeconds: ptr(30)},
		},
	},
	{
		ID:          "home_cardio_beginner",
		Name:        "Cardio at Home (beginner)",
		Description: "Cardio session for beginners",
		Focus:       "cardio",
		Location:    models.LocationHome,
		Experience:  models.ExperienceBeginner,
		Exercises: []models.Exercise{
			{Name: "Burpees", Reps: 10, Sets: 3, RestSeconds: ptr(60)},
			{Name: "Jump Rope", Reps: 50, Sets: 3, RestSeconds: ptr(45)},
			{Name: "Running in Place", Reps: 30, Sets: 3, RestSeconds: ptr(30)},
		},
	},
	{
		ID:          "home_fullbody_beginner",
		Name:        "Full Body at Home (beginner)",
		Description: "Whole-body session",
		Focus:       "fullbody",
		Location:    models.LocationHome,
		Experience:  models.ExperienceBeginner,
		Exercises: []models.Exercise{
			{Name: "Squats", Reps: 15, Sets: 3, RestSeconds: ptr(60)},
			{Name: "Push-Ups", Reps: 10, Sets: 3, RestSeconds: ptr(60)},
			{Name: "Plank", Reps: 1, Sets: 3, RestSeconds: ptr(30)},
			{Name: "Burpees", Reps: 8, Sets: 2, RestSeconds: ptr(90)},
		},
	},
	{
		ID:          "gym_legs_beginner",
		Name:        "Legs at the Gym (beginner)",
		Description: "Basic leg workout with gym equipment",
		Focus:       "legs",
		Location:    models.LocationGym,
		Experience:  models.ExperienceBeginner,
		Exercises: []models.Exercise{
			{Name: "Barbell Squats", Weight: ptr(20.0), Reps: 12, Sets: 3, RestSeconds: ptr(90)},
			{Name: "Leg Press", Weight: ptr(30.0), Reps: 15, Sets: 3, RestSeconds: ptr(60)},
			{Name: "Dumbbell Lunges", Weight: ptr(5.0), Reps: 12, Sets: 3, RestSeconds: ptr(60)},
		},
	},
	{
		ID:          "gym_back_beginner",
		Name:        "Back at the Gym (beginner)",
		Description: "Back workout with gym equipment",
		Focus:       "back",
		Location:    models.LocationGym,
		Experience:  models.ExperienceBeginner,
		Exercises: []models.Exercise{
			{Name: "Lat Pulldowns", Weight: ptr(15.0), Reps: 12, Sets: 3, RestSeconds: ptr(90)},
			{Name: "One-Arm Dumbbell Rows", Weight: ptr(8.0), Reps: 10, Sets: 3, RestSeconds: ptr(60)},
			{Name: "Back Extensions", Reps: 15, Sets: 3, RestSeconds: ptr(45)},
		},
	},
	{
		ID:          "gym_chest_beginner",
		Name:        "Chest at the Gym (beginner)",
		Description: "Chest workout with gym equipment",
		Focus:       "chest",
		Location:    models.LocationGym,
		Experience:  models.ExperienceBeginner,
		Exercises: []models.Exercise{
			{Name: "Bench Press", Weight: ptr(20.0), Reps: 10, Sets: 3, RestSeconds: ptr(90)},
			{Name: "Dips", Reps: 8, Sets: 3, RestSeconds: ptr(60)},
			{Name: "Dumbbell Flyes", Weight: ptr(5.0), Reps: 12, Sets: 3, RestSeconds: ptr(60)},
		},
	},
	{
		ID:          "gym_cardio_beginner",
		Name:        "Cardio at the Gym (beginner)",
		Description: "Cardio session on gym machines",
		Focus:       "cardio",
		Location:    models.LocationGym,
		Experience:  models.ExperienceBeginner,
		Exercises: []models.Exercise{
			{Name: "Treadmill", Reps: 10, Sets: 1, RestSeconds: ptr(0)},
			{Name: "Stationary Bike", Reps: 10, Sets: 1, RestSeconds: ptr(0)},
			{Name: "Elliptical", Reps: 10, Sets: 1, RestSeconds: ptr(0)},
		},
	},
	{
		ID:          "home_legs_intermediate",
		Name:        "Legs at Home (intermediate)",
		Description: "Harder leg workout, no equipment",
		Focus:       "legs",
		Location:    models.LocationHome,
		Experience:  models.ExperienceIntermediate,
		Exercises: []models.Exercise{
			{Name: "Jump Squats", Reps: 15, Sets: 4, RestSeconds: ptr(60)},
			{Name: "Bulgarian Split Squats", Reps: 12, Sets: 3, RestSeconds: ptr(60)},
			{Name: "Pistol Squats", Reps: 8, Sets: 3, RestSeconds: ptr(90)},
			{Name: "Single-Leg Glute Bridges", Reps: 12, Sets: 3, RestSeconds: ptr(45)},
		},
	},
	{
		ID:          "gym_legs_intermediate",
		Name:        "Legs at the Gym (intermediate)",
		Description: "Harder leg workout with gym equipment",
		Focus:       "legs",
		Location:    models.LocationGym,
		Experience:  models.ExperienceIntermediate,
		Exercises: []models.Exercise{
			{Name: "Barbell Squats", Weight: ptr(40.0), Reps: 10, Sets: 4, RestSeconds: ptr(120)},
			{Name: "Leg Press", Weight: ptr(50.0), Reps: 12, Sets: 3, RestSeconds: ptr(90)},
			{Name: "Dumbbell Lunges", Weight: ptr(10.0), Reps: 12, Sets: 3, RestSeconds: ptr(60)},
			{Name: "Leg Extensions", Weight: ptr(20.0), Reps: 15, Sets: 3, RestSeconds: ptr(60)},
		},
	},
}

// TemplateByID returns the template with the given id, or nil.
func TemplateByID(id string) *Template {
	for i := range templates {
		if templates[i].ID == id {
			return &templates[i]
		}
	}
	return nil
}

// TemplatesByFilters returns templates matching every provided filter. Empty
// filter values match everything.
func TemplatesByFilters(focus string, location models.Location, experience models.Experience) []Template {
	var result []Template
	for _, t := range templates {
		if focus != "" && t.Focus != focus {
			continue
		}
		if location != "" && t.Location != location {
			continue
		}
		if experience != "" && t.Experience != experience {
			continue
		}
		result = append(result, t)
	}
	return result
}
