package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns (OID 1082) into DateOnly. NULL values zero the time and return nil
// so that *DateOnly pointer fields can be set to nil by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

// String returns the date as YYYY-MM-DD, the form used for SQL date arguments.
func (d DateOnly) String() string {
	return d.Time.Format("2006-01-02")
}

// utcDate truncates t to its UTC calendar day.
func utcDate(t time.Time) DateOnly {
	y, m, day := t.UTC().Date()
	return DateOnly{time.Date(y, m, day, 0, 0, 0, 0, time.UTC)}
}

/* ─── Enumerations ───────────────────────────────────────────────────── */

const (
	genderMale   = "male"
	genderFemale = "female"

	goalLoseWeight      = "lose_weight"
	goalGainMuscle      = "gain_muscle"
	goalToneFlexibility = "tone_flexibility"
	goalMaintain        = "maintain"

	modeHome = "home"
	modeGym  = "gym"

	intensityLow    = "low"
	intensityMedium = "medium"
	intensityHigh   = "high"

	styleGym     = "gym"
	styleHome    = "home"
	styleYoga    = "yoga"
	stylePilates = "pilates"
)

var validGenders = map[string]bool{genderMale: true, genderFemale: true}

var validGoals = map[string]bool{
	goalLoseWeight:      true,
	goalGainMuscle:      true,
	goalToneFlexibility: true,
	goalMaintain:        true,
}

var validWorkoutModes = map[string]bool{modeHome: true, modeGym: true}

var validIntensities = map[string]bool{
	intensityLow:    true,
	intensityMedium: true,
	intensityHigh:   true,
}

var validTrainingStyles = map[string]bool{
	styleGym:     true,
	styleHome:    true,
	styleYoga:    true,
	stylePilates: true,
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// profile maps to the profiles table: one row per user with body metrics,
// goal and stored daily targets. Nullable columns use pointers so existing
// rows with missing answers keep scanning and serialize as null.
type profile struct {
	UserID            uuid.UUID  `json:"user_id"             db:"user_id"`
	HeightCM          *float64   `json:"height_cm"           db:"height_cm"`
	WeightKG          float64    `json:"weight_kg"           db:"weight_kg"`
	TargetWeightKG    *float64   `json:"target_weight_kg"    db:"target_weight_kg"`
	Age               *int       `json:"age"                 db:"age"`
	Gender            *string    `json:"gender"              db:"gender"`
	Goal              *string    `json:"goal"                db:"goal"`
	WorkoutMode       *string    `json:"workout_mode"        db:"workout_mode"`
	Intensity         *string    `json:"intensity"           db:"intensity"`
	TrainingStyles    []string   `json:"training_styles"     db:"training_styles"`
	DailyCalories     *int       `json:"daily_calories"      db:"daily_calories"`
	ProteinTarget     *int       `json:"protein_target"      db:"protein_target"`
	WaterTargetLiters *float64   `json:"water_target_liters" db:"water_target_liters"`
	CreatedAt         *time.Time `json:"created_at"          db:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at"          db:"updated_at"`

	// Computed fields: populated server-side, not stored in DB.
	ComputedBMR  *int `json:"computed_bmr,omitempty"  db:"-"`
	ComputedTDEE *int `json:"computed_tdee,omitempty" db:"-"`
}

// exercise maps to exercises_home and exercises_gym (same shape).
type exercise struct {
	ID             int     `json:"id"              db:"id"`
	Title          string  `json:"title"           db:"title"`
	Instructions   string  `json:"instructions"    db:"instructions"`
	Reps           string  `json:"reps"            db:"reps"`
	IntensityLevel *string `json:"intensity_level" db:"intensity_level"`
	Equipment      *string `json:"equipment"       db:"equipment"`
}

// meal maps to the meals table.
type meal struct {
	ID             int      `json:"id"              db:"id"`
	Title          string   `json:"title"           db:"title"`
	Instructions   string   `json:"instructions"    db:"instructions"`
	Ingredients    []string `json:"ingredients"     db:"ingredients"`
	Calories       *int     `json:"calories"        db:"calories"`
	ProteinFocused bool     `json:"protein_focused" db:"protein_focused"`
}

// yogaSession maps to the yoga_sessions table.
type yogaSession struct {
	ID              int    `json:"id"               db:"id"`
	Title           string `json:"title"            db:"title"`
	Instructions    string `json:"instructions"     db:"instructions"`
	DurationMinutes int    `json:"duration_minutes" db:"duration_minutes"`
	IntensityLevel  string `json:"intensity_level"  db:"intensity_level"`
}

// pilatesExercise maps to the pilates_exercises table.
type pilatesExercise struct {
	ID              int     `json:"id"               db:"id"`
	Title           string  `json:"title"            db:"title"`
	Instructions    string  `json:"instructions"     db:"instructions"`
	DurationMinutes *int    `json:"duration_minutes" db:"duration_minutes"`
	IntensityLevel  *string `json:"intensity_level"  db:"intensity_level"`
}

// dailyPlan maps to daily_plans. UNIQUE(user_id, plan_date) guarantees one
// plan per user per day; content columns are nullable for compatibility with
// rows written before every section existed. Pilates columns stay null unless
// the user trains pilates.
type dailyPlan struct {
	ID                     int        `json:"id"                        db:"id"`
	UserID                 uuid.UUID  `json:"user_id"                   db:"user_id"`
	PlanDate               DateOnly   `json:"plan_date"                 db:"plan_date"`
	ExerciseTitle          *string    `json:"exercise_title"            db:"exercise_title"`
	ExerciseInstructions   *string    `json:"exercise_instructions"     db:"exercise_instructions"`
	ExerciseReps           *string    `json:"exercise_reps"             db:"exercise_reps"`
	MealTitle              *string    `json:"meal_title"                db:"meal_title"`
	MealInstructions       *string    `json:"meal_instructions"         db:"meal_instructions"`
	MealIngredients        []string   `json:"meal_ingredients"          db:"meal_ingredients"`
	MealCalories           *int       `json:"meal_calories"             db:"meal_calories"`
	YogaTitle              *string    `json:"yoga_title"                db:"yoga_title"`
	YogaInstructions       *string    `json:"yoga_instructions"         db:"yoga_instructions"`
	YogaDurationMinutes    *int       `json:"yoga_duration_minutes"     db:"yoga_duration_minutes"`
	PilatesTitle           *string    `json:"pilates_title"             db:"pilates_title"`
	PilatesInstructions    *string    `json:"pilates_instructions"      db:"pilates_instructions"`
	PilatesDurationMinutes *int       `json:"pilates_duration_minutes"  db:"pilates_duration_minutes"`
	DailyWaterTargetLiters *float64   `json:"daily_water_target_liters" db:"daily_water_target_liters"`
	CalorieTarget          *int       `json:"calorie_target"            db:"calorie_target"`
	ProteinTarget          *int       `json:"protein_target"            db:"protein_target"`
	ExerciseCompleted      bool       `json:"exercise_completed"        db:"exercise_completed"`
	MealCompleted          bool       `json:"meal_completed"            db:"meal_completed"`
	YogaCompleted          bool       `json:"yoga_completed"            db:"yoga_completed"`
	PilatesCompleted       bool       `json:"pilates_completed"         db:"pilates_completed"`
	CreatedAt              *time.Time `json:"created_at"                db:"created_at"`
	UpdatedAt              *time.Time `json:"updated_at"                db:"updated_at"`
}

// anyCompleted reports whether at least one section of the plan was completed.
func (p dailyPlan) anyCompleted() bool {
	return p.ExerciseCompleted || p.MealCompleted || p.YogaCompleted || p.PilatesCompleted
}

// nonNilStyles returns styles, or an empty slice when it is nil. Stored
// profiles always hold an array, so "no styles" round-trips as [].
func nonNilStyles(styles []string) []string {
	if styles == nil {
		return []string{}
	}
	return styles
}

/* ─── Request / response shapes ──────────────────────────────────────── */

// profileInput is the client-submitted profile for preview generation and
// profile updates. All fields are pointers so validation can tell "absent"
// from zero.
type profileInput struct {
	Weight         *float64 `json:"weight"`
	Height         *float64 `json:"height"`
	TargetWeight   *float64 `json:"target_weight"`
	Age            *int     `json:"age"`
	Gender         *string  `json:"gender"`
	Goal           *string  `json:"goal"`
	WorkoutMode    *string  `json:"workout_mode"`
	Intensity      *string  `json:"intensity"`
	TrainingStyles []string `json:"training_styles"`
}

// previewPlanRequest is the request body for POST /api/preview-plan.
type previewPlanRequest struct {
	Profile *profileInput `json:"profile"`
}

// patchCompletionRequest is the request body for PATCH /api/plans/today/completion.
// Only non-nil flags are written.
type patchCompletionRequest struct {
	Exercise *bool `json:"exercise"`
	Meal     *bool `json:"meal"`
	Yoga     *bool `json:"yoga"`
	Pilates  *bool `json:"pilates"`
}

// dashboardResponse is the response shape for GET /api/dashboard.
type dashboardResponse struct {
	Date          string     `json:"date"`
	Profile       profile    `json:"profile"`
	Plan          *dailyPlan `json:"plan"`
	CurrentStreak int        `json:"current_streak"`
}
