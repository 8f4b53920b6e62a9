package main

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// profileStore reads and writes the profiles table.
type profileStore interface {
	getProfile(ctx context.Context, userID uuid.UUID) (profile, error)
	saveProfile(ctx context.Context, p profile) (profile, error)
}

// planStore reads and writes daily_plans.
type planStore interface {
	upsertPlan(ctx context.Context, p dailyPlan) (dailyPlan, error)
	getPlan(ctx context.Context, userID uuid.UUID, date DateOnly) (dailyPlan, error)
	updateCompletion(ctx context.Context, userID uuid.UUID, date DateOnly, req patchCompletionRequest) (dailyPlan, error)
	listPlans(ctx context.Context, userID uuid.UUID, from, to DateOnly) ([]dailyPlan, error)
}

// pgStore implements every store interface against PostgreSQL.
type pgStore struct {
	pool *pgxpool.Pool
}

/* ─── Query helpers ──────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](pool *pgxpool.Pool, ctx context.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](pool *pgxpool.Pool, ctx context.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

// notFoundOr turns pgx.ErrNoRows into a NotFound error naming what was
// missing and classifies anything else as a persistence failure.
func notFoundOr(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return newError(errNotFound, "%s not found", what)
	}
	return wrapError(errCollaborator, err, "database error")
}

/* ─── Catalog ────────────────────────────────────────────────────────── */

// exerciseTables maps a workout mode to its catalog table. Only these two
// names are ever interpolated into SQL.
var exerciseTables = map[string]string{
	modeHome: "exercises_home",
	modeGym:  "exercises_gym",
}

func (s *pgStore) listExercises(ctx context.Context, workoutMode string) ([]exercise, error) {
	table, ok := exerciseTables[workoutMode]
	if !ok {
		table = exerciseTables[modeGym]
	}
	return queryMany[exercise](s.pool, ctx, "SELECT * FROM "+table+" ORDER BY id", nil)
}

func (s *pgStore) listMeals(ctx context.Context) ([]meal, error) {
	return queryMany[meal](s.pool, ctx, "SELECT * FROM meals ORDER BY id", nil)
}

func (s *pgStore) listYogaSessions(ctx context.Context) ([]yogaSession, error) {
	return queryMany[yogaSession](s.pool, ctx, "SELECT * FROM yoga_sessions ORDER BY id", nil)
}

func (s *pgStore) listPilatesExercises(ctx context.Context) ([]pilatesExercise, error) {
	return queryMany[pilatesExercise](s.pool, ctx, "SELECT * FROM pilates_exercises ORDER BY id", nil)
}

/* ─── Profiles ───────────────────────────────────────────────────────── */

func (s *pgStore) getProfile(ctx context.Context, userID uuid.UUID) (profile, error) {
	p, err := queryOne[profile](s.pool, ctx,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return p, notFoundOr(err, "profile")
	}
	return p, nil
}

// saveProfile inserts or fully replaces the user's profile row.
// training_styles is NOT NULL and pgx binds a nil slice as NULL, so a
// profile without styles is written as an empty array.
func (s *pgStore) saveProfile(ctx context.Context, p profile) (profile, error) {
	p.TrainingStyles = nonNilStyles(p.TrainingStyles)
	saved, err := queryOne[profile](s.pool, ctx,
		`INSERT INTO profiles (user_id, height_cm, weight_kg, target_weight_kg, age, gender,
			goal, workout_mode, intensity, training_styles, daily_calories, protein_target,
			water_target_liters)
		 VALUES (@userID, @heightCM, @weightKG, @targetWeightKG, @age, @gender,
			@goal, @workoutMode, @intensity, @trainingStyles, @dailyCalories, @proteinTarget,
			@waterTargetLiters)
		 ON CONFLICT (user_id) DO UPDATE SET
			height_cm           = EXCLUDED.height_cm,
			weight_kg           = EXCLUDED.weight_kg,
			target_weight_kg    = EXCLUDED.target_weight_kg,
			age                 = EXCLUDED.age,
			gender              = EXCLUDED.gender,
			goal                = EXCLUDED.goal,
			workout_mode        = EXCLUDED.workout_mode,
			intensity           = EXCLUDED.intensity,
			training_styles     = EXCLUDED.training_styles,
			daily_calories      = EXCLUDED.daily_calories,
			protein_target      = EXCLUDED.protein_target,
			water_target_liters = EXCLUDED.water_target_liters,
			updated_at          = now()
		 RETURNING *`,
		pgx.NamedArgs{
			"userID":            p.UserID,
			"heightCM":          p.HeightCM,
			"weightKG":          p.WeightKG,
			"targetWeightKG":    p.TargetWeightKG,
			"age":               p.Age,
			"gender":            p.Gender,
			"goal":              p.Goal,
			"workoutMode":       p.WorkoutMode,
			"intensity":         p.Intensity,
			"trainingStyles":    p.TrainingStyles,
			"dailyCalories":     p.DailyCalories,
			"proteinTarget":     p.ProteinTarget,
			"waterTargetLiters": p.WaterTargetLiters,
		})
	if err != nil {
		return saved, wrapError(errCollaborator, err, "save profile")
	}
	return saved, nil
}

/* ─── Daily plans ────────────────────────────────────────────────────── */

// upsertPlan writes the plan for (user_id, plan_date) in one statement. On
// conflict only content and target columns are replaced; completion flags
// keep whatever the user already ticked.
func (s *pgStore) upsertPlan(ctx context.Context, p dailyPlan) (dailyPlan, error) {
	saved, err := queryOne[dailyPlan](s.pool, ctx,
		`INSERT INTO daily_plans (user_id, plan_date,
			exercise_title, exercise_instructions, exercise_reps,
			meal_title, meal_instructions, meal_ingredients, meal_calories,
			yoga_title, yoga_instructions, yoga_duration_minutes,
			pilates_title, pilates_instructions, pilates_duration_minutes,
			daily_water_target_liters, calorie_target, protein_target)
		 VALUES (@userID, @planDate,
			@exerciseTitle, @exerciseInstructions, @exerciseReps,
			@mealTitle, @mealInstructions, @mealIngredients, @mealCalories,
			@yogaTitle, @yogaInstructions, @yogaDurationMinutes,
			@pilatesTitle, @pilatesInstructions, @pilatesDurationMinutes,
			@water, @calorieTarget, @proteinTarget)
		 ON CONFLICT (user_id, plan_date) DO UPDATE SET
			exercise_title            = EXCLUDED.exercise_title,
			exercise_instructions     = EXCLUDED.exercise_instructions,
			exercise_reps             = EXCLUDED.exercise_reps,
			meal_title                = EXCLUDED.meal_title,
			meal_instructions         = EXCLUDED.meal_instructions,
			meal_ingredients          = EXCLUDED.meal_ingredients,
			meal_calories             = EXCLUDED.meal_calories,
			yoga_title                = EXCLUDED.yoga_title,
			yoga_instructions         = EXCLUDED.yoga_instructions,
			yoga_duration_minutes     = EXCLUDED.yoga_duration_minutes,
			pilates_title             = EXCLUDED.pilates_title,
			pilates_instructions      = EXCLUDED.pilates_instructions,
			pilates_duration_minutes  = EXCLUDED.pilates_duration_minutes,
			daily_water_target_liters = EXCLUDED.daily_water_target_liters,
			calorie_target            = EXCLUDED.calorie_target,
			protein_target            = EXCLUDED.protein_target,
			updated_at                = now()
		 RETURNING *`,
		pgx.NamedArgs{
			"userID":                 p.UserID,
			"planDate":               p.PlanDate.String(),
			"exerciseTitle":          p.ExerciseTitle,
			"exerciseInstructions":   p.ExerciseInstructions,
			"exerciseReps":           p.ExerciseReps,
			"mealTitle":              p.MealTitle,
			"mealInstructions":       p.MealInstructions,
			"mealIngredients":        p.MealIngredients,
			"mealCalories":           p.MealCalories,
			"yogaTitle":              p.YogaTitle,
			"yogaInstructions":       p.YogaInstructions,
			"yogaDurationMinutes":    p.YogaDurationMinutes,
			"pilatesTitle":           p.PilatesTitle,
			"pilatesInstructions":    p.PilatesInstructions,
			"pilatesDurationMinutes": p.PilatesDurationMinutes,
			"water":                  p.DailyWaterTargetLiters,
			"calorieTarget":          p.CalorieTarget,
			"proteinTarget":          p.ProteinTarget,
		})
	if err != nil {
		return saved, wrapError(errCollaborator, err, "save plan")
	}
	return saved, nil
}

func (s *pgStore) getPlan(ctx context.Context, userID uuid.UUID, date DateOnly) (dailyPlan, error) {
	p, err := queryOne[dailyPlan](s.pool, ctx,
		"SELECT * FROM daily_plans WHERE user_id = @userID AND plan_date = @date",
		pgx.NamedArgs{"userID": userID, "date": date.String()})
	if err != nil {
		return p, notFoundOr(err, "plan")
	}
	return p, nil
}

// updateCompletion sets only the provided completion flags. COALESCE keeps
// current values for omitted fields.
func (s *pgStore) updateCompletion(ctx context.Context, userID uuid.UUID, date DateOnly, req patchCompletionRequest) (dailyPlan, error) {
	p, err := queryOne[dailyPlan](s.pool, ctx,
		`UPDATE daily_plans SET
			exercise_completed = COALESCE(@exercise, exercise_completed),
			meal_completed     = COALESCE(@meal, meal_completed),
			yoga_completed     = COALESCE(@yoga, yoga_completed),
			pilates_completed  = COALESCE(@pilates, pilates_completed),
			updated_at         = now()
		 WHERE user_id = @userID AND plan_date = @date
		 RETURNING *`,
		pgx.NamedArgs{
			"userID":   userID,
			"date":     date.String(),
			"exercise": req.Exercise,
			"meal":     req.Meal,
			"yoga":     req.Yoga,
			"pilates":  req.Pilates,
		})
	if err != nil {
		return p, notFoundOr(err, "plan")
	}
	return p, nil
}

// listPlans returns plans in [from, to], newest first.
func (s *pgStore) listPlans(ctx context.Context, userID uuid.UUID, from, to DateOnly) ([]dailyPlan, error) {
	plans, err := queryMany[dailyPlan](s.pool, ctx,
		`SELECT * FROM daily_plans
		 WHERE user_id = @userID AND plan_date >= @from AND plan_date <= @to
		 ORDER BY plan_date DESC`,
		pgx.NamedArgs{"userID": userID, "from": from.String(), "to": to.String()})
	if err != nil {
		return nil, wrapError(errCollaborator, err, "list plans")
	}
	return plans, nil
}
