package main

import (
	"context"
	"math/rand"
)

// catalog is read access to the reference content tables. Rows are authored
// elsewhere; the generator never writes them.
type catalog interface {
	listExercises(ctx context.Context, workoutMode string) ([]exercise, error)
	listMeals(ctx context.Context) ([]meal, error)
	listYogaSessions(ctx context.Context) ([]yogaSession, error)
	listPilatesExercises(ctx context.Context) ([]pilatesExercise, error)
}

// contentSelector narrows catalog pools by profile attributes and picks one
// item per pool uniformly at random.
type contentSelector struct {
	catalog catalog
	pick    func(n int) int // returns an index in [0, n)
}

func newContentSelector(c catalog) *contentSelector {
	return &contentSelector{catalog: c, pick: rand.Intn}
}

// selection is one pick from each pool. Pilates is nil unless the profile's
// training styles call for it.
type selection struct {
	Exercise exercise
	Meal     meal
	Yoga     yogaSession
	Pilates  *pilatesExercise
}

// pickOne returns a uniformly random element of pool, or a NotFound error
// naming kind when the pool is empty.
func pickOne[T any](pool []T, kind string, pick func(int) int) (T, error) {
	if len(pool) == 0 {
		var zero T
		return zero, newError(errNotFound, "no %s content available", kind)
	}
	return pool[pick(len(pool))], nil
}

// exercisePoolMode returns the catalog used for exercises: home only for
// workoutMode=home, gym otherwise.
func exercisePoolMode(workoutMode *string) string {
	if workoutMode != nil && *workoutMode == modeHome {
		return modeHome
	}
	return modeGym
}

// filterMeals keeps protein-focused meals for gain_muscle, everything otherwise.
func filterMeals(meals []meal, goal *string) []meal {
	if goal == nil || *goal != goalGainMuscle {
		return meals
	}
	var out []meal
	for _, m := range meals {
		if m.ProteinFocused {
			out = append(out, m)
		}
	}
	return out
}

// yogaIntensities is the allowed intensity set for a goal.
func yogaIntensities(goal *string) map[string]bool {
	if goal != nil && (*goal == goalLoseWeight || *goal == goalGainMuscle) {
		return map[string]bool{intensityMedium: true, intensityHigh: true}
	}
	return map[string]bool{intensityLow: true, intensityMedium: true}
}

// filterYoga keeps sessions whose intensity is allowed for the goal.
func filterYoga(sessions []yogaSession, goal *string) []yogaSession {
	allowed := yogaIntensities(goal)
	var out []yogaSession
	for _, s := range sessions {
		if allowed[s.IntensityLevel] {
			out = append(out, s)
		}
	}
	return out
}

// selectContent runs every pool for p (pilates only for pilates trainees).
// Any catalog error or empty pool fails the whole selection.
func (s *contentSelector) selectContent(ctx context.Context, p profile) (selection, error) {
	var sel selection

	exercises, err := s.catalog.listExercises(ctx, exercisePoolMode(p.WorkoutMode))
	if err != nil {
		return sel, wrapError(errInternal, err, "load exercises")
	}
	if sel.Exercise, err = pickOne(exercises, "exercise", s.pick); err != nil {
		return sel, err
	}

	meals, err := s.catalog.listMeals(ctx)
	if err != nil {
		return sel, wrapError(errInternal, err, "load meals")
	}
	if sel.Meal, err = pickOne(filterMeals(meals, p.Goal), "meal", s.pick); err != nil {
		return sel, err
	}

	sessions, err := s.catalog.listYogaSessions(ctx)
	if err != nil {
		return sel, wrapError(errInternal, err, "load yoga sessions")
	}
	if sel.Yoga, err = pickOne(filterYoga(sessions, p.Goal), "yoga", s.pick); err != nil {
		return sel, err
	}

	if !disciplinesFor(effectiveStyles(p.TrainingStyles, p.WorkoutMode)).NeedsPilates {
		return sel, nil
	}
	moves, err := s.catalog.listPilatesExercises(ctx)
	if err != nil {
		return sel, wrapError(errInternal, err, "load pilates exercises")
	}
	pilates, err := pickOne(moves, "pilates", s.pick)
	if err != nil {
		return sel, err
	}
	sel.Pilates = &pilates

	return sel, nil
}
