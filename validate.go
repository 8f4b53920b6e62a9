package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Inclusive bounds for body metrics.
const (
	minWeightKG = 30.0
	maxWeightKG = 300.0
	minHeightCM = 100.0
	maxHeightCM = 250.0
	minAge      = 13
	maxAge      = 100
)

// oneOf renders an enum map as "must be one of: a, b, c".
func oneOf(valid map[string]bool) string {
	keys := make([]string, 0, len(valid))
	for k := range valid {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "must be one of: " + strings.Join(keys, ", ")
}

// validateProfile checks a submitted profile and returns the first violation
// as a validationError. Weight is the only required field.
func validateProfile(in *profileInput) error {
	if in == nil {
		return &validationError{Field: "profile", Constraint: "is required"}
	}
	if in.Weight == nil {
		return &validationError{Field: "weight", Constraint: "is required"}
	}
	if *in.Weight < minWeightKG || *in.Weight > maxWeightKG {
		return &validationError{Field: "weight", Constraint: fmt.Sprintf("must be between %g and %g", minWeightKG, maxWeightKG)}
	}
	if in.Height != nil && (*in.Height < minHeightCM || *in.Height > maxHeightCM) {
		return &validationError{Field: "height", Constraint: fmt.Sprintf("must be between %g and %g", minHeightCM, maxHeightCM)}
	}
	if in.TargetWeight != nil && (*in.TargetWeight < minWeightKG || *in.TargetWeight > maxWeightKG) {
		return &validationError{Field: "target_weight", Constraint: fmt.Sprintf("must be between %g and %g", minWeightKG, maxWeightKG)}
	}
	if in.Age != nil && (*in.Age < minAge || *in.Age > maxAge) {
		return &validationError{Field: "age", Constraint: fmt.Sprintf("must be between %d and %d", minAge, maxAge)}
	}
	if in.Gender != nil && !validGenders[*in.Gender] {
		return &validationError{Field: "gender", Constraint: oneOf(validGenders)}
	}
	if in.Goal != nil && !validGoals[*in.Goal] {
		return &validationError{Field: "goal", Constraint: oneOf(validGoals)}
	}
	if in.WorkoutMode != nil && !validWorkoutModes[*in.WorkoutMode] {
		return &validationError{Field: "workout_mode", Constraint: oneOf(validWorkoutModes)}
	}
	if in.Intensity != nil && !validIntensities[*in.Intensity] {
		return &validationError{Field: "intensity", Constraint: oneOf(validIntensities)}
	}
	for _, s := range in.TrainingStyles {
		if !validTrainingStyles[s] {
			return &validationError{Field: "training_styles", Constraint: oneOf(validTrainingStyles)}
		}
	}
	return nil
}

// bindError converts a JSON binding failure into a validationError when it
// names a mistyped field (e.g. weight sent as a string).
func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		field := typeErr.Field
		if i := strings.LastIndex(field, "."); i >= 0 {
			field = field[i+1:]
		}
		return &validationError{Field: field, Constraint: "must be " + jsonKind(typeErr.Type)}
	}
	return &validationError{Field: "body", Constraint: "must be valid JSON"}
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.String:
		return "a string"
	case reflect.Slice, reflect.Array:
		return "an array"
	default:
		return "a " + t.String()
	}
}
