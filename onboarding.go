package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Onboarding steps, in order.
const (
	stepBody     = "body"
	stepGoal     = "goal"
	stepTraining = "training"
	stepConfirm  = "confirm"
)

// onboardingDraft is the answers collected so far plus the step the user is
// on. The client holds it between requests; nothing is stored until the
// draft is confirmed.
type onboardingDraft struct {
	Step    string       `json:"step"`
	Profile profileInput `json:"profile"`
}

// advance merges the answers for the current step into the draft, validates
// the result and moves to the next step. The input draft is not modified.
func (d onboardingDraft) advance(answers profileInput) (onboardingDraft, error) {
	next := d
	next.Profile.TrainingStyles = append([]string(nil), d.Profile.TrainingStyles...)

	switch d.Step {
	case "", stepBody:
		if answers.Weight == nil {
			return d, &validationError{Field: "weight", Constraint: "is required"}
		}
		next.Profile.Weight = answers.Weight
		next.Profile.Height = answers.Height
		next.Profile.Age = answers.Age
		next.Profile.Gender = answers.Gender
		next.Profile.TargetWeight = answers.TargetWeight
		next.Step = stepGoal
	case stepGoal:
		if answers.Goal == nil {
			return d, &validationError{Field: "goal", Constraint: "is required"}
		}
		next.Profile.Goal = answers.Goal
		next.Step = stepTraining
	case stepTraining:
		if answers.WorkoutMode == nil {
			return d, &validationError{Field: "workout_mode", Constraint: "is required"}
		}
		next.Profile.WorkoutMode = answers.WorkoutMode
		next.Profile.Intensity = answers.Intensity
		next.Profile.TrainingStyles = append([]string(nil), answers.TrainingStyles...)
		next.Step = stepConfirm
	case stepConfirm:
		return d, &validationError{Field: "step", Constraint: "is complete; confirm the draft instead"}
	default:
		return d, &validationError{Field: "step", Constraint: "must be one of: body, goal, training, confirm"}
	}

	if err := validateProfile(&next.Profile); err != nil {
		return d, err
	}
	return next, nil
}

// confirmedProfile turns a finished draft into the profile to store, with
// targets from the quick-start estimate.
func (d onboardingDraft) confirmedProfile(userID uuid.UUID) (profile, dailyTargets, error) {
	if d.Step != stepConfirm {
		return profile{}, dailyTargets{}, &validationError{Field: "step", Constraint: "must be confirm"}
	}
	if err := validateProfile(&d.Profile); err != nil {
		return profile{}, dailyTargets{}, err
	}

	targets := computeTargets(metricsFromInput(d.Profile), quickStartEstimate, waterFactorStandard)
	in := d.Profile
	p := profile{
		UserID:            userID,
		HeightCM:          in.Height,
		WeightKG:          *in.Weight,
		TargetWeightKG:    in.TargetWeight,
		Age:               in.Age,
		Gender:            in.Gender,
		Goal:              in.Goal,
		WorkoutMode:       in.WorkoutMode,
		Intensity:         in.Intensity,
		TrainingStyles:    nonNilStyles(in.TrainingStyles),
		DailyCalories:     &targets.CalorieTarget,
		ProteinTarget:     &targets.ProteinTarget,
		WaterTargetLiters: &targets.WaterTargetLiters,
	}
	return p, targets, nil
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// advanceOnboarding handles POST /api/onboarding/advance.
// Body: { "draft": {...}, "answers": {...} }. Returns the next draft and, from
// the goal step on, the quick-start targets the answers imply so far.
func (h *Handler) advanceOnboarding(c *gin.Context) {
	var body struct {
		Draft   onboardingDraft `json:"draft"`
		Answers profileInput    `json:"answers"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, "advanceOnboarding", bindError(err))
		return
	}

	next, err := body.Draft.advance(body.Answers)
	if err != nil {
		respondError(c, "advanceOnboarding", err)
		return
	}

	targets := computeTargets(metricsFromInput(next.Profile), quickStartEstimate, waterFactorStandard)
	c.JSON(http.StatusOK, gin.H{"draft": next, "targets": targets})
}

// completeOnboarding handles POST /api/onboarding/complete.
// Body: { "draft": {...} } at the confirm step. Stores the profile.
func (h *Handler) completeOnboarding(c *gin.Context) {
	userID := currentUserID(c)

	var body struct {
		Draft onboardingDraft `json:"draft"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, "completeOnboarding", bindError(err))
		return
	}

	p, targets, err := body.Draft.confirmedProfile(userID)
	if err != nil {
		respondError(c, "completeOnboarding", err)
		return
	}

	saved, err := h.profiles.saveProfile(c, p)
	if err != nil {
		respondError(c, "completeOnboarding", err)
		return
	}
	populateComputedMetrics(&saved)

	c.JSON(http.StatusCreated, gin.H{"profile": saved, "targets": targets})
}
