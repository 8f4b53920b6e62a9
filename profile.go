package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// patchProfileRequest is the request body for PATCH /api/profile. Only
// non-nil fields change. Explicit targets override; otherwise targets are
// recomputed (standard estimate) whenever a body metric changes.
type patchProfileRequest struct {
	profileInput
	DailyCalories *int `json:"daily_calories"`
	ProteinTarget *int `json:"protein_target"`
}

// input converts a stored profile back to request form for validation.
func (p profile) input() profileInput {
	w := p.WeightKG
	return profileInput{
		Weight:         &w,
		Height:         p.HeightCM,
		TargetWeight:   p.TargetWeightKG,
		Age:            p.Age,
		Gender:         p.Gender,
		Goal:           p.Goal,
		WorkoutMode:    p.WorkoutMode,
		Intensity:      p.Intensity,
		TrainingStyles: p.TrainingStyles,
	}
}

// applyPatch copies the provided fields onto p and reports whether any field
// that feeds the metrics calculator changed.
func applyPatch(p *profile, body patchProfileRequest) (metricsChanged bool) {
	if body.Weight != nil {
		p.WeightKG = *body.Weight
		metricsChanged = true
	}
	if body.Height != nil {
		p.HeightCM = body.Height
		metricsChanged = true
	}
	if body.TargetWeight != nil {
		p.TargetWeightKG = body.TargetWeight
	}
	if body.Age != nil {
		p.Age = body.Age
		metricsChanged = true
	}
	if body.Gender != nil {
		p.Gender = body.Gender
		metricsChanged = true
	}
	if body.Goal != nil {
		p.Goal = body.Goal
		metricsChanged = true
	}
	if body.WorkoutMode != nil {
		p.WorkoutMode = body.WorkoutMode
		metricsChanged = true
	}
	if body.Intensity != nil {
		p.Intensity = body.Intensity
	}
	if body.TrainingStyles != nil {
		p.TrainingStyles = body.TrainingStyles
		metricsChanged = true
	}
	p.TrainingStyles = nonNilStyles(p.TrainingStyles)
	return metricsChanged
}

// getProfile returns the authenticated user's profile with computed BMR/TDEE.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	userID := currentUserID(c)

	p, err := h.profiles.getProfile(c, userID)
	if err != nil {
		respondError(c, "getProfile", err)
		return
	}

	populateComputedMetrics(&p)
	c.JSON(http.StatusOK, p)
}

// patchProfile updates only the provided profile fields. PATCH /api/profile.
// A user without a profile row gets one, as long as weight is provided.
func (h *Handler) patchProfile(c *gin.Context) {
	userID := currentUserID(c)

	var body patchProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, "patchProfile", bindError(err))
		return
	}

	p, err := h.profiles.getProfile(c, userID)
	if err != nil && !errors.Is(err, errNotFound) {
		respondError(c, "patchProfile", err)
		return
	}
	if err != nil {
		if body.Weight == nil {
			respondError(c, "patchProfile", &validationError{Field: "weight", Constraint: "is required"})
			return
		}
		p = profile{UserID: userID}
	}

	metricsChanged := applyPatch(&p, body)
	in := p.input()
	if err := validateProfile(&in); err != nil {
		respondError(c, "patchProfile", err)
		return
	}

	if metricsChanged {
		targets := computeTargets(metricsFromProfile(p), standardEstimate, waterFactorStandard)
		p.DailyCalories = &targets.CalorieTarget
		p.ProteinTarget = &targets.ProteinTarget
		p.WaterTargetLiters = &targets.WaterTargetLiters
	}
	if body.DailyCalories != nil {
		if *body.DailyCalories <= 0 {
			respondError(c, "patchProfile", &validationError{Field: "daily_calories", Constraint: "must be positive"})
			return
		}
		p.DailyCalories = body.DailyCalories
	}
	if body.ProteinTarget != nil {
		if *body.ProteinTarget <= 0 {
			respondError(c, "patchProfile", &validationError{Field: "protein_target", Constraint: "must be positive"})
			return
		}
		p.ProteinTarget = body.ProteinTarget
	}

	saved, err := h.profiles.saveProfile(c, p)
	if err != nil {
		respondError(c, "patchProfile", err)
		return
	}

	populateComputedMetrics(&saved)
	c.JSON(http.StatusOK, saved)
}
