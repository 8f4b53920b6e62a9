package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// planGenerator builds and persists the authenticated user's daily plan.
type planGenerator struct {
	profiles profileStore
	plans    planStore
	selector *contentSelector
	now      func() time.Time
}

func newPlanGenerator(profiles profileStore, plans planStore, cat catalog) *planGenerator {
	return &planGenerator{
		profiles: profiles,
		plans:    plans,
		selector: newContentSelector(cat),
		now:      time.Now,
	}
}

// generatePlan selects fresh content for today and upserts it. Calling it
// twice on the same day overwrites the first plan's content (a new random
// pick each time) but keeps its completion flags. Everything that can fail
// before the write runs first, so a failure never leaves a partial row.
func (g *planGenerator) generatePlan(ctx context.Context, userID uuid.UUID) (dailyPlan, error) {
	p, err := g.profiles.getProfile(ctx, userID)
	if err != nil {
		return dailyPlan{}, err
	}

	sel, err := g.selector.selectContent(ctx, p)
	if err != nil {
		return dailyPlan{}, err
	}

	targets := computeTargets(metricsFromProfile(p), standardEstimate, waterFactorStandard)
	calories := targets.CalorieTarget
	if p.DailyCalories != nil {
		calories = *p.DailyCalories
	}
	protein := targets.ProteinTarget
	if p.ProteinTarget != nil {
		protein = *p.ProteinTarget
	}

	plan := dailyPlan{
		UserID:                 userID,
		PlanDate:               utcDate(g.now()),
		ExerciseTitle:          &sel.Exercise.Title,
		ExerciseInstructions:   &sel.Exercise.Instructions,
		ExerciseReps:           &sel.Exercise.Reps,
		MealTitle:              &sel.Meal.Title,
		MealInstructions:       &sel.Meal.Instructions,
		MealIngredients:        sel.Meal.Ingredients,
		MealCalories:           sel.Meal.Calories,
		YogaTitle:              &sel.Yoga.Title,
		YogaInstructions:       &sel.Yoga.Instructions,
		YogaDurationMinutes:    &sel.Yoga.DurationMinutes,
		DailyWaterTargetLiters: &targets.WaterTargetLiters,
		CalorieTarget:          &calories,
		ProteinTarget:          &protein,
	}

	if sel.Pilates != nil {
		plan.PilatesTitle = &sel.Pilates.Title
		plan.PilatesInstructions = &sel.Pilates.Instructions
		plan.PilatesDurationMinutes = sel.Pilates.DurationMinutes
	}

	return g.plans.upsertPlan(ctx, plan)
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// currentUserID returns the id set by authMiddleware.
func currentUserID(c *gin.Context) uuid.UUID {
	id, _ := c.Get("user_id")
	userID, _ := id.(uuid.UUID)
	return userID
}

// generateDailyPlan handles POST /api/plans/generate. No request body; the
// profile is read by the authenticated identity. The rate limit is checked
// before any generation work.
func (h *Handler) generateDailyPlan(c *gin.Context) {
	userID := currentUserID(c)

	if err := h.limiter.allow(c, userID.String(), endpointGeneratePlan); err != nil {
		respondError(c, "generateDailyPlan", err)
		return
	}

	plan, err := h.plans.generatePlan(c, userID)
	if err != nil {
		respondError(c, "generateDailyPlan", err)
		return
	}

	log.Printf("[generateDailyPlan] plan %s generated for user %s", plan.PlanDate, userID)
	c.JSON(http.StatusOK, gin.H{"success": true, "plan": plan})
}

// getTodayPlan handles GET /api/plans/today. 404 when no plan was generated yet.
func (h *Handler) getTodayPlan(c *gin.Context) {
	userID := currentUserID(c)

	plan, err := h.plans.plans.getPlan(c, userID, utcDate(h.plans.now()))
	if err != nil {
		respondError(c, "getTodayPlan", err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// patchTodayCompletion handles PATCH /api/plans/today/completion.
// Body: { "exercise"?, "meal"?, "yoga"?, "pilates"? }. Only sent flags change.
func (h *Handler) patchTodayCompletion(c *gin.Context) {
	userID := currentUserID(c)

	var body patchCompletionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Exercise == nil && body.Meal == nil && body.Yoga == nil && body.Pilates == nil {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	plan, err := h.plans.plans.updateCompletion(c, userID, utcDate(h.plans.now()), body)
	if err != nil {
		respondError(c, "patchTodayCompletion", err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// streakWindowDays bounds how far back the dashboard looks for a streak.
const streakWindowDays = 365

// currentStreak counts consecutive days ending today with at least one
// completed section. An untouched plan for today does not break a streak
// that ran through yesterday.
func currentStreak(plans []dailyPlan, today DateOnly) int {
	completed := make(map[string]bool, len(plans))
	for _, p := range plans {
		if p.anyCompleted() {
			completed[p.PlanDate.String()] = true
		}
	}

	day := today.Time
	if !completed[today.String()] {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for completed[DateOnly{day}.String()] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// getDashboard handles GET /api/dashboard: profile targets, today's plan
// (null when not generated yet) and the current completion streak.
func (h *Handler) getDashboard(c *gin.Context) {
	userID := currentUserID(c)
	today := utcDate(h.plans.now())

	p, err := h.profiles.getProfile(c, userID)
	if err != nil {
		respondError(c, "getDashboard", err)
		return
	}
	populateComputedMetrics(&p)

	resp := dashboardResponse{Date: today.String(), Profile: p}

	plan, err := h.plans.plans.getPlan(c, userID, today)
	switch {
	case err == nil:
		resp.Plan = &plan
	case !errors.Is(err, errNotFound):
		respondError(c, "getDashboard", err)
		return
	}

	from := DateOnly{today.AddDate(0, 0, -streakWindowDays)}
	history, err := h.plans.plans.listPlans(c, userID, from, today)
	if err != nil {
		respondError(c, "getDashboard", err)
		return
	}
	resp.CurrentStreak = currentStreak(history, today)

	c.JSON(http.StatusOK, resp)
}
