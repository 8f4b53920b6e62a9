package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Names the content generator may use for each kind of session.
var (
	homeExerciseNames = []string{
		"Push-Up", "Bodyweight Squat", "Reverse Lunge", "Glute Bridge", "Plank",
		"Mountain Climber", "Burpee", "Jumping Jack", "Superman Hold", "Tricep Dip",
		"Wall Sit", "Side Plank",
	}
	gymExerciseNames = []string{
		"Barbell Back Squat", "Deadlift", "Bench Press", "Bent-Over Row", "Overhead Press",
		"Lat Pulldown", "Leg Press", "Seated Cable Row", "Dumbbell Curl", "Tricep Pushdown",
		"Romanian Deadlift", "Leg Curl", "Plank",
	}
	yogaPoseNames = []string{
		"Mountain Pose", "Downward-Facing Dog", "Warrior I", "Warrior II", "Tree Pose",
		"Child's Pose", "Cobra Pose", "Bridge Pose", "Cat-Cow", "Triangle Pose",
		"Chair Pose", "Seated Forward Bend", "Pigeon Pose", "Corpse Pose",
	}
	pilatesMoveNames = []string{
		"The Hundred", "Roll Up", "Single Leg Circles", "Rolling Like a Ball",
		"Single Leg Stretch", "Double Leg Stretch", "Spine Stretch Forward", "Saw",
		"Swan", "Side Kick Series", "Teaser", "Swimming", "Leg Pull Front", "Shoulder Bridge",
	}
)

// Item-count bounds for multi-item sessions.
const (
	minSessionItems = 5
	maxSessionItems = 8
)

// previewPlan is the unpersisted plan returned to anonymous users. Sections
// that the training styles do not call for are omitted.
type previewPlan struct {
	ID          uuid.UUID   `json:"id"`
	GeneratedAt time.Time   `json:"generated_at"`
	Disciplines disciplines `json:"disciplines"`
	dailyTargets

	Meal     *generatedContent `json:"meal"`
	Exercise *generatedContent `json:"exercise,omitempty"`
	Yoga     *generatedContent `json:"yoga,omitempty"`
	Pilates  *generatedContent `json:"pilates,omitempty"`
}

// previewGenerator assembles preview plans from the metrics calculator and
// the content generator.
type previewGenerator struct {
	content        contentGenerator
	attemptTimeout time.Duration
	attempts       int
	now            func() time.Time
}

func newPreviewGenerator(content contentGenerator, attemptTimeout time.Duration) *previewGenerator {
	return &previewGenerator{
		content:        content,
		attemptTimeout: attemptTimeout,
		attempts:       2,
		now:            time.Now,
	}
}

// generatePreviewPlan validates in, computes targets (standard estimate,
// preview water factor) and generates only the sections its training styles
// need. Sections are generated concurrently; the first failure cancels the
// rest and no partial plan is returned.
func (g *previewGenerator) generatePreviewPlan(ctx context.Context, in *profileInput) (previewPlan, error) {
	// The HTTP handler validates before rate limiting; this check covers
	// callers that reach the generator directly.
	if err := validateProfile(in); err != nil {
		return previewPlan{}, err
	}

	m := metricsFromInput(*in)
	targets := computeTargets(m, standardEstimate, waterFactorPreview)
	need := disciplinesFor(m.Styles)
	log.Printf("[generatePreviewPlan] styles %v -> %+v", m.Styles.sorted(), need)

	var mealC, exerciseC, yogaC, pilatesC *generatedContent
	eg, egCtx := errgroup.WithContext(ctx)

	run := func(dst **generatedContent, req contentRequest) {
		eg.Go(func() error {
			c, err := g.generateSection(egCtx, req)
			if err != nil {
				return err
			}
			*dst = &c
			return nil
		})
	}

	run(&mealC, mealRequest(*in, targets))
	if need.NeedsExercise {
		run(&exerciseC, exerciseRequest(*in, m.Styles))
	}
	if need.NeedsYoga {
		run(&yogaC, yogaRequest(*in))
	}
	if need.NeedsPilates {
		run(&pilatesC, pilatesRequest(*in))
	}

	if err := eg.Wait(); err != nil {
		return previewPlan{}, err
	}

	return previewPlan{
		ID:           uuid.New(),
		GeneratedAt:  g.now().UTC(),
		Disciplines:  need,
		dailyTargets: targets,
		Meal:         mealC,
		Exercise:     exerciseC,
		Yoga:         yogaC,
		Pilates:      pilatesC,
	}, nil
}

// generateSection calls the content generator with a per-attempt timeout,
// checks the result and retries once. Failures after the last attempt (or a
// cancelled context) are CollaboratorFailure.
func (g *previewGenerator) generateSection(ctx context.Context, req contentRequest) (generatedContent, error) {
	var lastErr error
	for attempt := 1; attempt <= g.attempts; attempt++ {
		c, err := withAttemptTimeout(ctx, g.attemptTimeout, func(ctx context.Context) (generatedContent, error) {
			return g.content.generateStructuredContent(ctx, req)
		})
		if err == nil {
			err = checkContent(req, &c)
		}
		if err == nil {
			return c, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		log.Printf("[generatePreviewPlan] %s attempt %d failed: %v", req.Kind, attempt, err)
	}
	return generatedContent{}, wrapError(errCollaborator, lastErr, fmt.Sprintf("generate %s", req.Kind))
}

/* ─── Prompts ────────────────────────────────────────────────────────── */

func valueOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func mealRequest(in profileInput, t dailyTargets) contentRequest {
	return contentRequest{
		Kind: kindMeal,
		Prompt: fmt.Sprintf(
			"Create one healthy meal for someone whose goal is %s. Their daily targets are %d kcal and %d g protein; the meal should cover roughly a third of both.",
			valueOr(in.Goal, goalMaintain), t.CalorieTarget, t.ProteinTarget),
	}
}

func exerciseRequest(in profileInput, styles styleSet) contentRequest {
	names, where := homeExerciseNames, "at home with no equipment"
	if styles.has(styleGym) {
		names, where = gymExerciseNames, "in a fully equipped gym"
	}
	return contentRequest{
		Kind: kindExercise,
		Prompt: fmt.Sprintf("Create a %s-intensity strength workout done %s for someone whose goal is %s.",
			valueOr(in.Intensity, intensityMedium), where, valueOr(in.Goal, goalMaintain)),
		Whitelist: names,
		MinItems:  minSessionItems,
		MaxItems:  maxSessionItems,
	}
}

func yogaRequest(in profileInput) contentRequest {
	return contentRequest{
		Kind: kindYoga,
		Prompt: fmt.Sprintf("Create a %s-intensity yoga flow for someone whose goal is %s.",
			valueOr(in.Intensity, intensityMedium), valueOr(in.Goal, goalMaintain)),
		Whitelist: yogaPoseNames,
		MinItems:  minSessionItems,
		MaxItems:  maxSessionItems,
	}
}

func pilatesRequest(in profileInput) contentRequest {
	return contentRequest{
		Kind: kindPilates,
		Prompt: fmt.Sprintf("Create a %s-intensity mat pilates session for someone whose goal is %s.",
			valueOr(in.Intensity, intensityMedium), valueOr(in.Goal, goalMaintain)),
		Whitelist: pilatesMoveNames,
		MinItems:  minSessionItems,
		MaxItems:  maxSessionItems,
	}
}

/* ─── Handler ────────────────────────────────────────────────────────── */

// generatePreviewPlan handles POST /api/preview-plan (public). Body:
// { "profile": {...} }. Validation runs before the per-client rate limit so
// malformed requests do not use up the daily quota.
func (h *Handler) generatePreviewPlan(c *gin.Context) {
	var body previewPlanRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, "generatePreviewPlan", bindError(err))
		return
	}
	if err := validateProfile(body.Profile); err != nil {
		respondError(c, "generatePreviewPlan", err)
		return
	}

	if err := h.limiter.allow(c, c.ClientIP(), endpointPreviewPlan); err != nil {
		respondError(c, "generatePreviewPlan", err)
		return
	}

	plan, err := h.preview.generatePreviewPlan(c.Request.Context(), body.Profile)
	if err != nil {
		respondError(c, "generatePreviewPlan", err)
		return
	}

	c.JSON(http.StatusOK, plan)
}
