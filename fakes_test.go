package main

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for pgStore. It implements every store
// interface with the same semantics the SQL gives (upsert keyed by
// (user, date), completion flags preserved on conflict, capped counters).
type memStore struct {
	mu sync.Mutex

	users    map[string]user
	tokens   map[string]uuid.UUID
	profiles map[uuid.UUID]profile
	plans    map[string]dailyPlan
	counters map[string]int
	nextID   int

	exercises map[string][]exercise
	meals     []meal
	yoga      []yogaSession
	pilates   []pilatesExercise

	upsertErr  error
	counterErr error
	upserts    int
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[string]user{},
		tokens:    map[string]uuid.UUID{},
		profiles:  map[uuid.UUID]profile{},
		plans:     map[string]dailyPlan{},
		counters:  map[string]int{},
		exercises: map[string][]exercise{},
	}
}

// seedCatalog fills every pool with a couple of items.
func (s *memStore) seedCatalog() {
	kcal := 520
	s.exercises[modeHome] = []exercise{
		{ID: 1, Title: "Push-Up Ladder", Instructions: "Add one rep per round", Reps: "5 rounds"},
		{ID: 2, Title: "Squat Series", Instructions: "Slow eccentric", Reps: "4x15"},
	}
	s.exercises[modeGym] = []exercise{
		{ID: 3, Title: "Back Squat", Instructions: "Brace and drive", Reps: "5x5"},
		{ID: 4, Title: "Bench Press", Instructions: "Touch and press", Reps: "5x5"},
	}
	s.meals = []meal{
		{ID: 1, Title: "Chicken Rice Bowl", Instructions: "Grill and serve", Ingredients: []string{"chicken", "rice"}, Calories: &kcal, ProteinFocused: true},
		{ID: 2, Title: "Veggie Pasta", Instructions: "Boil and toss", Ingredients: []string{"pasta", "zucchini"}, ProteinFocused: false},
	}
	s.yoga = []yogaSession{
		{ID: 1, Title: "Gentle Stretch", Instructions: "Breathe", DurationMinutes: 20, IntensityLevel: intensityLow},
		{ID: 2, Title: "Vinyasa Flow", Instructions: "Flow", DurationMinutes: 30, IntensityLevel: intensityMedium},
		{ID: 3, Title: "Power Yoga", Instructions: "Sweat", DurationMinutes: 45, IntensityLevel: intensityHigh},
	}
	s.pilates = []pilatesExercise{
		{ID: 1, Title: "Mat Basics", Instructions: "Hundred, roll up, leg circles"},
		{ID: 2, Title: "Core Burner", Instructions: "Teaser series", DurationMinutes: ptr(25)},
	}
}

func planKey(userID uuid.UUID, date DateOnly) string {
	return userID.String() + "|" + date.String()
}

func (s *memStore) userByUsername(_ context.Context, username string) (user, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return u, errors.New("no rows in result set")
	}
	return u, nil
}

func (s *memStore) userIDForToken(_ context.Context, token string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tokens[token]
	if !ok {
		return uuid.Nil, errors.New("no rows in result set")
	}
	return id, nil
}

func (s *memStore) getProfile(_ context.Context, userID uuid.UUID) (profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return p, newError(errNotFound, "profile not found")
	}
	return p, nil
}

func (s *memStore) saveProfile(_ context.Context, p profile) (profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Mirrors profiles.training_styles TEXT[] NOT NULL.
	if p.TrainingStyles == nil {
		return profile{}, wrapError(errCollaborator,
			errors.New(`null value in column "training_styles" violates not-null constraint`), "save profile")
	}
	s.profiles[p.UserID] = p
	return p, nil
}

func (s *memStore) upsertPlan(_ context.Context, p dailyPlan) (dailyPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return dailyPlan{}, wrapError(errCollaborator, s.upsertErr, "save plan")
	}
	s.upserts++
	key := planKey(p.UserID, p.PlanDate)
	if existing, ok := s.plans[key]; ok {
		p.ID = existing.ID
		p.ExerciseCompleted = existing.ExerciseCompleted
		p.MealCompleted = existing.MealCompleted
		p.YogaCompleted = existing.YogaCompleted
		p.PilatesCompleted = existing.PilatesCompleted
	} else {
		s.nextID++
		p.ID = s.nextID
	}
	s.plans[key] = p
	return p, nil
}

func (s *memStore) getPlan(_ context.Context, userID uuid.UUID, date DateOnly) (dailyPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.plans[planKey(userID, date)]
	if !ok {
		return p, newError(errNotFound, "plan not found")
	}
	return p, nil
}

func (s *memStore) updateCompletion(_ context.Context, userID uuid.UUID, date DateOnly, req patchCompletionRequest) (dailyPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := planKey(userID, date)
	p, ok := s.plans[key]
	if !ok {
		return p, newError(errNotFound, "plan not found")
	}
	if req.Exercise != nil {
		p.ExerciseCompleted = *req.Exercise
	}
	if req.Meal != nil {
		p.MealCompleted = *req.Meal
	}
	if req.Yoga != nil {
		p.YogaCompleted = *req.Yoga
	}
	if req.Pilates != nil {
		p.PilatesCompleted = *req.Pilates
	}
	s.plans[key] = p
	return p, nil
}

func (s *memStore) listPlans(_ context.Context, userID uuid.UUID, from, to DateOnly) ([]dailyPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []dailyPlan
	for _, p := range s.plans {
		if p.UserID == userID && !p.PlanDate.Before(from.Time) && !p.PlanDate.After(to.Time) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memStore) listExercises(_ context.Context, workoutMode string) ([]exercise, error) {
	return s.exercises[workoutMode], nil
}

func (s *memStore) listMeals(_ context.Context) ([]meal, error) { return s.meals, nil }

func (s *memStore) listYogaSessions(_ context.Context) ([]yogaSession, error) { return s.yoga, nil }

func (s *memStore) listPilatesExercises(_ context.Context) ([]pilatesExercise, error) {
	return s.pilates, nil
}

func (s *memStore) increment(_ context.Context, key, endpoint string, day DateOnly, limit int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counterErr != nil {
		return 0, false, s.counterErr
	}
	k := fmt.Sprintf("%s|%s|%s", key, endpoint, day)
	if s.counters[k] >= limit {
		return s.counters[k], false, nil
	}
	s.counters[k]++
	return s.counters[k], true, nil
}

/* ─── Content generator fake ─────────────────────────────────────────── */

// fakeContent returns schema-valid content for every kind unless a kind is
// listed in failures (consumed one per call; nil entries mean success).
type fakeContent struct {
	mu       sync.Mutex
	calls    []contentKind
	failures map[contentKind][]error
	override map[contentKind]generatedContent
}

func (f *fakeContent) generateStructuredContent(ctx context.Context, req contentRequest) (generatedContent, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req.Kind)
	var failure error
	if queue := f.failures[req.Kind]; len(queue) > 0 {
		failure = queue[0]
		f.failures[req.Kind] = queue[1:]
	}
	override, hasOverride := f.override[req.Kind]
	f.mu.Unlock()

	if failure != nil {
		return generatedContent{}, failure
	}
	if hasOverride {
		return override, nil
	}
	if req.Kind == kindMeal {
		return generatedContent{
			Title:        "Salmon Quinoa Bowl",
			Instructions: "Bake salmon, cook quinoa, assemble.",
			Ingredients:  []string{"150g salmon", "80g quinoa", "spinach"},
			Calories:     610,
		}, nil
	}
	items := make([]contentItem, minSessionItems)
	for i := range items {
		items[i] = contentItem{Name: req.Whitelist[i], Reps: "10"}
	}
	return generatedContent{
		Title:           "Session " + string(req.Kind),
		Instructions:    "Warm up, work, cool down.",
		DurationMinutes: 30,
		Items:           items,
	}, nil
}

func (f *fakeContent) called(kind contentKind) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, k := range f.calls {
		if k == kind {
			n++
		}
	}
	return n
}

/* ─── Router helpers ─────────────────────────────────────────────────── */

var testNow = time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)

const testToken = "test-token"

// newTestHandler builds a Handler on memStore and fakeContent with the clock
// fixed at testNow, and registers one user with testToken.
func newTestHandler(store *memStore, content contentGenerator) (*Handler, uuid.UUID) {
	userID := uuid.New()
	store.tokens[testToken] = userID

	h := &Handler{
		users:    store,
		profiles: store,
		plans:    newPlanGenerator(store, store, store),
		preview:  newPreviewGenerator(content, time.Second),
		limiter:  newRateLimiter(store, defaultDailyRequestLimit),
	}
	h.plans.now = func() time.Time { return testNow }
	h.preview.now = func() time.Time { return testNow }
	h.limiter.now = func() time.Time { return testNow }
	return h, userID
}

func newTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(corsMiddleware([]string{"https://app.example.com"}))
	h.registerRoutes(router)
	return router
}

// doRequest sends method/path with an optional JSON body and bearer token.
func doRequest(router *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func ptr[T any](v T) *T { return &v }
