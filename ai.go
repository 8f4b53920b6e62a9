package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

/* ─── Typed collaborator ─────────────────────────────────────────────── */

// contentKind is the section of a plan being generated.
type contentKind string

const (
	kindMeal     contentKind = "meal"
	kindExercise contentKind = "exercise"
	kindYoga     contentKind = "yoga"
	kindPilates  contentKind = "pilates"
)

// contentRequest asks the collaborator for one plan section. Whitelist is the
// closed set of names items may use; MinItems/MaxItems bound the item count
// for multi-item sessions (both zero for meals).
type contentRequest struct {
	Kind      contentKind
	Prompt    string
	Whitelist []string
	MinItems  int
	MaxItems  int
}

// contentItem is one exercise, pose or movement inside a session.
type contentItem struct {
	Name            string `json:"name"`
	Reps            string `json:"reps,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	Cue             string `json:"cue,omitempty"`
}

// generatedContent is the structured output for any section. Meals use
// Ingredients and Calories; sessions use Items and DurationMinutes.
type generatedContent struct {
	Title           string        `json:"title"`
	Instructions    string        `json:"instructions"`
	Items           []contentItem `json:"items,omitempty"`
	Ingredients     []string      `json:"ingredients,omitempty"`
	Calories        int           `json:"calories,omitempty"`
	DurationMinutes int           `json:"duration_minutes,omitempty"`
}

// contentGenerator produces structured content for a request. Implementations
// return parsed data; schema and whitelist checks happen in checkContent.
type contentGenerator interface {
	generateStructuredContent(ctx context.Context, req contentRequest) (generatedContent, error)
}

// checkContent enforces the schema for req.Kind and that every item name is
// on the whitelist. Matching ignores case; matched names are rewritten to the
// whitelist spelling.
func checkContent(req contentRequest, c *generatedContent) error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("%s: missing title", req.Kind)
	}
	if strings.TrimSpace(c.Instructions) == "" {
		return fmt.Errorf("%s: missing instructions", req.Kind)
	}

	if req.Kind == kindMeal {
		if len(c.Ingredients) == 0 {
			return fmt.Errorf("meal: missing ingredients")
		}
		if c.Calories <= 0 {
			return fmt.Errorf("meal: calories must be positive, got %d", c.Calories)
		}
		return nil
	}

	if len(c.Items) < req.MinItems || len(c.Items) > req.MaxItems {
		return fmt.Errorf("%s: expected %d-%d items, got %d", req.Kind, req.MinItems, req.MaxItems, len(c.Items))
	}
	allowed := make(map[string]string, len(req.Whitelist))
	for _, name := range req.Whitelist {
		allowed[strings.ToLower(name)] = name
	}
	for i, item := range c.Items {
		canonical, ok := allowed[strings.ToLower(strings.TrimSpace(item.Name))]
		if !ok {
			return fmt.Errorf("%s: item %q is not an allowed name", req.Kind, item.Name)
		}
		c.Items[i].Name = canonical
	}
	return nil
}

/* ─── OpenAI prompt ──────────────────────────────────────────────────── */

const contentSystemPromptTemplate = `You are a certified fitness and nutrition coach writing one section of a daily plan.
Return a JSON object with:
%s
Return only valid JSON, no explanation.`

const mealSchema = `- "title" (string, dish name in title case)
- "instructions" (string, short preparation steps)
- "ingredients" (array of strings, with quantities)
- "calories" (integer, total for the serving)`

const sessionSchemaTemplate = `- "title" (string, session name)
- "instructions" (string, how to run the session, warm-up and cool-down included)
- "duration_minutes" (integer)
- "items" (array of %d to %d objects with "name", "reps" or "duration_seconds", and a short "cue")
Every "name" MUST be copied exactly from this list and nothing else: %s`

// systemPromptFor builds the system message describing the schema and, for
// sessions, the whitelist.
func systemPromptFor(req contentRequest) string {
	schema := mealSchema
	if req.Kind != kindMeal {
		schema = fmt.Sprintf(sessionSchemaTemplate, req.MinItems, req.MaxItems, strings.Join(req.Whitelist, ", "))
	}
	return fmt.Sprintf(contentSystemPromptTemplate, schema)
}

/* ─── OpenAI HTTP client ─────────────────────────────────────────────── */

// maxErrorBody caps how much of a failed response ends up in the error.
const maxErrorBody = 512

var errNoAPIKey = errors.New("OPENAI_API_KEY not set")

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}

// openAIRequest is the chat completions request body, always in JSON mode.
type openAIRequest struct {
	Model          string               `json:"model"`
	Messages       []openAIMessage      `json:"messages"`
	Temperature    float64              `json:"temperature"`
	ResponseFormat openAIResponseFormat `json:"response_format"`
}

// openAIResponse holds the fields read from a chat completions reply.
type openAIResponse struct {
	Choices []struct {
		Message      openAIMessage `json:"message"`
		FinishReason string        `json:"finish_reason"`
	} `json:"choices"`
}

// openAIStatusError is a non-200 reply. Body is cut to maxErrorBody bytes.
type openAIStatusError struct {
	Kind   contentKind
	Status int
	Body   string
}

func (e *openAIStatusError) Error() string {
	return fmt.Sprintf("%s: openai returned status %d: %s", e.Kind, e.Status, e.Body)
}

// openAIContentGenerator implements contentGenerator with the chat
// completions API.
type openAIContentGenerator struct {
	apiKey  string
	baseURL string // overridable for tests
	model   string
	client  *http.Client
}

func newOpenAIContentGenerator(cfg aiConfig) *openAIContentGenerator {
	return &openAIContentGenerator{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (g *openAIContentGenerator) generateStructuredContent(ctx context.Context, req contentRequest) (generatedContent, error) {
	raw, err := g.complete(ctx, req.Kind, []openAIMessage{
		{Role: "system", Content: systemPromptFor(req)},
		{Role: "user", Content: req.Prompt},
	})
	if err != nil {
		return generatedContent{}, err
	}

	var out generatedContent
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return generatedContent{}, fmt.Errorf("parse %s content: %w", req.Kind, err)
	}
	return out, nil
}

// complete posts one chat request for a plan section and returns the first
// choice's content. Every error names the section.
func (g *openAIContentGenerator) complete(ctx context.Context, kind contentKind, messages []openAIMessage) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("%s: %w", kind, errNoAPIKey)
	}

	payload, err := json.Marshal(openAIRequest{
		Model:          g.model,
		Messages:       messages,
		Temperature:    0.7,
		ResponseFormat: openAIResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("%s: encode request: %w", kind, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", kind, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%s: call openai: %w", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &openAIStatusError{Kind: kind, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%s: decode openai response: %w", kind, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices in openai response", kind)
	}
	choice := out.Choices[0]
	if choice.FinishReason == "length" {
		return "", fmt.Errorf("%s: openai response cut off at the token limit", kind)
	}
	return choice.Message.Content, nil
}

// withAttemptTimeout runs fn under a per-attempt deadline derived from ctx.
func withAttemptTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(attemptCtx)
}
