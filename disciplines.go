package main

import "sort"

// styleSet is a set of training styles (gym, home, yoga, pilates).
type styleSet map[string]bool

func newStyleSet(styles ...string) styleSet {
	s := make(styleSet, len(styles))
	for _, st := range styles {
		s[st] = true
	}
	return s
}

func (s styleSet) has(style string) bool { return s[style] }

// hasStrength reports whether gym or home strength training is selected.
func (s styleSet) hasStrength() bool { return s[styleGym] || s[styleHome] }

// sorted returns the styles in a stable order, mainly for logs and prompts.
func (s styleSet) sorted() []string {
	out := make([]string, 0, len(s))
	for st := range s {
		out = append(out, st)
	}
	sort.Strings(out)
	return out
}

// effectiveStyles returns the selected training styles. Users who skipped the
// question train in their workout mode (home when that is missing too).
func effectiveStyles(styles []string, workoutMode *string) styleSet {
	if len(styles) > 0 {
		return newStyleSet(styles...)
	}
	if workoutMode != nil && *workoutMode == modeGym {
		return newStyleSet(styleGym)
	}
	return newStyleSet(styleHome)
}

// disciplines is what a plan must contain for a given style combination.
type disciplines struct {
	NeedsExercise bool `json:"needs_exercise"`
	NeedsYoga     bool `json:"needs_yoga"`
	NeedsPilates  bool `json:"needs_pilates"`
}

// styleBits packs a style set into a 4-bit index into disciplineTable.
func styleBits(s styleSet) int {
	bits := 0
	if s.has(styleGym) {
		bits |= 1
	}
	if s.has(styleHome) {
		bits |= 2
	}
	if s.has(styleYoga) {
		bits |= 4
	}
	if s.has(stylePilates) {
		bits |= 8
	}
	return bits
}

// disciplineTable maps every subset of {gym, home, yoga, pilates}, indexed by
// styleBits, to the content a plan needs. The empty set never reaches the
// table because effectiveStyles always yields a style.
var disciplineTable = [16]disciplines{
	0:  {NeedsExercise: true},                                      // {} (fallback)
	1:  {NeedsExercise: true},                                      // gym
	2:  {NeedsExercise: true},                                      // home
	3:  {NeedsExercise: true},                                      // gym+home
	4:  {NeedsYoga: true},                                          // yoga
	5:  {NeedsExercise: true, NeedsYoga: true},                     // gym+yoga
	6:  {NeedsExercise: true, NeedsYoga: true},                     // home+yoga
	7:  {NeedsExercise: true, NeedsYoga: true},                     // gym+home+yoga
	8:  {NeedsPilates: true},                                       // pilates
	9:  {NeedsExercise: true, NeedsPilates: true},                  // gym+pilates
	10: {NeedsExercise: true, NeedsPilates: true},                  // home+pilates
	11: {NeedsExercise: true, NeedsPilates: true},                  // gym+home+pilates
	12: {NeedsYoga: true, NeedsPilates: true},                      // yoga+pilates
	13: {NeedsExercise: true, NeedsYoga: true, NeedsPilates: true}, // gym+yoga+pilates
	14: {NeedsExercise: true, NeedsYoga: true, NeedsPilates: true}, // home+yoga+pilates
	15: {NeedsExercise: true, NeedsYoga: true, NeedsPilates: true}, // all
}

// disciplinesFor looks up the content flags for a style set.
func disciplinesFor(s styleSet) disciplines {
	return disciplineTable[styleBits(s)]
}
