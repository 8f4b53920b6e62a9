package main

import (
	"math"
	"testing"
)

func male70(goal string, styles ...string) bodyMetrics {
	return bodyMetrics{
		WeightKG: 70,
		HeightCM: 175,
		Age:      30,
		Gender:   genderMale,
		Goal:     goal,
		Styles:   newStyleSet(styles...),
	}
}

func TestComputeBMR(t *testing.T) {
	tests := []struct {
		name string
		m    bodyMetrics
		want float64
	}{
		{"male", male70(goalMaintain, styleGym), 1648.75},
		{"female", bodyMetrics{WeightKG: 70, HeightCM: 175, Age: 30, Gender: genderFemale}, 1482.75},
		{"unknown gender uses female constant", bodyMetrics{WeightKG: 70, HeightCM: 175, Age: 30}, 1482.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeBMR(tt.m); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("computeBMR() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestActivityFactor(t *testing.T) {
	tests := []struct {
		styles []string
		want   float64
	}{
		{[]string{styleGym}, 1.55},
		{[]string{styleGym, styleYoga}, 1.55},
		{[]string{styleHome, styleYoga}, 1.50},
		{[]string{styleHome, stylePilates}, 1.50},
		{[]string{styleHome}, 1.45},
		{[]string{stylePilates}, 1.45},
		{[]string{styleYoga, stylePilates}, 1.45},
		{[]string{styleYoga}, 1.40},
	}
	for _, tt := range tests {
		if got := activityFactor(newStyleSet(tt.styles...)); got != tt.want {
			t.Errorf("activityFactor(%v) = %v, want %v", tt.styles, got, tt.want)
		}
	}
}

func TestComputeTargets_Standard(t *testing.T) {
	tests := []struct {
		goal         string
		wantCalories int
	}{
		{goalLoseWeight, 2056},
		{goalGainMuscle, 2856},
		{goalMaintain, 2556},
		{goalToneFlexibility, 2556},
	}
	for _, tt := range tests {
		t.Run(tt.goal, func(t *testing.T) {
			got := computeTargets(male70(tt.goal, styleGym), standardEstimate, waterFactorStandard)
			if got.BMR != 1649 {
				t.Errorf("BMR = %d, want 1649", got.BMR)
			}
			if got.TDEE != 2556 {
				t.Errorf("TDEE = %d, want 2556", got.TDEE)
			}
			if got.CalorieTarget != tt.wantCalories {
				t.Errorf("CalorieTarget = %d, want %d", got.CalorieTarget, tt.wantCalories)
			}
			if got.ProteinTarget != 154 {
				t.Errorf("ProteinTarget = %d, want 154", got.ProteinTarget)
			}
			if got.WaterTargetLiters != 2.3 {
				t.Errorf("WaterTargetLiters = %v, want 2.3", got.WaterTargetLiters)
			}
			if got.Strategy != "standard" {
				t.Errorf("Strategy = %q, want standard", got.Strategy)
			}
		})
	}
}

func TestComputeTargets_QuickStartIgnoresGoal(t *testing.T) {
	for _, goal := range []string{goalLoseWeight, goalGainMuscle, goalMaintain} {
		got := computeTargets(male70(goal, styleGym), quickStartEstimate, waterFactorStandard)
		if got.CalorieTarget != 2206 {
			t.Errorf("goal %s: CalorieTarget = %d, want 2206", goal, got.CalorieTarget)
		}
		if got.Strategy != "quick_start" {
			t.Errorf("goal %s: Strategy = %q, want quick_start", goal, got.Strategy)
		}
	}
}

func TestProteinTarget(t *testing.T) {
	target := 65.0
	withTarget := male70(goalLoseWeight, styleYoga)
	withTarget.TargetWeightKG = &target

	tests := []struct {
		name string
		s    estimateStrategy
		m    bodyMetrics
		want int
	}{
		{"standard gym", standardEstimate, male70(goalMaintain, styleGym), 154},
		{"standard home", standardEstimate, male70(goalMaintain, styleHome), 154},
		{"standard yoga only", standardEstimate, male70(goalMaintain, styleYoga), 112},
		{"standard ignores target weight", standardEstimate, withTarget, 112},
		{"quick start uses target weight", quickStartEstimate, withTarget, 130},
		{"quick start falls back to weight", quickStartEstimate, male70(goalMaintain, styleYoga), 140},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.proteinTarget(tt.m); got != tt.want {
				t.Errorf("proteinTarget() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWaterTarget(t *testing.T) {
	tests := []struct {
		weight, factor, want float64
	}{
		{70, waterFactorStandard, 2.3},
		{80, waterFactorPreview, 3.6},
		{100, waterFactorStandard, 3.3},
	}
	for _, tt := range tests {
		if got := waterTarget(tt.weight, tt.factor); got != tt.want {
			t.Errorf("waterTarget(%v, %v) = %v, want %v", tt.weight, tt.factor, got, tt.want)
		}
	}
}

func TestMetricsFromProfile_Defaults(t *testing.T) {
	p := profile{WeightKG: 70}
	m := metricsFromProfile(p)

	if m.HeightCM != defaultHeightCM || m.Age != defaultAge {
		t.Errorf("defaults = (%v, %d), want (%v, %d)", m.HeightCM, m.Age, defaultHeightCM, defaultAge)
	}
	if !m.Styles.has(styleHome) || len(m.Styles) != 1 {
		t.Errorf("Styles = %v, want {home}", m.Styles.sorted())
	}
	// 700 + 1062.5 - 150 - 161
	if got := computeBMR(m); got != 1451.5 {
		t.Errorf("computeBMR() = %v, want 1451.5", got)
	}
}

func TestPopulateComputedMetrics(t *testing.T) {
	h, a, g, mode := 175.0, 30, genderMale, modeHome
	p := profile{WeightKG: 70, HeightCM: &h, Age: &a, Gender: &g, WorkoutMode: &mode}

	populateComputedMetrics(&p)

	if p.ComputedBMR == nil || *p.ComputedBMR != 1649 {
		t.Errorf("ComputedBMR = %v, want 1649", p.ComputedBMR)
	}
	// 1648.75 * 1.45 = 2390.6875
	if p.ComputedTDEE == nil || *p.ComputedTDEE != 2391 {
		t.Errorf("ComputedTDEE = %v, want 2391", p.ComputedTDEE)
	}

	empty := profile{}
	populateComputedMetrics(&empty)
	if empty.ComputedBMR != nil || empty.ComputedTDEE != nil {
		t.Error("expected no computed metrics without a weight")
	}
}
