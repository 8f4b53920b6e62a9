package main

import "math"

// Water targets in liters per kg of body weight. The dashboard and onboarding
// use the standard factor; anonymous preview plans use the higher one.
const (
	waterFactorStandard = 0.033
	waterFactorPreview  = 0.045
)

// Defaults used when the optional height or age answers are missing.
const (
	defaultHeightCM = 170.0
	defaultAge      = 30
)

// bodyMetrics is the calculator's input, decoupled from storage and request
// shapes so both the persisted profile and an anonymous preview profile can
// feed it.
type bodyMetrics struct {
	WeightKG       float64
	HeightCM       float64
	Age            int
	Gender         string
	Goal           string
	TargetWeightKG *float64
	Styles         styleSet
}

// metricsFromProfile builds calculator input from a stored profile.
func metricsFromProfile(p profile) bodyMetrics {
	m := bodyMetrics{
		WeightKG:       p.WeightKG,
		HeightCM:       defaultHeightCM,
		Age:            defaultAge,
		TargetWeightKG: p.TargetWeightKG,
		Styles:         effectiveStyles(p.TrainingStyles, p.WorkoutMode),
	}
	if p.HeightCM != nil {
		m.HeightCM = *p.HeightCM
	}
	if p.Age != nil {
		m.Age = *p.Age
	}
	if p.Gender != nil {
		m.Gender = *p.Gender
	}
	if p.Goal != nil {
		m.Goal = *p.Goal
	}
	return m
}

// metricsFromInput builds calculator input from a validated profileInput.
// Weight must already be known to be present.
func metricsFromInput(in profileInput) bodyMetrics {
	m := bodyMetrics{
		WeightKG:       *in.Weight,
		HeightCM:       defaultHeightCM,
		Age:            defaultAge,
		TargetWeightKG: in.TargetWeight,
		Styles:         effectiveStyles(in.TrainingStyles, in.WorkoutMode),
	}
	if in.Height != nil {
		m.HeightCM = *in.Height
	}
	if in.Age != nil {
		m.Age = *in.Age
	}
	if in.Gender != nil {
		m.Gender = *in.Gender
	}
	if in.Goal != nil {
		m.Goal = *in.Goal
	}
	return m
}

// computeBMR returns BMR via Mifflin-St Jeor: +5 for male, −161 otherwise.
func computeBMR(m bodyMetrics) float64 {
	bmr := 10*m.WeightKG + 6.25*m.HeightCM - 5*float64(m.Age)
	if m.Gender == genderMale {
		return bmr + 5
	}
	return bmr - 161
}

// activityFactor picks the TDEE multiplier from the training-style mix.
// Gym work dominates, then home strength (slightly higher when combined with
// yoga or pilates), then pilates, then yoga alone.
func activityFactor(styles styleSet) float64 {
	switch {
	case styles.has(styleGym):
		return 1.55
	case styles.has(styleHome) && (styles.has(styleYoga) || styles.has(stylePilates)):
		return 1.50
	case styles.has(styleHome):
		return 1.45
	case styles.has(stylePilates):
		return 1.45
	default:
		return 1.40
	}
}

// computeTDEE returns BMR × activity factor, unrounded.
func computeTDEE(m bodyMetrics) float64 {
	return computeBMR(m) * activityFactor(m.Styles)
}

// estimateStrategy selects between the two calorie/protein formulas in use.
// They disagree with each other; both are kept so each call site gets the
// numbers it always produced.
type estimateStrategy int

const (
	// standardEstimate: TDEE −500 / +300 / ±0 by goal; protein 2.2 g/kg with
	// strength training, else 1.6 g/kg.
	standardEstimate estimateStrategy = iota
	// quickStartEstimate: flat TDEE −350; protein 2 g per kg of target weight.
	quickStartEstimate
)

func (s estimateStrategy) String() string {
	if s == quickStartEstimate {
		return "quick_start"
	}
	return "standard"
}

// calorieTarget returns the rounded daily calorie target for tdee.
func (s estimateStrategy) calorieTarget(m bodyMetrics, tdee float64) int {
	if s == quickStartEstimate {
		return int(math.Round(tdee - 350))
	}
	switch m.Goal {
	case goalLoseWeight:
		return int(math.Round(tdee - 500))
	case goalGainMuscle:
		return int(math.Round(tdee + 300))
	default:
		return int(math.Round(tdee))
	}
}

// proteinTarget returns the rounded daily protein target in grams.
func (s estimateStrategy) proteinTarget(m bodyMetrics) int {
	if s == quickStartEstimate {
		target := m.WeightKG
		if m.TargetWeightKG != nil {
			target = *m.TargetWeightKG
		}
		return int(math.Round(target * 2))
	}
	if m.Styles.hasStrength() {
		return int(math.Round(m.WeightKG * 2.2))
	}
	return int(math.Round(m.WeightKG * 1.6))
}

// waterTarget returns liters per day rounded to one decimal.
func waterTarget(weightKG, factor float64) float64 {
	return math.Round(weightKG*factor*10) / 10
}

// dailyTargets is the full calculator output for one profile.
type dailyTargets struct {
	BMR               int     `json:"bmr"`
	TDEE              int     `json:"tdee"`
	CalorieTarget     int     `json:"calorie_target"`
	ProteinTarget     int     `json:"protein_target"`
	WaterTargetLiters float64 `json:"water_target_liters"`
	Strategy          string  `json:"strategy"`
}

// computeTargets runs every formula for m under strategy s.
func computeTargets(m bodyMetrics, s estimateStrategy, waterFactor float64) dailyTargets {
	bmr := computeBMR(m)
	tdee := bmr * activityFactor(m.Styles)
	return dailyTargets{
		BMR:               int(math.Round(bmr)),
		TDEE:              int(math.Round(tdee)),
		CalorieTarget:     s.calorieTarget(m, tdee),
		ProteinTarget:     s.proteinTarget(m),
		WaterTargetLiters: waterTarget(m.WeightKG, waterFactor),
		Strategy:          s.String(),
	}
}

// populateComputedMetrics fills the computed-only BMR/TDEE fields on p.
// No-ops for rows without a usable weight.
func populateComputedMetrics(p *profile) {
	if p.WeightKG <= 0 {
		return
	}
	m := metricsFromProfile(*p)
	bmr := int(math.Round(computeBMR(m)))
	tdee := int(math.Round(computeTDEE(m)))
	p.ComputedBMR = &bmr
	p.ComputedTDEE = &tdee
}
