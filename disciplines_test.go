package main

import "testing"

func TestDisciplinesFor(t *testing.T) {
	tests := []struct {
		name   string
		styles []string
		want   disciplines
	}{
		{"gym", []string{styleGym}, disciplines{NeedsExercise: true}},
		{"home", []string{styleHome}, disciplines{NeedsExercise: true}},
		{"yoga only", []string{styleYoga}, disciplines{NeedsYoga: true}},
		{"pilates only", []string{stylePilates}, disciplines{NeedsPilates: true}},
		{"gym and yoga", []string{styleGym, styleYoga}, disciplines{NeedsExercise: true, NeedsYoga: true}},
		{"yoga and pilates", []string{styleYoga, stylePilates}, disciplines{NeedsYoga: true, NeedsPilates: true}},
		{"everything", []string{styleGym, styleHome, styleYoga, stylePilates}, disciplines{NeedsExercise: true, NeedsYoga: true, NeedsPilates: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := disciplinesFor(newStyleSet(tt.styles...)); got != tt.want {
				t.Errorf("disciplinesFor(%v) = %+v, want %+v", tt.styles, got, tt.want)
			}
		})
	}
}

// Every non-empty subset needs exactly the sections its styles name.
func TestDisciplineTable_AllSubsets(t *testing.T) {
	all := []string{styleGym, styleHome, styleYoga, stylePilates}
	for bits := 1; bits < 16; bits++ {
		var styles []string
		for i, s := range all {
			if bits&(1<<i) != 0 {
				styles = append(styles, s)
			}
		}
		set := newStyleSet(styles...)
		got := disciplinesFor(set)

		if got.NeedsExercise != set.hasStrength() {
			t.Errorf("%v: NeedsExercise = %v", styles, got.NeedsExercise)
		}
		if got.NeedsYoga != set.has(styleYoga) {
			t.Errorf("%v: NeedsYoga = %v", styles, got.NeedsYoga)
		}
		if got.NeedsPilates != set.has(stylePilates) {
			t.Errorf("%v: NeedsPilates = %v", styles, got.NeedsPilates)
		}
	}
}

func TestEffectiveStyles(t *testing.T) {
	gym, home := modeGym, modeHome

	tests := []struct {
		name   string
		styles []string
		mode   *string
		want   []string
	}{
		{"explicit styles win", []string{styleYoga}, &gym, []string{styleYoga}},
		{"empty with gym mode", nil, &gym, []string{styleGym}},
		{"empty with home mode", nil, &home, []string{styleHome}},
		{"empty without mode", nil, nil, []string{styleHome}},
		{"duplicates collapse", []string{styleYoga, styleYoga, stylePilates}, nil, []string{stylePilates, styleYoga}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := effectiveStyles(tt.styles, tt.mode).sorted()
			if len(got) != len(tt.want) {
				t.Fatalf("effectiveStyles() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("effectiveStyles() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
