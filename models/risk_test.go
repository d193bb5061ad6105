package models

import (
	"errors"
	"testing"
)

func TestClassifyRisk(t *testing.T) {
	cases := []struct {
		name      string
		emotion   string
		intensity int
		want      RiskLevel
	}{
		{"intensidad mínima", "alegría", 1, RiskLow},
		{"intensidad 4 sigue siendo baja", "tristeza", 4, RiskLow},
		{"intensidad 5 es moderada", "tristeza", 5, RiskModerate},
		{"intensidad 6 es moderada", "ansiedad", 6, RiskModerate},
		{"intensidad 7 es alta", "ansiedad", 7, RiskHigh},
		{"intensidad 8 es crítica", "enojo", 8, RiskCritical},
		{"intensidad máxima", "miedo", 10, RiskCritical},
		{"emoción severa con intensidad baja", "depresión", 2, RiskCritical},
		{"emoción severa sin tilde", "depresion", 2, RiskCritical},
		{"pánico siempre crítico", "pánico", 1, RiskCritical},
		{"crisis siempre crítica", "crisis", 5, RiskCritical},
		{"severa con mayúsculas", "SUICIDIO", 3, RiskCritical},
		{"severa con espacios", "  desesperanza  ", 4, RiskCritical},
		{"emoción desconocida usa solo la intensidad", "nostalgia", 6, RiskModerate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ClassifyRisk(tc.emotion, tc.intensity)
			if err != nil {
				t.Fatalf("ClassifyRisk(%q, %d) error inesperado: %v", tc.emotion, tc.intensity, err)
			}
			if got != tc.want {
				t.Errorf("ClassifyRisk(%q, %d) = %s, se esperaba %s", tc.emotion, tc.intensity, got, tc.want)
			}
		})
	}
}

func TestClassifyRiskInvalidIntensity(t *testing.T) {
	for _, intensity := range []int{0, -1, 11, 100} {
		if _, err := ClassifyRisk("ansiedad", intensity); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ClassifyRisk con intensidad %d: se esperaba ErrInvalidInput, se obtuvo %v", intensity, err)
		}
	}
}

func TestClassifyRiskDeterministic(t *testing.T) {
	first, err := ClassifyRisk("ansiedad", 7)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 50; i++ {
		got, err := ClassifyRisk("ansiedad", 7)
		if err != nil || got != first {
			t.Fatalf("llamada %d: (%s, %v), la primera dio %s", i, got, err, first)
		}
	}
}

func TestSevereEmotionsAlwaysCritical(t *testing.T) {
	severe := []string{"depresión", "pánico", "crisis", "suicidio", "autolesión", "desesperanza"}
	for _, emotion := range severe {
		for intensity := 1; intensity <= 10; intensity++ {
			got, err := ClassifyRisk(emotion, intensity)
			if err != nil {
				t.Fatalf("ClassifyRisk(%q, %d): %v", emotion, intensity, err)
			}
			if got != RiskCritical {
				t.Errorf("ClassifyRisk(%q, %d) = %s, se esperaba CRITICAL", emotion, intensity, got)
			}
		}
	}
}
