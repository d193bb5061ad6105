package services

import (
	"testing"

	"github.com/tmc/langchaingo/llms"
)

func TestRoleToMessageType(t *testing.T) {
	cases := []struct {
		role string
		want llms.ChatMessageType
	}{
		{"system", llms.ChatMessageTypeSystem},
		{"assistant", llms.ChatMessageTypeAI},
		{"user", llms.ChatMessageTypeHuman},
		{"", llms.ChatMessageTypeHuman},
		{"cualquier-otro", llms.ChatMessageTypeHuman},
	}

	for _, tc := range cases {
		if got := roleToMessageType(tc.role); got != tc.want {
			t.Errorf("roleToMessageType(%q) = %s, se esperaba %s", tc.role, got, tc.want)
		}
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"objeto limpio", `{"emotion":"ansiedad"}`, `{"emotion":"ansiedad"}`},
		{"bloque de código", "```json\n{\"emotion\":\"miedo\"}\n```", `{"emotion":"miedo"}`},
		{"texto alrededor", `Claro, aquí tienes: {"emotion":"tristeza"} Espero que ayude.`, `{"emotion":"tristeza"}`},
		{"sin JSON", "no tengo nada estructurado", "no tengo nada estructurado"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractJSON(tc.in); got != tc.want {
				t.Errorf("extractJSON(%q) = %q, se esperaba %q", tc.in, got, tc.want)
			}
		})
	}
}
