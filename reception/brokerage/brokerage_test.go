package brokerage

import (
	"strings"
	"testing"

	contractx "github.com/bearteam/frontdesk/reception/contract"
)

func TestKnowledgeSplicesOfficeContact(t *testing.T) {
	t.Parallel()

	kb := Knowledge()
	for _, want := range []string{Address, Phone, Email} {
		if !strings.Contains(kb, want) {
			t.Errorf("knowledge base missing %q", want)
		}
	}
	if strings.Contains(kb, "{{") {
		t.Fatalf("unresolved placeholder in knowledge base:\n%s", kb)
	}
}

func TestSystemPromptEmbedsKnowledge(t *testing.T) {
	t.Parallel()

	prompt := SystemPrompt()
	if strings.Contains(prompt, "{{KNOWLEDGE}}") {
		t.Fatal("knowledge placeholder not spliced")
	}
	if !strings.Contains(prompt, Address) {
		t.Fatal("system prompt missing the office address")
	}
}

func TestRouteAgent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		intent    contractx.Intent
		turnCount int
		want      string
	}{
		{"seller", contractx.IntentSeller, 3, "Bethanne Baer"},
		{"renter", contractx.IntentRenter, 3, "Owen Willis"},
		{"buyer even turns", contractx.IntentBuyer, 2, "Lissette Dennis"},
		{"buyer odd turns", contractx.IntentBuyer, 3, "Shanelle Mitchell"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := RouteAgent(tt.intent, tt.turnCount)
			if agent == nil || agent.Name != tt.want {
				t.Fatalf("RouteAgent(%q, %d) = %+v, want %s", tt.intent, tt.turnCount, agent, tt.want)
			}
		})
	}

	if agent := RouteAgent(contractx.IntentUnset, 4); agent != nil {
		t.Fatalf("RouteAgent without intent = %+v, want nil", agent)
	}
}
