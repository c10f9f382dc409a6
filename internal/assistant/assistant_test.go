package assistant

import (
	"strings"
	"testing"

	"github.com/certifyai/certify-backend/internal/config"
	"github.com/certifyai/certify-backend/internal/model"
	"github.com/rs/zerolog"
)

func TestNewFallsBackWithoutCredential(t *testing.T) {
	log := zerolog.Nop()

	if _, ok := New(&config.Config{}, log).(*CannedResponder); !ok {
		t.Error("no API key must select the canned responder")
	}

	cfg := &config.Config{AIAPIKey: "sk-test", AIModel: "gpt-4o-mini"}
	if _, ok := New(cfg, log).(*Client); !ok {
		t.Error("an API key must select the live client")
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	t.Run("bare request uses the base persona", func(t *testing.T) {
		if got := buildSystemPrompt("", nil); got != studyAssistantPrompt {
			t.Error("no context should leave the persona untouched")
		}
	})

	t.Run("question context is appended", func(t *testing.T) {
		got := buildSystemPrompt("Q: Which AWS service stores objects?", nil)
		if !strings.HasPrefix(got, studyAssistantPrompt) {
			t.Error("persona must stay first")
		}
		if !strings.Contains(got, "Which AWS service stores objects?") {
			t.Error("question context missing from prompt")
		}
	})

	t.Run("personalization is appended", func(t *testing.T) {
		p := &model.PersonalizationContext{
			ExperienceLevel: "beginner",
			WeakTopics:      []string{"Networking"},
		}
		got := buildSystemPrompt("", p)
		if !strings.Contains(got, "beginner") || !strings.Contains(got, "Networking") {
			t.Error("learner profile missing from prompt")
		}
	})
}
