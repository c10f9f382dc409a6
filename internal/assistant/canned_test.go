package assistant

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/certifyai/certify-backend/internal/model"
)

func noDelay() time.Duration { return 0 }

func userTurn(content string) []model.ChatTurn {
	return []model.ChatTurn{{Role: model.ChatRoleUser, Content: content}}
}

// collect drains a stream and reassembles the full text.
func collect(t *testing.T, s Stream) string {
	t.Helper()
	var b strings.Builder
	for {
		frag, err := s.Recv()
		if errors.Is(err, io.EOF) {
			return b.String()
		}
		if err != nil {
			t.Fatalf("unexpected stream error: %v", err)
		}
		b.WriteString(frag)
	}
}

func TestPickCannedBody(t *testing.T) {
	cases := []struct {
		name    string
		message string
		want    string
	}{
		{"explain keyword", "Can you explain this?", cannedExplain},
		{"concept keyword", "what CONCEPT is this", cannedExplain},
		{"hint keyword", "give me a hint", cannedHint},
		{"guide keyword", "guide me through it", cannedHint},
		{"wrong keyword", "why was I wrong?", cannedWrong},
		{"incorrect keyword", "my answer was incorrect", cannedWrong},
		{"study keyword", "what should I study next", cannedConcepts},
		{"no keyword falls through", "tell me more", cannedDefault},
		{"empty message", "", cannedDefault},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := pickCannedBody(tc.message); got != tc.want {
				t.Errorf("pickCannedBody(%q) picked the wrong body", tc.message)
			}
		})
	}

	t.Run("earlier rules win", func(t *testing.T) {
		// "explain" and "wrong" both present; explain is listed first.
		if got := pickCannedBody("explain why I was wrong"); got != cannedExplain {
			t.Error("rule priority must be list order")
		}
	})
}

func TestLatestUserTurn(t *testing.T) {
	turns := []model.ChatTurn{
		{Role: model.ChatRoleUser, Content: "first"},
		{Role: model.ChatRoleAssistant, Content: "reply"},
		{Role: model.ChatRoleUser, Content: "second"},
		{Role: model.ChatRoleAssistant, Content: "another reply"},
	}
	if got := latestUserTurn(turns); got != "second" {
		t.Errorf("expected latest user turn, got %q", got)
	}
	if got := latestUserTurn(nil); got != "" {
		t.Errorf("expected empty for no turns, got %q", got)
	}
}

func TestCannedStreamReassembles(t *testing.T) {
	r := NewCannedResponder(noDelay)
	req := &model.ChatRequest{Messages: userTurn("give me a hint")}

	s, err := r.Stream(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if got := collect(t, s); got != cannedHint {
		t.Errorf("reassembled text differs from the canned body:\n%s", got)
	}
}

func TestCannedStreamFragmentsAreWords(t *testing.T) {
	r := NewCannedResponder(noDelay)
	s, err := r.Stream(context.Background(), &model.ChatRequest{Messages: userTurn("hello")})
	if err != nil {
		t.Fatal(err)
	}

	first, err := s.Recv()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(first, " ") {
		t.Errorf("non-final fragments carry their trailing space, got %q", first)
	}
	if strings.Count(strings.TrimSuffix(first, " "), " ") != 0 {
		t.Errorf("fragments should be single words, got %q", first)
	}
}

func TestPersonalizedPrefix(t *testing.T) {
	cases := []struct {
		name string
		p    *model.PersonalizationContext
		want string
	}{
		{"nil context", nil, ""},
		{"beginner", &model.PersonalizationContext{ExperienceLevel: "beginner"}, "Let me explain this in simple terms:\n\n"},
		{"advanced", &model.PersonalizationContext{ExperienceLevel: "advanced"}, "Quick summary:\n\n"},
		{"unknown level", &model.PersonalizationContext{ExperienceLevel: "wizard"}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := personalizedPrefix(tc.p); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}

	t.Run("prefix streams ahead of the body", func(t *testing.T) {
		r := NewCannedResponder(noDelay)
		req := &model.ChatRequest{
			Messages:        userTurn("anything"),
			Personalization: &model.PersonalizationContext{ExperienceLevel: "beginner"},
		}
		s, err := r.Stream(context.Background(), req)
		if err != nil {
			t.Fatal(err)
		}
		full := collect(t, s)
		if !strings.HasPrefix(full, "Let me explain this in simple terms:") {
			t.Errorf("expected beginner prefix, got %q", full[:40])
		}
		if !strings.HasSuffix(full, cannedDefault[len(cannedDefault)-20:]) {
			t.Error("body must follow the prefix intact")
		}
	})
}

func TestCannedStreamCancellation(t *testing.T) {
	r := NewCannedResponder(func() time.Duration { return 50 * time.Millisecond })
	ctx, cancel := context.WithCancel(context.Background())
	s, err := r.Stream(ctx, &model.ChatRequest{Messages: userTurn("hello")})
	if err != nil {
		t.Fatal(err)
	}
	cancel()

	if _, err := s.Recv(); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestDefaultDelayRange(t *testing.T) {
	r := NewCannedResponder(nil)
	for i := 0; i < 100; i++ {
		d := r.delay()
		if d < 30*time.Millisecond || d >= 70*time.Millisecond {
			t.Fatalf("delay %v outside [30ms, 70ms)", d)
		}
	}
}
