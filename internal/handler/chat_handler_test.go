package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/certifyai/certify-backend/internal/assistant"
	"github.com/certifyai/certify-backend/internal/model"
	"github.com/certifyai/certify-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// stubStream replays scripted fragments, then the scripted terminal error.
type stubStream struct {
	fragments []string
	idx       int
	err       error
}

func (s *stubStream) Recv() (string, error) {
	if s.idx >= len(s.fragments) {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	frag := s.fragments[s.idx]
	s.idx++
	return frag, nil
}

func (s *stubStream) Close() error { return nil }

// fixedStreamer returns a fixed stream, or fails to open one.
type fixedStreamer struct {
	stream  assistant.Stream
	openErr error
}

func (s *fixedStreamer) Stream(_ context.Context, _ *model.ChatRequest) (assistant.Stream, error) {
	return s.stream, s.openErr
}

func chatRouter(streamer assistant.Streamer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validator.Setup()
	r := gin.New()
	h := NewChatHandler(streamer, zerolog.Nop())
	r.POST("/chat", h.Chat)
	return r
}

func TestChatStreamsFragments(t *testing.T) {
	streamer := &fixedStreamer{stream: &stubStream{
		fragments: []string{"Hello ", "there, ", "learner."},
	}}
	r := chatRouter(streamer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat",
		strings.NewReader(`{"messages":[{"role":"user","content":"explain this"}]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("expected text/plain, got %s", ct)
	}
	if got := w.Body.String(); got != "Hello there, learner." {
		t.Errorf("fragments must concatenate in order, got %q", got)
	}
}

func TestChatMidStreamErrorAppendsApology(t *testing.T) {
	streamer := &fixedStreamer{stream: &stubStream{
		fragments: []string{"The answer is "},
		err:       errors.New("upstream reset"),
	}}
	r := chatRouter(streamer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat",
		strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	body := w.Body.String()
	if !strings.HasPrefix(body, "The answer is ") {
		t.Error("partial text must be preserved")
	}
	if !strings.HasSuffix(body, apologyFragment) {
		t.Errorf("expected apology appended, got %q", body)
	}
	// Headers were already sent; the status stays 200.
	if w.Code != http.StatusOK {
		t.Errorf("mid-stream failure cannot change the status, got %d", w.Code)
	}
}

func TestChatOpenFailureIsJSONError(t *testing.T) {
	streamer := &fixedStreamer{openErr: errors.New("dial upstream: connection refused")}
	r := chatRouter(streamer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat",
		strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("pre-stream errors are JSON, got %s", ct)
	}
	if !strings.Contains(w.Body.String(), "UPSTREAM_STREAM_ERROR") {
		t.Errorf("expected error code in body, got %s", w.Body.String())
	}
}

func TestChatValidation(t *testing.T) {
	r := chatRouter(&fixedStreamer{stream: &stubStream{}})

	cases := []struct {
		name string
		body string
	}{
		{"empty messages", `{"messages":[]}`},
		{"missing messages", `{}`},
		{"bad role", `{"messages":[{"role":"system","content":"x"}]}`},
		{"not json", `not json at all`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), "VALIDATION_ERROR") {
				t.Errorf("expected validation error body, got %s", w.Body.String())
			}
		})
	}
}
