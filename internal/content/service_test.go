package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/config"
)

func groqServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer groq-key" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func hfServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func testGroq(ts *httptest.Server) *GroqProvider {
	return &GroqProvider{
		APIKey:      "groq-key",
		URL:         ts.URL,
		Model:       "llama-3.3-70b-versatile",
		Temperature: 0.7,
		MaxTokens:   150,
		HTTPClient:  ts.Client(),
	}
}

func testHF(ts *httptest.Server) *HuggingFaceProvider {
	return &HuggingFaceProvider{
		APIKey:      "hf-key",
		URL:         ts.URL,
		Temperature: 0.7,
		MaxTokens:   150,
		HTTPClient:  ts.Client(),
	}
}

func TestServicePrefersFirstProvider(t *testing.T) {
	groq := groqServer(t, http.StatusOK,
		`{"choices":[{"message":{"content":"The stars align brightly today! Fortune favors patience."}}]}`)
	hf := hfServer(t, http.StatusOK, `[{"generated_text":"should never be reached"}]`)

	svc := &Service{Providers: []Provider{testGroq(groq), testHF(hf)}, MaxSentences: 4}
	res := svc.Fetch(context.Background(), Request{Prompt: "p", Fallback: "fallback text"})

	if res.Source != "groq" {
		t.Fatalf("expected groq source, got %q", res.Source)
	}
	if res.Kind != KindSuccess {
		t.Errorf("kind = %q, want %q", res.Kind, KindSuccess)
	}
	want := "The stars align brightly today. Fortune favors patience."
	if res.Text != want {
		t.Errorf("unexpected text: %q", res.Text)
	}
}

func TestServiceFallsBackToSecondProvider(t *testing.T) {
	groq := groqServer(t, http.StatusInternalServerError, `{"error":{"message":"overloaded"}}`)
	hf := hfServer(t, http.StatusOK,
		`[{"generated_text":"Breathe deeply. Walk gently. Rest early. Eat light. Sleep well."}]`)

	svc := &Service{Providers: []Provider{testGroq(groq), testHF(hf)}, MaxSentences: 4}
	res := svc.Fetch(context.Background(), Request{Prompt: "p", Fallback: "fallback text"})

	if res.Source != "huggingface" {
		t.Fatalf("expected huggingface source, got %q", res.Source)
	}
	want := "Breathe deeply. Walk gently. Rest early. Eat light."
	if res.Text != want {
		t.Errorf("unexpected text: %q", res.Text)
	}
}

func TestServiceUsesFallbackWhenAllProvidersFail(t *testing.T) {
	groq := groqServer(t, http.StatusInternalServerError, `{}`)
	hf := hfServer(t, http.StatusBadGateway, `{}`)

	svc := &Service{Providers: []Provider{testGroq(groq), testHF(hf)}, MaxSentences: 4}
	res := svc.Fetch(context.Background(), Request{
		Prompt:   "p",
		Fallback: "Namaste Virgo! The stars shine bright for you today. Trust your intuition.",
	})

	if res.Source != SourceFallback {
		t.Fatalf("expected fallback source, got %q", res.Source)
	}
	if res.Kind != KindRejected {
		t.Errorf("kind = %q, want %q", res.Kind, KindRejected)
	}
	// Fallbacks are normalized exactly like model output.
	want := "Virgo. The stars shine bright for you today. Trust your intuition."
	if res.Text != want {
		t.Errorf("unexpected fallback text: %q", res.Text)
	}
}

func TestServiceSkipsEmptyResponses(t *testing.T) {
	groq := groqServer(t, http.StatusOK, `{"choices":[{"message":{"content":"   "}}]}`)
	hf := hfServer(t, http.StatusOK, `[{"generated_text":"Plant seeds of patience today."}]`)

	svc := &Service{Providers: []Provider{testGroq(groq), testHF(hf)}, MaxSentences: 4}
	res := svc.Fetch(context.Background(), Request{Prompt: "p", Fallback: "fallback text"})

	if res.Source != "huggingface" {
		t.Fatalf("expected huggingface source, got %q", res.Source)
	}
	if res.Text != "Plant seeds of patience today." {
		t.Errorf("unexpected text: %q", res.Text)
	}
}

func TestServiceRejectsGroqErrorBody(t *testing.T) {
	groq := groqServer(t, http.StatusOK, `{"error":{"message":"model decommissioned"}}`)

	svc := &Service{Providers: []Provider{testGroq(groq)}, MaxSentences: 4}
	res := svc.Fetch(context.Background(), Request{Prompt: "p", Fallback: "Steady progress today"})

	if res.Source != SourceFallback {
		t.Fatalf("expected fallback source, got %q", res.Source)
	}
	if res.Text != "Steady progress today." {
		t.Errorf("unexpected text: %q", res.Text)
	}
}

func TestServiceWithoutProvidersUsesFallback(t *testing.T) {
	svc := &Service{MaxSentences: 4}
	res := svc.Fetch(context.Background(), Request{Prompt: "p", Fallback: "Rest and recover"})

	if res.Source != SourceFallback {
		t.Fatalf("expected fallback source, got %q", res.Source)
	}
	if res.Kind != "" {
		t.Errorf("kind = %q, want empty with no providers", res.Kind)
	}
	if res.Text != "Rest and recover." {
		t.Errorf("unexpected text: %q", res.Text)
	}
}

func TestServiceClassifiesTimeouts(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(slow.Close)

	p := testGroq(slow)
	p.HTTPClient = &http.Client{Timeout: 10 * time.Millisecond}

	svc := &Service{Providers: []Provider{p}, MaxSentences: 4}
	res := svc.Fetch(context.Background(), Request{Prompt: "p", Fallback: "Stay grounded"})

	if res.Source != SourceFallback {
		t.Fatalf("expected fallback source, got %q", res.Source)
	}
	if res.Kind != KindTimeout {
		t.Errorf("kind = %q, want %q", res.Kind, KindTimeout)
	}
}

func TestNewRegistersProvidersFromEnvironment(t *testing.T) {
	cfg := config.Default().Content

	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("HUGGINGFACE_API_KEY", "")
	if svc := New(cfg, nil); len(svc.Providers) != 0 {
		t.Fatalf("expected no providers without keys, got %d", len(svc.Providers))
	}

	t.Setenv("GROQ_API_KEY", "g")
	svc := New(cfg, nil)
	if len(svc.Providers) != 1 || svc.Providers[0].Name() != "groq" {
		t.Fatalf("expected groq provider only, got %d", len(svc.Providers))
	}

	t.Setenv("HUGGINGFACE_API_KEY", "h")
	svc = New(cfg, nil)
	if len(svc.Providers) != 2 {
		t.Fatalf("expected both providers, got %d", len(svc.Providers))
	}
	if svc.Providers[0].Name() != "groq" || svc.Providers[1].Name() != "huggingface" {
		t.Fatalf("providers out of order: %s, %s", svc.Providers[0].Name(), svc.Providers[1].Name())
	}
}
