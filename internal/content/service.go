package content

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/config"
)

// Service tries each configured provider in order and falls back to the
// built-in texts when none responds.
type Service struct {
	Providers    []Provider
	MaxSentences int
	Logger       *log.Logger
}

// New builds a service from the content settings, registering a provider for
// each API key present in the environment (GROQ_API_KEY, HUGGINGFACE_API_KEY).
// With no keys set, every fetch resolves to the fallback text.
func New(cfg config.ContentSettings, logger *log.Logger) *Service {
	client := &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second}

	var providers []Provider
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		providers = append(providers, &GroqProvider{
			APIKey:      key,
			URL:         cfg.GroqURL,
			Model:       cfg.GroqModel,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			HTTPClient:  client,
		})
	}
	if key := os.Getenv("HUGGINGFACE_API_KEY"); key != "" {
		providers = append(providers, &HuggingFaceProvider{
			APIKey:      key,
			URL:         cfg.HuggingFaceURL,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			HTTPClient:  client,
		})
	}

	return &Service{
		Providers:    providers,
		MaxSentences: cfg.MaxSentences,
		Logger:       logger,
	}
}

// Fetch resolves one section text. Each provider attempt is classified as
// timeout or rejected before the chain moves on; the fallback passes through
// the same normalization a model response does and carries the last
// attempt's kind so callers can see why substitution happened.
func (s *Service) Fetch(ctx context.Context, req Request) Result {
	var last Kind
	for _, p := range s.Providers {
		text, err := p.Complete(ctx, req.Prompt)
		if kind := Classify(err); kind != KindSuccess {
			last = kind
			s.logf("content: %s %s: %v", p.Name(), kind, err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			last = KindRejected
			s.logf("content: %s rejected: empty response", p.Name())
			continue
		}
		return Result{Text: Normalize(text, s.MaxSentences), Source: p.Name(), Kind: KindSuccess}
	}

	return Result{Text: Normalize(req.Fallback, s.MaxSentences), Source: SourceFallback, Kind: last}
}

func (s *Service) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}
