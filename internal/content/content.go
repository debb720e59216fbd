// Package content fetches the three section texts from hosted language
// models, falling back to the built-in catalog texts when every provider
// fails. Responses and fallbacks pass through the same normalization.
package content

import (
	"context"
	"errors"
	"net"
	"strings"
)

// Texts holds the final copy for one sign's video, one entry per section.
type Texts struct {
	Forecast string `json:"forecast"`
	Finance  string `json:"finance"`
	Wellness string `json:"wellness"`
}

// Request asks for one section text. Prompt must already have its
// placeholders expanded; Fallback is used when every provider fails.
type Request struct {
	Prompt   string
	Fallback string
}

// Result is the resolved text together with the source that produced it,
// either a provider name or SourceFallback.
type Result struct {
	Text   string
	Source string
	// Kind is the outcome of the last provider attempt. Empty when no
	// provider was attempted at all.
	Kind Kind
}

// SourceFallback marks a section that was served from the built-in texts.
const SourceFallback = "fallback"

// Kind classifies the outcome of one provider call.
type Kind string

const (
	KindSuccess  Kind = "success"
	KindTimeout  Kind = "timeout"
	KindRejected Kind = "rejected"
)

// Classify sorts a provider error into the outcome taxonomy. Deadline and
// transport timeouts are KindTimeout; every other failure is KindRejected.
func Classify(err error) Kind {
	if err == nil {
		return KindSuccess
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindRejected
}

// Provider is a single hosted model endpoint.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// ExpandPrompt substitutes {token} placeholders in a prompt template.
func ExpandPrompt(template string, vars map[string]string) string {
	out := template
	for k, v := range vars {
		out = strings.ReplaceAll(out, "{"+k+"}", v)
	}
	return out
}

// chatty openers the models like to lead with
var strippedPrefixes = []string{"Here is", "Here's", "Today's", "For today", "Namaste"}

// Normalize strips markdown markup and chatty prefixes from a model
// response, flattens exclamations and questions into plain sentences, and
// caps the result at maxSentences. Empty input stays empty.
func Normalize(text string, maxSentences int) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "*", "")
	text = strings.ReplaceAll(text, "#", "")
	text = strings.TrimSpace(text)

	for _, prefix := range strippedPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimSpace(text[len(prefix):])
			if strings.HasPrefix(text, ":") || strings.HasPrefix(text, ",") {
				text = strings.TrimSpace(text[1:])
			}
		}
	}

	text = strings.ReplaceAll(text, "!", ".")
	text = strings.ReplaceAll(text, "?", ".")

	var sentences []string
	for _, part := range strings.Split(text, ".") {
		part = strings.TrimSpace(part)
		if part != "" {
			sentences = append(sentences, part)
		}
	}
	if maxSentences > 0 && len(sentences) > maxSentences {
		sentences = sentences[:maxSentences]
	}

	result := strings.Join(sentences, ". ")
	if result == "" {
		return result
	}
	switch result[len(result)-1] {
	case '.', '!', '?':
	default:
		result += "."
	}
	return result
}
