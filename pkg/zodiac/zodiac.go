// Package zodiac holds the sign catalog and the built-in fallback texts
// used whenever the content providers are unavailable.
package zodiac

import (
	"fmt"
	"strings"
)

// Sign is one zodiac sign with its fallback section texts.
type Sign struct {
	Name     string
	Forecast string
	Finance  string
	Wellness string
}

const (
	fallbackFinance  = "%s, focus on long-term investment strategies today. Diversify your portfolio to manage risk effectively. Review your budget and identify areas for savings."
	fallbackWellness = "%s, prioritize 8 hours of quality sleep tonight. Stay hydrated with at least 8 glasses of water today. Take short breaks every hour to stretch and move."
)

var catalog = []Sign{
	{
		Name:     "Aries",
		Forecast: "Today brings opportunities for bold action. Your natural leadership shines, attracting positive attention. Trust your instincts in both personal and professional matters.",
	},
	{
		Name:     "Taurus",
		Forecast: "Financial stability is highlighted today. Your practical approach yields results. Focus on long-term goals and resist impulsive decisions.",
	},
	{
		Name:     "Gemini",
		Forecast: "Communication flows easily today. Share your ideas and connect with others. Mental agility helps you navigate challenges with grace.",
	},
	{
		Name:     "Cancer",
		Forecast: "Emotional intelligence guides you today. Nurture relationships and trust your intuition. Home and family bring comfort and joy.",
	},
	{
		Name:     "Leo",
		Forecast: "Your confidence radiates today. Creative projects flourish under your passionate energy. Leadership opportunities arise naturally.",
	},
	{
		Name:     "Virgo",
		Forecast: "Attention to detail serves you well today. Organize, plan, and execute with precision. Health and wellness deserve focus.",
	},
	{
		Name:     "Libra",
		Forecast: "Balance and harmony are within reach today. Relationships benefit from your diplomatic approach. Beauty and art inspire you.",
	},
	{
		Name:     "Scorpio",
		Forecast: "Transformation is in the air today. Deep insights emerge from introspection. Trust the process of change and renewal.",
	},
	{
		Name:     "Sagittarius",
		Forecast: "Adventure calls today. Expand your horizons through learning and exploration. Optimism attracts fortunate circumstances.",
	},
	{
		Name:     "Capricorn",
		Forecast: "Disciplined effort yields rewards today. Your ambition and structure create solid foundations. Professional recognition is possible.",
	},
	{
		Name:     "Aquarius",
		Forecast: "Innovation and originality are your strengths today. Think outside the box. Community connections bring unexpected opportunities.",
	},
	{
		Name:     "Pisces",
		Forecast: "Intuition and creativity flow freely today. Artistic expression brings fulfillment. Compassion connects you deeply with others.",
	},
}

// All returns the full catalog in traditional order.
func All() []Sign {
	out := make([]Sign, len(catalog))
	for i, s := range catalog {
		out[i] = withDefaults(s)
	}
	return out
}

// Names returns the twelve sign names in traditional order.
func Names() []string {
	names := make([]string, len(catalog))
	for i, s := range catalog {
		names[i] = s.Name
	}
	return names
}

// Lookup finds a sign by case-insensitive name.
func Lookup(name string) (Sign, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, s := range catalog {
		if strings.ToLower(s.Name) == needle {
			return withDefaults(s), true
		}
	}
	return Sign{}, false
}

// Subset filters signs down to the given names, preserving catalog order.
// Unknown names are reported via ValidationErrors.
func Subset(signs []Sign, names []string) ([]Sign, error) {
	if len(names) == 0 {
		return signs, nil
	}

	wanted := make(map[string]bool, len(names))
	var errs ValidationErrors
	for i, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if !knownName(key) {
			errs = append(errs, ValidationError{Line: i + 1, Field: "sign", Message: "unknown sign " + name})
			continue
		}
		wanted[key] = true
	}
	if len(errs) > 0 {
		return nil, errs
	}

	var out []Sign
	for _, s := range signs {
		if wanted[strings.ToLower(s.Name)] {
			out = append(out, s)
		}
	}
	return out, nil
}

func knownName(lower string) bool {
	for _, s := range catalog {
		if strings.ToLower(s.Name) == lower {
			return true
		}
	}
	return false
}

func withDefaults(s Sign) Sign {
	if s.Finance == "" {
		s.Finance = fmt.Sprintf(fallbackFinance, s.Name)
	}
	if s.Wellness == "" {
		s.Wellness = fmt.Sprintf(fallbackWellness, s.Name)
	}
	return s
}
