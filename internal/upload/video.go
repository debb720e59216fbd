package upload

import (
	"fmt"
	"strings"
	"time"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/config"
)

// Video is the listing metadata for one short.
type Video struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string
	Privacy     string
}

const descriptionTemplate = `🌟 %[1]s Daily Horoscope for %[2]s

✨ Today's Cosmic Guidance:
- Daily Horoscope
- Wealth & Financial Tips
- Health & Wellness Blessings

🔔 Subscribe for daily cosmic guidance!
💬 Comment your zodiac sign below
👍 Like if this resonates with you

#%[1]s #Horoscope #Astrology #DailyHoroscope #Zodiac #Shorts #VedicAstrology #CosmicGuidance #Spirituality

⚠️ For entertainment purposes only. Consult professionals for serious decisions.`

// BuildVideo composes the listing for one sign and date.
func BuildVideo(cfg config.UploadSettings, sign string, date time.Time) Video {
	day := date.Format("January 02, 2006")
	lower := strings.ToLower(sign)

	return Video{
		Title:       fmt.Sprintf("%s Daily Horoscope & Cosmic Guidance | %s #Shorts", sign, day),
		Description: fmt.Sprintf(descriptionTemplate, sign, day),
		Tags: []string{
			"horoscope", "daily horoscope", "astrology", lower,
			"zodiac", "shorts", "vedic astrology", "cosmic guidance",
			"spiritual", "horoscope today", lower + " horoscope",
		},
		CategoryID: cfg.CategoryID,
		Privacy:    cfg.Privacy,
	}
}
