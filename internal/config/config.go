// Package config defines the project configuration file and its defaults.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file created by `astrofinance init`.
const DefaultFileName = "astrofinance.yaml"

// Config captures every knob of a video project. Zero values are filled in
// by ApplyDefaults so a partial file is always usable.
type Config struct {
	Version  int              `yaml:"version"`
	Video    VideoSettings    `yaml:"video"`
	Audio    AudioSettings    `yaml:"audio"`
	Timeline TimelineSettings `yaml:"timeline"`
	Text     TextSettings     `yaml:"text"`
	Sections SectionSettings  `yaml:"sections"`
	Assets   AssetSettings    `yaml:"assets"`
	Content  ContentSettings  `yaml:"content"`
	Market   MarketSettings   `yaml:"market"`
	Upload   UploadSettings   `yaml:"upload"`
	// Signs limits a run to a subset of the zodiac. Empty means all twelve.
	Signs []string `yaml:"signs,omitempty"`
	// SignsFile optionally overrides the built-in fallback texts per sign.
	SignsFile string `yaml:"signs_file,omitempty"`
}

// VideoSettings control the encoded output stream.
type VideoSettings struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
	Codec  string `yaml:"codec"`
	Preset string `yaml:"preset"`
	CRF    int    `yaml:"crf"`
}

// AudioSettings control the music bed and the encoded audio stream.
type AudioSettings struct {
	Codec       string  `yaml:"codec"`
	BitrateKbps int     `yaml:"bitrate_kbps"`
	SampleRate  int     `yaml:"sample_rate"`
	MusicVolume float64 `yaml:"music_volume"`
}

// TimelineSettings control how text is paced across the video.
type TimelineSettings struct {
	TargetSec      float64 `yaml:"target_seconds"`
	CTASec         float64 `yaml:"cta_seconds"`
	MinChunkSec    float64 `yaml:"min_chunk_seconds"`
	WrapWidth      int     `yaml:"wrap_width"`
	SingleChunkMax int     `yaml:"single_chunk_max_lines"`
	DoubleChunkMax int     `yaml:"double_chunk_max_lines"`
	LinesPerChunk  int     `yaml:"lines_per_chunk"`
}

// TextSettings control typography and on-frame placement.
type TextSettings struct {
	FontFile    string `yaml:"font_file,omitempty"`
	TitleSize   int    `yaml:"title_size"`
	HeadingSize int    `yaml:"heading_size"`
	BodySize    int    `yaml:"body_size"`
	DateSize    int    `yaml:"date_size"`
	CTASize     int    `yaml:"cta_size"`
	Color       string `yaml:"color"`
	CTAColor    string `yaml:"cta_color"`
	BorderColor string `yaml:"border_color"`
	BorderWidth int    `yaml:"border_width"`
	LineSpacing int    `yaml:"line_spacing"`

	TitleY       int `yaml:"title_y"`
	TitleRuleY   int `yaml:"title_rule_y"`
	DateY        int `yaml:"date_y"`
	HeadingY     int `yaml:"heading_y"`
	HeadingRuleY int `yaml:"heading_rule_y"`
	BodyY        int `yaml:"body_y"`
	RuleWidth    int `yaml:"rule_width"`

	HeadingFadeSec float64 `yaml:"heading_fade_seconds"`
	BodyFadeSec    float64 `yaml:"body_fade_seconds"`
	CTAFadeInSec   float64 `yaml:"cta_fade_in_seconds"`

	TitleTemplate string `yaml:"title_template"`
	DateFormat    string `yaml:"date_format"`
	CTAText       string `yaml:"cta_text"`
}

// SectionSettings hold the three content sections in display order.
type SectionSettings struct {
	Forecast SectionConfig `yaml:"forecast"`
	Finance  SectionConfig `yaml:"finance"`
	Wellness SectionConfig `yaml:"wellness"`
}

// SectionConfig describes one content section.
type SectionConfig struct {
	Heading  string  `yaml:"heading"`
	FloorSec float64 `yaml:"floor_seconds"`
	Prompt   string  `yaml:"prompt"`
}

// Ordered returns the sections in their on-screen order.
func (s SectionSettings) Ordered() []SectionConfig {
	return []SectionConfig{s.Forecast, s.Finance, s.Wellness}
}

// FloorTotal is the combined minimum seconds the sections demand.
func (s SectionSettings) FloorTotal() float64 {
	return s.Forecast.FloorSec + s.Finance.FloorSec + s.Wellness.FloorSec
}

// AssetSettings point at background footage, music and output locations.
// Relative paths resolve against the project root.
type AssetSettings struct {
	BackgroundsDir string `yaml:"backgrounds_dir"`
	MusicDir       string `yaml:"music_dir"`
	// BackgroundVideo pins every sign to one file instead of rotating
	// through BackgroundsDir.
	BackgroundVideo string `yaml:"background_video,omitempty"`
	BackgroundMusic string `yaml:"background_music,omitempty"`
	OutputDir       string `yaml:"output_dir"`
}

// ContentSettings configure the text generation providers. API keys come
// from the environment, never from this file.
type ContentSettings struct {
	GroqURL        string  `yaml:"groq_url"`
	GroqModel      string  `yaml:"groq_model"`
	HuggingFaceURL string  `yaml:"huggingface_url"`
	TimeoutSec     float64 `yaml:"timeout_seconds"`
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
	MaxSentences   int     `yaml:"max_sentences"`
}

// MarketSettings configure the market data endpoints referenced by the
// finance prompt.
type MarketSettings struct {
	BitcoinURL string  `yaml:"bitcoin_url"`
	ChartURL   string  `yaml:"chart_url"`
	TimeoutSec float64 `yaml:"timeout_seconds"`
}

// UploadSettings configure YouTube publishing. Credentials come from the
// environment.
type UploadSettings struct {
	CategoryID string `yaml:"category_id"`
	Privacy    string `yaml:"privacy"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Version: 1,
		Video: VideoSettings{
			Width:  1080,
			Height: 1920,
			FPS:    30,
			Codec:  "libx264",
			Preset: "ultrafast",
			CRF:    23,
		},
		Audio: AudioSettings{
			Codec:       "aac",
			BitrateKbps: 192,
			SampleRate:  44100,
			MusicVolume: 0.3,
		},
		Timeline: TimelineSettings{
			TargetSec:      59,
			CTASec:         5,
			MinChunkSec:    3,
			WrapWidth:      35,
			SingleChunkMax: 8,
			DoubleChunkMax: 16,
			LinesPerChunk:  9,
		},
		Text: TextSettings{
			TitleSize:      80,
			HeadingSize:    65,
			BodySize:       48,
			DateSize:       35,
			CTASize:        60,
			Color:          "white",
			CTAColor:       "#FFD700",
			BorderColor:    "black",
			BorderWidth:    3,
			LineSpacing:    16,
			TitleY:         160,
			TitleRuleY:     260,
			DateY:          290,
			HeadingY:       40,
			HeadingRuleY:   140,
			BodyY:          910,
			RuleWidth:      20,
			HeadingFadeSec: 0.8,
			BodyFadeSec:    0.8,
			CTAFadeInSec:   0.5,
			TitleTemplate:  "✨ {sign} ✨",
			DateFormat:     "02 Jan 2006",
			CTAText:        "🔔 SUBSCRIBE\n\nLIKE • SHARE • COMMENT",
		},
		Sections: SectionSettings{
			Forecast: SectionConfig{
				Heading:  "🌙 Daily Horoscope",
				FloorSec: 15,
				Prompt:   "Write a short daily horoscope for {sign} for {date}. Warm Vedic tone, three sentences, no preamble.",
			},
			Finance: SectionConfig{
				Heading:  "💰 Wealth Tips",
				FloorSec: 12,
				Prompt:   "Give {sign} one Do and one Don't money tip for today. Bitcoin trades at {btc_price} and the market looks {market_trend}. Two short sentences.",
			},
			Wellness: SectionConfig{
				Heading:  "🏥 Health Tips",
				FloorSec: 12,
				Prompt:   "Give {sign} a gentle wellness tip for today. Two short sentences.",
			},
		},
		Assets: AssetSettings{
			BackgroundsDir: "assets/backgrounds",
			MusicDir:       "assets/music",
			OutputDir:      "videos",
		},
		Content: ContentSettings{
			GroqURL:        "https://api.groq.com/openai/v1/chat/completions",
			GroqModel:      "llama-3.3-70b-versatile",
			HuggingFaceURL: "https://router.huggingface.co/hf-inference/models/deepseek-ai/DeepSeek-V3",
			TimeoutSec:     15,
			Temperature:    0.7,
			MaxTokens:      150,
			MaxSentences:   4,
		},
		Market: MarketSettings{
			BitcoinURL: "https://api.coindesk.com/v1/bpi/currentprice.json",
			ChartURL:   "https://query1.finance.yahoo.com/v8/finance/chart/%5EGSPC",
			TimeoutSec: 10,
		},
		Upload: UploadSettings{
			CategoryID: "22",
			Privacy:    "public",
		},
	}
}

// Load reads the config at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// Marshal renders the config as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// ApplyDefaults fills zero-valued fields with the defaults.
func (c *Config) ApplyDefaults() {
	def := Default()
	if c.Version == 0 {
		c.Version = def.Version
	}
	if c.Video.Width == 0 {
		c.Video.Width = def.Video.Width
	}
	if c.Video.Height == 0 {
		c.Video.Height = def.Video.Height
	}
	if c.Video.FPS == 0 {
		c.Video.FPS = def.Video.FPS
	}
	if c.Video.Codec == "" {
		c.Video.Codec = def.Video.Codec
	}
	if c.Video.Preset == "" {
		c.Video.Preset = def.Video.Preset
	}
	if c.Video.CRF == 0 {
		c.Video.CRF = def.Video.CRF
	}
	if c.Audio.Codec == "" {
		c.Audio.Codec = def.Audio.Codec
	}
	if c.Audio.BitrateKbps == 0 {
		c.Audio.BitrateKbps = def.Audio.BitrateKbps
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = def.Audio.SampleRate
	}
	if c.Audio.MusicVolume == 0 {
		c.Audio.MusicVolume = def.Audio.MusicVolume
	}
	if c.Timeline.TargetSec == 0 {
		c.Timeline.TargetSec = def.Timeline.TargetSec
	}
	if c.Timeline.CTASec == 0 {
		c.Timeline.CTASec = def.Timeline.CTASec
	}
	if c.Timeline.MinChunkSec == 0 {
		c.Timeline.MinChunkSec = def.Timeline.MinChunkSec
	}
	if c.Timeline.WrapWidth == 0 {
		c.Timeline.WrapWidth = def.Timeline.WrapWidth
	}
	if c.Timeline.SingleChunkMax == 0 {
		c.Timeline.SingleChunkMax = def.Timeline.SingleChunkMax
	}
	if c.Timeline.DoubleChunkMax == 0 {
		c.Timeline.DoubleChunkMax = def.Timeline.DoubleChunkMax
	}
	if c.Timeline.LinesPerChunk == 0 {
		c.Timeline.LinesPerChunk = def.Timeline.LinesPerChunk
	}
	c.applyTextDefaults(def.Text)
	c.applySectionDefaults(def.Sections)
	if c.Assets.BackgroundsDir == "" {
		c.Assets.BackgroundsDir = def.Assets.BackgroundsDir
	}
	if c.Assets.MusicDir == "" {
		c.Assets.MusicDir = def.Assets.MusicDir
	}
	if c.Assets.OutputDir == "" {
		c.Assets.OutputDir = def.Assets.OutputDir
	}
	if c.Content.GroqURL == "" {
		c.Content.GroqURL = def.Content.GroqURL
	}
	if c.Content.GroqModel == "" {
		c.Content.GroqModel = def.Content.GroqModel
	}
	if c.Content.HuggingFaceURL == "" {
		c.Content.HuggingFaceURL = def.Content.HuggingFaceURL
	}
	if c.Content.TimeoutSec == 0 {
		c.Content.TimeoutSec = def.Content.TimeoutSec
	}
	if c.Content.Temperature == 0 {
		c.Content.Temperature = def.Content.Temperature
	}
	if c.Content.MaxTokens == 0 {
		c.Content.MaxTokens = def.Content.MaxTokens
	}
	if c.Content.MaxSentences == 0 {
		c.Content.MaxSentences = def.Content.MaxSentences
	}
	if c.Market.BitcoinURL == "" {
		c.Market.BitcoinURL = def.Market.BitcoinURL
	}
	if c.Market.ChartURL == "" {
		c.Market.ChartURL = def.Market.ChartURL
	}
	if c.Market.TimeoutSec == 0 {
		c.Market.TimeoutSec = def.Market.TimeoutSec
	}
	if c.Upload.CategoryID == "" {
		c.Upload.CategoryID = def.Upload.CategoryID
	}
	if c.Upload.Privacy == "" {
		c.Upload.Privacy = def.Upload.Privacy
	}
}

func (c *Config) applyTextDefaults(def TextSettings) {
	if c.Text.TitleSize == 0 {
		c.Text.TitleSize = def.TitleSize
	}
	if c.Text.HeadingSize == 0 {
		c.Text.HeadingSize = def.HeadingSize
	}
	if c.Text.BodySize == 0 {
		c.Text.BodySize = def.BodySize
	}
	if c.Text.DateSize == 0 {
		c.Text.DateSize = def.DateSize
	}
	if c.Text.CTASize == 0 {
		c.Text.CTASize = def.CTASize
	}
	if c.Text.Color == "" {
		c.Text.Color = def.Color
	}
	if c.Text.CTAColor == "" {
		c.Text.CTAColor = def.CTAColor
	}
	if c.Text.BorderColor == "" {
		c.Text.BorderColor = def.BorderColor
	}
	if c.Text.BorderWidth == 0 {
		c.Text.BorderWidth = def.BorderWidth
	}
	if c.Text.LineSpacing == 0 {
		c.Text.LineSpacing = def.LineSpacing
	}
	if c.Text.TitleY == 0 {
		c.Text.TitleY = def.TitleY
	}
	if c.Text.TitleRuleY == 0 {
		c.Text.TitleRuleY = def.TitleRuleY
	}
	if c.Text.DateY == 0 {
		c.Text.DateY = def.DateY
	}
	if c.Text.HeadingY == 0 {
		c.Text.HeadingY = def.HeadingY
	}
	if c.Text.HeadingRuleY == 0 {
		c.Text.HeadingRuleY = def.HeadingRuleY
	}
	if c.Text.BodyY == 0 {
		c.Text.BodyY = def.BodyY
	}
	if c.Text.RuleWidth == 0 {
		c.Text.RuleWidth = def.RuleWidth
	}
	if c.Text.HeadingFadeSec == 0 {
		c.Text.HeadingFadeSec = def.HeadingFadeSec
	}
	if c.Text.BodyFadeSec == 0 {
		c.Text.BodyFadeSec = def.BodyFadeSec
	}
	if c.Text.CTAFadeInSec == 0 {
		c.Text.CTAFadeInSec = def.CTAFadeInSec
	}
	if c.Text.TitleTemplate == "" {
		c.Text.TitleTemplate = def.TitleTemplate
	}
	if c.Text.DateFormat == "" {
		c.Text.DateFormat = def.DateFormat
	}
	if c.Text.CTAText == "" {
		c.Text.CTAText = def.CTAText
	}
}

func (c *Config) applySectionDefaults(def SectionSettings) {
	if c.Sections.Forecast.Heading == "" {
		c.Sections.Forecast.Heading = def.Forecast.Heading
	}
	if c.Sections.Forecast.FloorSec == 0 {
		c.Sections.Forecast.FloorSec = def.Forecast.FloorSec
	}
	if c.Sections.Forecast.Prompt == "" {
		c.Sections.Forecast.Prompt = def.Forecast.Prompt
	}
	if c.Sections.Finance.Heading == "" {
		c.Sections.Finance.Heading = def.Finance.Heading
	}
	if c.Sections.Finance.FloorSec == 0 {
		c.Sections.Finance.FloorSec = def.Finance.FloorSec
	}
	if c.Sections.Finance.Prompt == "" {
		c.Sections.Finance.Prompt = def.Finance.Prompt
	}
	if c.Sections.Wellness.Heading == "" {
		c.Sections.Wellness.Heading = def.Wellness.Heading
	}
	if c.Sections.Wellness.FloorSec == 0 {
		c.Sections.Wellness.FloorSec = def.Wellness.FloorSec
	}
	if c.Sections.Wellness.Prompt == "" {
		c.Sections.Wellness.Prompt = def.Wellness.Prompt
	}
}
