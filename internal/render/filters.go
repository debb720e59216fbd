package render

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/config"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/timeline"
)

// BaseVideoFilters returns the chain that fits arbitrary footage onto the
// output frame: cover-scale, center-crop, square pixels, constant fps.
func BaseVideoFilters(v config.VideoSettings) (string, error) {
	if v.Width <= 0 || v.Height <= 0 {
		return "", errors.New("invalid video dimensions")
	}
	if v.FPS <= 0 {
		return "", errors.New("invalid video fps")
	}
	return fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,setsar=1,fps=%d",
		v.Width, v.Height, v.Width, v.Height, v.FPS,
	), nil
}

// BuildFilterGraph assembles the full -vf graph: the base fit chain plus one
// drawtext stage per timed element, in timeline order. textFiles maps element
// indexes to text files on disk; multi-line elements must appear in it, the
// rest draw their text inline.
func BuildFilterGraph(tl timeline.Timeline, cfg config.Config, textFiles map[int]string) (string, error) {
	base, err := BaseVideoFilters(cfg.Video)
	if err != nil {
		return "", err
	}

	filters := []string{base}
	for i, el := range tl.Elements {
		stage, err := buildDrawText(el, cfg.Text, textFiles[i])
		if err != nil {
			return "", fmt.Errorf("element %d (%s): %w", i, el.Layer, err)
		}
		if stage != "" {
			filters = append(filters, stage)
		}
	}

	return strings.Join(filters, ","), nil
}

// BuildAudioFilters builds the chain applied to the music bed.
func BuildAudioFilters(a config.AudioSettings) string {
	filters := []string{}

	if a.MusicVolume > 0 {
		filters = append(filters, fmt.Sprintf("volume=%s", formatFloat(a.MusicVolume)))
	}
	if a.SampleRate > 0 {
		filters = append(filters, fmt.Sprintf("aresample=%d", a.SampleRate))
	}

	return strings.Join(filters, ",")
}

// Inputs name the concat list files fed to ffmpeg. MusicList may be empty,
// in which case the short is rendered silent.
type Inputs struct {
	VideoList string
	MusicList string
}

// BuildRenderArgs assembles the ffmpeg CLI arguments for one short.
func BuildRenderArgs(in Inputs, videoFilters, audioFilters string, targetSec float64, outputPath string, cfg config.Config) ([]string, error) {
	if strings.TrimSpace(in.VideoList) == "" {
		return nil, errors.New("video list path is empty")
	}
	if strings.TrimSpace(outputPath) == "" {
		return nil, errors.New("output path is empty")
	}
	if strings.TrimSpace(videoFilters) == "" {
		return nil, errors.New("video filter graph is empty")
	}
	if targetSec <= 0 {
		return nil, fmt.Errorf("target duration %s is not positive", formatFloat(targetSec))
	}

	args := []string{
		"-hide_banner",
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", in.VideoList,
	}

	withMusic := strings.TrimSpace(in.MusicList) != ""
	if withMusic {
		args = append(args,
			"-f", "concat",
			"-safe", "0",
			"-i", in.MusicList,
		)
	}

	args = append(args,
		"-t", formatFloat(targetSec),
		"-vf", videoFilters,
	)

	if withMusic {
		if strings.TrimSpace(audioFilters) != "" {
			args = append(args, "-af", audioFilters)
		}
		args = append(args, "-map", "0:v:0", "-map", "1:a:0")
	} else {
		args = append(args, "-an")
	}

	videoCodec := strings.TrimSpace(cfg.Video.Codec)
	if videoCodec == "" {
		videoCodec = "libx264"
	}
	args = append(args, "-c:v", videoCodec)

	if preset := strings.TrimSpace(cfg.Video.Preset); preset != "" {
		args = append(args, "-preset", preset)
	}
	if cfg.Video.CRF >= 0 {
		args = append(args, "-crf", strconv.Itoa(cfg.Video.CRF))
	}

	args = append(args, "-pix_fmt", "yuv420p")

	if withMusic {
		if acodec := strings.TrimSpace(cfg.Audio.Codec); acodec != "" {
			args = append(args, "-c:a", acodec)
		}
		if cfg.Audio.BitrateKbps > 0 {
			args = append(args, "-b:a", fmt.Sprintf("%dk", cfg.Audio.BitrateKbps))
		}
		if cfg.Audio.SampleRate > 0 {
			args = append(args, "-ar", strconv.Itoa(cfg.Audio.SampleRate))
		}
	}

	args = append(args,
		"-movflags", "+faststart",
		outputPath,
	)

	return args, nil
}

func buildDrawText(el timeline.TimedElement, text config.TextSettings, textFile string) (string, error) {
	if el.Duration <= 0 {
		return "", nil
	}

	size, color := layerStyle(el.Layer, text)

	values := []string{}
	if textFile != "" {
		values = append(values, fmt.Sprintf("textfile='%s'", escapeFFmpegPath(textFile)))
	} else {
		if strings.TrimSpace(el.Text) == "" {
			return "", nil
		}
		if strings.Contains(el.Text, "\n") {
			return "", errors.New("multi-line text needs a text file")
		}
		values = append(values, fmt.Sprintf("text='%s'", escapeDrawText(el.Text)))
	}

	values = append(values,
		fmt.Sprintf("fontsize=%d", size),
		fmt.Sprintf("fontcolor=%s", fallback(color, "white")),
	)

	if strings.TrimSpace(text.FontFile) != "" {
		values = append(values, fmt.Sprintf("fontfile='%s'", escapeFFmpegPath(text.FontFile)))
	}
	if text.BorderWidth > 0 {
		values = append(values,
			fmt.Sprintf("bordercolor=%s", fallback(text.BorderColor, "black")),
			fmt.Sprintf("borderw=%d", text.BorderWidth),
		)
	}
	if textFile != "" && text.LineSpacing != 0 {
		values = append(values, fmt.Sprintf("line_spacing=%d", text.LineSpacing))
	}

	values = append(values,
		fmt.Sprintf("x=%s", xExpr(el.Position)),
		fmt.Sprintf("y=%s", yExpr(el.Position)),
	)

	enable := fmt.Sprintf("between(t,%s,%s)", formatFloat(el.Start), formatFloat(el.End()))
	values = append(values, fmt.Sprintf("enable='%s'", escapeFilterValue(enable)))

	if el.FadeIn > 0 || el.FadeOut > 0 {
		alpha := alphaExpression(el.Start, el.End(), el.FadeIn, el.FadeOut)
		values = append(values, fmt.Sprintf("alpha='%s'", escapeFilterValue(alpha)))
	}

	return "drawtext=" + strings.Join(values, ":"), nil
}

// layerStyle maps a timeline layer to its typography. Rules render at half
// the size of the text they underline.
func layerStyle(layer timeline.Layer, text config.TextSettings) (int, string) {
	switch layer {
	case timeline.LayerTitle:
		return text.TitleSize, text.Color
	case timeline.LayerTitleRule:
		return text.TitleSize / 2, text.Color
	case timeline.LayerDate:
		return text.DateSize, text.Color
	case timeline.LayerHeading:
		return text.HeadingSize, text.Color
	case timeline.LayerHeadingRule:
		return text.HeadingSize / 2, text.Color
	case timeline.LayerCTA:
		return text.CTASize, text.CTAColor
	default:
		return text.BodySize, text.Color
	}
}

func xExpr(pos timeline.Position) string {
	switch strings.ToLower(strings.TrimSpace(pos.HAlign)) {
	case "left":
		return "40"
	case "right":
		return "w-text_w-40"
	default:
		return "(w-text_w)/2"
	}
}

func yExpr(pos timeline.Position) string {
	if pos.VCenter {
		return "(h-text_h)/2"
	}
	return formatFloat(pos.Y)
}

// alphaExpression builds the nested if() controlling fade-in and fade-out
// opacity between start and end on the global clock.
func alphaExpression(start, end, fadeIn, fadeOut float64) string {
	duration := end - start
	if duration <= 0 {
		return "0"
	}
	fadeIn = clamp(fadeIn, 0, duration)
	fadeOut = clamp(fadeOut, 0, duration)

	startStr := formatFloat(start)
	endStr := formatFloat(end)

	var builder strings.Builder
	builder.WriteString("if(lt(t,")
	builder.WriteString(startStr)
	builder.WriteString("),0,")

	if fadeIn > 0 {
		builder.WriteString("if(lt(t,")
		builder.WriteString(formatFloat(start + fadeIn))
		builder.WriteString("),(t-")
		builder.WriteString(startStr)
		builder.WriteString(")/")
		builder.WriteString(formatFloat(fadeIn))
		builder.WriteString(",")
	}

	if fadeOut > 0 {
		builder.WriteString("if(lt(t,")
		builder.WriteString(formatFloat(end - fadeOut))
		builder.WriteString("),1,if(lt(t,")
		builder.WriteString(endStr)
		builder.WriteString("),(")
		builder.WriteString(endStr)
		builder.WriteString("-t)/")
		builder.WriteString(formatFloat(fadeOut))
		builder.WriteString(",0))")
	} else {
		builder.WriteString("if(lt(t,")
		builder.WriteString(endStr)
		builder.WriteString("),1,0)")
	}

	if fadeIn > 0 {
		builder.WriteString(")")
	}
	builder.WriteString(")")

	return builder.String()
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func clamp(value, minVal, maxVal float64) float64 {
	return math.Max(minVal, math.Min(maxVal, value))
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

func escapeDrawText(value string) string {
	value = strings.ReplaceAll(value, "\r\n", "\n")
	value = strings.ReplaceAll(value, "\r", "\n")
	value = escapeFilterValueNoQuotes(value)
	value = strings.ReplaceAll(value, "'", "''")
	return value
}

func escapeFFmpegPath(value string) string {
	value = filepath.Clean(value)
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, ":", `\:`)
	value = strings.ReplaceAll(value, "'", `\'`)
	return value
}

func escapeFilterValue(value string) string {
	value = escapeFilterValueNoQuotes(value)
	value = strings.ReplaceAll(value, "'", `\'`)
	return value
}

func escapeFilterValueNoQuotes(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, ":", `\:`)
	value = strings.ReplaceAll(value, ",", `\,`)
	return value
}
