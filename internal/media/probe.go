package media

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Info summarizes the streams of a media file.
type Info struct {
	DurationSec float64
	Width       int
	Height      int
	VideoCodec  string
	HasVideo    bool
	HasAudio    bool
}

// Prober inspects media files. The render service takes one so tests can
// substitute canned stream info.
type Prober interface {
	Probe(path string) (Info, error)
}

// FFProber probes through ffprobe.
type FFProber struct{}

func (FFProber) Probe(path string) (Info, error) {
	return Probe(path)
}

var _ Prober = FFProber{}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Duration  string `json:"duration"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

// Probe inspects path with ffprobe.
func Probe(path string) (Info, error) {
	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return Info{}, errors.Wrapf(err, "probe %s", path)
	}
	info, err := parseProbe(raw)
	if err != nil {
		return Info{}, errors.Wrapf(err, "probe %s", path)
	}
	return info, nil
}

// parseProbe interprets raw ffprobe JSON. Stream durations win over the
// container duration; some formats only report one of the two.
func parseProbe(raw string) (Info, error) {
	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return Info{}, errors.Wrap(err, "parse probe output")
	}
	if len(out.Streams) == 0 {
		return Info{}, errors.New("no streams found")
	}

	var info Info
	for _, s := range out.Streams {
		switch s.CodecType {
		case "video":
			if info.HasVideo {
				continue
			}
			info.HasVideo = true
			info.Width = s.Width
			info.Height = s.Height
			info.VideoCodec = s.CodecName
			if d := parseSeconds(s.Duration); d > 0 {
				info.DurationSec = d
			}
		case "audio":
			info.HasAudio = true
			if info.DurationSec == 0 {
				if d := parseSeconds(s.Duration); d > 0 {
					info.DurationSec = d
				}
			}
		}
	}
	if info.DurationSec == 0 {
		info.DurationSec = parseSeconds(out.Format.Duration)
	}
	if info.DurationSec == 0 {
		return Info{}, errors.New("could not determine duration")
	}
	return info, nil
}

func parseSeconds(v string) float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	d, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return d
}
