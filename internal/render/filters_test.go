package render

import (
	"strings"
	"testing"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/config"
	"github.com/wealthealphaglobal/astrofinance-auto/internal/timeline"
)

func testTimeline() timeline.Timeline {
	return timeline.Timeline{
		Target:     59,
		ContentEnd: 54,
		Elements: []timeline.TimedElement{
			{
				Layer:    timeline.LayerTitle,
				Text:     "✨ Aries ✨",
				Start:    0,
				Duration: 54,
				Position: timeline.Position{HAlign: "center", Y: 160},
			},
			{
				Layer:    timeline.LayerHeading,
				Text:     "🌙 Daily Horoscope",
				Start:    0,
				Duration: 24,
				Position: timeline.Position{HAlign: "center", Y: 40},
				FadeIn:   0.8,
				FadeOut:  0.8,
			},
			{
				Layer:    timeline.LayerBody,
				Text:     "line one\nline two",
				Lines:    []string{"line one", "line two"},
				Start:    0,
				Duration: 24,
				Position: timeline.Position{HAlign: "center", Y: 910},
				FadeIn:   0.8,
				FadeOut:  0.8,
			},
			{
				Layer:    timeline.LayerCTA,
				Text:     "🔔 SUBSCRIBE",
				Start:    54,
				Duration: 5,
				Position: timeline.Position{HAlign: "center", VCenter: true},
				FadeIn:   0.5,
			},
		},
	}
}

func TestBaseVideoFilters(t *testing.T) {
	got, err := BaseVideoFilters(config.Default().Video)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "scale=1080:1920:force_original_aspect_ratio=increase,crop=1080:1920,setsar=1,fps=30"
	if got != want {
		t.Fatalf("base filters = %q, want %q", got, want)
	}

	if _, err := BaseVideoFilters(config.VideoSettings{Width: 0, Height: 1920, FPS: 30}); err == nil {
		t.Fatal("expected error for zero width")
	}
	if _, err := BaseVideoFilters(config.VideoSettings{Width: 1080, Height: 1920, FPS: 0}); err == nil {
		t.Fatal("expected error for zero fps")
	}
}

func TestBuildFilterGraph(t *testing.T) {
	cfg := config.Default()
	tl := testTimeline()
	graph, err := BuildFilterGraph(tl, cfg, map[int]string{2: "/work/aries/text_02_body.txt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantSubstrings := []string{
		"scale=1080:1920:force_original_aspect_ratio=increase,crop=1080:1920,setsar=1,fps=30",
		"drawtext=text='✨ Aries ✨':fontsize=80:fontcolor=white",
		"bordercolor=black:borderw=3",
		`enable='between(t\,0\,54)'`,
		"fontsize=65",
		`alpha='if(lt(t\,0)\,0\,if(lt(t\,0.8)\,(t-0)/0.8\,`,
		`textfile='/work/aries/text_02_body.txt'`,
		"fontsize=48",
		"line_spacing=16",
		"x=(w-text_w)/2:y=910",
		"fontsize=60:fontcolor=#FFD700",
		"y=(h-text_h)/2",
		`enable='between(t\,54\,59)'`,
		`(t-54)/0.5`,
	}
	for _, want := range wantSubstrings {
		if !strings.Contains(graph, want) {
			t.Errorf("graph missing %q\ngraph: %s", want, graph)
		}
	}

	// The title never fades, so its stage carries no alpha expression.
	titleStage := graph[strings.Index(graph, "drawtext=text='✨ Aries ✨'"):]
	titleStage = titleStage[:strings.Index(titleStage, ",drawtext=")]
	if strings.Contains(titleStage, "alpha=") {
		t.Errorf("title stage should not fade: %s", titleStage)
	}
}

func TestBuildFilterGraphMultiLineNeedsFile(t *testing.T) {
	cfg := config.Default()
	tl := testTimeline()
	_, err := BuildFilterGraph(tl, cfg, nil)
	if err == nil {
		t.Fatal("expected error for multi-line element without a text file")
	}
	if !strings.Contains(err.Error(), "needs a text file") {
		t.Fatalf("error %q does not mention the text file", err)
	}
}

func TestBuildFilterGraphSkipsEmptyElements(t *testing.T) {
	cfg := config.Default()
	tl := timeline.Timeline{
		Target: 59,
		Elements: []timeline.TimedElement{
			{Layer: timeline.LayerTitle, Text: "Aries", Duration: 0},
			{Layer: timeline.LayerDate, Text: "   ", Duration: 54},
			{Layer: timeline.LayerHeading, Text: "🌙 Daily Horoscope", Duration: 20},
		},
	}
	graph, err := BuildFilterGraph(tl, cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Count(graph, "drawtext="); got != 1 {
		t.Fatalf("drawtext stages = %d, want 1\ngraph: %s", got, graph)
	}
}

func TestAlphaExpression(t *testing.T) {
	tests := []struct {
		name    string
		start   float64
		end     float64
		fadeIn  float64
		fadeOut float64
		want    string
	}{
		{
			name:  "no fades",
			start: 0, end: 54,
			want: "if(lt(t,0),0,if(lt(t,54),1,0))",
		},
		{
			name:  "fade both",
			start: 10, end: 20, fadeIn: 0.8, fadeOut: 0.8,
			want: "if(lt(t,10),0,if(lt(t,10.8),(t-10)/0.8,if(lt(t,19.2),1,if(lt(t,20),(20-t)/0.8,0))))",
		},
		{
			name:  "fade in only",
			start: 54, end: 59, fadeIn: 0.5,
			want: "if(lt(t,54),0,if(lt(t,54.5),(t-54)/0.5,if(lt(t,59),1,0)))",
		},
		{
			name:  "fade out only",
			start: 0, end: 10, fadeOut: 2,
			want: "if(lt(t,0),0,if(lt(t,8),1,if(lt(t,10),(10-t)/2,0)))",
		},
		{
			name:  "degenerate window",
			start: 5, end: 5,
			want: "0",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := alphaExpression(tc.start, tc.end, tc.fadeIn, tc.fadeOut)
			if got != tc.want {
				t.Fatalf("alpha = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBuildAudioFilters(t *testing.T) {
	got := BuildAudioFilters(config.Default().Audio)
	want := "volume=0.3,aresample=44100"
	if got != want {
		t.Fatalf("audio filters = %q, want %q", got, want)
	}

	if got := BuildAudioFilters(config.AudioSettings{}); got != "" {
		t.Fatalf("audio filters for zero settings = %q, want empty", got)
	}
}

func TestBuildRenderArgs(t *testing.T) {
	cfg := config.Default()

	t.Run("with music", func(t *testing.T) {
		args, err := BuildRenderArgs(
			Inputs{VideoList: "/work/aries/background.txt", MusicList: "/work/aries/music.txt"},
			"graph", "volume=0.3,aresample=44100", 59, "/videos/youtube_shorts/Aries.mp4", cfg,
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		joined := strings.Join(args, " ")
		wantSubstrings := []string{
			"-hide_banner -y -f concat -safe 0 -i /work/aries/background.txt",
			"-f concat -safe 0 -i /work/aries/music.txt",
			"-t 59",
			"-vf graph",
			"-af volume=0.3,aresample=44100",
			"-map 0:v:0 -map 1:a:0",
			"-c:v libx264 -preset ultrafast -crf 23 -pix_fmt yuv420p",
			"-c:a aac -b:a 192k -ar 44100",
			"-movflags +faststart /videos/youtube_shorts/Aries.mp4",
		}
		for _, want := range wantSubstrings {
			if !strings.Contains(joined, want) {
				t.Errorf("args missing %q\nargs: %s", want, joined)
			}
		}
	})

	t.Run("silent without music", func(t *testing.T) {
		args, err := BuildRenderArgs(
			Inputs{VideoList: "/work/aries/background.txt"},
			"graph", "volume=0.3", 59, "/videos/youtube_shorts/Aries.mp4", cfg,
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		joined := strings.Join(args, " ")
		if !strings.Contains(joined, "-an") {
			t.Errorf("args missing -an: %s", joined)
		}
		for _, banned := range []string{"-map", "-af", "-c:a", "-b:a"} {
			if strings.Contains(joined, banned+" ") {
				t.Errorf("silent args should not contain %s: %s", banned, joined)
			}
		}
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name    string
			in      Inputs
			graph   string
			target  float64
			output  string
			wantErr string
		}{
			{name: "missing video list", in: Inputs{}, graph: "g", target: 59, output: "o.mp4", wantErr: "video list"},
			{name: "missing output", in: Inputs{VideoList: "v.txt"}, graph: "g", target: 59, wantErr: "output path"},
			{name: "missing graph", in: Inputs{VideoList: "v.txt"}, target: 59, output: "o.mp4", wantErr: "filter graph"},
			{name: "zero target", in: Inputs{VideoList: "v.txt"}, graph: "g", output: "o.mp4", wantErr: "not positive"},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				_, err := BuildRenderArgs(tc.in, tc.graph, "", tc.target, tc.output, cfg)
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tc.wantErr)
				}
				if !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("error %q does not contain %q", err, tc.wantErr)
				}
			})
		}
	})
}
