package report

import (
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"
)

// Report is one day's outcome across the whole catalog.
type Report struct {
	Status    string            // StatusSuccess or StatusFailure
	Date      time.Time         // zero means now
	Generated []string          // signs with a rendered short
	Uploaded  map[string]string // sign to watch URL, "#" when unknown
	Failed    []string          // signs that produced neither
	Total     int               // catalog size, zero means all twelve
	RunLink   string            // CI run URL, omitted when empty
}

const (
	colorSuccess = "#27ae60"
	colorFailure = "#e74c3c"
)

// Subject is the email subject line for the report's day.
func (r Report) Subject() string {
	marker := "✅"
	if r.Status == StatusFailure {
		marker = "⚠️"
	}
	return fmt.Sprintf("%s AstroFinance Daily Report - %s", marker, r.when().Format("January 02, 2006"))
}

// HTML renders the report body.
func (r Report) HTML() (string, error) {
	data := r.templateData()
	var b strings.Builder
	if err := reportTmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

type uploadLine struct {
	Sign string
	URL  string
}

type templateData struct {
	Color     string
	Header    string
	Timestamp string
	Generated []string
	Uploads   []uploadLine
	Failed    []string
	Total     int
	RunLink   string
}

func (r Report) templateData() templateData {
	data := templateData{
		Color:     colorSuccess,
		Header:    "✅ SUCCESS",
		Timestamp: r.when().Format("January 02, 2006 at 03:04 PM") + " UTC",
		Generated: sortedCopy(r.Generated),
		Failed:    sortedCopy(r.Failed),
		Total:     r.Total,
		RunLink:   r.RunLink,
	}
	if r.Status == StatusFailure {
		data.Color = colorFailure
		data.Header = "⚠️ FAILURE"
	}
	if data.Total == 0 {
		data.Total = catalogSize()
	}
	for _, sign := range sortedKeys(r.Uploaded) {
		url := r.Uploaded[sign]
		if url == "" {
			url = "#"
		}
		data.Uploads = append(data.Uploads, uploadLine{Sign: sign, URL: url})
	}
	return data
}

func (r Report) when() time.Time {
	if r.Date.IsZero() {
		return time.Now().UTC()
	}
	return r.Date.UTC()
}

func sortedCopy(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var reportTmpl = template.Must(template.New("report").Parse(reportHTML))

const reportHTML = `<html>
<head>
<style>
  body { font-family: Arial, sans-serif; color: #333; }
  .container { max-width: 600px; margin: 0 auto; padding: 20px; border-left: 5px solid {{.Color}}; }
  .header { font-size: 24px; font-weight: bold; color: {{.Color}}; }
  .date { color: #777; margin-bottom: 20px; }
  .section { margin: 15px 0; }
  .section-title { font-weight: bold; background: #f9f9f9; padding: 8px; border-left: 3px solid {{.Color}}; }
  .sign-list { padding: 8px; }
  .sign { margin: 3px 0; }
  .success { color: #27ae60; }
  .failed { color: #e74c3c; }
  a { color: #3498db; text-decoration: none; }
  .footer { margin-top: 25px; font-size: 12px; color: #999; }
</style>
</head>
<body>
<div class="container">
  <div class="header">{{.Header}}</div>
  <div class="date">{{.Timestamp}}</div>
  <div class="section">
    <div class="section-title">🎬 GENERATION</div>
    <div class="sign-list">
      <div class="sign success">✅ Generated: {{len .Generated}}/{{.Total}}</div>
{{- range .Generated}}
      <div class="sign">✅ {{.}}</div>
{{- end}}
    </div>
  </div>
  <div class="section">
    <div class="section-title">📤 UPLOAD</div>
    <div class="sign-list">
      <div class="sign success">✅ Uploaded: {{len .Uploads}}/{{.Total}}</div>
{{- range .Uploads}}
      <div class="sign">✅ <a href="{{.URL}}">{{.Sign}}</a></div>
{{- end}}
    </div>
  </div>
{{- if .Failed}}
  <div class="section">
    <div class="section-title">❌ FAILED</div>
    <div class="sign-list">
{{- range .Failed}}
      <div class="sign failed">❌ {{.}}</div>
{{- end}}
    </div>
  </div>
{{- end}}
  <div class="footer">
    Automated report from AstroFinance.
{{- if .RunLink}}
    <a href="{{.RunLink}}">View workflow run</a>
{{- end}}
  </div>
</div>
</body>
</html>
`
