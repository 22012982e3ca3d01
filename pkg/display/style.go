package display

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// Style selects the template a row is drawn with.
type Style int

const (
	// Downloading draws a bar with transferred bytes, rate and ETA.
	Downloading Style = iota
	// Downloaded draws a one line summary of a finished download.
	Downloaded
)

// String returns the string representation of the Style.
func (s Style) String() string {
	switch s {
	case Downloading:
		return "downloading"
	case Downloaded:
		return "downloaded"
	default:
		return fmt.Sprintf("style(%d)", int(s))
	}
}

var labelStyle = lipgloss.NewStyle().Bold(true)

var funcs = template.FuncMap{
	"label": func(s string) string {
		return labelStyle.Render(fmt.Sprintf("%12s", s))
	},
}

// Templates are fixed at build time; a parse failure is a programming error.
var templates = map[Style]*template.Template{
	Downloading: template.Must(template.New("downloading").Funcs(funcs).Parse(
		"{{label .Label}}  [{{.Bar}}] {{.Bytes}}/{{.Total}} ({{.Rate}}, ETA: {{.ETA}})")),
	Downloaded: template.Must(template.New("downloaded").Funcs(funcs).Parse(
		"{{label .Label}}  downloaded {{.Total}} in {{.Elapsed}}.")),
}

// Stats is the state of a row at render time.
type Stats struct {
	Label    string
	Total    int64
	HasTotal bool
	Current  int64
	Elapsed  time.Duration
}

// Fraction returns the completed fraction in [0, 1], or 0 when the total is
// unknown.
func (s Stats) Fraction() float64 {
	if !s.HasTotal || s.Total <= 0 {
		return 0
	}
	f := float64(s.Current) / float64(s.Total)
	if f > 1 {
		return 1
	}
	return f
}

type fields struct {
	Label   string
	Bar     string
	Bytes   string
	Total   string
	Rate    string
	ETA     string
	Elapsed string
}

// Render draws a row with the given style. bar is substituted for the
// progress bar in templates that have one.
func Render(s Style, st Stats, bar string) string {
	tmpl, ok := templates[s]
	if !ok {
		tmpl = templates[Downloading]
	}

	f := fields{
		Label:   st.Label,
		Bar:     bar,
		Bytes:   humanize.IBytes(uint64(max(st.Current, 0))),
		Total:   "?",
		Rate:    "?/s",
		ETA:     "?",
		Elapsed: FormatDuration(st.Elapsed),
	}
	if st.HasTotal {
		f.Total = humanize.IBytes(uint64(max(st.Total, 0)))
	}

	if secs := st.Elapsed.Seconds(); secs > 0 {
		rate := float64(st.Current) / secs
		f.Rate = humanize.IBytes(uint64(rate)) + "/s"
		if st.HasTotal && rate > 0 {
			remaining := float64(max(st.Total-st.Current, 0))
			f.ETA = FormatDuration(time.Duration(remaining / rate * float64(time.Second)))
		}
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, f); err != nil {
		return st.Label
	}
	return sb.String()
}

// barMark stands in for the bar when a renderer draws the bar itself.
const barMark = "\x00"

// split renders a row around the bar, returning the text before and after it.
// Templates without a bar return the whole line in before and hasBar false.
func split(s Style, st Stats) (before, after string, hasBar bool) {
	return strings.Cut(Render(s, st, barMark), barMark)
}

// FormatDuration formats a duration as a human-readable string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
