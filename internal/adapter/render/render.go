// Package render turns a domain.Report into HTML or JSON for display.
package render

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/couchcryptid/storm-data-conditions/internal/domain"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html.tmpl"))

// Renderer writes a report in one output format.
type Renderer interface {
	Render(w io.Writer, report domain.Report) error
	ContentType() string
}

// HTML renders the conditions page.
type HTML struct{}

func (HTML) ContentType() string { return "text/html; charset=utf-8" }

func (HTML) Render(w io.Writer, report domain.Report) error {
	if err := pages.ExecuteTemplate(w, "conditions", report); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// JSON writes the report view-model as indented JSON.
type JSON struct{}

func (JSON) ContentType() string { return "application/json" }

func (JSON) Render(w io.Writer, report domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("render json: %w", err)
	}
	return nil
}

type errorView struct {
	Message  string
	RetryURL string
}

// ErrorPage renders message with a "Try again" link back to retryURL.
func ErrorPage(w io.Writer, message, retryURL string) error {
	if retryURL == "" {
		retryURL = "/"
	}
	if err := pages.ExecuteTemplate(w, "error", errorView{Message: message, RetryURL: retryURL}); err != nil {
		return fmt.Errorf("render error page: %w", err)
	}
	return nil
}

// Text writes a plain-text summary, used by the snapshot command.
type Text struct{}

func (Text) ContentType() string { return "text/plain; charset=utf-8" }

func (Text) Render(w io.Writer, report domain.Report) error {
	obs := report.Observation
	lines := []string{
		fmt.Sprintf("%s (%s)", obs.LocationName, report.Coordinates),
		fmt.Sprintf("  %s, %s", obs.Conditions, obs.CurrentTemp),
		fmt.Sprintf("  Humidity %s  Dew point %s", obs.RelHumidity, obs.DewPoint),
		fmt.Sprintf("  Wind %s  Gusts %s", obs.WindSpeedDir, obs.WindGust),
		fmt.Sprintf("  Pressure %s  Wind chill %s  Visibility %s", obs.Pressure, obs.WindChill, obs.Visibility),
	}
	for _, d := range report.Days {
		lines = append(lines, fmt.Sprintf("%-16s %-5s %4s°F  %s", d.Period, d.TempLabel, d.Temp, d.Weather))
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return fmt.Errorf("render text: %w", err)
		}
	}
	return nil
}

var (
	_ Renderer = HTML{}
	_ Renderer = JSON{}
	_ Renderer = Text{}
)
