package output

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/vsinha/orderdash/pkg/application/dto"
)

//go:embed templates/*.html
var templateFS embed.FS

// Bar is one bar of the report chart. Width is a percentage of the largest
// value in the chart.
type Bar struct {
	Label string
	Value string
	Width float64
}

// TemplateData contains all data for rendering the HTML template
type TemplateData struct {
	Result      *dto.ReportResult
	Header      []string
	Rows        [][]string
	Bars        []Bar
	Flagged     int
	Empty       string
	GeneratedAt string
}

// WriteHTML renders the report as a standalone page with a table and a
// horizontal bar chart of the report's main quantity
func WriteHTML(w io.Writer, result *dto.ReportResult) error {
	tmpl, err := template.ParseFS(templateFS, "templates/report.html")
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	t := tableFor(result)
	data := &TemplateData{
		Result:      result,
		Header:      t.header,
		Rows:        t.rows,
		Bars:        chartBars(t),
		Flagged:     t.flagged,
		Empty:       NoMatchingData,
		GeneratedAt: result.GeneratedAt.Format(time.DateTime),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	_, err = buf.WriteTo(w)
	return err
}

// chartBars charts the first numeric column against the first column
func chartBars(t table) []Bar {
	valueCol := -1
	for i, numeric := range t.numeric {
		if numeric {
			valueCol = i
			break
		}
	}
	if valueCol < 0 {
		return nil
	}

	values := make([]float64, len(t.rows))
	largest := 0.0
	for i, row := range t.rows {
		v, err := strconv.ParseFloat(row[valueCol], 64)
		if err != nil || v < 0 {
			v = 0
		}
		values[i] = v
		if v > largest {
			largest = v
		}
	}

	bars := make([]Bar, len(t.rows))
	for i, row := range t.rows {
		label := row[0]
		if len(row) > 1 && !t.numeric[1] && row[1] != "" {
			label += " " + row[1]
		}
		width := 0.0
		if largest > 0 {
			width = values[i] / largest * 100
		}
		bars[i] = Bar{Label: label, Value: row[valueCol], Width: width}
	}
	return bars
}

func generateHTMLOutput(result *dto.ReportResult, config Config) error {
	filename, err := reportPath(result, config, ".html")
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := WriteHTML(&buf, result); err != nil {
		return fmt.Errorf("failed to generate HTML report: %w", err)
	}

	if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.stdout(), "🌐 HTML report saved to: %s\n", filename)
	}
	return nil
}
