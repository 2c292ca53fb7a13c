// Package export renders a day's clock events for other tools.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/timeclock/internal/i18n"
	"github.com/Tiliavir/timeclock/internal/model"
	"github.com/Tiliavir/timeclock/internal/timecalc"
)

// Formats lists the supported output formats.
var Formats = []string{"csv", "json", "md", "yaml", "xlsx"}

// Day is the exported view of one day.
type Day struct {
	Date         time.Time
	Events       []model.ClockEvent
	Metrics      model.Metrics
	WorkdayHours float64
}

type row struct {
	Time      string `json:"time" yaml:"time"`
	Direction string `json:"direction" yaml:"direction"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

type document struct {
	Date               string `json:"date" yaml:"date"`
	WorkdayLength      string `json:"workday_length" yaml:"workday_length"`
	TotalWorkedSeconds int64  `json:"total_worked_seconds" yaml:"total_worked_seconds"`
	Total              string `json:"total" yaml:"total"`
	Working            bool   `json:"working" yaml:"working"`
	Events             []row  `json:"events" yaml:"events"`
}

func (d Day) document(lang string) document {
	doc := document{
		Date:               d.Date.Format("2006-01-02"),
		WorkdayLength:      timecalc.FormatWorkdayLength(d.WorkdayHours),
		TotalWorkedSeconds: d.Metrics.TotalWorkedSeconds(),
		Total:              timecalc.FormatHoursMinutes(d.Metrics.TotalWorked),
		Working:            d.Metrics.IsWorking,
		Events:             make([]row, 0, len(d.Events)),
	}
	for _, e := range d.Events {
		ts := ""
		if e.Valid() {
			ts = e.Timestamp.Format(time.RFC3339)
		}
		doc.Events = append(doc.Events, row{
			Time:      timecalc.FormatClock(e.Timestamp),
			Direction: DirectionLabel(lang, e.Direction),
			Timestamp: ts,
		})
	}
	return doc
}

// DirectionLabel returns the localised name of dir.
func DirectionLabel(lang string, dir model.Direction) string {
	if dir == model.In {
		return i18n.T(lang, i18n.MsgIn)
	}
	return i18n.T(lang, i18n.MsgOut)
}

// Write renders day in format to w.
func Write(w io.Writer, format, lang string, day Day) error {
	doc := day.document(lang)
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	case "md":
		return writeMarkdown(w, lang, doc)
	case "xlsx":
		return writeXLSX(w, lang, doc)
	case "csv", "":
		return writeCSV(w, doc)
	}
	return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
}

func writeCSV(w io.Writer, doc document) error {
	if _, err := fmt.Fprintln(w, "date,time,direction,timestamp"); err != nil {
		return err
	}
	for _, r := range doc.Events {
		if _, err := fmt.Fprintf(w, "%s,%s,%s,%s\n",
			csvEscape(doc.Date),
			csvEscape(r.Time),
			csvEscape(r.Direction),
			csvEscape(r.Timestamp),
		); err != nil {
			return err
		}
	}
	return nil
}

// csvEscape wraps a field in double-quotes if it contains a comma, double-quote,
// or newline, and escapes any embedded double-quotes by doubling them.
func csvEscape(s string) string {
	if strings.ContainsAny(s, ",\"\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

func writeMarkdown(w io.Writer, lang string, doc document) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s\n\n", i18n.T(lang, i18n.MsgTimestamps), doc.Date)
	if len(doc.Events) == 0 {
		fmt.Fprintln(&b, i18n.T(lang, i18n.MsgNoTimestamps))
	} else {
		fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", i18n.T(lang, i18n.MsgTime), i18n.T(lang, i18n.MsgDirection))
		for _, r := range doc.Events {
			fmt.Fprintf(&b, "| %s | %s |\n", r.Time, r.Direction)
		}
	}
	fmt.Fprintf(&b, "\n**%s: %s**\n", i18n.T(lang, i18n.MsgTotal), doc.Total)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeXLSX(w io.Writer, lang string, doc document) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := i18n.T(lang, i18n.MsgTimestamps)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := []any{
		i18n.T(lang, i18n.MsgDate),
		i18n.T(lang, i18n.MsgTime),
		i18n.T(lang, i18n.MsgDirection),
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range doc.Events {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{doc.Date, r.Time, r.Direction}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	totalCell, err := excelize.CoordinatesToCellName(1, len(doc.Events)+3)
	if err != nil {
		return err
	}
	total := []any{i18n.T(lang, i18n.MsgTotal), doc.Total}
	if err := f.SetSheetRow(sheet, totalCell, &total); err != nil {
		return fmt.Errorf("writing total: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
