// Package export renders a computed dashboard as an .xlsx workbook.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"agent-insights-go/internal/types"
)

// Sheet names, in workbook order.
const (
	SheetKPIs         = "KPIs"
	SheetSeries       = "Series"
	SheetDistribution = "Distribution"
	SheetImpact       = "Impact"
	SheetInsights     = "Insights"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Filename suggests a download name for d.
func Filename(d types.Dashboard) string {
	name := fmt.Sprintf("%s-%s-%s.xlsx", d.Channel, d.Window, d.GeneratedAt.Format("20060102"))
	if d.ClientID != "" {
		name = d.ClientID + "-" + name
	}
	return strings.ReplaceAll(name, " ", "_")
}

// Workbook builds the export. The caller owns (and must close) the file.
func Workbook(d types.Dashboard) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetKPIs); err != nil {
		f.Close()
		return nil, err
	}
	for _, s := range []string{SheetSeries, SheetDistribution, SheetImpact, SheetInsights} {
		if _, err := f.NewSheet(s); err != nil {
			f.Close()
			return nil, err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	k := d.KPIs
	sheets := []struct {
		name string
		rows [][]any
	}{
		{SheetKPIs, [][]any{
			{"Metric", "Value"},
			{"Client", d.ClientID},
			{"Channel", string(d.Channel)},
			{"Window", d.Window},
			{"Generated at", d.GeneratedAt.Format(time.RFC3339)},
			{"Total", k.Total},
			{"Handled", k.Handled},
			{"Answered rate (%)", k.AnsweredRate},
			{"Missed", k.Missed},
			{"Pending", k.Pending},
			{"Average duration", k.AvgDuration},
			{"Qualified leads", k.QualifiedLeads},
			{"Total value", k.TotalValue},
			{"Response time", k.ResponseTime},
			{"Dropped records", d.Dropped},
		}},
		{SheetSeries, seriesRows(d.Series)},
		{SheetDistribution, distributionRows(d.Distribution)},
		{SheetImpact, impactRows(d.Impact)},
		{SheetInsights, insightRows(d.Insights)},
	}

	for _, s := range sheets {
		for i, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				f.Close()
				return nil, fmt.Errorf("write %s: %w", s.name, err)
			}
		}
		last, _ := excelize.ColumnNumberToName(len(s.rows[0]))
		if err := f.SetCellStyle(s.name, "A1", last+"1", bold); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// Write streams the export to w.
func Write(w io.Writer, d types.Dashboard) error {
	f, err := Workbook(d)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveAs writes the export to path.
func SaveAs(path string, d types.Dashboard) error {
	f, err := Workbook(d)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

func seriesRows(points []types.SeriesPoint) [][]any {
	rows := [][]any{{"Bucket", "Start", "Value"}}
	for _, p := range points {
		rows = append(rows, []any{p.BucketLabel, p.BucketStart.Format(time.RFC3339), p.Value})
	}
	return rows
}

func distributionRows(points []types.DistributionPoint) [][]any {
	rows := [][]any{{"Category", "Count", "Color"}}
	for _, p := range points {
		rows = append(rows, []any{p.CategoryName, p.Count, p.Color})
	}
	return rows
}

func impactRows(s types.ImpactSnapshot) [][]any {
	return [][]any{
		{"Metric", "Value"},
		{"Missed before", s.MissedBefore},
		{"Potential leads lost", s.PotentialLeadsLost},
		{"Estimated revenue loss", s.EstimatedRevenueLoss},
		{"Captured", s.CapturedCount},
		{"Captured value", s.CapturedValue},
		{"Hours saved", s.HoursSaved},
		{"Daily savings rate", s.DailySavingsRate},
		{"Cost savings (projected)", s.CostSavings},
		{"Capture rate (%)", s.CaptureRatePct},
		{"AI handled (%)", s.AIHandledPct},
		{"FTE equivalent", s.FTEEquivalent},
		{"Productivity boost (%)", s.ProductivityBoostPct},
	}
}

func insightRows(insights []types.Insight) [][]any {
	rows := [][]any{{"Kind", "Rule", "Title", "Message", "Suggested action"}}
	for _, in := range insights {
		rows = append(rows, []any{string(in.Kind), in.Rule, in.Title, in.Message, in.SuggestedAction})
	}
	return rows
}
