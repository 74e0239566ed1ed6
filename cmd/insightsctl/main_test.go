package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"agent-insights-go/internal/export"
	"agent-insights-go/internal/types"
)

func writeDataset(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "Calls"))

	rows := [][]any{
		{"Call ID", "Timestamp", "Status", "Outcome", "Duration", "Value"},
		{"c1", "2025-06-10 09:00:00", "answered", "Interested", "120", "300"},
		{"c2", "2025-06-10 10:00:00", "answered", "Converted lead", "60", "700"},
		{"c3", "2025-06-10 11:00:00", "missed", "Missed", "0", "0"},
		{"", "2025-06-10 11:30:00", "answered", "Interested", "30", "0"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Calls", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "dataset.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReport_JSON(t *testing.T) {
	out, err := execute(t, "report",
		"--dataset", writeDataset(t),
		"--window", "today",
		"--now", "2025-06-10T15:00:00Z",
		"--tz", "UTC",
	)
	require.NoError(t, err)

	var d types.Dashboard
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, 3, d.KPIs.Total)
	assert.Equal(t, 67, d.KPIs.AnsweredRate)
	assert.Equal(t, 2, d.KPIs.QualifiedLeads)
	assert.Equal(t, "01:00", d.KPIs.AvgDuration)
	assert.Equal(t, 1000.0, d.KPIs.TotalValue)
	assert.Equal(t, 1, d.Dropped)
	assert.Len(t, d.Series, 24)
}

func TestReport_XLSX(t *testing.T) {
	target := filepath.Join(t.TempDir(), "report.xlsx")
	out, err := execute(t, "report",
		"--dataset", writeDataset(t),
		"--window", "month",
		"--now", "2025-06-10T15:00:00Z",
		"--tz", "UTC",
		"--out", target,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+target)

	f, err := excelize.OpenFile(target)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(export.SheetKPIs, "B4")
	require.NoError(t, err)
	assert.Equal(t, "month", v)
}

func TestReport_Errors(t *testing.T) {
	dataset := writeDataset(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing dataset flag", args: []string{"report"}},
		{name: "unknown channel", args: []string{"report", "--dataset", dataset, "--channel", "sms"}},
		{name: "bad now", args: []string{"report", "--dataset", dataset, "--now", "yesterday"}},
		{name: "missing file", args: []string{"report", "--dataset", filepath.Join(t.TempDir(), "none.xlsx")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "insightsctl version "+Version+"\n", out)
}
