package analytics

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/prepforge/mocktest-service/internal/models"
)

// Export formats supported by Export.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var csvHeader = []string{"date", "type", "score", "total_questions", "correct_answers", "time_spent_seconds"}

// Export serializes analytics data in the requested format. JSON carries the
// full report; CSV and XLSX carry the raw test history.
func (a *Aggregator) Export(format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return a.exportJSON()
	case FormatCSV:
		return a.exportCSV()
	case FormatXLSX:
		return a.exportXLSX()
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func (a *Aggregator) exportJSON() ([]byte, error) {
	a.mu.Lock()
	report := a.reportLocked()
	a.mu.Unlock()

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize analytics report: %w", err)
	}
	return data, nil
}

func (a *Aggregator) exportCSV() ([]byte, error) {
	a.mu.Lock()
	history := make([]models.TestResult, len(a.state.TestHistory))
	copy(history, a.state.TestHistory)
	a.mu.Unlock()

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, result := range history {
		if err := writer.Write(historyRow(result)); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func historyRow(result models.TestResult) []string {
	return []string{
		result.Date.Format("2006-01-02T15:04:05Z07:00"),
		string(result.Type),
		strconv.FormatFloat(result.Score, 'f', -1, 64),
		strconv.Itoa(result.TotalQuestions),
		strconv.Itoa(result.CorrectAnswers),
		strconv.Itoa(result.TimeSpentSeconds),
	}
}

func (a *Aggregator) exportXLSX() ([]byte, error) {
	a.mu.Lock()
	history := make([]models.TestResult, len(a.state.TestHistory))
	copy(history, a.state.TestHistory)
	subjects := sortedSubjects(a.state.SubjectPerformance)
	performance := make(map[string]models.SubjectStats, len(a.state.SubjectPerformance))
	for subject, stats := range a.state.SubjectPerformance {
		performance[subject] = *stats
	}
	a.mu.Unlock()

	f := excelize.NewFile()
	defer f.Close()

	historySheet := "Test History"
	f.SetSheetName("Sheet1", historySheet)
	for col, title := range csvHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(historySheet, cell, title)
	}
	for row, result := range history {
		values := []interface{}{
			result.Date.Format("2006-01-02T15:04:05Z07:00"),
			string(result.Type),
			result.Score,
			result.TotalQuestions,
			result.CorrectAnswers,
			result.TimeSpentSeconds,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(historySheet, cell, value)
		}
	}

	subjectSheet := "Subject Performance"
	if _, err := f.NewSheet(subjectSheet); err != nil {
		return nil, fmt.Errorf("failed to create subject sheet: %w", err)
	}
	subjectHeader := []string{"subject", "total_tests", "total_questions", "correct_answers", "average_score", "best_score"}
	for col, title := range subjectHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(subjectSheet, cell, title)
	}
	for row, subject := range subjects {
		stats := performance[subject]
		values := []interface{}{
			subject,
			stats.TotalTests,
			stats.TotalQuestions,
			stats.CorrectAnswers,
			stats.AverageScore,
			stats.BestScore,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(subjectSheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
