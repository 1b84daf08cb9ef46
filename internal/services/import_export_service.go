package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/prepforge/mocktest-service/internal/models"
	"github.com/prepforge/mocktest-service/internal/repositories"
	"github.com/prepforge/mocktest-service/internal/utils"
	"github.com/prepforge/mocktest-service/internal/validator"
)

// ImportExportService moves questions between the pool and CSV/XLSX files.
type ImportExportService interface {
	ImportQuestionsFromFile(ctx context.Context, reader io.Reader, filename string) (*ImportResult, error)
	ImportQuestionsFromCSV(ctx context.Context, reader io.Reader) (*ImportResult, error)
	ImportQuestionsFromExcel(ctx context.Context, reader io.Reader) (*ImportResult, error)
	ExportQuestionsToCSV(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error)
	ExportQuestionsToExcel(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error)
}

type importExportService struct {
	repo      repositories.QuestionRepository
	validator *validator.Validator
	logger    utils.Logger
}

func NewImportExportService(repo repositories.QuestionRepository, v *validator.Validator, logger utils.Logger) ImportExportService {
	return &importExportService{
		repo:      repo,
		validator: v,
		logger:    logger,
	}
}

// RowError describes one rejected row during import.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult summarizes an import run. Rows that fail validation are
// reported in Errors; valid rows are saved regardless.
type ImportResult struct {
	TotalRows    int        `json:"total_rows"`
	SuccessCount int        `json:"success_count"`
	ErrorCount   int        `json:"error_count"`
	Errors       []RowError `json:"errors,omitempty"`
}

// Question file columns. Options are pipe-separated in a single cell.
var questionColumns = []string{"subject", "chapter", "difficulty", "text", "options", "correct_index", "is_pyq", "year", "source"}

const optionSeparator = "|"

func (s *importExportService) ImportQuestionsFromFile(ctx context.Context, reader io.Reader, filename string) (*ImportResult, error) {
	s.logger.InfoContext(ctx, "Starting question import", "filename", filename)

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return s.ImportQuestionsFromCSV(ctx, reader)
	case ".xlsx", ".xls":
		return s.ImportQuestionsFromExcel(ctx, reader)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func (s *importExportService) ImportQuestionsFromCSV(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return s.importRecords(ctx, records)
}

func (s *importExportService) ImportQuestionsFromExcel(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return s.importRecords(ctx, records)
}

func (s *importExportService) importRecords(ctx context.Context, records [][]string) (*ImportResult, error) {
	if len(records) < 2 {
		return nil, fmt.Errorf("file must have a header row and at least one data row")
	}

	headerMap := make(map[string]int)
	for i, header := range records[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range []string{"subject", "difficulty", "text", "options", "correct_index"} {
		if _, exists := headerMap[col]; !exists {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	result := &ImportResult{TotalRows: len(records) - 1}

	for rowIndex, record := range records[1:] {
		rowNum := rowIndex + 2
		question, rowErrors := s.parseRow(record, headerMap, rowNum)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorCount++
			continue
		}
		if err := s.repo.Create(ctx, question); err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Field: "", Message: err.Error()})
			result.ErrorCount++
			continue
		}
		result.SuccessCount++
	}

	s.logger.InfoContext(ctx, "Question import completed",
		"total_rows", result.TotalRows,
		"success_count", result.SuccessCount,
		"error_count", result.ErrorCount)

	return result, nil
}

func (s *importExportService) parseRow(record []string, headerMap map[string]int, rowNum int) (*models.Question, []RowError) {
	cell := func(name string) string {
		idx, ok := headerMap[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var rowErrors []RowError

	question := &models.Question{
		Subject:    cell("subject"),
		Difficulty: models.DifficultyLevel(cell("difficulty")),
		Text:       cell("text"),
	}
	if chapter := cell("chapter"); chapter != "" {
		question.Chapter = &chapter
	}
	if source := cell("source"); source != "" {
		question.Source = &source
	}

	options := splitOptions(cell("options"))
	if err := question.SetOptions(options); err != nil {
		rowErrors = append(rowErrors, RowError{Row: rowNum, Field: "options", Message: err.Error()})
	}

	correctIndex, err := strconv.Atoi(cell("correct_index"))
	if err != nil {
		rowErrors = append(rowErrors, RowError{Row: rowNum, Field: "correct_index", Message: "must be an integer"})
	}
	question.CorrectIndex = correctIndex

	if raw := cell("is_pyq"); raw != "" {
		isPYQ, err := strconv.ParseBool(raw)
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: rowNum, Field: "is_pyq", Message: "must be true or false"})
		}
		question.IsPYQ = isPYQ
	}
	if raw := cell("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: rowNum, Field: "year", Message: "must be an integer"})
		} else {
			question.Year = &year
		}
	}

	if len(rowErrors) > 0 {
		return nil, rowErrors
	}

	for _, validationErr := range s.validator.ValidateQuestion(question) {
		rowErrors = append(rowErrors, RowError{Row: rowNum, Field: validationErr.Field, Message: validationErr.Message})
	}
	if len(rowErrors) > 0 {
		return nil, rowErrors
	}
	return question, nil
}

func splitOptions(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, optionSeparator)
	options := make([]string, 0, len(parts))
	for _, part := range parts {
		options = append(options, strings.TrimSpace(part))
	}
	return options
}

// ===== EXPORT =====

func (s *importExportService) ExportQuestionsToCSV(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error) {
	questions, err := s.questionsForExport(ctx, filters)
	if err != nil {
		return nil, err
	}

	var builder strings.Builder
	writer := csv.NewWriter(&builder)

	if err := writer.Write(questionColumns); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, question := range questions {
		row, err := questionRow(question)
		if err != nil {
			return nil, err
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return []byte(builder.String()), nil
}

func (s *importExportService) ExportQuestionsToExcel(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error) {
	questions, err := s.questionsForExport(ctx, filters)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Questions"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range questionColumns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}
	for rowIdx, question := range questions {
		row, err := questionRow(question)
		if err != nil {
			return nil, err
		}
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	var buf strings.Builder
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return []byte(buf.String()), nil
}

func (s *importExportService) questionsForExport(ctx context.Context, filters repositories.QuestionFilters) ([]models.Question, error) {
	filters.Limit = 0
	filters.Offset = 0
	questions, _, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions for export: %w", err)
	}
	return questions, nil
}

func questionRow(question models.Question) ([]string, error) {
	options, err := question.OptionList()
	if err != nil {
		return nil, fmt.Errorf("failed to decode options for question %d: %w", question.ID, err)
	}

	chapter := ""
	if question.Chapter != nil {
		chapter = *question.Chapter
	}
	source := ""
	if question.Source != nil {
		source = *question.Source
	}
	year := ""
	if question.Year != nil {
		year = strconv.Itoa(*question.Year)
	}

	return []string{
		question.Subject,
		chapter,
		string(question.Difficulty),
		question.Text,
		strings.Join(options, optionSeparator),
		strconv.Itoa(question.CorrectIndex),
		strconv.FormatBool(question.IsPYQ),
		year,
		source,
	}, nil
}
