package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/prepforge/mocktest-service/internal/models"
	"github.com/prepforge/mocktest-service/internal/repositories"
	"github.com/prepforge/mocktest-service/internal/validator"
)

func newImportExportUnderTest(repo repositories.QuestionRepository) ImportExportService {
	return NewImportExportService(repo, validator.New(), testLogger())
}

const validCSV = `subject,chapter,difficulty,text,options,correct_index,is_pyq,year,source
Physics,Kinematics,Easy,What is velocity?,Speed|Displacement per time|Mass|Force,1,true,2021,AIEEE
Chemistry,,Medium,What is H2O?,Water|Salt|Acid,0,false,,
`

func TestImportQuestionsFromCSV_Success(t *testing.T) {
	repo := new(MockQuestionRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Question")).Return(nil)
	svc := newImportExportUnderTest(repo)

	result, err := svc.ImportQuestionsFromCSV(context.Background(), strings.NewReader(validCSV))

	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 0, result.ErrorCount)
	repo.AssertNumberOfCalls(t, "Create", 2)
}

func TestImportQuestionsFromCSV_RowErrors(t *testing.T) {
	csv := `subject,chapter,difficulty,text,options,correct_index
Physics,,Impossible,What is velocity?,A|B|C,1
,,Easy,Missing subject,A|B,0
Physics,,Easy,Bad index,A|B,7
`
	repo := new(MockQuestionRepository)
	svc := newImportExportUnderTest(repo)

	result, err := svc.ImportQuestionsFromCSV(context.Background(), strings.NewReader(csv))

	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 0, result.SuccessCount)
	assert.Equal(t, 3, result.ErrorCount)
	require.NotEmpty(t, result.Errors)
	repo.AssertNotCalled(t, "Create")

	rows := make(map[int]bool)
	for _, rowErr := range result.Errors {
		rows[rowErr.Row] = true
	}
	assert.True(t, rows[2] && rows[3] && rows[4], "each bad row should be reported by row number")
}

func TestImportQuestionsFromCSV_MissingColumn(t *testing.T) {
	csv := `subject,text
Physics,No options column
`
	svc := newImportExportUnderTest(new(MockQuestionRepository))

	_, err := svc.ImportQuestionsFromCSV(context.Background(), strings.NewReader(csv))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column")
}

func TestImportQuestionsFromFile_UnsupportedExtension(t *testing.T) {
	svc := newImportExportUnderTest(new(MockQuestionRepository))

	_, err := svc.ImportQuestionsFromFile(context.Background(), strings.NewReader(""), "questions.pdf")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExportQuestionsToCSV(t *testing.T) {
	chapter := "Kinematics"
	year := 2021
	question := models.Question{
		ID:           1,
		Subject:      "Physics",
		Chapter:      &chapter,
		Difficulty:   models.DifficultyEasy,
		Text:         "What is velocity?",
		CorrectIndex: 1,
		IsPYQ:        true,
		Year:         &year,
	}
	require.NoError(t, question.SetOptions([]string{"Speed", "Displacement per time"}))

	repo := new(MockQuestionRepository)
	repo.On("List", mock.Anything, mock.Anything).Return([]models.Question{question}, int64(1), nil)
	svc := newImportExportUnderTest(repo)

	data, err := svc.ExportQuestionsToCSV(context.Background(), repositories.QuestionFilters{Subject: "Physics"})

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(questionColumns, ","), lines[0])
	assert.Contains(t, lines[1], "Speed|Displacement per time")
	assert.Contains(t, lines[1], "2021")
}

func TestImportExportRoundTripXLSX(t *testing.T) {
	question := models.Question{
		ID:           1,
		Subject:      "Physics",
		Difficulty:   models.DifficultyEasy,
		Text:         "What is velocity?",
		CorrectIndex: 0,
	}
	require.NoError(t, question.SetOptions([]string{"Displacement per time", "Mass"}))

	exportRepo := new(MockQuestionRepository)
	exportRepo.On("List", mock.Anything, mock.Anything).Return([]models.Question{question}, int64(1), nil)
	data, err := newImportExportUnderTest(exportRepo).ExportQuestionsToExcel(context.Background(), repositories.QuestionFilters{})
	require.NoError(t, err)

	importRepo := new(MockQuestionRepository)
	importRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Question")).Return(nil)
	result, err := newImportExportUnderTest(importRepo).ImportQuestionsFromExcel(context.Background(), strings.NewReader(string(data)))

	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 0, result.ErrorCount)
}
