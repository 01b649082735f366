package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/SAP-F-2025/exam-form-service/internal/events"
	"github.com/SAP-F-2025/exam-form-service/internal/models"
	"github.com/SAP-F-2025/exam-form-service/internal/repositories"
	"github.com/SAP-F-2025/exam-form-service/internal/sheets"
	"github.com/SAP-F-2025/exam-form-service/internal/storage"
	"github.com/SAP-F-2025/exam-form-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// MockScoreSheet is a mock implementation of sheets.ScoreSheet
type MockScoreSheet struct {
	mock.Mock
}

func (m *MockScoreSheet) AppendRow(ctx context.Context, worksheet string, row []interface{}) error {
	args := m.Called(ctx, worksheet, row)
	return args.Error(0)
}

// MockSubmissionFiles is a mock implementation of SubmissionFiles
type MockSubmissionFiles struct {
	mock.Mock
}

func (m *MockSubmissionFiles) Write(name string, sub *models.Submission) error {
	args := m.Called(name, sub)
	return args.Error(0)
}

func (m *MockSubmissionFiles) Open(name string) (io.ReadCloser, error) {
	args := m.Called(name)
	if rc := args.Get(0); rc != nil {
		return rc.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSubmissionRepository is a mock implementation of SubmissionRepository
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Create(ctx context.Context, record *models.SubmissionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockSubmissionRepository) List(ctx context.Context, filters repositories.SubmissionFilters) ([]*models.SubmissionRecord, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.SubmissionRecord), args.Get(1).(int64), args.Error(2)
}

var fixedNow = time.Date(2025, 1, 2, 10, 20, 30, 0, time.UTC)

const fixedFileName = "3-11_Ann_12_20250102_102030.json"

type submissionFixture struct {
	svc       SubmissionService
	files     *MockSubmissionFiles
	sheet     *MockScoreSheet
	archive   *MockSubmissionRepository
	publisher *events.MockEventPublisher
}

func newSubmissionFixture(t *testing.T) *submissionFixture {
	t.Helper()
	f := &submissionFixture{
		files:     new(MockSubmissionFiles),
		sheet:     new(MockScoreSheet),
		archive:   new(MockSubmissionRepository),
		publisher: events.NewMockEventPublisher(discardLogger()),
	}
	svc := NewSubmissionService(SubmissionDeps{
		Validator: validator.New(testClasses...),
		Scoring:   NewScoringService(loadTestExam(t)),
		Files:     f.files,
		Sheet:     f.sheet,
		Publisher: f.publisher,
		Archive:   f.archive,
		Logger:    discardLogger(),
	})
	svc.(*submissionService).now = func() time.Time { return fixedNow }
	f.svc = svc
	return f
}

func identifiedState() *models.AnswerState {
	state := correctState()
	state.SessionID = "sess"
	state.Identity = models.Identity{Class: "3/11", Nickname: " Ann ", RollNumber: "12"}
	return state
}

func expectedRow() []interface{} {
	return []interface{}{"12", "Ann", 2.0, 1.0, 4.0, 0.0, 0.0, 7.0, "2025-01-02 10:20:30"}
}

func TestSubmissionService_Submit_Success(t *testing.T) {
	f := newSubmissionFixture(t)
	ctx := context.Background()
	state := identifiedState()

	f.files.On("Write", fixedFileName, mock.MatchedBy(func(sub *models.Submission) bool {
		return sub.Nickname == "Ann" && sub.Timestamp == "2025-01-02 10:20:30" && sub.MaxScore == 7
	})).Return(nil)
	f.sheet.On("AppendRow", ctx, "3/11", expectedRow()).Return(nil)
	f.archive.On("Create", ctx, mock.MatchedBy(func(r *models.SubmissionRecord) bool {
		return r.FileName == fixedFileName && r.Total == 7
	})).Return(nil)

	result, err := f.svc.Submit(ctx, state)
	require.NoError(t, err)

	assert.Equal(t, fixedFileName, result.FileName)
	assert.Equal(t, 7.0, result.Total)
	assert.Equal(t, 7.0, result.MaxScore)
	assert.True(t, result.FileWritten)
	assert.True(t, result.RowAppended)
	assert.Equal(t, fixedFileName, state.LastSubmission)
	assert.Equal(t, "Ann", state.Identity.Nickname)

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventSubmissionRecorded, published[0].Type)

	f.files.AssertExpectations(t)
	f.sheet.AssertExpectations(t)
	f.archive.AssertExpectations(t)
}

func TestSubmissionService_Submit_InvalidIdentity(t *testing.T) {
	tests := []struct {
		name     string
		identity models.Identity
	}{
		{"missing nickname", models.Identity{Class: "3/11", Nickname: "  ", RollNumber: "12"}},
		{"missing roll number", models.Identity{Class: "3/11", Nickname: "Ann"}},
		{"unknown class", models.Identity{Class: "9/99", Nickname: "Ann", RollNumber: "12"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSubmissionFixture(t)
			state := correctState()
			state.Identity = tt.identity

			result, err := f.svc.Submit(context.Background(), state)
			assert.Nil(t, result)
			assert.True(t, IsValidation(err))
			assert.Empty(t, state.LastSubmission)
			assert.Empty(t, f.publisher.GetPublishedEvents())

			f.files.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
			f.sheet.AssertNotCalled(t, "AppendRow", mock.Anything, mock.Anything, mock.Anything)
			f.archive.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmissionService_Submit_WorksheetMissing(t *testing.T) {
	f := newSubmissionFixture(t)
	ctx := context.Background()
	state := identifiedState()

	f.files.On("Write", fixedFileName, mock.Anything).Return(nil)
	f.sheet.On("AppendRow", ctx, "3/11", mock.Anything).Return(sheets.ErrWorksheetNotFound)
	f.archive.On("Create", ctx, mock.Anything).Return(nil)

	result, err := f.svc.Submit(ctx, state)
	require.Error(t, err)
	require.NotNil(t, result)

	assert.True(t, IsPipeline(err))
	assert.True(t, IsWorksheetNotFound(err))
	var pe *PipelineError
	require.True(t, errors.As(err, &pe))
	assert.True(t, pe.Failed(StageSheet))
	assert.False(t, pe.Failed(StageFile))

	assert.True(t, result.FileWritten)
	assert.False(t, result.RowAppended)
	assert.Equal(t, fixedFileName, state.LastSubmission)

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventSubmissionIncomplete, published[0].Type)
}

func TestSubmissionService_Submit_FileFailure(t *testing.T) {
	f := newSubmissionFixture(t)
	ctx := context.Background()
	state := identifiedState()
	diskErr := errors.New("disk full")

	f.files.On("Write", fixedFileName, mock.Anything).Return(diskErr)
	f.sheet.On("AppendRow", ctx, "3/11", expectedRow()).Return(nil)
	f.archive.On("Create", ctx, mock.Anything).Return(errors.New("db down"))

	result, err := f.svc.Submit(ctx, state)
	require.Error(t, err)

	assert.ErrorIs(t, err, diskErr)
	assert.Contains(t, err.Error(), "file")
	assert.False(t, result.FileWritten)
	assert.True(t, result.RowAppended)
	assert.Empty(t, result.FileName)
	assert.Empty(t, state.LastSubmission)
	f.sheet.AssertExpectations(t)
}

func TestSubmissionService_Submit_OptionalDeps(t *testing.T) {
	files := new(MockSubmissionFiles)
	sheet := new(MockScoreSheet)
	svc := NewSubmissionService(SubmissionDeps{
		Validator: validator.New(testClasses...),
		Scoring:   NewScoringService(loadTestExam(t)),
		Files:     files,
		Sheet:     sheet,
	})

	files.On("Write", mock.Anything, mock.Anything).Return(nil)
	sheet.On("AppendRow", mock.Anything, "3/11", mock.Anything).Return(nil)

	result, err := svc.Submit(context.Background(), identifiedState())
	require.NoError(t, err)
	assert.True(t, result.FileWritten)
	assert.True(t, result.RowAppended)
}

// fixedScoring returns the same scores for every state.
type fixedScoring struct {
	scores   models.Scores
	maxScore float64
}

func (f fixedScoring) Score(*models.AnswerState) (map[string]models.ItemAnswer, models.Scores, float64) {
	return map[string]models.ItemAnswer{}, f.scores, f.maxScore
}

func TestSubmissionService_Submit_RoundsDisplayedTotal(t *testing.T) {
	files := new(MockSubmissionFiles)
	sheet := new(MockScoreSheet)
	scores := models.Scores{Part2: 2.5, Part3: 10, Total: 12.5}
	svc := NewSubmissionService(SubmissionDeps{
		Validator: validator.New(testClasses...),
		Scoring:   fixedScoring{scores: scores, maxScore: 20},
		Files:     files,
		Sheet:     sheet,
	})

	files.On("Write", mock.Anything, mock.Anything).Return(nil)
	sheet.On("AppendRow", mock.Anything, "3/11", mock.MatchedBy(func(row []interface{}) bool {
		return row[7] == 12.5
	})).Return(nil)

	result, err := svc.Submit(context.Background(), identifiedState())
	require.NoError(t, err)
	assert.Equal(t, 12.0, result.Total)
	assert.Equal(t, 20.0, result.MaxScore)
	assert.Equal(t, 12.5, result.Scores.Total)
	sheet.AssertExpectations(t)
}

func TestSubmissionService_OpenSubmission(t *testing.T) {
	f := newSubmissionFixture(t)
	state := models.NewAnswerState("sess")

	_, err := f.svc.OpenSubmission(state, fixedFileName)
	assert.ErrorIs(t, err, ErrSubmissionNotFound)

	state.LastSubmission = fixedFileName
	f.files.On("Open", fixedFileName).Return(io.NopCloser(strings.NewReader("{}")), nil).Once()
	rc, err := f.svc.OpenSubmission(state, fixedFileName)
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "{}", string(body))

	_, err = f.svc.OpenSubmission(state, "other.json")
	assert.True(t, IsNotFound(err))

	f.files.On("Open", fixedFileName).Return(nil, storage.ErrInvalidName).Once()
	_, err = f.svc.OpenSubmission(state, fixedFileName)
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestSubmissionService_WritesFileAndWorkbook(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewSubmissionStore(dir + "/submissions")
	require.NoError(t, err)
	workbook, err := sheets.NewXLSXSheet(dir, "Final")
	require.NoError(t, err)
	require.NoError(t, workbook.EnsureWorksheets(testClasses))

	svc := NewSubmissionService(SubmissionDeps{
		Validator: validator.New(testClasses...),
		Scoring:   NewScoringService(loadTestExam(t)),
		Files:     store,
		Sheet:     workbook,
		Logger:    discardLogger(),
	})
	svc.(*submissionService).now = func() time.Time { return fixedNow }

	state := identifiedState()
	result, err := svc.Submit(context.Background(), state)
	require.NoError(t, err)

	sub, err := store.Read(result.FileName)
	require.NoError(t, err)
	assert.Equal(t, "Ann", sub.Nickname)
	assert.Equal(t, 7.0, sub.Scores.Total)
	assert.Equal(t, "Paris", sub.Answers["q1"].Value)

	xl, err := excelize.OpenFile(workbook.Path())
	require.NoError(t, err)
	defer xl.Close()
	rows, err := xl.GetRows("3-11")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"12", "Ann", "2", "1", "4", "0", "0", "7", "2025-01-02 10:20:30"}, rows[1])
}
