package test

import (
	"context"
	"io"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"videomasa/internal/api/middleware"
	"videomasa/internal/app/jobs"
	"videomasa/internal/app/model"
)

type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) Submit(req jobs.Request) (string, error) {
	args := m.Called(req)
	return args.String(0), args.Error(1)
}

func (m *MockJobService) SubmitUpload(req jobs.UploadRequest, body io.Reader) (string, error) {
	data, _ := io.ReadAll(body)
	args := m.Called(req, string(data))
	return args.String(0), args.Error(1)
}

func (m *MockJobService) Get(id string) (model.Job, error) {
	args := m.Called(id)
	return args.Get(0).(model.Job), args.Error(1)
}

func (m *MockJobService) Merge(id string, req jobs.MergeRequest) (jobs.MergeResult, error) {
	args := m.Called(id, req)
	return args.Get(0).(jobs.MergeResult), args.Error(1)
}

func (m *MockJobService) Retranscribe(id, modelName string) (string, error) {
	args := m.Called(id, modelName)
	return args.String(0), args.Error(1)
}

func (m *MockJobService) CleanupJob(id string) error {
	return m.Called(id).Error(0)
}

func (m *MockJobService) DownloadFile(id string) (string, string, error) {
	args := m.Called(id)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockJobService) MP3(ctx context.Context, id string) (string, string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockJobService) Thumbnail(id string) (string, error) {
	args := m.Called(id)
	return args.String(0), args.Error(1)
}

type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) Recent(ctx context.Context, limit int) ([]model.Transcription, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Transcription), args.Error(1)
}

type MockLifecycle struct {
	mock.Mock
}

func (m *MockLifecycle) Beat()     { m.Called() }
func (m *MockLifecycle) Shutdown() { m.Called() }

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	return router
}
