// Package mocks provides testify mocks for handler tests.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/summit-companion/backend/internal/models"
)

// QuestionStoreMock mocks the qa.Store interface.
type QuestionStoreMock struct {
	mock.Mock
}

func (m *QuestionStoreMock) Create(ctx context.Context, q *models.Question) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *QuestionStoreMock) GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	args := m.Called(ctx, id)
	if q, ok := args.Get(0).(*models.Question); ok {
		return q, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *QuestionStoreMock) ListByEvent(ctx context.Context, eventID int64, visibleOnly bool, sort string) ([]models.Question, error) {
	args := m.Called(ctx, eventID, visibleOnly, sort)
	if list, ok := args.Get(0).([]models.Question); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *QuestionStoreMock) ToggleVisibility(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	args := m.Called(ctx, id)
	if q, ok := args.Get(0).(*models.Question); ok {
		return q, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *QuestionStoreMock) ToggleAnswered(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	args := m.Called(ctx, id)
	if q, ok := args.Get(0).(*models.Question); ok {
		return q, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *QuestionStoreMock) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *QuestionStoreMock) ToggleLike(ctx context.Context, questionID uuid.UUID, sessionID string) (bool, int, error) {
	args := m.Called(ctx, questionID, sessionID)
	return args.Bool(0), args.Int(1), args.Error(2)
}

func (m *QuestionStoreMock) LikedQuestionIDs(ctx context.Context, eventID int64, sessionID string) ([]uuid.UUID, error) {
	args := m.Called(ctx, eventID, sessionID)
	if ids, ok := args.Get(0).([]uuid.UUID); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

// EventStoreMock mocks the qa.EventStore interface.
type EventStoreMock struct {
	mock.Mock
}

func (m *EventStoreMock) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	args := m.Called(ctx, id)
	if e, ok := args.Get(0).(*models.Event); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

// FeedbackStoreMock mocks the feedback.Store interface.
type FeedbackStoreMock struct {
	mock.Mock
}

func (m *FeedbackStoreMock) Create(ctx context.Context, f *models.FeedbackSubmission) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *FeedbackStoreMock) List(ctx context.Context) ([]models.FeedbackSubmission, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]models.FeedbackSubmission); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
