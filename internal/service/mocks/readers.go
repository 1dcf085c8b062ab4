package mocks

import (
	"context"

	"github.com/AltEgora/avito/internal/domain"
)

type MockTeamReader struct {
	GetTeamResult *domain.Team
	GetTeamErr    error
}

func (m *MockTeamReader) GetTeam(ctx context.Context, name string) (*domain.Team, error) {
	return m.GetTeamResult, m.GetTeamErr
}

type MockUserReader struct {
	GetUserResult  *domain.User
	GetUserErr     error
	ListOpenResult []domain.PullRequest
	ListOpenErr    error
	ListOpenCalls  int
	LastListedUser string
}

func (m *MockUserReader) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return m.GetUserResult, m.GetUserErr
}

func (m *MockUserReader) ListOpenPullRequestsByReviewer(ctx context.Context, userID string) ([]domain.PullRequest, error) {
	m.ListOpenCalls++
	m.LastListedUser = userID
	return m.ListOpenResult, m.ListOpenErr
}

type MockPRReader struct {
	GetPullRequestResult *domain.PullRequest
	GetPullRequestErr    error
}

func (m *MockPRReader) GetPullRequest(ctx context.Context, id string) (*domain.PullRequest, error) {
	return m.GetPullRequestResult, m.GetPullRequestErr
}
