package service

import (
	"context"
	"sync"

	"ripple/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock of the repository.UserRepository interface.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Search(ctx context.Context, query string) ([]models.User, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) SuggestCounterparts(ctx context.Context, userID uint, limit int) ([]models.User, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]models.User), args.Error(1)
}

// MockPostRepository is a mock of the repository.PostRepository interface.
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	args := m.Called(ctx, id, currentUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByUserID(ctx context.Context, userID uint, currentUserID uint) ([]*models.Post, error) {
	args := m.Called(ctx, userID, currentUserID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, currentUserID uint) ([]*models.Post, error) {
	args := m.Called(ctx, currentUserID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) ToggleLike(ctx context.Context, userID, postID uint) (*models.Post, error) {
	args := m.Called(ctx, userID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) ToggleRetweet(ctx context.Context, userID, originalPostID uint) (*models.RetweetState, error) {
	args := m.Called(ctx, userID, originalPostID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RetweetState), args.Error(1)
}

// MockMessageRepository is a mock of the repository.MessageRepository interface.
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *models.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepository) GetConversation(ctx context.Context, viewerID, counterpartID uint) ([]*models.Message, error) {
	args := m.Called(ctx, viewerID, counterpartID)
	return args.Get(0).([]*models.Message), args.Error(1)
}

func (m *MockMessageRepository) UnreadCount(ctx context.Context, viewerID uint) (int64, error) {
	args := m.Called(ctx, viewerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageRepository) ListChats(ctx context.Context, viewerID uint) ([]models.ChatSummary, error) {
	args := m.Called(ctx, viewerID)
	return args.Get(0).([]models.ChatSummary), args.Error(1)
}

// recordingBroadcaster captures fan-out calls so tests can assert on the
// targeted users without real websocket connections.
type recordingBroadcaster struct {
	mu       sync.Mutex
	userIDs  [][]uint
	payloads [][]byte
}

func (b *recordingBroadcaster) BroadcastUsers(userIDs []uint, message []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.userIDs = append(b.userIDs, userIDs)
	b.payloads = append(b.payloads, message)
}

func (b *recordingBroadcaster) calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.userIDs)
}

func (b *recordingBroadcaster) lastCall() ([]uint, []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.userIDs) == 0 {
		return nil, nil
	}
	return b.userIDs[len(b.userIDs)-1], b.payloads[len(b.payloads)-1]
}
