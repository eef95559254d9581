package test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/models"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/service"
)

type MockQuotaService struct {
	mock.Mock
}

func (m *MockQuotaService) IsFirstPost(ctx context.Context, rawPhone string) (bool, int, error) {
	args := m.Called(ctx, rawPhone)
	return args.Bool(0), args.Int(1), args.Error(2)
}

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) CreatePost(ctx context.Context, req service.CreatePostRequest) (*service.CreatePostResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CreatePostResult), args.Error(1)
}

func (m *MockPostService) RequestRepost(ctx context.Context, postID, rawPhone, paymentMethod string) (*service.RepostResult, error) {
	args := m.Called(ctx, postID, rawPhone, paymentMethod)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RepostResult), args.Error(1)
}

func (m *MockPostService) ConfirmPayment(ctx context.Context, intent *models.PaymentIntent) (*models.Post, error) {
	args := m.Called(ctx, intent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) Approve(ctx context.Context, postID string) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

func (m *MockPostService) Reject(ctx context.Context, postID string) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

func (m *MockPostService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) ListByPhone(ctx context.Context, rawPhone string) ([]models.PostView, error) {
	args := m.Called(ctx, rawPhone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PostView), args.Error(1)
}

func (m *MockPostService) ListActive(ctx context.Context, limit, offset int) ([]models.PostView, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PostView), args.Error(1)
}

func (m *MockPostService) ListModeration(ctx context.Context, status string, limit, offset int) ([]models.Post, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostService) AttachMedia(ctx context.Context, postID, rawPhone, fileName, mediaType, aspectRatio string, file io.Reader, size int64) (*models.PostMedia, error) {
	args := m.Called(ctx, postID, rawPhone, fileName, mediaType, aspectRatio, file, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostMedia), args.Error(1)
}

func (m *MockPostService) DeletePost(ctx context.Context, postID, rawPhone string) error {
	args := m.Called(ctx, postID, rawPhone)
	return args.Error(0)
}

type MockWebhookService struct {
	mock.Mock
}

func (m *MockWebhookService) HandleNotification(ctx context.Context, providerName string, payload []byte, signatureHeader string) error {
	args := m.Called(ctx, providerName, payload, signatureHeader)
	return args.Error(0)
}

type MockIntentRepository struct {
	mock.Mock
}

func (m *MockIntentRepository) CreateSuperseding(ctx context.Context, intent *models.PaymentIntent) error {
	args := m.Called(ctx, intent)
	return args.Error(0)
}

func (m *MockIntentRepository) GetByRef(ctx context.Context, externalRef string) (*models.PaymentIntent, error) {
	args := m.Called(ctx, externalRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentIntent), args.Error(1)
}

func (m *MockIntentRepository) Consume(ctx context.Context, externalRef string) (bool, error) {
	args := m.Called(ctx, externalRef)
	return args.Bool(0), args.Error(1)
}

func (m *MockIntentRepository) MarkStatus(ctx context.Context, externalRef, status string) error {
	args := m.Called(ctx, externalRef, status)
	return args.Error(0)
}

type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) CountByStatus(ctx context.Context) (*models.StatusCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StatusCounts), args.Error(1)
}
