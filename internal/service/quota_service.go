package service

import (
	"context"

	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/phone"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/repository"
)

type QuotaService interface {
	// IsFirstPost reports whether the phone still holds its lifetime free
	// slot, along with how many posts were ever created under it. Pure read;
	// the authoritative claim happens atomically at creation time.
	IsFirstPost(ctx context.Context, rawPhone string) (bool, int, error)
}

type quotaService struct {
	postRepo repository.PostRepository
}

func NewQuotaService(postRepo repository.PostRepository) QuotaService {
	return &quotaService{postRepo: postRepo}
}

func (q *quotaService) IsFirstPost(ctx context.Context, rawPhone string) (bool, int, error) {
	digits := phone.Canonicalize(rawPhone)

	free, err := q.postRepo.HasFreeSlot(ctx, digits)
	if err != nil {
		return false, 0, err
	}

	total, err := q.postRepo.CountByPhone(ctx, digits)
	if err != nil {
		return false, 0, err
	}

	return free, total, nil
}
