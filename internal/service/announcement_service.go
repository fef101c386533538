package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/omuct/eat-and-go-sub000/internal/datamodels/announcement"
)

// AnnouncementService 公告发布
type AnnouncementService struct {
	repo announcement.Repository
}

func NewAnnouncementService(repo announcement.Repository) *AnnouncementService {
	return &AnnouncementService{repo: repo}
}

func (s *AnnouncementService) ListAll(ctx context.Context) ([]*announcement.Announcement, error) {
	return s.repo.ListAll(ctx)
}

func (s *AnnouncementService) GetByID(ctx context.Context, id string) (*announcement.Announcement, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AnnouncementService) Create(ctx context.Context, title, content, category, imageURL string) (*announcement.Announcement, error) {
	if title == "" {
		return nil, errors.New("タイトルは必須です")
	}
	switch category {
	case announcement.CategoryBusinessHours, announcement.CategoryMenu, announcement.CategoryOther:
	default:
		return nil, errors.New("不正なカテゴリです")
	}
	a := &announcement.Announcement{
		ID:       uuid.NewString(),
		Title:    title,
		Content:  content,
		Category: category,
		ImageURL: imageURL,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AnnouncementService) Update(ctx context.Context, a *announcement.Announcement) error {
	if _, err := s.repo.GetByID(ctx, a.ID); err != nil {
		return errors.New("お知らせが見つかりません")
	}
	a.UpdatedAt = time.Now()
	return s.repo.Update(ctx, a)
}

func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
