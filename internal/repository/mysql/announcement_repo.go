package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/omuct/eat-and-go-sub000/internal/datamodels/announcement"
)

type announcementRepo struct {
	db *gorm.DB
}

// NewAnnouncementRepository 创建公告仓储
func NewAnnouncementRepository(db *gorm.DB) announcement.Repository {
	return &announcementRepo{db: db}
}

func (r *announcementRepo) GetByID(ctx context.Context, id string) (*announcement.Announcement, error) {
	var a announcement.Announcement
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *announcementRepo) ListAll(ctx context.Context) ([]*announcement.Announcement, error) {
	var list []*announcement.Announcement
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *announcementRepo) Create(ctx context.Context, a *announcement.Announcement) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *announcementRepo) Update(ctx context.Context, a *announcement.Announcement) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *announcementRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&announcement.Announcement{}).Error
}
