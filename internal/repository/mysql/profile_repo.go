package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/omuct/eat-and-go-sub000/internal/datamodels/profile"
)

type profileRepo struct {
	db *gorm.DB
}

// NewProfileRepository 创建用户仓储
func NewProfileRepository(db *gorm.DB) profile.Repository {
	return &profileRepo{db: db}
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	var p profile.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) GetByEmail(ctx context.Context, email string) (*profile.Profile, error) {
	var p profile.Profile
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) Create(ctx context.Context, p *profile.Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *profileRepo) Update(ctx context.Context, p *profile.Profile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *profileRepo) ListAll(ctx context.Context) ([]*profile.Profile, error) {
	var list []*profile.Profile
	if err := r.db.WithContext(ctx).Order("created_at").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
