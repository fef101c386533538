package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/omuct/eat-and-go-sub000/internal/datamodels/trashbin"
)

// 垃圾箱删除的两条路径，响应里会回传走的是哪条
const (
	TrashBinViaService = "service"
	TrashBinViaRLS     = "rls"
)

// TrashBinService 校内垃圾箱位置管理。
// 删除支持两条路径：带服务密钥的调用直接删（via=service），
// 否则要求调用方是店员/管理员（via=rls）。
type TrashBinService struct {
	repo       trashbin.Repository
	serviceKey string
}

func NewTrashBinService(repo trashbin.Repository, serviceKey string) *TrashBinService {
	return &TrashBinService{repo: repo, serviceKey: serviceKey}
}

func (s *TrashBinService) ListAll(ctx context.Context) ([]*trashbin.TrashBin, error) {
	return s.repo.ListAll(ctx)
}

func (s *TrashBinService) Create(ctx context.Context, name string, lat, lng float64, note string) (*trashbin.TrashBin, error) {
	if name == "" {
		return nil, errors.New("名称は必須です")
	}
	t := &trashbin.TrashBin{
		ID:   uuid.NewString(),
		Name: name,
		Lat:  lat,
		Lng:  lng,
		Note: note,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete 删除垃圾箱。providedKey 非空则必须匹配服务密钥；
// 匹配失败不降级，直接拒绝。返回实际走的路径。
func (s *TrashBinService) Delete(ctx context.Context, id, providedKey string, actorIsStaff bool) (string, error) {
	if providedKey != "" {
		if s.serviceKey == "" || providedKey != s.serviceKey {
			return "", ErrForbidden
		}
		return TrashBinViaService, s.repo.Delete(ctx, id)
	}
	if !actorIsStaff {
		return "", ErrForbidden
	}
	return TrashBinViaRLS, s.repo.Delete(ctx, id)
}
