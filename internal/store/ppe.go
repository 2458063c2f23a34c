package store

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/model"
)

// PPERequests 防护用品申领，userID 为空时返回全部；按创建时间倒序
func (s *Store) PPERequests(userID string) []domain.PPERequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.PPERequest
	for _, p := range s.data.ppeRequests {
		if userID == "" || p.UserID == userID {
			out = append(out, clonePPERequest(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// PPERequest 按 ID 查找
func (s *Store) PPERequest(id string) (domain.PPERequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.data.ppeRequests {
		if p.ID == id {
			return clonePPERequest(p), true
		}
	}
	return domain.PPERequest{}, false
}

// CreatePPERequest 员工申领防护用品；类型定义了尺码时 size 必须是其中之一
func (s *Store) CreatePPERequest(ctx context.Context, userID, typeID, size string) (domain.PPERequest, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, ok := s.User(userID); !ok {
		return domain.PPERequest{}, ErrNotFound
	}
	pt, ok := s.PPEType(typeID)
	if !ok {
		return domain.PPERequest{}, invalid("EPI inexistente")
	}
	if len(pt.Sizes) > 0 && !containsString(pt.Sizes, size) {
		return domain.PPERequest{}, invalid("talla no disponible para %s: %s", pt.Name, size)
	}

	p := domain.PPERequest{
		ID:        uuid.NewString(),
		UserID:    userID,
		TypeID:    typeID,
		Size:      size,
		Status:    domain.PPEPending,
		CreatedAt: s.now(),
	}
	row := model.PPERequest{ID: p.ID, UserID: p.UserID, TypeID: p.TypeID, Size: p.Size, Status: string(p.Status), CreatedAt: p.CreatedAt}
	if err := s.repo.PPERequest.Create(ctx, &row); err != nil {
		return domain.PPERequest{}, s.writeFailed("CreatePPERequest", EntityPPERequest, err)
	}

	s.mu.Lock()
	s.data.ppeRequests = append(s.data.ppeRequests, p)
	s.mu.Unlock()

	s.notify(EntityPPERequest, ActionCreated, p.ID, userID)
	return p, nil
}

// DeliverPPE 标记为已发放，deliveryDate 为调用时刻；已发放的申领不可回退
func (s *Store) DeliverPPE(ctx context.Context, id string) (domain.PPERequest, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	p, ok := s.PPERequest(id)
	if !ok {
		return domain.PPERequest{}, ErrNotFound
	}
	if p.Status != domain.PPEPending {
		return domain.PPERequest{}, ErrInvalidTransition
	}

	at := s.now()
	updated, err := s.repo.PPERequest.MarkDelivered(ctx, id, at)
	if err != nil {
		return domain.PPERequest{}, s.writeFailed("DeliverPPE", EntityPPERequest, err)
	}
	if !updated {
		// 其他实例已发放，以后端为准
		return domain.PPERequest{}, ErrInvalidTransition
	}

	p.Status = domain.PPEDelivered
	p.DeliveryDate = &at

	s.mu.Lock()
	for i := range s.data.ppeRequests {
		if s.data.ppeRequests[i].ID == id {
			s.data.ppeRequests[i] = p
		}
	}
	s.mu.Unlock()

	s.notify(EntityPPERequest, ActionUpdated, id, p.UserID)
	return clonePPERequest(p), nil
}

// DeletePPERequest 本人可删除未发放的申领，管理员可删除任意申领
func (s *Store) DeletePPERequest(ctx context.Context, actorID, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	p, ok := s.PPERequest(id)
	if !ok {
		return ErrNotFound
	}
	actor, _ := s.User(actorID)
	if actor.Role != domain.RoleAdmin {
		if p.UserID != actorID {
			return ErrForbidden
		}
		if p.Status != domain.PPEPending {
			return ErrInvalidTransition
		}
	}
	if err := s.repo.PPERequest.Delete(ctx, id); err != nil {
		return s.writeFailed("DeletePPERequest", EntityPPERequest, err)
	}

	s.mu.Lock()
	s.data.ppeRequests = removeWhere(s.data.ppeRequests, func(x domain.PPERequest) bool { return x.ID == id })
	s.mu.Unlock()

	s.notify(EntityPPERequest, ActionDeleted, id, p.UserID)
	return nil
}

// clonePPERequest 复制 DeliveryDate，避免调用方修改缓存
func clonePPERequest(p domain.PPERequest) domain.PPERequest {
	if p.DeliveryDate != nil {
		d := *p.DeliveryDate
		p.DeliveryDate = &d
	}
	return p
}

func containsString(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
