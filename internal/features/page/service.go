package page

import (
	"context"
	"errors"
	"strings"
	"time"

	common_models "omnisuite/internal/common/models"
	"omnisuite/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PageService interface {
	CreatePage(ctx context.Context, page *Page) error
	GetPage(ctx context.Context, id string) (*Page, error)
	ListPages(ctx context.Context) ([]Page, error)
	UpdatePage(ctx context.Context, id string, page *Page) error
	DeletePage(ctx context.Context, id string) error

	UpsertGrant(ctx context.Context, grant *PermissionGrant) error
	ListGrantsForUser(ctx context.Context, userNo int64) ([]PermissionGrant, error)
}

type PageServiceImpl struct {
	PageRepo     PageRepository
	GrantRepo    GrantRepository
	AuditService audit.AuditService
}

func NewPageService(pageRepo PageRepository, grantRepo GrantRepository, auditService audit.AuditService) PageService {
	return &PageServiceImpl{
		PageRepo:     pageRepo,
		GrantRepo:    grantRepo,
		AuditService: auditService,
	}
}

func (s *PageServiceImpl) CreatePage(ctx context.Context, page *Page) error {
	page.Path = strings.TrimSpace(page.Path)
	if page.Path == "" {
		return errors.New("page path is required")
	}
	if !strings.HasPrefix(page.Path, "/") {
		page.Path = "/" + page.Path
	}

	if page.ID.IsZero() {
		page.ID = primitive.NewObjectID()
	}
	page.CreatedAt = time.Now()
	page.UpdatedAt = time.Now()

	if err := s.PageRepo.Create(ctx, page); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "page", page.ID.Hex(), map[string]common_models.Change{
		"path":   {New: page.Path},
		"module": {New: page.Module},
	})
	return nil
}

func (s *PageServiceImpl) GetPage(ctx context.Context, id string) (*Page, error) {
	return s.PageRepo.GetByID(ctx, id)
}

func (s *PageServiceImpl) ListPages(ctx context.Context) ([]Page, error) {
	return s.PageRepo.List(ctx)
}

func (s *PageServiceImpl) UpdatePage(ctx context.Context, id string, page *Page) error {
	page.Path = strings.TrimSpace(page.Path)
	if page.Path == "" {
		return errors.New("page path is required")
	}
	page.UpdatedAt = time.Now()

	if err := s.PageRepo.Update(ctx, id, page); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "page", id, map[string]common_models.Change{
		"path":   {New: page.Path},
		"module": {New: page.Module},
	})
	return nil
}

func (s *PageServiceImpl) DeletePage(ctx context.Context, id string) error {
	page, err := s.PageRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if page == nil {
		return errors.New("page not found")
	}

	if err := s.PageRepo.Delete(ctx, id); err != nil {
		return err
	}
	// Grants for a removed page are dead weight; drop them with it
	if err := s.GrantRepo.DeleteByPage(ctx, page.ID); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "page", id, map[string]common_models.Change{
		"path": {Old: page.Path},
	})
	return nil
}

func (s *PageServiceImpl) UpsertGrant(ctx context.Context, grant *PermissionGrant) error {
	page, err := s.PageRepo.GetByID(ctx, grant.PageID.Hex())
	if err != nil {
		return err
	}
	if page == nil {
		return errors.New("page not found")
	}
	if grant.UserNo <= 0 {
		return errors.New("valid user number is required")
	}

	now := time.Now()
	grant.CreatedAt = now
	grant.UpdatedAt = now

	if err := s.GrantRepo.Upsert(ctx, grant); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "permission_grant", page.ID.Hex(), map[string]common_models.Change{
		"user_no": {New: grant.UserNo},
		"flags": {New: map[string]int{
			"can_view":   grant.CanView,
			"can_create": grant.CanCreate,
			"can_edit":   grant.CanEdit,
			"can_delete": grant.CanDelete,
		}},
	})
	return nil
}

func (s *PageServiceImpl) ListGrantsForUser(ctx context.Context, userNo int64) ([]PermissionGrant, error) {
	return s.GrantRepo.ListByUser(ctx, userNo)
}
