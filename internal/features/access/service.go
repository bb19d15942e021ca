package access

import (
	"context"

	"omnisuite/internal/config"
	"omnisuite/internal/features/page"

	"go.uber.org/zap"
)

// PermissionsContext is the raw material the client compiles its own table
// from; the server compiles the same table for route guarding.
type PermissionsContext struct {
	Pages       []page.Page            `json:"pages"`
	Permissions []page.PermissionGrant `json:"permissions"`
}

type AccessService interface {
	PermissionsContext(ctx context.Context, userNo int64) (*PermissionsContext, error)
	TableForUser(ctx context.Context, userNo int64) AccessTable
}

type AccessServiceImpl struct {
	PageRepo  page.PageRepository
	GrantRepo page.GrantRepository
	Config    *config.Config
	Logger    *zap.Logger
}

func NewAccessService(pageRepo page.PageRepository, grantRepo page.GrantRepository, cfg *config.Config, logger *zap.Logger) AccessService {
	return &AccessServiceImpl{
		PageRepo:  pageRepo,
		GrantRepo: grantRepo,
		Config:    cfg,
		Logger:    logger,
	}
}

func (s *AccessServiceImpl) PermissionsContext(ctx context.Context, userNo int64) (*PermissionsContext, error) {
	pages, err := s.PageRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	grants, err := s.GrantRepo.ListByUser(ctx, userNo)
	if err != nil {
		return nil, err
	}
	return &PermissionsContext{Pages: pages, Permissions: grants}, nil
}

// TableForUser compiles the user's access table. A load failure yields the
// empty table instead of an error: absent data falls back to the configured
// open/closed default rather than locking the user out on a transient fault.
func (s *AccessServiceImpl) TableForUser(ctx context.Context, userNo int64) AccessTable {
	pctx, err := s.PermissionsContext(ctx, userNo)
	if err != nil {
		s.Logger.Warn("permission context load failed, using empty access table",
			zap.Int64("userNo", userNo), zap.Error(err))
		return Compile(userNo, nil, nil, s.Config.AccessFailClosed)
	}
	return Compile(userNo, pctx.Pages, pctx.Permissions, s.Config.AccessFailClosed)
}
