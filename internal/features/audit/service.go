package audit

import (
	"context"
	"time"

	common_models "omnisuite/internal/common/models"
	"omnisuite/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserFinder resolves user numbers to display names without importing the
// user feature directly (breaks the dependency cycle in fx wiring)
type UserFinder interface {
	UsernamesByNos(ctx context.Context, nos []int64) (map[int64]string, error)
}

type AuditService interface {
	LogChange(ctx context.Context, action common_models.AuditAction, entity string, recordID string, changes map[string]common_models.Change) error
	ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error)
}

type AuditServiceImpl struct {
	Repo     AuditRepository
	UserRepo UserFinder
}

func NewAuditService(repo AuditRepository, userRepo UserFinder) AuditService {
	return &AuditServiceImpl{
		Repo:     repo,
		UserRepo: userRepo,
	}
}

func (s *AuditServiceImpl) LogChange(ctx context.Context, action common_models.AuditAction, entity string, recordID string, changes map[string]common_models.Change) error {
	var actorNo int64
	if claims, ok := ctx.Value(utils.UserClaimsKey).(*utils.UserClaims); ok {
		actorNo = claims.UserNo
	}

	log := common_models.AuditLog{
		ID:        primitive.NewObjectID(),
		Action:    action,
		Entity:    entity,
		RecordID:  recordID,
		ActorNo:   actorNo,
		Changes:   changes,
		Timestamp: time.Now(),
	}

	return s.Repo.Create(ctx, log)
}

func (s *AuditServiceImpl) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit
	logs, err := s.Repo.List(ctx, filters, limit, offset)
	if err != nil {
		return nil, err
	}

	var actorNos []int64
	uniqueNos := make(map[int64]bool)
	for _, log := range logs {
		if log.ActorNo > 0 && !uniqueNos[log.ActorNo] {
			uniqueNos[log.ActorNo] = true
			actorNos = append(actorNos, log.ActorNo)
		}
	}

	nameByNo := make(map[int64]string)
	if len(actorNos) > 0 {
		if names, err := s.UserRepo.UsernamesByNos(ctx, actorNos); err == nil {
			nameByNo = names
		}
	}

	for i, log := range logs {
		if log.ActorNo <= 0 {
			logs[i].ActorName = "System"
		} else if name, ok := nameByNo[log.ActorNo]; ok {
			logs[i].ActorName = name
		} else {
			logs[i].ActorName = "Unknown User"
		}
	}

	return logs, nil
}
