package reminder

import (
	"context"
	"fmt"
	"time"

	"omnisuite/internal/config"
	"omnisuite/internal/features/document"
	"omnisuite/internal/features/notification"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReminderService periodically re-notifies approvers about documents that
// have sat in PENDING_APPROVAL past the configured age.
type ReminderService interface {
	Start() error
	Stop() error
	ScanOnce(ctx context.Context) (int, error)
}

type ReminderServiceImpl struct {
	DocRepo  document.DocumentRepository
	Notifier notification.NotificationService
	Config   *config.Config
	Logger   *zap.Logger

	scheduler *cron.Cron
}

func NewReminderService(docRepo document.DocumentRepository, notifier notification.NotificationService, cfg *config.Config, logger *zap.Logger) ReminderService {
	return &ReminderServiceImpl{
		DocRepo:  docRepo,
		Notifier: notifier,
		Config:   cfg,
		Logger:   logger,
	}
}

func (s *ReminderServiceImpl) Start() error {
	s.scheduler = cron.New()
	_, err := s.scheduler.AddFunc(s.Config.ReminderCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if n, err := s.ScanOnce(ctx); err != nil {
			s.Logger.Error("reminder scan failed", zap.Error(err))
		} else if n > 0 {
			s.Logger.Info("sent approval reminders", zap.Int("count", n))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", s.Config.ReminderCron, err)
	}
	s.scheduler.Start()
	return nil
}

func (s *ReminderServiceImpl) Stop() error {
	if s.scheduler != nil {
		ctx := s.scheduler.Stop()
		<-ctx.Done()
	}
	return nil
}

// ScanOnce finds stale pending documents and notifies their target
// approvers. Documents with no target approver are skipped.
func (s *ReminderServiceImpl) ScanOnce(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-time.Duration(s.Config.ReminderAfterH) * time.Hour)
	docs, err := s.DocRepo.ListStalePending(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, doc := range docs {
		if doc.Approval == nil || doc.Approval.TargetApproverNo == 0 {
			continue
		}
		err := s.Notifier.Notify(ctx, doc.Approval.TargetApproverNo,
			"Approval reminder",
			fmt.Sprintf("%s %s has been waiting for your approval since %s",
				doc.DocType, doc.DocNo, doc.UpdatedAt.Format("2006-01-02")),
			string(notification.NotificationTypeTask), doc.Route)
		if err != nil {
			s.Logger.Warn("reminder notification failed",
				zap.String("docNo", doc.DocNo), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}
