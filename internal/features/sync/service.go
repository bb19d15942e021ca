package sync

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	common_models "omnisuite/internal/common/models"
	"omnisuite/internal/features/audit"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type SyncService interface {
	CreateSetting(ctx context.Context, setting *SyncSetting) error
	GetSetting(ctx context.Context, id string) (*SyncSetting, error)
	ListSettings(ctx context.Context) ([]SyncSetting, error)
	UpdateSetting(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteSetting(ctx context.Context, id string) error

	// RunSync pulls the legacy item master into the items collection
	RunSync(ctx context.Context, id string) (*SyncLog, error)
	ListLogs(ctx context.Context, settingID string, limit int64) ([]SyncLog, error)
	ListItems(ctx context.Context, search string, limit int64) ([]Item, error)
}

type SyncServiceImpl struct {
	SyncRepo     SyncSettingRepository
	LogRepo      SyncLogRepository
	ItemRepo     ItemRepository
	AuditService audit.AuditService
	Logger       *zap.Logger
}

func NewSyncService(syncRepo SyncSettingRepository, logRepo SyncLogRepository, itemRepo ItemRepository, auditService audit.AuditService, logger *zap.Logger) SyncService {
	return &SyncServiceImpl{
		SyncRepo:     syncRepo,
		LogRepo:      logRepo,
		ItemRepo:     itemRepo,
		AuditService: auditService,
		Logger:       logger,
	}
}

func (s *SyncServiceImpl) CreateSetting(ctx context.Context, setting *SyncSetting) error {
	if setting.Name == "" {
		return fmt.Errorf("sync setting name is required")
	}
	if setting.SourceTable == "" {
		return fmt.Errorf("source table is required")
	}

	err := s.SyncRepo.Create(ctx, setting)
	if err == nil {
		_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "sync_setting", setting.ID.Hex(), map[string]common_models.Change{
			"name": {New: setting.Name},
		})
	}
	return err
}

func (s *SyncServiceImpl) GetSetting(ctx context.Context, id string) (*SyncSetting, error) {
	return s.SyncRepo.Get(ctx, id)
}

func (s *SyncServiceImpl) ListSettings(ctx context.Context) ([]SyncSetting, error) {
	return s.SyncRepo.List(ctx)
}

func (s *SyncServiceImpl) UpdateSetting(ctx context.Context, id string, updates map[string]interface{}) error {
	old, _ := s.GetSetting(ctx, id)

	err := s.SyncRepo.Update(ctx, id, updates)
	if err == nil {
		_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "sync_setting", id, map[string]common_models.Change{
			"setting": {Old: old, New: updates},
		})
	}
	return err
}

func (s *SyncServiceImpl) DeleteSetting(ctx context.Context, id string) error {
	old, _ := s.GetSetting(ctx, id)

	err := s.SyncRepo.Delete(ctx, id)
	if err == nil {
		_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "sync_setting", id, map[string]common_models.Change{
			"setting": {Old: old},
		})
	}
	return err
}

func (s *SyncServiceImpl) ListLogs(ctx context.Context, settingID string, limit int64) ([]SyncLog, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.LogRepo.List(ctx, settingID, limit)
}

func (s *SyncServiceImpl) ListItems(ctx context.Context, search string, limit int64) ([]Item, error) {
	return s.ItemRepo.List(ctx, search, limit)
}

func (s *SyncServiceImpl) RunSync(ctx context.Context, id string) (*SyncLog, error) {
	setting, err := s.SyncRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, fmt.Errorf("sync setting not found")
	}
	if !setting.IsActive {
		return nil, fmt.Errorf("sync setting %s is inactive", setting.Name)
	}

	log := &SyncLog{
		SyncSettingID: setting.ID,
		StartTime:     time.Now(),
		Status:        "in_progress",
	}
	_ = s.LogRepo.Create(ctx, log)

	processed, syncErr := s.pullItems(ctx, setting)

	log.EndTime = time.Now()
	log.ProcessedCount = processed
	if syncErr != nil {
		log.Status = "failed"
		log.Error = syncErr.Error()
	} else {
		log.Status = "success"
		_ = s.SyncRepo.Update(ctx, id, map[string]interface{}{"last_sync_at": time.Now()})
	}
	_ = s.LogRepo.Update(ctx, log)

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionSync, "sync_setting", id, map[string]common_models.Change{
		"status":    {New: log.Status},
		"processed": {New: processed},
	})

	if syncErr != nil {
		return log, syncErr
	}
	return log, nil
}

func (s *SyncServiceImpl) pullItems(ctx context.Context, setting *SyncSetting) (int, error) {
	cfg := setting.SourceDBConfig
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg["host"], cfg["port"], cfg["user"], cfg["password"], cfg["database"])

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer db.Close()

	col := func(field, fallback string) string {
		if c, ok := setting.Mapping[field]; ok && c != "" {
			return c
		}
		return fallback
	}

	query := fmt.Sprintf("SELECT %s, %s, %s, %s, %s FROM %s",
		col("item_code", "item_code"),
		col("name", "name"),
		col("unit", "unit"),
		col("unit_price", "unit_price"),
		col("is_active", "is_active"),
		setting.SourceTable)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("item master query failed: %w", err)
	}
	defer rows.Close()

	processed := 0
	for rows.Next() {
		var (
			itemCode  string
			name      sql.NullString
			unit      sql.NullString
			unitPrice sql.NullString
			isActive  sql.NullBool
		)
		if err := rows.Scan(&itemCode, &name, &unit, &unitPrice, &isActive); err != nil {
			return processed, fmt.Errorf("row scan failed: %w", err)
		}

		price, _ := strconv.ParseFloat(unitPrice.String, 64)
		item := &Item{
			ItemCode:  itemCode,
			Name:      name.String,
			Unit:      unit.String,
			UnitPrice: price,
			IsActive:  !isActive.Valid || isActive.Bool,
		}
		if err := s.ItemRepo.Upsert(ctx, item); err != nil {
			return processed, err
		}
		processed++
	}
	if err := rows.Err(); err != nil {
		return processed, err
	}

	s.Logger.Info("item master sync finished",
		zap.String("setting", setting.Name), zap.Int("processed", processed))
	return processed, nil
}
