package main

import (
	"context"

	"omnisuite/internal/config"
	"omnisuite/internal/database"
	"omnisuite/internal/features/audit"
	"omnisuite/internal/features/page"
	"omnisuite/internal/features/user"
	"omnisuite/internal/features/workflow"
	"omnisuite/internal/logger"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var seedPages = []page.Page{
	{Path: "/inventory/grn", Module: "Inventory", Label: "Goods Received Notes", SortOrder: 1},
	{Path: "/inventory/grn/:id", Module: "Inventory", Label: "GRN Detail", SortOrder: 2},
	{Path: "/inventory/requisitions", Module: "Inventory", Label: "Material Requisitions", SortOrder: 3},
	{Path: "/inventory/adjustments", Module: "Inventory", Label: "Stock Adjustments", SortOrder: 4},
	{Path: "/documents", Module: "Documents", Label: "Documents", SortOrder: 5},
	{Path: "/admin/workflows", Module: "Administration", Label: "Approval Workflows", SortOrder: 6},
	{Path: "/admin/users", Module: "Administration", Label: "Users", SortOrder: 7},
	{Path: "/admin/sync", Module: "Administration", Label: "Item Master Sync", SortOrder: 8},
}

type seedUser struct {
	username string
	fullName string
	isAdmin  bool
}

var seedUsers = []seedUser{
	{username: "admin", fullName: "System Administrator", isAdmin: true},
	{username: "supervisor", fullName: "Store Supervisor"},
	{username: "finance", fullName: "Finance Approver"},
	{username: "requester", fullName: "Store Requester"},
}

// Seed loads a minimal working data set: pages, users, a permission grant
// restricting the requester, and two demo workflows (one route-scoped, one
// type-scoped).
func Seed(
	lc fx.Lifecycle,
	pageService page.PageService,
	userService user.UserService,
	workflowService workflow.WorkflowService,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				ctx := context.Background()
				logger.Info("Seeding database...")

				for i := range seedPages {
					if err := pageService.CreatePage(ctx, &seedPages[i]); err != nil {
						logger.Warn("page seed skipped", zap.String("path", seedPages[i].Path), zap.Error(err))
					}
				}

				userNos := map[string]int64{}
				for _, su := range seedUsers {
					u, err := userService.CreateUser(ctx, su.username, "changeme123",
						su.username+"@example.com", su.fullName, su.isAdmin)
					if err != nil {
						logger.Warn("user seed skipped", zap.String("username", su.username), zap.Error(err))
						if existing, lookupErr := userService.GetByUsername(ctx, su.username); lookupErr == nil && existing != nil {
							userNos[su.username] = existing.UserNo
						}
						continue
					}
					userNos[su.username] = u.UserNo
				}

				// The requester may raise documents but not touch admin screens
				if requester, ok := userNos["requester"]; ok {
					for i := range seedPages {
						p := seedPages[i]
						if p.Module != "Administration" {
							continue
						}
						if err := pageService.UpsertGrant(ctx, &page.PermissionGrant{
							PageID: p.ID,
							UserNo: requester,
						}); err != nil {
							logger.Warn("grant seed skipped", zap.String("path", p.Path), zap.Error(err))
						}
					}
				}

				supervisor := userNos["supervisor"]
				finance := userNos["finance"]

				grnWorkflow := workflow.Workflow{
					WorkflowName:  "GRN approvals",
					DocumentType:  "GRN",
					DocumentRoute: "/inventory/grn",
					IsActive:      true,
					Steps: []workflow.WorkflowStep{
						{StepOrder: 1, StepName: "Supervisor review", Approvers: []workflow.ApproverRef{
							{UserNo: supervisor, Name: "Store Supervisor"},
						}},
						{StepOrder: 2, StepName: "Finance sign-off", ApproverNo: finance, ApproverName: "Finance Approver"},
					},
				}
				if _, err := workflowService.CreateWorkflow(ctx, grnWorkflow); err != nil {
					logger.Warn("workflow seed skipped", zap.String("name", grnWorkflow.WorkflowName), zap.Error(err))
				}

				requisitionWorkflow := workflow.Workflow{
					WorkflowName: "High value requisitions",
					DocumentType: "MATERIAL_REQUISITION",
					CriteriaExpr: "doc.amount > 10000",
					IsActive:     true,
					Steps: []workflow.WorkflowStep{
						{StepOrder: 1, StepName: "Finance approval", ApproverNo: finance, ApproverName: "Finance Approver"},
					},
				}
				if _, err := workflowService.CreateWorkflow(ctx, requisitionWorkflow); err != nil {
					logger.Warn("workflow seed skipped", zap.String("name", requisitionWorkflow.WorkflowName), zap.Error(err))
				}

				logger.Info("Seeding complete")
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,

			page.NewPageRepository,
			page.NewGrantRepository,
			user.NewUserRepository,
			audit.NewAuditRepository,
			workflow.NewWorkflowRepository,

			audit.NewAuditService,
			page.NewPageService,
			user.NewUserService,
			workflow.NewWorkflowService,

			func(r user.UserRepository) audit.UserFinder { return r },
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
