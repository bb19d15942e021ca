package workflow

import (
	"context"
	"time"

	"omnisuite/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type WorkflowRepository interface {
	Create(ctx context.Context, workflow Workflow) error
	GetByID(ctx context.Context, id string) (*Workflow, error)
	List(ctx context.Context) ([]Workflow, error)
	ListActive(ctx context.Context) ([]Workflow, error)
	Update(ctx context.Context, id string, workflow Workflow) error
	Delete(ctx context.Context, id string) error
}

type WorkflowRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewWorkflowRepository(mongodb *database.MongodbDB) WorkflowRepository {
	return &WorkflowRepositoryImpl{
		Collection: mongodb.DB.Collection("workflows"),
	}
}

func (r *WorkflowRepositoryImpl) Create(ctx context.Context, workflow Workflow) error {
	_, err := r.Collection.InsertOne(ctx, workflow)
	return err
}

// GetByID returns the full workflow including steps and their approvers
func (r *WorkflowRepositoryImpl) GetByID(ctx context.Context, id string) (*Workflow, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var workflow Workflow
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&workflow)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &workflow, nil
}

// List returns workflows without their step detail, ordered for evaluation
// (priority first, then creation time)
func (r *WorkflowRepositoryImpl) List(ctx context.Context) ([]Workflow, error) {
	return r.list(ctx, bson.M{})
}

func (r *WorkflowRepositoryImpl) ListActive(ctx context.Context) ([]Workflow, error) {
	return r.list(ctx, bson.M{"is_active": true})
}

func (r *WorkflowRepositoryImpl) list(ctx context.Context, filter bson.M) ([]Workflow, error) {
	opts := options.Find().
		SetProjection(bson.M{"steps": 0}).
		SetSort(bson.D{{Key: "priority", Value: 1}, {Key: "created_at", Value: 1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var workflows []Workflow
	if err = cursor.All(ctx, &workflows); err != nil {
		return nil, err
	}
	return workflows, nil
}

func (r *WorkflowRepositoryImpl) Update(ctx context.Context, id string, workflow Workflow) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	update := bson.M{
		"$set": bson.M{
			"workflow_name":  workflow.WorkflowName,
			"workflow_code":  workflow.WorkflowCode,
			"document_type":  workflow.DocumentType,
			"document_route": workflow.DocumentRoute,
			"is_active":      workflow.IsActive,
			"priority":       workflow.Priority,
			"criteria_expr":  workflow.CriteriaExpr,
			"steps":          workflow.Steps,
			"updated_at":     time.Now(),
		},
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *WorkflowRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
