package page

import (
	"context"

	"omnisuite/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PageRepository interface {
	Create(ctx context.Context, page *Page) error
	GetByID(ctx context.Context, id string) (*Page, error)
	List(ctx context.Context) ([]Page, error)
	Update(ctx context.Context, id string, page *Page) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type GrantRepository interface {
	Upsert(ctx context.Context, grant *PermissionGrant) error
	ListByUser(ctx context.Context, userNo int64) ([]PermissionGrant, error)
	DeleteByPage(ctx context.Context, pageID primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

type PageRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewPageRepository(mongodb *database.MongodbDB) PageRepository {
	return &PageRepositoryImpl{
		Collection: mongodb.DB.Collection("pages"),
	}
}

func (r *PageRepositoryImpl) Create(ctx context.Context, page *Page) error {
	_, err := r.Collection.InsertOne(ctx, page)
	return err
}

func (r *PageRepositoryImpl) GetByID(ctx context.Context, id string) (*Page, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var page Page
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&page)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &page, nil
}

func (r *PageRepositoryImpl) List(ctx context.Context) ([]Page, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var pages []Page
	if err = cursor.All(ctx, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *PageRepositoryImpl) Update(ctx context.Context, id string, page *Page) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	update := bson.M{
		"$set": bson.M{
			"path":       page.Path,
			"module":     page.Module,
			"label":      page.Label,
			"sort_order": page.SortOrder,
			"updated_at": page.UpdatedAt,
		},
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *PageRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func (r *PageRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "path", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

type GrantRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewGrantRepository(mongodb *database.MongodbDB) GrantRepository {
	return &GrantRepositoryImpl{
		Collection: mongodb.DB.Collection("permission_grants"),
	}
}

func (r *GrantRepositoryImpl) Upsert(ctx context.Context, grant *PermissionGrant) error {
	filter := bson.M{"page_id": grant.PageID, "user_no": grant.UserNo}
	update := bson.M{
		"$set": bson.M{
			"can_view":   grant.CanView,
			"can_create": grant.CanCreate,
			"can_edit":   grant.CanEdit,
			"can_delete": grant.CanDelete,
			"updated_at": grant.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"page_id":    grant.PageID,
			"user_no":    grant.UserNo,
			"created_at": grant.CreatedAt,
		},
	}
	_, err := r.Collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *GrantRepositoryImpl) ListByUser(ctx context.Context, userNo int64) ([]PermissionGrant, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"user_no": userNo})
	if err != nil {
		return nil, err
	}
	var grants []PermissionGrant
	if err = cursor.All(ctx, &grants); err != nil {
		return nil, err
	}
	return grants, nil
}

func (r *GrantRepositoryImpl) DeleteByPage(ctx context.Context, pageID primitive.ObjectID) error {
	_, err := r.Collection.DeleteMany(ctx, bson.M{"page_id": pageID})
	return err
}

func (r *GrantRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "page_id", Value: 1}, {Key: "user_no", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
