package document

import (
	"context"
	"fmt"
	"time"

	"omnisuite/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *Document) error
	GetByID(ctx context.Context, id string) (*Document, error)
	List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]Document, error)
	Update(ctx context.Context, id string, fields bson.M) error
	Delete(ctx context.Context, id string) error
	ListStalePending(ctx context.Context, olderThan time.Time) ([]Document, error)
	NextDocNo(ctx context.Context, docType string) (string, error)
	EnsureIndexes(ctx context.Context) error
}

type DocumentRepositoryImpl struct {
	Collection *mongo.Collection
	Counters   *mongo.Collection
}

func NewDocumentRepository(mongodb *database.MongodbDB) DocumentRepository {
	return &DocumentRepositoryImpl{
		Collection: mongodb.DB.Collection("documents"),
		Counters:   mongodb.DB.Collection("counters"),
	}
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, doc *Document) error {
	_, err := r.Collection.InsertOne(ctx, doc)
	return err
}

func (r *DocumentRepositoryImpl) GetByID(ctx context.Context, id string) (*Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var doc Document
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepositoryImpl) List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]Document, error) {
	query := bson.M{}
	for k, v := range filter {
		if v == nil {
			continue
		}
		if str, ok := v.(string); ok && str == "" {
			continue
		}
		query[k] = v
	}

	opts := options.Find().SetLimit(limit).SetSkip(offset).SetSort(bson.M{"created_at": -1})
	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	var docs []Document
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *DocumentRepositoryImpl) Update(ctx context.Context, id string, fields bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	fields["updated_at"] = time.Now()
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	return err
}

func (r *DocumentRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func (r *DocumentRepositoryImpl) ListStalePending(ctx context.Context, olderThan time.Time) ([]Document, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{
		"status":     StatusPendingApproval,
		"updated_at": bson.M{"$lt": olderThan},
	})
	if err != nil {
		return nil, err
	}
	var docs []Document
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// NextDocNo atomically reserves the next document number for a type,
// e.g. "GRN-000042"
func (r *DocumentRepositoryImpl) NextDocNo(ctx context.Context, docType string) (string, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := r.Counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "doc_no_" + docType},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%06d", docType, counter.Seq), nil
}

func (r *DocumentRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "doc_no", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "doc_type", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "approval.target_approver_no", Value: 1}},
		},
	})
	return err
}
