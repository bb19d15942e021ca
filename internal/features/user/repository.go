package user

import (
	"context"

	"omnisuite/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByUserNo(ctx context.Context, userNo int64) (*User, error)
	List(ctx context.Context) ([]User, error)
	UsernamesByNos(ctx context.Context, nos []int64) (map[int64]string, error)
	UpdateLastLogin(ctx context.Context, userNo int64) error
	NextUserNo(ctx context.Context) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type UserRepositoryImpl struct {
	Collection *mongo.Collection
	Counters   *mongo.Collection
}

func NewUserRepository(mongodb *database.MongodbDB) UserRepository {
	return &UserRepositoryImpl{
		Collection: mongodb.DB.Collection("users"),
		Counters:   mongodb.DB.Collection("counters"),
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *User) error {
	_, err := r.Collection.InsertOne(ctx, user)
	return err
}

func (r *UserRepositoryImpl) FindByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := r.Collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByUserNo(ctx context.Context, userNo int64) (*User, error) {
	var user User
	err := r.Collection.FindOne(ctx, bson.M{"user_no": userNo}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) List(ctx context.Context) ([]User, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"user_no": 1}))
	if err != nil {
		return nil, err
	}
	var users []User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepositoryImpl) UsernamesByNos(ctx context.Context, nos []int64) (map[int64]string, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"user_no": bson.M{"$in": nos}})
	if err != nil {
		return nil, err
	}
	var users []User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(users))
	for _, u := range users {
		names[u.UserNo] = u.Username
	}
	return names, nil
}

func (r *UserRepositoryImpl) UpdateLastLogin(ctx context.Context, userNo int64) error {
	_, err := r.Collection.UpdateOne(ctx, bson.M{"user_no": userNo}, bson.M{
		"$currentDate": bson.M{"last_login": true},
	})
	return err
}

// NextUserNo atomically reserves the next numeric user id
func (r *UserRepositoryImpl) NextUserNo(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := r.Counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "user_no"},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

func (r *UserRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "user_no", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}
