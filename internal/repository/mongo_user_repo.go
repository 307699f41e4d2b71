package repository

import (
	"context"
	"time"

	"github.com/fathima-sithara/user-auth-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoUserRepo struct {
	col *mongo.Collection
}

// NewMongoUserRepo wraps the users collection. The partial unique index on
// email enforces at-most-one verified account per email at the store, while
// still allowing multiple unverified registration attempts.
func NewMongoUserRepo(db *mongo.Database, collection string) UserRepository {
	col := db.Collection(collection)
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"account_verified": true}),
		},
		{Keys: bson.D{{Key: "reset_password_token_hash", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	})
	return &mongoUserRepo{col: col}
}

func (r *mongoUserRepo) Create(ctx context.Context, u *models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = id
	}
	return nil
}

func (r *mongoUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var u models.User
	err = r.col.FindOne(ctx, bson.M{"_id": objID}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) FindVerifiedByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"email": email, "account_verified": true}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) FindUnverifiedByEmail(ctx context.Context, email string) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"email": email, "account_verified": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *mongoUserRepo) CountUnverifiedByEmail(ctx context.Context, email string) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"email": email, "account_verified": false})
}

func (r *mongoUserRepo) DeleteUnverifiedExcept(ctx context.Context, email string, keep primitive.ObjectID) error {
	_, err := r.col.DeleteMany(ctx, bson.M{
		"email":            email,
		"account_verified": false,
		"_id":              bson.M{"$ne": keep},
	})
	return err
}

func (r *mongoUserRepo) MarkVerified(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{
		"$set":   bson.M{"account_verified": true},
		"$unset": bson.M{"verification_code": "", "verification_code_expire": ""},
	})
	return err
}

func (r *mongoUserRepo) SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expire time.Time) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"reset_password_token_hash": tokenHash, "reset_password_expire": expire},
	})
	return err
}

func (r *mongoUserRepo) ClearResetToken(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{
		"$unset": bson.M{"reset_password_token_hash": "", "reset_password_expire": ""},
	})
	return err
}

func (r *mongoUserRepo) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{
		"$set":   bson.M{"password_hash": passwordHash},
		"$unset": bson.M{"reset_password_token_hash": "", "reset_password_expire": ""},
	})
	return err
}

func (r *mongoUserRepo) FindByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{
		"reset_password_token_hash": tokenHash,
		"reset_password_expire":     bson.M{"$gt": now},
	}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) DeleteStaleUnverified(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{
		"account_verified": false,
		"created_at":       bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
