package databases

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fortexlabs/early-warning-api/models"
)

const userName = "users"

// UserDatabase contains the methods to use with the user store
type UserDatabase interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int) (*models.User, error)
}

type userDatabase struct {
	db DatabaseHelper
}

// NewUserDatabase initializes a mongo-backed user store with the provided db
// connection
func NewUserDatabase(db DatabaseHelper) UserDatabase {
	return &userDatabase{
		db: db,
	}
}

func (u *userDatabase) Create(ctx context.Context, user models.User) (models.User, error) {
	maxID := 0
	var last models.User
	opts := options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}})
	err := u.db.Collection(userName).FindOne(ctx, bson.M{}, opts).Decode(&last)
	if err == nil {
		maxID = last.ID
	} else if !errors.Is(err, ErrNotFound) {
		return models.User{}, err
	}

	user.ID = maxID + 1
	if _, err := u.db.Collection(userName).InsertOne(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (u *userDatabase) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := u.db.Collection(userName).FindOne(ctx, bson.M{"email": email}).Decode(user)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userDatabase) FindByID(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}
	err := u.db.Collection(userName).FindOne(ctx, bson.M{"id": id}).Decode(user)
	if err != nil {
		return nil, err
	}
	return user, nil
}
