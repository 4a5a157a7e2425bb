package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/VitaminP8/postwall/graph/model"
	"github.com/VitaminP8/postwall/internal/user"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt string             `bson:"createdAt"`
}

type UserMongoStorage struct {
	coll *mongo.Collection
}

func NewUserMongoStorage(coll *mongo.Collection) *UserMongoStorage {
	return &UserMongoStorage{coll: coll}
}

func (s *UserMongoStorage) RegisterUser(ctx context.Context, username, email, password string) (*model.User, error) {
	// проверка - существует ли такой пользователь
	err := s.coll.FindOne(ctx, bson.M{"username": username}).Err()
	if err == nil {
		return nil, fmt.Errorf("%w: %s", user.ErrUserExists, username)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	doc := userDocument{
		ID:        primitive.NewObjectID(),
		Username:  username,
		Email:     email,
		Password:  string(hashedPassword),
		CreatedAt: model.FormatTime(time.Now()),
	}

	_, err = s.coll.InsertOne(ctx, doc)
	// уникальный индекс ловит гонку двух одновременных регистраций
	if mongo.IsDuplicateKeyError(err) {
		return nil, fmt.Errorf("%w: %s", user.ErrUserExists, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return toModelUser(doc), nil
}

func (s *UserMongoStorage) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	var doc userDocument
	err := s.coll.FindOne(ctx, bson.M{"username": username}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: user %s not found", user.ErrInvalidCredentials, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(doc.Password), []byte(password))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", user.ErrInvalidCredentials, err)
	}

	return toModelUser(doc), nil
}

func toModelUser(doc userDocument) *model.User {
	return &model.User{
		ID:        doc.ID.Hex(),
		Username:  doc.Username,
		Email:     doc.Email,
		CreatedAt: doc.CreatedAt,
	}
}
