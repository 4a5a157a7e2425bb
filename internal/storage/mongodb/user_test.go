package mongodb

import (
	"context"
	"testing"

	"github.com/VitaminP8/postwall/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"golang.org/x/crypto/bcrypt"
)

func TestUserMongoStorage_RegisterUser(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Success", func(mt *mtest.T) {
		storage := NewUserMongoStorage(mt.Coll)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "db.users", mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)

		u, err := storage.RegisterUser(context.Background(), "alice", "alice@example.com", "secret")
		require.NoError(mt, err)

		_, err = primitive.ObjectIDFromHex(u.ID)
		assert.NoError(mt, err)
		assert.Equal(mt, "alice", u.Username)
		assert.Equal(mt, "alice@example.com", u.Email)
		assert.NotEmpty(mt, u.CreatedAt)
	})

	mt.Run("User already exists", func(mt *mtest.T) {
		storage := NewUserMongoStorage(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.users", mtest.FirstBatch, toBSON(mt.T, userDocument{
			ID:       primitive.NewObjectID(),
			Username: "alice",
		})))

		_, err := storage.RegisterUser(context.Background(), "alice", "alice@example.com", "secret")
		assert.ErrorIs(mt, err, user.ErrUserExists)
	})

	mt.Run("Duplicate key on insert", func(mt *mtest.T) {
		storage := NewUserMongoStorage(mt.Coll)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "db.users", mtest.FirstBatch),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: "duplicate key error",
			}),
		)

		_, err := storage.RegisterUser(context.Background(), "alice", "alice@example.com", "secret")
		assert.ErrorIs(mt, err, user.ErrUserExists)
	})
}

func TestUserMongoStorage_Authenticate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := userDocument{
		ID:        primitive.NewObjectID(),
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  string(hashed),
		CreatedAt: "2024-01-01T00:00:00.000Z",
	}

	mt.Run("Success", func(mt *mtest.T) {
		storage := NewUserMongoStorage(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.users", mtest.FirstBatch, toBSON(mt.T, stored)))

		u, err := storage.Authenticate(context.Background(), "alice", "secret")
		require.NoError(mt, err)
		assert.Equal(mt, stored.ID.Hex(), u.ID)
		assert.Equal(mt, "alice", u.Username)
	})

	mt.Run("Wrong password", func(mt *mtest.T) {
		storage := NewUserMongoStorage(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.users", mtest.FirstBatch, toBSON(mt.T, stored)))

		_, err := storage.Authenticate(context.Background(), "alice", "wrong")
		assert.ErrorIs(mt, err, user.ErrInvalidCredentials)
	})

	mt.Run("Unknown user", func(mt *mtest.T) {
		storage := NewUserMongoStorage(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.users", mtest.FirstBatch))

		_, err := storage.Authenticate(context.Background(), "ghost", "secret")
		assert.ErrorIs(mt, err, user.ErrInvalidCredentials)
	})
}
