package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/VitaminP8/postwall/graph/model"
	"github.com/VitaminP8/postwall/internal/post"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type postDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Body      string             `bson:"body"`
	User      string             `bson:"user"`
	Username  string             `bson:"username"`
	CreatedAt string             `bson:"createdAt"`
	Likes     []likeDocument     `bson:"likes"`
}

type likeDocument struct {
	Username  string `bson:"username"`
	CreatedAt string `bson:"createdAt"`
}

type PostMongoStorage struct {
	coll *mongo.Collection
}

func NewPostMongoStorage(coll *mongo.Collection) *PostMongoStorage {
	return &PostMongoStorage{coll: coll}
}

func (s *PostMongoStorage) CreatePost(ctx context.Context, p *model.Post) (*model.Post, error) {
	if p == nil {
		return nil, errors.New("could not create post: nil post")
	}

	doc := toPostDocument(p)
	doc.ID = primitive.NewObjectID()

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("could not create post: %w", err)
	}

	created := p.Clone()
	created.ID = doc.ID.Hex()
	return created, nil
}

func (s *PostMongoStorage) GetPostById(ctx context.Context, id string) (*model.Post, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var doc postDocument
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", post.ErrPostNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get post by id: %w", err)
	}

	return toModelPost(doc), nil
}

func (s *PostMongoStorage) GetAllPosts(ctx context.Context) ([]*model.Post, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: -1},
		{Key: "_id", Value: -1},
	})

	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("could not get posts: %w", err)
	}

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("could not decode posts: %w", err)
	}

	results := make([]*model.Post, 0, len(docs))
	for _, doc := range docs {
		results = append(results, toModelPost(doc))
	}
	return results, nil
}

// SavePost заменяет документ целиком; если документа нет - создает его.
func (s *PostMongoStorage) SavePost(ctx context.Context, p *model.Post) (*model.Post, error) {
	if p == nil {
		return nil, errors.New("could not save post: nil post")
	}
	oid, err := parseObjectID(p.ID)
	if err != nil {
		return nil, err
	}

	doc := toPostDocument(p)
	doc.ID = oid

	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return nil, fmt.Errorf("could not save post: %w", err)
	}

	return p.Clone(), nil
}

func (s *PostMongoStorage) DeletePostById(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("could not delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", post.ErrPostNotFound, id)
	}

	return nil
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", post.ErrPostNotFound, id)
	}
	return oid, nil
}

func toPostDocument(p *model.Post) postDocument {
	likes := make([]likeDocument, 0, len(p.Likes))
	for _, like := range p.Likes {
		likes = append(likes, likeDocument{
			Username:  like.Username,
			CreatedAt: like.CreatedAt,
		})
	}

	return postDocument{
		Body:      p.Body,
		User:      p.UserID,
		Username:  p.Username,
		CreatedAt: p.CreatedAt,
		Likes:     likes,
	}
}

func toModelPost(doc postDocument) *model.Post {
	likes := make([]*model.Like, 0, len(doc.Likes))
	for _, like := range doc.Likes {
		likes = append(likes, &model.Like{
			Username:  like.Username,
			CreatedAt: like.CreatedAt,
		})
	}

	return &model.Post{
		ID:        doc.ID.Hex(),
		Body:      doc.Body,
		UserID:    doc.User,
		Username:  doc.Username,
		CreatedAt: doc.CreatedAt,
		Likes:     likes,
	}
}
