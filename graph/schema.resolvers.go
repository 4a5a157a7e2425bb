package graph

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/VitaminP8/postwall/graph/model"
	"github.com/VitaminP8/postwall/internal/apperr"
	"github.com/VitaminP8/postwall/internal/auth"
	"github.com/VitaminP8/postwall/internal/post"
	"github.com/VitaminP8/postwall/internal/subscription"
	"github.com/VitaminP8/postwall/internal/user"
)

const deleteSuccessMessage = "Post deleted successfully"

// Register is the resolver for the register field.
func (r *mutationResolver) Register(ctx context.Context, registerInput model.RegisterInput) (*model.User, error) {
	if err := validateRegisterInput(&registerInput); err != nil {
		return nil, err
	}

	u, err := r.UserStore.RegisterUser(ctx, registerInput.Username, registerInput.Email, registerInput.Password)
	if errors.Is(err, user.ErrUserExists) {
		return nil, apperr.NewInvalidInput("Username is taken", err)
	}
	if err != nil {
		return nil, apperr.NewStoreFailure(err)
	}

	return r.withToken(u)
}

// Login is the resolver for the login field.
func (r *mutationResolver) Login(ctx context.Context, username string, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperr.NewInvalidInput("Username must not be empty", nil)
	}
	if password == "" {
		return nil, apperr.NewInvalidInput("Password must not be empty", nil)
	}

	u, err := r.UserStore.Authenticate(ctx, username, password)
	if errors.Is(err, user.ErrInvalidCredentials) {
		return nil, apperr.NewInvalidInput("Wrong credentials", err)
	}
	if err != nil {
		return nil, apperr.NewStoreFailure(err)
	}

	return r.withToken(u)
}

// CreatePost is the resolver for the createPost field.
func (r *mutationResolver) CreatePost(ctx context.Context, body string) (*model.Post, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return nil, apperr.NewUnauthenticated(err)
	}

	if strings.TrimSpace(body) == "" {
		return nil, apperr.NewInvalidInput("Post body must not be empty", nil)
	}

	p, err := r.PostStore.CreatePost(ctx, &model.Post{
		Body:      body,
		UserID:    principal.ID,
		Username:  principal.Username,
		CreatedAt: model.FormatTime(r.now()),
		Likes:     []*model.Like{},
	})
	if err != nil {
		return nil, apperr.NewStoreFailure(err)
	}

	// ошибка публикации не влияет на результат мутации;
	// пост уже сохранен, поэтому отмена запроса не отменяет рассылку
	if r.SubscriptionManager != nil {
		if err := r.SubscriptionManager.Publish(context.WithoutCancel(ctx), subscription.TopicNewPost, p); err != nil {
			log.Printf("failed to publish post %s: %v", p.ID, err)
		}
	}

	return p, nil
}

// DeletePost is the resolver for the deletePost field.
func (r *mutationResolver) DeletePost(ctx context.Context, postID string) (string, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return "", apperr.NewUnauthenticated(err)
	}

	p, err := r.PostStore.GetPostById(ctx, postID)
	if errors.Is(err, post.ErrPostNotFound) {
		return "", apperr.NewNotFound("Post not found", err)
	}
	if err != nil {
		return "", apperr.NewStoreFailure(err)
	}

	// удалять может только автор: сравниваем по username, сохраненному в посте
	if p.Username != principal.Username {
		return "", apperr.NewForbidden("Action not allowed")
	}

	if err := r.PostStore.DeletePostById(ctx, postID); err != nil {
		if errors.Is(err, post.ErrPostNotFound) {
			return "", apperr.NewNotFound("Post not found", err)
		}
		return "", apperr.NewStoreFailure(err)
	}

	return deleteSuccessMessage, nil
}

// LikePost is the resolver for the likePost field.
func (r *mutationResolver) LikePost(ctx context.Context, postID string) (*model.Post, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return nil, apperr.NewUnauthenticated(err)
	}

	p, err := r.PostStore.GetPostById(ctx, postID)
	if errors.Is(err, post.ErrPostNotFound) {
		return nil, apperr.NewInvalidInput("Post not found", err)
	}
	if err != nil {
		return nil, apperr.NewStoreFailure(err)
	}

	// TODO: чтение и запись не атомарны, одновременные лайки одного поста могут потеряться;
	// нужен SavePost с проверкой версии документа.
	post.ToggleLike(p, principal.Username, model.FormatTime(r.now()))

	saved, err := r.PostStore.SavePost(ctx, p)
	if err != nil {
		return nil, apperr.NewStoreFailure(err)
	}

	return saved, nil
}

// GetPosts is the resolver for the getPosts field.
func (r *queryResolver) GetPosts(ctx context.Context) ([]*model.Post, error) {
	posts, err := r.PostStore.GetAllPosts(ctx)
	if err != nil {
		return nil, apperr.NewStoreFailure(err)
	}
	return posts, nil
}

// GetPost is the resolver for the getPost field.
func (r *queryResolver) GetPost(ctx context.Context, postID string) (*model.Post, error) {
	p, err := r.PostStore.GetPostById(ctx, postID)
	if err != nil {
		// клиент не различает "нет поста" и сбой хранилища
		return nil, apperr.NewNotFound("Post not found", err)
	}
	return p, nil
}

// NewPost is the resolver for the newPost field.
func (r *subscriptionResolver) NewPost(ctx context.Context) (<-chan *model.Post, error) {
	if r.SubscriptionManager == nil {
		return nil, apperr.NewStoreFailure(errors.New("subscriptions are not configured"))
	}

	// подписка снимается вместе с контекстом соединения
	ch, _, err := r.SubscriptionManager.Subscribe(ctx, subscription.TopicNewPost)
	if err != nil {
		return nil, apperr.NewStoreFailure(err)
	}

	return ch, nil
}

func (r *Resolver) withToken(u *model.User) (*model.User, error) {
	if r.Tokens == nil {
		return nil, apperr.NewStoreFailure(errors.New("JWT secret not set"))
	}

	token, err := r.Tokens.Issue(auth.Principal{ID: u.ID, Username: u.Username})
	if err != nil {
		return nil, apperr.NewStoreFailure(err)
	}

	u.Token = token
	return u, nil
}

// Mutation returns MutationResolver implementation.
func (r *Resolver) Mutation() MutationResolver { return &mutationResolver{r} }

// Query returns QueryResolver implementation.
func (r *Resolver) Query() QueryResolver { return &queryResolver{r} }

// Subscription returns SubscriptionResolver implementation.
func (r *Resolver) Subscription() SubscriptionResolver { return &subscriptionResolver{r} }

type mutationResolver struct{ *Resolver }
type queryResolver struct{ *Resolver }
type subscriptionResolver struct{ *Resolver }
