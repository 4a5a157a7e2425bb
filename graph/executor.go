package graph

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/99designs/gqlgen/graphql"
	"github.com/VitaminP8/postwall/graph/model"
	"github.com/VitaminP8/postwall/internal/apperr"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

//go:embed schema.graphqls
var sourceSchema string

var parsedSchema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphqls", Input: sourceSchema})

var (
	errNullValue             = errors.New("the requested element is null which the schema does not allow")
	errIntrospectionDisabled = errors.New("introspection disabled")
)

var _ graphql.ExecutableSchema = (*executableSchema)(nil)

// Config - параметры NewExecutableSchema.
type Config struct {
	Resolvers ResolverRoot
}

type ResolverRoot interface {
	Mutation() MutationResolver
	Query() QueryResolver
	Subscription() SubscriptionResolver
}

type MutationResolver interface {
	Register(ctx context.Context, registerInput model.RegisterInput) (*model.User, error)
	Login(ctx context.Context, username string, password string) (*model.User, error)
	CreatePost(ctx context.Context, body string) (*model.Post, error)
	DeletePost(ctx context.Context, postID string) (string, error)
	LikePost(ctx context.Context, postID string) (*model.Post, error)
}

type QueryResolver interface {
	GetPosts(ctx context.Context) ([]*model.Post, error)
	GetPost(ctx context.Context, postID string) (*model.Post, error)
}

type SubscriptionResolver interface {
	NewPost(ctx context.Context) (<-chan *model.Post, error)
}

// NewExecutableSchema связывает schema.graphqls с резолверами.
// Интроспекция отвечает только если на сервере включен extension.Introspection.
func NewExecutableSchema(cfg Config) graphql.ExecutableSchema {
	return &executableSchema{resolvers: cfg.Resolvers}
}

type executableSchema struct {
	resolvers ResolverRoot
}

func (e *executableSchema) Schema() *ast.Schema {
	return parsedSchema
}

func (e *executableSchema) Complexity(typeName, field string, childComplexity int, rawArgs map[string]any) (int, bool) {
	return 0, false
}

func (e *executableSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	opCtx := graphql.GetOperationContext(ctx)
	ec := &executionContext{OperationContext: opCtx, resolvers: e.resolvers}

	switch opCtx.Operation.Operation {
	case ast.Query:
		return ec.oneShot("Query", ec.queryField)
	case ast.Mutation:
		return ec.oneShot("Mutation", ec.mutationField)
	case ast.Subscription:
		return ec.subscribe(ctx)
	default:
		return graphql.OneShot(graphql.ErrorResponse(ctx, "unsupported GraphQL operation"))
	}
}

type executionContext struct {
	*graphql.OperationContext
	resolvers ResolverRoot
}

type rootFieldFunc func(ctx context.Context, field graphql.CollectedField, args map[string]any) (graphql.Marshaler, error)

func (ec *executionContext) oneShot(typeName string, resolve rootFieldFunc) graphql.ResponseHandler {
	first := true
	return func(ctx context.Context) *graphql.Response {
		if !first {
			return nil
		}
		first = false

		data := ec.executeRoot(ctx, typeName, resolve)

		var buf bytes.Buffer
		data.MarshalGQL(&buf)
		return &graphql.Response{Data: buf.Bytes()}
	}
}

// executeRoot выполняет корневые поля по порядку документа.
// Ошибка в non-null поле обнуляет весь data, остальные поля все равно выполняются.
func (ec *executionContext) executeRoot(ctx context.Context, typeName string, resolve rootFieldFunc) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, ec.Operation.SelectionSet, []string{typeName})
	out := graphql.NewFieldSet(fields)
	invalid := false

	for i, field := range fields {
		if field.Name == "__typename" {
			out.Values[i] = graphql.MarshalString(typeName)
			continue
		}

		args := map[string]any{}
		if field.Definition != nil {
			args = field.ArgumentMap(ec.Variables)
		}

		fctx := graphql.WithFieldContext(ctx, &graphql.FieldContext{
			Object:     typeName,
			Field:      field,
			Args:       args,
			IsMethod:   true,
			IsResolver: true,
		})

		value, err := ec.resolveField(fctx, field, args, resolve)
		if err != nil {
			graphql.AddError(ctx, presentError(field, err))
			if field.Definition != nil && field.Definition.Type.NonNull {
				invalid = true
			}
			out.Values[i] = graphql.Null
			continue
		}
		out.Values[i] = value
	}

	if invalid {
		return graphql.Null
	}
	return out
}

func (ec *executionContext) resolveField(ctx context.Context, field graphql.CollectedField, args map[string]any, resolve rootFieldFunc) (ret graphql.Marshaler, err error) {
	defer func() {
		if r := recover(); r != nil {
			ret = nil
			err = ec.Recover(ctx, r)
		}
	}()
	return resolve(ctx, field, args)
}

func (ec *executionContext) queryField(ctx context.Context, field graphql.CollectedField, args map[string]any) (graphql.Marshaler, error) {
	switch field.Name {
	case "getPosts":
		posts, err := ec.resolvers.Query().GetPosts(ctx)
		if err != nil {
			return nil, err
		}
		return ec.marshalPostList(ctx, field.Selections, posts), nil

	case "getPost":
		postID, err := argID(args, "postId")
		if err != nil {
			return nil, err
		}
		p, err := ec.resolvers.Query().GetPost(ctx, postID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return graphql.Null, nil
		}
		return ec.marshalPost(ctx, field.Selections, p), nil

	case "__schema":
		if ec.DisableIntrospection {
			return nil, errIntrospectionDisabled
		}
		return ec.introspectSchema(ctx, field), nil

	case "__type":
		if ec.DisableIntrospection {
			return nil, errIntrospectionDisabled
		}
		name, err := argString(args, "name")
		if err != nil {
			return nil, err
		}
		return ec.introspectType(ctx, field, name), nil

	default:
		return nil, fmt.Errorf("unknown field Query.%s", field.Name)
	}
}

func (ec *executionContext) mutationField(ctx context.Context, field graphql.CollectedField, args map[string]any) (graphql.Marshaler, error) {
	mutation := ec.resolvers.Mutation()

	switch field.Name {
	case "register":
		input, err := argRegisterInput(args, "registerInput")
		if err != nil {
			return nil, err
		}
		u, err := mutation.Register(ctx, input)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, errNullValue
		}
		return ec.marshalUser(ctx, field.Selections, u), nil

	case "login":
		username, err := argString(args, "username")
		if err != nil {
			return nil, err
		}
		password, err := argString(args, "password")
		if err != nil {
			return nil, err
		}
		u, err := mutation.Login(ctx, username, password)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, errNullValue
		}
		return ec.marshalUser(ctx, field.Selections, u), nil

	case "createPost":
		body, err := argString(args, "body")
		if err != nil {
			return nil, err
		}
		return ec.postResult(ctx, field, func() (*model.Post, error) {
			return mutation.CreatePost(ctx, body)
		})

	case "deletePost":
		postID, err := argID(args, "postId")
		if err != nil {
			return nil, err
		}
		msg, err := mutation.DeletePost(ctx, postID)
		if err != nil {
			return nil, err
		}
		return graphql.MarshalString(msg), nil

	case "likePost":
		postID, err := argID(args, "postId")
		if err != nil {
			return nil, err
		}
		return ec.postResult(ctx, field, func() (*model.Post, error) {
			return mutation.LikePost(ctx, postID)
		})

	default:
		return nil, fmt.Errorf("unknown field Mutation.%s", field.Name)
	}
}

// postResult - общий хвост для мутаций, возвращающих Post!.
func (ec *executionContext) postResult(ctx context.Context, field graphql.CollectedField, resolve func() (*model.Post, error)) (graphql.Marshaler, error) {
	p, err := resolve()
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errNullValue
	}
	return ec.marshalPost(ctx, field.Selections, p), nil
}

// subscribe подписывается сразу, а каждый вызов обработчика ждет следующий пост.
// Обработчик возвращает nil, когда канал закрыт или соединение завершено.
func (ec *executionContext) subscribe(ctx context.Context) graphql.ResponseHandler {
	fields := graphql.CollectFields(ec.OperationContext, ec.Operation.SelectionSet, []string{"Subscription"})
	if len(fields) != 1 {
		graphql.AddErrorf(ctx, "must subscribe to exactly one stream")
		return graphql.OneShot(&graphql.Response{})
	}

	field := fields[0]
	if field.Name != "newPost" {
		graphql.AddErrorf(ctx, "unknown field Subscription.%s", field.Name)
		return graphql.OneShot(&graphql.Response{})
	}

	fctx := graphql.WithFieldContext(ctx, &graphql.FieldContext{
		Object:     "Subscription",
		Field:      field,
		Args:       map[string]any{},
		IsMethod:   true,
		IsResolver: true,
	})

	ch, err := ec.resolvers.Subscription().NewPost(fctx)
	if err != nil {
		graphql.AddError(ctx, presentError(field, err))
		return graphql.OneShot(&graphql.Response{})
	}

	return func(ctx context.Context) *graphql.Response {
		for {
			select {
			case p, ok := <-ch:
				if !ok {
					return nil
				}
				if p == nil {
					continue
				}

				out := graphql.NewFieldSet(fields)
				out.Values[0] = ec.marshalPost(ctx, field.Selections, p)

				var buf bytes.Buffer
				out.MarshalGQL(&buf)
				return &graphql.Response{Data: buf.Bytes()}

			case <-ctx.Done():
				return nil
			}
		}
	}
}

func (ec *executionContext) marshalPostList(ctx context.Context, sel ast.SelectionSet, posts []*model.Post) graphql.Marshaler {
	if posts == nil {
		return graphql.Null
	}

	out := make(graphql.Array, 0, len(posts))
	for _, p := range posts {
		if p == nil {
			out = append(out, graphql.Null)
			continue
		}
		out = append(out, ec.marshalPost(ctx, sel, p))
	}
	return out
}

func (ec *executionContext) marshalPost(ctx context.Context, sel ast.SelectionSet, p *model.Post) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, []string{"Post"})
	out := graphql.NewFieldSet(fields)

	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("Post")
		case "id":
			out.Values[i] = graphql.MarshalID(p.ID)
		case "body":
			out.Values[i] = graphql.MarshalString(p.Body)
		case "userId":
			out.Values[i] = graphql.MarshalID(p.UserID)
		case "username":
			out.Values[i] = graphql.MarshalString(p.Username)
		case "createdAt":
			out.Values[i] = graphql.MarshalString(p.CreatedAt)
		case "likes":
			likes := make(graphql.Array, 0, len(p.Likes))
			for _, like := range p.Likes {
				if like != nil {
					likes = append(likes, ec.marshalLike(ctx, field.Selections, like))
				}
			}
			out.Values[i] = likes
		case "likeCount":
			out.Values[i] = graphql.MarshalInt(p.LikeCount())
		default:
			out.Values[i] = graphql.Null
		}
	}
	return out
}

func (ec *executionContext) marshalLike(ctx context.Context, sel ast.SelectionSet, like *model.Like) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, []string{"Like"})
	out := graphql.NewFieldSet(fields)

	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("Like")
		case "username":
			out.Values[i] = graphql.MarshalString(like.Username)
		case "createdAt":
			out.Values[i] = graphql.MarshalString(like.CreatedAt)
		default:
			out.Values[i] = graphql.Null
		}
	}
	return out
}

func (ec *executionContext) marshalUser(ctx context.Context, sel ast.SelectionSet, u *model.User) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, []string{"User"})
	out := graphql.NewFieldSet(fields)

	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("User")
		case "id":
			out.Values[i] = graphql.MarshalID(u.ID)
		case "username":
			out.Values[i] = graphql.MarshalString(u.Username)
		case "email":
			out.Values[i] = graphql.MarshalString(u.Email)
		case "createdAt":
			out.Values[i] = graphql.MarshalString(u.CreatedAt)
		case "token":
			out.Values[i] = graphql.MarshalString(u.Token)
		default:
			out.Values[i] = graphql.Null
		}
	}
	return out
}

func argString(args map[string]any, name string) (string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return "", apperr.NewInvalidInput(fmt.Sprintf("argument %s is required", name), nil)
	}
	s, err := graphql.UnmarshalString(v)
	if err != nil {
		return "", apperr.NewInvalidInput(fmt.Sprintf("argument %s: %v", name, err), err)
	}
	return s, nil
}

func argID(args map[string]any, name string) (string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return "", apperr.NewInvalidInput(fmt.Sprintf("argument %s is required", name), nil)
	}
	id, err := graphql.UnmarshalID(v)
	if err != nil {
		return "", apperr.NewInvalidInput(fmt.Sprintf("argument %s: %v", name, err), err)
	}
	return id, nil
}

func argRegisterInput(args map[string]any, name string) (model.RegisterInput, error) {
	raw, ok := args[name].(map[string]any)
	if !ok {
		return model.RegisterInput{}, apperr.NewInvalidInput(fmt.Sprintf("argument %s is required", name), nil)
	}

	var in model.RegisterInput
	var err error
	if in.Username, err = argString(raw, "username"); err != nil {
		return in, err
	}
	if in.Email, err = argString(raw, "email"); err != nil {
		return in, err
	}
	if in.Password, err = argString(raw, "password"); err != nil {
		return in, err
	}
	if in.ConfirmPassword, err = argString(raw, "confirmPassword"); err != nil {
		return in, err
	}
	return in, nil
}
