package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"github.com/99designs/gqlgen/graphql/handler/lru"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/redis/go-redis/v9"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/VitaminP8/postwall/graph"
	"github.com/VitaminP8/postwall/internal/auth"
	"github.com/VitaminP8/postwall/internal/config"
	"github.com/VitaminP8/postwall/internal/post"
	"github.com/VitaminP8/postwall/internal/storage/memory"
	"github.com/VitaminP8/postwall/internal/storage/mongodb"
	"github.com/VitaminP8/postwall/internal/storage/postgres"
	"github.com/VitaminP8/postwall/internal/subscription"
	"github.com/VitaminP8/postwall/internal/user"
)

func main() {
	// загружаем .env из нашего config.go
	config.LoadEnv()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	storageType := flag.String("storage", cfg.Storage, "Тип хранилища: memory, postgres или mongo")
	busType := flag.String("bus", cfg.Bus, "Шина событий: memory или redis")
	flag.Parse()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	// функции закрытия соединений, выполняются после остановки HTTP сервера
	var closers []func(ctx context.Context) error

	var postStore post.PostStorage
	var userStore user.UserStorage

	switch *storageType {
	case "postgres":
		db, err := postgres.Open(cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		if err := postgres.Migrate(db); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
		closers = append(closers, func(context.Context) error { return postgres.Close(db) })

		log.Println("Используется PostgreSQL хранилище")
		postStore = postgres.NewPostPostgresStorage(db)
		userStore = postgres.NewUserPostgresStorage(db)

	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := mongodb.Connect(ctx, cfg.MongoURI)
		if err != nil {
			cancel()
			log.Fatalf("failed to connect to mongo: %v", err)
		}
		db := client.Database(cfg.MongoDB)
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			cancel()
			log.Fatalf("failed to create indexes: %v", err)
		}
		cancel()
		closers = append(closers, func(ctx context.Context) error { return mongodb.Disconnect(ctx, client) })

		log.Println("Используется MongoDB хранилище")
		postStore = mongodb.NewPostMongoStorage(db.Collection(mongodb.PostsCollection))
		userStore = mongodb.NewUserMongoStorage(db.Collection(mongodb.UsersCollection))

	case "memory":
		log.Println("Используется in-memory хранилище")
		postStore = memory.NewPostMemoryStorage()
		userStore = memory.NewUserMemoryStorage()

	default:
		log.Fatalf("неизвестный тип хранилища: %s", *storageType)
	}

	var bus subscription.Manager

	switch *busType {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(ctx).Err()
		cancel()
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		closers = append(closers, func(context.Context) error { return client.Close() })

		log.Println("Используется Redis Pub/Sub для подписок")
		bus = subscription.NewRedisManager(client)

	case "memory":
		log.Println("Используется in-memory шина подписок")
		bus = subscription.NewSubscriptionManager()

	default:
		log.Fatalf("неизвестный тип шины: %s", *busType)
	}

	// Инициализация резолвера
	resolver := &graph.Resolver{
		PostStore:           postStore,
		UserStore:           userStore,
		SubscriptionManager: bus,
		Tokens:              tokens,
	}

	srv := newGraphQLServer(resolver)

	mux := http.NewServeMux()
	// AuthMiddleware достает JWT из заголовка и кладет пользователя в context
	mux.Handle("/query", auth.AuthMiddleware(tokens, srv))
	// Страница с тестовым интерфейсом Playground
	mux.Handle("/", playground.Handler("GraphQL Playground", "/query"))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// HTTP сервер
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// запуск HTTP сервер
	go func() {
		log.Printf("Сервер запущен на http://localhost:%s/", cfg.Port)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Ошибка сервера: %v", err)
		}
	}()

	// Ожидание SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // ждет сигнал

	log.Println("Завершение...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Ошибка при завершении сервера: %v", err)
	}

	for _, closeFn := range closers {
		if err := closeFn(ctx); err != nil {
			log.Printf("Ошибка при закрытии соединения: %v", err)
		}
	}

	log.Println("Сервер остановлен корректно")
}

// newGraphQLServer собирает обработчик GraphQL: HTTP, websocket для подписок, кэш запросов, интроспекция для playground и APQ.
func newGraphQLServer(resolver *graph.Resolver) *handler.Server {
	srv := handler.New(graph.NewExecutableSchema(graph.Config{Resolvers: resolver}))

	srv.AddTransport(transport.Websocket{
		KeepAlivePingInterval: 10 * time.Second,
	})
	srv.AddTransport(transport.Options{})
	srv.AddTransport(transport.GET{})
	srv.AddTransport(transport.POST{})

	srv.SetQueryCache(lru.New[*ast.QueryDocument](1000))
	srv.Use(extension.Introspection{})
	srv.Use(extension.AutomaticPersistedQuery{
		Cache: lru.New[string](100),
	})

	return srv
}
