package main

//// Small CLI tool used to fill the configured store with fake blog posts.

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/blogposts/internal/config"
	"github.com/2beens/blogposts/internal/db"
	"github.com/2beens/blogposts/internal/posts"
)

type postCreator interface {
	Create(ctx context.Context, post *posts.BlogPost) error
}

func main() {
	env := flag.String("env", "development", "environment [dev | development | test]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	count := flag.Int("n", 10, "number of posts to create")
	seed := flag.Int64("seed", 0, "faker seed, 0 for random")
	flag.Parse()

	if *count <= 0 {
		fmt.Println("Error: -n must be positive")
		os.Exit(1)
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	repo, closeStore, err := getRepo(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to get repo: %s", err)
	}
	defer closeStore()

	created := 0
	for _, post := range posts.FakePosts(gofakeit.New(*seed), *count) {
		if err := repo.Create(ctx, post); err != nil {
			log.Errorf("--- failed to insert post [%s]: %s", post.Title, err)
			continue
		}
		created++
		log.Debugf("+++ inserted post %s: %s", post.ID, post.Title)
	}

	log.Infof("seeded %d/%d posts into %s store", created, *count, cfg.StoreBackend)
	if created != *count {
		os.Exit(1)
	}
}

func getRepo(ctx context.Context, cfg *config.Config) (postCreator, func(), error) {
	if cfg.StoreBackend == config.StorePostgres {
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{ConnString: cfg.DatabaseURL})
		if err != nil {
			return nil, nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := db.EnsurePostgresSchema(ctx, dbPool); err != nil {
			dbPool.Close()
			return nil, nil, err
		}
		return posts.NewPostgresRepo(dbPool), dbPool.Close, nil
	}

	mongoClient, mongoDB, err := db.NewMongoClient(ctx, db.NewMongoClientParams{
		URI:          cfg.DatabaseURL,
		DatabaseName: cfg.DatabaseName,
		Timeout:      time.Duration(cfg.StoreTimeoutSec) * time.Second,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("new mongo client: %w", err)
	}
	return posts.NewRepo(mongoDB), func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Errorf("disconnect mongo: %s", err)
		}
	}, nil
}
