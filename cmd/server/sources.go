package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/DukeRupert/pagedlist"
	"github.com/DukeRupert/pagedlist/internal"
	"github.com/DukeRupert/pagedlist/internal/domain"
	"github.com/DukeRupert/pagedlist/internal/handler"
	"github.com/DukeRupert/pagedlist/source/gormsource"
	"github.com/DukeRupert/pagedlist/source/mongosource"
	"github.com/DukeRupert/pagedlist/source/s3source"
	"github.com/DukeRupert/pagedlist/source/sqlsource"
)

// itemStore is an opened item source plus its health check and cleanup.
type itemStore struct {
	source pagedlist.Source[domain.Item]
	check  handler.Check
	close  func(ctx context.Context) error
}

// openItemStore connects to the store named by cfg.Source.
func openItemStore(ctx context.Context, cfg *internal.Config, logger *slog.Logger) (*itemStore, error) {
	switch cfg.Source {
	case internal.SourcePostgres:
		return openPostgres(ctx, cfg)
	case internal.SourceGorm:
		return openGorm(ctx, cfg)
	case internal.SourceMongo:
		return openMongo(ctx, cfg, logger)
	default:
		items := domain.GenerateItems(cfg.SeedItems)
		return &itemStore{
			source: pagedlist.SliceSource[domain.Item](items),
			close:  func(context.Context) error { return nil },
		}, nil
	}
}

// openSQL connects through the pgx stdlib driver and applies migrations.
func openSQL(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := internal.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}

func openPostgres(ctx context.Context, cfg *internal.Config) (*itemStore, error) {
	db, err := openSQL(ctx, cfg.DatabaseUrl)
	if err != nil {
		return nil, err
	}

	src, err := sqlsource.New[domain.Item](db, sqlsource.Query{
		Table:   "items",
		Columns: domain.ItemColumns,
		OrderBy: []sqlsource.Order{{Column: "position"}},
	}, scanItem)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &itemStore{
		source: src,
		check:  db.PingContext,
		close:  func(context.Context) error { return db.Close() },
	}, nil
}

// scanItem reads a row in domain.ItemColumns order.
func scanItem(row sqlsource.Scanner) (domain.Item, error) {
	var it domain.Item
	err := row.Scan(&it.ID, &it.Position, &it.Name, &it.Category, &it.PriceCents, &it.CreatedAt)
	return it, err
}

func openGorm(ctx context.Context, cfg *internal.Config) (*itemStore, error) {
	gdb, err := gorm.Open(postgres.Open(cfg.DatabaseUrl), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	db, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if err := internal.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &itemStore{
		source: gormsource.New[domain.Item](gdb, gormsource.WithOrder("position")),
		check:  db.PingContext,
		close:  func(context.Context) error { return db.Close() },
	}, nil
}

func openMongo(ctx context.Context, cfg *internal.Config, logger *slog.Logger) (*itemStore, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.MongoURI).
		SetRegistry(mongosource.Registry()))
	if err != nil {
		return nil, fmt.Errorf("mongo connection failed: %w", err)
	}

	ping := func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
	if err := ping(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	col := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
	if err := seedMongo(ctx, col, cfg.SeedItems, logger); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &itemStore{
		source: mongosource.New[domain.Item](col, nil, bson.D{{Key: "position", Value: 1}}),
		check:  ping,
		close:  client.Disconnect,
	}, nil
}

// seedMongo fills an empty collection with generated items and indexes the
// sort key.
func seedMongo(ctx context.Context, col *mongo.Collection, n int, logger *slog.Logger) error {
	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "position", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create position index: %w", err)
	}

	count, err := col.EstimatedDocumentCount(ctx)
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	if count > 0 || n == 0 {
		return nil
	}

	items := domain.GenerateItems(n)
	docs := make([]interface{}, len(items))
	for i, it := range items {
		docs[i] = it
	}
	if _, err := col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("seed items: %w", err)
	}
	logger.Info("Seeded mongo collection", "collection", col.Name(), "count", len(docs))
	return nil
}

// openObjectStore builds the bucket listing source.
func openObjectStore(cfg *internal.Config) (pagedlist.Source[s3source.Object], handler.Check) {
	client := s3source.NewClient(s3source.Config{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
	})

	check := func(ctx context.Context) error {
		_, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.S3Bucket)})
		return err
	}
	return s3source.New(client, cfg.S3Bucket, cfg.S3Prefix), check
}
