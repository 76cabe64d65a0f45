// Package mongodb implements the backend capabilities on a MongoDB server,
// for deployments that run without the hosted provider.
package mongodb

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionNameAccounts = "accounts"
)

type Config struct {
	URI             string
	DBName          string
	Timeout         int
	IdleConnTimeout int
	MaxPoolSize     uint64
}

type Service struct {
	DBClient *mongo.Client
	dbName   string
	timeout  int
}

func NewService(configs Config) (*Service, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer cancel()

	dbClient, err := mongo.Connect(ctx,
		options.Client().ApplyURI(configs.URI),
		options.Client().SetMaxConnIdleTime(time.Duration(configs.IdleConnTimeout)*time.Second),
		options.Client().SetMaxPoolSize(configs.MaxPoolSize),
	)
	if err != nil {
		return nil, err
	}

	ctx, conCancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	err = dbClient.Ping(ctx, nil)
	defer conCancel()
	if err != nil {
		return nil, err
	}

	service := &Service{
		DBClient: dbClient,
		dbName:   configs.DBName,
		timeout:  configs.Timeout,
	}

	if err := service.ensureIndexes(); err != nil {
		slog.Error("Error ensuring indexes for backend DB", slog.String("error", err.Error()))
	}

	return service, nil
}

func (s *Service) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(s.timeout)*time.Second)
}

func (s *Service) collection(name string) *mongo.Collection {
	return s.DBClient.Database(s.dbName).Collection(name)
}

func (s *Service) ensureIndexes() error {
	ctx, cancel := s.getContext()
	defer cancel()

	// unique email for identity accounts
	_, err := s.collection(collectionNameAccounts).Indexes().CreateOne(
		ctx,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	)
	if err != nil {
		return err
	}

	// id lookups on table collections
	for _, table := range []string{"profiles", "projects", "forms", "submissions"} {
		_, err := s.collection(table).Indexes().CreateOne(
			ctx,
			mongo.IndexModel{
				Keys:    bson.D{{Key: "id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		)
		if err != nil {
			return err
		}
	}
	return nil
}
