package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/january-msemakweli/MoAfyaCamps/pkg/backend"
	"github.com/january-msemakweli/MoAfyaCamps/pkg/user-management/pwhash"
)

type accountDoc struct {
	ID          string    `bson:"id"`
	Email       string    `bson:"email"`
	Password    string    `bson:"password"`
	ConfirmedAt time.Time `bson:"confirmedAt,omitempty"`
	CreatedAt   time.Time `bson:"createdAt"`
}

func (doc accountDoc) toAccount() backend.Account {
	return backend.Account{
		ID:             doc.ID,
		Email:          doc.Email,
		EmailConfirmed: !doc.ConfirmedAt.IsZero(),
		CreatedAt:      doc.CreatedAt,
	}
}

func (s *Service) SignInWithPassword(_ context.Context, email string, password string) (*backend.Account, error) {
	ctx, cancel := s.getContext()
	defer cancel()

	var doc accountDoc
	err := s.collection(collectionNameAccounts).FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, backend.ErrInvalidCredentials
		}
		return nil, err
	}

	match, err := pwhash.ComparePasswordWithHash(doc.Password, password)
	if err != nil || !match {
		return nil, backend.ErrInvalidCredentials
	}

	account := doc.toAccount()
	return &account, nil
}

func (s *Service) CreateAccount(_ context.Context, email string, password string, confirmed bool) (*backend.Account, error) {
	ctx, cancel := s.getContext()
	defer cancel()

	hash, err := pwhash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	doc := accountDoc{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  hash,
		CreatedAt: time.Now(),
	}
	if confirmed {
		doc.ConfirmedAt = doc.CreatedAt
	}

	if _, err := s.collection(collectionNameAccounts).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, backend.ErrDuplicate
		}
		return nil, err
	}

	account := doc.toAccount()
	return &account, nil
}

func (s *Service) GetAccount(_ context.Context, id string) (*backend.Account, error) {
	ctx, cancel := s.getContext()
	defer cancel()

	var doc accountDoc
	err := s.collection(collectionNameAccounts).FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, backend.ErrNotFound
		}
		return nil, err
	}
	account := doc.toAccount()
	return &account, nil
}

func (s *Service) ListAccounts(_ context.Context) ([]backend.Account, error) {
	ctx, cancel := s.getContext()
	defer cancel()

	cursor, err := s.collection(collectionNameAccounts).Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []accountDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	accounts := make([]backend.Account, len(docs))
	for i, doc := range docs {
		accounts[i] = doc.toAccount()
	}
	return accounts, nil
}

func (s *Service) DeleteAccount(_ context.Context, id string) error {
	ctx, cancel := s.getContext()
	defer cancel()

	res, err := s.collection(collectionNameAccounts).DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return backend.ErrNotFound
	}
	return nil
}
