package mongodb

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/january-msemakweli/MoAfyaCamps/pkg/backend"
)

func filterToBson(filters []backend.Filter) bson.M {
	filter := bson.M{}
	for _, f := range filters {
		filter[f.Column] = f.Value
	}
	return filter
}

func docToRow(doc bson.M) backend.Row {
	delete(doc, "_id")
	return backend.Row(doc)
}

func (s *Service) Select(_ context.Context, table string, filters ...backend.Filter) ([]backend.Row, error) {
	ctx, cancel := s.getContext()
	defer cancel()

	cursor, err := s.collection(table).Find(ctx, filterToBson(filters))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	rows := make([]backend.Row, len(docs))
	for i, doc := range docs {
		rows[i] = docToRow(doc)
	}
	return rows, nil
}

func (s *Service) Insert(_ context.Context, table string, row backend.Row) (backend.Row, error) {
	ctx, cancel := s.getContext()
	defer cancel()

	if row.StringField("id") == "" {
		row["id"] = uuid.NewString()
	}

	if _, err := s.collection(table).InsertOne(ctx, bson.M(row)); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *Service) Update(_ context.Context, table string, values backend.Row, filters ...backend.Filter) ([]backend.Row, error) {
	ctx, cancel := s.getContext()
	defer cancel()

	_, err := s.collection(table).UpdateMany(ctx, filterToBson(filters), bson.M{"$set": bson.M(values)})
	if err != nil {
		return nil, err
	}
	return s.Select(ctx, table, filters...)
}

func (s *Service) Delete(_ context.Context, table string, filters ...backend.Filter) error {
	ctx, cancel := s.getContext()
	defer cancel()

	_, err := s.collection(table).DeleteMany(ctx, filterToBson(filters))
	return err
}
