package hosted

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/january-msemakweli/MoAfyaCamps/pkg/backend"
)

// TableClient talks to the table storage capability of the hosted backend
// (PostgREST-style row endpoints).
type TableClient struct {
	config ClientConfig
}

func NewTableClient(config ClientConfig) *TableClient {
	return &TableClient{config: config}
}

func filterQuery(filters []backend.Filter) url.Values {
	query := url.Values{}
	for _, filter := range filters {
		query.Set(filter.Column, fmt.Sprintf("eq.%v", filter.Value))
	}
	return query
}

func (c *TableClient) Select(ctx context.Context, table string, filters ...backend.Filter) ([]backend.Row, error) {
	query := filterQuery(filters)
	query.Set("select", "*")

	var rows []backend.Row
	if err := c.config.doRequest(ctx, http.MethodGet, "/rest/v1/"+table, query, nil, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *TableClient) Insert(ctx context.Context, table string, row backend.Row) (backend.Row, error) {
	var rows []backend.Row
	err := c.config.doRequest(ctx, http.MethodPost, "/rest/v1/"+table, nil, row,
		map[string]string{"Prefer": "return=representation"}, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("insert returned no representation")
	}
	return rows[0], nil
}

func (c *TableClient) Update(ctx context.Context, table string, values backend.Row, filters ...backend.Filter) ([]backend.Row, error) {
	var rows []backend.Row
	err := c.config.doRequest(ctx, http.MethodPatch, "/rest/v1/"+table, filterQuery(filters), values,
		map[string]string{"Prefer": "return=representation"}, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *TableClient) Delete(ctx context.Context, table string, filters ...backend.Filter) error {
	return c.config.doRequest(ctx, http.MethodDelete, "/rest/v1/"+table, filterQuery(filters), nil, nil, nil)
}
