package datasource

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"

	"griddle/internal/domain"
)

// Request parameter names the remote endpoint receives
const (
	ParamSortColumn    = "sortColumn"
	ParamSortDirection = "sortDirection"
)

// HTTPSource fetches rows from a remote endpoint. Ordering is delegated to
// the server: each fetch carries the current sort column and direction as
// query parameters and the response is taken as already ordered.
type HTTPSource struct {
	client  *resty.Client
	url     string
	columns []string // response object keys, in column order
}

// NewHTTPSource creates a remote source for the given endpoint
func NewHTTPSource(url string, columns []string) *HTTPSource {
	return &HTTPSource{
		client:  resty.New(),
		url:     url,
		columns: columns,
	}
}

// Client exposes the underlying resty client for transport configuration
func (s *HTTPSource) Client() *resty.Client { return s.client }

// Remote reports whether this source is remote-sourced; always true
func (s *HTTPSource) Remote() bool { return true }

// Load fetches the row set, attaching the sort parameters when present
func (s *HTTPSource) Load(ctx context.Context, q Query) ([]*domain.Row, error) {
	req := s.client.R().SetContext(ctx)
	if q.SortColumn != "" {
		req.SetQueryParam(ParamSortColumn, q.SortColumn)
		req.SetQueryParam(ParamSortDirection, q.SortDirection)
	}

	resp, err := req.Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch failed: %s returned %s", s.url, resp.Status())
	}

	var records []map[string]interface{}
	if err := sonic.Unmarshal(resp.Body(), &records); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	rows := make([]*domain.Row, 0, len(records))
	for _, record := range records {
		cells := make([]interface{}, len(s.columns))
		for i, name := range s.columns {
			cells[i] = record[name]
		}
		rows = append(rows, &domain.Row{Cells: cells})
	}
	log.Debugf("remote source delivered %d rows", len(rows))
	return rows, nil
}
