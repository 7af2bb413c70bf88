package gsheet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// valuesAPI is the slice of the Sheets values surface the client needs.
// The production implementation wraps *sheets.Service; tests substitute a
// fake.
type valuesAPI interface {
	Get(ctx context.Context, readRange string) ([][]interface{}, error)
	Overwrite(ctx context.Context, writeRange string, values [][]interface{}) error
}

type sheetsValues struct {
	svc           *sheets.Service
	spreadsheetID string
}

func (s *sheetsValues) Get(ctx context.Context, readRange string) ([][]interface{}, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (s *sheetsValues) Overwrite(ctx context.Context, writeRange string, values [][]interface{}) error {
	if _, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, writeRange, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return err
	}
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, writeRange, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	return err
}

// Client reads and overwrites one named worksheet, keeping a short-lived
// snapshot cache so repeated map loads do not hammer the Sheets API.
type Client struct {
	values    valuesAPI
	worksheet string
	cacheTTL  time.Duration

	mu        sync.Mutex
	cached    [][]interface{}
	fetchedAt time.Time
}

// NewClient builds a Client backed by the Google Sheets API. Credentials
// come from a service-account file or inline JSON; exactly one is needed.
func NewClient(ctx context.Context, spreadsheetID, worksheet, credentialsFile, credentialsJSON string, cacheTTL time.Duration) (*Client, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	switch {
	case credentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	case credentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return newClient(&sheetsValues{svc: svc, spreadsheetID: spreadsheetID}, worksheet, cacheTTL), nil
}

func newClient(values valuesAPI, worksheet string, cacheTTL time.Duration) *Client {
	return &Client{
		values:    values,
		worksheet: worksheet,
		cacheTTL:  cacheTTL,
	}
}

// readRange limits reads and writes to the first 8 columns; extra columns
// in the worksheet are ignored.
func (c *Client) readRange() string {
	return fmt.Sprintf("%s!A:H", c.worksheet)
}

// ReadValues returns the raw worksheet cells, header included, serving
// from cache while the snapshot is fresh.
func (c *Client) ReadValues(ctx context.Context) ([][]interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && time.Since(c.fetchedAt) < c.cacheTTL {
		return c.cached, nil
	}

	values, err := c.values.Get(ctx, c.readRange())
	if err != nil {
		return nil, err
	}

	c.cached = values
	c.fetchedAt = time.Now()
	return values, nil
}

// OverwriteValues replaces the whole table with the given cells and drops
// the cached snapshot. The backing store exposes no partial-append
// primitive here, so every write carries the entire desired table.
func (c *Client) OverwriteValues(ctx context.Context, values [][]interface{}) error {
	if err := c.values.Overwrite(ctx, c.readRange(), values); err != nil {
		return err
	}

	c.mu.Lock()
	c.cached = nil
	c.mu.Unlock()
	return nil
}

// Invalidate drops the cached snapshot, forcing the next read to hit the
// remote table.
func (c *Client) Invalidate() {
	c.mu.Lock()
	c.cached = nil
	c.mu.Unlock()
}
