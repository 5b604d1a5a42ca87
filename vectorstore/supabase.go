// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// dateLayout is the wire format for the date range parameters.
const dateLayout = "2006-01-02"

// SupabaseStore implements Store against the Supabase PostgREST API.
// Inserts target the documents table; searches call the
// search_content_by_date_range database function.
type SupabaseStore struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Store = (*SupabaseStore)(nil)

// SupabaseOption is a functional option for configuring a SupabaseStore.
type SupabaseOption func(*SupabaseStore)

// WithHTTPClient replaces the underlying HTTP client. Useful for tests.
func WithHTTPClient(hc *http.Client) SupabaseOption {
	return func(s *SupabaseStore) {
		s.httpClient = hc
	}
}

// NewSupabaseStore creates a store client for the given project URL and
// service role key.
func NewSupabaseStore(baseURL, serviceKey string, opts ...SupabaseOption) (*SupabaseStore, error) {
	if baseURL == "" || serviceKey == "" {
		return nil, ErrMissingCredentials
	}

	s := &SupabaseStore{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     slog.Default().With("component", "supabase-store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// BulkInsert writes all rows to the documents table in one request.
func (s *SupabaseStore) BulkInsert(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		s.logger.Info("no rows to insert")
		return nil
	}

	body, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("%w: encoding rows: %v", ErrUploadFailed, err)
	}

	req, err := s.newRequest(ctx, s.baseURL+"/rest/v1/documents", body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	req.Header.Set("Prefer", "return=minimal")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%w: status %d: %s", ErrUploadFailed, resp.StatusCode, detail)
	}

	s.logger.Info("inserted rows", "count", len(rows))
	return nil
}

// searchParams is the argument payload for the date range search function.
type searchParams struct {
	QueryEmbedding      []float32 `json:"query_embedding"`
	StartDate           string    `json:"start_date"`
	EndDate             string    `json:"end_date"`
	SimilarityThreshold float64   `json:"similarity_threshold"`
	ResultLimit         int       `json:"result_limit"`
}

// SearchByDate runs a similarity search restricted to a date window.
func (s *SupabaseStore) SearchByDate(ctx context.Context, embedding []float32, start, end time.Time, threshold float64, limit int) ([]Match, error) {
	params := searchParams{
		QueryEmbedding:      embedding,
		StartDate:           start.Format(dateLayout),
		EndDate:             end.Format(dateLayout),
		SimilarityThreshold: threshold,
		ResultLimit:         limit,
	}

	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding params: %v", ErrSearchFailed, err)
	}

	req, err := s.newRequest(ctx, s.baseURL+"/rest/v1/rpc/search_content_by_date_range", body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("%w: status %d: %s", ErrSearchFailed, resp.StatusCode, detail)
	}

	var matches []Match
	if err := json.NewDecoder(resp.Body).Decode(&matches); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrSearchFailed, err)
	}
	return matches, nil
}

// newRequest builds an authenticated JSON POST request.
func (s *SupabaseStore) newRequest(ctx context.Context, url string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	return req, nil
}
