package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/documind-ai/documind/internal/core/domain"
)

type Client struct {
	baseURL    string
	collection string
	httpClient *http.Client

	ensureMu          sync.Mutex
	ensuredCollection bool
	ensuredVectorSize int
}

func New(baseURL, collection string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) IndexChunks(ctx context.Context, doc *domain.Document, chunks []domain.ChunkRecord, vectors [][]float32) error {
	if len(chunks) == 0 || len(vectors) == 0 {
		return nil
	}
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks/vectors mismatch")
	}

	if err := c.ensureCollection(ctx, len(vectors[0])); err != nil {
		return err
	}

	type point struct {
		ID      string         `json:"id"`
		Vector  []float32      `json:"vector"`
		Payload map[string]any `json:"payload"`
	}

	points := make([]point, 0, len(chunks))
	for i, chunk := range chunks {
		points = append(points, point{
			ID:     chunk.ID,
			Vector: vectors[i],
			Payload: map[string]any{
				"chunk_id":       chunk.ID,
				"doc_id":         doc.ID,
				"document_title": doc.Title,
				"filename":       doc.Filename,
				"position":       chunk.Position,
				"text":           chunk.Text,
			},
		})
	}

	body, err := json.Marshal(map[string]any{"points": points})
	if err != nil {
		return fmt.Errorf("marshal upsert body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points?wait=true", c.baseURL, c.collection)
	resp, err := c.do(ctx, http.MethodPut, url, body)
	if err != nil {
		return fmt.Errorf("qdrant upsert request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant upsert status: %s", resp.Status)
	}
	return nil
}

func (c *Client) Search(ctx context.Context, queryVector []float32, limit int, minSimilarity float64) ([]domain.ChunkMatch, error) {
	reqBody := map[string]any{
		"vector":       queryVector,
		"limit":        limit,
		"with_payload": true,
	}
	if minSimilarity > 0 {
		reqBody["score_threshold"] = minSimilarity
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", c.baseURL, c.collection)
	resp, err := c.do(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("qdrant search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("qdrant search status: %s", resp.Status)
	}

	var searchResp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]domain.ChunkMatch, 0, len(searchResp.Result))
	for _, r := range searchResp.Result {
		match := matchFromPayload(r.Payload)
		match.Similarity = r.Score
		out = append(out, match)
	}
	return out, nil
}

// SearchLexical tries a qdrant full-text match filter first, which needs a
// text index on the payload. When the filtered scroll fails (typically a 400
// for a missing index) it degrades to scanning payloads and matching
// substrings locally, and reports which strategy served.
func (c *Client) SearchLexical(ctx context.Context, query string, limit int) (domain.LexicalResult, error) {
	matches, err := c.scrollFullText(ctx, query, limit)
	if err == nil {
		return domain.LexicalResult{Kind: domain.LexicalFullText, Matches: matches}, nil
	}

	matches, scanErr := c.scanSubstring(ctx, query, limit)
	if scanErr != nil {
		return domain.LexicalResult{}, fmt.Errorf("lexical search failed: fulltext: %w; substring: %w", err, scanErr)
	}
	return domain.LexicalResult{Kind: domain.LexicalSubstring, Matches: matches}, nil
}

func (c *Client) scrollFullText(ctx context.Context, query string, limit int) ([]domain.ChunkMatch, error) {
	reqBody := map[string]any{
		"limit":        limit,
		"with_payload": true,
		"filter": map[string]any{
			"must": []map[string]any{
				{
					"key":   "text",
					"match": map[string]any{"text": query},
				},
			},
		},
	}
	return c.scroll(ctx, reqBody)
}

// scanSubstring pages through the collection and keeps chunks whose text
// contains the query case-insensitively. Bounded to a few pages to keep the
// degraded path from walking an unbounded collection.
func (c *Client) scanSubstring(ctx context.Context, query string, limit int) ([]domain.ChunkMatch, error) {
	const pageSize = 256
	const maxPages = 8

	needle := strings.ToLower(query)
	var out []domain.ChunkMatch
	var offset any

	for page := 0; page < maxPages && len(out) < limit; page++ {
		reqBody := map[string]any{
			"limit":        pageSize,
			"with_payload": true,
		}
		if offset != nil {
			reqBody["offset"] = offset
		}

		matches, next, err := c.scrollPage(ctx, reqBody)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if strings.Contains(strings.ToLower(m.Text), needle) {
				out = append(out, m)
				if len(out) == limit {
					break
				}
			}
		}
		if next == nil {
			break
		}
		offset = next
	}
	return out, nil
}

func (c *Client) scroll(ctx context.Context, reqBody map[string]any) ([]domain.ChunkMatch, error) {
	matches, _, err := c.scrollPage(ctx, reqBody)
	return matches, err
}

func (c *Client) scrollPage(ctx context.Context, reqBody map[string]any) ([]domain.ChunkMatch, any, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal scroll body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points/scroll", c.baseURL, c.collection)
	resp, err := c.do(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, nil, fmt.Errorf("qdrant scroll request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if msg := strings.TrimSpace(string(raw)); msg != "" {
			return nil, nil, fmt.Errorf("qdrant scroll status: %s: %s", resp.Status, msg)
		}
		return nil, nil, fmt.Errorf("qdrant scroll status: %s", resp.Status)
	}

	var scrollResp struct {
		Result struct {
			Points []struct {
				Payload map[string]any `json:"payload"`
			} `json:"points"`
			NextPageOffset any `json:"next_page_offset"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&scrollResp); err != nil {
		return nil, nil, fmt.Errorf("decode scroll response: %w", err)
	}

	out := make([]domain.ChunkMatch, 0, len(scrollResp.Result.Points))
	for _, p := range scrollResp.Result.Points {
		out = append(out, matchFromPayload(p.Payload))
	}
	return out, scrollResp.Result.NextPageOffset, nil
}

func (c *Client) ensureCollection(ctx context.Context, vectorSize int) error {
	c.ensureMu.Lock()
	if c.ensuredCollection && c.ensuredVectorSize == vectorSize {
		c.ensureMu.Unlock()
		return nil
	}
	c.ensureMu.Unlock()

	body, err := json.Marshal(map[string]any{
		"vectors": map[string]any{
			"size":     vectorSize,
			"distance": "Cosine",
		},
	})
	if err != nil {
		return fmt.Errorf("marshal create collection body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)
	resp, err := c.do(ctx, http.MethodPut, url, body)
	if err != nil {
		return fmt.Errorf("qdrant ensure collection request: %w", err)
	}
	defer resp.Body.Close()

	// 200/201 for create, 409 if already exists (depends on version/config).
	if resp.StatusCode == http.StatusConflict {
		c.markCollectionEnsured(vectorSize)
		return nil
	}
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if msg := strings.TrimSpace(string(raw)); msg != "" {
			return fmt.Errorf("qdrant ensure collection status: %s: %s", resp.Status, msg)
		}
		return fmt.Errorf("qdrant ensure collection status: %s", resp.Status)
	}
	c.markCollectionEnsured(vectorSize)
	return nil
}

func (c *Client) markCollectionEnsured(vectorSize int) {
	c.ensureMu.Lock()
	defer c.ensureMu.Unlock()
	c.ensuredCollection = true
	c.ensuredVectorSize = vectorSize
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.httpClient.Do(req)
}

func matchFromPayload(payload map[string]any) domain.ChunkMatch {
	return domain.ChunkMatch{
		ChunkID:       getStringPayload(payload, "chunk_id"),
		DocumentID:    getStringPayload(payload, "doc_id"),
		DocumentTitle: getStringPayload(payload, "document_title"),
		Position:      getIntPayload(payload, "position"),
		Text:          getStringPayload(payload, "text"),
		Metadata:      payload,
	}
}

func getStringPayload(payload map[string]any, key string) string {
	v, ok := payload[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func getIntPayload(payload map[string]any, key string) int {
	v, ok := payload[key]
	if !ok {
		return 0
	}
	// JSON numbers decode as float64.
	f, ok := v.(float64)
	if ok {
		return int(f)
	}
	i, ok := v.(int)
	if ok {
		return i
	}
	return 0
}
