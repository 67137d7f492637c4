// Package generator talks to the external question generation service.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/study-material-bot/internal/domain/entities"
)

// ErrGenerationFailed is returned for any non-2xx response. Its text is shown to the user as is.
var ErrGenerationFailed = errors.New("Generation failed")

const (
	generatePath    = "/generate"
	headerRequestID = "X-Request-ID"
	maxErrorBody    = 4 << 10
)

// Upload is one document submitted for generation.
type Upload struct {
	FileName  string
	Data      []byte
	RequestID string
}

// Config configures the generator client.
type Config struct {
	BaseURL string
	Count   int
	Timeout time.Duration
}

// Client posts documents to the generation endpoint.
type Client struct {
	baseURL string
	count   int
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a Client. A zero timeout means the request never times out on its own.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		count:   cfg.Count,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// Generate submits the upload and returns the validated question set.
func (c *Client) Generate(ctx context.Context, up Upload) (*entities.QuestionSet, error) {
	body, contentType, err := c.encode(up)
	if err != nil {
		return nil, fmt.Errorf("build request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if up.RequestID != "" {
		req.Header.Set(headerRequestID, up.RequestID)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	c.logger.Debug("generator responded",
		zap.String("request_id", up.RequestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("generation failed",
			zap.String("request_id", up.RequestID),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", snippet),
		)
		return nil, ErrGenerationFailed
	}

	var qs entities.QuestionSet
	if err := json.NewDecoder(resp.Body).Decode(&qs); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrMalformedResponse, err)
	}

	if err := qs.Validate(); err != nil {
		return nil, err
	}

	return &qs, nil
}

// encode builds the multipart body: the file part and the question count.
func (c *Client) encode(up Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", up.FileName)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(up.Data); err != nil {
		return nil, "", err
	}

	if err := w.WriteField("count", strconv.Itoa(c.count)); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}
