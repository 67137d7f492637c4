// Package telegram holds Telegram Bot API plumbing that is not about rendering.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var ErrFileTooLarge = errors.New("file is too large")

// URLResolver returns a direct download link for a file ID. *tgbotapi.BotAPI satisfies it.
type URLResolver interface {
	GetFileDirectURL(fileID string) (string, error)
}

var _ URLResolver = (*tgbotapi.BotAPI)(nil)

// FileFetcher downloads uploaded documents from Telegram file storage.
type FileFetcher struct {
	resolver URLResolver
	client   *http.Client
	maxBytes int64
}

// NewFileFetcher creates a FileFetcher. maxBytes <= 0 disables the size limit.
func NewFileFetcher(resolver URLResolver, client *http.Client, maxBytes int64) *FileFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &FileFetcher{resolver: resolver, client: client, maxBytes: maxBytes}
}

// Fetch downloads the whole file into memory.
func (f *FileFetcher) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	url, err := f.resolver.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %d", resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, ErrFileTooLarge
	}

	return data, nil
}
