package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://jisho.org/api/v1"

// Client looks up words through the Jisho word search endpoint.
type Client struct {
	httpClient       *resty.Client
	fileCache        *FileCache
	maxRetryAttempts uint
}

// NewClient creates a Client caching responses under cacheDirectory.
func NewClient(cacheDirectory string, retryAttempts uint) *Client {
	client := resty.New()
	client.SetBaseURL(defaultBaseURL)

	return &Client{
		httpClient:       client,
		fileCache:        NewFileCache(cacheDirectory),
		maxRetryAttempts: retryAttempts,
	}
}

// isRetryableError reports whether a lookup failure is worth retrying.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}
	if strings.Contains(errStr, "status code: 5") {
		return true
	}
	if strings.Contains(errStr, "status code: 429") {
		return true
	}
	return false
}

func (client *Client) lookupAPI(ctx context.Context, word string) ([]byte, error) {
	res, err := client.httpClient.R().
		SetContext(ctx).
		SetQueryParam("keyword", word).
		Get("/search/words")
	if err != nil {
		return nil, fmt.Errorf("client.R.Get > %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("status code: %d, body: %s", res.StatusCode(), string(res.Body()))
	}
	return res.Body(), nil
}

// Lookup returns the Jisho entries for a word, serving from the on-disk
// cache when the word was looked up before.
func (client *Client) Lookup(ctx context.Context, word string) (Response, error) {
	var response Response
	contents, err := client.fileCache.cache(url.PathEscape(word), func() ([]byte, error) {
		var body []byte
		if err := retry.Do(
			func() error {
				contents, err := client.lookupAPI(ctx, word)
				if err != nil {
					if !isRetryableError(err) {
						return retry.Unrecoverable(err)
					}
					return err
				}
				body = contents
				return nil
			},
			retry.Context(ctx),
			retry.Attempts(client.maxRetryAttempts+1),
			retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
				return retry.BackOffDelay(n, err, config)
			}),
		); err != nil {
			return nil, fmt.Errorf("retry.Do > %w", err)
		}
		return body, nil
	})
	if err != nil {
		return response, fmt.Errorf("client.fileCache.cache > %w", err)
	}
	if err := json.Unmarshal(contents, &response); err != nil {
		return response, fmt.Errorf("json.Unmarshal > %w", err)
	}
	return response, nil
}
