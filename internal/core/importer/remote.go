package importer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"recipe-box/internal/core/recipe"
	"recipe-box/internal/infrastructure/config"
	"recipe-box/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Import pipeline sentinel errors.
var (
	// ErrEmptyURL means the user submitted no URL before fetching.
	ErrEmptyURL = errors.New("no import url provided")
	// ErrFetchFailed wraps any transport or non-2xx failure against the
	// remote API. Callers decide what the failure means for the user.
	ErrFetchFailed = errors.New("remote fetch failed")
	// ErrNoMorePages means a fetch-more action found no further recipes.
	ErrNoMorePages = errors.New("no more pages")
	// ErrUnknownSession means the preview session expired or never existed.
	ErrUnknownSession = errors.New("unknown preview session")
)

// NormalizeBaseURL fixes up a user-entered base URL. A bare "://" prefix is
// replaced with "http://", and a URL with no scheme at all gets "http://"
// prepended. URLs already carrying http or https pass through unchanged.
func NormalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "http://") || strings.Contains(raw, "https://") {
		return raw
	}
	if strings.Contains(raw, "://") {
		return strings.Replace(raw, "://", "http://", 1)
	}
	return "http://" + raw
}

// RemoteClient fetches recipes from a remote Recipe Box over its REST API.
type RemoteClient struct {
	client *resty.Client
	cfg    config.RemoteConfig
	cache  *PageCache
}

// NewRemoteClient creates a remote client. cache may be nil.
func NewRemoteClient(cfg config.RemoteConfig, cache *PageCache) *RemoteClient {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &RemoteClient{
		client: client,
		cfg:    cfg,
		cache:  cache,
	}
}

// FetchPage fetches one page of recipes from the remote collection
// endpoint. Pages are 1-based; the page parameter is omitted for the first
// page. There are no retries: any transport error or non-2xx response
// surfaces as ErrFetchFailed.
func (c *RemoteClient) FetchPage(ctx context.Context, baseURL string, page int) ([]recipe.RemoteRecipe, error) {
	if c.cache != nil {
		if items, ok := c.cache.GetPage(ctx, baseURL, page); ok {
			return items, nil
		}
	}

	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("per_page", strconv.Itoa(c.cfg.PageSize))
	if page > 1 {
		req.SetQueryParam("page", strconv.Itoa(page))
	}

	url := c.collectionURL(baseURL)
	resp, err := req.Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", ErrFetchFailed, url, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: GET %s returned %d", ErrFetchFailed, url, resp.StatusCode())
	}

	var items []recipe.RemoteRecipe
	if err := common.ParseJSONBytes(resp.Body(), &items); err != nil {
		return nil, fmt.Errorf("%w: decode page %d: %v", ErrFetchFailed, page, err)
	}

	common.LogDebug("fetched remote recipe page",
		zap.String("base_url", baseURL),
		zap.Int("page", page),
		zap.Int("count", len(items)),
	)

	if c.cache != nil {
		c.cache.SetPage(ctx, baseURL, page, items)
	}

	return items, nil
}

// FetchRecipe fetches the full representation of one remote recipe.
func (c *RemoteClient) FetchRecipe(ctx context.Context, baseURL, id string) (*recipe.RemoteRecipe, error) {
	url := c.collectionURL(baseURL) + "/" + id
	resp, err := c.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", ErrFetchFailed, url, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: GET %s returned %d", ErrFetchFailed, url, resp.StatusCode())
	}

	var item recipe.RemoteRecipe
	if err := common.ParseJSONBytes(resp.Body(), &item); err != nil {
		return nil, fmt.Errorf("%w: decode recipe %s: %v", ErrFetchFailed, id, err)
	}
	return &item, nil
}

func (c *RemoteClient) collectionURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + c.cfg.RecipesPath
}
