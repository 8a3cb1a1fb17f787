package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"anglicorpus/internal/services"
)

const (
	defaultBaseURL     = "https://www.googleapis.com/youtube/v3"
	defaultPageSize    = 50
	maxPageSize        = 50
	defaultHTTPTimeout = 30 * time.Second
)

// Config describes the Data API client configuration.
type Config struct {
	APIKey            string
	BaseURL           string
	PageSize          int
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// Client wraps the read-only Data API resources used during collection.
type Client struct {
	apiKey   string
	baseURL  *url.URL
	pageSize int
	http     *http.Client
	limiter  *rate.Limiter
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "youtube", "new client", "api key is required", nil)
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("youtube: parse base url: %w", err)
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		apiKey:   apiKey,
		baseURL:  baseURL,
		pageSize: pageSize,
		http:     client,
		limiter:  rate.NewLimiter(limit, 1),
	}, nil
}

// PageSize reports the number of playlist items requested per page.
func (c *Client) PageSize() int {
	return c.pageSize
}

// Page is one page of a playlist listing.
type Page struct {
	VideoIDs []string
	// NextPageToken is empty on the last page.
	NextPageToken string
}

// Video carries the metadata collection keeps for a video.
type Video struct {
	ID         string
	Title      string
	CategoryID string
}

// UploadsPlaylist resolves a channel id to the id of its uploads playlist.
// An unknown channel yields services.ErrNotFound.
func (c *Client) UploadsPlaylist(ctx context.Context, channelID string) (string, error) {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return "", services.Wrap(services.ErrValidation, "youtube", "channels", "channel id is empty", nil)
	}
	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("id", channelID)

	var payload channelListResponse
	if err := c.get(ctx, "channels", params, &payload); err != nil {
		return "", err
	}
	if len(payload.Items) == 0 {
		return "", services.Wrap(services.ErrNotFound, "youtube", "channels", fmt.Sprintf("channel %q not found", channelID), nil)
	}
	uploads := strings.TrimSpace(payload.Items[0].ContentDetails.RelatedPlaylists.Uploads)
	if uploads == "" {
		return "", services.Wrap(services.ErrNotFound, "youtube", "channels", fmt.Sprintf("channel %q has no uploads playlist", channelID), nil)
	}
	return uploads, nil
}

// PlaylistPage fetches one page of video ids. An empty pageToken requests the
// first page.
func (c *Client) PlaylistPage(ctx context.Context, playlistID, pageToken string) (Page, error) {
	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("playlistId", playlistID)
	params.Set("maxResults", strconv.Itoa(c.pageSize))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var payload playlistItemsResponse
	if err := c.get(ctx, "playlistItems", params, &payload); err != nil {
		return Page{}, err
	}
	page := Page{
		VideoIDs:      make([]string, 0, len(payload.Items)),
		NextPageToken: payload.NextPageToken,
	}
	for _, item := range payload.Items {
		if id := strings.TrimSpace(item.ContentDetails.VideoID); id != "" {
			page.VideoIDs = append(page.VideoIDs, id)
		}
	}
	return page, nil
}

// Videos fetches title and category id for up to one page of video ids in a
// single request. Videos the API no longer returns are absent from the result.
func (c *Client) Videos(ctx context.Context, ids []string) ([]Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > maxPageSize {
		return nil, services.Wrap(services.ErrValidation, "youtube", "videos", fmt.Sprintf("%d ids exceed the batch limit of %d", len(ids), maxPageSize), nil)
	}
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", strings.Join(ids, ","))
	params.Set("maxResults", strconv.Itoa(maxPageSize))

	var payload videoListResponse
	if err := c.get(ctx, "videos", params, &payload); err != nil {
		return nil, err
	}
	videos := make([]Video, 0, len(payload.Items))
	for _, item := range payload.Items {
		videos = append(videos, Video{
			ID:         item.ID,
			Title:      item.Snippet.Title,
			CategoryID: item.Snippet.CategoryID,
		})
	}
	return videos, nil
}

// CategoryName resolves a video category id to its display name.
func (c *Client) CategoryName(ctx context.Context, categoryID string) (string, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", categoryID)

	var payload categoryListResponse
	if err := c.get(ctx, "videoCategories", params, &payload); err != nil {
		return "", err
	}
	if len(payload.Items) == 0 {
		return "", services.Wrap(services.ErrNotFound, "youtube", "videoCategories", fmt.Sprintf("category %q not found", categoryID), nil)
	}
	return payload.Items[0].Snippet.Title, nil
}

func (c *Client) get(ctx context.Context, resource string, params url.Values, out any) error {
	if c == nil {
		return errors.New("youtube: client is nil")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("youtube: %s: wait for rate limiter: %w", resource, err)
	}
	endpoint := c.baseURL.JoinPath(resource)
	params.Set("key", c.apiKey)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("youtube: build %s request: %w", resource, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "youtube", resource, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return classifyFailure(resource, resp.Status, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrExternal, "youtube", resource, "decode response", err)
	}
	return nil
}

var quotaReasons = map[string]struct{}{
	"quotaExceeded":           {},
	"dailyLimitExceeded":      {},
	"rateLimitExceeded":       {},
	"userRateLimitExceeded":   {},
	"servingLimitExceeded":    {},
	"dailyLimitExceededUnreg": {},
}

func classifyFailure(resource, status string, body []byte) error {
	var payload errorResponse
	message := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		message = payload.Error.Message
		for _, detail := range payload.Error.Errors {
			if _, ok := quotaReasons[detail.Reason]; ok {
				return services.Wrap(services.ErrQuota, "youtube", resource, fmt.Sprintf("%s (%s): %s", detail.Reason, status, message), nil)
			}
		}
	}
	return services.Wrap(services.ErrExternal, "youtube", resource, fmt.Sprintf("request failed (%s): %s", status, message), nil)
}

type channelListResponse struct {
	Items []struct {
		ContentDetails struct {
			RelatedPlaylists struct {
				Uploads string `json:"uploads"`
			} `json:"relatedPlaylists"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ContentDetails struct {
			VideoID string `json:"videoId"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type videoListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title      string `json:"title"`
			CategoryID string `json:"categoryId"`
		} `json:"snippet"`
	} `json:"items"`
}

type categoryListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title string `json:"title"`
		} `json:"snippet"`
	} `json:"items"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}
