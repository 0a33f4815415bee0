// Package steam queries the Steam Web API for workshop items and game
// metadata.
package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"workshop_bot/internal/model"
)

const (
	queryFilesURL  = "https://api.steampowered.com/IPublishedFileService/QueryFiles/v1/"
	appDetailsURL  = "https://store.steampowered.com/api/appdetails"
	workshopURL    = "https://steamcommunity.com/app/%s/workshop/"
	itemDetailsURL = "https://steamcommunity.com/sharedfiles/filedetails/?id=%s"
)

// QueryType selects the Steam-side sort order of a workshop query.
type QueryType int

// Workshop query orderings used by the monitor.
const (
	QueryRankedByPublicationDate QueryType = 1
	QueryRankedByLastUpdated     QueryType = 21
)

// QueryTypeFor maps a notification category to its workshop sort order.
func QueryTypeFor(cat model.Category) QueryType {
	if cat == model.CategoryNew {
		return QueryRankedByPublicationDate
	}
	return QueryRankedByLastUpdated
}

// Item is a single workshop entry as returned by QueryFiles. It is a
// read-only snapshot; the monitor never mutates it.
type Item struct {
	ID                    string
	Title                 string
	TimeUpdated           int64
	TimeCreated           int64
	SizeBytes             int64
	Subscriptions         int64
	Favorites             int64
	LifetimeSubscriptions int64
	LifetimeFavorites     int64
	Tags                  []string
	URL                   string
}

// Timestamp returns the item timestamp relevant to a category: update
// time for "updated", creation time for "new".
func (it Item) Timestamp(cat model.Category) int64 {
	if cat == model.CategoryNew {
		return it.TimeCreated
	}
	return it.TimeUpdated
}

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the Steam Web API and storefront.
type Client struct {
	client  HTTPClient
	apiKey  string
	timeout time.Duration
}

// New creates a Client with the given HTTP client and Web API key.
func New(client HTTPClient, apiKey string) *Client {
	return &Client{
		client:  client,
		apiKey:  apiKey,
		timeout: 30 * time.Second,
	}
}

// flexInt decodes a JSON value that Steam serves inconsistently as either
// a number or a quoted decimal string (file_size in particular). Absent
// fields stay zero.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("parse numeric field %q: %w", s, err)
	}
	*f = flexInt(v)
	return nil
}

type wireItem struct {
	PublishedFileID string  `json:"publishedfileid"`
	Title           string  `json:"title"`
	TimeUpdated     flexInt `json:"time_updated"`
	TimeCreated     flexInt `json:"time_created"`
	FileSize        flexInt `json:"file_size"`
	Subscriptions   flexInt `json:"subscriptions"`
	Favorited       flexInt `json:"favorited"`
	LifetimeSubs    flexInt `json:"lifetime_subscriptions"`
	LifetimeFavs    flexInt `json:"lifetime_favorited"`
	Tags            []struct {
		Tag string `json:"tag"`
	} `json:"tags"`
}

type queryFilesResponse struct {
	Response struct {
		Total int        `json:"total"`
		Items []wireItem `json:"publishedfiledetails"`
	} `json:"response"`
}

// QueryItems fetches one page of workshop items for a game, sorted by the
// given query type, newest first.
func (c *Client) QueryItems(ctx context.Context, appID string, qt QueryType, pageSize int) ([]Item, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("appid", appID)
	q.Set("query_type", strconv.Itoa(int(qt)))
	q.Set("numperpage", strconv.Itoa(pageSize))
	q.Set("page", "1")
	q.Set("return_metadata", "true")
	q.Set("return_tags", "true")

	body, err := c.get(ctx, queryFilesURL+"?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var parsed queryFilesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode query files response: %w", err)
	}

	items := make([]Item, 0, len(parsed.Response.Items))
	for _, w := range parsed.Response.Items {
		if w.PublishedFileID == "" {
			continue
		}
		items = append(items, itemFromWire(w))
	}
	return items, nil
}

func itemFromWire(w wireItem) Item {
	title := w.Title
	if title == "" {
		title = "N/A"
	}
	var tags []string
	for _, t := range w.Tags {
		if t.Tag != "" {
			tags = append(tags, t.Tag)
		}
	}
	return Item{
		ID:                    w.PublishedFileID,
		Title:                 title,
		TimeUpdated:           int64(w.TimeUpdated),
		TimeCreated:           int64(w.TimeCreated),
		SizeBytes:             int64(w.FileSize),
		Subscriptions:         int64(w.Subscriptions),
		Favorites:             int64(w.Favorited),
		LifetimeSubscriptions: int64(w.LifetimeSubs),
		LifetimeFavorites:     int64(w.LifetimeFavs),
		Tags:                  tags,
		URL:                   fmt.Sprintf(itemDetailsURL, w.PublishedFileID),
	}
}

type appDetailsEntry struct {
	Success bool `json:"success"`
	Data    struct {
		Name string `json:"name"`
	} `json:"data"`
}

// ValidateGame checks that an app id names a real Steam game and returns
// its display name. ErrGameNotFound is returned for unknown ids.
func (c *Client) ValidateGame(ctx context.Context, appID string) (string, error) {
	body, err := c.get(ctx, appDetailsURL+"?appids="+url.QueryEscape(appID))
	if err != nil {
		return "", err
	}

	var parsed map[string]appDetailsEntry
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode app details: %w", err)
	}

	entry, ok := parsed[appID]
	if !ok || !entry.Success || entry.Data.Name == "" {
		return "", ErrGameNotFound
	}
	return entry.Data.Name, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "WorkshopNotifyBot/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
