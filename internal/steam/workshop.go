package steam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Validation failures surfaced to the add-game command.
var (
	ErrGameNotFound = errors.New("no such game on Steam")
	ErrNoWorkshop   = errors.New("game has no workshop")
	ErrInvalidApp   = errors.New("invalid app id")
)

var (
	appIDPattern  = regexp.MustCompile(`^\d+$`)
	appURLPattern = regexp.MustCompile(`/app/(\d+)`)
)

// AppIDFromArg extracts a Steam app id from user input: either a bare
// numeric id or a store/community URL containing "/app/<id>".
func AppIDFromArg(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if appIDPattern.MatchString(arg) {
		return arg, nil
	}
	if m := appURLPattern.FindStringSubmatch(arg); m != nil {
		return m[1], nil
	}
	return "", ErrInvalidApp
}

// HasWorkshop reports whether a game's community hub has a workshop with
// any items. The community site has no JSON endpoint for this, so the
// workshop page is scraped the same way the storefront renders it.
func (c *Client) HasWorkshop(ctx context.Context, appID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(workshopURL, appID), nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		return false, fmt.Errorf("parse workshop page: %w", err)
	}

	if doc.Find("div.noItemsNotice").Length() > 0 {
		return false, nil
	}
	if strings.Contains(doc.Find("div.apphub_HeaderTop").Text(), "Workshop") {
		return true, nil
	}
	return doc.Find("div.workshopBrowseHeader").Length() > 0, nil
}
