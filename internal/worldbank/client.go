// Package worldbank is a client for the World Bank indicators API. It fetches
// complete indicator series by walking the paginated endpoint until an empty
// page is observed.
package worldbank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the public indicators endpoint, all countries.
const DefaultBaseURL = "https://api.worldbank.org/v2/countries/all/indicators"

// DefaultMaxPages bounds the pagination loop so a source that never yields a
// terminating page cannot hang a run forever.
const DefaultMaxPages = 1000

// ErrPaginationLimit is wrapped in a *FetchError when the page loop exceeds
// the configured maximum.
var ErrPaginationLimit = errors.New("pagination limit exceeded")

// FetchError is returned when a fetch aborts: a non-success response, an
// unparseable payload, or the pagination bound. No partial record set is ever
// returned alongside it.
type FetchError struct {
	Indicator  string
	Page       int
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s page %d: unexpected status %d", e.Indicator, e.Page, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s page %d: %v", e.Indicator, e.Page, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Config holds client settings.
type Config struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string
	// MaxPages defaults to DefaultMaxPages. Zero means default, not unbounded.
	MaxPages int
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Client fetches indicator series page by page. Pages are requested strictly
// one at a time; the next page is only requested after the previous one has
// been decoded.
type Client struct {
	baseURL  string
	maxPages int
	http     *http.Client
	logger   *slog.Logger
}

// NewClient creates a client from cfg, applying defaults for unset fields.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL:  baseURL,
		maxPages: maxPages,
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}
}

// FetchOptions tunes a single fetch call.
type FetchOptions struct {
	// StopAtYear stops requesting further pages once an observation for the
	// given year appears in the current page. Purely an optimization: with a
	// zero value every page is fetched until the terminal page.
	StopAtYear int
}

// Fetch retrieves every record for the indicator within the date range
// ("YYYY:YYYY" span or bare "YYYY"). Records are accumulated in page arrival
// order. On any error the accumulated set is discarded and a *FetchError is
// returned.
func (c *Client) Fetch(ctx context.Context, indicator, dateRange string, opts FetchOptions) ([]Record, error) {
	var all []Record

	stopYear := ""
	if opts.StopAtYear > 0 {
		stopYear = strconv.Itoa(opts.StopAtYear)
	}

	for page := 1; ; page++ {
		if page > c.maxPages {
			return nil, &FetchError{Indicator: indicator, Page: page, Err: ErrPaginationLimit}
		}

		records, err := c.fetchPage(ctx, indicator, dateRange, page)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			// Terminal page; the accumulated set is complete.
			break
		}

		all = append(all, records...)

		if stopYear != "" && pageContainsYear(records, stopYear) {
			c.logger.Debug("stopping fetch early",
				slog.String("indicator", indicator), slog.Int("page", page), slog.String("year", stopYear))
			break
		}
	}

	c.logger.Debug("fetch completed",
		slog.String("indicator", indicator), slog.String("date_range", dateRange), slog.Int("records", len(all)))
	return all, nil
}

// fetchPage requests and decodes one page of the query.
func (c *Client) fetchPage(ctx context.Context, indicator, dateRange string, page int) ([]Record, error) {
	u, err := url.Parse(fmt.Sprintf("%s/%s", c.baseURL, indicator))
	if err != nil {
		return nil, &FetchError{Indicator: indicator, Page: page, Err: err}
	}
	q := u.Query()
	q.Set("date", dateRange)
	q.Set("format", "json")
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &FetchError{Indicator: indicator, Page: page, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Indicator: indicator, Page: page, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{Indicator: indicator, Page: page, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Indicator: indicator, Page: page, Err: err}
	}

	return decodePage(indicator, page, body)
}

// decodePage unpacks the two-element [metadata, data] response envelope.
// A response with fewer than two elements, or a null data element, is the
// exhaustion signal and decodes to an empty page.
func decodePage(indicator string, page int, body []byte) ([]Record, error) {
	var envelope []json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &FetchError{Indicator: indicator, Page: page, Err: fmt.Errorf("malformed response: %w", err)}
	}

	if len(envelope) < 2 {
		return nil, nil
	}

	if string(envelope[1]) == "null" {
		return nil, nil
	}

	var records []Record
	if err := json.Unmarshal(envelope[1], &records); err != nil {
		return nil, &FetchError{Indicator: indicator, Page: page, Err: fmt.Errorf("malformed data page: %w", err)}
	}
	return records, nil
}

// pageContainsYear reports whether any record in the page observes the year.
func pageContainsYear(records []Record, year string) bool {
	for _, r := range records {
		if r.Date == year {
			return true
		}
	}
	return false
}
