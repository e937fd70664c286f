package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	resty "gopkg.in/resty.v1"

	"github.com/tgvmax-weekends/internal/common/logger"
	"github.com/tgvmax-weekends/pkg/tgvmax/models"
)

const (
	defaultPageSize = 100
	maxPageSize     = 100
	httpTimeout     = 30 * time.Second

	happyCardAvailable = "OUI"
	happyCardRefine    = "od_happy_card:" + happyCardAvailable
)

var ErrInvalidPageSize = errors.New("page size must be between 1 and 100")

type Config struct {
	BaseURL  string
	Dataset  string
	PageSize int
	Timeout  time.Duration
}

// HTTPRecordFetcher pages through the explore API records endpoint.
type HTTPRecordFetcher struct {
	client *resty.Client
	config Config
	logger logger.Logger
}

func NewHTTPRecordFetcher(cfg Config, log logger.Logger) (*HTTPRecordFetcher, error) {
	if cfg.PageSize == 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.PageSize < 1 || cfg.PageSize > maxPageSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPageSize, cfg.PageSize)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = httpTimeout
	}

	client := resty.New().
		SetHostURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &HTTPRecordFetcher{
		client: client,
		config: cfg,
		logger: log.With("component", "record_source"),
	}, nil
}

func (f *HTTPRecordFetcher) FetchRecords(ctx context.Context, origin, destination string) ([]models.RawRecord, error) {
	var all []models.RawRecord

	for offset := 0; ; offset += f.config.PageSize {
		page, err := f.fetchPage(ctx, origin, destination, offset)
		if err != nil {
			return nil, fmt.Errorf("fetching %s -> %s at offset %d: %w", origin, destination, offset, err)
		}

		for _, r := range page {
			if !matchesRoute(r, origin, destination) {
				f.logger.Warn("Dropping record for another route",
					"origin", r.OriginCode,
					"destination", r.DestinationCode,
					"date", r.Date)
				continue
			}
			all = append(all, r)
		}

		f.logger.Debug("Fetched page",
			"origin", origin,
			"destination", destination,
			"offset", offset,
			"records", len(page))

		if len(page) < f.config.PageSize {
			break
		}
	}

	f.logger.Info("Records fetched",
		"origin", origin,
		"destination", destination,
		"count", len(all))

	return all, nil
}

func (f *HTTPRecordFetcher) fetchPage(ctx context.Context, origin, destination string, offset int) ([]models.RawRecord, error) {
	params := url.Values{}
	params.Add("refine", happyCardRefine)
	params.Add("refine", "origine_iata:"+origin)
	params.Add("refine", "destination_iata:"+destination)
	params.Set("limit", strconv.Itoa(f.config.PageSize))
	params.Set("offset", strconv.Itoa(offset))

	path := fmt.Sprintf("/catalog/datasets/%s/records", url.PathEscape(f.config.Dataset))

	resp, err := f.client.R().
		SetContext(ctx).
		SetMultiValueQueryParams(params).
		Get(path)
	if err != nil {
		f.logger.Error("Failed to execute request", "path", path, "offset", offset, "error", err)
		return nil, fmt.Errorf("executing request: %w", err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		var apiErr models.APIError
		if json.Unmarshal(resp.Body(), &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode(), apiErr.Message)
		}
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var result models.DatasetResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return result.Results, nil
}

// matchesRoute keeps TGVmax seats on the requested route. Records that
// omit a field are accepted.
func matchesRoute(r models.RawRecord, origin, destination string) bool {
	if r.HappyCard != "" && r.HappyCard != happyCardAvailable {
		return false
	}
	if r.OriginCode != "" && r.OriginCode != origin {
		return false
	}
	if r.DestinationCode != "" && r.DestinationCode != destination {
		return false
	}
	return true
}
