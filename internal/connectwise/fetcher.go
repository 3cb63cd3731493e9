package connectwise

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/davejoelwilson/connectwise-project-reports/internal/entities"
	"github.com/davejoelwilson/connectwise-project-reports/internal/fetch"
)

// CollectionResult holds the records of one resource collection fetch.
// Partial is set when the fetch stopped before exhausting the
// collection; the records gathered up to that point are still returned.
type CollectionResult struct {
	Records  []json.RawMessage
	Partial  bool
	Warnings []entities.Warning
}

// Fetcher drives repeated page requests for a resource collection
// through the shared budget and retry policy until exhaustion.
type Fetcher struct {
	client     *Client
	budget     *fetch.Budget
	retry      *fetch.Retryer
	pageSize   int
	maxRecords int
	log        *zap.SugaredLogger
}

// NewFetcher constructs a Fetcher. maxRecords of zero means no ceiling.
func NewFetcher(client *Client, budget *fetch.Budget, retry *fetch.Retryer, pageSize, maxRecords int, log *zap.SugaredLogger) (*Fetcher, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("%w: page size must be positive, got %d", entities.ErrConfiguration, pageSize)
	}
	return &Fetcher{
		client:     client,
		budget:     budget,
		retry:      retry,
		pageSize:   pageSize,
		maxRecords: maxRecords,
		log:        log,
	}, nil
}

// FetchAll pages through a collection starting at page 1 until a short
// page or the record ceiling. Records are deduplicated by id across
// pages, keeping the last-seen copy. A page failing after retry
// exhaustion aborts only this collection: the records collected so far
// come back with Partial set, never an error that would fail siblings.
func (f *Fetcher) FetchAll(ctx context.Context, endpoint string, q Query) CollectionResult {
	if q.PageSize <= 0 {
		q.PageSize = f.pageSize
	}

	var records []json.RawMessage
	index := make(map[int]int)

	for page := 1; ; page++ {
		q.Page = page

		var pageRecords []json.RawMessage
		err := f.retry.Do(ctx, endpoint, func(ctx context.Context) error {
			if err := f.budget.Acquire(ctx); err != nil {
				return err
			}
			defer f.budget.Release()

			recs, err := f.client.Get(ctx, endpoint, q)
			if err != nil {
				return err
			}
			pageRecords = recs
			return nil
		})
		if err != nil {
			f.log.Warnw("collection fetch aborted",
				"endpoint", endpoint,
				"page", page,
				"records_collected", len(records),
				"error", err.Error(),
			)
			return CollectionResult{
				Records: records,
				Partial: true,
				Warnings: []entities.Warning{{
					Resource: endpoint,
					Reason:   fmt.Sprintf("page %d fetch failed: %v", page, err),
				}},
			}
		}

		for _, raw := range pageRecords {
			if id, ok := recordID(raw); ok {
				if at, seen := index[id]; seen {
					records[at] = raw
					continue
				}
				index[id] = len(records)
			}
			records = append(records, raw)
		}

		if len(pageRecords) < q.PageSize {
			return CollectionResult{Records: records}
		}
		if f.maxRecords > 0 && len(records) >= f.maxRecords {
			f.log.Debugw("record ceiling reached", "endpoint", endpoint, "records", len(records))
			return CollectionResult{Records: records}
		}
	}
}

func recordID(raw json.RawMessage) (int, bool) {
	var probe struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || probe.ID == 0 {
		return 0, false
	}
	return probe.ID, true
}
