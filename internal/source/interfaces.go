package source

import (
	"context"

	"github.com/tgvmax-weekends/pkg/tgvmax/models"
)

// RecordFetcher returns every discount-eligible departure from origin to
// destination, as listed by the remote catalog.
type RecordFetcher interface {
	FetchRecords(ctx context.Context, origin, destination string) ([]models.RawRecord, error)
}
