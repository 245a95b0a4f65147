package processor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/geodoc/internal/docio"
	"github.com/woozymasta/geodoc/internal/geo"
)

// DefaultConcurrency bounds LoadAll when no limit is given.
const DefaultConcurrency = 8

type job struct {
	Index  int
	Source string
}

type result struct {
	Index  int
	Object geo.Object
	Err    error
}

// LoadAll loads every source with at most concurrency parallel reads and returns the
// documents in source order. Failures of individual sources are joined.
func LoadAll(ctx context.Context, client *http.Client, sources []string, format string, concurrency int) ([]geo.Object, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	jobs := make(chan job, len(sources))
	results := make(chan result, len(sources))

	for i, src := range sources {
		jobs <- job{Index: i, Source: src}
	}
	close(jobs)

	var wg sync.WaitGroup
	for i, workers := 0, min(concurrency, len(sources)); i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := ctx.Err(); err != nil {
					results <- result{Index: j.Index, Err: err}
					continue
				}

				o, err := docio.Load(ctx, client, j.Source, format)
				if err != nil {
					log.Debug().Err(err).Str("source", j.Source).Msg("Failed to load document")
				}
				results <- result{Index: j.Index, Object: o, Err: err}
			}
		}()
	}
	wg.Wait()
	close(results)

	docs := make([]geo.Object, len(sources))
	errs := make([]error, len(sources))
	for res := range results {
		docs[res.Index] = res.Object
		if res.Err != nil {
			errs[res.Index] = fmt.Errorf("source %d: %w", res.Index, res.Err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return docs, nil
}
