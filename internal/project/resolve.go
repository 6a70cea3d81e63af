package project

import (
	"errors"
	"net/url"

	"github.com/jakoblorz/go-codestart/internal/logger"
	"github.com/jakoblorz/go-codestart/internal/models"
	"github.com/jakoblorz/go-codestart/internal/storage"
)

// Source tells where the initial project came from.
type Source string

const (
	SourceQuery    Source = "query"
	SourceStore    Source = "store"
	SourceDefaults Source = "defaults"
)

// Initial is the project a session starts with.
type Initial struct {
	Project *models.ProjectDefinition
	Source  Source

	// Filter is the search filter carried by the URL, if any
	Filter string
}

// ResolveInitial picks the starting project: URL parameters win, then a
// well formed stored project, then defaults. Problems with the store are
// logged and never fatal.
func ResolveInitial(query url.Values, store storage.Store, log *logger.Logger) Initial {
	filter, _ := first(query, KeyFilter)

	if HasProjectParams(query) {
		return Initial{Project: FromQuery(query), Source: SourceQuery, Filter: filter}
	}

	if store != nil {
		stored, err := LoadStored(store)
		switch {
		case err != nil && errors.Is(err, ErrMalformedRecord):
			log.Warn("ignoring malformed stored project", "key", StoreKey, "error", err)
		case err != nil:
			log.Warn("failed to load stored project", "error", err)
		case stored != nil:
			return Initial{Project: stored, Source: SourceStore, Filter: filter}
		}
	}

	return Initial{Project: models.NewDefaultProject(), Source: SourceDefaults, Filter: filter}
}
