package streaming

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"mango.movies/mango/internal/logging"
	"mango.movies/mango/internal/models"
)

const (
	errRequestFailed = "API request failed"
	errLookupFailed  = "Failed to lookup streaming"

	missingPrice = 999.0
)

var nonPrice = regexp.MustCompile(`[^0-9.]`)

// Resolver turns a title and year into a sorted list of places to watch.
type Resolver struct {
	search  Searcher
	country string
}

func NewResolver(search Searcher, country string) *Resolver {
	return &Resolver{search: search, country: country}
}

// Resolve never fails on upstream trouble: the result then carries an empty
// option list and an error string. Only a missing API key is returned as
// ErrNotConfigured.
func (r *Resolver) Resolve(ctx context.Context, title string, year int) (models.StreamingResult, error) {
	empty := models.StreamingResult{StreamingOptions: []models.StreamingOption{}}

	shows, err := r.search.SearchTitle(ctx, title)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			empty.Error = ErrNotConfigured.Error()
			return empty, ErrNotConfigured
		}
		logging.Ctx(ctx).Warn().Err(err).Str("title", title).Int("year", year).Msg("Streaming lookup failed")
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			empty.Error = errRequestFailed
		} else {
			empty.Error = errLookupFailed
		}
		return empty, nil
	}

	show, ok := MatchShow(shows, title, year)
	if !ok {
		return empty, nil
	}
	if !strings.EqualFold(show.Title, title) {
		logging.Ctx(ctx).Debug().Str("title", title).Str("matched", show.Title).Msg("Using first search result as streaming match")
	}

	options := ExtractOptions(show, r.country)
	SortOptions(options)
	return models.StreamingResult{
		Title:            show.Title,
		Year:             show.EffectiveYear(),
		StreamingOptions: options,
	}, nil
}

// MatchShow prefers a case-insensitive title match within one year of year
// (year 0 matches any year). Otherwise it falls back to the first result,
// which may be a different movie.
func MatchShow(shows []Show, title string, year int) (Show, bool) {
	for _, s := range shows {
		if !strings.EqualFold(s.Title, title) {
			continue
		}
		if year == 0 || abs(s.EffectiveYear()-year) <= 1 {
			return s, true
		}
	}
	if len(shows) > 0 {
		return shows[0], true
	}
	return Show{}, false
}

// ExtractOptions flattens the show's offers for country, keeping the first
// offer per (service, type). Addon offers are dropped.
func ExtractOptions(show Show, country string) []models.StreamingOption {
	offers := show.StreamingOptions[strings.ToLower(country)]
	options := make([]models.StreamingOption, 0, len(offers))
	seen := make(map[string]bool, len(offers))

	for _, o := range offers {
		service := o.Service.Name
		if service == "" {
			service = "Unknown"
		}
		offerType := models.OfferType(o.Type)
		if offerType == "" {
			offerType = models.OfferSubscription
		}
		if offerType == models.OfferAddon {
			continue
		}

		key := service + "-" + string(offerType)
		if seen[key] {
			continue
		}
		seen[key] = true

		opt := models.StreamingOption{Service: service, Type: offerType, Link: o.Link}
		if o.Price != nil {
			opt.Price = o.Price.Formatted
		}
		options = append(options, opt)
	}
	return options
}

// SortOptions orders by offer type priority, then by price ascending.
// Missing or unparseable prices sort last within their type.
func SortOptions(options []models.StreamingOption) {
	sort.SliceStable(options, func(i, j int) bool {
		pi, pj := options[i].Type.Priority(), options[j].Type.Priority()
		if pi != pj {
			return pi < pj
		}
		return priceValue(options[i].Price) < priceValue(options[j].Price)
	})
}

func priceValue(price string) float64 {
	digits := nonPrice.ReplaceAllString(price, "")
	if digits == "" {
		return missingPrice
	}
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return missingPrice
	}
	return v
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
