package scraper

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"sjsage522/pricewatcher/helpers"
	"sjsage522/pricewatcher/pkg/errors"
	"sjsage522/pricewatcher/services/cache"

	"github.com/PuerkitoBio/goquery"
)

// DefaultSelectors matches the product page markup of the target site.
var DefaultSelectors = Selectors{
	Title:         "h1.ui-pdp-title",
	PriceFraction: "span.andes-money-amount__fraction",
}

// minPriceFields is the number of price fractions a product page must
// carry: prior price, current price, installment price, in that order.
const minPriceFields = 3

// PageScraper fetches a single product page and extracts a
// PriceObservation from it.
type PageScraper struct {
	URL       string
	Name      string
	Selectors Selectors
	CacheKey  string
	CacheSvc  cache.CacheService
	BlockTime time.Duration

	fetchFunc func(url string) (io.Reader, error)
}

// Ensure PageScraper implements Source
var _ Source = (*PageScraper)(nil)

// NewPageScraper creates a scraper for the given product URL. cacheSvc
// may be nil, in which case rate-limit blocks are not tracked.
func NewPageScraper(url string, cacheSvc cache.CacheService) *PageScraper {
	return &PageScraper{
		URL:       url,
		Name:      "ProductPage",
		Selectors: DefaultSelectors,
		CacheKey:  "pricewatcher_rate_limited",
		CacheSvc:  cacheSvc,
		BlockTime: 60 * time.Second,
		fetchFunc: helpers.FetchPage,
	}
}

// GetName returns the scraper's name
func (s *PageScraper) GetName() string {
	return s.Name
}

// Observe fetches the product page and extracts an observation from it
func (s *PageScraper) Observe() (*PriceObservation, error) {
	body, err := s.fetchWithGuard()
	if err != nil {
		return nil, err
	}
	return s.Extract(body)
}

// fetchWithGuard fetches the page unless a rate-limit block is active.
// Cache outages degrade to "not blocked".
func (s *PageScraper) fetchWithGuard() (io.Reader, error) {
	if s.CacheSvc != nil && s.CacheKey != "" {
		if _, err := s.CacheSvc.Get(s.CacheKey); err == nil {
			return nil, errors.NewRateLimit(s.Name, s.BlockTime)
		}
	}

	body, err := s.fetchFunc(s.URL)
	if err != nil {
		if helpers.IsRateLimited(err) {
			if s.CacheSvc != nil && s.CacheKey != "" {
				s.CacheSvc.Set(s.CacheKey, []byte(fmt.Sprintf("%d", s.BlockTime/time.Second)), s.BlockTime)
			}
			return nil, errors.NewRateLimit(s.Name, s.BlockTime)
		}
		return nil, errors.NewNetwork(s.Name, "failed to fetch product page", err)
	}

	return body, nil
}

// Extract parses the page content into a PriceObservation. It never
// returns a partial observation: any missing or malformed field fails
// the whole extraction.
func (s *PageScraper) Extract(body io.Reader) (*PriceObservation, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.NewParsing(s.Name, "failed to parse HTML document", err)
	}

	title := strings.TrimSpace(doc.Find(s.Selectors.Title).First().Text())
	if title == "" {
		return nil, errors.NewParsing(s.Name, "product title not found", nil)
	}

	fractions := doc.Find(s.Selectors.PriceFraction)
	if fractions.Length() < minPriceFields {
		return nil, errors.NewParsing(s.Name,
			fmt.Sprintf("expected at least %d price fields, found %d", minPriceFields, fractions.Length()), nil)
	}

	prices := make([]int, 0, minPriceFields)
	var parseErr error
	fractions.EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= minPriceFields {
			return false
		}
		value, err := NormalizePrice(sel.Text())
		if err != nil {
			parseErr = errors.NewParsing(s.Name, fmt.Sprintf("price field %d is not numeric", i), err)
			return false
		}
		prices = append(prices, value)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return &PriceObservation{
		ProductName:      title,
		OldPrice:         prices[0],
		NewPrice:         prices[1],
		InstallmentPrice: prices[2],
		Timestamp:        time.Now(),
	}, nil
}

// NormalizePrice converts a localized price fraction such as "1.234"
// into a non-negative integer by stripping grouping separators.
func NormalizePrice(text string) (int, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', ' ', ' ':
			return -1
		}
		return r
	}, strings.TrimSpace(text))

	if cleaned == "" {
		return 0, fmt.Errorf("empty price text %q", text)
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-numeric price text %q", text)
		}
	}

	value, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid price text %q: %w", text, err)
	}
	return value, nil
}
