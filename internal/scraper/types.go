package scraper

import "time"

// PriceObservation is a fully populated snapshot of the product's
// pricing at one point in time. It is immutable once created.
type PriceObservation struct {
	ProductName      string    `json:"product_name"`
	OldPrice         int       `json:"old_price"`
	NewPrice         int       `json:"new_price"`
	InstallmentPrice int       `json:"installment_price"`
	Timestamp        time.Time `json:"timestamp"`
}

// Selectors holds the CSS selectors used to locate the product fields
// on the page. These follow the target site's markup conventions and
// may break without notice when the site changes.
type Selectors struct {
	Title         string
	PriceFraction string
}

// Source produces price observations for the watcher
type Source interface {
	// Observe fetches and extracts a single observation
	Observe() (*PriceObservation, error)

	// GetName returns the source's name for logging and identification
	GetName() string
}
