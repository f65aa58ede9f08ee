package model

import (
	"time"

	"art-gallery-paywall/internal/domain"
)

// Artwork is a gallery image gated behind the paywall. Price is stored in the
// lowest currency unit (pence) as an integer, to avoid float errors; the HTTP
// surface converts to decimal pounds at the boundary.
type Artwork struct {
	ID         string // UUID
	Title      string
	ImageURL   string // full-resolution original
	BlurredURL string // preview shown before purchase
	PricePence int64
	CreatedAt  time.Time
}

// NewArtwork validates and constructs an artwork record.
func NewArtwork(id, title, imageURL, blurredURL string, pricePence int64) (*Artwork, error) {
	if id == "" || title == "" || imageURL == "" || pricePence <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Artwork{
		ID:         id,
		Title:      title,
		ImageURL:   imageURL,
		BlurredURL: blurredURL,
		PricePence: pricePence,
		CreatedAt:  time.Now(),
	}, nil
}

// Price returns the decimal-pounds representation used by the HTTP surface.
func (a *Artwork) Price() float64 {
	return float64(a.PricePence) / 100
}
