package usecase

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"art-gallery-paywall/internal/domain"
	"art-gallery-paywall/internal/domain/model"
	"art-gallery-paywall/internal/domain/ports/repository"
)

// Price constants, in pence. Bundle pricing is a 75% discount on the unit
// price applied to each artwork in the bundle.
const (
	LifetimePricePence = 4900 // flat fee, one-time

	MonthlyPricePence           = 999
	MonthlyDiscountedPricePence = 499
	YearlyPricePence            = 9900
	YearlyDiscountedPricePence  = 4900

	BundleDefaultQuantity  = 5
	bundleDiscountPercent  = 25 // buyer pays 25% of unit price per artwork
	priceToleranceAbsolute = 0.01
)

// PricingUseCase is the price-integrity guard. Quote derives the canonical
// server-side amount for a purchase; Validate compares a client-claimed price
// against it. Validation runs on every intent creation and is never cached:
// canonical prices can change between requests.
type PricingUseCase interface {
	// Quote returns the canonical amount in pence and the settlement currency.
	Quote(ctx context.Context, kind model.PurchaseKind, artworkID string, quantity int) (int64, string, error)
	// Validate checks a claimed decimal price against the canonical amount
	// with an absolute tolerance of 0.01. Returns the artwork (nil for kinds
	// that have none) so callers avoid a second lookup.
	Validate(ctx context.Context, kind model.PurchaseKind, artworkID string, claimedPrice float64, quantity int) (*model.Artwork, int64, error)
}

var _ PricingUseCase = (*pricingUC)(nil)

type pricingUC struct {
	artworks repository.ArtworkRepository
	currency string
	log      *zerolog.Logger
}

// NewPricingUseCase constructs the use case over the canonical artwork table.
// The artwork repository may be a short-TTL caching decorator; the use case
// itself holds no state between calls.
func NewPricingUseCase(artworks repository.ArtworkRepository, currency string, logger *zerolog.Logger) PricingUseCase {
	l := logger.With().Str("component", "PricingUC").Logger()
	return &pricingUC{artworks: artworks, currency: currency, log: &l}
}

func (p *pricingUC) Quote(ctx context.Context, kind model.PurchaseKind, artworkID string, quantity int) (int64, string, error) {
	_, amount, err := p.quote(ctx, kind, artworkID, quantity)
	return amount, p.currency, err
}

func (p *pricingUC) quote(ctx context.Context, kind model.PurchaseKind, artworkID string, quantity int) (*model.Artwork, int64, error) {
	switch kind {
	case model.PurchaseKindSingle:
		art, err := p.artworks.FindByID(ctx, nil, artworkID)
		if err != nil {
			return nil, 0, err
		}
		return art, art.PricePence, nil

	case model.PurchaseKindBundle:
		art, err := p.artworks.FindByID(ctx, nil, artworkID)
		if err != nil {
			return nil, 0, err
		}
		if quantity <= 0 {
			quantity = BundleDefaultQuantity
		}
		perArtwork := (art.PricePence*bundleDiscountPercent + 50) / 100
		return art, perArtwork * int64(quantity), nil

	case model.PurchaseKindLifetime:
		return nil, LifetimePricePence, nil

	default:
		return nil, 0, domain.ErrInvalidArgument
	}
}

func (p *pricingUC) Validate(ctx context.Context, kind model.PurchaseKind, artworkID string, claimedPrice float64, quantity int) (*model.Artwork, int64, error) {
	art, canonical, err := p.quote(ctx, kind, artworkID, quantity)
	if err != nil {
		return nil, 0, err
	}

	expected := float64(canonical) / 100
	if math.Abs(expected-claimedPrice) > priceToleranceAbsolute {
		// Logged distinctly from ordinary validation failures: an out-of-band
		// claimed price is a potential tamper attempt.
		p.log.Warn().
			Str("kind", string(kind)).
			Str("artwork_id", artworkID).
			Float64("expected", expected).
			Float64("claimed", claimedPrice).
			Msg("price mismatch rejected")
		return nil, 0, &domain.PriceMismatchError{Expected: expected, Claimed: claimedPrice}
	}
	return art, canonical, nil
}

// SubscriptionPricePence returns the canonical recurring price for a
// subscription type, honoring the upsell discount flag.
func SubscriptionPricePence(subType model.SubscriptionType, discounted bool) int64 {
	if subType == model.SubscriptionTypeYearly {
		if discounted {
			return YearlyDiscountedPricePence
		}
		return YearlyPricePence
	}
	if discounted {
		return MonthlyDiscountedPricePence
	}
	return MonthlyPricePence
}
