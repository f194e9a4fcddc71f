package service

import (
	"errors"

	apperrors "github.com/Jbmanllr/rental-catalog/internal/errors"
	"github.com/Jbmanllr/rental-catalog/internal/app/model"
	"github.com/Jbmanllr/rental-catalog/internal/app/repository"
	"gorm.io/gorm"
)

var ErrRegionNotFound = apperrors.NewNotFound(apperrors.RegionNotFound, "region not found")

// PriceSelectionContext narrows which default price applies.
type PriceSelectionContext struct {
	RegionID     *uint
	CurrencyCode string
	Quantity     *int
}

// PriceSelection resolves the price of a variant for a given context.
// A nil result with nil error means no price applies.
type PriceSelection interface {
	Calculate(variantID uint, ctx PriceSelectionContext) (*model.MoneyAmount, error)
}

type priceSelection struct {
	priceRepo  repository.PriceRepository
	regionRepo repository.RegionRepository
}

func NewPriceSelection(priceRepo repository.PriceRepository, regionRepo repository.RegionRepository) PriceSelection {
	return &priceSelection{priceRepo: priceRepo, regionRepo: regionRepo}
}

// Calculate prefers the region-scoped default price; when the region has
// none, it falls back to the region's currency. Quantity tiers are honored
// when a quantity is given.
func (p *priceSelection) Calculate(variantID uint, ctx PriceSelectionContext) (*model.MoneyAmount, error) {
	currency := ctx.CurrencyCode

	if ctx.RegionID != nil {
		region, err := p.regionRepo.FindByID(*ctx.RegionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRegionNotFound
			}
			return nil, err
		}
		currency = region.CurrencyCode

		price, err := p.priceRepo.FindDefaultByScope(variantID, repository.PriceScope{RegionID: ctx.RegionID})
		if err != nil {
			return nil, err
		}
		if price != nil && quantityMatches(price, ctx.Quantity) {
			return price, nil
		}
	}

	if currency == "" {
		return nil, nil
	}

	price, err := p.priceRepo.FindDefaultByScope(variantID, repository.PriceScope{CurrencyCode: currency})
	if err != nil {
		return nil, err
	}
	if price != nil && quantityMatches(price, ctx.Quantity) {
		return price, nil
	}
	return nil, nil
}

func quantityMatches(price *model.MoneyAmount, quantity *int) bool {
	if quantity == nil {
		return true
	}
	if price.MinQuantity != nil && *quantity < *price.MinQuantity {
		return false
	}
	if price.MaxQuantity != nil && *quantity > *price.MaxQuantity {
		return false
	}
	return true
}
