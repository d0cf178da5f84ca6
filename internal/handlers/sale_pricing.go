package handlers

import (
	"fmt"

	"storefront/internal/models"
)

// salePatch is the pricing slice of a partial product update. Nil fields
// were absent from the request body and leave the stored value alone.
type salePatch struct {
	Price       *float64
	SaleEnabled *bool
	SalePrice   *float64
}

// resolvedSale is the pricing state after a patch, plus which sale fields
// the update statement has to write back.
type resolvedSale struct {
	Price          float64
	SaleEnabled    bool
	SalePrice      float64
	WriteEnabled   bool
	WriteSalePrice bool
}

// productOnSale reports whether the sale price actually applies: the flag is
// on and the sale price undercuts the list price. A zero sale price means
// the field was never set.
func productOnSale(p models.Product) bool {
	return p.SaleEnabled && p.SalePrice > 0 && p.SalePrice < p.Price
}

// unitPrice is the amount a buyer is charged for one unit of p.
func unitPrice(p models.Product) float64 {
	if productOnSale(p) {
		return p.SalePrice
	}
	return p.Price
}

func checkSalePricing(price, salePrice float64, saleEnabled, salePriceSet bool) error {
	if !saleEnabled {
		return nil
	}
	if !salePriceSet {
		return fmt.Errorf("salePrice is required when saleEnabled is true")
	}
	if salePrice <= 0 {
		return fmt.Errorf("salePrice must be greater than 0")
	}
	if salePrice >= price {
		return fmt.Errorf("salePrice must be less than price")
	}
	return nil
}

// applySalePatch merges a partial update onto the stored product and
// validates the combined pricing. Disabling the sale clears the stored sale
// price so a stale discount cannot resurface on a later re-enable.
func applySalePatch(current models.Product, patch salePatch) (resolvedSale, error) {
	out := resolvedSale{
		Price:       current.Price,
		SaleEnabled: current.SaleEnabled,
		SalePrice:   current.SalePrice,
	}

	if patch.Price != nil {
		out.Price = *patch.Price
	}

	salePriceKnown := current.SalePrice > 0

	if patch.SaleEnabled != nil {
		out.SaleEnabled = *patch.SaleEnabled
		out.WriteEnabled = true
		if !out.SaleEnabled {
			out.SalePrice = 0
			out.WriteSalePrice = true
			salePriceKnown = false
		}
	}

	if patch.SalePrice != nil {
		out.SalePrice = *patch.SalePrice
		out.WriteSalePrice = true
		salePriceKnown = true
	}

	if err := checkSalePricing(out.Price, out.SalePrice, out.SaleEnabled, salePriceKnown); err != nil {
		return resolvedSale{}, err
	}

	return out, nil
}
