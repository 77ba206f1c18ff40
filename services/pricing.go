package services

import (
	"github.com/shopspring/decimal"

	"github.com/ray-remotestate/qrmenu/models"
)

var (
	// TaxRate is the flat GST applied to the subtotal.
	TaxRate = decimal.RequireFromString("0.05")
	// Orders below PackingFeeThreshold pay PackingFee.
	PackingFeeThreshold = decimal.NewFromInt(500)
	PackingFee          = decimal.NewFromInt(20)
)

// ComputeTotals prices a set of line items. Tax is rounded to two places.
func ComputeTotals(lines []models.LineItem) models.Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	tax := subtotal.Mul(TaxRate).Round(2)

	fee := decimal.Zero
	if subtotal.LessThan(PackingFeeThreshold) {
		fee = PackingFee
	}

	return models.Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		PackingFee: fee,
		Total:      subtotal.Add(tax).Add(fee),
	}
}
