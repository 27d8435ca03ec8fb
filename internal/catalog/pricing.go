package catalog

import (
	"github.com/luanmoretti/kmerch-backend/pkg/config"
	"github.com/shopspring/decimal"
)

var five = decimal.NewFromInt(5)

// finalPriceFromUSD converts an upstream USD amount into the final
// local-currency price: shipping surcharge, exchange rate, import tax,
// margin, then a gross-up so the net after the payment processor's cut
// equals the subtotal, finished with the psychological rounding.
func finalPriceFromUSD(amountUSD decimal.Decimal, pricing config.PricingConfig) decimal.Decimal {
	rate := decimal.NewFromFloat(pricing.ExchangeRate())
	surcharge := decimal.NewFromFloat(pricing.ShippingSurchargeUSD)

	baseLocal := amountUSD.Add(surcharge).Mul(rate)
	importTax := decimal.NewFromFloat(pricing.ImportTaxRate).Mul(baseLocal)
	margin := decimal.NewFromFloat(pricing.MarginRate).Mul(baseLocal.Add(importTax))
	subtotal := baseLocal.Add(importTax).Add(margin)
	total := subtotal.Div(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(pricing.ProcessorFeeRate)))

	return roundToFiveEnding(total)
}

// roundToFiveEnding lifts an amount to the next multiple of five minus
// one cent (e.g. 974.99). Non-positive amounts collapse to zero.
func roundToFiveEnding(amount decimal.Decimal) decimal.Decimal {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	rounded := amount.Div(five).Ceil().Mul(five).Sub(decimal.NewFromFloat(0.01))
	if rounded.IsNegative() {
		return decimal.Zero
	}
	return rounded
}

// centsFromUnits converts a currency-unit amount to integer cents.
func centsFromUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// centsFromLoose resolves a bare numeric price field whose unit is
// ambiguous: an integer of 1000 or more is assumed to already be
// cents, anything else is a currency-unit amount.
func centsFromLoose(value float64) int64 {
	d := decimal.NewFromFloat(value)
	if d.IsInteger() && d.GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return d.IntPart()
	}
	return d.Shift(2).Round(0).IntPart()
}
