package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petlodge/internal/domain/shared/daterange"
	"petlodge/internal/domain/shared/money"
)

func stay(t *testing.T, inDay, inHour, outDay, outHour int) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(
		time.Date(2026, time.March, inDay, inHour, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, outDay, outHour, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return dr
}

func TestCalculateRejectsBadInput(t *testing.T) {
	dr := stay(t, 10, 12, 13, 11)
	rate := money.Must(4500, money.DefaultCurrency)

	_, err := Calculate(QuoteInput{ServicePrice: rate, Range: dr, PetCount: 0})
	assert.ErrorIs(t, err, ErrNoPets)

	_, err = Calculate(QuoteInput{ServicePrice: rate, Range: dr, PetCount: 1, TaxRate: -0.1})
	assert.ErrorIs(t, err, ErrNegativeRate)

	_, err = Calculate(QuoteInput{ServicePrice: rate, PetCount: 1})
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)
}

func TestCalculateSinglePetBoarding(t *testing.T) {
	out, err := Calculate(QuoteInput{
		ServicePrice: money.Must(4500, money.DefaultCurrency),
		Range:        stay(t, 10, 12, 13, 11),
		PetCount:     1,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Nights)
	assert.Equal(t, 0, out.Hours)
	assert.Equal(t, int64(13500), out.Subtotal.Amount)
	assert.True(t, out.Discount.IsZero())
	assert.True(t, out.Tax.IsZero())
	assert.Equal(t, int64(13500), out.Total.Amount)
}

func TestCalculateMultiPetDiscount(t *testing.T) {
	out, err := Calculate(QuoteInput{
		ServicePrice: money.Must(4500, money.DefaultCurrency),
		Range:        stay(t, 10, 12, 13, 11),
		PetCount:     2,
	})
	require.NoError(t, err)
	// Second pet pays 80% of the 13500 base: 10800, a 2700 discount.
	assert.Equal(t, int64(24300), out.Subtotal.Amount)
	assert.Equal(t, int64(2700), out.Discount.Amount)
}

func TestCalculateThreePets(t *testing.T) {
	out, err := Calculate(QuoteInput{
		ServicePrice: money.Must(1000, money.DefaultCurrency),
		Range:        stay(t, 10, 12, 12, 11),
		PetCount:     3,
	})
	require.NoError(t, err)
	// Base 2000 plus two extra pets at 1600 each.
	assert.Equal(t, int64(5200), out.Subtotal.Amount)
	assert.Equal(t, int64(800), out.Discount.Amount)
}

func TestCalculateDaycareBillsMinimumOneNight(t *testing.T) {
	out, err := Calculate(QuoteInput{
		ServicePrice: money.Must(4500, money.DefaultCurrency),
		Range:        stay(t, 10, 8, 10, 18),
		PetCount:     1,
		Daycare:      true,
	})
	require.NoError(t, err)
	// A same-day visit prices as one night; the hour count only feeds the
	// facility schedule.
	assert.Equal(t, 1, out.Nights)
	assert.Equal(t, 10, out.Hours)
	assert.Equal(t, int64(4500), out.Subtotal.Amount)
}

func TestCalculateDaycareOvernightBillsNights(t *testing.T) {
	out, err := Calculate(QuoteInput{
		ServicePrice: money.Must(4500, money.DefaultCurrency),
		Range:        stay(t, 10, 8, 11, 18),
		PetCount:     1,
		Daycare:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Nights)
	assert.Equal(t, 34, out.Hours)
	assert.Equal(t, int64(9000), out.Subtotal.Amount)
}

func TestCalculateAddOnsAndTax(t *testing.T) {
	usd := money.DefaultCurrency
	out, err := Calculate(QuoteInput{
		ServicePrice: money.Must(4500, usd),
		Range:        stay(t, 10, 12, 13, 11),
		PetCount:     1,
		AddOns: []AddOn{
			{Code: "GROOM", Name: "Grooming", Price: money.Must(2500, usd)},
			{Code: "WALK", Name: "Extra walk", Price: money.Must(500, usd)},
		},
		TaxRate: 0.10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3000), out.AddOnsTotal.Amount)
	assert.Equal(t, int64(16500), out.Subtotal.Amount)
	assert.Equal(t, int64(1650), out.Tax.Amount)
	assert.Equal(t, int64(18150), out.Total.Amount)
}

func TestCalculateTaxRoundsToNearestCent(t *testing.T) {
	out, err := Calculate(QuoteInput{
		ServicePrice: money.Must(3333, money.DefaultCurrency),
		Range:        stay(t, 10, 12, 11, 11),
		PetCount:     1,
		TaxRate:      0.0875,
	})
	require.NoError(t, err)
	// 3333 * 0.0875 = 291.6375, rounds to 292.
	assert.Equal(t, int64(292), out.Tax.Amount)
	assert.Equal(t, int64(3625), out.Total.Amount)
}

func TestCalculateAddOnCurrencyMismatch(t *testing.T) {
	_, err := Calculate(QuoteInput{
		ServicePrice: money.Must(4500, money.DefaultCurrency),
		Range:        stay(t, 10, 12, 13, 11),
		PetCount:     1,
		AddOns:       []AddOn{{Code: "GROOM", Price: money.Must(2500, "EUR")}},
	})
	assert.ErrorIs(t, err, money.ErrCurrencyMismatch)
}

func TestCalculatorInterface(t *testing.T) {
	calc := NewCalculator()
	out, err := calc.Calculate(QuoteInput{
		ServicePrice: money.Must(4500, money.DefaultCurrency),
		Range:        stay(t, 10, 12, 11, 11),
		PetCount:     1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4500), out.Total.Amount)
}
