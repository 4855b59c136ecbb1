package pricing

import (
	"errors"

	"petlodge/internal/domain/shared/daterange"
	"petlodge/internal/domain/shared/money"
)

var (
	ErrNoPets       = errors.New("pricing: pet count must be positive")
	ErrNegativeRate = errors.New("pricing: tax rate must not be negative")
)

// multiPetRate is the share of the base price charged for every pet after
// the first one sharing the same stay.
const multiPetRate = 0.80

// AddOn is a flat-fee extra attached to a stay (grooming, extra walks).
type AddOn struct {
	Code  string
	Name  string
	Price money.Money
}

// QuoteInput carries everything Calculate needs. ServicePrice is per night;
// daycare stays still bill a minimum of one night.
type QuoteInput struct {
	ServicePrice money.Money
	Range        daterange.DateRange
	PetCount     int
	AddOns       []AddOn
	TaxRate      float64
	Daycare      bool
}

// Breakdown itemizes a quote. Subtotal already includes add-ons and has the
// multi-pet discount taken out; Total = Subtotal + Tax.
type Breakdown struct {
	Nights      int
	Hours       int
	Subtotal    money.Money
	Discount    money.Money
	AddOnsTotal money.Money
	Tax         money.Money
	Total       money.Money
}

// Calculator quotes a stay. The engine itself is Calculate; the interface
// exists so handlers can swap in a suggestion-adjusted implementation.
type Calculator interface {
	Calculate(in QuoteInput) (Breakdown, error)
}

type engine struct{}

// NewCalculator returns the standard quote engine.
func NewCalculator() Calculator { return engine{} }

func (engine) Calculate(in QuoteInput) (Breakdown, error) { return Calculate(in) }

// Calculate prices a stay deterministically: base units times service price
// for the first pet, a reduced share per additional pet, flat add-ons, then
// tax on the whole subtotal. Rounding happens only where a rate is applied,
// to the nearest cent.
func Calculate(in QuoteInput) (Breakdown, error) {
	if in.PetCount < 1 {
		return Breakdown{}, ErrNoPets
	}
	if in.TaxRate < 0 {
		return Breakdown{}, ErrNegativeRate
	}
	if err := in.Range.Validate(); err != nil {
		return Breakdown{}, err
	}

	var out Breakdown
	out.Nights = in.Range.Nights()
	if in.Daycare {
		// Hours inform the facility schedule only; billing stays nightly.
		out.Hours = in.Range.Hours()
	}

	base := in.ServicePrice.Multiply(int64(out.Nights))
	stay := base
	out.Discount = money.Money{Currency: base.Currency}
	if in.PetCount > 1 {
		extraPets := int64(in.PetCount - 1)
		extra := base.ApplyRate(multiPetRate).Multiply(extraPets)
		var err error
		if stay, err = stay.Add(extra); err != nil {
			return Breakdown{}, err
		}
		if out.Discount, err = base.Multiply(extraPets).Sub(extra); err != nil {
			return Breakdown{}, err
		}
	}

	out.AddOnsTotal = money.Money{Currency: base.Currency}
	for _, a := range in.AddOns {
		total, err := out.AddOnsTotal.Add(a.Price)
		if err != nil {
			return Breakdown{}, err
		}
		out.AddOnsTotal = total
	}

	subtotal, err := stay.Add(out.AddOnsTotal)
	if err != nil {
		return Breakdown{}, err
	}
	out.Subtotal = subtotal
	out.Tax = out.Subtotal.ApplyRate(in.TaxRate)
	if out.Total, err = out.Subtotal.Add(out.Tax); err != nil {
		return Breakdown{}, err
	}
	return out, nil
}
