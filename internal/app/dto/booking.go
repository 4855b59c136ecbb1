package dto

import (
	"time"

	domainbooking "petlodge/internal/domain/booking"
	domainreviews "petlodge/internal/domain/reviews"
	"petlodge/internal/domain/shared/money"
)

type MoneyDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type BookingPriceDTO struct {
	Nights      int      `json:"nights"`
	Hours       int      `json:"hours,omitempty"`
	Subtotal    MoneyDTO `json:"subtotal"`
	Discount    MoneyDTO `json:"discount"`
	AddOnsTotal MoneyDTO `json:"add_ons_total"`
	Tax         MoneyDTO `json:"tax"`
	Total       MoneyDTO `json:"total"`
}

type CustomerBookingSummary struct {
	ID              string              `json:"id"`
	FacilityID      string              `json:"facility_id"`
	Assignments     map[string][]string `json:"assignments"`
	PetCount        int                 `json:"pet_count"`
	CheckIn         time.Time           `json:"check_in"`
	CheckOut        time.Time           `json:"check_out"`
	Daycare         bool                `json:"daycare"`
	Status          string              `json:"status"`
	Price           BookingPriceDTO     `json:"price"`
	CreatedAt       time.Time           `json:"created_at"`
	ReviewSubmitted bool                `json:"review_submitted"`
	CanReview       bool                `json:"can_review"`
}

type CustomerBookingCollection struct {
	Items []CustomerBookingSummary `json:"items"`
}

type FacilityBookingSummary struct {
	ID          string              `json:"id"`
	CustomerID  string              `json:"customer_id"`
	Assignments map[string][]string `json:"assignments"`
	PetIDs      []string            `json:"pet_ids"`
	CheckIn     time.Time           `json:"check_in"`
	CheckOut    time.Time           `json:"check_out"`
	Daycare     bool                `json:"daycare"`
	Status      string              `json:"status"`
	Total       MoneyDTO            `json:"total"`
	CreatedAt   time.Time           `json:"created_at"`
}

type FacilityBookingCollection struct {
	Items []FacilityBookingSummary `json:"items"`
}

func MapMoney(value money.Money) MoneyDTO {
	return MoneyDTO{
		Amount:   value.Amount,
		Currency: value.Currency,
	}
}

func MapBookingPrice(b *domainbooking.Booking) BookingPriceDTO {
	return BookingPriceDTO{
		Nights:      b.Price.Nights,
		Hours:       b.Price.Hours,
		Subtotal:    MapMoney(b.Price.Subtotal),
		Discount:    MapMoney(b.Price.Discount),
		AddOnsTotal: MapMoney(b.Price.AddOnsTotal),
		Tax:         MapMoney(b.Price.Tax),
		Total:       MapMoney(b.Price.Total),
	}
}

func MapCustomerBookingSummary(b *domainbooking.Booking, review *domainreviews.Review, canReview bool) CustomerBookingSummary {
	return CustomerBookingSummary{
		ID:              string(b.ID),
		FacilityID:      string(b.FacilityID),
		Assignments:     mapAssignments(b),
		PetCount:        len(b.PetIDs),
		CheckIn:         b.Range.CheckIn,
		CheckOut:        b.Range.CheckOut,
		Daycare:         b.Daycare,
		Status:          string(b.State),
		Price:           MapBookingPrice(b),
		CreatedAt:       b.CreatedAt,
		ReviewSubmitted: review != nil,
		CanReview:       canReview,
	}
}

func MapFacilityBookingSummary(b *domainbooking.Booking) FacilityBookingSummary {
	return FacilityBookingSummary{
		ID:          string(b.ID),
		CustomerID:  b.CustomerID,
		Assignments: mapAssignments(b),
		PetIDs:      append([]string(nil), b.PetIDs...),
		CheckIn:     b.Range.CheckIn,
		CheckOut:    b.Range.CheckOut,
		Daycare:     b.Daycare,
		Status:      string(b.State),
		Total:       MapMoney(b.Price.Total),
		CreatedAt:   b.CreatedAt,
	}
}

func mapAssignments(b *domainbooking.Booking) map[string][]string {
	out := make(map[string][]string, len(b.Assignments))
	for suiteID, pets := range b.Assignments {
		out[string(suiteID)] = append([]string(nil), pets...)
	}
	return out
}
