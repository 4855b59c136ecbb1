package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainavailability "petlodge/internal/domain/availability"
	domainbooking "petlodge/internal/domain/booking"
	domainpets "petlodge/internal/domain/pets"
	domainreviews "petlodge/internal/domain/reviews"
	domainsuites "petlodge/internal/domain/suites"
)

// SuiteRepository is an in-memory implementation for demos and tests.
type SuiteRepository struct {
	mu    sync.RWMutex
	items map[domainsuites.SuiteID]*domainsuites.Suite
}

// NewSuiteRepository builds an empty repository.
func NewSuiteRepository() *SuiteRepository {
	return &SuiteRepository{
		items: make(map[domainsuites.SuiteID]*domainsuites.Suite),
	}
}

// ByID returns a suite or suites.ErrNotFound.
func (r *SuiteRepository) ByID(ctx context.Context, id domainsuites.SuiteID) (*domainsuites.Suite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	suite, ok := r.items[id]
	if !ok {
		return nil, domainsuites.ErrNotFound
	}
	return suite, nil
}

// Save stores/updates a suite entry.
func (r *SuiteRepository) Save(ctx context.Context, suite *domainsuites.Suite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	suite.Version++
	r.items[suite.ID] = suite
	return nil
}

// Search returns suites that satisfy provided filters.
func (r *SuiteRepository) Search(ctx context.Context, params domainsuites.SearchParams) (domainsuites.SearchResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	opts := params.Normalized()
	matches := make([]*domainsuites.Suite, 0, len(r.items))
	for _, suite := range r.items {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return domainsuites.SearchResult{}, ctx.Err()
			default:
			}
		}

		if opts.OnlyActive && suite.State != domainsuites.SuiteActive {
			continue
		}
		if opts.Facility != "" && suite.Facility != opts.Facility {
			continue
		}
		if len(opts.States) > 0 && !stateIncluded(suite.State, opts.States) {
			continue
		}
		if len(opts.Types) > 0 && !typeIncluded(suite.Type, opts.Types) {
			continue
		}
		if opts.LocationPrefix != "" && !strings.HasPrefix(strings.ToUpper(suite.LocationCode), opts.LocationPrefix) {
			continue
		}
		if opts.MinCapacity > 0 && suite.Capacity < opts.MinCapacity {
			continue
		}
		if opts.PriceMinCents > 0 && suite.NightlyRateCents < opts.PriceMinCents {
			continue
		}
		if opts.PriceMaxCents > 0 && suite.NightlyRateCents > opts.PriceMaxCents {
			continue
		}
		if !opts.CheckIn.IsZero() && suite.AvailableFrom.After(opts.CheckIn) {
			continue
		}
		if !tokensMatch(suite.Features, opts.Features) {
			continue
		}
		matches = append(matches, suite)
	}

	sort.Slice(matches, func(i, j int) bool {
		switch opts.Sort {
		case domainsuites.SortByPriceDesc:
			if matches[i].NightlyRateCents == matches[j].NightlyRateCents {
				return matches[i].ID < matches[j].ID
			}
			return matches[i].NightlyRateCents > matches[j].NightlyRateCents
		case domainsuites.SortByCapacityAsc:
			if matches[i].Capacity == matches[j].Capacity {
				return matches[i].ID < matches[j].ID
			}
			return matches[i].Capacity < matches[j].Capacity
		case domainsuites.SortByCapacityDesc:
			if matches[i].Capacity == matches[j].Capacity {
				return matches[i].ID < matches[j].ID
			}
			return matches[i].Capacity > matches[j].Capacity
		case domainsuites.SortByRating:
			if matches[i].Rating == matches[j].Rating {
				return matches[i].NightlyRateCents < matches[j].NightlyRateCents
			}
			return matches[i].Rating > matches[j].Rating
		case domainsuites.SortByUpdated:
			if matches[i].UpdatedAt.Equal(matches[j].UpdatedAt) {
				return matches[i].ID < matches[j].ID
			}
			return matches[i].UpdatedAt.After(matches[j].UpdatedAt)
		default:
			if matches[i].NightlyRateCents == matches[j].NightlyRateCents {
				return matches[i].ID < matches[j].ID
			}
			return matches[i].NightlyRateCents < matches[j].NightlyRateCents
		}
	})

	total := len(matches)
	start := opts.Offset
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}

	return domainsuites.SearchResult{
		Items: matches[start:end],
		Total: total,
	}, nil
}

func tokensMatch(values []string, required []string) bool {
	if len(required) == 0 {
		return true
	}
	if len(values) == 0 {
		return false
	}
	index := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.TrimSpace(strings.ToLower(value))
		if value == "" {
			continue
		}
		index[value] = struct{}{}
	}
	for _, token := range required {
		token = strings.TrimSpace(strings.ToLower(token))
		if token == "" {
			continue
		}
		if _, ok := index[token]; !ok {
			return false
		}
	}
	return true
}

func stateIncluded(state domainsuites.SuiteState, allowed []domainsuites.SuiteState) bool {
	for _, candidate := range allowed {
		if state == candidate {
			return true
		}
	}
	return false
}

func typeIncluded(value domainsuites.SuiteType, allowed []domainsuites.SuiteType) bool {
	for _, candidate := range allowed {
		if value == candidate {
			return true
		}
	}
	return false
}

// CalendarRepository keeps suite calendars in memory. Saves are guarded by the
// calendar version so that two concurrent reservations of the same suite can
// never both commit.
type CalendarRepository struct {
	mu        sync.Mutex
	calendars map[domainsuites.SuiteID]*domainavailability.SuiteCalendar
	versions  map[domainsuites.SuiteID]int64
}

// NewCalendarRepository returns an empty repository.
func NewCalendarRepository() *CalendarRepository {
	return &CalendarRepository{
		calendars: make(map[domainsuites.SuiteID]*domainavailability.SuiteCalendar),
		versions:  make(map[domainsuites.SuiteID]int64),
	}
}

// Calendar retrieves a calendar snapshot or ErrCalendarNotFound.
func (r *CalendarRepository) Calendar(ctx context.Context, id domainsuites.SuiteID) (*domainavailability.SuiteCalendar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cal, ok := r.calendars[id]
	if !ok {
		return nil, domainavailability.ErrCalendarNotFound
	}
	return cloneCalendar(cal), nil
}

// Save persists a calendar snapshot. A stale version is rejected with
// ErrConcurrentUpdate so the caller can retry from a fresh read.
func (r *CalendarRepository) Save(ctx context.Context, calendar *domainavailability.SuiteCalendar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, known := r.versions[calendar.SuiteID]
	if known && calendar.Version != current {
		return domainavailability.ErrConcurrentUpdate
	}
	calendar.Version++
	r.versions[calendar.SuiteID] = calendar.Version
	r.calendars[calendar.SuiteID] = cloneCalendar(calendar)
	return nil
}

func cloneCalendar(c *domainavailability.SuiteCalendar) *domainavailability.SuiteCalendar {
	if c == nil {
		return nil
	}
	clone := &domainavailability.SuiteCalendar{
		SuiteID:            c.SuiteID,
		Blocks:             append([]domainavailability.Block(nil), c.Blocks...),
		Version:            c.Version,
		SanitationGapHours: c.SanitationGapHours,
	}
	return clone
}

// BookingRepository stores bookings in memory.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

// NewBookingRepository builds an empty booking repo.
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

// ByID fetches a booking.
func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	booking, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	return booking, nil
}

// Save stores the current booking state.
func (r *BookingRepository) Save(ctx context.Context, booking *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking.Version++
	r.items[booking.ID] = booking
	return nil
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id := strings.TrimSpace(customerID)
	matches := make([]*domainbooking.Booking, 0)
	for _, booking := range r.items {
		if booking.CustomerID == id {
			matches = append(matches, booking)
		}
	}
	sortByNewest(matches)
	return matches, nil
}

func (r *BookingRepository) ListByFacility(ctx context.Context, facilityID domainsuites.FacilityID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainbooking.Booking, 0)
	for _, booking := range r.items {
		if booking.FacilityID == facilityID {
			matches = append(matches, booking)
		}
	}
	sortByNewest(matches)
	return matches, nil
}

func (r *BookingRepository) ListPendingBefore(ctx context.Context, cutoff time.Time) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainbooking.Booking, 0)
	for _, booking := range r.items {
		if booking.State == domainbooking.StatePending && booking.CreatedAt.Before(cutoff) {
			matches = append(matches, booking)
		}
	}
	sortByNewest(matches)
	return matches, nil
}

func sortByNewest(bookings []*domainbooking.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].CreatedAt.Equal(bookings[j].CreatedAt) {
			return bookings[i].ID < bookings[j].ID
		}
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
}

// PetRepository stores pets in memory.
type PetRepository struct {
	mu    sync.RWMutex
	items map[domainpets.PetID]*domainpets.Pet
}

func NewPetRepository() *PetRepository {
	return &PetRepository{items: make(map[domainpets.PetID]*domainpets.Pet)}
}

func (r *PetRepository) ByID(ctx context.Context, id domainpets.PetID) (*domainpets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pet, ok := r.items[id]
	if !ok {
		return nil, domainpets.ErrNotFound
	}
	return pet, nil
}

func (r *PetRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domainpets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id := strings.TrimSpace(ownerID)
	matches := make([]*domainpets.Pet, 0)
	for _, pet := range r.items {
		if pet.OwnerID == id {
			matches = append(matches, pet)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].ID < matches[j].ID
	})
	return matches, nil
}

func (r *PetRepository) Save(ctx context.Context, pet *domainpets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[pet.ID] = pet
	return nil
}

// ReviewsRepository is a lightweight in-memory review store.
type ReviewsRepository struct {
	mu    sync.RWMutex
	items map[domainreviews.ReviewID]*domainreviews.Review
}

// NewReviewsRepository builds an empty reviews store.
func NewReviewsRepository() *ReviewsRepository {
	return &ReviewsRepository{items: make(map[domainreviews.ReviewID]*domainreviews.Review)}
}

func (r *ReviewsRepository) ByID(ctx context.Context, id domainreviews.ReviewID) (*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if review, ok := r.items[id]; ok {
		return review, nil
	}
	return nil, domainreviews.ErrNotFound
}

// ByBooking locates a review using booking and author identifiers.
func (r *ReviewsRepository) ByBooking(ctx context.Context, bookingID domainbooking.BookingID, authorID string) (*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, review := range r.items {
		if review.BookingID == bookingID && review.AuthorID == authorID {
			return review, nil
		}
	}
	return nil, domainreviews.ErrNotFound
}

func (r *ReviewsRepository) ListBySuite(ctx context.Context, suiteID domainsuites.SuiteID, limit, offset int) ([]*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainreviews.Review, 0)
	for _, review := range r.items {
		if review.SuiteID == suiteID {
			matches = append(matches, review)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	if offset < 0 {
		offset = 0
	}
	if offset > len(matches) {
		offset = len(matches)
	}
	matches = matches[offset:]
	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}
	return matches, nil
}

// Save writes the review entry.
func (r *ReviewsRepository) Save(ctx context.Context, review *domainreviews.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[review.ID] = review
	return nil
}
