package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "petlodge/internal/domain/booking"
	domainpricing "petlodge/internal/domain/pricing"
	domainrange "petlodge/internal/domain/shared/daterange"
	domainsuites "petlodge/internal/domain/suites"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("agg_booking")}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domainbooking.Booking, error) {
	return r.list(ctx, bson.M{"customer_id": customerID})
}

func (r *BookingRepository) ListByFacility(ctx context.Context, facilityID domainsuites.FacilityID) ([]*domainbooking.Booking, error) {
	return r.list(ctx, bson.M{"facility_id": string(facilityID)})
}

func (r *BookingRepository) ListPendingBefore(ctx context.Context, cutoff time.Time) ([]*domainbooking.Booking, error) {
	filter := bson.M{
		"state":      string(domainbooking.StatePending),
		"created_at": bson.M{"$lt": cutoff.UnixMilli()},
	}
	return r.list(ctx, filter)
}

func (r *BookingRepository) list(ctx context.Context, filter bson.M) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]*domainbooking.Booking, 0)
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		agg, err := doc.toAggregate()
		if err != nil {
			return nil, err
		}
		out = append(out, agg)
	}
	return out, cursor.Err()
}

type bookingDocument struct {
	ID          string                                   `bson:"_id"`
	FacilityID  string                                   `bson:"facility_id"`
	CustomerID  string                                   `bson:"customer_id"`
	PetIDs      []string                                 `bson:"pet_ids"`
	Assignments map[string][]string                      `bson:"assignments"`
	ServiceCode string                                   `bson:"service_code"`
	Range       rangeDocument                            `bson:"range"`
	Daycare     bool                                     `bson:"daycare"`
	Price       domainpricing.Breakdown                  `bson:"price"`
	State       string                                   `bson:"state"`
	Policy      domainbooking.CancellationPolicySnapshot `bson:"policy"`
	CreatedAt   int64                                    `bson:"created_at"`
	UpdatedAt   int64                                    `bson:"updated_at"`
	Version     int64                                    `bson:"version"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	assignments := make(map[string][]string, len(b.Assignments))
	for suiteID, pets := range b.Assignments {
		assignments[string(suiteID)] = append([]string(nil), pets...)
	}
	return bookingDocument{
		ID:          string(b.ID),
		FacilityID:  string(b.FacilityID),
		CustomerID:  b.CustomerID,
		PetIDs:      append([]string(nil), b.PetIDs...),
		Assignments: assignments,
		ServiceCode: b.ServiceCode,
		Range:       rangeDocument{CheckIn: b.Range.CheckIn.UnixMilli(), CheckOut: b.Range.CheckOut.UnixMilli()},
		Daycare:     b.Daycare,
		Price:       b.Price,
		State:       string(b.State),
		Policy:      b.Policy,
		CreatedAt:   b.CreatedAt.UnixMilli(),
		UpdatedAt:   b.UpdatedAt.UnixMilli(),
		Version:     b.Version,
	}
}

func (d bookingDocument) toAggregate() (*domainbooking.Booking, error) {
	dr := domainrange.DateRange{CheckIn: timestampToTime(d.Range.CheckIn), CheckOut: timestampToTime(d.Range.CheckOut)}
	assignments := make(map[domainsuites.SuiteID][]string, len(d.Assignments))
	for suiteID, pets := range d.Assignments {
		assignments[domainsuites.SuiteID(suiteID)] = append([]string(nil), pets...)
	}
	agg := &domainbooking.Booking{
		ID:          domainbooking.BookingID(d.ID),
		FacilityID:  domainsuites.FacilityID(d.FacilityID),
		CustomerID:  d.CustomerID,
		PetIDs:      append([]string(nil), d.PetIDs...),
		Assignments: assignments,
		ServiceCode: d.ServiceCode,
		Range:       dr,
		Daycare:     d.Daycare,
		Price:       d.Price,
		State:       domainbooking.BookingState(d.State),
		Policy:      d.Policy,
		CreatedAt:   timestampToTime(d.CreatedAt),
		UpdatedAt:   timestampToTime(d.UpdatedAt),
		Version:     d.Version,
	}
	return agg, nil
}

type rangeDocument struct {
	CheckIn  int64 `bson:"check_in"`
	CheckOut int64 `bson:"check_out"`
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
