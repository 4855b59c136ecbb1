package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainavailability "petlodge/internal/domain/availability"
	domainrange "petlodge/internal/domain/shared/daterange"
	domainsuites "petlodge/internal/domain/suites"
)

// CalendarRepository persists suite calendars with an optimistic version
// guard. A losing writer gets ErrConcurrentUpdate and must re-read before
// retrying, which keeps double reservations out of the collection.
type CalendarRepository struct {
	col *mongo.Collection
}

func NewCalendarRepository(db *mongo.Database) *CalendarRepository {
	return &CalendarRepository{col: db.Collection("agg_suite_calendar")}
}

func (r *CalendarRepository) Calendar(ctx context.Context, id domainsuites.SuiteID) (*domainavailability.SuiteCalendar, error) {
	var doc calendarDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainavailability.ErrCalendarNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *CalendarRepository) Save(ctx context.Context, calendar *domainavailability.SuiteCalendar) error {
	doc := newCalendarDocument(calendar)
	filter := bson.M{"_id": doc.ID, "version": calendar.Version}
	doc.Version = calendar.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainavailability.ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return domainavailability.ErrConcurrentUpdate
	}
	calendar.Version = doc.Version
	return nil
}

type calendarDocument struct {
	ID                 string          `bson:"_id"`
	Blocks             []blockDocument `bson:"blocks"`
	SanitationGapHours int             `bson:"sanitation_gap_hours"`
	Version            int64           `bson:"version"`
}

type blockDocument struct {
	Range     rangeDocument `bson:"range"`
	Reason    string        `bson:"reason"`
	Reference string        `bson:"reference"`
	CreatedAt int64         `bson:"created_at"`
}

func newCalendarDocument(c *domainavailability.SuiteCalendar) calendarDocument {
	blocks := make([]blockDocument, 0, len(c.Blocks))
	for _, b := range c.Blocks {
		blocks = append(blocks, blockDocument{
			Range:     rangeDocument{CheckIn: b.Range.CheckIn.UnixMilli(), CheckOut: b.Range.CheckOut.UnixMilli()},
			Reason:    string(b.Reason),
			Reference: b.Reference,
			CreatedAt: b.CreatedAt.UnixMilli(),
		})
	}
	return calendarDocument{
		ID:                 string(c.SuiteID),
		Blocks:             blocks,
		SanitationGapHours: c.SanitationGapHours,
		Version:            c.Version,
	}
}

func (d calendarDocument) toAggregate() *domainavailability.SuiteCalendar {
	blocks := make([]domainavailability.Block, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		blocks = append(blocks, domainavailability.Block{
			Range: domainrange.DateRange{
				CheckIn:  timestampToTime(b.Range.CheckIn),
				CheckOut: timestampToTime(b.Range.CheckOut),
			},
			Reason:    domainavailability.BlockReason(b.Reason),
			Reference: b.Reference,
			CreatedAt: timestampToTime(b.CreatedAt),
		})
	}
	return &domainavailability.SuiteCalendar{
		SuiteID:            domainsuites.SuiteID(d.ID),
		Blocks:             blocks,
		SanitationGapHours: d.SanitationGapHours,
		Version:            d.Version,
	}
}
