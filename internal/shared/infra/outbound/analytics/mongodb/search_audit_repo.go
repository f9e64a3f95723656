package mongodb

import (
	"context"
	"fmt"
	"time"

	sharedEvents "github.com/davicafu/hexasearch/internal/shared/events"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	dayLayout        = "2006-01-02"
	duplicateKeyCode = 11000
)

// SearchAuditRepo guarda las búsquedas auditadas en una colección de MongoDB.
type SearchAuditRepo struct {
	coll *mongo.Collection
}

var (
	_ sharedEvents.AuditSink  = (*SearchAuditRepo)(nil)
	_ sharedEvents.AuditStats = (*SearchAuditRepo)(nil)
)

func NewSearchAuditRepo(ctx context.Context, client *mongo.Client, dbName string) (*SearchAuditRepo, error) {
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("could not ping mongoDB: %w", err)
	}
	return &SearchAuditRepo{coll: client.Database(dbName).Collection("search_audit")}, nil
}

// --- Structs de BSON para el mapeo ---

type mongoSearchAudit struct {
	ID            string    `bson:"_id"`
	Entity        string    `bson:"entity"`
	Intent        string    `bson:"intent,omitempty"`
	Fields        []string  `bson:"fields"`
	CriteriaCount int       `bson:"criteriaCount"`
	Page          int       `bson:"page"`
	PageSize      int       `bson:"pageSize"`
	Rows          int       `bson:"rows"`
	TotalCount    int64     `bson:"totalCount"`
	CacheHit      bool      `bson:"cacheHit"`
	DurationMs    int64     `bson:"durationMs"`
	SQLHash       string    `bson:"sqlHash"`
	OccurredAt    time.Time `bson:"occurredAt"`
}

type mongoDailyCount struct {
	Day        string  `bson:"_id"`
	Searches   int64   `bson:"searches"`
	CacheHits  int64   `bson:"cacheHits"`
	AvgRows    float64 `bson:"avgRows"`
	AvgLatency float64 `bson:"avgLatency"`
}

// EnsureIndexes crea el índice por entidad y fecha que usan los agregados.
func (r *SearchAuditRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "entity", Value: 1}, {Key: "occurredAt", Value: 1}},
	})
	return err
}

// SaveBatch inserta sin orden: un duplicado (reintento) no impide guardar el resto.
func (r *SearchAuditRepo) SaveBatch(ctx context.Context, batch []sharedEvents.SearchExecuted) error {
	if len(batch) == 0 {
		return nil
	}
	docs := make([]interface{}, len(batch))
	for i, e := range batch {
		docs[i] = toMongoSearchAudit(e)
	}

	_, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil && !onlyDuplicates(err) {
		return fmt.Errorf("failed to insert audit batch: %w", err)
	}
	return nil
}

func (r *SearchAuditRepo) DailySearchCounts(ctx context.Context, entity string, from, to time.Time) ([]sharedEvents.DailySearchCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"entity":     entity,
			"occurredAt": bson.M{"$gte": from, "$lte": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":        bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$occurredAt"}},
			"searches":   bson.M{"$sum": 1},
			"cacheHits":  bson.M{"$sum": bson.M{"$cond": bson.A{"$cacheHit", 1, 0}}},
			"avgRows":    bson.M{"$avg": "$rows"},
			"avgLatency": bson.M{"$avg": "$durationMs"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []sharedEvents.DailySearchCount
	for cursor.Next(ctx) {
		var m mongoDailyCount
		if err := cursor.Decode(&m); err != nil {
			return nil, err
		}
		day, err := time.Parse(dayLayout, m.Day)
		if err != nil {
			return nil, fmt.Errorf("unexpected day bucket %q: %w", m.Day, err)
		}
		out = append(out, sharedEvents.DailySearchCount{
			Day: day, Searches: m.Searches, CacheHits: m.CacheHits,
			AvgRows: m.AvgRows, AvgLatency: m.AvgLatency,
		})
	}
	return out, cursor.Err()
}

// --- Helpers de Mapeo ---

func toMongoSearchAudit(e sharedEvents.SearchExecuted) *mongoSearchAudit {
	return &mongoSearchAudit{
		ID: e.ID.String(), Entity: e.Entity, Intent: e.Intent, Fields: e.Fields,
		CriteriaCount: e.CriteriaCount, Page: e.Page, PageSize: e.PageSize,
		Rows: e.Rows, TotalCount: e.TotalCount, CacheHit: e.CacheHit,
		DurationMs: e.DurationMs, SQLHash: e.SQLHash, OccurredAt: e.OccurredAt,
	}
}

func onlyDuplicates(err error) bool {
	bwe, ok := err.(mongo.BulkWriteException)
	if !ok || bwe.WriteConcernError != nil || len(bwe.WriteErrors) == 0 {
		return false
	}
	for _, we := range bwe.WriteErrors {
		if we.Code != duplicateKeyCode {
			return false
		}
	}
	return true
}
