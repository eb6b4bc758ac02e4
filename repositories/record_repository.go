package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NHTran/salesboard_backend/config"
	"github.com/NHTran/salesboard_backend/models"
)

// bulkBatchSize caps documents per bulk write to stay under the backend's
// per-operation limits. Chunks run sequentially; a failure partway leaves the
// earlier chunks applied.
const bulkBatchSize = 500

type RecordRepository struct {
	collection *mongo.Collection
}

func NewRecordRepository(db *mongo.Client) *RecordRepository {
	return &RecordRepository{
		collection: config.GetCollection(db, "sales_records"),
	}
}

// FindByID returns one record by its opaque id
func (r *RecordRepository) FindByID(ctx context.Context, id string) (*models.SalesRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var record models.SalesRecord
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByNaturalKey returns the record for (dsaCode, reportDate), or nil when
// none exists
func (r *RecordRepository) FindByNaturalKey(ctx context.Context, dsaCode, reportDate string) (*models.SalesRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var record models.SalesRecord
	err := r.collection.FindOne(ctx, bson.M{
		"dsaCode":    dsaCode,
		"reportDate": reportDate,
	}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByDateRange returns all records with reportDate in [start, end].
// Fixed-width ISO dates compare correctly as strings.
func (r *RecordRepository) FindByDateRange(ctx context.Context, start, end string) ([]models.SalesRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	filter := bson.M{"reportDate": bson.M{"$gte": start, "$lte": end}}
	cursor, err := r.collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "reportDate", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.SalesRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FindAll returns every record; used by export and backup
func (r *RecordRepository) FindAll(ctx context.Context) ([]models.SalesRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "reportDate", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.SalesRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// resolveIdentity assigns id and timestamps before a save. A natural-key hit
// keeps the stored identity, so repeated saves of the same (dsaCode,
// reportDate) overwrite one document instead of accumulating copies.
func resolveIdentity(record, existing *models.SalesRecord, now time.Time) {
	if existing != nil {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	} else {
		if record.ID == "" {
			record.ID = models.NewRecordID(now)
		}
		record.CreatedAt = now
	}
	record.UpdatedAt = now
}

// Save upserts a record by its natural key: a collision on
// (dsaCode, reportDate) reuses the stored id so saves overwrite rather
// than duplicate.
func (r *RecordRepository) Save(ctx context.Context, record *models.SalesRecord) error {
	existing, err := r.FindByNaturalKey(ctx, record.DSACode, record.ReportDate)
	if err != nil {
		return err
	}

	resolveIdentity(record, existing, time.Now())

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err = r.collection.ReplaceOne(ctx,
		bson.M{"_id": record.ID},
		record,
		options.Replace().SetUpsert(true))
	return err
}

// UpdateApproval sets the approval status of one record
func (r *RecordRepository) UpdateApproval(ctx context.Context, id, approvalStatus string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"approvalStatus": approvalStatus,
			"updatedAt":      time.Now(),
		}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes one record by id
func (r *RecordRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// BulkUpsert writes records in sequential chunks, upserting by id
func (r *RecordRepository) BulkUpsert(ctx context.Context, records []models.SalesRecord) (int, error) {
	written := 0
	for start := 0; start < len(records); start += bulkBatchSize {
		end := start + bulkBatchSize
		if end > len(records) {
			end = len(records)
		}

		writes := make([]mongo.WriteModel, 0, end-start)
		for _, record := range records[start:end] {
			writes = append(writes, mongo.NewReplaceOneModel().
				SetFilter(bson.M{"_id": record.ID}).
				SetReplacement(record).
				SetUpsert(true))
		}

		chunkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		result, err := r.collection.BulkWrite(chunkCtx, writes)
		cancel()
		if err != nil {
			return written, err
		}
		written += int(result.UpsertedCount + result.ModifiedCount + result.MatchedCount)
	}
	return written, nil
}

// DeleteAll removes every record, used by the admin hard reset
func (r *RecordRepository) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
