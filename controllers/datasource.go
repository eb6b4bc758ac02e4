package controllers

import (
	"context"
	"log"

	"github.com/go-redis/redis/v8"

	"github.com/NHTran/salesboard_backend/models"
	"github.com/NHTran/salesboard_backend/repositories"
	"github.com/NHTran/salesboard_backend/utils"
)

// DataSource is the cache-aware read path shared by the report and dashboard
// controllers: fresh Redis mirror first, then the remote store, and the
// mirror again as the offline fallback when the remote store is unreachable.
type DataSource struct {
	userRepo   *repositories.UserRepository
	recordRepo *repositories.RecordRepository
	redis      *redis.Client
}

func NewDataSource(userRepo *repositories.UserRepository, recordRepo *repositories.RecordRepository, redisClient *redis.Client) *DataSource {
	return &DataSource{
		userRepo:   userRepo,
		recordRepo: recordRepo,
		redis:      redisClient,
	}
}

// FetchRoster returns the user roster. offline is true when the data came
// from the mirror because the remote store failed.
func (ds *DataSource) FetchRoster(ctx context.Context, forceRefresh bool) (users []models.User, offline bool, err error) {
	if !forceRefresh && utils.IsFresh(ds.redis, utils.CacheKindUsers, utils.DefaultCacheTTL) {
		if users, cacheErr := utils.LoadUsers(ds.redis); cacheErr == nil {
			return users, false, nil
		}
	}

	users, err = ds.userRepo.FindAll(ctx)
	if err != nil {
		// Degrade to the last-known mirror; staleness beats an error page
		cached, cacheErr := utils.LoadUsers(ds.redis)
		if cacheErr != nil {
			return nil, false, err
		}
		log.Printf("roster fetch failed, serving cached copy: %v", err)
		return cached, true, nil
	}

	if mirrorErr := utils.SaveUsers(ds.redis, users); mirrorErr != nil {
		log.Printf("failed to refresh roster mirror: %v", mirrorErr)
	}
	return users, false, nil
}

// FetchRecords returns the full record set with the same cache semantics as
// FetchRoster. Range narrowing happens in the reconciliation engine, keeping
// the mirror a single blob.
func (ds *DataSource) FetchRecords(ctx context.Context, forceRefresh bool) (records []models.SalesRecord, offline bool, err error) {
	if !forceRefresh && utils.IsFresh(ds.redis, utils.CacheKindRecords, utils.DefaultCacheTTL) {
		if records, cacheErr := utils.LoadRecords(ds.redis); cacheErr == nil {
			return records, false, nil
		}
	}

	records, err = ds.recordRepo.FindAll(ctx)
	if err != nil {
		cached, cacheErr := utils.LoadRecords(ds.redis)
		if cacheErr != nil {
			return nil, false, err
		}
		log.Printf("record fetch failed, serving cached copy: %v", err)
		return cached, true, nil
	}

	if mirrorErr := utils.SaveRecords(ds.redis, records); mirrorErr != nil {
		log.Printf("failed to refresh record mirror: %v", mirrorErr)
	}
	return records, false, nil
}

// RefreshRecordMirror re-snapshots the record mirror after a write.
// Best-effort: failures are logged, never surfaced, per the local-wins
// consistency model.
func (ds *DataSource) RefreshRecordMirror() {
	records, err := ds.recordRepo.FindAll(context.Background())
	if err != nil {
		log.Printf("record mirror refresh skipped: %v", err)
		return
	}
	if err := utils.SaveRecords(ds.redis, records); err != nil {
		log.Printf("record mirror refresh failed: %v", err)
	}
}

// RefreshRosterMirror re-snapshots the roster mirror after a user change
func (ds *DataSource) RefreshRosterMirror() {
	users, err := ds.userRepo.FindAll(context.Background())
	if err != nil {
		log.Printf("roster mirror refresh skipped: %v", err)
		return
	}
	if err := utils.SaveUsers(ds.redis, users); err != nil {
		log.Printf("roster mirror refresh failed: %v", err)
	}
}
