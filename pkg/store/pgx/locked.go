package pgx

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vats98754/auto-kg/backend/pkg/common"
	"github.com/vats98754/auto-kg/backend/pkg/leaselock"
	"github.com/vats98754/auto-kg/backend/pkg/store"
)

const graphMergeLeaseKey = "graph:merge"

// LeaseLockedStorage wraps a GraphStorage and serializes upserts across
// processes with a database lease. Workers and the API server may both
// mutate the graph; the lease keeps their merge transactions from
// interleaving.
type LeaseLockedStorage struct {
	store.GraphStorage
	locks *leaselock.Client
}

func NewLeaseLockedStorage(inner store.GraphStorage, pool *pgxpool.Pool) *LeaseLockedStorage {
	return &LeaseLockedStorage{
		GraphStorage: inner,
		locks:        leaselock.New(pool),
	}
}

func (s *LeaseLockedStorage) UpsertGraph(
	ctx context.Context,
	concepts []common.Concept,
	relationships []common.Relationship,
) (*common.UpsertSummary, error) {
	var summary *common.UpsertSummary
	err := s.locks.WithLease(ctx, graphMergeLeaseKey, leaselock.Options{
		TTL:        2 * time.Minute,
		RenewEvery: 45 * time.Second,
		Wait:       true,
	}, func(ctx context.Context) error {
		var err error
		summary, err = s.GraphStorage.UpsertGraph(ctx, concepts, relationships)
		return err
	})
	return summary, err
}
