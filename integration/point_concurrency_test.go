package integration

import (
	"context"
	"sync"
	"testing"

	"pointledger/internal/point"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const workerCount = 10

// Concurrent charges on one user must serialize: no lost updates.
func TestConcurrentCharges_SameUser(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Charge(ctx, 1, 1000)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.Charge(ctx, 1, 100)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	up, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), up.Point)

	// One record per committed charge, plus the initial one.
	histories, err := svc.GetHistory(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, histories, workerCount+1)
}

// Under contention the limit must hold: once the balance reaches
// MaxPoints, further charges fail and the invariant 0 <= balance <=
// 10000 is never violated.
func TestConcurrentCharges_LimitHolds(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Charge(ctx, 1, 1000)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go func() {
			defer wg.Done()
			// Some of these may fail once the limit is near; that is
			// the point of the test.
			svc.Charge(ctx, 1, 1000)
		}()
	}
	wg.Wait()

	up, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.LessOrEqual(t, up.Point, point.MaxPoints)
	assert.GreaterOrEqual(t, up.Point, int64(0))

	// The balance sits at 10000 now, so one more charge must fail.
	_, err = svc.Charge(ctx, 1, 1000)
	require.Error(t, err)
	assert.EqualError(t, err, "cannot exceed 10,000 points")
}

// Operations on distinct users proceed independently and each user
// converges to its own correct balance.
func TestConcurrentCharges_DistinctUsers(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	userIDs := make([]int64, 0, workerCount)
	for id := int64(1); id <= workerCount; id++ {
		userIDs = append(userIDs, id)
		_, err := svc.Charge(ctx, id, 1000)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	wg.Add(len(userIDs))
	for _, id := range userIDs {
		go func(userID int64) {
			defer wg.Done()
			_, err := svc.Charge(ctx, userID, 100)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	for _, id := range userIDs {
		up, err := svc.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(1100), up.Point)
	}
}

// Mixed charges and uses on one user keep the balance exact.
func TestConcurrentChargeAndUse_SameUser(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Charge(ctx, 1, 5000)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(workerCount * 2)
	for i := 0; i < workerCount; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.Charge(ctx, 1, 100)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := svc.Use(ctx, 1, 100)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// 5000 + 10*100 - 10*100
	up, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), up.Point)

	histories, err := svc.GetHistory(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, histories, workerCount*2+1)
}
