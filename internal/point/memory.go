package point

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository keeps balances and history in process memory. It is
// the default backend when no database is configured and the backend
// the integration tests run against. Data does not survive a restart.
type MemoryRepository struct {
	mu        sync.RWMutex
	points    map[int64]UserPoint
	histories map[int64][]PointHistory
	nextID    int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		points:    make(map[int64]UserPoint),
		histories: make(map[int64][]PointHistory),
	}
}

func (r *MemoryRepository) SelectByID(ctx context.Context, userID int64) (UserPoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if up, ok := r.points[userID]; ok {
		return up, nil
	}
	// A never-charged user gets a zero-balance default stamped at read
	// time; the timestamp differs per call until a first write pins it.
	return EmptyUserPoint(userID, time.Now().UnixMilli()), nil
}

func (r *MemoryRepository) SelectHistoryByUserID(ctx context.Context, userID int64) ([]PointHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src := r.histories[userID]
	// Copy so callers get a snapshot, not the live slice.
	out := make([]PointHistory, len(src))
	copy(out, src)
	return out, nil
}

func (r *MemoryRepository) InsertOrUpdate(ctx context.Context, userID, points int64) (UserPoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	up := UserPoint{UserID: userID, Point: points, UpdateMillis: time.Now().UnixMilli()}
	r.points[userID] = up
	return up, nil
}

func (r *MemoryRepository) InsertHistory(ctx context.Context, userID, amount int64, txType TransactionType, updateMillis int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	r.histories[userID] = append(r.histories[userID], PointHistory{
		ID:           r.nextID,
		UserID:       userID,
		Amount:       amount,
		Type:         txType,
		UpdateMillis: updateMillis,
	})
	return nil
}
