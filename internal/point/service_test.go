package point

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) SelectByID(ctx context.Context, userID int64) (UserPoint, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(UserPoint), args.Error(1)
}

func (m *MockRepository) SelectHistoryByUserID(ctx context.Context, userID int64) ([]PointHistory, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PointHistory), args.Error(1)
}

func (m *MockRepository) InsertOrUpdate(ctx context.Context, userID, points int64) (UserPoint, error) {
	args := m.Called(ctx, userID, points)
	return args.Get(0).(UserPoint), args.Error(1)
}

func (m *MockRepository) InsertHistory(ctx context.Context, userID, amount int64, txType TransactionType, updateMillis int64) error {
	args := m.Called(ctx, userID, amount, txType, updateMillis)
	return args.Error(0)
}

func TestService_Get(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil, time.Second)

	mockRepo.On("SelectByID", mock.Anything, int64(1)).
		Return(UserPoint{UserID: 1, Point: 100, UpdateMillis: 1000}, nil)

	up, err := service.Get(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, int64(100), up.Point)
	mockRepo.AssertExpectations(t)
}

func TestService_GetHistory(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil, time.Second)

	mockRepo.On("SelectHistoryByUserID", mock.Anything, int64(1)).Return([]PointHistory{
		{ID: 1, UserID: 1, Amount: 100, Type: TypeCharge},
		{ID: 2, UserID: 1, Amount: 200, Type: TypeCharge},
		{ID: 3, UserID: 1, Amount: 50, Type: TypeUse},
	}, nil)

	histories, err := service.GetHistory(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, histories, 3)
	assert.Equal(t, int64(100), histories[0].Amount)
	mockRepo.AssertExpectations(t)
}

func TestService_Charge(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil, time.Second)

	mockRepo.On("SelectByID", mock.Anything, int64(1)).
		Return(UserPoint{UserID: 1, Point: 100}, nil)
	mockRepo.On("InsertHistory", mock.Anything, int64(1), int64(50), TypeCharge, mock.Anything).
		Return(nil)
	mockRepo.On("InsertOrUpdate", mock.Anything, int64(1), int64(150)).
		Return(UserPoint{UserID: 1, Point: 150}, nil)

	up, err := service.Charge(context.Background(), 1, 50)

	require.NoError(t, err)
	assert.Equal(t, int64(150), up.Point)
	mockRepo.AssertExpectations(t)
}

func TestService_Use(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil, time.Second)

	mockRepo.On("SelectByID", mock.Anything, int64(1)).
		Return(UserPoint{UserID: 1, Point: 100}, nil)
	mockRepo.On("InsertHistory", mock.Anything, int64(1), int64(50), TypeUse, mock.Anything).
		Return(nil)
	mockRepo.On("InsertOrUpdate", mock.Anything, int64(1), int64(50)).
		Return(UserPoint{UserID: 1, Point: 50}, nil)

	up, err := service.Use(context.Background(), 1, 50)

	require.NoError(t, err)
	assert.Equal(t, int64(50), up.Point)
	mockRepo.AssertExpectations(t)
}

func TestService_ChargeValidationFailureWritesNothing(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil, time.Second)

	mockRepo.On("SelectByID", mock.Anything, int64(1)).
		Return(UserPoint{UserID: 1, Point: 5000}, nil)

	_, err := service.Charge(context.Background(), 1, 5001)

	require.Error(t, err)
	assert.Equal(t, KindLimitExceeded, KindOf(err))
	mockRepo.AssertNotCalled(t, "InsertHistory", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "InsertOrUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_UseValidationFailureWritesNothing(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil, time.Second)

	mockRepo.On("SelectByID", mock.Anything, int64(1)).
		Return(UserPoint{UserID: 1, Point: 0}, nil)

	_, err := service.Use(context.Background(), 1, 1)

	require.Error(t, err)
	assert.Equal(t, KindInsufficientBalance, KindOf(err))
	mockRepo.AssertNotCalled(t, "InsertOrUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_StoreErrorPropagatesAsInternal(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil, time.Second)

	mockRepo.On("SelectByID", mock.Anything, int64(1)).
		Return(UserPoint{}, assert.AnError)

	_, err := service.Charge(context.Background(), 1, 100)

	require.Error(t, err)
	assert.Equal(t, KindInternal, KindOf(err))
	assert.False(t, IsBusiness(err))
}

// orderRepo records the call sequence so the append-before-commit
// contract can be checked.
type orderRepo struct {
	*MemoryRepository
	calls []string
}

func (r *orderRepo) InsertHistory(ctx context.Context, userID, amount int64, txType TransactionType, updateMillis int64) error {
	r.calls = append(r.calls, "history")
	return r.MemoryRepository.InsertHistory(ctx, userID, amount, txType, updateMillis)
}

func (r *orderRepo) InsertOrUpdate(ctx context.Context, userID, points int64) (UserPoint, error) {
	r.calls = append(r.calls, "balance")
	return r.MemoryRepository.InsertOrUpdate(ctx, userID, points)
}

func TestService_HistoryAppendPrecedesBalanceWrite(t *testing.T) {
	repo := &orderRepo{MemoryRepository: NewMemoryRepository()}
	service := NewService(repo, nil, time.Second)

	_, err := service.Charge(context.Background(), 1, 100)

	require.NoError(t, err)
	require.Equal(t, []string{"history", "balance"}, repo.calls)
}

// lockCheckSink records whether the user's lock was free at publish
// time by trying to take it itself.
type lockCheckSink struct {
	locks     *LockRegistry
	published bool
	lockFree  bool
}

func (p *lockCheckSink) PublishTransaction(ctx context.Context, userID, amount int64, txType TransactionType, balance int64) error {
	p.published = true
	waitCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	if release, err := p.locks.Acquire(waitCtx, userID); err == nil {
		p.lockFree = true
		release()
	}
	return nil
}

func TestService_PublishRunsOutsideCriticalSection(t *testing.T) {
	sink := &lockCheckSink{}
	svc := NewService(NewMemoryRepository(), sink, time.Second).(*service)
	sink.locks = svc.locks

	_, err := svc.Charge(context.Background(), 1, 100)

	require.NoError(t, err)
	assert.True(t, sink.published)
	assert.True(t, sink.lockFree)
}

type failingSink struct{}

func (failingSink) PublishTransaction(ctx context.Context, userID, amount int64, txType TransactionType, balance int64) error {
	return assert.AnError
}

func TestService_PublishFailureDoesNotFailOperation(t *testing.T) {
	svc := NewService(NewMemoryRepository(), failingSink{}, time.Second)

	up, err := svc.Charge(context.Background(), 1, 100)

	require.NoError(t, err)
	assert.Equal(t, int64(100), up.Point)
}

func TestService_NoPublishOnValidationFailure(t *testing.T) {
	sink := &lockCheckSink{}
	svc := NewService(NewMemoryRepository(), sink, time.Second).(*service)
	sink.locks = svc.locks

	_, err := svc.Use(context.Background(), 1, 1)

	require.Error(t, err)
	assert.False(t, sink.published)
}

func TestService_LockTimeout(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, nil, 20*time.Millisecond).(*service)

	// Hold user 1's lock so the charge can never acquire it.
	release, err := svc.locks.Acquire(context.Background(), 1)
	require.NoError(t, err)
	defer release()

	_, err = svc.Charge(context.Background(), 1, 100)

	require.Error(t, err)
	assert.Equal(t, KindLockTimeout, KindOf(err))
	assert.False(t, IsBusiness(err))

	// No record, no balance change.
	histories, err := svc.GetHistory(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, histories)
}
