package point

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// PostgresRepository stores balances and history in Postgres. The
// service serializes writers per user, so these statements do not need
// row locks of their own.
type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) SelectByID(ctx context.Context, userID int64) (UserPoint, error) {
	var up UserPoint
	err := r.db.GetContext(ctx, &up,
		`SELECT user_id, point, update_millis FROM user_points WHERE user_id = $1`,
		userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return EmptyUserPoint(userID, time.Now().UnixMilli()), nil
	}
	if err != nil {
		return UserPoint{}, err
	}
	return up, nil
}

func (r *PostgresRepository) SelectHistoryByUserID(ctx context.Context, userID int64) ([]PointHistory, error) {
	histories := []PointHistory{}
	err := r.db.SelectContext(ctx, &histories, `
		SELECT id, user_id, amount, type, update_millis
		FROM point_histories
		WHERE user_id = $1
		ORDER BY id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	return histories, nil
}

func (r *PostgresRepository) InsertOrUpdate(ctx context.Context, userID, points int64) (UserPoint, error) {
	var up UserPoint
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO user_points (user_id, point, update_millis)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET point = $2, update_millis = $3
		RETURNING user_id, point, update_millis
	`, userID, points, time.Now().UnixMilli()).StructScan(&up)
	if err != nil {
		return UserPoint{}, err
	}
	return up, nil
}

func (r *PostgresRepository) InsertHistory(ctx context.Context, userID, amount int64, txType TransactionType, updateMillis int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO point_histories (user_id, amount, type, update_millis)
		VALUES ($1, $2, $3, $4)
	`, userID, amount, txType, updateMillis)
	return err
}
