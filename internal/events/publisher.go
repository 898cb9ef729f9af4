package events

import (
	"context"
	"encoding/json"
	"time"

	"pointledger/internal/logger"
	"pointledger/internal/point"

	"github.com/redis/go-redis/v9"
)

const queueKey = "point:transactions"

// TransactionEvent is the wire form of one committed charge/use,
// pushed onto a redis list for downstream consumers (audit feeds,
// notifications). The ledger itself never reads these back.
type TransactionEvent struct {
	UserID     int64     `json:"user_id"`
	Amount     int64     `json:"amount"`
	Type       string    `json:"type"`
	Balance    int64     `json:"balance"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher struct {
	redis *redis.Client
}

func New(redisAddr string) *Publisher {
	return &Publisher{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
	}
}

// NewWithClient exists for tests.
func NewWithClient(client *redis.Client) *Publisher {
	return &Publisher{redis: client}
}

func (p *Publisher) PublishTransaction(ctx context.Context, userID, amount int64, txType point.TransactionType, balance int64) error {
	ev := TransactionEvent{
		UserID:     userID,
		Amount:     amount,
		Type:       string(txType),
		Balance:    balance,
		OccurredAt: time.Now(),
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	if err := p.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		return err
	}

	logger.Debugf("transaction event queued: %s %d for user %d", ev.Type, ev.Amount, ev.UserID)
	return nil
}

func (p *Publisher) QueueLength(ctx context.Context) int64 {
	length, _ := p.redis.LLen(ctx, queueKey).Result()
	return length
}

func (p *Publisher) Close() error {
	return p.redis.Close()
}
