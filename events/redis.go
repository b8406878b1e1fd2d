package events

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultStream is the redis stream ledger events are appended to.
const DefaultStream = "okinoko.ledger.events"

// RedisSink appends events to a redis stream so indexers and bots can follow the ledger.
type RedisSink struct {
	rdb    *redis.Client
	stream string
}

// NewRedisSink connects to the redis url (redis://host:port/db).
func NewRedisSink(url, stream string) (*RedisSink, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisSink{rdb: redis.NewClient(opt), stream: stream}, nil
}

func (s *RedisSink) Emit(ctx context.Context, event Event) error {
	_, err := s.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: streamValues(event),
	}).Result()
	if err != nil {
		return fmt.Errorf("redis xadd %s: %w", s.stream, err)
	}
	return nil
}

// Close releases the client connection pool.
func (s *RedisSink) Close() error {
	return s.rdb.Close()
}

// streamValues flattens an event into the field map XADD stores.
func streamValues(event Event) map[string]interface{} {
	values := make(map[string]interface{}, len(event.Fields)+3)
	for k, v := range event.Fields {
		values[k] = v
	}
	values["kind"] = string(event.Kind)
	values["tx_id"] = event.TxID
	values["line"] = event.Line
	return values
}
