package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"time"

	"campsite/internal/app/commands"
)

// IdempotentCommand is implemented by commands that carry a client dedupe key.
// A repeated key replays the stored outcome instead of re-running the handler,
// so a retried POST never books the same dates twice.
type IdempotentCommand interface {
	commands.Command
	IdempotencyKey() string
	// ResultPrototype returns a pointer the stored payload decodes into; it
	// must match the handler's result type.
	ResultPrototype() any
}

type IdempotencyRecord struct {
	Key        string
	Payload    []byte
	Error      string
	OccurredAt time.Time
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string) (IdempotencyRecord, bool, error)
	Save(ctx context.Context, rec IdempotencyRecord) error
}

// ResultCodec serializes handler results for replay. JSON unless told otherwise.
type ResultCodec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, out any) error
}

type JSONResultCodec struct{}

func (JSONResultCodec) Encode(v any) ([]byte, error) { return json.Marshal(v) }

func (JSONResultCodec) Decode(data []byte, out any) error { return json.Unmarshal(data, out) }

var errMissingPrototype = errors.New("middleware: idempotent command returned nil result prototype")

// Idempotency replays recorded outcomes for repeated command keys. Failures
// are recorded too: a retry of a command that failed deterministically gets
// the same error back without touching the domain again.
func Idempotency(store IdempotencyStore, codec ResultCodec) CommandMiddleware {
	if store == nil {
		panic("middleware: idempotency store required")
	}
	if codec == nil {
		codec = JSONResultCodec{}
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			keyed, ok := cmd.(IdempotentCommand)
			if !ok || keyed.IdempotencyKey() == "" {
				return next.Dispatch(ctx, cmd)
			}
			key := keyed.IdempotencyKey()

			if rec, found, err := store.Get(ctx, key); err != nil {
				return nil, err
			} else if found {
				return replay(codec, keyed, rec)
			}

			result, err := next.Dispatch(ctx, cmd)
			rec := IdempotencyRecord{Key: key, OccurredAt: time.Now().UTC()}
			if err != nil {
				rec.Error = err.Error()
				if saveErr := store.Save(ctx, rec); saveErr != nil {
					return nil, errors.Join(err, saveErr)
				}
				return nil, err
			}
			if result != nil {
				if rec.Payload, err = codec.Encode(result); err != nil {
					return nil, err
				}
			}
			if err := store.Save(ctx, rec); err != nil {
				return nil, err
			}
			return result, nil
		})
	}
}

func replay(codec ResultCodec, cmd IdempotentCommand, rec IdempotencyRecord) (any, error) {
	if rec.Error != "" {
		return nil, errors.New(rec.Error)
	}
	proto := cmd.ResultPrototype()
	if proto == nil {
		return nil, errMissingPrototype
	}
	if err := codec.Decode(rec.Payload, proto); err != nil {
		return nil, err
	}
	if rv := reflect.ValueOf(proto); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return nil, errMissingPrototype
	}
	return proto, nil
}
