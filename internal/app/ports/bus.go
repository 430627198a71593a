package ports

import (
	"context"
	"time"
	"voightkampff/internal/app/domain/event"
)

type BusPort interface {
	EmitUtterance(ctx context.Context, text, lang, session string) error
	Messages(msgType string) []event.Message
	Clear()
	WaitWhileSpeaking(timeout time.Duration)
	Close() error
}
