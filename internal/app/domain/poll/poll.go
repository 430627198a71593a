package poll

import (
	"fmt"
	"strings"
	"time"
	"voightkampff/internal/app/domain/event"
)

const (
	defaultInterval = time.Second
	defaultAttempts = 10
)

// Source is where accumulated bus traffic is read from. Snapshots are
// append-only and time-ordered; the poller only ever observes them.
type Source interface {
	Messages(msgType string) []event.Message
}

// Check inspects one message and reports whether it satisfies the
// assertion, plus a human-readable note for the trace.
type Check func(msg event.Message) (bool, string)

// Result carries the outcome of a Wait: the matching message on
// success, and on either outcome the full comparison trace and every
// message of the watched type observed during the window.
type Result struct {
	OK       bool
	Matched  event.Message
	Trace    string
	Observed []event.Message
}

// Poller retries a Check against newly arrived messages at a fixed
// interval for a bounded number of attempts. The sleep function is a
// field so tests can substitute a fake clock.
type Poller struct {
	Interval    time.Duration
	MaxAttempts int

	sleep func(time.Duration)
}

func New() *Poller {
	return &Poller{
		Interval:    defaultInterval,
		MaxAttempts: defaultAttempts,
		sleep:       time.Sleep,
	}
}

// NewWithSleep is New with the sleep function replaced, for tests.
func NewWithSleep(interval time.Duration, attempts int, sleep func(time.Duration)) *Poller {
	return &Poller{Interval: interval, MaxAttempts: attempts, sleep: sleep}
}

// Wait drains messages of msgType from the source, applying check to
// each in arrival order. Messages already checked in an earlier
// iteration are not re-checked. The first satisfied check wins; when
// every attempt is exhausted the Result reports failure with the
// accumulated trace.
func (p *Poller) Wait(src Source, msgType string, check Check) Result {
	var trace strings.Builder
	cursor := 0

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		msgs := src.Messages(msgType)
		for ; cursor < len(msgs); cursor++ {
			ok, note := check(msgs[cursor])
			if note != "" {
				trace.WriteString(note)
				trace.WriteByte('\n')
			}
			if ok {
				return Result{
					OK:       true,
					Matched:  msgs[cursor],
					Trace:    trace.String(),
					Observed: msgs,
				}
			}
		}
		p.sleep(p.Interval)
	}

	return Result{
		Trace:    trace.String(),
		Observed: src.Messages(msgType),
	}
}

// Exactly passes when the message's spoken text equals text, case
// insensitively.
func Exactly(text string) Check {
	want := strings.ToLower(text)
	return func(msg event.Message) (bool, string) {
		utt := strings.ToLower(msg.Utterance())
		return utt == want, fmt.Sprintf("comparing %q with expected %q", utt, want)
	}
}

// Contains passes when text is a substring of the message's spoken
// text, case insensitively.
func Contains(text string) Check {
	want := strings.ToLower(text)
	return func(msg event.Message) (bool, string) {
		utt := strings.ToLower(msg.Utterance())
		return strings.Contains(utt, want), fmt.Sprintf("checking if %q contains %q", utt, want)
	}
}

// FromDialog passes when the message reports it was generated from the
// named dialog resource. The ".dialog" extension is ignored on both
// sides.
func FromDialog(name string) Check {
	want := strings.TrimSuffix(name, ".dialog")
	return func(msg event.Message) (bool, string) {
		got := strings.TrimSuffix(msg.DialogMeta(), ".dialog")
		return got == want, fmt.Sprintf("dialog meta %q, expected %q", got, want)
	}
}

// Anything passes on any message of the watched type.
func Anything() Check {
	return func(event.Message) (bool, string) {
		return true, ""
	}
}
