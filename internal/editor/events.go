package editor

import (
	"context"
	"errors"
	"io"

	"posterdesk/internal/domain"
)

// Event is an input event delivered by an EventSource.
// Implementations are PointerEvent and WheelEvent.
type Event interface {
	isEvent()
}

type PointerKind string

const (
	PointerDownKind  PointerKind = "down"
	PointerMoveKind  PointerKind = "move"
	PointerUpKind    PointerKind = "up"
	PointerLeaveKind PointerKind = "leave"
)

// PointerEvent is a view-space pointer event. Target is only read for
// PointerDownKind.
type PointerEvent struct {
	Kind   PointerKind  `json:"kind"`
	Pos    domain.Point `json:"pos"`
	Target HitTarget    `json:"target"`
}

// WheelEvent is a wheel tick. Modifier reports whether the zoom modifier
// (ctrl or cmd) was held. Suppress cancels the platform default for the
// event and may be nil when there is nothing to cancel.
type WheelEvent struct {
	DeltaY   float64 `json:"deltaY"`
	Modifier bool    `json:"modifier"`
	Suppress func()  `json:"-"`
}

func (PointerEvent) isEvent() {}
func (WheelEvent) isEvent()   {}

// EventSource yields input events. Next blocks until an event is available
// and returns io.EOF once the source is exhausted.
type EventSource interface {
	Next(ctx context.Context) (Event, error)
}

// Dispatch applies a single event. For wheel events it reports whether the
// event was consumed; pointer events always report false.
func (e *Editor) Dispatch(ev Event) bool {
	switch v := ev.(type) {
	case PointerEvent:
		switch v.Kind {
		case PointerDownKind:
			e.PointerDown(v.Target, v.Pos)
		case PointerMoveKind:
			e.PointerMove(v.Pos)
		case PointerUpKind:
			e.PointerUp()
		case PointerLeaveKind:
			e.PointerLeave()
		}
	case WheelEvent:
		return e.OnWheel(v)
	}
	return false
}

// Pump drains src, dispatching each event in order. It returns nil when the
// source reports io.EOF and the context or source error otherwise.
func (e *Editor) Pump(ctx context.Context, src EventSource) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		e.Dispatch(ev)
	}
}

// SliceSource replays a fixed list of events.
type SliceSource struct {
	events []Event
	pos    int
}

func NewSliceSource(events ...Event) *SliceSource {
	return &SliceSource{events: events}
}

func (s *SliceSource) Next(ctx context.Context) (Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.events) {
		return nil, io.EOF
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}

// Gesture builds the down/move/up sequence of a single pointer gesture.
func Gesture(target HitTarget, from domain.Point, path ...domain.Point) []Event {
	events := make([]Event, 0, len(path)+2)
	events = append(events, PointerEvent{Kind: PointerDownKind, Pos: from, Target: target})
	for _, p := range path {
		events = append(events, PointerEvent{Kind: PointerMoveKind, Pos: p})
	}
	return append(events, PointerEvent{Kind: PointerUpKind})
}
