package svg

import (
	"strings"
	"sync"

	"github.com/gogpu/svg/geom"
)

// MouseEventType distinguishes clicks from moves.
type MouseEventType uint8

const (
	MouseClickEvent MouseEventType = iota
	MouseMoveEvent
)

func (t MouseEventType) String() string {
	if t == MouseMoveEvent {
		return "mousemove"
	}
	return "click"
}

// MouseEvent is delivered to handlers registered with Element.OnClick
// and Element.OnMouseMove.
type MouseEvent struct {
	Type MouseEventType
	// X and Y are in surface pixels.
	X, Y float64
	// Target is the topmost element hit; Current is the element whose
	// handler runs, Target or one of its ancestors.
	Target  *Element
	Current *Element
}

type queuedEvent struct {
	typ  MouseEventType
	x, y float64
}

// mouseState queues pointer events between frames and hit tests them
// during the next paint.
type mouseState struct {
	mu      sync.Mutex
	pending []queuedEvent
	cursor  string

	// Touched only while painting.
	frame []queuedEvent
	hits  []*Element
}

// MouseClick queues a click at surface pixel (x, y). It is hit tested
// and dispatched during the next painted frame.
func (d *Document) MouseClick(x, y float64) {
	d.mouse.queue(queuedEvent{typ: MouseClickEvent, x: x, y: y})
}

// MouseMove queues a pointer move to surface pixel (x, y).
func (d *Document) MouseMove(x, y float64) {
	d.mouse.queue(queuedEvent{typ: MouseMoveEvent, x: x, y: y})
}

// Cursor returns the cursor style of the element under the pointer after
// the last dispatched move, "default" when there is none.
func (d *Document) Cursor() string {
	d.mouse.mu.Lock()
	defer d.mouse.mu.Unlock()
	if d.mouse.cursor == "" {
		return "default"
	}
	return d.mouse.cursor
}

func (m *mouseState) queue(ev queuedEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, ev)
}

func (m *mouseState) hasPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending) > 0
}

// beginFrame takes the queued events for hit testing in this frame.
func (m *mouseState) beginFrame() {
	m.mu.Lock()
	m.frame, m.pending = m.pending, nil
	m.mu.Unlock()
	m.hits = make([]*Element, len(m.frame))
}

// record hit tests the device-space box of a painted element. Elements
// painted later are on top and replace earlier hits.
func (m *mouseState) record(e *Element, box geom.BoundingBox) {
	if box.IsEmpty() {
		return
	}
	for i, ev := range m.frame {
		if box.Contains(ev.x, ev.y) {
			m.hits[i] = e
		}
	}
}

// dispatchMouse delivers the events of the frame, bubbling from the
// target to the root. Handlers run with the document locked for
// painting and must not call Render or Frame.
func (d *Document) dispatchMouse() {
	m := &d.mouse
	frame, hits := m.frame, m.hits
	m.frame, m.hits = nil, nil

	for i, ev := range frame {
		target := hits[i]
		if ev.typ == MouseMoveEvent {
			cursor := ""
			if target != nil {
				cursor = strings.TrimSpace(target.Style("cursor").String())
				if cursor == "auto" {
					cursor = ""
				}
			}
			m.mu.Lock()
			m.cursor = cursor
			m.mu.Unlock()
		}
		if target == nil {
			continue
		}
		for el := target; el != nil; el = el.parent {
			handlers := el.onClick
			if ev.typ == MouseMoveEvent {
				handlers = el.onMouseMove
			}
			for _, fn := range handlers {
				fn(MouseEvent{Type: ev.typ, X: ev.x, Y: ev.y, Target: target, Current: el})
			}
		}
	}
}
