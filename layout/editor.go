package layout

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/taplink-saas/apperrors"
)

var (
	ErrGestureActive = errors.New("another table is already being moved or resized")
	ErrNoGesture     = errors.New("no table is being moved or resized")
)

type gestureKind int

const (
	gestureDrag gestureKind = iota + 1
	gestureResize
)

type gesture struct {
	kind   gestureKind
	key    string
	origin Table
}

// Editor holds a plan being edited and the single gesture in progress.
// It is driven from one input loop and is not safe for concurrent use.
// Pointer deltas are measured from where the gesture began.
type Editor struct {
	plan   Plan
	active *gesture
}

func NewEditor(plan Plan) *Editor {
	plan.Tables = append([]Table(nil), plan.Tables...)
	return &Editor{plan: plan}
}

// Plan returns a copy of the current layout.
func (e *Editor) Plan() Plan {
	p := e.plan
	p.Tables = append([]Table(nil), e.plan.Tables...)
	return p
}

func (e *Editor) BeginDrag(key string) error {
	return e.begin(gestureDrag, key)
}

func (e *Editor) BeginResize(key string) error {
	return e.begin(gestureResize, key)
}

func (e *Editor) begin(kind gestureKind, key string) error {
	if e.active != nil {
		return ErrGestureActive
	}
	t, ok := e.plan.find(key)
	if !ok {
		return apperrors.NotFound(fmt.Sprintf("table %q", key))
	}
	e.active = &gesture{kind: kind, key: key, origin: t}
	return nil
}

// PointerMove recomputes the active table's geometry for a pointer delta
// relative to the gesture start. Attribute edits made during the gesture are kept.
func (e *Editor) PointerMove(dx, dy float64) (Table, error) {
	if e.active == nil {
		return Table{}, ErrNoGesture
	}

	var g Table
	switch e.active.kind {
	case gestureDrag:
		g = moveFrom(e.plan, e.active.origin, dx, dy)
	case gestureResize:
		g = resizeFrom(e.plan, e.active.origin, dx, dy)
	}

	t, ok := e.plan.find(e.active.key)
	if !ok {
		e.active = nil
		return Table{}, ErrNoGesture
	}
	t.X, t.Y, t.Width, t.Height = g.X, g.Y, g.Width, g.Height
	e.replace(t)
	return t, nil
}

// EndGesture finishes the current drag or resize. It is a no-op when idle.
func (e *Editor) EndGesture() {
	e.active = nil
}

// Active reports the key of the table under a gesture.
func (e *Editor) Active() (string, bool) {
	if e.active == nil {
		return "", false
	}
	return e.active.key, true
}

func (e *Editor) AddTable() Table {
	t := AddTable(e.plan)
	e.plan.Tables = append(e.plan.Tables, t)
	return t
}

func (e *Editor) RemoveTable(key string) error {
	for i, t := range e.plan.Tables {
		if t.Key != key {
			continue
		}
		if e.active != nil && e.active.key == key {
			e.active = nil
		}
		e.plan.Tables = append(e.plan.Tables[:i], e.plan.Tables[i+1:]...)
		return nil
	}
	return apperrors.NotFound(fmt.Sprintf("table %q", key))
}

// UpdateTable replaces the non-geometric attributes of a table.
func (e *Editor) UpdateTable(key, number string, label *string, seats int) (Table, error) {
	t, ok := e.plan.find(key)
	if !ok {
		return Table{}, apperrors.NotFound(fmt.Sprintf("table %q", key))
	}
	t.Number = number
	t.Label = label
	t.Seats = seats
	e.replace(t)
	return t, nil
}

// Validate runs the pre-save check on the current table set.
func (e *Editor) Validate() error {
	return ValidateLayout(e.plan.Tables)
}

func (e *Editor) replace(t Table) {
	for i := range e.plan.Tables {
		if e.plan.Tables[i].Key == t.Key {
			e.plan.Tables[i] = t
			return
		}
	}
}
