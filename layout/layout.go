// Package layout keeps floor-plan table geometry grid aligned and inside the
// canvas while tables are dragged and resized, and checks a layout before it
// is saved.
package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yeremiapane/taplink-saas/apperrors"
	"github.com/yeremiapane/taplink-saas/geometry"
)

const (
	GridSize = 24.0

	MinTableSize     = 2 * GridSize
	DefaultTableSize = 3 * GridSize
	DefaultOffset    = 2 * GridSize
	DefaultSeats     = 4

	DefaultCanvasWidth  = 800.0
	DefaultCanvasHeight = 480.0
	DefaultPlanName     = "Main"
)

// Table is one table on the canvas. ID is zero until the table is persisted;
// Key identifies the table inside the editor either way.
type Table struct {
	ID       uint     `json:"id,omitempty"`
	Key      string   `json:"key"`
	Number   string   `json:"number"`
	Label    *string  `json:"label,omitempty"`
	Seats    int      `json:"seats"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	Rotation *float64 `json:"rotation,omitempty"`
}

type Plan struct {
	ID           uint    `json:"id,omitempty"`
	Name         string  `json:"name"`
	CanvasWidth  float64 `json:"canvas_width"`
	CanvasHeight float64 `json:"canvas_height"`
	Tables       []Table `json:"tables"`
}

// KeyFor is the editor key of a persisted table.
func KeyFor(id uint) string {
	return "t" + strconv.FormatUint(uint64(id), 10)
}

func (p Plan) find(key string) (Table, bool) {
	for _, t := range p.Tables {
		if t.Key == key {
			return t, true
		}
	}
	return Table{}, false
}

// MoveTable offsets the table by the pointer delta, snaps the position to the
// grid and clamps it so the table stays on the canvas.
func MoveTable(plan Plan, key string, dx, dy float64) (Table, error) {
	t, ok := plan.find(key)
	if !ok {
		return Table{}, apperrors.NotFound(fmt.Sprintf("table %q", key))
	}
	return moveFrom(plan, t, dx, dy), nil
}

// ResizeTable grows or shrinks the table by the pointer delta. Each side is at
// least MinTableSize, grid aligned, and never crosses the canvas edge.
func ResizeTable(plan Plan, key string, dx, dy float64) (Table, error) {
	t, ok := plan.find(key)
	if !ok {
		return Table{}, apperrors.NotFound(fmt.Sprintf("table %q", key))
	}
	return resizeFrom(plan, t, dx, dy), nil
}

func moveFrom(plan Plan, t Table, dx, dy float64) Table {
	x := geometry.SnapToGrid(t.X+dx, GridSize)
	y := geometry.SnapToGrid(t.Y+dy, GridSize)
	t.X = geometry.Clamp(x, 0, plan.CanvasWidth-t.Width)
	t.Y = geometry.Clamp(y, 0, plan.CanvasHeight-t.Height)
	return t
}

func resizeFrom(plan Plan, t Table, dx, dy float64) Table {
	w := geometry.SnapToGrid(math.Max(t.Width+dx, MinTableSize), GridSize)
	h := geometry.SnapToGrid(math.Max(t.Height+dy, MinTableSize), GridSize)
	t.Width = geometry.Clamp(w, MinTableSize, plan.CanvasWidth-t.X)
	t.Height = geometry.Clamp(h, MinTableSize, plan.CanvasHeight-t.Y)
	return t
}

// Normalize brings a table received from a client back onto the grid and the
// canvas: sizes are floored and snapped first, then the position is clamped
// against the final size.
func Normalize(plan Plan, t Table) Table {
	w := geometry.SnapToGrid(math.Max(t.Width, MinTableSize), GridSize)
	h := geometry.SnapToGrid(math.Max(t.Height, MinTableSize), GridSize)
	t.Width = geometry.Clamp(w, MinTableSize, plan.CanvasWidth)
	t.Height = geometry.Clamp(h, MinTableSize, plan.CanvasHeight)
	t.Number = strings.TrimSpace(t.Number)
	return moveFrom(plan, t, 0, 0)
}

// ValidateLayout rejects a table set in which a table has no number or two
// tables share one.
// Numbers are compared after trimming.
func ValidateLayout(tables []Table) error {
	seen := make(map[string]struct{}, len(tables))
	for _, t := range tables {
		n := strings.TrimSpace(t.Number)
		if n == "" {
			return apperrors.ErrBlankTableNumber
		}
		if _, dup := seen[n]; dup {
			return apperrors.New(apperrors.KindDuplicateTableNumber,
				fmt.Sprintf("table number %q is used more than once", n))
		}
		seen[n] = struct{}{}
	}
	return nil
}

// AddTable returns a default table numbered after the highest numeric table
// number in the plan. It does not modify plan.
func AddTable(plan Plan) Table {
	return Table{
		Key:    nextKey(plan),
		Number: nextNumber(plan.Tables),
		Seats:  DefaultSeats,
		X:      DefaultOffset,
		Y:      DefaultOffset,
		Width:  DefaultTableSize,
		Height: DefaultTableSize,
	}
}

func nextNumber(tables []Table) string {
	highest, found := 0, false
	for _, t := range tables {
		n, err := strconv.Atoi(strings.TrimSpace(t.Number))
		if err != nil || n < 0 {
			continue
		}
		if !found || n > highest {
			highest, found = n, true
		}
	}
	if !found {
		return strconv.Itoa(len(tables) + 1)
	}
	return strconv.Itoa(highest + 1)
}

func nextKey(plan Plan) string {
	for i := len(plan.Tables) + 1; ; i++ {
		key := "new-" + strconv.Itoa(i)
		if _, taken := plan.find(key); !taken {
			return key
		}
	}
}
