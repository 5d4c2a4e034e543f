package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditorDragUsesGestureOrigin(t *testing.T) {
	e := NewEditor(samplePlan())
	require.NoError(t, e.BeginDrag("t1"))

	// successive pointer moves report the total offset from where the drag began
	_, err := e.PointerMove(10, 0)
	require.NoError(t, err)
	got, err := e.PointerMove(24, 0)
	require.NoError(t, err)
	assert.Equal(t, 72.0, got.X)

	e.EndGesture()
	assert.Equal(t, 72.0, e.Plan().Tables[0].X)
}

func TestEditorSingleActiveGesture(t *testing.T) {
	e := NewEditor(samplePlan())
	require.NoError(t, e.BeginDrag("t1"))

	assert.ErrorIs(t, e.BeginResize("t2"), ErrGestureActive)
	assert.ErrorIs(t, e.BeginDrag("t1"), ErrGestureActive)

	key, ok := e.Active()
	assert.True(t, ok)
	assert.Equal(t, "t1", key)

	e.EndGesture()
	assert.NoError(t, e.BeginResize("t2"))
}

func TestEditorPointerMoveWithoutGesture(t *testing.T) {
	e := NewEditor(samplePlan())
	_, err := e.PointerMove(5, 5)
	assert.ErrorIs(t, err, ErrNoGesture)
}

func TestEditorResize(t *testing.T) {
	e := NewEditor(samplePlan())
	require.NoError(t, e.BeginResize("t2"))

	got, err := e.PointerMove(-100, 30)
	require.NoError(t, err)
	assert.Equal(t, MinTableSize, got.Width)
	assert.Equal(t, 96.0, got.Height)
}

func TestEditorDoesNotShareTables(t *testing.T) {
	plan := samplePlan()
	e := NewEditor(plan)
	require.NoError(t, e.BeginDrag("t1"))
	_, err := e.PointerMove(240, 0)
	require.NoError(t, err)

	assert.Equal(t, 48.0, plan.Tables[0].X)

	snapshot := e.Plan()
	snapshot.Tables[0].X = 0
	assert.Equal(t, 288.0, e.Plan().Tables[0].X)
}

func TestEditorAddRemoveValidate(t *testing.T) {
	e := NewEditor(samplePlan())

	added := e.AddTable()
	assert.Equal(t, "3", added.Number)
	assert.Len(t, e.Plan().Tables, 3)

	_, err := e.UpdateTable(added.Key, "2", nil, 6)
	require.NoError(t, err)
	assert.Error(t, e.Validate())

	require.NoError(t, e.BeginDrag(added.Key))
	require.NoError(t, e.RemoveTable(added.Key))
	_, active := e.Active()
	assert.False(t, active, "removing the dragged table ends the gesture")
	assert.NoError(t, e.Validate())

	assert.Error(t, e.RemoveTable(added.Key))
}

func TestEditorAttributeEditDuringDrag(t *testing.T) {
	e := NewEditor(samplePlan())
	require.NoError(t, e.BeginDrag("t1"))

	label := "window"
	_, err := e.UpdateTable("t1", "9", &label, 6)
	require.NoError(t, err)

	got, err := e.PointerMove(24, 0)
	require.NoError(t, err)
	assert.Equal(t, 72.0, got.X)
	assert.Equal(t, "9", got.Number)
	assert.Equal(t, 6, got.Seats)
	require.NotNil(t, got.Label)
	assert.Equal(t, "window", *got.Label)

	e.EndGesture()
	assert.Equal(t, "9", e.Plan().Tables[0].Number)
}
