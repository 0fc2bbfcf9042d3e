package popup

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"popupkit/internal/capture"
	"popupkit/internal/routing"
	"popupkit/internal/sched"
	"popupkit/internal/visual"
)

// stubElement is a plain tree node.
type stubElement struct {
	name     string
	w, h     float64
	visualP  visual.Element
	logicalP visual.Element
}

func (e *stubElement) RenderedSize() (float64, float64) { return e.w, e.h }
func (e *stubElement) VisualParent() visual.Element { return e.visualP }
func (e *stubElement) LogicalParent() visual.Element { return e.logicalP }

// comboStub implements DropDownControl.
type comboStub struct {
	stubElement
	open     bool
	menuOpen bool
	popup    *Popup
}

func (c *comboStub) IsDropDownOpen() bool { return c.open }
func (c *comboStub) SetDropDownOpen(open bool) { c.open = open }
func (c *comboStub) IsContextMenuOpened() bool { return c.menuOpen }
func (c *comboStub) SetContextMenuOpened(opened bool) { c.menuOpen = opened }
func (c *comboStub) DropDownPopup() *Popup { return c.popup }

// stubPointer reports one fixed position for every element.
type stubPointer struct {
	at visual.Point
}

func (p *stubPointer) PositionRelativeTo(visual.Element) visual.Point { return p.at }

type fixture struct {
	table   *routing.Table
	capture *capture.Manager
	queue   *sched.Queue
	pointer *stubPointer
	coord   *Coordinator
	combo   *comboStub
	child   *stubElement
}

// newFixture builds a combo box with an open 30x10 popup whose child is
// logically (not visually) parented to the control, like real popup
// content reparented into an overlay layer.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	table := routing.NewTable()
	cm := capture.NewManager(table)
	queue := sched.NewQueue()
	pointer := &stubPointer{at: visual.Point{X: 5, Y: 5}}

	coord := NewCoordinator(table, cm, pointer, queue, nil)
	coord.Attach(reflect.TypeOf(&comboStub{}))

	combo := &comboStub{stubElement: stubElement{name: "combo", w: 20, h: 1}, open: true}
	child := &stubElement{name: "popup-child", w: 30, h: 10, logicalP: combo}
	combo.popup = &Popup{Child: child}

	return &fixture{
		table:   table,
		capture: cm,
		queue:   queue,
		pointer: pointer,
		coord:   coord,
		combo:   combo,
		child:   child,
	}
}

func TestDismiss_AlwaysClosesAndReleases(t *testing.T) {
	f := newFixture(t)
	f.capture.CaptureSubtree(f.combo)
	f.pointer.at = visual.Point{X: 5, Y: 5} // over the popup; must not matter

	f.coord.RaiseDismiss(f.combo, DismissAlways)

	assert.False(t, f.combo.IsDropDownOpen(), "always: popup must close")
	assert.Nil(t, f.capture.Holder(), "always: capture must be released")
}

func TestDismiss_MouseNotOverRecaptures(t *testing.T) {
	f := newFixture(t)
	f.pointer.at = visual.Point{X: 5, Y: 5} // physically over the 30x10 child

	ev := &routing.Event{
		Kind:     KindDismiss,
		Strategy: routing.Bubble,
		Source:   f.combo,
		Payload:  DismissMouseNotOver,
	}
	f.table.Dispatch(ev)

	assert.True(t, f.combo.IsDropDownOpen(), "popup must survive")
	assert.True(t, f.capture.IsHeldBy(f.combo), "control must re-assert capture")
	assert.Equal(t, capture.ModeSubtree, f.capture.Mode(), "re-capture must be subtree-scoped")
	assert.True(t, ev.Handled, "signal must not bubble further")
}

func TestDismiss_MouseNotOverClosesWhenPointerAway(t *testing.T) {
	f := newFixture(t)
	f.capture.CaptureSubtree(f.combo)
	f.pointer.at = visual.Point{X: 100, Y: 100} // off the popup

	f.coord.RaiseDismiss(f.combo, DismissMouseNotOver)

	assert.False(t, f.combo.IsDropDownOpen(), "mouse-not-over: popup must close")
	assert.Nil(t, f.capture.Holder(), "mouse-not-over: capture must be released")
}

func TestDismiss_ZeroValuePayloadMeansAlways(t *testing.T) {
	f := newFixture(t)
	f.pointer.at = visual.Point{X: 5, Y: 5}

	// No payload at all: the default-constructed mode is Always.
	f.table.Dispatch(&routing.Event{
		Kind:     KindDismiss,
		Strategy: routing.Bubble,
		Source:   f.combo,
	})

	assert.False(t, f.combo.IsDropDownOpen())
}

func TestLostCapture_DefersDismissal(t *testing.T) {
	f := newFixture(t)
	f.capture.CaptureSubtree(f.combo)
	f.pointer.at = visual.Point{X: 100, Y: 100}

	stranger := &stubElement{name: "stranger", w: 1, h: 1}
	f.capture.Capture(stranger) // combo loses capture to an unrelated element

	// The dismissal must not have run inside the capture-loss dispatch.
	require.True(t, f.combo.IsDropDownOpen(), "dismissal must be deferred, not inline")
	require.Equal(t, 1, f.queue.Len(), "expected one deferred dismissal")

	f.queue.Drain()
	assert.False(t, f.combo.IsDropDownOpen(), "deferred dismissal must close the popup")
}

func TestLostCapture_IntoPopupSubtreeIsTolerated(t *testing.T) {
	f := newFixture(t)
	f.capture.CaptureSubtree(f.combo)

	item := &stubElement{name: "item", w: 10, h: 1, visualP: f.child}
	f.capture.Capture(item) // capture moves into the popup subtree

	assert.Zero(t, f.queue.Len(), "capture inside the popup must not schedule dismissal")
	assert.True(t, f.combo.IsDropDownOpen())
}

func TestLostCapture_OtherSourceDescendantTolerated(t *testing.T) {
	f := newFixture(t)
	item := &stubElement{name: "item", w: 10, h: 1, visualP: f.child}
	f.capture.Capture(item)

	// The item releases capture; the loss bubbles through the combo with
	// the item as source. The source lives under the popup child, so the
	// popup session continues.
	f.capture.Release(item)

	assert.Zero(t, f.queue.Len())
	assert.True(t, f.combo.IsDropDownOpen())
}

func TestLostCapture_OtherSourceOutsidePopupDismisses(t *testing.T) {
	f := newFixture(t)
	// Chrome hangs off the control but outside the popup subtree.
	chrome := &stubElement{name: "chrome", w: 2, h: 1, visualP: f.combo}
	f.capture.Capture(chrome)

	f.capture.Release(chrome)

	assert.Equal(t, 1, f.queue.Len(), "loss sourced outside the popup must schedule dismissal")
}

func TestLostCapture_SuppressedWhileContextMenuOpen(t *testing.T) {
	f := newFixture(t)
	f.capture.CaptureSubtree(f.combo)
	f.combo.SetContextMenuOpened(true)

	stranger := &stubElement{name: "stranger", w: 1, h: 1}
	f.capture.Capture(stranger)

	assert.Zero(t, f.queue.Len(), "open context menu must suppress capture-loss dismissal")
	f.queue.Drain()
	assert.True(t, f.combo.IsDropDownOpen())
}

func TestLostCapture_NoPopupChildStillDismisses(t *testing.T) {
	f := newFixture(t)
	f.combo.popup = &Popup{} // nothing to test geometry against
	f.capture.CaptureSubtree(f.combo)

	stranger := &stubElement{name: "stranger", w: 1, h: 1}
	f.capture.Capture(stranger)

	assert.Equal(t, 1, f.queue.Len())
}

func TestLostCapture_SkipsWhenPopupClosed(t *testing.T) {
	f := newFixture(t)
	f.combo.SetDropDownOpen(false)
	f.capture.CaptureSubtree(f.combo)

	stranger := &stubElement{name: "stranger", w: 1, h: 1}
	f.capture.Capture(stranger)

	assert.Zero(t, f.queue.Len())
}

func TestClickThroughOutsideCapture(t *testing.T) {
	tests := []struct {
		name    string
		button  routing.Button
		held    bool
		deferrd int
	}{
		{"left while holding", routing.ButtonLeft, true, 1},
		{"right while holding", routing.ButtonRight, true, 1},
		{"middle ignored", routing.ButtonMiddle, true, 0},
		{"not holding capture", routing.ButtonLeft, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.held {
				f.capture.CaptureSubtree(f.combo)
			}
			f.table.Dispatch(&routing.Event{
				Kind:     routing.KindPointerDownOutsideCapture,
				Strategy: routing.Direct,
				Source:   f.combo,
				Payload:  routing.PointerEvent{Button: tt.button},
			})
			assert.Equal(t, tt.deferrd, f.queue.Len())
		})
	}
}

func TestContextMenu_OpenCloseCycle(t *testing.T) {
	f := newFixture(t)

	f.table.Dispatch(&routing.Event{
		Kind:     routing.KindContextMenuOpening,
		Strategy: routing.Tunnel,
		Source:   f.combo,
	})
	require.True(t, f.combo.IsContextMenuOpened())

	f.table.Dispatch(&routing.Event{
		Kind:     routing.KindContextMenuClosing,
		Strategy: routing.Tunnel,
		Source:   f.combo,
	})
	assert.False(t, f.combo.IsContextMenuOpened())
	assert.Equal(t, 1, f.queue.Len(), "closing a context menu must re-evaluate the popup")

	// Pointer still over the popup: the re-evaluation keeps it open and
	// restores capture to the control.
	f.pointer.at = visual.Point{X: 5, Y: 5}
	f.queue.Drain()
	assert.True(t, f.combo.IsDropDownOpen())
	assert.True(t, f.capture.IsHeldBy(f.combo))
}

func TestRaiseDismiss_NonElementSenderIsNoOp(t *testing.T) {
	f := newFixture(t)
	f.coord.RaiseDismiss("not an element", DismissAlways)
	f.coord.RaiseDismiss(nil, DismissAlways)
	assert.True(t, f.combo.IsDropDownOpen())
}

func TestDeferredDismiss_MootByRunTimeIsNoOp(t *testing.T) {
	f := newFixture(t)
	f.pointer.at = visual.Point{X: 100, Y: 100}
	f.coord.RaiseDismissDeferred(f.combo, DismissMouseNotOver)

	// The popup closes before the deferred signal runs.
	f.combo.SetDropDownOpen(false)
	f.queue.Drain()

	assert.False(t, f.combo.IsDropDownOpen())
	assert.Nil(t, f.capture.Holder(), "moot dismissal must not capture anything")
}

func TestIsPhysicallyOver(t *testing.T) {
	f := newFixture(t)

	f.pointer.at = visual.Point{X: 30, Y: 10} // inclusive far corner
	assert.True(t, f.coord.IsPhysicallyOver(f.combo.popup))

	f.pointer.at = visual.Point{X: 30.5, Y: 10}
	assert.False(t, f.coord.IsPhysicallyOver(f.combo.popup))

	assert.False(t, f.coord.IsPhysicallyOver(nil))
	assert.False(t, f.coord.IsPhysicallyOver(&Popup{}))
}
