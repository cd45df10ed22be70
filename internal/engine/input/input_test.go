package input

import "testing"

func TestHeldKeysPersistAcrossFrames(t *testing.T) {
	in := New()
	in.Begin()
	in.Push(Event{Type: EventKeyDown, Key: KeyW})

	if !in.IsKeyPressed(KeyW) || !in.IsKeyHeld(KeyW) {
		t.Fatal("W should be pressed and held")
	}

	in.Begin()
	if in.IsKeyPressed(KeyW) {
		t.Error("press should not carry into the next frame")
	}
	if !in.IsKeyHeld(KeyW) {
		t.Error("W should still be held")
	}

	in.Push(Event{Type: EventKeyUp, Key: KeyW})
	if in.IsKeyHeld(KeyW) {
		t.Error("W still held after key up")
	}
}

func TestRepeatIsNotAPress(t *testing.T) {
	in := New()
	in.Begin()
	in.Push(Event{Type: EventKeyDown, Key: KeySpace, Repeat: true})
	if in.IsKeyPressed(KeySpace) {
		t.Error("auto-repeat counted as a press")
	}
	if !in.IsKeyHeld(KeySpace) {
		t.Error("repeat should keep the key held")
	}
}

func TestMouseAccumulates(t *testing.T) {
	in := New()
	in.Begin()
	in.Push(Event{Type: EventMouseMove, XRel: 3, YRel: -1})
	in.Push(Event{Type: EventMouseMove, XRel: 2, YRel: 4})
	in.Push(Event{Type: EventMouseWheel, Wheel: 1})
	in.Push(Event{Type: EventMouseWheel, Wheel: 2})

	dx, dy := in.MouseDelta()
	if dx != 5 || dy != 3 {
		t.Errorf("delta = %v,%v, want 5,3", dx, dy)
	}
	if in.Wheel() != 3 {
		t.Errorf("wheel = %v, want 3", in.Wheel())
	}

	in.Begin()
	dx, dy = in.MouseDelta()
	if dx != 0 || dy != 0 || in.Wheel() != 0 {
		t.Error("per-frame motion not reset")
	}
}

func TestQuitAndResize(t *testing.T) {
	in := New()
	in.Begin()
	in.Push(Event{Type: EventWindowResize, Width: 800, Height: 600})
	in.Push(Event{Type: EventWindowResize, Width: 1024, Height: 768})
	in.Push(Event{Type: EventQuit})

	if !in.QuitRequested() {
		t.Error("quit not reported")
	}
	w, h, ok := in.Resized()
	if !ok || w != 1024 || h != 768 {
		t.Errorf("resized = %d,%d,%v", w, h, ok)
	}
	if len(in.Events()) != 3 {
		t.Errorf("events = %d", len(in.Events()))
	}
}

func TestReleaseAll(t *testing.T) {
	in := New()
	in.Push(Event{Type: EventKeyDown, Key: KeyA})
	in.Push(Event{Type: EventKeyDown, Key: KeyD})
	in.ReleaseAll()
	if in.IsKeyHeld(KeyA) || in.IsKeyHeld(KeyD) {
		t.Error("keys still held")
	}
}

func TestButtonPressed(t *testing.T) {
	in := New()
	in.Push(Event{Type: EventMouseDown, Button: ButtonMiddle})
	in.Push(Event{Type: EventMouseUp, Button: ButtonLeft})

	if !in.IsButtonPressed(ButtonMiddle) {
		t.Error("middle press not reported")
	}
	if in.IsButtonPressed(ButtonLeft) {
		t.Error("release reported as a press")
	}

	in.Begin()
	if in.IsButtonPressed(ButtonMiddle) {
		t.Error("press survived the frame")
	}
}
