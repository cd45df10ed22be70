package window

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/meshview/internal/engine/input"
)

var keymap = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_ESCAPE: input.KeyEscape,
	sdl.SCANCODE_W:      input.KeyW,
	sdl.SCANCODE_A:      input.KeyA,
	sdl.SCANCODE_S:      input.KeyS,
	sdl.SCANCODE_D:      input.KeyD,
	sdl.SCANCODE_SPACE:  input.KeySpace,
	sdl.SCANCODE_C:      input.KeyC,
	sdl.SCANCODE_F:      input.KeyF,
	sdl.SCANCODE_R:      input.KeyR,
	sdl.SCANCODE_B:      input.KeyB,
	sdl.SCANCODE_F12:    input.KeyF12,
}

// Poll drains pending SDL events into in, starting a new input frame.
func (w *Window) Poll(in *input.Input) {
	in.Begin()

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			in.Push(input.Event{Type: input.EventQuit})

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
				dw, dh := w.GetDrawableSize()
				in.Push(input.Event{Type: input.EventWindowResize, Width: dw, Height: dh})
			case sdl.WINDOWEVENT_FOCUS_LOST:
				in.ReleaseAll()
			}

		case *sdl.KeyboardEvent:
			key, ok := keymap[e.Keysym.Scancode]
			if !ok {
				continue
			}
			if e.Type == sdl.KEYDOWN {
				in.Push(input.Event{Type: input.EventKeyDown, Key: key, Repeat: e.Repeat != 0})
			} else if e.Type == sdl.KEYUP {
				in.Push(input.Event{Type: input.EventKeyUp, Key: key})
			}

		case *sdl.MouseMotionEvent:
			in.Push(input.Event{
				Type:   input.EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				XRel:   float32(e.XRel),
				YRel:   float32(e.YRel),
			})

		case *sdl.MouseWheelEvent:
			dy := float32(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				dy = -dy
			}
			in.Push(input.Event{Type: input.EventMouseWheel, Wheel: dy})

		case *sdl.MouseButtonEvent:
			t := input.EventMouseUp
			if e.Type == sdl.MOUSEBUTTONDOWN {
				t = input.EventMouseDown
			}
			in.Push(input.Event{Type: t, MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button})
		}
	}
}
