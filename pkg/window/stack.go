package window

import "sync"

// Stack orders the open windows. The top window holds the input grab and
// focus; removing it hands both back to the window beneath.
type Stack struct {
	mu      sync.Mutex
	windows []*Window
}

// Push puts w on top and gives it the grab and focus.
func (s *Stack) Push(w *Window) {
	s.mu.Lock()
	s.windows = append(s.windows, w)
	s.mu.Unlock()
	w.surface.Grab()
	w.surface.Focus()
}

// Pop destroys the top window and returns it, or nil when the stack is
// empty.
func (s *Stack) Pop() *Window {
	top := s.Top()
	if top == nil {
		return nil
	}
	s.Remove(top)
	return top
}

// Remove destroys w together with any window stacked above it, then gives
// the grab and focus to whatever is now on top.
func (s *Stack) Remove(w *Window) {
	s.mu.Lock()
	idx := -1
	for i, candidate := range s.windows {
		if candidate == w {
			idx = i
			break
		}
	}
	var doomed []*Window
	if idx >= 0 {
		doomed = append(doomed, s.windows[idx:]...)
		s.windows = s.windows[:idx]
	} else {
		doomed = []*Window{w}
	}
	var top *Window
	if n := len(s.windows); n > 0 {
		top = s.windows[n-1]
	}
	s.mu.Unlock()

	if top != nil {
		top.surface.Grab()
		top.surface.Focus()
	}
	for i := len(doomed) - 1; i >= 0; i-- {
		doomed[i].destroy()
	}
}

// Top returns the window holding the grab.
func (s *Stack) Top() *Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.windows) == 0 {
		return nil
	}
	return s.windows[len(s.windows)-1]
}

// Len reports how many windows are open.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// Windows returns the open windows, bottom first.
func (s *Stack) Windows() []*Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Window(nil), s.windows...)
}
