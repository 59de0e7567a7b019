// Package ui renders the mine in a terminal with tcell and runs the
// interactive loop.
package ui

import "github.com/gdamore/tcell/v2"

// Screen wraps tcell.Screen with the small surface the renderer and
// the input loop need.
type Screen struct {
	screen tcell.Screen
}

// NewScreen initializes the terminal for cell-based drawing.
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	s.Clear()
	return &Screen{screen: s}, nil
}

// Close restores the terminal state.
func (s *Screen) Close() {
	s.screen.Fini()
}

// PollEvent blocks until the next terminal event.
func (s *Screen) PollEvent() tcell.Event {
	return s.screen.PollEvent()
}

// Clear wipes the draw buffer.
func (s *Screen) Clear() {
	s.screen.Clear()
}

// Show flushes the buffer to the terminal.
func (s *Screen) Show() {
	s.screen.Show()
}

// SetContent draws a single cell.
func (s *Screen) SetContent(x, y int, r rune, style tcell.Style) {
	s.screen.SetContent(x, y, r, nil, style)
}

// DrawText writes a string starting at the given cell, clipped at the
// right edge of the terminal.
func (s *Screen) DrawText(x, y int, text string, style tcell.Style) {
	width, _ := s.screen.Size()
	col := x
	for _, r := range text {
		if col >= width {
			break
		}
		s.screen.SetContent(col, y, r, nil, style)
		col++
	}
}

// Size returns the current terminal dimensions.
func (s *Screen) Size() (width, height int) {
	return s.screen.Size()
}

// Sync forces a complete redraw, for resize events.
func (s *Screen) Sync() {
	s.screen.Sync()
}
