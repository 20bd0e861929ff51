package ui

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"

	"github.com/infblueocean/feello/internal/deck"
)

const fps = 60

// slide animates the front card's horizontal offset back to rest with a
// spring after each navigation.
type slide struct {
	spring harmonica.Spring
	pos    float64 // columns; positive is right of centre
	vel    float64
	active bool
}

func newSlide() slide {
	return slide{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.8)}
}

// start throws the card in from the side matching dir: forward brings the
// next card in from the right, backward from the left.
func (s *slide) start(dir deck.Direction, distance int) {
	switch dir {
	case deck.DirForward:
		s.pos = float64(distance)
	case deck.DirBackward:
		s.pos = -float64(distance)
	default:
		return
	}
	s.vel = 0
	s.active = true
}

// step advances one frame and reports whether the card is still moving.
func (s *slide) step() bool {
	if !s.active {
		return false
	}
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, 0)
	if math.Abs(s.pos) < 0.5 && math.Abs(s.vel) < 0.5 {
		s.pos, s.vel, s.active = 0, 0, false
	}
	return s.active
}

func (s slide) offset() int {
	return int(math.Round(s.pos))
}

func frameCmd() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg {
		return frameTick{at: t}
	})
}
