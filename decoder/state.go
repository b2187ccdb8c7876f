package decoder

import (
	"fmt"
)

type State int

const (
	StateIdle = State(iota)
	StateLoaded
	StatePlaying
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoaded:
		return "loaded"
	case StatePlaying:
		return "playing"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("<unknown:%d>", int(s))
	}
}
