// Package command binds the playback control operations to a decoder, so
// they can be queued, logged and replayed as values.
package command

import (
	"context"
	"fmt"
	"strings"
)

// Target is the control surface of a decoder.
type Target interface {
	LoadFile(ctx context.Context, name string) error
	Play(ctx context.Context) error
	Stop(ctx context.Context) error
	FramesCount() uint32
}

type Command interface {
	fmt.Stringer
	Execute(ctx context.Context) error
}

type Load struct {
	Decoder  Target
	FileName string
}

var _ Command = (*Load)(nil)

func (c *Load) String() string {
	return fmt.Sprintf("load %s", c.FileName)
}

func (c *Load) Execute(ctx context.Context) error {
	return c.Decoder.LoadFile(ctx, c.FileName)
}

type Play struct {
	Decoder Target
}

var _ Command = (*Play)(nil)

func (c *Play) String() string {
	return "play"
}

func (c *Play) Execute(ctx context.Context) error {
	return c.Decoder.Play(ctx)
}

type Stop struct {
	Decoder Target
}

var _ Command = (*Stop)(nil)

func (c *Stop) String() string {
	return "stop"
}

func (c *Stop) Execute(ctx context.Context) error {
	return c.Decoder.Stop(ctx)
}

// Parse converts a text line ("load <name>", "play", "stop") into a Command
// bound to target.
func Parse(target Target, line string) (Command, error) {
	line = strings.TrimSpace(line)
	verb, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(verb) {
	case "load":
		if arg == "" {
			return nil, fmt.Errorf("%w: 'load' requires a file name", ErrInvalidCommand)
		}
		return &Load{Decoder: target, FileName: arg}, nil
	case "play":
		if arg != "" {
			return nil, fmt.Errorf("%w: 'play' takes no arguments", ErrInvalidCommand)
		}
		return &Play{Decoder: target}, nil
	case "stop":
		if arg != "" {
			return nil, fmt.Errorf("%w: 'stop' takes no arguments", ErrInvalidCommand)
		}
		return &Stop{Decoder: target}, nil
	default:
		return nil, fmt.Errorf("%w: unknown command %q", ErrInvalidCommand, verb)
	}
}
