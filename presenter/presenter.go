// Package presenter provides sink.Presenter implementations: they do not
// render anything on screen, they account, aggregate or dump the frames.
package presenter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xaionaro-go/avframebuffer/frame"
	"github.com/xaionaro-go/avframebuffer/sink"
	"github.com/xaionaro-go/avframebuffer/types"
)

type Discard struct {
	Presented types.CountersItem
	Repeated  types.CountersItem
}

var _ sink.Presenter = (*Discard)(nil)

func (p *Discard) String() string {
	return "Discard"
}

func (p *Discard) Present(ctx context.Context, f *frame.Frame, repeated bool) error {
	if repeated {
		p.Repeated.Increment(f.Size())
	} else {
		p.Presented.Increment(f.Size())
	}
	return nil
}

// Multi passes every frame to all the presenters, even if some of them fail.
type Multi []sink.Presenter

var _ sink.Presenter = (Multi)(nil)

func (m Multi) String() string {
	var names []string
	for _, p := range m {
		names = append(names, fmt.Sprint(p))
	}
	return "Multi(" + strings.Join(names, ",") + ")"
}

func (m Multi) Present(ctx context.Context, f *frame.Frame, repeated bool) error {
	var errs []error
	for _, p := range m {
		if err := p.Present(ctx, f, repeated); err != nil {
			errs = append(errs, fmt.Errorf("%v: %w", p, err))
		}
	}
	return errors.Join(errs...)
}
