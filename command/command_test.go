package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xaionaro-go/avframebuffer/decoder"
	"github.com/xaionaro-go/avframebuffer/decoder/testpattern"
	"github.com/xaionaro-go/avframebuffer/frame/allocator"
	"github.com/xaionaro-go/avframebuffer/sink"
)

type recordingTarget struct {
	calls []string
}

func (t *recordingTarget) LoadFile(ctx context.Context, name string) error {
	t.calls = append(t.calls, "load:"+name)
	return nil
}

func (t *recordingTarget) Play(ctx context.Context) error {
	t.calls = append(t.calls, "play")
	return nil
}

func (t *recordingTarget) Stop(ctx context.Context) error {
	t.calls = append(t.calls, "stop")
	return nil
}

func (t *recordingTarget) FramesCount() uint32 {
	return 0
}

func TestParse(t *testing.T) {
	ctx := context.Background()
	target := &recordingTarget{}

	for _, line := range []string{"load  /tmp/my video.mkv ", "PLAY", "stop"} {
		cmd, err := Parse(target, line)
		require.NoError(t, err, line)
		require.NoError(t, cmd.Execute(ctx))
	}
	require.Equal(t, []string{"load:/tmp/my video.mkv", "play", "stop"}, target.calls)

	for _, line := range []string{"", "load", "play now", "stop 1", "seek 10"} {
		_, err := Parse(target, line)
		require.ErrorIs(t, err, ErrInvalidCommand, line)
	}

	cmd, err := Parse(target, "load a.mkv")
	require.NoError(t, err)
	require.Equal(t, "load a.mkv", cmd.String())
}

func TestCommandsDriveDecoder(t *testing.T) {
	ctx := context.Background()
	a := allocator.NewHeap()
	s, err := sink.NewPermit(4)
	require.NoError(t, err)
	d := decoder.New(s, testpattern.New(), a.Allocate, a.Deallocate)

	var _ Target = d
	for _, cmd := range []Command{
		&Load{Decoder: d, FileName: "testpattern://2x2?frames=2"},
		&Play{Decoder: d},
	} {
		require.NoError(t, cmd.Execute(ctx), cmd.String())
	}
	require.NoError(t, d.Wait(ctx))
	require.Eventually(t, func() bool { return d.State() == decoder.StateStopped }, time.Second, time.Millisecond)
	require.ErrorIs(t, (&Stop{Decoder: d}).Execute(ctx), decoder.ErrInvalidTransition)
	require.NoError(t, s.Close(ctx))
}
