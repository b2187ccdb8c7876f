package urltools

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	for source, expected := range map[string]SourceKind{
		"":                                SourceKindUndefined,
		"/tmp/video.mkv":                  SourceKindFile,
		"file:///tmp/video.mkv":           SourceKindFile,
		"video.mp4":                       SourceKindFile,
		"rtmp://127.0.0.1/live/stream":    SourceKindNetwork,
		"srt://127.0.0.1:9000":            SourceKindNetwork,
		"testpattern://640x480?frames=10": SourceKindSynthetic,
		"%zz":                             SourceKindFile,
	} {
		require.Equal(t, expected, KindOf(source), source)
	}
	require.True(t, IsFileURL("/tmp/a.ts"))
	require.False(t, IsFileURL("https://example.com/a.ts"))
	require.Equal(t, "<unknown:10>", SourceKind(10).String())
}
