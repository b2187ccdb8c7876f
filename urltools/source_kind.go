// Package urltools classifies media source names.
package urltools

import (
	"fmt"
	"net/url"
)

type SourceKind int

const (
	SourceKindUndefined = SourceKind(iota)
	SourceKindFile
	SourceKindNetwork
	SourceKindSynthetic
)

func (k SourceKind) String() string {
	switch k {
	case SourceKindUndefined:
		return "undefined"
	case SourceKindFile:
		return "file"
	case SourceKindNetwork:
		return "network"
	case SourceKindSynthetic:
		return "synthetic"
	default:
		return fmt.Sprintf("<unknown:%d>", int(k))
	}
}

func KindOf(source string) SourceKind {
	if source == "" {
		return SourceKindUndefined
	}
	u, err := url.Parse(source)
	if err != nil {
		return SourceKindFile
	}
	switch u.Scheme {
	case "file", "":
		return SourceKindFile
	case "testpattern":
		return SourceKindSynthetic
	case "rtmp", "rtmps", "srt", "udp", "tcp", "http", "https", "rtsp", "webrtc":
		return SourceKindNetwork
	default:
		// e.g. "C:\video.mkv" parses with the scheme "c"
		return SourceKindFile
	}
}

func IsFileURL(source string) bool {
	return KindOf(source) == SourceKindFile
}
