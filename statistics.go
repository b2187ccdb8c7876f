package avframebuffer

import (
	"github.com/xaionaro-go/avframebuffer/decoder"
	"github.com/xaionaro-go/avframebuffer/frame/allocator"
	"github.com/xaionaro-go/avframebuffer/sink"
)

type Statistics struct {
	State     string
	Decoder   decoder.Statistics
	Sink      sink.Statistics
	Allocator allocator.Statistics
}
