package presenter

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"go.uber.org/atomic"

	"github.com/xaionaro-go/avframebuffer/frame"
	"github.com/xaionaro-go/avframebuffer/logger"
	"github.com/xaionaro-go/avframebuffer/sink"
)

type SnapshotConfig struct {
	Directory string

	// Every is the amount of fresh frames between two snapshots.
	Every uint64

	// MaxWidth downscales wider pictures (keeping the aspect ratio); zero
	// keeps the original resolution.
	MaxWidth uint32

	// BlurRadius applies a gaussian blur when non-zero.
	BlurRadius float64
}

func DefaultSnapshotConfig() SnapshotConfig {
	return SnapshotConfig{
		Directory: os.TempDir(),
		Every:     100,
		MaxWidth:  640,
	}
}

// Snapshot saves every n-th fresh frame as a PNG file.
type Snapshot struct {
	Config     SnapshotConfig
	BlurRadius atomic.Float64

	freshCount atomic.Uint64
	savedCount atomic.Uint64
}

var _ sink.Presenter = (*Snapshot)(nil)

func NewSnapshot(cfg SnapshotConfig) (*Snapshot, error) {
	if cfg.Every == 0 {
		cfg.Every = 1
	}
	if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create directory %q: %w", cfg.Directory, err)
	}
	s := &Snapshot{Config: cfg}
	s.BlurRadius.Store(cfg.BlurRadius)
	return s, nil
}

func (s *Snapshot) String() string {
	return fmt.Sprintf("Snapshot(%s, every %d)", s.Config.Directory, s.Config.Every)
}

// Saved is the amount of written files.
func (s *Snapshot) Saved() uint64 {
	return s.savedCount.Load()
}

func (s *Snapshot) Present(ctx context.Context, f *frame.Frame, repeated bool) (_err error) {
	if repeated {
		return nil
	}
	idx := s.freshCount.Inc() - 1
	if idx%s.Config.Every != 0 {
		return nil
	}

	logger.Tracef(ctx, "Snapshot.Present: #%d", idx)
	defer func() { logger.Tracef(ctx, "/Snapshot.Present: #%d: %v", idx, _err) }()

	img, err := ToImage(f)
	if err != nil {
		return err
	}
	img = s.process(img)

	path := filepath.Join(s.Config.Directory, fmt.Sprintf("snapshot-%06d.png", idx))
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("unable to save the snapshot to %q: %w", path, err)
	}
	s.savedCount.Inc()
	logger.Debugf(ctx, "saved a snapshot of %s to %q", f, path)
	return nil
}

func (s *Snapshot) process(img image.Image) image.Image {
	if radius := s.BlurRadius.Load(); radius > 0 {
		img = blur.Gaussian(img, radius)
	}
	bounds := img.Bounds()
	maxWidth := int(s.Config.MaxWidth)
	if maxWidth == 0 || bounds.Dx() <= maxWidth {
		return img
	}
	height := max(bounds.Dy()*maxWidth/bounds.Dx(), 1)
	return transform.Resize(img, maxWidth, height, transform.Linear)
}
