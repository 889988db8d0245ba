package traverse

import (
	"time"

	"github.com/MetaFFI/plugin-sdk/pkg/cdt"
	"github.com/MetaFFI/plugin-sdk/pkg/ffierr"
)

// RunValue walks a single root Value rather than a whole Array, mirroring
// the original runtime's traverse_cdt entry point. If v is array-tagged,
// cb.OnArray is invoked for it exactly as Run would; otherwise the leaf
// callback matching v's tag is invoked once at the configured start path (or
// path [0] by default).
func RunValue(v *cdt.Value, cb Callbacks, opts ...Option) error {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	path := cfg.startPath
	if len(path) == 0 {
		path = []uint64{0}
	}

	start := time.Now()
	leaves := 0
	err := runValue(v, path, cb, &leaves)
	if cfg.metrics != nil {
		cfg.metrics.ObserveTraversal(leaves, time.Since(start))
		if err != nil {
			if kind, ok := ffierr.KindOf(err); ok {
				cfg.metrics.RecordError(string(kind))
			}
		}
	}
	return err
}
