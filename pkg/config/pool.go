package config

import "github.com/MetaFFI/plugin-sdk/pkg/bufpool"

// NewBufferPool builds a pkg/bufpool.Pool sized per cfg's buffer_pool
// section. The construct fast path does not use this pool: it draws from
// the package-level pool behind bufpool.GetSize, which has default sizes.
func (cfg *EngineConfig) NewBufferPool() *bufpool.Pool {
	return bufpool.NewPool(&bufpool.Config{
		SmallSize:  int(cfg.BufferPool.SmallSize),
		MediumSize: int(cfg.BufferPool.MediumSize),
		LargeSize:  int(cfg.BufferPool.LargeSize),
	})
}
