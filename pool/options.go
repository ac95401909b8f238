package pool

// config holds constructor settings for a MultiPool.
type config struct {
	mapped bool
	blocks int
}

var defaultConfig = config{blocks: 1}

// Option configures a MultiPool at construction time.
type Option func(*config)

// WithMappedBlocks backs blocks with anonymous page reservations outside
// the Go heap instead of ordinary heap allocations. The element type must
// be pointer-free; NewMultiPool rejects pointer-bearing types with
// ErrPointerType.
func WithMappedBlocks() Option {
	return func(c *config) {
		c.mapped = true
	}
}

// WithPreallocatedBlocks makes the constructor append n blocks up front
// instead of the default single block, for workloads whose peak footprint
// is known. Values below 1 are treated as 1.
func WithPreallocatedBlocks(n int) Option {
	return func(c *config) {
		c.blocks = n
	}
}
