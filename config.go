package legion

import "github.com/rs/zerolog"

// DefaultChunkBudget is the per-chunk memory budget in bytes. Chunk capacity
// is derived from it by the builder.
const DefaultChunkBudget = 16 * 1024

// Config holds global configuration for the storage system
var Config config = config{
	chunkBudget: DefaultChunkBudget,
	logger:      zerolog.Nop(),
}

type config struct {
	chunkBudget int
	logger      zerolog.Logger
}

// SetChunkBudget overrides the per-chunk byte budget used by new builders.
// Takes effect for chunks built after the call; existing chunks keep their
// capacity.
func (c *config) SetChunkBudget(bytes int) {
	if bytes < 1 {
		bytes = 1
	}
	c.chunkBudget = bytes
}

func (c *config) ChunkBudget() int {
	return c.chunkBudget
}

// SetLogger configures the logger handed to new storages and archetypes.
func (c *config) SetLogger(logger zerolog.Logger) {
	c.logger = logger
}

func (c *config) Logger() zerolog.Logger {
	return c.logger
}
