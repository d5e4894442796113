package history

import "github.com/okian/securescore/pkg/logger"

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithLogger sets the logger used for skipped-element warnings.
func WithLogger(l logger.Logger) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.logger = l
		}
	}
}
