package service

import (
	"github.com/okian/securescore/internal/domain/history"
	"github.com/okian/securescore/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service. The default normalizer
// logs through it as well.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithNormalizer replaces the history normalizer.
func WithNormalizer(n *history.Normalizer) Option {
	return func(s *Service) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// WithAllowComments accepts comments and trailing commas in the stored file.
func WithAllowComments(enabled bool) Option {
	return func(s *Service) {
		s.allowComments = enabled
	}
}

// WithPrettyOutput indents the persisted history.
func WithPrettyOutput(enabled bool) Option {
	return func(s *Service) {
		s.pretty = enabled
	}
}
