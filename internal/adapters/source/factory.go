package source

import (
	"fmt"

	"github.com/okian/securescore/internal/config"
)

// FromConfig builds the source selected by cfg.Source.
func FromConfig(cfg *config.Config) (Source, error) {
	clock := LocalClock
	if cfg.UTC {
		clock = UTCClock
	}

	switch cfg.Source {
	case config.SourceCommand:
		if cfg.SubscriptionID == "" {
			return nil, fmt.Errorf("%w: subscription_id is required for the %s source", ErrInvalidSubscription, cfg.Source)
		}
		return NewCommandSource(cfg.SubscriptionID,
			WithBinary(cfg.AzPath),
			WithScoreName(cfg.ScoreName),
			WithTimeout(cfg.FetchTimeout),
			WithCommandClock(clock),
		)
	case config.SourceFile:
		return NewFileSource(cfg.ReadingPath, WithFileClock(clock)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Source)
	}
}
