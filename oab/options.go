package oab

// Config carries the assembler limits.
type Config struct {
	// MaxRecords is the largest accepted account count. Values outside
	// (0, DefaultMaxRecords] select DefaultMaxRecords.
	MaxRecords int
}

func DefaultConfig() Config {
	return Config{
		MaxRecords: DefaultMaxRecords,
	}
}

// Option is a generic option type. Implementations type assert to their
// options target and ignore options meant for other targets.
type Option func(any)

func WithMaxRecords(n int) Option {
	return func(opts any) {
		if o, ok := opts.(*Config); ok {
			o.MaxRecords = n
		}
	}
}

// NewConfig returns DefaultConfig with opts applied.
func NewConfig(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.MaxRecords <= 0 || cfg.MaxRecords > DefaultMaxRecords {
		cfg.MaxRecords = DefaultMaxRecords
	}
	return cfg
}
