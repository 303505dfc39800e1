package oabtesting

import (
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
)

type TestContext struct {
	Log logger.Logger
	// Dir is a per test scratch directory, removed when the test ends.
	Dir string
	T   *testing.T

	cfg TestConfig
}

type TestConfig struct {
	// We seed the RNG with Seed. It is normal to force it to some fixed value
	// so that the generated accounts are the same from run to run.
	Seed            int64
	TestLabelPrefix string
}

func NewTestContext(t *testing.T, cfg TestConfig) TestContext {
	logger.New("INFO")
	return TestContext{
		T:   t,
		Log: logger.Sugar.WithServiceName(cfg.TestLabelPrefix),
		Dir: t.TempDir(),
		cfg: cfg,
	}
}

func (c *TestContext) GetLog() logger.Logger { return c.Log }

// NewGenerator returns an account generator seeded from the context config.
func (c *TestContext) NewGenerator() *TestGenerator {
	return NewTestGenerator(TestGeneratorConfig{Seed: c.cfg.Seed})
}
