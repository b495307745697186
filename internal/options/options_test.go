package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	limit int
	name  string
}

func withLimit(n int) Option[*testConfig] {
	return New(func(c *testConfig) error {
		if n < 0 {
			return errors.New("limit cannot be negative")
		}
		c.limit = n

		return nil
	})
}

func withName(s string) Option[*testConfig] {
	return NoError(func(c *testConfig) { c.name = s })
}

func TestApply(t *testing.T) {
	cfg := &testConfig{}

	err := Apply(cfg, withLimit(10), nil, withName("tre"))
	require.NoError(t, err)
	require.Equal(t, 10, cfg.limit)
	require.Equal(t, "tre", cfg.name)
}

func TestApply_StopsAtFirstError(t *testing.T) {
	cfg := &testConfig{}

	err := Apply(cfg, withLimit(-1), withName("skipped"))
	require.Error(t, err)
	require.Empty(t, cfg.name)
}
