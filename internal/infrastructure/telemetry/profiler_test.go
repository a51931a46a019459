package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_RequiresTarget(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "fintrack"}, zaptest.NewLogger(t))
	assert.Error(t, err)

	_, err = NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://pyroscope:4040"}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestProfileTags(t *testing.T) {
	tags := profileTags(ProfilerConfig{Environment: "production", Version: "1.4.0"})
	assert.Equal(t, "production", tags["env"])
	assert.Equal(t, "1.4.0", tags["version"])

	tags = profileTags(ProfilerConfig{})
	assert.NotContains(t, tags, "env")
	assert.NotContains(t, tags, "version")
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, 5, orDefault(0, 5))
	assert.Equal(t, 5, orDefault(-2, 5))
	assert.Equal(t, 10, orDefault(10, 5))
}
