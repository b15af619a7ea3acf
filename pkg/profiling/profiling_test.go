package profiling

import (
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/hackathon-hub/registration-api/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfileTypes_Default(t *testing.T) {
	got, err := parseProfileTypes("")
	require.NoError(t, err)
	assert.Equal(t, defaultProfileTypes, got)
}

func TestParseProfileTypes_Custom(t *testing.T) {
	got, err := parseProfileTypes("cpu, alloc_space,mutex")
	require.NoError(t, err)

	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileAllocSpace,
		pyroscope.ProfileMutexCount,
		pyroscope.ProfileMutexDuration,
	}, got)
}

func TestParseProfileTypes_Invalid(t *testing.T) {
	_, err := parseProfileTypes("cpu,unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported O11Y_PROFILING_SAMPLE_TYPES")
}

func TestBuildApplicationName(t *testing.T) {
	got := buildApplicationName("", profileLabels{
		ServiceName: "registration-api",
		Namespace:   "hackathon-hub",
		Environment: "production",
		Version:     "1.2.0",
		InstanceID:  "api-1",
	})
	assert.Equal(t, "registration-api{service_name=registration-api,namespace=hackathon-hub,environment=production,service_version=1.2.0,instance=api-1}", got)
}

func TestBuildApplicationName_WithoutInstance(t *testing.T) {
	got := buildApplicationName("hackreg", profileLabels{ServiceName: "api", Namespace: "ns", Environment: "dev", Version: "0.1.0"})
	assert.Equal(t, "hackreg{service_name=api,namespace=ns,environment=dev,service_version=0.1.0}", got)
}

func TestInitProfiler_Disabled(t *testing.T) {
	stop, err := InitProfiler(config.ProfilingConfig{Enabled: false}, config.ObservabilityConfig{}, "test")
	require.NoError(t, err)
	assert.NotPanics(t, stop)
}

func TestInitProfiler_RequiresEndpoint(t *testing.T) {
	_, err := InitProfiler(config.ProfilingConfig{Enabled: true, Endpoint: "  "}, config.ObservabilityConfig{}, "test")
	assert.Error(t, err)
}
