package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigFile(t *testing.T) {
	// Save original value and restore after test
	originalCfgFile := cfgFile
	defer func() {
		cfgFile = originalCfgFile
	}()

	tests := []struct {
		name     string
		cfgValue string
		want     string
	}{
		{
			name:     "default config file",
			cfgValue: "",
			want:     "",
		},
		{
			name:     "custom config file",
			cfgValue: "/path/to/custom.yaml",
			want:     "/path/to/custom.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgFile = tt.cfgValue
			got := GetConfigFile()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetCLIOverrides(t *testing.T) {
	// Save original values and restore after test
	originalLogLevel := logLevel
	originalLogFormat := logFormat
	originalWorkers := workers
	originalTimeout := timeoutSeconds
	defer func() {
		logLevel = originalLogLevel
		logFormat = originalLogFormat
		workers = originalWorkers
		timeoutSeconds = originalTimeout
	}()

	logLevel = "debug"
	logFormat = "json"
	workers = 8
	timeoutSeconds = 30

	got := GetCLIOverrides()
	assert.Equal(t, "debug", got.LogLevel)
	assert.Equal(t, "json", got.LogFormat)
	assert.Equal(t, 8, got.Workers)
	assert.Equal(t, 30, got.TimeoutSeconds)
}

func TestRootCommandStructure(t *testing.T) {
	assert.Equal(t, "fedsearch", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.Equal(t, Version, rootCmd.Version)

	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("log-level"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("log-format"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("workers"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("timeout"))
}
