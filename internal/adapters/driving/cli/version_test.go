package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
	assert.Equal(t, "Print the version number", versionCmd.Short)
}

func TestVersionCmd_Executes(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{"release build", "test-version-1.0.0"},
		{"dev build", "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestServices(t)
			original := version
			version = tt.version
			defer func() { version = original }()

			out, err := execute(t, "version")

			assert.NoError(t, err)
			assert.Contains(t, out, "noteverify version "+tt.version)
		})
	}
}
