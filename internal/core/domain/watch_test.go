package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArchiveOp_String(t *testing.T) {
	tests := []struct {
		op       ArchiveOp
		expected string
	}{
		{ArchiveCreated, "created"},
		{ArchiveWritten, "written"},
		{ArchiveOp(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.op.String())
		})
	}
}
