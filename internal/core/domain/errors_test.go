package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrRetrieval", ErrRetrieval},
		{"ErrExtraction", ErrExtraction},
		{"ErrStrategyUnavailable", ErrStrategyUnavailable},
		{"ErrNoPolicy", ErrNoPolicy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestRetrievalError_Category(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("verify: %w", &RetrievalError{Op: "request", Err: cause})

	assert.ErrorIs(t, err, ErrRetrieval)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrExtraction)
	assert.Equal(t, "verify: retrieval request: connection refused", err.Error())
}

func TestRetrievalError_WithStatus(t *testing.T) {
	err := &RetrievalError{Op: "request", StatusCode: 500, Err: errors.New("boom")}
	assert.Equal(t, "retrieval request: status 500: boom", err.Error())

	var re *RetrievalError
	assert.True(t, errors.As(fmt.Errorf("wrap: %w", err), &re))
	assert.Equal(t, 500, re.StatusCode)
}

func TestExtractionError_Category(t *testing.T) {
	err := &ExtractionError{Member: "a/1027.docx", Strategy: "structured", Err: ErrNotFound}

	assert.ErrorIs(t, err, ErrExtraction)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrRetrieval)
	assert.Equal(t, "extract a/1027.docx (structured): not found", err.Error())
}

func TestExtractionError_NoMember(t *testing.T) {
	err := &ExtractionError{Strategy: "runs", Err: ErrInvalidInput}
	assert.Equal(t, "extract (runs): invalid input", err.Error())
}
