package router

import (
	"context"
	"errors"
	"testing"

	ierr "github.com/flexprice/connectcheckout/internal/errors"
	"github.com/flexprice/connectcheckout/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestShouldRetry(t *testing.T) {
	log := logger.NewNoopLogger()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"cancelled", context.Canceled, false},
		{"validation", ierr.NewError("bad").Mark(ierr.ErrValidation), false},
		{"malformed", ierr.NewError("bad").Mark(ierr.ErrMalformedEvent), false},
		{"upstream", ierr.NewError("down").Mark(ierr.ErrUpstream), true},
		{"unknown", errors.New("boom"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldRetry(log, tt.err))
		})
	}
}
