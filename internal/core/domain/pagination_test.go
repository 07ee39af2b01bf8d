package domain_test

import (
	"testing"

	"github.com/SscSPs/farm_payouts/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestPageLimit(t *testing.T) {
	tests := []struct {
		requested int
		want      int
	}{
		{requested: 0, want: domain.DefaultPageLimit},
		{requested: -5, want: domain.DefaultPageLimit},
		{requested: 10, want: 10},
		{requested: 100, want: 100},
		{requested: 500, want: domain.MaxPageLimit},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.PageLimit(tt.requested), "requested %d", tt.requested)
	}
}
