package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gitsuggest/internal/domain"
)

func TestPhase(t *testing.T) {
	items := []domain.RankedItem{{ID: 1, Value: "ala"}}

	tests := []struct {
		name  string
		state SearchUIState
		want  Phase
	}{
		{"idle", SearchUIState{}, PhaseIdle},
		{"loading", SearchUIState{Loading: true, Items: items}, PhaseLoading},
		{"error keeps stale list", SearchUIState{Error: true, Items: items}, PhaseError},
		{"results", SearchUIState{Items: items}, PhaseResults},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.Phase())
		})
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := NewSearchUIState()
	s.Items = append(s.Items, domain.RankedItem{ID: 1, Value: "ala"})

	snap := s.Snapshot()
	snap.Items[0].Value = "changed"

	assert.Equal(t, "ala", s.Items[0].Value)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "loading", PhaseLoading.String())
	assert.Equal(t, "results", PhaseResults.String())
	assert.Equal(t, "error", PhaseError.String())
}
