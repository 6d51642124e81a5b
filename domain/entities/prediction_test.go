package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutcome(t *testing.T) {
	tests := []struct {
		raw   string
		want  Outcome
		valid bool
	}{
		{raw: "option_a", want: OutcomeOptionA, valid: true},
		{raw: "option_b", want: OutcomeOptionB, valid: true},
		{raw: "option_c", valid: false},
		{raw: "OPTION_A", valid: false},
		{raw: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseOutcome(tt.raw)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestOutcome_Opposite(t *testing.T) {
	assert.Equal(t, OutcomeOptionB, OutcomeOptionA.Opposite())
	assert.Equal(t, OutcomeOptionA, OutcomeOptionB.Opposite())
}

func TestPrediction_Lock(t *testing.T) {
	p := &Prediction{Status: PredictionStatusOpen}

	p.Lock()

	assert.Equal(t, PredictionStatusLocked, p.Status)
	assert.NotNil(t, p.LockedAt)
}

func TestPrediction_Lock_OnlyFromOpen(t *testing.T) {
	outcome := OutcomeOptionA
	p := &Prediction{Status: PredictionStatusResolved, Outcome: &outcome}

	p.Lock()

	// Resolved is terminal; lock must not regress it
	assert.Equal(t, PredictionStatusResolved, p.Status)
	assert.Nil(t, p.LockedAt)
}

func TestPrediction_Resolve_SnapshotsPools(t *testing.T) {
	p := &Prediction{
		Status:      PredictionStatusLocked,
		OptionAPool: 300,
		OptionBPool: 100,
	}

	p.Resolve(OutcomeOptionB)

	assert.Equal(t, PredictionStatusResolved, p.Status)
	require.NotNil(t, p.Outcome)
	assert.Equal(t, OutcomeOptionB, *p.Outcome)
	require.NotNil(t, p.ProfitPool)
	assert.Equal(t, int64(100), *p.ProfitPool)
	require.NotNil(t, p.LossPool)
	assert.Equal(t, int64(300), *p.LossPool)
	assert.NotNil(t, p.ResolvedAt)
}

func TestPrediction_Resolve_Terminal(t *testing.T) {
	p := &Prediction{Status: PredictionStatusLocked, OptionAPool: 50, OptionBPool: 50}
	p.Resolve(OutcomeOptionA)

	first := *p.Outcome
	p.Resolve(OutcomeOptionB)

	// Second resolve is a no-op; the recorded outcome never changes
	assert.Equal(t, first, *p.Outcome)
	assert.Equal(t, int64(50), *p.ProfitPool)
}

func TestPrediction_CanResolve(t *testing.T) {
	assert.True(t, (&Prediction{Status: PredictionStatusOpen}).CanResolve())
	assert.True(t, (&Prediction{Status: PredictionStatusLocked}).CanResolve())
	assert.False(t, (&Prediction{Status: PredictionStatusResolved}).CanResolve())
}

func TestPrediction_AmountInRange(t *testing.T) {
	p := &Prediction{MinBet: 10, MaxBet: 40}

	assert.True(t, p.AmountInRange(10))
	assert.True(t, p.AmountInRange(40))
	assert.False(t, p.AmountInRange(9))
	assert.False(t, p.AmountInRange(50))
}

func TestPrediction_PoolAccessors(t *testing.T) {
	p := &Prediction{OptionAPool: 300, OptionBPool: 100}

	assert.Equal(t, int64(300), p.PoolFor(OutcomeOptionA))
	assert.Equal(t, int64(100), p.PoolFor(OutcomeOptionB))
	assert.Equal(t, int64(400), p.TotalPool())
}
