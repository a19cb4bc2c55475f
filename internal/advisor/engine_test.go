package advisor

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/alejandrodnm/edgebot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sizer.KellyFraction = 0
	_, err := NewEngine(cfg)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.BankrollCents = -1
	_, err = NewEngine(cfg)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestEngine_SequentialKelly_ScenarioA(t *testing.T) {
	e := newTestEngine(100000, false)
	allocs, err := e.Run([]domain.Opportunity{opp("A", 60, 0.75)}, 100000, domain.PolicySequentialKelly)
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, int64(156), allocs[0].ContractCount)
	assert.Equal(t, int64(9360), allocs[0].SpendCents)
	assert.Equal(t, "Will A resolve YES?", allocs[0].Label)
}

func TestEngine_SequentialKelly_DepletesBudget(t *testing.T) {
	e := newTestEngine(100000, true)
	allocs, err := e.Run([]domain.Opportunity{
		opp("A", 60, 0.75), // 9375¢ → 156 × 60 = 9360
		opp("B", 40, 0.60), // quiere 8333¢, quedan 2640 → 66 × 40
		opp("C", 30, 0.50), // presupuesto agotado
	}, 12000, domain.PolicySequentialKelly)
	require.NoError(t, err)
	require.Len(t, allocs, 3)

	assert.Equal(t, int64(9360), allocs[0].SpendCents)
	assert.Equal(t, int64(66), allocs[1].ContractCount)
	assert.Equal(t, int64(2640), allocs[1].SpendCents)
	assert.Equal(t, int64(0), allocs[2].ContractCount)
	assert.Equal(t, domain.SkipBudgetExhausted, allocs[2].SkipReason)
	assert.Equal(t, int64(12000), domain.TotalSpend(allocs))
}

func TestEngine_SequentialKelly_SuppressesZeroByDefault(t *testing.T) {
	e := newTestEngine(100000, false)
	allocs, err := e.Run([]domain.Opportunity{
		opp("A", 60, 0.75),
		opp("B", 40, 0.60),
		opp("C", 30, 0.50),
	}, 12000, domain.PolicySequentialKelly)
	require.NoError(t, err)
	require.Len(t, allocs, 2)
	assert.Equal(t, "A", allocs[0].Identifier)
	assert.Equal(t, "B", allocs[1].Identifier)
}

func TestEngine_FilteredVersusSizedToZero(t *testing.T) {
	// bankroll $10: A pasa el filtro pero Kelly da 93.75¢ < ticket mínimo.
	// D (99¢) nunca llega al sizer.
	e := newTestEngine(1000, true)
	allocs, err := e.Run([]domain.Opportunity{
		opp("A", 60, 0.75),
		opp("D", 99, 1.0),
	}, 1000, domain.PolicySequentialKelly)
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, "A", allocs[0].Identifier)
	assert.Equal(t, int64(0), allocs[0].ContractCount)
	assert.Equal(t, domain.SkipBelowMinTicket, allocs[0].SkipReason)
}

func TestEngine_Proportional_ScenarioC(t *testing.T) {
	e := newTestEngine(0, false)
	allocs, err := e.Run([]domain.Opportunity{
		opp("A", 50, 0.70),
		opp("B", 40, 0.50),
	}, 1000, domain.PolicyProportional)
	require.NoError(t, err)
	require.Len(t, allocs, 2)
	assert.Equal(t, int64(650), allocs[0].SpendCents)
	assert.Equal(t, int64(320), allocs[1].SpendCents)
}

func TestEngine_ZeroBudget(t *testing.T) {
	opps := []domain.Opportunity{opp("A", 60, 0.75), opp("B", 50, 0.70)}
	for _, policy := range []domain.Policy{domain.PolicySequentialKelly, domain.PolicyProportional} {
		t.Run(policy.String(), func(t *testing.T) {
			allocs, err := newTestEngine(100000, false).Run(opps, 0, policy)
			require.NoError(t, err)
			assert.Empty(t, allocs)

			allocs, err = newTestEngine(100000, true).Run(opps, 0, policy)
			require.NoError(t, err)
			require.Len(t, allocs, 2)
			for _, a := range allocs {
				assert.Equal(t, int64(0), a.ContractCount)
				assert.Equal(t, int64(0), a.SpendCents)
			}
		})
	}
}

func TestEngine_NoOpportunities(t *testing.T) {
	e := newTestEngine(100000, true)
	for _, policy := range []domain.Policy{domain.PolicySequentialKelly, domain.PolicyProportional} {
		allocs, err := e.Run(nil, 10000, policy)
		require.NoError(t, err)
		assert.Empty(t, allocs)
	}
}

func TestEngine_Preconditions(t *testing.T) {
	e := newTestEngine(100000, false)

	_, err := e.Run([]domain.Opportunity{opp("A", 60, 0.75)}, -1, domain.PolicySequentialKelly)
	assert.ErrorIs(t, err, domain.ErrPrecondition)

	_, err = e.Run([]domain.Opportunity{opp("A", 60, 1.2)}, 1000, domain.PolicyProportional)
	assert.ErrorIs(t, err, domain.ErrPrecondition)

	_, err = e.Run([]domain.Opportunity{opp("A", -5, 0.5)}, 1000, domain.PolicySequentialKelly)
	assert.ErrorIs(t, err, domain.ErrPrecondition)
}

func TestEngine_UnknownPolicy(t *testing.T) {
	e := newTestEngine(100000, false)
	_, err := e.Run([]domain.Opportunity{opp("A", 60, 0.75)}, 1000, domain.Policy(42))
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestEngine_MinimumEdgeGate_BothPolicies(t *testing.T) {
	// Sin filtro previo: el gate del sizer/allocator debe bastar por sí solo.
	cfg := DefaultConfig()
	cfg.Filter.MinEdge = 0
	cfg.BankrollCents = 100000
	cfg.KeepZero = true
	e, err := NewEngine(cfg)
	require.NoError(t, err)

	thin := opp("THIN", 60, 0.64)
	for _, policy := range []domain.Policy{domain.PolicySequentialKelly, domain.PolicyProportional} {
		allocs, err := e.Run([]domain.Opportunity{thin, opp("A", 50, 0.70)}, 10000, policy)
		require.NoError(t, err, policy.String())
		require.Len(t, allocs, 2)
		assert.Equal(t, int64(0), allocs[0].ContractCount, policy.String())
		assert.Equal(t, domain.SkipBelowNoiseMargin, allocs[0].SkipReason, policy.String())
		assert.Greater(t, allocs[1].ContractCount, int64(0), policy.String())
	}
}

func TestEngine_MinimumEdgeGate_ExactBoundary(t *testing.T) {
	tests := []struct {
		id    string
		price int64
		prob  float64
	}{
		{"B60", 60, 0.65},
		{"B70", 70, 0.75},
		{"B35", 35, 0.40},
	}
	e := newTestEngine(100000, true)
	for _, tt := range tests {
		for _, policy := range []domain.Policy{domain.PolicySequentialKelly, domain.PolicyProportional} {
			t.Run(tt.id+"/"+policy.String(), func(t *testing.T) {
				allocs, err := e.Run([]domain.Opportunity{opp(tt.id, tt.price, tt.prob), opp("A", 50, 0.70)}, 10000, policy)
				require.NoError(t, err)
				for _, a := range allocs {
					if a.Identifier == tt.id {
						assert.Equal(t, int64(0), a.ContractCount)
						assert.Equal(t, int64(0), a.SpendCents)
					}
				}
				assert.Greater(t, domain.TotalSpend(allocs), int64(0))
			})
		}
	}
}

func TestEngine_MinimumEdgeGate_ExactBoundaryWithoutFilter(t *testing.T) {
	// Con el filtro abierto el gate de cada policy debe rechazar el borde por sí solo.
	cfg := DefaultConfig()
	cfg.Filter.MinEdge = 0
	cfg.BankrollCents = 100000
	cfg.KeepZero = true
	e, err := NewEngine(cfg)
	require.NoError(t, err)

	for _, policy := range []domain.Policy{domain.PolicySequentialKelly, domain.PolicyProportional} {
		allocs, err := e.Run([]domain.Opportunity{opp("B60", 60, 0.65), opp("B70", 70, 0.75), opp("A", 50, 0.70)}, 10000, policy)
		require.NoError(t, err, policy.String())
		require.Len(t, allocs, 3, policy.String())
		for _, a := range allocs[:2] {
			assert.Equal(t, int64(0), a.ContractCount, "%s %s", a.Identifier, policy)
			assert.Equal(t, domain.SkipBelowNoiseMargin, a.SkipReason, "%s %s", a.Identifier, policy)
		}
		assert.Greater(t, allocs[2].ContractCount, int64(0), policy.String())
	}
}

func TestEngine_ProportionalMonotoneInEdge(t *testing.T) {
	e := newTestEngine(0, true)
	prev := int64(-1)
	for i := 0; i <= 100; i++ {
		p := float64(i) / 100
		allocs, err := e.Run([]domain.Opportunity{opp("T", 50, p), opp("O", 50, 0.80)}, 10000, domain.PolicyProportional)
		require.NoError(t, err)

		var got int64
		for _, a := range allocs {
			if a.Identifier == "T" {
				got = a.ContractCount
			}
		}
		assert.GreaterOrEqual(t, got, prev, "p=%.2f", p)
		prev = got
	}
	assert.Greater(t, prev, int64(0))
}

func TestEngine_SequentialMonotoneInEdge(t *testing.T) {
	e := newTestEngine(100000, true)
	prev := int64(-1)
	for i := 0; i <= 100; i++ {
		p := float64(i) / 100
		allocs, err := e.Run([]domain.Opportunity{opp("T", 35, p), opp("O", 50, 0.80)}, 8000, domain.PolicySequentialKelly)
		require.NoError(t, err)

		var got int64
		for _, a := range allocs {
			if a.Identifier == "T" {
				got = a.ContractCount
			}
		}
		assert.GreaterOrEqual(t, got, prev, "p=%.2f", p)
		prev = got
	}
}

func TestEngine_BudgetConservation_Randomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	e := newTestEngine(250000, true)

	for round := 0; round < 200; round++ {
		n := rng.Intn(12)
		opps := make([]domain.Opportunity, n)
		for i := range opps {
			opps[i] = opp("R", int64(rng.Intn(101)), rng.Float64())
		}
		budget := int64(rng.Intn(50000))

		for _, policy := range []domain.Policy{domain.PolicySequentialKelly, domain.PolicyProportional} {
			allocs, err := e.Run(opps, budget, policy)
			require.NoError(t, err)
			for _, a := range allocs {
				assert.GreaterOrEqual(t, a.ContractCount, int64(0))
				assert.GreaterOrEqual(t, a.SpendCents, int64(0))
				assert.Equal(t, a.ContractCount*a.PriceCents, a.SpendCents)
			}
			assert.LessOrEqual(t, domain.TotalSpend(allocs), budget, "round %d %s", round, policy)
		}
	}
}

func TestEngine_ConcurrentRunsAreIndependent(t *testing.T) {
	e := newTestEngine(100000, false)
	opps := []domain.Opportunity{opp("A", 60, 0.75), opp("B", 40, 0.60)}

	want, err := e.Run(opps, 12000, domain.PolicySequentialKelly)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]domain.Allocation, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = e.Run(opps, 12000, domain.PolicySequentialKelly)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestEngine_DoesNotMutateInput(t *testing.T) {
	e := newTestEngine(100000, false)
	opps := []domain.Opportunity{opp("B", 40, 0.60), opp("A", 60, 0.75)}
	before := append([]domain.Opportunity(nil), opps...)

	_, err := e.Run(opps, 12000, domain.PolicyProportional)
	require.NoError(t, err)
	assert.Equal(t, before, opps)
}
