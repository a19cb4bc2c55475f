package notify_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alejandrodnm/edgebot/internal/adapters/notify"
	"github.com/alejandrodnm/edgebot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePlan(allocs ...domain.Allocation) domain.Plan {
	return domain.Plan{
		ID:          "3f2b8c1e-0000-4000-8000-000000000000",
		CreatedAt:   time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC),
		Policy:      domain.PolicySequentialKelly,
		BudgetCents: 10000,
		Allocations: allocs,
	}
}

func makeAlloc(ticker, label string, price, contracts int64) domain.Allocation {
	return domain.Allocation{
		Identifier:    ticker,
		Label:         label,
		PriceCents:    price,
		Probability:   0.75,
		Confidence:    8,
		Edge:          0.75 - float64(price)/100,
		ContractCount: contracts,
		SpendCents:    contracts * price,
		Rationale:     "Polls moved.",
	}
}

func TestConsole_NotifyPlan_Table(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true, false)

	plan := makePlan(
		makeAlloc("KXFED", "Fed cuts in December?", 60, 156),
		domain.Allocation{Identifier: "KXNBA", PriceCents: 52, Probability: 0.55, SkipReason: domain.SkipBelowNoiseMargin},
	)
	require.NoError(t, n.NotifyPlan(context.Background(), plan))

	out := buf.String()
	assert.Contains(t, out, "KXFED")
	assert.Contains(t, out, "Fed cuts in December?")
	assert.Contains(t, out, "$93.60")
	assert.Contains(t, out, "below_noise_margin")
	assert.Contains(t, out, "Unspent: $6.40")
	assert.Contains(t, out, "3f2b8c1e")
}

func TestConsole_NotifyPlan_Compact(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false, false)

	plan := makePlan(makeAlloc("KXFED", "Fed", 60, 10), makeAlloc("KXCPI", "CPI", 40, 5))
	require.NoError(t, n.NotifyPlan(context.Background(), plan))

	out := buf.String()
	assert.Contains(t, out, "2 bets")
	assert.Contains(t, out, "$8.00 of $100.00")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestConsole_NotifyPlan_Empty(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false, false)

	require.NoError(t, n.NotifyPlan(context.Background(), makePlan()))
	assert.Contains(t, buf.String(), "no trades this cycle")
	assert.Contains(t, buf.String(), "$100.00")
}

func TestConsole_NotifyPlan_Explain(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false, true)

	require.NoError(t, n.NotifyPlan(context.Background(), makePlan(makeAlloc("KXFED", "Fed", 60, 156))))
	out := buf.String()
	assert.Contains(t, out, "full kelly=0.3750")
	assert.Contains(t, out, "BUY 156 YES @ 60¢ = $93.60")
}

func TestConsole_LongLabelTruncated(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true, false)

	long := strings.Repeat("A", 60)
	require.NoError(t, n.NotifyPlan(context.Background(), makePlan(makeAlloc("KX", long, 50, 2))))
	assert.Contains(t, buf.String(), "...")
}

func TestConsole_PrintOpportunities(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true, false)

	n.PrintOpportunities([]domain.Opportunity{
		{Identifier: "KXFED", Category: "Economics", PriceCents: 60, Probability: 0.75, Confidence: 8},
	})
	out := buf.String()
	assert.Contains(t, out, "KXFED")
	assert.Contains(t, out, "+15.0pt")
}

func TestDollars(t *testing.T) {
	assert.Equal(t, "$0.00", notify.Dollars(0))
	assert.Equal(t, "$93.60", notify.Dollars(9360))
	assert.Equal(t, "$0.05", notify.Dollars(5))
	assert.Equal(t, "-$1.25", notify.Dollars(-125))
}
