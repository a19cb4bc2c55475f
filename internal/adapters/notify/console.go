package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alejandrodnm/edgebot/internal/domain"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
)

// Console implementa ports.Notifier.
type Console struct {
	out     io.Writer
	table   bool
	explain bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table, explain bool) *Console {
	return &Console{out: os.Stdout, table: table, explain: explain}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table, explain bool) *Console {
	return &Console{out: w, table: table, explain: explain}
}

// NotifyPlan imprime el plan en el modo configurado.
func (c *Console) NotifyPlan(_ context.Context, plan domain.Plan) error {
	if len(plan.Traded()) == 0 && (len(plan.Allocations) == 0 || !c.table) {
		fmt.Fprintf(c.out, "[%s] no trades this cycle, keeping budget %s\n",
			timestamp(plan), Dollars(plan.BudgetCents))
		return nil
	}

	if c.table {
		c.printFull(plan)
	} else {
		c.printCompact(plan)
	}

	if c.explain {
		c.printExplain(plan)
	}
	return nil
}

// printCompact imprime lo esencial en una línea.
func (c *Console) printCompact(plan domain.Plan) {
	traded := plan.Traded()

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s %d bets → spend %s of %s",
		timestamp(plan), plan.Policy, len(traded),
		Dollars(plan.TotalSpend()), Dollars(plan.BudgetCents))

	for i, a := range traded {
		if i >= 4 {
			fmt.Fprintf(&sb, " | +%d more", len(traded)-i)
			break
		}
		fmt.Fprintf(&sb, " | %s %dx%d¢ edge%+.0fpt",
			compactName(a.Identifier, 20), a.ContractCount, a.PriceCents, a.Edge*100)
	}

	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime la tabla de allocations y el resumen del presupuesto.
func (c *Console) printFull(plan domain.Plan) {
	fmt.Fprintf(c.out, "\n[%s] plan %s, policy %s, budget %s\n",
		timestamp(plan), shortID(plan.ID), plan.Policy, Dollars(plan.BudgetCents))

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Ticker", "Market", "Side", "Price", "Est", "Edge", "Conf", "Qty", "Spend", "Note")

	for i, a := range plan.Allocations {
		note := string(a.SkipReason)
		if a.Traded() {
			note = truncate(a.Rationale, 30)
		}
		table.Append(
			fmt.Sprintf("%d", i+1),
			a.Identifier,
			domain.TruncateLabel(a.Label, a.Identifier, 32),
			"YES",
			fmt.Sprintf("%d¢", a.PriceCents),
			fmt.Sprintf("%.0f%%", a.Probability*100),
			fmt.Sprintf("%+.1fpt", a.Edge*100),
			confidenceLabel(a.Confidence),
			fmt.Sprintf("%d", a.ContractCount),
			Dollars(a.SpendCents),
			note,
		)
	}
	table.Render()

	fmt.Fprintf(c.out, "  Spend: %s  |  Unspent: %s  |  Bets: %d of %d\n\n",
		Dollars(plan.TotalSpend()), Dollars(plan.Residual()),
		len(plan.Traded()), len(plan.Allocations))
}

// printExplain imprime el cálculo paso a paso de las 3 primeras apuestas.
func (c *Console) printExplain(plan domain.Plan) {
	traded := plan.Traded()
	if len(traded) > 3 {
		traded = traded[:3]
	}

	fmt.Fprintln(c.out, "=== EXPLAIN: step-by-step ===")
	for i, a := range traded {
		implied := domain.ImpliedProb(a.PriceCents)
		fmt.Fprintf(c.out, "\n--- #%d: %s [%s] ---\n", i+1, domain.TruncateLabel(a.Label, a.Identifier, 50), a.Identifier)
		fmt.Fprintf(c.out, "  implied=%.2f  estimated=%.2f  edge=%+.4f\n", implied, a.Probability, a.Edge)
		fmt.Fprintf(c.out, "  full kelly=%.4f\n", domain.FullKelly(a.Probability, implied))
		fmt.Fprintf(c.out, "  EV per contract=%.2f¢\n", domain.ExpectedValuePerContract(a.Probability, a.PriceCents))
		fmt.Fprintf(c.out, "  >>> BUY %d YES @ %d¢ = %s\n", a.ContractCount, a.PriceCents, Dollars(a.SpendCents))
		if a.Rationale != "" {
			fmt.Fprintf(c.out, "  why: %s\n", a.Rationale)
		}
	}
	fmt.Fprintln(c.out)
}

// PrintOpportunities imprime el snapshot de oportunidades almacenadas.
func (c *Console) PrintOpportunities(opps []domain.Opportunity) {
	if len(opps) == 0 {
		fmt.Fprintln(c.out, "no stored opportunities")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Ticker", "Category", "Market", "Price", "Est", "Edge", "Conf", "Volume")
	for _, o := range opps {
		table.Append(
			o.Identifier,
			o.Category,
			domain.TruncateLabel(o.Label, o.Identifier, 36),
			fmt.Sprintf("%d¢", o.PriceCents),
			fmt.Sprintf("%.0f%%", o.Probability*100),
			fmt.Sprintf("%+.1fpt", o.Edge()*100),
			confidenceLabel(o.Confidence),
			fmt.Sprintf("%.0f", o.Volume),
		)
	}
	table.Render()
}

// Dollars formatea centavos como "$12.34" sin pasar por float.
func Dollars(cents int64) string {
	d := decimal.New(cents, -2)
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

func timestamp(plan domain.Plan) string {
	t := plan.CreatedAt
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format("15:04:05")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "-"
	}
	return id
}

func confidenceLabel(c float64) string {
	if c <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f", c)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func compactName(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-1] + "…"
}
