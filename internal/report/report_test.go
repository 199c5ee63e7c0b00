package report

import (
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-dev/finsight/internal/ledger"
	"github.com/finsight-dev/finsight/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func tx(id string, kind model.TransactionKind, amount, category string, when time.Time) model.TransactionRecord {
	return model.TransactionRecord{
		ID: id, OwnerID: "user-1", Kind: kind,
		Amount: dec(amount), Category: category, Date: when,
	}
}

// twoMonths seeds May (weak month, score 40) and June (strong month,
// score 85) of 2025.
func twoMonths() *ledger.Memory {
	mem := ledger.NewMemory()
	mem.AddTransactions(
		tx("m1", model.KindIncome, "5000.00", "Salary", date(2025, 5, 5)),
		tx("m2", model.KindExpense, "4800.00", "Rent", date(2025, 5, 10)),

		tx("j1", model.KindIncome, "5000.00", "Salary", date(2025, 6, 5)),
		tx("j2", model.KindExpense, "1500.00", "Rent", date(2025, 6, 3)),
		tx("j3", model.KindExpense, "1000.00", "Dining", date(2025, 6, 10)),
		tx("j4", model.KindExpense, "500.00", "Transport", date(2025, 6, 20)),
	)
	return mem
}

func TestGenerate_FullReport(t *testing.T) {
	now := date(2025, 7, 1)
	asm := NewAssembler(twoMonths(), quietLogger())

	rep, err := asm.Generate("user-1", 2025, time.June, now)
	require.NoError(t, err)

	assert.Equal(t, "2025-06", rep.ReferenceMonth)
	assert.Contains(t, rep.ReportID, "report_202506_")
	assert.Equal(t, now, rep.GeneratedAt)

	assert.True(t, rep.IncomeTotal.Equal(dec("5000.00")))
	assert.True(t, rep.ExpenseTotal.Equal(dec("3000.00")))
	assert.True(t, rep.SavingsTotal.Equal(dec("2000.00")))
	assert.Equal(t, 40.0, rep.SavingsRate)

	// Ratio 0.6 gives +20, 4 transactions give +5, savings over 20% give +10.
	assert.Equal(t, 85, rep.HealthScore)
	// Previous month scores 40: ratio 0.96 is -10, 2 transactions add nothing.
	assert.Equal(t, 45, rep.HealthScoreChange)

	assert.Equal(t,
		"Excelente mês! Você economizou 40.0% da sua renda (R$ 2000.00). Sua saúde financeira melhorou 45 pontos.",
		rep.ExecutiveSummary)

	require.Len(t, rep.KeyInsights, 2)
	assert.Equal(t, "Maior gasto foi com Rent (R$ 1500.00 - 50.0% das despesas)", rep.KeyInsights[0])
	assert.Equal(t, "Valor médio por transação: R$ 1000.00 (3 transações)", rep.KeyInsights[1])

	assert.Contains(t, rep.Achievements, "Excelente taxa de poupança atingida (20%+)")
	assert.Contains(t, rep.Achievements, "Grande melhoria na saúde financeira (+45 pontos)")

	// Weekly spend swings 1500 vs 500 across the month.
	assert.Equal(t, []string{"Gastos irregulares ao longo do mês - tente distribuir melhor"},
		rep.AreasForImprovement)

	assert.Equal(t, "2025-07", rep.NextMonth.Month)
	assert.True(t, rep.NextMonth.PredictedIncome.Equal(dec("1666.67")), "got %s", rep.NextMonth.PredictedIncome)
	assert.True(t, rep.NextMonth.PredictedExpenses.Equal(dec("1300.00")), "got %s", rep.NextMonth.PredictedExpenses)
	assert.True(t, rep.NextMonth.PredictedBalance.Equal(dec("366.67")), "got %s", rep.NextMonth.PredictedBalance)
	assert.GreaterOrEqual(t, rep.NextMonth.Confidence, 0.0)
	assert.LessOrEqual(t, rep.NextMonth.Confidence, 1.0)
	assert.Empty(t, rep.NextMonth.RiskFactors)
}

func TestGenerate_GoalProgressAndCompletionAchievement(t *testing.T) {
	now := date(2025, 7, 1)
	mem := twoMonths()
	target := now.AddDate(0, 0, 30)
	mem.AddGoals(
		model.GoalRecord{
			ID: "g1", OwnerID: "user-1", Name: "Reserva", Status: model.GoalActive,
			TargetAmount: dec("10000.00"), CurrentAmount: dec("2500.00"), TargetDate: &target,
		},
		model.GoalRecord{
			ID: "g2", OwnerID: "user-1", Name: "Viagem", Status: model.GoalActive,
			TargetAmount: dec("3000.00"), CurrentAmount: dec("1500.00"),
		},
		model.GoalRecord{
			ID: "g3", OwnerID: "user-1", Name: "Curso", Status: model.GoalCompleted,
			TargetAmount: dec("1000.00"), CurrentAmount: dec("1000.00"),
		},
		model.GoalRecord{
			ID: "g4", OwnerID: "user-1", Name: "Pausada", Status: model.GoalPaused,
			TargetAmount: dec("500.00"),
		},
	)
	asm := NewAssembler(mem, quietLogger())

	rep, err := asm.Generate("user-1", 2025, time.June, now)
	require.NoError(t, err)

	assert.Contains(t, rep.Achievements, "Meta 'Curso' concluída com sucesso!")

	require.Len(t, rep.GoalsProgress, 3)
	byID := map[string]model.GoalProgress{}
	for _, g := range rep.GoalsProgress {
		byID[g.GoalID] = g
	}

	// 7500 remaining over 30 days needs 250/day.
	assert.False(t, byID["g1"].OnTrack)
	assert.Equal(t, 25.0, byID["g1"].Progress)

	assert.True(t, byID["g2"].OnTrack)
	assert.Equal(t, 50.0, byID["g2"].Progress)

	assert.True(t, byID["g3"].OnTrack)
	assert.Equal(t, model.GoalCompleted, byID["g3"].Status)
}

func TestGenerate_ChallengingMonth(t *testing.T) {
	now := date(2025, 7, 1)
	mem := ledger.NewMemory()
	mem.AddTransactions(
		tx("i1", model.KindIncome, "1000.00", "Salary", date(2025, 6, 5)),
		tx("e1", model.KindExpense, "1400.00", "Rent", date(2025, 6, 10)),
	)
	asm := NewAssembler(mem, quietLogger())

	rep, err := asm.Generate("user-1", 2025, time.June, now)
	require.NoError(t, err)

	assert.Equal(t, 40, rep.HealthScore)
	assert.Zero(t, rep.HealthScoreChange) // no previous month data
	assert.Contains(t, rep.ExecutiveSummary, "Mês desafiador!")
	assert.Contains(t, rep.ExecutiveSummary, "Suas despesas excederam a renda em R$ 400.00.")
	assert.Contains(t, rep.AreasForImprovement, "Taxa de poupança abaixo do ideal - tente economizar mais")
	assert.Contains(t, rep.NextMonth.RiskFactors, "Despesas históricas excedem receita")
	assert.Equal(t, []string{"Continue se esforçando!"}, rep.Achievements)
}

func TestGenerate_EmptyMonth(t *testing.T) {
	now := date(2025, 7, 1)
	asm := NewAssembler(ledger.NewMemory(), quietLogger())

	rep, err := asm.Generate("user-1", 2025, time.June, now)
	require.NoError(t, err)

	assert.Equal(t, 50, rep.HealthScore)
	assert.True(t, rep.IncomeTotal.IsZero())
	assert.Empty(t, rep.KeyInsights)
	// A zero savings rate counts as below ideal even with no activity.
	assert.Equal(t, []string{"Taxa de poupança abaixo do ideal - tente economizar mais"},
		rep.AreasForImprovement)
}

func TestMonthHealthScore_Bands(t *testing.T) {
	tests := []struct {
		name     string
		income   string
		expenses string
		txCount  int
		want     int
	}{
		{"excellent ratio and savings", "10000", "4000", 12, 100},
		{"ratio just under 0.7", "1000", "650", 0, 80},
		{"ratio just under 0.8", "1000", "750", 0, 75},
		{"savings between 10 and 20 percent", "1000", "850", 0, 65},
		{"overspending", "1000", "1100", 0, 40},
		{"no income", "0", "500", 0, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := monthHealthScore(dec(tt.income), dec(tt.expenses), tt.txCount)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImprovementAreas_SmallTransactions(t *testing.T) {
	var txs []model.TransactionRecord
	for i := 0; i < 7; i++ {
		txs = append(txs, tx("s", model.KindExpense, "20.00", "Coffee", date(2025, 6, 2)))
	}
	txs = append(txs, tx("big", model.KindExpense, "900.00", "Rent", date(2025, 6, 3)))

	areas := improvementAreas(30, txs)
	assert.Contains(t, areas, "Muitas compras pequenas detectadas - cuidado com gastos impulsivos")
}
