// Package report assembles the monthly financial report: month health
// score, executive summary, insights, achievements, improvement areas,
// next-month cash flow and goal progress.
package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/finsight-dev/finsight/internal/ledger"
	"github.com/finsight-dev/finsight/internal/model"
	"github.com/finsight-dev/finsight/internal/recommend"
	"github.com/finsight-dev/finsight/internal/trend"
)

const (
	historyMonths        = 6
	recommendWindowDays  = 90
	smallTransactionMax  = 50  // R$, impulse-size purchases
	maxDailyGoalPace     = 100 // R$/day above which a goal is off track
	maxKeyInsights       = 5
	maxRecommendations   = 5
	unevenWeeklyMultiple = 2
)

// Assembler builds monthly reports from the ledger.
type Assembler struct {
	ledger ledger.Ledger
	log    *logrus.Logger
}

// NewAssembler wires a report assembler.
func NewAssembler(l ledger.Ledger, log *logrus.Logger) *Assembler {
	return &Assembler{ledger: l, log: log}
}

// Generate assembles the report for the given reference month. now is used
// for the generation timestamp and goal pacing only; all aggregation windows
// derive from the reference month.
func (a *Assembler) Generate(ownerID string, year int, month time.Month, now time.Time) (model.MonthlyReport, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	txs, err := a.ledger.Transactions(ownerID, monthStart, monthEnd, ledger.TransactionFilter{})
	if err != nil {
		return model.MonthlyReport{}, fmt.Errorf("loading month transactions for %s: %w", ownerID, err)
	}
	goals, err := a.ledger.Goals(ownerID, "")
	if err != nil {
		return model.MonthlyReport{}, fmt.Errorf("loading goals for %s: %w", ownerID, err)
	}
	budgets, err := a.ledger.Budgets(ownerID)
	if err != nil {
		return model.MonthlyReport{}, fmt.Errorf("loading budgets for %s: %w", ownerID, err)
	}

	income, expenses := totals(txs)
	savings := income.Sub(expenses)
	savingsRate := 0.0
	if income.IsPositive() {
		rate, _ := savings.Div(income).Mul(decimal.NewFromInt(100)).Round(2).Float64()
		savingsRate = rate
	}

	score := monthHealthScore(income, expenses, len(txs))
	change, err := a.scoreChange(ownerID, monthStart, score)
	if err != nil {
		return model.MonthlyReport{}, err
	}

	recentTxs, err := a.ledger.Transactions(ownerID, monthEnd.AddDate(0, 0, -recommendWindowDays), monthEnd, ledger.TransactionFilter{})
	if err != nil {
		return model.MonthlyReport{}, fmt.Errorf("loading recommendation window for %s: %w", ownerID, err)
	}
	histTxs, err := a.ledger.Transactions(ownerID, monthStart.AddDate(0, -historyMonths, 0), monthEnd, ledger.TransactionFilter{})
	if err != nil {
		return model.MonthlyReport{}, fmt.Errorf("loading history window for %s: %w", ownerID, err)
	}

	rep := model.MonthlyReport{
		ReportID:            model.NewReportID(year, month),
		ReferenceMonth:      fmt.Sprintf("%04d-%02d", year, int(month)),
		GeneratedAt:         now,
		ExecutiveSummary:    executiveSummary(savings, savingsRate, change),
		HealthScore:         score,
		HealthScoreChange:   change,
		IncomeTotal:         income,
		ExpenseTotal:        expenses,
		SavingsTotal:        savings,
		SavingsRate:         savingsRate,
		KeyInsights:         keyInsights(txs, income, expenses),
		Achievements:        achievements(savingsRate, change, txs, goals),
		AreasForImprovement: improvementAreas(savingsRate, txs),
		NextMonth:           predictNextMonth(histTxs, monthStart),
		TopRecommendations:  recommend.Generate(recentTxs, activeOnly(goals), budgets, maxRecommendations, now),
		GoalsProgress:       goalsProgress(goals, now),
	}

	a.log.WithFields(logrus.Fields{
		"owner":  ownerID,
		"month":  rep.ReferenceMonth,
		"score":  score,
		"report": rep.ReportID,
	}).Info("monthly report generated")
	return rep, nil
}

func totals(txs []model.TransactionRecord) (income, expenses decimal.Decimal) {
	for _, t := range txs {
		switch t.Kind {
		case model.KindIncome:
			income = income.Add(t.Amount)
		case model.KindExpense:
			expenses = expenses.Add(t.Amount)
		}
	}
	return income, expenses
}

// monthHealthScore is the single-month scoring variant: base 50 adjusted by
// expense ratio, transaction count and savings share, clamped to [0,100].
func monthHealthScore(income, expenses decimal.Decimal, txCount int) int {
	score := 50

	if income.IsPositive() {
		ratio := expenses.Div(income)
		switch {
		case ratio.LessThan(decimal.RequireFromString("0.5")):
			score += 25
		case ratio.LessThan(decimal.RequireFromString("0.7")):
			score += 20
		case ratio.LessThan(decimal.RequireFromString("0.8")):
			score += 15
		case ratio.LessThan(decimal.RequireFromString("0.9")):
			score += 10
		default:
			score -= 10
		}
	}

	switch {
	case txCount >= 10:
		score += 15
	case txCount >= 5:
		score += 10
	case txCount >= 3:
		score += 5
	}

	savings := income.Sub(expenses)
	switch {
	case savings.GreaterThan(income.Mul(decimal.RequireFromString("0.2"))):
		score += 10
	case savings.GreaterThan(income.Mul(decimal.RequireFromString("0.1"))):
		score += 5
	}

	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

// scoreChange scores the previous month with the same variant and returns
// the delta. A month with no transactions yields zero change.
func (a *Assembler) scoreChange(ownerID string, monthStart time.Time, current int) (int, error) {
	prevStart := monthStart.AddDate(0, -1, 0)
	prevEnd := monthStart.AddDate(0, 0, -1)

	prevTxs, err := a.ledger.Transactions(ownerID, prevStart, prevEnd, ledger.TransactionFilter{})
	if err != nil {
		return 0, fmt.Errorf("loading previous month for %s: %w", ownerID, err)
	}
	if len(prevTxs) == 0 {
		return 0, nil
	}

	prevIncome, prevExpenses := totals(prevTxs)
	return current - monthHealthScore(prevIncome, prevExpenses, len(prevTxs)), nil
}

func executiveSummary(savings decimal.Decimal, savingsRate float64, change int) string {
	var performance string
	switch {
	case savingsRate >= 20:
		performance = "Excelente mês"
	case savingsRate >= 10:
		performance = "Bom mês"
	case savingsRate >= 0:
		performance = "Mês regular"
	default:
		performance = "Mês desafiador"
	}

	parts := []string{performance + "!"}
	if savings.IsPositive() {
		parts = append(parts, fmt.Sprintf("Você economizou %.1f%% da sua renda (R$ %s).",
			savingsRate, savings.StringFixed(2)))
	} else {
		parts = append(parts, fmt.Sprintf("Suas despesas excederam a renda em R$ %s.",
			savings.Abs().StringFixed(2)))
	}

	if change > 0 {
		parts = append(parts, fmt.Sprintf("Sua saúde financeira melhorou %d pontos.", change))
	} else if change < 0 {
		parts = append(parts, fmt.Sprintf("Sua saúde financeira caiu %d pontos.", -change))
	}

	out := parts[0]
	for _, p := range parts[1:] {
		out += " " + p
	}
	return out
}

func keyInsights(txs []model.TransactionRecord, income, expenses decimal.Decimal) []string {
	var insights []string

	incomeCount := 0
	for _, t := range txs {
		if t.Kind == model.KindIncome {
			incomeCount++
		}
	}
	if income.IsPositive() && incomeCount > 1 {
		insights = append(insights, fmt.Sprintf("Você teve %d fontes de receita este mês", incomeCount))
	}

	byCategory := map[string]decimal.Decimal{}
	expenseCount := 0
	for _, t := range txs {
		if t.Kind == model.KindExpense {
			byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
			expenseCount++
		}
	}
	if len(byCategory) > 0 {
		names := make([]string, 0, len(byCategory))
		for name := range byCategory {
			names = append(names, name)
		}
		sort.Strings(names)

		top := names[0]
		for _, name := range names[1:] {
			if byCategory[name].GreaterThan(byCategory[top]) {
				top = name
			}
		}

		percentage := 0.0
		if expenses.IsPositive() {
			percentage, _ = byCategory[top].Div(expenses).Mul(decimal.NewFromInt(100)).Round(1).Float64()
		}
		insights = append(insights, fmt.Sprintf("Maior gasto foi com %s (R$ %s - %.1f%% das despesas)",
			top, byCategory[top].StringFixed(2), percentage))
	}

	if expenseCount > 0 {
		avg := expenses.Div(decimal.NewFromInt(int64(expenseCount)))
		insights = append(insights, fmt.Sprintf("Valor médio por transação: R$ %s (%d transações)",
			avg.StringFixed(2), expenseCount))
	}

	if len(insights) > maxKeyInsights {
		insights = insights[:maxKeyInsights]
	}
	return insights
}

func achievements(savingsRate float64, change int, txs []model.TransactionRecord, goals []model.GoalRecord) []string {
	var out []string

	if savingsRate >= 20 {
		out = append(out, "Excelente taxa de poupança atingida (20%+)")
	} else if savingsRate >= 15 {
		out = append(out, "Boa taxa de poupança atingida (15%+)")
	}

	if change >= 10 {
		out = append(out, fmt.Sprintf("Grande melhoria na saúde financeira (+%d pontos)", change))
	} else if change >= 5 {
		out = append(out, fmt.Sprintf("Melhoria na saúde financeira (+%d pontos)", change))
	}

	if len(txs) >= 10 {
		out = append(out, "Bom registro de transações - continue acompanhando!")
	}

	for _, g := range goals {
		if g.Status == model.GoalCompleted {
			out = append(out, fmt.Sprintf("Meta '%s' concluída com sucesso!", g.Name))
			break
		}
	}

	if len(out) == 0 {
		return []string{"Continue se esforçando!"}
	}
	return out
}

func improvementAreas(savingsRate float64, txs []model.TransactionRecord) []string {
	var areas []string

	if savingsRate < 10 {
		areas = append(areas, "Taxa de poupança abaixo do ideal - tente economizar mais")
	}

	small := 0
	weekly := map[int]decimal.Decimal{}
	for _, t := range txs {
		if t.Kind != model.KindExpense {
			continue
		}
		if t.Amount.LessThan(decimal.NewFromInt(smallTransactionMax)) {
			small++
		}
		_, week := t.Date.ISOWeek()
		weekly[week] = weekly[week].Add(t.Amount)
	}

	if float64(small) > float64(len(txs))*0.6 {
		areas = append(areas, "Muitas compras pequenas detectadas - cuidado com gastos impulsivos")
	}

	if len(weekly) >= 2 {
		var amounts []decimal.Decimal
		for _, v := range weekly {
			amounts = append(amounts, v)
		}
		maxAmount, minAmount := amounts[0], amounts[0]
		for _, v := range amounts[1:] {
			if v.GreaterThan(maxAmount) {
				maxAmount = v
			}
			if v.LessThan(minAmount) {
				minAmount = v
			}
		}
		if maxAmount.GreaterThan(minAmount.Mul(decimal.NewFromInt(unevenWeeklyMultiple))) {
			areas = append(areas, "Gastos irregulares ao longo do mês - tente distribuir melhor")
		}
	}

	if len(areas) == 0 {
		return []string{"Continue com o bom trabalho!"}
	}
	return areas
}

// predictNextMonth averages the trailing six months and takes its confidence
// from the fitted net trend over the same series.
func predictNextMonth(histTxs []model.TransactionRecord, monthStart time.Time) model.CashFlowPrediction {
	monthEnd := monthStart.AddDate(0, 1, -1)
	series := trend.MonthlySeries(histTxs, historyMonths, monthEnd)

	var totalIncome, totalExpenses decimal.Decimal
	for _, p := range series {
		totalIncome = totalIncome.Add(p.Income)
		totalExpenses = totalExpenses.Add(p.Expenses)
	}
	months := decimal.NewFromInt(historyMonths)
	avgIncome := totalIncome.Div(months).Round(2)
	avgExpenses := totalExpenses.Div(months).Round(2)

	confidence := 0.5
	if analysis, err := trend.Analyze(series, 1); err == nil {
		confidence = analysis.Confidence
	}

	var riskFactors []string
	if avgExpenses.GreaterThan(avgIncome) {
		riskFactors = append(riskFactors, "Despesas históricas excedem receita")
	}

	next := monthStart.AddDate(0, 1, 0)
	return model.CashFlowPrediction{
		Month:             next.Format("2006-01"),
		PredictedIncome:   avgIncome,
		PredictedExpenses: avgExpenses,
		PredictedBalance:  avgIncome.Sub(avgExpenses),
		Confidence:        confidence,
		RiskFactors:       riskFactors,
	}
}

func activeOnly(goals []model.GoalRecord) []model.GoalRecord {
	var out []model.GoalRecord
	for _, g := range goals {
		if g.Status == model.GoalActive {
			out = append(out, g)
		}
	}
	return out
}

func goalsProgress(goals []model.GoalRecord, now time.Time) []model.GoalProgress {
	var out []model.GoalProgress
	for _, g := range goals {
		if g.Status != model.GoalActive && g.Status != model.GoalCompleted {
			continue
		}

		onTrack := true
		if g.Status == model.GoalActive && g.TargetDate != nil {
			if days, ok := g.DaysRemaining(now); ok && days > 0 {
				daily := g.Remaining().Div(decimal.NewFromInt(int64(days)))
				if daily.GreaterThan(decimal.NewFromInt(maxDailyGoalPace)) {
					onTrack = false
				}
			}
		}

		out = append(out, model.GoalProgress{
			GoalID:   g.ID,
			GoalName: g.Name,
			Progress: round1(g.ProgressPercent()),
			OnTrack:  onTrack,
			Status:   g.Status,
		})
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
