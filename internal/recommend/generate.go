// Package recommend synthesizes spending, goal, savings and budget signals
// into ranked recommendation records.
package recommend

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finsight-dev/finsight/internal/model"
	"github.com/finsight-dev/finsight/internal/stats"
)

// Fixed per-generator confidences keep the output deterministic.
const (
	spendingConfidence = 0.82
	goalConfidence     = 0.78
	savingsConfidence  = 0.88
	budgetConfidence   = 0.92

	spendingSuccess = 75.0
	goalSuccess     = 65.0
	savingsSuccess  = 85.0
	budgetSuccess   = 70.0
)

// Categories above this share of total expenses trigger a concentration
// recommendation.
var concentrationShare = decimal.NewFromInt(30)

// The transactions passed to Generate span a trailing three-month window;
// monthly figures divide window totals by this.
var windowMonths = decimal.NewFromInt(3)

// Generate runs every generator and returns the top maxCount candidates
// sorted by priority rank then confidence. The transactions are expected to
// cover a trailing 90-day window; now anchors goal pacing.
func Generate(txs []model.TransactionRecord, goals []model.GoalRecord, budgets []model.BudgetRecord, maxCount int, now time.Time) []model.Recommendation {
	var recs []model.Recommendation
	recs = append(recs, spendingRecommendations(txs)...)
	recs = append(recs, goalRecommendations(txs, goals, now)...)
	recs = append(recs, savingsRecommendations(txs)...)
	recs = append(recs, budgetRecommendations(budgets)...)

	sort.SliceStable(recs, func(i, j int) bool {
		ri, rj := recs[i].Priority.Rank(), recs[j].Priority.Rank()
		if ri != rj {
			return ri > rj
		}
		return recs[i].AIConfidence > recs[j].AIConfidence
	})
	if maxCount >= 0 && len(recs) > maxCount {
		recs = recs[:maxCount]
	}
	return recs
}

// spendingRecommendations flags categories concentrating expense share.
func spendingRecommendations(txs []model.TransactionRecord) []model.Recommendation {
	byCategory := stats.GroupByCategory(txs, model.KindExpense)
	total := decimal.Zero
	for _, amount := range byCategory {
		total = total.Add(amount)
	}
	if total.IsZero() {
		return nil
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var recs []model.Recommendation
	for _, category := range categories {
		amount := byCategory[category]
		share := amount.Div(total).Mul(decimal.NewFromInt(100))
		if !share.GreaterThan(concentrationShare) {
			continue
		}

		savings := amount.Div(windowMonths).Mul(decimal.NewFromFloat(0.15))
		priority := model.PriorityMedium
		if share.GreaterThanOrEqual(decimal.NewFromInt(40)) {
			priority = model.PriorityHigh
		}

		recs = append(recs, model.Recommendation{
			ID:    model.NewRecommendationID(),
			Title: fmt.Sprintf("Otimize Gastos com %s", category),
			Description: fmt.Sprintf(
				"Você está gastando %s%% do seu orçamento com %s. Reduzir em 15%% pode economizar R$ %s por mês.",
				share.Round(1).String(), category, savings.StringFixed(2)),
			Category:        "Otimização de Gastos",
			Priority:        priority,
			PotentialImpact: savings,
			ImplementationSteps: []string{
				fmt.Sprintf("Revise seus gastos com %s", category),
				"Identifique itens supérfluos ou substituíveis",
				"Estabeleça um limite mensal para esta categoria",
			},
			Difficulty:         "medium",
			EstimatedTime:      "2 semanas",
			SuccessProbability: spendingSuccess,
			AIConfidence:       spendingConfidence,
		})
	}
	return recs
}

// goalRecommendations flags active goals that current savings cannot reach
// by their target date.
func goalRecommendations(txs []model.TransactionRecord, goals []model.GoalRecord, now time.Time) []model.Recommendation {
	monthlySavings := stats.Net(txs).Div(windowMonths)

	var recs []model.Recommendation
	for _, goal := range goals {
		if goal.Status != model.GoalActive || goal.TargetDate == nil {
			continue
		}

		remaining := goal.Remaining()
		monthsNeeded := 0
		if monthlySavings.IsPositive() {
			monthsNeeded = int(remaining.Div(monthlySavings).IntPart())
		}

		targetMonths := int(goal.TargetDate.Sub(now).Hours() / 24 / 30)
		if targetMonths <= 0 || monthsNeeded <= targetMonths {
			continue
		}

		additional := remaining.Div(decimal.NewFromInt(int64(targetMonths))).Sub(monthlySavings)
		recs = append(recs, model.Recommendation{
			ID:    model.NewRecommendationID(),
			Title: fmt.Sprintf("Acelere Meta: %s", goal.Name),
			Description: fmt.Sprintf(
				"Para atingir sua meta '%s' no prazo, você precisa economizar R$ %s a mais por mês.",
				goal.Name, additional.StringFixed(2)),
			Category:        "Metas Financeiras",
			Priority:        model.PriorityHigh,
			PotentialImpact: additional,
			ImplementationSteps: []string{
				"Revise gastos não essenciais",
				fmt.Sprintf("Automatize transferência de R$ %s", additional.StringFixed(2)),
				"Acompanhe progresso semanalmente",
			},
			Difficulty:         "medium",
			EstimatedTime:      "1 mês",
			SuccessProbability: goalSuccess,
			RelatedGoals:       []string{goal.ID},
			AIConfidence:       goalConfidence,
		})
	}
	return recs
}

// savingsRecommendations suggests a monthly top-up toward a 20% rate.
func savingsRecommendations(txs []model.TransactionRecord) []model.Recommendation {
	income, expenses := stats.SumByKind(txs)
	if income.IsZero() {
		return nil
	}

	rate := income.Sub(expenses).Div(income).Mul(decimal.NewFromInt(100))
	if rate.GreaterThanOrEqual(decimal.NewFromInt(20)) {
		return nil
	}

	target := income.Mul(decimal.NewFromFloat(0.20))
	current := income.Sub(expenses)
	additional := target.Sub(current).Div(windowMonths)

	return []model.Recommendation{{
		ID:    model.NewRecommendationID(),
		Title: "Aumente sua Taxa de Poupança",
		Description: fmt.Sprintf(
			"Sua taxa de poupança atual é %s%%. O ideal é 20%%. Economize R$ %s a mais por mês.",
			rate.Round(1).String(), additional.StringFixed(2)),
		Category:        "Poupança",
		Priority:        model.PriorityHigh,
		PotentialImpact: additional,
		ImplementationSteps: []string{
			"Automatize transferência para poupança no dia do pagamento",
			"Use a regra 50/30/20 (50% essenciais, 30% desejos, 20% poupança)",
			"Renegocie contratos e assinaturas",
		},
		Difficulty:         "easy",
		EstimatedTime:      "1 semana",
		SuccessProbability: savingsSuccess,
		AIConfidence:       savingsConfidence,
	}}
}

// budgetRecommendations warns on budgets at or past their alert threshold.
func budgetRecommendations(budgets []model.BudgetRecord) []model.Recommendation {
	var recs []model.Recommendation
	for _, budget := range budgets {
		if !budget.IsNearLimit() && !budget.IsExceeded() {
			continue
		}

		priority := model.PriorityHigh
		if budget.IsExceeded() {
			priority = model.PriorityUrgent
		}

		recs = append(recs, model.Recommendation{
			ID:    model.NewRecommendationID(),
			Title: fmt.Sprintf("Atenção: Orçamento de %s", budget.Category),
			Description: fmt.Sprintf(
				"Você está próximo do limite do orçamento de %s. Já gastou %.0f%%.",
				budget.Category, budget.SpentPercent()),
			Category:        "Orçamento",
			Priority:        priority,
			PotentialImpact: budget.Remaining(),
			ImplementationSteps: []string{
				fmt.Sprintf("Evite gastos com %s pelos próximos dias", budget.Category),
				"Revise compras programadas",
				"Considere ajustar o orçamento se necessário",
			},
			Difficulty:         "easy",
			EstimatedTime:      "Imediato",
			SuccessProbability: budgetSuccess,
			AIConfidence:       budgetConfidence,
		})
	}
	return recs
}
