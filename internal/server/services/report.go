package services

import (
	"context"
	"sort"

	"github.com/ivanuser/car-project-manager-sub002/internal/common"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/models"
)

// Report aggregates the project's expenses against its budget: total
// spend, spend per category with the planned amount and delta, and spend
// per calendar month. Categories that have a budget item but no expenses
// still appear, so unspent plans are visible. The data set is one
// project's rows, so the grouping happens in memory rather than in SQL.
func (s *ExpenseService) Report(ctx context.Context, userID, projectID string) (*models.ExpenseReport, error) {
	if _, err := ownedProject(ctx, s.repomanager.Projects(s.db), userID, projectID); err != nil {
		return nil, mapStoreErr(ctx, s.logger, "project fetch failed", err)
	}
	expenses, err := s.repomanager.Expenses(s.db).ListByProject(ctx, projectID)
	if err != nil {
		s.logger.Error(ctx, "expense list failed", "error", err)
		return nil, common.ErrorInternal
	}
	budget, err := s.repomanager.Budgets(s.db).ListByProject(ctx, projectID)
	if err != nil {
		s.logger.Error(ctx, "budget list failed", "error", err)
		return nil, common.ErrorInternal
	}

	report := &models.ExpenseReport{ProjectID: projectID}

	spentByCategory := make(map[string]int64)
	spentByMonth := make(map[string]int64)
	for _, e := range expenses {
		report.TotalCents += e.AmountCents
		spentByCategory[e.Category] += e.AmountCents
		spentByMonth[e.SpentAt.Format("2006-01")] += e.AmountCents
	}

	plannedByCategory := make(map[string]int64)
	for _, b := range budget {
		plannedByCategory[b.Category] = b.PlannedCents
		if _, ok := spentByCategory[b.Category]; !ok {
			spentByCategory[b.Category] = 0
		}
	}

	for category, spent := range spentByCategory {
		planned := plannedByCategory[category]
		report.ByCategory = append(report.ByCategory, models.CategoryTotal{
			Category:     category,
			SpentCents:   spent,
			PlannedCents: planned,
			DeltaCents:   planned - spent,
		})
	}
	sort.Slice(report.ByCategory, func(i, j int) bool {
		return report.ByCategory[i].Category < report.ByCategory[j].Category
	})

	for month, spent := range spentByMonth {
		report.ByMonth = append(report.ByMonth, models.MonthTotal{Month: month, SpentCents: spent})
	}
	sort.Slice(report.ByMonth, func(i, j int) bool {
		return report.ByMonth[i].Month < report.ByMonth[j].Month
	})

	return report, nil
}
