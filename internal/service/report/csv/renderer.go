// Package csv renders session analysis results as CSV documents.
package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	api "github.com/cloudshift/migration-analyzer/api/v1alpha1"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderCostDetail produces the per-VM cost report: one row per estimate with
// a fixed column set.
func (r *Renderer) RenderCostDetail(report *api.CostReport) (string, error) {
	csvRows := [][]string{
		{"VM Name", "CPU Cores", "Memory GB", "Storage GB", "Recommended Instance Type", "Pricing Plan", "Operating System", "Instance Cost", "Storage Cost", "Total Monthly Cost", "Environment"},
	}

	for _, e := range report.Estimates {
		csvRows = append(csvRows, []string{
			e.VMName,
			fmt.Sprintf("%d", e.CpuCount),
			fmt.Sprintf("%.1f", e.MemoryGB),
			fmt.Sprintf("%.1f", e.StorageGB),
			e.InstanceType,
			string(e.PricingPlan),
			string(e.OsCategory),
			fmt.Sprintf("%.2f", e.InstanceCost),
			fmt.Sprintf("%.2f", e.StorageCost),
			fmt.Sprintf("%.2f", e.TotalMonthlyCost),
			string(e.Environment),
		})
	}

	return r.convertRowsToCSV(csvRows)
}

// RenderSummary produces the sectioned executive report covering whichever
// phases have run for the session.
func (r *Renderer) RenderSummary(session *api.Session) (string, error) {
	var csvRows [][]string

	csvRows = append(csvRows, []string{"MIGRATION FEASIBILITY SUMMARY REPORT"})
	csvRows = append(csvRows, []string{fmt.Sprintf("Session: %s", session.Name)})
	csvRows = append(csvRows, []string{fmt.Sprintf("Generated: %s", time.Now().UTC().Format(time.RFC3339))})
	csvRows = append(csvRows, []string{""})

	csvRows = r.addScopeSection(csvRows, session.Scope)
	csvRows = r.addCostSection(csvRows, session.Cost)
	csvRows = r.addModernizationSection(csvRows, session.Modernization)

	return r.convertRowsToCSV(csvRows)
}

func (r *Renderer) addScopeSection(csvRows [][]string, scope *api.ScopeReport) [][]string {
	csvRows = append(csvRows, []string{"MIGRATION SCOPE"})
	csvRows = append(csvRows, []string{""})

	if scope == nil {
		csvRows = append(csvRows, []string{"Scope analysis has not run for this session."})
		csvRows = append(csvRows, []string{""})
		return csvRows
	}

	csvRows = append(csvRows, []string{"Metric", "Value"})
	csvRows = append(csvRows, []string{"Total Virtual Machines", fmt.Sprintf("%d", scope.TotalVms)})
	csvRows = append(csvRows, []string{"In Scope", fmt.Sprintf("%d", len(scope.InScope))})
	csvRows = append(csvRows, []string{"Out of Scope", fmt.Sprintf("%d", len(scope.OutOfScope))})
	csvRows = append(csvRows, []string{"Powered Off Exclusions", fmt.Sprintf("%d", len(scope.PoweredOff))})
	csvRows = append(csvRows, []string{""})

	if len(scope.OutOfScope) > 0 {
		csvRows = append(csvRows, []string{"OUT OF SCOPE DETAIL"})
		csvRows = append(csvRows, []string{"VM Name", "Category", "Reason"})
		for _, vm := range scope.OutOfScope {
			csvRows = append(csvRows, []string{vm.Name, string(vm.Category), vm.Reason})
		}
		csvRows = append(csvRows, []string{""})
	}

	if len(scope.PoweredOff) > 0 {
		csvRows = append(csvRows, []string{"POWERED OFF EXCLUSIONS"})
		csvRows = append(csvRows, []string{"VM Name", "Reason"})
		for _, vm := range scope.PoweredOff {
			csvRows = append(csvRows, []string{vm.Name, vm.Reason})
		}
		csvRows = append(csvRows, []string{""})
	}

	return csvRows
}

func (r *Renderer) addCostSection(csvRows [][]string, cost *api.CostReport) [][]string {
	csvRows = append(csvRows, []string{"COST ESTIMATE"})
	csvRows = append(csvRows, []string{""})

	if cost == nil {
		csvRows = append(csvRows, []string{"Cost estimation has not run for this session."})
		csvRows = append(csvRows, []string{""})
		return csvRows
	}

	csvRows = append(csvRows, []string{"Metric", "Value"})
	csvRows = append(csvRows, []string{"Priced Virtual Machines", fmt.Sprintf("%d", len(cost.Estimates))})
	csvRows = append(csvRows, []string{"Total Monthly Cost", fmt.Sprintf("%.2f", cost.TotalMonthlyCost)})
	csvRows = append(csvRows, []string{"Total Annual Cost", fmt.Sprintf("%.2f", cost.TotalAnnualCost)})
	csvRows = append(csvRows, []string{"Production Monthly Cost", fmt.Sprintf("%.2f", cost.ProductionCost)})
	csvRows = append(csvRows, []string{"Non-Production Monthly Cost", fmt.Sprintf("%.2f", cost.NonProductionCost)})
	csvRows = append(csvRows, []string{""})

	csvRows = append(csvRows, []string{"MONTHLY COST BREAKDOWN"})
	csvRows = append(csvRows, []string{"Component", "Monthly Cost"})
	csvRows = append(csvRows, []string{"Compute Instances", fmt.Sprintf("%.2f", cost.Breakdown.Instance)})
	csvRows = append(csvRows, []string{"Block Storage", fmt.Sprintf("%.2f", cost.Breakdown.Storage)})
	csvRows = append(csvRows, []string{"Network", fmt.Sprintf("%.2f", cost.Breakdown.Network)})
	csvRows = append(csvRows, []string{"Observability", fmt.Sprintf("%.2f", cost.Breakdown.Observability)})
	csvRows = append(csvRows, []string{""})

	if len(cost.FiveYearProjection) > 0 {
		csvRows = append(csvRows, []string{"ANNUAL COST PROJECTION"})
		csvRows = append(csvRows, []string{"Year", "Annual Cost"})
		for i, annual := range cost.FiveYearProjection {
			csvRows = append(csvRows, []string{fmt.Sprintf("Year %d", i+1), fmt.Sprintf("%.2f", annual)})
		}
		csvRows = append(csvRows, []string{""})
	}

	return csvRows
}

func (r *Renderer) addModernizationSection(csvRows [][]string, report *api.ModernizationReport) [][]string {
	csvRows = append(csvRows, []string{"MODERNIZATION OPPORTUNITIES"})
	csvRows = append(csvRows, []string{""})

	if report == nil {
		csvRows = append(csvRows, []string{"Modernization discovery has not run for this session."})
		csvRows = append(csvRows, []string{""})
		return csvRows
	}

	if len(report.Candidates) == 0 {
		csvRows = append(csvRows, []string{"No modernization candidates found."})
		csvRows = append(csvRows, []string{""})
		return csvRows
	}

	csvRows = append(csvRows, []string{"VM Name", "Opportunity", "Rationale"})
	for _, candidate := range report.Candidates {
		csvRows = append(csvRows, []string{candidate.VMName, candidate.Kind, candidate.Rationale})
	}
	csvRows = append(csvRows, []string{""})

	return csvRows
}

func (r *Renderer) convertRowsToCSV(csvRows [][]string) (string, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	for _, row := range csvRows {
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	return buf.String(), nil
}
