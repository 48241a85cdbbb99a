package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/homeplan/internal/domain"
)

// FormatTemplateItems renders the template with each item's dependencies
// listed by name.
func FormatTemplateItems(items []*domain.TemplateItem, deps []domain.TemplateDependency) string {
	names := make(map[string]string, len(items))
	for _, it := range items {
		names[it.ID] = it.Name
	}
	dependsOn := make(map[string][]string)
	for _, d := range deps {
		dependsOn[d.TemplateItemID] = append(dependsOn[d.TemplateItemID], names[d.DependsOnItemID])
	}

	headers := []string{"ORDER", "NAME", "DAYS", "CATEGORY", "GATE", "DEPENDS ON", "ID"}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		gate := Dim("--")
		if it.IsCriticalGate {
			gate = StylePurple.Render(fmt.Sprintf("%s (%s, %s)", it.DisplayGateName(), it.GateScope, it.GateBlockMode))
		}
		after := Dim("--")
		if d := dependsOn[it.ID]; len(d) > 0 {
			after = strings.Join(d, ", ")
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", it.SortOrder),
			Bold(it.Name),
			fmt.Sprintf("%d", it.DurationDays),
			orDash(it.Category),
			gate,
			after,
			TruncID(it.ID),
		})
	}
	return RenderBox("Template", RenderTable(headers, rows))
}

// FormatImportSummary reports what a template import created.
func FormatImportSummary(items, deps int) string {
	return fmt.Sprintf("%s %d items and %d dependencies\n", StyleGreen.Render("Imported"), items, deps)
}
