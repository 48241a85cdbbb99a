package importer

import (
	"time"

	"github.com/alexanderramin/homeplan/internal/domain"
	"github.com/google/uuid"
)

// sortOrderStep spaces default sort orders so items can be inserted later.
const sortOrderStep = 10

// ConvertedTemplate holds domain objects ready for persistence.
type ConvertedTemplate struct {
	Items        []*domain.TemplateItem
	Dependencies []domain.TemplateDependency
	// RefToID maps file refs to the generated item ids.
	RefToID map[string]string
}

// Convert transforms a validated TemplateSchema into domain objects.
// Call ValidateTemplateSchema first; Convert assumes the schema is valid.
// Default sort orders continue from baseSortOrder.
func Convert(schema *TemplateSchema, baseSortOrder int) *ConvertedTemplate {
	now := time.Now().UTC()
	out := &ConvertedTemplate{RefToID: make(map[string]string, len(schema.Items))}

	for i, it := range schema.Items {
		item := &domain.TemplateItem{
			ID:           uuid.New().String(),
			Name:         it.Name,
			DurationDays: it.DurationDays,
			SortOrder:    domain.IntFromPtrWithDefault(baseSortOrder+(i+1)*sortOrderStep, it.SortOrder),
			Category:     it.Category,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if g := it.Gate; g != nil {
			item.IsCriticalGate = true
			item.GateName = g.Name
			item.GateScope = domain.GateScope(g.Scope)
			item.GateBlockMode = domain.GateBlockMode(g.BlockMode)
		}
		item.ApplyDefaults()

		out.RefToID[it.Ref] = item.ID
		out.Items = append(out.Items, item)
	}

	for _, it := range schema.Items {
		for _, dep := range it.DependsOn {
			out.Dependencies = append(out.Dependencies, domain.TemplateDependency{
				DependsOnItemID: out.RefToID[dep],
				TemplateItemID:  out.RefToID[it.Ref],
			})
		}
	}
	return out
}
