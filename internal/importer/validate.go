package importer

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/homeplan/internal/domain"
	"github.com/alexanderramin/homeplan/internal/scheduler"
)

// ValidateTemplateSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateTemplateSchema(schema *TemplateSchema) []error {
	var errs []error

	if len(schema.Items) == 0 {
		return []error{fmt.Errorf("items: at least one item is required")}
	}

	refs := make(map[string]bool)
	for i, it := range schema.Items {
		errs = append(errs, validateItem(i, &it, refs)...)
	}

	for i, it := range schema.Items {
		seen := make(map[string]bool, len(it.DependsOn))
		for j, dep := range it.DependsOn {
			prefix := fmt.Sprintf("items[%d].depends_on[%d]", i, j)
			switch {
			case dep == "":
				errs = append(errs, fmt.Errorf("%s: ref is required", prefix))
			case seen[dep]:
				errs = append(errs, fmt.Errorf("%s: duplicate ref %q", prefix, dep))
			case dep == it.Ref:
				errs = append(errs, fmt.Errorf("%s: self-dependency on %q", prefix, dep))
			case !refs[dep]:
				errs = append(errs, fmt.Errorf("%s: ref %q not found in items", prefix, dep))
			}
			seen[dep] = true
		}
	}

	// Cycle detection only makes sense once every ref resolves.
	if len(errs) == 0 {
		if err := detectCycles(schema); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

func validateItem(i int, it *ItemImport, refs map[string]bool) []error {
	var errs []error
	prefix := fmt.Sprintf("items[%d]", i)

	if it.Ref == "" {
		errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
	} else if refs[it.Ref] {
		errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, it.Ref))
	} else {
		refs[it.Ref] = true
	}
	if it.Name == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", prefix))
	}
	if it.DurationDays <= 0 {
		errs = append(errs, fmt.Errorf("%s.duration_days must be positive, got %d", prefix, it.DurationDays))
	}
	if g := it.Gate; g != nil {
		if g.Scope != "" && !domain.ValidGateScopes[g.Scope] {
			errs = append(errs, fmt.Errorf("%s.gate.scope: invalid value %q", prefix, g.Scope))
		}
		if g.BlockMode != "" && !domain.ValidGateBlockModes[g.BlockMode] {
			errs = append(errs, fmt.Errorf("%s.gate.block_mode: invalid value %q", prefix, g.BlockMode))
		}
	}
	return errs
}

// detectCycles runs the same topological check used for live template edits.
func detectCycles(schema *TemplateSchema) error {
	nodes := make([]scheduler.Node, 0, len(schema.Items))
	var edges []scheduler.Edge
	for _, it := range schema.Items {
		nodes = append(nodes, scheduler.Node{ID: it.Ref, Name: it.Name})
		for _, dep := range it.DependsOn {
			edges = append(edges, scheduler.Edge{From: dep, To: it.Ref})
		}
	}

	_, err := scheduler.TopoOrder(nodes, edges)
	var cycle *domain.CycleError
	if errors.As(err, &cycle) {
		return fmt.Errorf("circular dependency among %v: %w", cycle.IDs, err)
	}
	return err
}
