package domain

import "time"

// TemplateItem is a reusable unit of work shared across homes. Items flagged
// IsCriticalGate act as quality gates for other tasks in the same home.
type TemplateItem struct {
	ID           string
	Name         string
	DurationDays int
	SortOrder    int
	Category     *string

	// Gate metadata
	IsCriticalGate bool
	GateScope      GateScope
	GateBlockMode  GateBlockMode
	GateName       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TemplateDependency records that TemplateItemID depends on DependsOnItemID.
type TemplateDependency struct {
	DependsOnItemID string
	TemplateItemID  string
}

// DisplayGateName returns the gate label: GateName, then Category, then Name.
func (t *TemplateItem) DisplayGateName() string {
	return CoalesceStr(StrFromPtr(t.GateName), StrFromPtr(t.Category), t.Name)
}

// ApplyDefaults fills unset gate settings with their defaults.
func (t *TemplateItem) ApplyDefaults() {
	if t.GateScope == "" {
		t.GateScope = GateScopeDownstreamOnly
	}
	if t.GateBlockMode == "" {
		t.GateBlockMode = GateBlockScheduleOnly
	}
}

// Validate checks field-level constraints on a template item.
func (t *TemplateItem) Validate() error {
	if t.Name == "" {
		return validationf("template item name is required")
	}
	if t.DurationDays <= 0 {
		return validationf("template item %q: duration must be a positive number of days, got %d", t.Name, t.DurationDays)
	}
	if !ValidGateScopes[string(t.GateScope)] {
		return validationf("template item %q: invalid gate scope %q", t.Name, t.GateScope)
	}
	if !ValidGateBlockModes[string(t.GateBlockMode)] {
		return validationf("template item %q: invalid gate block mode %q", t.Name, t.GateBlockMode)
	}
	return nil
}
