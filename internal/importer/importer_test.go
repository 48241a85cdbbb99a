package importer

import (
	"testing"

	"github.com/alexanderramin/homeplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func validSchema() *TemplateSchema {
	return &TemplateSchema{Items: []ItemImport{
		{Ref: "a", Name: "A", DurationDays: 2},
		{Ref: "b", Name: "B", DurationDays: 3, DependsOn: []string{"a"}},
		{Ref: "c", Name: "C", DurationDays: 1, DependsOn: []string{"a", "b"}},
	}}
}

func errorMessages(errs []error) []string {
	var out []string
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}

func TestLoadTemplateSchema_YAML(t *testing.T) {
	schema, err := LoadTemplateSchema("testdata/starter.yaml")
	require.NoError(t, err)
	require.Len(t, schema.Items, 4)

	gate := schema.Items[2]
	assert.Equal(t, "framing-inspection", gate.Ref)
	require.NotNil(t, gate.Gate)
	assert.Equal(t, "Frame QA", *gate.Gate.Name)
	assert.Equal(t, "schedule_and_confirm", gate.Gate.BlockMode)
	assert.Equal(t, []string{"framing"}, gate.DependsOn)
	assert.Equal(t, 100, *schema.Items[3].SortOrder)

	assert.Empty(t, ValidateTemplateSchema(schema))
}

func TestLoadTemplateSchema_JSON(t *testing.T) {
	schema, err := LoadTemplateSchema("testdata/starter.json")
	require.NoError(t, err)
	require.Len(t, schema.Items, 2)
	assert.Equal(t, "all", schema.Items[1].Gate.Scope)
	assert.Empty(t, ValidateTemplateSchema(schema))
}

func TestLoadTemplateSchema_MissingFile(t *testing.T) {
	_, err := LoadTemplateSchema("testdata/nope.yaml")
	assert.Error(t, err)
}

func TestParseTemplateSchema_BadJSON(t *testing.T) {
	_, err := ParseTemplateSchema([]byte("{"), ".json")
	assert.ErrorContains(t, err, "parsing import file")
}

func TestValidateTemplateSchema_Valid(t *testing.T) {
	assert.Empty(t, ValidateTemplateSchema(validSchema()))
}

func TestValidateTemplateSchema_Empty(t *testing.T) {
	errs := ValidateTemplateSchema(&TemplateSchema{})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "at least one item")
}

func TestValidateTemplateSchema_FieldErrors(t *testing.T) {
	schema := &TemplateSchema{Items: []ItemImport{
		{Ref: "a", Name: "", DurationDays: 0},
		{Ref: "a", Name: "Dup", DurationDays: 1},
		{Ref: "g", Name: "G", DurationDays: 1, Gate: &GateImport{Scope: "upstream", BlockMode: "sometimes"}},
	}}

	msgs := errorMessages(ValidateTemplateSchema(schema))
	assert.Contains(t, msgs, "items[0].name is required")
	assert.Contains(t, msgs, "items[0].duration_days must be positive, got 0")
	assert.Contains(t, msgs, `items[1].ref: duplicate ref "a"`)
	assert.Contains(t, msgs, `items[2].gate.scope: invalid value "upstream"`)
	assert.Contains(t, msgs, `items[2].gate.block_mode: invalid value "sometimes"`)
}

func TestValidateTemplateSchema_DependencyRefs(t *testing.T) {
	schema := validSchema()
	schema.Items[0].DependsOn = []string{"a"}
	schema.Items[1].DependsOn = []string{"ghost"}

	msgs := errorMessages(ValidateTemplateSchema(schema))
	assert.Contains(t, msgs, `items[0].depends_on[0]: self-dependency on "a"`)
	assert.Contains(t, msgs, `items[1].depends_on[0]: ref "ghost" not found in items`)
}

func TestValidateTemplateSchema_DuplicateDependencyRef(t *testing.T) {
	schema := validSchema()
	schema.Items[1].DependsOn = []string{"a", "a"}
	schema.Items[2].DependsOn = []string{"a", "b", "a"}

	errs := ValidateTemplateSchema(schema)
	msgs := errorMessages(errs)
	assert.Len(t, errs, 2)
	assert.Contains(t, msgs, `items[1].depends_on[1]: duplicate ref "a"`)
	assert.Contains(t, msgs, `items[2].depends_on[2]: duplicate ref "a"`)
}

func TestValidateTemplateSchema_Cycle(t *testing.T) {
	schema := validSchema()
	schema.Items[0].DependsOn = []string{"c"}

	errs := ValidateTemplateSchema(schema)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], domain.ErrCycleDetected)
	assert.Contains(t, errs[0].Error(), "[a b c]")
}

func TestConvert_AssignsIDsAndRemapsDependencies(t *testing.T) {
	out := Convert(validSchema(), 0)

	require.Len(t, out.Items, 3)
	require.Len(t, out.Dependencies, 3)
	for _, item := range out.Items {
		assert.NotEmpty(t, item.ID)
		assert.Equal(t, domain.GateScopeDownstreamOnly, item.GateScope)
		assert.Equal(t, domain.GateBlockScheduleOnly, item.GateBlockMode)
		assert.False(t, item.IsCriticalGate)
	}
	assert.Equal(t, []int{10, 20, 30}, []int{out.Items[0].SortOrder, out.Items[1].SortOrder, out.Items[2].SortOrder})

	assert.Equal(t, domain.TemplateDependency{
		DependsOnItemID: out.RefToID["a"],
		TemplateItemID:  out.RefToID["b"],
	}, out.Dependencies[0])
}

func TestConvert_GateAndExplicitSortOrder(t *testing.T) {
	order := 5
	schema := &TemplateSchema{Items: []ItemImport{{
		Ref: "g", Name: "Inspection", DurationDays: 1, SortOrder: &order,
		Category: strPtr("framing"),
		Gate:     &GateImport{BlockMode: "all"},
	}}}

	out := Convert(schema, 40)
	item := out.Items[0]
	assert.Equal(t, 5, item.SortOrder)
	assert.True(t, item.IsCriticalGate)
	assert.Equal(t, domain.GateScopeDownstreamOnly, item.GateScope)
	assert.Equal(t, domain.GateBlockAll, item.GateBlockMode)
	assert.Equal(t, "framing", item.DisplayGateName())
}

func TestConvert_BaseSortOrder(t *testing.T) {
	out := Convert(validSchema(), 200)
	assert.Equal(t, 210, out.Items[0].SortOrder)
}
