package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/homeplan/internal/domain"
	"github.com/alexanderramin/homeplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateItemRepo_CreateAndGet(t *testing.T) {
	repo := NewSQLiteTemplateItemRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	item := testutil.NewTestTemplateItem("Framing inspection",
		testutil.WithDuration(2),
		testutil.WithSortOrder(40),
		testutil.WithCategory("framing"),
		testutil.WithGate(domain.GateScopeAll, domain.GateBlockAll),
		testutil.WithGateName("Frame QA"),
	)
	require.NoError(t, repo.Create(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item, got)
}

func TestTemplateItemRepo_GetMissingIsNotFound(t *testing.T) {
	repo := NewSQLiteTemplateItemRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTemplateItemRepo_ListOrdersBySortOrder(t *testing.T) {
	repo := NewSQLiteTemplateItemRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	for _, spec := range []struct {
		id    string
		order int
	}{{"c", 30}, {"a", 10}, {"b2", 20}, {"b1", 20}} {
		item := testutil.NewTestTemplateItem("Item "+spec.id, testutil.WithItemID(spec.id), testutil.WithSortOrder(spec.order))
		require.NoError(t, repo.Create(ctx, item))
	}

	items, err := repo.List(ctx)
	require.NoError(t, err)
	var ids []string
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"a", "b1", "b2", "c"}, ids)
}

func TestTemplateItemRepo_UpdateAndDelete(t *testing.T) {
	repo := NewSQLiteTemplateItemRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	item := testutil.NewTestTemplateItem("Drywall")
	require.NoError(t, repo.Create(ctx, item))

	item.DurationDays = 4
	item.Category = nil
	require.NoError(t, repo.Update(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.DurationDays)

	require.NoError(t, repo.Delete(ctx, item.ID))
	assert.ErrorIs(t, repo.Delete(ctx, item.ID), domain.ErrNotFound)
}

func TestTemplateItemRepo_CountTaskRefs(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	items := NewSQLiteTemplateItemRepo(database)
	homes := NewSQLiteHomeRepo(database)
	tasks := NewSQLiteHomeTaskRepo(database)

	item := testutil.NewTestTemplateItem("Roofing")
	require.NoError(t, items.Create(ctx, item))

	n, err := items.CountTaskRefs(ctx, item.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	for _, label := range []string{"Lot 1", "Lot 2"} {
		home := testutil.NewTestHome(label)
		require.NoError(t, homes.Create(ctx, home))
		require.NoError(t, tasks.Create(ctx, testutil.NewTestHomeTask(home.ID, item)))
	}

	n, err = items.CountTaskRefs(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestDependencyRepo_ReplaceForItem(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	items := NewSQLiteTemplateItemRepo(database)
	deps := NewSQLiteDependencyRepo(database)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, items.Create(ctx, testutil.NewTestTemplateItem("Item "+id, testutil.WithItemID(id))))
	}

	require.NoError(t, deps.ReplaceForItem(ctx, "c", []string{"a", "b"}))
	got, err := deps.ListForItem(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, []domain.TemplateDependency{
		{DependsOnItemID: "a", TemplateItemID: "c"},
		{DependsOnItemID: "b", TemplateItemID: "c"},
	}, got)

	require.NoError(t, deps.ReplaceForItem(ctx, "c", []string{"b"}))
	require.NoError(t, deps.ReplaceForItem(ctx, "b", []string{"a"}))

	all, err := deps.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.TemplateDependency{
		{DependsOnItemID: "a", TemplateItemID: "b"},
		{DependsOnItemID: "b", TemplateItemID: "c"},
	}, all)

	require.NoError(t, deps.ReplaceForItem(ctx, "c", nil))
	got, err = deps.ListForItem(ctx, "c")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDependencyRepo_ReplaceRejectsUnknownItem(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	require.NoError(t, NewSQLiteTemplateItemRepo(database).Create(ctx,
		testutil.NewTestTemplateItem("A", testutil.WithItemID("a"))))

	err := NewSQLiteDependencyRepo(database).ReplaceForItem(ctx, "a", []string{"ghost"})
	assert.Error(t, err, "foreign key should reject an unknown dependency")
}
