package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/homeplan/internal/domain"
)

type candidate struct {
	id   string
	name string
}

// resolve matches input against an exact id, then a case-insensitive name,
// then a unique id prefix.
func resolve(kind, input string, candidates []candidate) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%s is required", kind)
	}
	for _, c := range candidates {
		if c.id == input {
			return c.id, nil
		}
	}

	var byName []string
	for _, c := range candidates {
		if c.name != "" && strings.EqualFold(c.name, input) {
			byName = append(byName, c.id)
		}
	}
	if len(byName) == 1 {
		return byName[0], nil
	}
	if len(byName) > 1 {
		return "", fmt.Errorf("%s name %q is ambiguous (%d matches)", kind, input, len(byName))
	}

	var matches []string
	for _, c := range candidates {
		if strings.HasPrefix(c.id, input) {
			matches = append(matches, c.id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s %q", domain.ErrNotFound, kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}

func resolveItemID(ctx context.Context, app *App, input string) (string, error) {
	items, err := app.Templates.ListItems(ctx)
	if err != nil {
		return "", err
	}
	cs := make([]candidate, len(items))
	for i, it := range items {
		cs[i] = candidate{id: it.ID, name: it.Name}
	}
	return resolve("template item", input, cs)
}

func resolveHomeID(ctx context.Context, app *App, input string) (string, error) {
	homes, err := app.Homes.ListHomes(ctx)
	if err != nil {
		return "", err
	}
	cs := make([]candidate, len(homes))
	for i, h := range homes {
		cs[i] = candidate{id: h.ID, name: h.Label}
	}
	return resolve("home", input, cs)
}

// resolveTaskID resolves a task by name or id within homeInput. Without a
// home only ids and id prefixes are accepted, since names repeat across
// homes.
func resolveTaskID(ctx context.Context, app *App, homeInput, input string) (string, error) {
	if homeInput != "" {
		homeID, err := resolveHomeID(ctx, app, homeInput)
		if err != nil {
			return "", err
		}
		tasks, err := app.Homes.ListTasks(ctx, homeID)
		if err != nil {
			return "", err
		}
		cs := make([]candidate, len(tasks))
		for i, t := range tasks {
			cs[i] = candidate{id: t.ID, name: t.NameSnapshot}
		}
		return resolve("task", input, cs)
	}

	if _, err := app.Tasks.GetTask(ctx, input); err == nil {
		return input, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	homes, err := app.Homes.ListHomes(ctx)
	if err != nil {
		return "", err
	}
	var cs []candidate
	for _, h := range homes {
		tasks, err := app.Homes.ListTasks(ctx, h.ID)
		if err != nil {
			return "", err
		}
		for _, t := range tasks {
			cs = append(cs, candidate{id: t.ID})
		}
	}
	return resolve("task", input, cs)
}

func resolvePunchID(ctx context.Context, app *App, input string) (string, error) {
	homes, err := app.Homes.ListHomes(ctx)
	if err != nil {
		return "", err
	}
	var cs []candidate
	for _, h := range homes {
		items, err := app.Punches.ListByHome(ctx, h.ID, false)
		if err != nil {
			return "", err
		}
		for _, p := range items {
			cs = append(cs, candidate{id: p.ID})
		}
	}
	return resolve("punch item", input, cs)
}
