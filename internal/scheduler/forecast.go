package scheduler

import (
	"sort"
	"time"

	"github.com/alexanderramin/homeplan/internal/domain"
)

// ForecastTask is one node of a home's forecast graph.
type ForecastTask struct {
	ID           string
	Name         string
	DurationDays int
	SortOrder    int
}

// ForecastInput is everything the forecast needs for one home. Edges point
// from a dependency task id to the dependent task id.
type ForecastInput struct {
	StartDate time.Time
	Tasks     []ForecastTask
	Edges     []Edge
	Calendar  Calendar
}

// TaskForecast holds the critical-path schedule for one task. Offsets are
// working days from the home start date.
type TaskForecast struct {
	TaskID         string
	StartOffset    int
	FinishOffset   int
	EarliestStart  time.Time
	EarliestFinish time.Time
	LatestStart    time.Time
	LatestFinish   time.Time
	SlackDays      int
	Critical       bool
}

// ForecastResult is the outcome of ComputeForecast.
type ForecastResult struct {
	Order []string
	Tasks map[string]*TaskForecast
	// CompletionDate is nil when the home has no forecast nodes.
	CompletionDate   *time.Time
	TotalWorkingDays int
	// CriticalPath lists zero-slack tasks in topological order.
	CriticalPath []string
}

// BuildForecastInput remaps template dependency edges onto a home's tasks.
// Canceled tasks are dropped, and so is every edge that loses an endpoint.
// Tasks are ordered by sort order snapshot, then id.
func BuildForecastInput(home *domain.Home, tasks []*domain.HomeTask, deps []domain.TemplateDependency, cal Calendar) ForecastInput {
	live := make([]*domain.HomeTask, 0, len(tasks))
	for _, t := range tasks {
		if t.InForecast() {
			live = append(live, t)
		}
	}
	sort.SliceStable(live, func(i, j int) bool {
		if live[i].SortOrderSnapshot != live[j].SortOrderSnapshot {
			return live[i].SortOrderSnapshot < live[j].SortOrderSnapshot
		}
		return live[i].ID < live[j].ID
	})

	byTemplate := make(map[string]string, len(live))
	in := ForecastInput{
		StartDate: home.StartDate,
		Tasks:     make([]ForecastTask, 0, len(live)),
		Calendar:  cal,
	}
	for _, t := range live {
		byTemplate[t.TemplateItemID] = t.ID
		in.Tasks = append(in.Tasks, ForecastTask{
			ID:           t.ID,
			Name:         t.NameSnapshot,
			DurationDays: t.DurationDaysSnapshot,
			SortOrder:    t.SortOrderSnapshot,
		})
	}

	for _, d := range deps {
		from, okFrom := byTemplate[d.DependsOnItemID]
		to, okTo := byTemplate[d.TemplateItemID]
		if okFrom && okTo {
			in.Edges = append(in.Edges, Edge{From: from, To: to})
		}
	}
	return in
}

// ComputeForecast runs a forward and backward critical-path pass over the
// input graph. Each task starts when its latest-finishing dependency
// finishes (root tasks on the first working day on or after the start
// date) and finishes DurationDays working days later. A cycle returns a *domain.CycleError naming the tasks.
func ComputeForecast(in ForecastInput) (*ForecastResult, error) {
	nodes := make([]Node, len(in.Tasks))
	durations := make(map[string]int, len(in.Tasks))
	for i, t := range in.Tasks {
		nodes[i] = Node{ID: t.ID, Name: t.Name}
		d := t.DurationDays
		if d < 0 {
			d = 0
		}
		durations[t.ID] = d
	}

	g := NewGraph(nodes)
	for _, e := range in.Edges {
		if err := g.AddEdge(e.From, e.To); err != nil {
			return nil, err
		}
	}
	order, err := g.TopoSort()
	if err != nil {
		return nil, err
	}

	result := &ForecastResult{
		Order: order,
		Tasks: make(map[string]*TaskForecast, len(order)),
	}
	if len(order) == 0 {
		return result, nil
	}

	// Forward pass
	total := 0
	for _, id := range order {
		es := 0
		for _, pred := range g.Predecessors(id) {
			if ef := result.Tasks[pred].FinishOffset; ef > es {
				es = ef
			}
		}
		tf := &TaskForecast{
			TaskID:       id,
			StartOffset:  es,
			FinishOffset: es + durations[id],
		}
		result.Tasks[id] = tf
		if tf.FinishOffset > total {
			total = tf.FinishOffset
		}
	}
	result.TotalWorkingDays = total

	// Backward pass
	latestFinish := make(map[string]int, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		lf := total
		for _, succ := range g.Successors(id) {
			if ls := latestFinish[succ] - durations[succ]; ls < lf {
				lf = ls
			}
		}
		latestFinish[id] = lf
	}

	// A weekend or holiday start date consumes no working day.
	cal := in.Calendar
	anchor := cal.NextWorkingDay(in.StartDate)
	for _, id := range order {
		tf := result.Tasks[id]
		lf := latestFinish[id]
		ls := lf - durations[id]
		tf.EarliestStart = cal.AddWorkingDays(anchor, tf.StartOffset)
		tf.EarliestFinish = cal.AddWorkingDays(anchor, tf.FinishOffset)
		tf.LatestStart = cal.AddWorkingDays(anchor, ls)
		tf.LatestFinish = cal.AddWorkingDays(anchor, lf)
		tf.SlackDays = ls - tf.StartOffset
		tf.Critical = tf.SlackDays == 0
		if tf.Critical {
			result.CriticalPath = append(result.CriticalPath, id)
		}
	}

	completion := cal.AddWorkingDays(anchor, total)
	result.CompletionDate = &completion
	return result, nil
}
