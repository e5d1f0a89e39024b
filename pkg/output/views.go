package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/arthur-debert/gantry/pkg/environment"
	"github.com/arthur-debert/gantry/pkg/executor"
	"github.com/arthur-debert/gantry/pkg/tasks"
)

// StepView is the display form of one plan step
type StepView struct {
	Index    int    `json:"index"`
	Total    int    `json:"-"`
	Name     string `json:"name"`
	Task     string `json:"task"`
	Env      string `json:"env,omitempty"`
	Kind     string `json:"kind"`
	Run      string `json:"run"`
	Status   string `json:"status,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// PlanView is the display form of a plan
type PlanView struct {
	Task  string     `json:"task"`
	Env   string     `json:"env"`
	Root  string     `json:"root,omitempty"`
	Steps []StepView `json:"steps"`
}

// ResultView is the display form of a finished run
type ResultView struct {
	Task      string     `json:"task"`
	Env       string     `json:"env"`
	DryRun    bool       `json:"dry_run"`
	Total     int        `json:"total"`
	Succeeded bool       `json:"succeeded"`
	Duration  string     `json:"duration"`
	Steps     []StepView `json:"steps"`
	Error     string     `json:"error,omitempty"`
}

// TaskView is the display form of a catalogue entry
type TaskView struct {
	Name         string   `json:"name"`
	Kind         string   `json:"kind"`
	Description  string   `json:"description,omitempty"`
	Children     []string `json:"children,omitempty"`
	Environments []string `json:"environments,omitempty"`
	Run          string   `json:"run,omitempty"`
}

func newStepView(index, total int, step tasks.Invocation) StepView {
	kind := "command"
	if step.IsBuiltin() {
		kind = "builtin"
	}
	return StepView{
		Index: index,
		Total: total,
		Name:  step.Name,
		Task:  step.Task,
		Env:   step.Env.String(),
		Kind:  kind,
		Run:   step.String(),
	}
}

// NewPlanView converts a plan for display
func NewPlanView(plan *tasks.Plan, root string) PlanView {
	v := PlanView{Task: plan.Task, Env: plan.Env.String(), Root: root, Steps: []StepView{}}
	for i, s := range plan.Steps {
		v.Steps = append(v.Steps, newStepView(i+1, plan.Len(), s))
	}
	return v
}

// NewResultView converts a run result for display. err is the run error,
// if any.
func NewResultView(res *executor.Result, err error) ResultView {
	v := ResultView{
		Task:      res.Task,
		Env:       res.Env.String(),
		DryRun:    res.DryRun,
		Total:     res.Total,
		Succeeded: err == nil && res.Succeeded(),
		Duration:  formatDuration(res.Duration),
		Steps:     []StepView{},
	}
	for _, sr := range res.Steps {
		sv := newStepView(sr.Index, res.Total, sr.Step)
		sv.Status = string(sr.Status)
		if sr.Status != executor.StatusSkipped {
			sv.Duration = formatDuration(sr.Duration)
		}
		v.Steps = append(v.Steps, sv)
	}
	if err != nil {
		v.Error = FailureSummary(err, res)
	}
	return v
}

// NewTaskViews converts catalogue entries for display
func NewTaskViews(infos []tasks.Info) []TaskView {
	out := make([]TaskView, 0, len(infos))
	for _, info := range infos {
		tv := TaskView{
			Name:        info.Name,
			Kind:        string(info.Kind),
			Description: info.Description,
			Children:    info.Children,
			Run:         info.Command,
		}
		for _, env := range info.Environments {
			tv.Environments = append(tv.Environments, env.String())
		}
		out = append(out, tv)
	}
	return out
}

// position renders "3/12", right-aligned to the width of the total
func (s StepView) position() string {
	width := len(fmt.Sprint(s.Total))
	return fmt.Sprintf("%*d/%d", width, s.Index, s.Total)
}

// label is the step name with its environment when the name lacks it
func (s StepView) label() string {
	if s.Env == "" || strings.HasSuffix(s.Name, ":"+s.Env) {
		return s.Name
	}
	return s.Name + " (" + s.Env + ")"
}

// summary is the short description of a task for listings
func (t TaskView) summary() string {
	switch {
	case t.Run != "":
		return t.Run
	case len(t.Children) > 0:
		return strings.Join(t.Children, ", ")
	default:
		return ""
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "0s"
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(100 * time.Millisecond).String()
	}
}

func envLabel(env environment.Environment) string {
	if env == "" {
		return "-"
	}
	return "env=" + env.String()
}
