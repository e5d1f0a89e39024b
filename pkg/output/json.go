package output

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/gantry/pkg/environment"
	"github.com/arthur-debert/gantry/pkg/executor"
	"github.com/arthur-debert/gantry/pkg/tasks"
)

// JSONRenderer provides JSON output for machine consumption. Step progress
// is not reported; the result carries every step.
type JSONRenderer struct {
	encoder *json.Encoder
}

// NewJSONRenderer creates a JSON renderer writing to w
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return &JSONRenderer{encoder: encoder}
}

// Plan encodes the plan
func (r *JSONRenderer) Plan(plan *tasks.Plan, root string) error {
	return r.encoder.Encode(NewPlanView(plan, root))
}

// Tasks encodes the catalogue
func (r *JSONRenderer) Tasks(infos []tasks.Info, env environment.Environment) error {
	return r.encoder.Encode(struct {
		Env   string     `json:"env"`
		Tasks []TaskView `json:"tasks"`
	}{env.String(), NewTaskViews(infos)})
}

// Summary encodes a successful result
func (r *JSONRenderer) Summary(res *executor.Result) error {
	return r.encoder.Encode(NewResultView(res, nil))
}

// Error encodes a failure, with the partial result when there is one
func (r *JSONRenderer) Error(err error, res *executor.Result) error {
	if res != nil {
		return r.encoder.Encode(NewResultView(res, err))
	}
	return r.encoder.Encode(map[string]string{"error": FailureSummary(err, nil)})
}

// StepStarted is a no-op for JSON output
func (r *JSONRenderer) StepStarted(index, total int, step tasks.Invocation) {}

// StepFinished is a no-op for JSON output
func (r *JSONRenderer) StepFinished(result executor.StepResult, total int) {}
