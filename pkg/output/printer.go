package output

import (
	"io"
	"os"

	"github.com/arthur-debert/gantry/pkg/environment"
	"github.com/arthur-debert/gantry/pkg/executor"
	"github.com/arthur-debert/gantry/pkg/tasks"
	"github.com/arthur-debert/gantry/pkg/ui"
)

// Printer renders command results. It also observes plan execution.
type Printer interface {
	executor.Observer
	Plan(plan *tasks.Plan, root string) error
	Tasks(infos []tasks.Info, env environment.Environment) error
	Summary(res *executor.Result) error
	Error(err error, res *executor.Result) error
}

// New creates a Printer for format. Auto is detected against w when w is
// a terminal file and otherwise treated as text.
func New(format ui.Format, w io.Writer, noColor bool) (Printer, error) {
	if f, ok := w.(*os.File); ok {
		format = ui.Resolve(format, f, noColor)
	} else if format == ui.FormatAuto {
		format = ui.FormatText
	}

	switch format {
	case ui.FormatJSON:
		return NewJSONRenderer(w), nil
	case ui.FormatText:
		return NewRenderer(w, true)
	default:
		return NewRenderer(w, noColor)
	}
}
