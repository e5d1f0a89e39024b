package output

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/arthur-debert/gantry/pkg/environment"
	"github.com/arthur-debert/gantry/pkg/executor"
	"github.com/arthur-debert/gantry/pkg/logging"
	"github.com/arthur-debert/gantry/pkg/output/styles"
	"github.com/arthur-debert/gantry/pkg/tasks"
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Renderer writes human-readable output. Templates lay the text out and
// lipgloss styles from the styles package color it; with noColor the
// style calls pass text through untouched.
type Renderer struct {
	templates *template.Template
	writer    io.Writer
	noColor   bool
	lip       *lipgloss.Renderer
	logger    zerolog.Logger
}

// NewRenderer creates a Renderer writing to w
func NewRenderer(w io.Writer, noColor bool) (*Renderer, error) {
	r := &Renderer{
		writer:  w,
		noColor: noColor,
		lip:     lipgloss.NewRenderer(w),
		logger:  logging.GetLogger("output.renderer"),
	}

	if noColor {
		pterm.DisableStyling()
	} else {
		pterm.EnableStyling()
	}
	r.logger.Debug().
		Bool("noColor", noColor).
		Str("colorProfile", fmt.Sprintf("%v", r.lip.ColorProfile())).
		Msg("Renderer created")

	tmpl, err := template.New("output").
		Funcs(template.FuncMap{"style": r.style}).
		ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	r.templates = tmpl
	return r, nil
}

// style applies the named style unless color is off
func (r *Renderer) style(name, text string) string {
	if r.noColor || text == "" {
		return text
	}
	return r.lip.NewStyle().Inherit(styles.GetStyle(name)).Render(text)
}

func (r *Renderer) execute(name string, data interface{}) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	_, err := io.WriteString(r.writer, buf.String())
	return err
}

// aligned pads the step columns so runs of steps line up
type aligned struct {
	Index string
	Name  string
	Run   string
}

func alignSteps(steps []StepView) []aligned {
	width := 0
	for _, s := range steps {
		if l := len(s.label()); l > width {
			width = l
		}
	}
	out := make([]aligned, len(steps))
	for i, s := range steps {
		out[i] = aligned{
			Index: s.position(),
			Name:  fmt.Sprintf("%-*s", width, s.label()),
			Run:   s.Run,
		}
	}
	return out
}

// Plan prints the steps a task would run
func (r *Renderer) Plan(plan *tasks.Plan, root string) error {
	v := NewPlanView(plan, root)
	return r.execute("plan.tmpl", struct {
		Task  string
		Env   string
		Root  string
		Steps []aligned
	}{v.Task, envLabel(plan.Env), v.Root, alignSteps(v.Steps)})
}

// Tasks prints the catalogue as a table
func (r *Renderer) Tasks(infos []tasks.Info, env environment.Environment) error {
	data := pterm.TableData{{"TASK", "KIND", "RUNS", "DESCRIPTION"}}
	for _, tv := range NewTaskViews(infos) {
		data = append(data, []string{tv.Name, tv.Kind, tv.summary(), tv.Description})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("failed to render task table: %w", err)
	}

	header := r.style("Header", "tasks") + " " + r.style("Env", envLabel(env))
	_, err = fmt.Fprintf(r.writer, "%s\n%s\n", header, strings.TrimRight(table, "\n"))
	return err
}

// Summary prints the closing line of a successful run
func (r *Renderer) Summary(res *executor.Result) error {
	counts := fmt.Sprintf("%d steps", len(res.Completed()))
	if res.DryRun {
		counts = fmt.Sprintf("%d steps skipped", len(res.Skipped()))
	}
	return r.execute("summary.tmpl", struct {
		DryRun   bool
		Task     string
		Env      string
		Counts   string
		Duration string
	}{res.DryRun, res.Task, envLabel(res.Env), counts, formatDuration(res.Duration)})
}

// Error prints the one-line failure summary
func (r *Renderer) Error(err error, res *executor.Result) error {
	prefix := strings.TrimSpace(pterm.Error.Prefix.Text)
	_, werr := fmt.Fprintln(r.writer, r.style("Error", prefix)+" "+FailureSummary(err, res))
	return werr
}

// StepStarted announces a step before its tool output starts streaming
func (r *Renderer) StepStarted(index, total int, step tasks.Invocation) {
	v := newStepView(index, total, step)
	a := aligned{Index: v.position(), Name: v.label(), Run: v.Run}
	if err := r.execute("step.tmpl", a); err != nil {
		r.logger.Warn().Err(err).Msg("Failed to render step")
	}
}

// StepFinished reports skipped steps; success is implied by the next
// step and failure by the summary
func (r *Renderer) StepFinished(result executor.StepResult, total int) {
	if result.Status != executor.StatusSkipped {
		return
	}
	_, _ = fmt.Fprintln(r.writer, "  "+r.style("Skipped", "skipped (dry run)"))
}
