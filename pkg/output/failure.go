package output

import (
	"fmt"

	"github.com/arthur-debert/gantry/pkg/errors"
	"github.com/arthur-debert/gantry/pkg/executor"
)

// FailureSummary renders err as one line. When res holds a failed step the
// line locates it: task 'install' failed at step 3/12 (npm, env=dev): ...
func FailureSummary(err error, res *executor.Result) string {
	msg := errorMessage(err)
	if res == nil {
		return msg
	}
	failed := res.Failed()
	if failed == nil {
		return msg
	}

	where := failed.Step.Name
	if failed.Step.Env != "" {
		where += ", env=" + failed.Step.Env.String()
	}
	return fmt.Sprintf("task '%s' failed at step %d/%d (%s): %s", res.Task, failed.Index, res.Total, where, msg)
}

// errorMessage drops the code prefix of structured errors. The wrapped
// cause is kept except for tool failures, whose cause is the bare exit
// status already stated in the message.
func errorMessage(err error) string {
	ge, ok := err.(*errors.GantryError)
	if !ok {
		return err.Error()
	}
	if ge.Wrapped == nil || ge.Code == errors.ErrExternalTool {
		return ge.Message
	}
	return ge.Message + ": " + errorMessage(ge.Wrapped)
}
