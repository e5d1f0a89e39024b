// Package executor runs a resolved plan.
//
// Steps run one at a time in plan order. The first failing step halts the
// run; the steps before it stay done and nothing is rolled back. External
// tools inherit the terminal: their output is streamed unmodified while a
// copy is kept for the error that reports a failure.
package executor
