// Package tasks defines the task graph and turns a requested task name into
// a Plan.
//
// A task is one of five kinds:
//
//   - Leaf: a single external command
//   - Builtin: a single in-process action (copy, clean, watch)
//   - Variants: a command template with one flag set per environment
//   - Composite: an ordered list of other task names
//   - Branch: a composite whose children depend on the environment
//
// Resolution is depth-first and left-to-right. A Plan lists its steps in
// exactly the order a sequential executor must run them; later steps may
// rely on files written by earlier ones.
//
// Resolution never runs anything. Unknown names, cycles and environments
// with no configured variant are reported before the first step starts.
package tasks
