// Package builtin implements the task actions gantry performs itself rather
// than through an external tool: copying files by pattern, removing files by
// pattern, and watching a directory to re-run a follow-up plan.
//
// Patterns use doublestar syntax and are matched against slash-separated
// paths relative to the action's base directory. A pattern starting with
// "!" removes previously matched paths; patterns apply in order.
package builtin
