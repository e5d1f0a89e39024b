// Package core implements the operations behind the gantry commands.
//
// Every operation follows the same flow:
//
//  1. locate the project root (paths)
//  2. load the layered configuration (config)
//  3. resolve the active environment: --env flag, then the configured
//     process variable (GANTRY_ENV by default), then the configured default
//  4. build the sealed task catalogue (pipeline)
//  5. flatten the requested task into a Plan (tasks)
//  6. optionally run the Plan (executor)
//
// Nothing is spawned before step 6, so an unknown task, a cycle, an invalid
// environment or a missing variant never leaves a half-run pipeline behind.
package core
