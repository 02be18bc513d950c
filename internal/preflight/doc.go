// Package preflight guards the output directory before any frame is rendered
// and reports readiness of the external tools mopi depends on.
//
// Guard runs once per render, before the scheduler is started:
//   - the final video path must not exist unless overwriting,
//   - the output directory must not already hold frames with the chosen
//     extension unless frames are skipped, overwritten, or resumed,
//   - the output directory is created and checked for read/write access.
//
// Lock serialises runs sharing an output directory. The CLI "mopi doctor"
// command uses CheckDirectoryAccess and CheckDependencies to display health.
package preflight
