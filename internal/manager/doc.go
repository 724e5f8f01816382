// Package manager tracks placed models for the CLI and the HTTP API.
// It is structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, simple getters.
//   - config.go: ManagerConfig and package defaults.
//   - types.go: State and the placement record.
//   - errors.go: error types and helpers (IsModelNotFound, IsDependencyUnavailable).
//   - helpers.go: model lookup and option resolution.
//   - place.go: Place/Unplace and probe queries.
//   - status_report.go: Status reporting.
//   - metrics.go: Prometheus collectors.
//
// The capability questions go through an accel.Probe and the placement
// decisions through the placement package; the manager only remembers the
// handles so repeated placements reuse them.
package manager
