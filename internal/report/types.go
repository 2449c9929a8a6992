package report

import "fmt"

const (
	// WPCSThreshold is the minimum WPCS percentage a machine must reach to
	// appear in the report. Fixed policy, not user-configurable.
	WPCSThreshold = 20.0

	// machineCount is the number of canonical machine codes A01..A38.
	machineCount = 38
)

// allowedMachines holds the canonical machine codes "A01".."A38".
var allowedMachines = func() map[string]struct{} {
	m := make(map[string]struct{}, machineCount)
	for i := 1; i <= machineCount; i++ {
		m[fmt.Sprintf("A%02d", i)] = struct{}{}
	}
	return m
}()
