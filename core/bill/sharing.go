package bill

import (
	"fmt"
	"strings"
)

// Sharing selects how the shared amount of a bill category is determined.
// The collaborator layer picks one per category; the core never infers it.
type Sharing int

const (
	// SharingFixedCost shares exactly the bill's declared fixed cost
	SharingFixedCost Sharing = iota

	// SharingFullyShared shares the whole amount due, e.g. internet
	SharingFullyShared

	// SharingEstimated infers the shared amount from history using occupancy
	SharingEstimated

	// SharingEstimatedWithTemperature infers the shared amount from history
	// using occupancy and a temperature index, e.g. electricity
	SharingEstimatedWithTemperature
)

var sharingNames = map[Sharing]string{
	SharingFixedCost:                "fixed",
	SharingFullyShared:              "shared",
	SharingEstimated:                "estimated",
	SharingEstimatedWithTemperature: "estimated-temperature",
}

// String returns the policy name used in config and household files
func (s Sharing) String() string {
	if name, ok := sharingNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Sharing(%d)", int(s))
}

// NeedsHistory reports whether the policy requires bill history
func (s Sharing) NeedsHistory() bool {
	return s == SharingEstimated || s == SharingEstimatedWithTemperature
}

// NeedsWeather reports whether the policy requires temperature data
func (s Sharing) NeedsWeather() bool {
	return s == SharingEstimatedWithTemperature
}

// ParseSharing parses a policy name
func ParseSharing(name string) (Sharing, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for s, n := range sharingNames {
		if n == want {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown sharing policy %q (want fixed, shared, estimated or estimated-temperature)", name)
}
