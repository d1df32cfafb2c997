package promotion

import (
	"fmt"
	"strings"
)

// ParseComponent splits a component identifier such as
// "KP-SlotMachine-V2-22" into its base name and trailing version.
//
// The version is the maximal trailing run of ASCII digits, and it must be
// separated from a non-empty base name by a hyphen. When the base name
// contains embedded hyphen-digit groups (e.g. "Component-A-V1-19") the
// last boundary wins: base "Component-A-V1", version "19".
func ParseComponent(identifier string) (Parsed, error) {
	s := strings.TrimSpace(identifier)
	if s == "" {
		return Parsed{}, fmt.Errorf("empty component identifier")
	}

	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return Parsed{}, fmt.Errorf("no version number found in %q", identifier)
	}
	if i == 0 || s[i-1] != '-' {
		return Parsed{}, fmt.Errorf("version in %q is not separated by a hyphen", identifier)
	}

	base := s[:i-1]
	if base == "" {
		return Parsed{}, fmt.Errorf("component %q has no base name before its version", identifier)
	}

	return Parsed{BaseName: base, Version: s[i:]}, nil
}
