package semver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Version represents a semantic version
type Version struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease string
	Build      string
}

var (
	semverRegex = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)(?:-([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?(?:\+([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?$`)

	// looser form used to pull a version out of client banners such as
	// "Geth/v1.13.5-stable-916d6a44/linux-amd64/go1.21.4"
	embeddedRegex = regexp.MustCompile(`v?(\d+)\.(\d+)\.(\d+)(?:-([0-9A-Za-z-]+))?`)
)

// Parse parses a semantic version string
func Parse(version string) (*Version, error) {
	matches := semverRegex.FindStringSubmatch(strings.TrimSpace(version))
	if matches == nil {
		return nil, fmt.Errorf("invalid semantic version: %q", version)
	}
	return fromMatches(matches[1:4], matches[4], matches[5]), nil
}

// MustParse is like Parse but panics on malformed input. Meant for literals.
func MustParse(version string) *Version {
	v, err := Parse(version)
	if err != nil {
		panic(err)
	}
	return v
}

// Extract returns the first version found anywhere inside s.
func Extract(s string) (*Version, error) {
	matches := embeddedRegex.FindStringSubmatch(s)
	if matches == nil {
		return nil, fmt.Errorf("no version found in %q", s)
	}
	return fromMatches(matches[1:4], matches[4], ""), nil
}

func fromMatches(core []string, prerelease, build string) *Version {
	major, _ := strconv.Atoi(core[0])
	minor, _ := strconv.Atoi(core[1])
	patch, _ := strconv.Atoi(core[2])
	return &Version{
		Major:      major,
		Minor:      minor,
		Patch:      patch,
		Prerelease: prerelease,
		Build:      build,
	}
}

// String returns the string representation of the version
func (v *Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	if v.Build != "" {
		s += "+" + v.Build
	}
	return s
}

// Compare compares two versions
// Returns -1 if v < other, 0 if v == other, 1 if v > other
func (v *Version) Compare(other *Version) int {
	if c := compareInt(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := compareInt(v.Patch, other.Patch); c != 0 {
		return c
	}

	// a release outranks any of its prereleases
	switch {
	case v.Prerelease == other.Prerelease:
		return 0
	case v.Prerelease == "":
		return 1
	case other.Prerelease == "":
		return -1
	}
	return strings.Compare(v.Prerelease, other.Prerelease)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// AtLeast returns true if v >= min
func (v *Version) AtLeast(min *Version) bool {
	return v.Compare(min) >= 0
}
