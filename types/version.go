package types

import "strconv"

// VersionInfo identifies a firmware build and the board it targets.
type VersionInfo struct {
	Hardware uint8 `yaml:"hardware"`
	Revision uint8 `yaml:"revision"`
	Major    uint8 `yaml:"major"`
	Minor    uint8 `yaml:"minor"`
	Patch    uint8 `yaml:"patch"`
}

// String renders V<hw>_<rev> v<major>.<minor>.<patch>.
func (v VersionInfo) String() string {
	return "V" + strconv.Itoa(int(v.Hardware)) + "_" + strconv.Itoa(int(v.Revision)) +
		" v" + strconv.Itoa(int(v.Major)) + "." + strconv.Itoa(int(v.Minor)) + "." + strconv.Itoa(int(v.Patch))
}

// HardwareTag renders the hardware part used in server file names, e.g. V2_0.
func (v VersionInfo) HardwareTag() string {
	return "V" + strconv.Itoa(int(v.Hardware)) + "_" + strconv.Itoa(int(v.Revision))
}

// DataTag renders the data-set name a board requests, e.g. V1_0_5 for
// hardware V1_0 reading server data set 5.
func (v VersionInfo) DataTag(dataSet int) string {
	return v.HardwareTag() + "_" + strconv.Itoa(dataSet)
}

// UpdateType classifies a server version against the running build.
type UpdateType uint8

const (
	UpdateNone UpdateType = iota
	UpdateMajor
	UpdateMinor
	UpdatePatch
)

func (u UpdateType) String() string {
	switch u {
	case UpdateMajor:
		return "major"
	case UpdateMinor:
		return "minor"
	case UpdatePatch:
		return "patch"
	default:
		return "none"
	}
}
