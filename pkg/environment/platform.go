package environment

import "fmt"

// Platform identifies the operating system a test environment targets.
// Names match the remote-grid platform vocabulary exactly, including case.
type Platform string

const (
	PlatformWindows      Platform = "WINDOWS"
	PlatformXP           Platform = "XP"
	PlatformVista        Platform = "VISTA"
	PlatformWin8         Platform = "WIN8"
	PlatformWin81        Platform = "WIN8_1"
	PlatformWin10        Platform = "WIN10"
	PlatformWin11        Platform = "WIN11"
	PlatformMac          Platform = "MAC"
	PlatformSnowLeopard  Platform = "SNOW_LEOPARD"
	PlatformMountainLion Platform = "MOUNTAIN_LION"
	PlatformMavericks    Platform = "MAVERICKS"
	PlatformYosemite     Platform = "YOSEMITE"
	PlatformElCapitan    Platform = "EL_CAPITAN"
	PlatformSierra       Platform = "SIERRA"
	PlatformHighSierra   Platform = "HIGH_SIERRA"
	PlatformMojave       Platform = "MOJAVE"
	PlatformCatalina     Platform = "CATALINA"
	PlatformBigSur       Platform = "BIG_SUR"
	PlatformMonterey     Platform = "MONTEREY"
	PlatformVentura      Platform = "VENTURA"
	PlatformSonoma       Platform = "SONOMA"
	PlatformUnix         Platform = "UNIX"
	PlatformLinux        Platform = "LINUX"
	PlatformAndroid      Platform = "ANDROID"
	PlatformIOS          Platform = "IOS"

	// PlatformAny matches whatever platform the executing node runs on.
	PlatformAny Platform = "ANY"
)

var platforms = map[Platform]struct{}{
	PlatformWindows:      {},
	PlatformXP:           {},
	PlatformVista:        {},
	PlatformWin8:         {},
	PlatformWin81:        {},
	PlatformWin10:        {},
	PlatformWin11:        {},
	PlatformMac:          {},
	PlatformSnowLeopard:  {},
	PlatformMountainLion: {},
	PlatformMavericks:    {},
	PlatformYosemite:     {},
	PlatformElCapitan:    {},
	PlatformSierra:       {},
	PlatformHighSierra:   {},
	PlatformMojave:       {},
	PlatformCatalina:     {},
	PlatformBigSur:       {},
	PlatformMonterey:     {},
	PlatformVentura:      {},
	PlatformSonoma:       {},
	PlatformUnix:         {},
	PlatformLinux:        {},
	PlatformAndroid:      {},
	PlatformIOS:          {},
	PlatformAny:          {},
}

// ParsePlatform resolves name against the platform enumeration.
// Matching is exact and case-sensitive: "ANY" resolves, "any" does not.
func ParsePlatform(name string) (Platform, error) {
	p := Platform(name)
	if _, ok := platforms[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, name)
	}
	return p, nil
}

// IsValid reports whether p is a member of the enumeration.
func (p Platform) IsValid() bool {
	_, ok := platforms[p]
	return ok
}

// String returns the platform name.
func (p Platform) String() string {
	return string(p)
}
