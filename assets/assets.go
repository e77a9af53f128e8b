// Package assets embeds the game's text art, licence and animation scripts.
package assets

import (
	"embed"
	"io/fs"
	"strings"
)

//go:embed STARTUP LICENSE.md logo brand_logo animations
var files embed.FS

// FS is the embedded asset tree.
var FS fs.FS = files

// Asset names.
const (
	Startup         = "STARTUP"
	License         = "LICENSE.md"
	LogoStart       = "logo/1"
	LogoDone        = "logo/2"
	BrandLogoDir    = "brand_logo"
	AnimBIOS        = "animations/bios.yaml"
	AnimBoot        = "animations/boot.yaml"
	AnimCorrupt     = "animations/password_corrupt.yaml"
	AnimFirstBoot   = "animations/first_turn_on.yaml"
	MissingAsset    = "Asset missing"
	EtherIndustries = "ether-industries"
)

// Text reads name from fsys with trailing whitespace trimmed from each line.
func Text(fsys fs.FS, name string) (string, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", err
	}
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	return strings.Join(lines, "\n"), nil
}

// BrandLogo returns the logo for a computer brand, or MissingAsset.
func BrandLogo(fsys fs.FS, brand string) string {
	if brand == "" || strings.ContainsAny(brand, `/\`) {
		return MissingAsset
	}
	s, err := Text(fsys, BrandLogoDir+"/"+brand)
	if err != nil || s == "" {
		return MissingAsset
	}
	return s
}
