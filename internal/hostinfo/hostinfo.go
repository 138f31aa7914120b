// Package hostinfo looks up the manufacturer and model of the machine this
// client runs on, which the device shows in its list of connected remotes.
package hostinfo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

// ErrUnavailable is returned when no source reports anything usable.
var ErrUnavailable = errors.New("hostinfo: no host information available")

// Info names this machine.
type Info struct {
	Vendor string
	Model  string
}

// dmiDir is where Linux exposes firmware vendor and product strings.
const dmiDir = "/sys/class/dmi/id"

// placeholders are values firmware ships in place of real ones.
var placeholders = map[string]bool{
	"":                       true,
	"to be filled by o.e.m.": true,
	"default string":         true,
	"system product name":    true,
	"system manufacturer":    true,
	"not applicable":         true,
	"none":                   true,
	"o.e.m.":                 true,
}

// Lookup reads the DMI vendor and product name, falling back to the OS
// platform and hostname reported by gopsutil for fields DMI leaves empty.
func Lookup(ctx context.Context) (Info, error) {
	return lookup(ctx, dmiDir, host.InfoWithContext)
}

func lookup(ctx context.Context, dir string, platform func(context.Context) (*host.InfoStat, error)) (Info, error) {
	info := Info{
		Vendor: readDMI(dir, "sys_vendor"),
		Model:  readDMI(dir, "product_name"),
	}
	if info.Vendor != "" && info.Model != "" {
		return info, nil
	}

	stat, err := platform(ctx)
	if err == nil && stat != nil {
		if info.Vendor == "" {
			info.Vendor = stat.Platform
		}
		if info.Model == "" {
			info.Model = stat.Hostname
		}
	}
	if info.Vendor == "" && info.Model == "" {
		if err != nil {
			return Info{}, errors.Join(ErrUnavailable, err)
		}
		return Info{}, ErrUnavailable
	}
	return info, nil
}

func readDMI(dir, name string) string {
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	v := strings.TrimSpace(string(raw))
	if placeholders[strings.ToLower(v)] {
		return ""
	}
	return v
}
