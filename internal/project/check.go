package project

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"architect/internal/diag"
)

// Check reports manifest-level problems: the [package] section, version
// fields and stray keys. toolVersion is the running architect version; an
// empty value skips the constraint check.
func Check(m *Manifest, r diag.Reporter, toolVersion string) {
	at := func(path string) diag.Location {
		return diag.Location{File: m.Path, Path: path}
	}

	if !m.IsDefined("package") {
		diag.ReportError(r, diag.ProjMissingPackage, at("package"), "manifest has no [package] section").Emit()
	} else if strings.TrimSpace(m.Config.Package.Name) == "" {
		diag.ReportError(r, diag.ProjMissingName, at("package.name"), "[package].name must be set").Emit()
	}

	if v := strings.TrimSpace(m.Config.Package.Version); v != "" {
		if _, err := semver.StrictNewVersion(v); err != nil {
			diag.ReportError(r, diag.ProjBadVersion, at("package.version"),
				fmt.Sprintf("version %q is not a semantic version: %v", v, err)).Emit()
		}
	}

	if c := strings.TrimSpace(m.Config.Package.Architect); c != "" {
		checkToolConstraint(r, at("package.architect"), c, toolVersion)
	}

	if len(m.Config.Entities) == 0 {
		diag.ReportWarning(r, diag.ProjNoEntities, at("entity"), "manifest declares no [[entity]] tables").Emit()
	}

	for _, key := range m.Undecoded {
		diag.ReportWarning(r, diag.ProjUnknownKey, at(key), fmt.Sprintf("unknown key %q is ignored", key)).Emit()
	}
}

func checkToolConstraint(r diag.Reporter, loc diag.Location, constraint, toolVersion string) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		diag.ReportError(r, diag.ProjBadToolConstraint, loc,
			fmt.Sprintf("invalid constraint %q: %v", constraint, err)).Emit()
		return
	}
	if toolVersion == "" {
		return
	}
	v, err := semver.NewVersion(toolVersion)
	if err != nil {
		// dev builds without a semantic version are not checked
		return
	}
	// pre-release builds are compared by their release core
	core, err := v.SetPrerelease("")
	if err != nil {
		return
	}
	if !c.Check(&core) {
		diag.ReportError(r, diag.ProjToolTooOld, loc,
			fmt.Sprintf("architect %s does not satisfy %q", toolVersion, constraint)).Emit()
	}
}
