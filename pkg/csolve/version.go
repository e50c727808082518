package csolve

import "github.com/blang/semver/v4"

// version is this module's release, grounded on the semver.Version
// fields the operator-lifecycle-manager pack repo carries on its own
// resource types (apis/clusterserviceversion/v1alpha1/types.go).
var version = semver.MustParse("0.1.0")

// Version returns the engine's semantic version.
func Version() semver.Version { return version }
