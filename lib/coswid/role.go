// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package coswid

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Role is an entity role from the CoSWID Entity Role registry.
type Role uint

const (
	RoleTagCreator      Role = 1
	RoleSoftwareCreator Role = 2
	RoleAggregator      Role = 3
	RoleDistributor     Role = 4
	RoleLicensor        Role = 5
	RoleMaintainer      Role = 6
)

var roleNames = map[Role]string{
	RoleTagCreator:      "tag-creator",
	RoleSoftwareCreator: "software-creator",
	RoleAggregator:      "aggregator",
	RoleDistributor:     "distributor",
	RoleLicensor:        "licensor",
	RoleMaintainer:      "maintainer",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return strconv.FormatUint(uint64(r), 10)
}

// ParseRole accepts a registered role name or a decimal role number.
func ParseRole(s string) (Role, error) {
	for role, name := range roleNames {
		if name == s {
			return role, nil
		}
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("unknown entity role %q", s)
	}
	return Role(n), nil
}

// MarshalJSON renders registered roles by name.
func (r Role) MarshalJSON() ([]byte, error) {
	if name, ok := roleNames[r]; ok {
		return json.Marshal(name)
	}
	return json.Marshal(uint(r))
}

// VersionScheme is a software-version scheme from the CoSWID Version
// Scheme registry. Zero means unset.
type VersionScheme int

const (
	VersionSchemeMultipartNumeric       VersionScheme = 1
	VersionSchemeMultipartNumericSuffix VersionScheme = 2
	VersionSchemeAlphanumeric           VersionScheme = 3
	VersionSchemeDecimal                VersionScheme = 4
	VersionSchemeSemver                 VersionScheme = 16384
)

var versionSchemeNames = map[VersionScheme]string{
	VersionSchemeMultipartNumeric:       "multipartnumeric",
	VersionSchemeMultipartNumericSuffix: "multipartnumeric+suffix",
	VersionSchemeAlphanumeric:           "alphanumeric",
	VersionSchemeDecimal:                "decimal",
	VersionSchemeSemver:                 "semver",
}

func (v VersionScheme) String() string {
	if name, ok := versionSchemeNames[v]; ok {
		return name
	}
	return strconv.Itoa(int(v))
}

// ParseVersionScheme accepts a registered scheme name. The empty
// string parses to the unset scheme.
func ParseVersionScheme(s string) (VersionScheme, error) {
	if s == "" {
		return 0, nil
	}
	for scheme, name := range versionSchemeNames {
		if name == s {
			return scheme, nil
		}
	}
	return 0, fmt.Errorf("unknown version scheme %q", s)
}
