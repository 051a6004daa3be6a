package inventory

import (
	"fmt"
	"strings"
)

// MissingMaterialPolicy decides what production does when a BOM material
// has no supplier offer or no lot to draw from
type MissingMaterialPolicy string

const (
	// MissingMaterialSkip records the batch and lists the material as skipped
	MissingMaterialSkip MissingMaterialPolicy = "skip"
	// MissingMaterialFail aborts the batch
	MissingMaterialFail MissingMaterialPolicy = "fail"
)

// ShortfallPolicy decides what a deduction does when it exceeds stock on hand
type ShortfallPolicy string

const (
	// ShortfallClamp deducts what exists and reports the rest
	ShortfallClamp ShortfallPolicy = "clamp"
	// ShortfallReject fails with INSUFFICIENT_STOCK
	ShortfallReject ShortfallPolicy = "reject"
)

// LedgerPolicies groups the configurable leniencies
type LedgerPolicies struct {
	MissingMaterial MissingMaterialPolicy
	RawShortfall    ShortfallPolicy
	SalesShortfall  ShortfallPolicy
}

// DefaultLedgerPolicies skips missing materials, clamps raw shortfalls and rejects sales shortfalls
func DefaultLedgerPolicies() LedgerPolicies {
	return LedgerPolicies{
		MissingMaterial: MissingMaterialSkip,
		RawShortfall:    ShortfallClamp,
		SalesShortfall:  ShortfallReject,
	}
}

// ParseMissingMaterialPolicy parses a config value
func ParseMissingMaterialPolicy(s string) (MissingMaterialPolicy, error) {
	switch p := MissingMaterialPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case MissingMaterialSkip, MissingMaterialFail:
		return p, nil
	case "":
		return MissingMaterialSkip, nil
	default:
		return "", fmt.Errorf("unknown missing material policy %q", s)
	}
}

// ParseShortfallPolicy parses a config value, using def when s is empty
func ParseShortfallPolicy(s string, def ShortfallPolicy) (ShortfallPolicy, error) {
	switch p := ShortfallPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case ShortfallClamp, ShortfallReject:
		return p, nil
	case "":
		return def, nil
	default:
		return "", fmt.Errorf("unknown shortfall policy %q", s)
	}
}
