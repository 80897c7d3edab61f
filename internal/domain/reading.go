package domain

import (
	"fmt"
	"strings"
	"time"
)

// CommodityType identifies what a meter counts.
type CommodityType string

const (
	CommodityPower CommodityType = "power"
	CommodityGas   CommodityType = "gas"
	CommodityWater CommodityType = "water"
)

// CommodityTypes lists every known commodity in a stable order.
func CommodityTypes() []CommodityType {
	return []CommodityType{CommodityPower, CommodityGas, CommodityWater}
}

// ParseCommodityType accepts a commodity name case-insensitively.
func ParseCommodityType(s string) (CommodityType, error) {
	t := CommodityType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range CommodityTypes() {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown commodity type %q", s)
}

func (t CommodityType) String() string { return string(t) }

// Reading represents a single cumulative meter observation at a point in time.
type Reading struct {
	Time   time.Time
	Amount float64
	Type   CommodityType
}
