package inventory

import (
	"fmt"
	"strings"
	"time"

	"timeshare/internal/apperr"
)

type OwnershipType string

const (
	OwnershipFixedWeek    OwnershipType = "fixed_week"
	OwnershipFloatingWeek OwnershipType = "floating_week"
	OwnershipPoints       OwnershipType = "points"
)

func ParseOwnershipType(s string) (OwnershipType, error) {
	switch OwnershipType(s) {
	case OwnershipFixedWeek, OwnershipFloatingWeek, OwnershipPoints:
		return OwnershipType(s), nil
	default:
		return "", fmt.Errorf("unknown ownership type: %s", s)
	}
}

// Template is reusable ownership metadata an owner keeps to prefill listings.
type Template struct {
	ID               string        `json:"id"`
	OwnerID          string        `json:"ownerId"`
	Label            string        `json:"label"`
	ResortName       string        `json:"resortName"`
	City             string        `json:"city"`
	Country          string        `json:"country,omitempty"`
	OwnershipType    OwnershipType `json:"ownershipType"`
	Season           string        `json:"season,omitempty"`
	HomeWeek         string        `json:"homeWeek,omitempty"`
	PointsPower      *int          `json:"pointsPower,omitempty"`
	InventoryNotes   string        `json:"inventoryNotes,omitempty"`
	UnitType         string        `json:"unitType"`
	ResortBookingURL string        `json:"resortBookingUrl,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
}

// Normalize trims text fields and drops attributes that do not belong to the ownership type.
func (t *Template) Normalize() {
	t.Label = strings.TrimSpace(t.Label)
	t.ResortName = strings.TrimSpace(t.ResortName)
	t.City = strings.TrimSpace(t.City)
	t.Country = strings.TrimSpace(t.Country)
	t.Season = strings.TrimSpace(t.Season)
	t.HomeWeek = strings.TrimSpace(t.HomeWeek)
	t.InventoryNotes = strings.TrimSpace(t.InventoryNotes)
	t.UnitType = strings.TrimSpace(t.UnitType)
	t.ResortBookingURL = strings.TrimSpace(t.ResortBookingURL)
	if t.OwnershipType != OwnershipPoints {
		t.PointsPower = nil
	}
}

func (t Template) Validate() error {
	if t.Label == "" || t.ResortName == "" || t.City == "" || t.UnitType == "" {
		return apperr.Invalid("VALIDATION_FAILED", "label, resort name, city and unit type are required")
	}
	if _, err := ParseOwnershipType(string(t.OwnershipType)); err != nil {
		return apperr.Invalid("VALIDATION_FAILED", err.Error())
	}
	if t.OwnershipType == OwnershipPoints && (t.PointsPower == nil || *t.PointsPower <= 0) {
		return apperr.Invalid("POINTS_POWER_REQUIRED", "Points power must be a positive value for points ownership.")
	}
	return nil
}
