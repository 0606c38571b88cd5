package listing

import (
	"fmt"
	"strings"
	"time"

	"timeshare/internal/apperr"
	"timeshare/internal/inventory"
)

var ErrNotFound = fmt.Errorf("listing %w", apperr.ErrNotFound)

const dateLayout = "2006-01-02"

// Listing is one owner week offered to travelers. Dates are calendar dates (YYYY-MM-DD).
type Listing struct {
	ID               string                  `json:"id"`
	OwnerID          string                  `json:"ownerId"`
	InventoryID      string                  `json:"inventoryId,omitempty"`
	ResortPortalID   string                  `json:"resortPortalId,omitempty"`
	OwnershipType    inventory.OwnershipType `json:"ownershipType"`
	Season           string                  `json:"season,omitempty"`
	HomeWeek         string                  `json:"homeWeek,omitempty"`
	PointsPower      *int                    `json:"pointsPower,omitempty"`
	InventoryNotes   string                  `json:"inventoryNotes,omitempty"`
	ResortName       string                  `json:"resortName"`
	City             string                  `json:"city"`
	Country          string                  `json:"country,omitempty"`
	CheckInDate      string                  `json:"checkInDate"`
	CheckOutDate     string                  `json:"checkOutDate"`
	UnitType         string                  `json:"unitType"`
	OwnerPriceCents  int64                   `json:"ownerPriceCents"`
	NormalPriceCents int64                   `json:"normalPriceCents"`
	ResortBookingURL string                  `json:"resortBookingUrl,omitempty"`
	Description      string                  `json:"description,omitempty"`
	IsActive         bool                    `json:"isActive"`
	CreatedAt        time.Time               `json:"createdAt"`
}

// SavingsCents is what the traveler saves against the resort's normal rate.
func (l Listing) SavingsCents() int64 {
	return l.NormalPriceCents - l.OwnerPriceCents
}

// ResortKey groups resort reviews across listings at the same resort.
func ResortKey(resortName string) string {
	return strings.ToLower(strings.TrimSpace(resortName))
}

type CreateInput struct {
	InventoryID      string                  `json:"inventoryId" validate:"omitempty,uuid"`
	ResortPortalID   string                  `json:"resortPortalId" validate:"omitempty,uuid"`
	OwnershipType    inventory.OwnershipType `json:"ownershipType"`
	Season           string                  `json:"season" validate:"max=120"`
	HomeWeek         string                  `json:"homeWeek" validate:"max=60"`
	PointsPower      *int                    `json:"pointsPower"`
	InventoryNotes   string                  `json:"inventoryNotes" validate:"max=2000"`
	ResortName       string                  `json:"resortName" validate:"max=200"`
	City             string                  `json:"city" validate:"max=120"`
	Country          string                  `json:"country" validate:"max=120"`
	CheckInDate      string                  `json:"checkInDate"`
	CheckOutDate     string                  `json:"checkOutDate"`
	UnitType         string                  `json:"unitType" validate:"max=60"`
	OwnerPriceCents  int64                   `json:"ownerPriceCents"`
	NormalPriceCents int64                   `json:"normalPriceCents"`
	ResortBookingURL string                  `json:"resortBookingUrl" validate:"omitempty,url"`
	Description      string                  `json:"description" validate:"max=5000"`
}

// ApplyTemplate fills fields the owner left empty from a saved inventory template.
func (in *CreateInput) ApplyTemplate(t *inventory.Template) {
	if t == nil {
		return
	}
	in.InventoryID = t.ID
	fill := func(dst *string, v string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = v
		}
	}
	if in.OwnershipType == "" {
		in.OwnershipType = t.OwnershipType
	}
	fill(&in.Season, t.Season)
	fill(&in.HomeWeek, t.HomeWeek)
	fill(&in.InventoryNotes, t.InventoryNotes)
	fill(&in.ResortName, t.ResortName)
	fill(&in.City, t.City)
	fill(&in.Country, t.Country)
	fill(&in.UnitType, t.UnitType)
	fill(&in.ResortBookingURL, t.ResortBookingURL)
	if in.PointsPower == nil && t.PointsPower != nil {
		pp := *t.PointsPower
		in.PointsPower = &pp
	}
}

func (in *CreateInput) Normalize() {
	for _, s := range []*string{
		&in.Season, &in.HomeWeek, &in.InventoryNotes, &in.ResortName, &in.City,
		&in.Country, &in.CheckInDate, &in.CheckOutDate, &in.UnitType, &in.ResortBookingURL, &in.Description,
	} {
		*s = strings.TrimSpace(*s)
	}
	if in.OwnershipType != inventory.OwnershipPoints {
		in.PointsPower = nil
	}
}

// Validate applies the listing form rules. Call after ApplyTemplate and Normalize.
func (in CreateInput) Validate() error {
	if in.ResortName == "" || in.City == "" || in.UnitType == "" {
		return apperr.Invalid("VALIDATION_FAILED", "resort name, city and unit type are required")
	}
	if in.OwnerPriceCents <= 0 || in.NormalPriceCents <= 0 {
		return apperr.Invalid("INVALID_PRICE", "Owner price and normal price must be positive numbers.")
	}
	checkIn, err := time.Parse(dateLayout, in.CheckInDate)
	if err != nil {
		return apperr.Invalid("INVALID_DATE", "check-in date must be YYYY-MM-DD")
	}
	checkOut, err := time.Parse(dateLayout, in.CheckOutDate)
	if err != nil {
		return apperr.Invalid("INVALID_DATE", "check-out date must be YYYY-MM-DD")
	}
	if !checkOut.After(checkIn) {
		return apperr.Invalid("INVALID_DATE_RANGE", "Check-out date must be after check-in date.")
	}

	switch in.OwnershipType {
	case inventory.OwnershipPoints:
		if in.PointsPower == nil || *in.PointsPower <= 0 {
			return apperr.Invalid("POINTS_POWER_REQUIRED", "Points owners must provide a positive points power value.")
		}
	case inventory.OwnershipFloatingWeek:
		if in.Season == "" {
			return apperr.Invalid("SEASON_REQUIRED", "Floating week owners should provide the available season.")
		}
	case inventory.OwnershipFixedWeek:
		if in.HomeWeek == "" {
			return apperr.Invalid("HOME_WEEK_REQUIRED", "Fixed week owners should provide the owned week (for example, Week 32).")
		}
	default:
		return apperr.Invalid("VALIDATION_FAILED", "ownership type must be fixed_week, floating_week or points")
	}
	return nil
}
