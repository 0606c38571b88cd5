package inventory

import (
	"errors"
	"testing"

	"timeshare/internal/apperr"
)

func intPtr(v int) *int { return &v }

func validTemplate() Template {
	return Template{
		Label:         "Maui week 32",
		ResortName:    "Ka'anapali Beach Club",
		City:          "Lahaina",
		OwnershipType: OwnershipFixedWeek,
		HomeWeek:      "Week 32",
		UnitType:      "2 bedroom",
	}
}

func TestValidate(t *testing.T) {
	if err := validTemplate().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	missing := validTemplate()
	missing.City = ""
	if err := missing.Validate(); err == nil {
		t.Fatalf("expected error for missing city")
	}

	points := validTemplate()
	points.OwnershipType = OwnershipPoints
	err := points.Validate()
	var verr apperr.ValidationError
	if !errors.As(err, &verr) || verr.Code != "POINTS_POWER_REQUIRED" {
		t.Fatalf("expected POINTS_POWER_REQUIRED, got %v", err)
	}
	points.PointsPower = intPtr(0)
	if err := points.Validate(); err == nil {
		t.Fatalf("expected error for zero points power")
	}
	points.PointsPower = intPtr(120000)
	if err := points.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNormalize(t *testing.T) {
	tpl := validTemplate()
	tpl.Label = "  Maui  "
	tpl.PointsPower = intPtr(5)
	tpl.Normalize()
	if tpl.Label != "Maui" {
		t.Fatalf("expected trimmed label, got %q", tpl.Label)
	}
	if tpl.PointsPower != nil {
		t.Fatalf("points power should be dropped for fixed week ownership")
	}
}

func TestParseOwnershipType(t *testing.T) {
	if _, err := ParseOwnershipType("timeshare"); err == nil {
		t.Fatalf("expected error")
	}
	if got, err := ParseOwnershipType("points"); err != nil || got != OwnershipPoints {
		t.Fatalf("unexpected: %s %v", got, err)
	}
}
