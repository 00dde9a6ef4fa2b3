package service

import (
	"math"
	"strings"
	"time"

	"github.com/iliyamo/vacation-portal/internal/model"
)

const (
	minPrice = 0
	maxPrice = 10000
)

// ValidateVacation checks a create form before it is sent upstream.
func ValidateVacation(in model.VacationInput) error {
	if in.CountryID <= 0 {
		return invalid("countryId", "Country is mandatory")
	}
	if strings.TrimSpace(in.Description) == "" {
		return invalid("description", "Description is mandatory")
	}
	start, err := parseDate("startDate", "Start date", in.StartDate)
	if err != nil {
		return err
	}
	end, err := parseDate("endDate", "End date", in.EndDate)
	if err != nil {
		return err
	}
	if end.Before(start) {
		return invalid("endDate", "End date cannot be earlier than start date")
	}
	return validatePrice(in.Price)
}

// ValidatePatch checks the fields present in an edit form.  The date order
// is only checked when both dates are being changed; otherwise the stored
// counterpart is unknown here and the API enforces it.
func ValidatePatch(p model.VacationPatch) error {
	if p.CountryID != nil && *p.CountryID <= 0 {
		return invalid("countryId", "Country is mandatory")
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return invalid("description", "Description is mandatory")
	}
	var start, end time.Time
	var err error
	if p.StartDate != nil {
		if start, err = parseDate("startDate", "Start date", *p.StartDate); err != nil {
			return err
		}
	}
	if p.EndDate != nil {
		if end, err = parseDate("endDate", "End date", *p.EndDate); err != nil {
			return err
		}
	}
	if p.StartDate != nil && p.EndDate != nil && end.Before(start) {
		return invalid("endDate", "End date cannot be earlier than start date")
	}
	if p.Price != nil {
		return validatePrice(*p.Price)
	}
	return nil
}

func validatePrice(p float64) error {
	if math.IsNaN(p) || p < minPrice || p > maxPrice {
		return invalid("price", "Price must be between 0 and 10,000")
	}
	return nil
}

func parseDate(field, label, v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, invalid(field, label+" is mandatory")
	}
	t, err := time.Parse(model.DateLayout, v)
	if err != nil {
		return time.Time{}, invalid(field, label+" must be a date in YYYY-MM-DD format")
	}
	return t, nil
}
