package clinic

import (
	"strconv"
	"strings"
	"time"
)

// Delimiter separates fields in an encoded record. Field values may not contain it.
const Delimiter = "|"

// DateLayout is the ISO 8601 calendar date layout used for appointment dates.
const DateLayout = "2006-01-02"

// Gender is the normalized gender of a patient or doctor.
type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

func (g Gender) String() string {
	return string(g)
}

// ValidateID trims id and rejects an empty result.
func ValidateID(id string) (string, error) {
	return validateID("id", id)
}

func validateID(field, id string) (string, error) {
	return requireText(field, id, EmptyID)
}

// ValidateName trims name and rejects an empty result.
func ValidateName(name string) (string, error) {
	return requireText("name", name, EmptyName)
}

// ValidateAge rejects zero and negative ages.
func ValidateAge(age int) (int, error) {
	if age <= 0 {
		return 0, invalid("age", strconv.Itoa(age), InvalidAge)
	}
	return age, nil
}

// ParseAge parses a decimal age from raw text and validates it.
func ParseAge(raw string) (int, error) {
	age, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, invalid("age", raw, InvalidAge)
	}
	return ValidateAge(age)
}

// ValidateGender matches raw case-insensitively against male/female and
// returns the capitalized form.
func ValidateGender(raw string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male":
		return Male, nil
	case "female":
		return Female, nil
	default:
		return "", invalid("gender", raw, InvalidGender)
	}
}

// ValidateDisease trims disease and rejects an empty result.
func ValidateDisease(disease string) (string, error) {
	return requireText("disease", disease, EmptyDisease)
}

// ValidateSpecialty trims specialty and rejects an empty result.
func ValidateSpecialty(specialty string) (string, error) {
	return requireText("specialty", specialty, EmptySpecialty)
}

// ParseDate parses a YYYY-MM-DD calendar date. The result is midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, invalid("date", raw, InvalidDate)
	}
	return d, nil
}

// ParseAvailability accepts true or false in any letter case.
func ParseAvailability(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, invalid("availability", raw, InvalidAvailability)
	}
}

// Today returns the calendar date of now, expressed as midnight UTC so it
// compares directly with dates from ParseDate.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// requireText trims value, rejects an empty result with reason, and rejects
// the record delimiter.
func requireText(field, value string, reason Reason) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", invalid(field, value, reason)
	}
	if strings.Contains(trimmed, Delimiter) {
		return "", invalid(field, value, ContainsDelimiter)
	}
	return trimmed, nil
}
