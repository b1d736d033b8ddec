package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ganot/accomplish/internal/domain/activity"
)

var numericFields = []string{"numberOfHours", "numberOfParticipants", "male", "female"}

// FieldError describes a cell strict mode refused.
type FieldError struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %q is not a non-negative integer", e.Field, e.Value)
}

// Coerce turns one mapped row into an activity. ok is false when year,
// month or project is absent or blank; such rows are skipped, not errors.
//
// Numeric cells are read leniently: a leading integer is taken and anything
// unreadable becomes 0. With strict set, a non-blank numeric cell that is not
// a plain non-negative integer fails the row with a *FieldError instead.
func Coerce(rec map[string]string, strict bool) (act *activity.Activity, ok bool, err error) {
	year, month, proj := rec["year"], rec["month"], rec["project"]
	if strings.TrimSpace(year) == "" || strings.TrimSpace(month) == "" || strings.TrimSpace(proj) == "" {
		return nil, false, nil
	}

	nums := make(map[string]int, len(numericFields))
	for _, field := range numericFields {
		raw := strings.TrimSpace(rec[field])
		if strict {
			n, err := parseStrict(raw)
			if err != nil {
				return nil, true, &FieldError{Field: field, Value: raw}
			}
			nums[field] = n
			continue
		}
		nums[field] = parseLenient(raw)
	}

	status := strings.TrimSpace(rec["status"])
	if status == "" {
		status = activity.DefaultStatus
	}

	return &activity.Activity{
		Year:                  strings.TrimSpace(year),
		Month:                 strings.TrimSpace(month),
		Project:               strings.TrimSpace(proj),
		Component:             rec["component"],
		InclusiveDates:        rec["inclusiveDates"],
		ActivityName:          rec["activityName"],
		NatureOfActivity:      rec["natureOfActivity"],
		NumberOfHours:         nums["numberOfHours"],
		InitiatedBy:           rec["initiatedBy"],
		Status:                status,
		Remarks:               rec["remarks"],
		PartneredInstitutions: rec["partneredInstitutions"],
		Beneficiary:           rec["beneficiary"],
		NumberOfParticipants:  nums["numberOfParticipants"],
		Male:                  nums["male"],
		Female:                nums["female"],
		MOVs:                  rec["movs"],
	}, true, nil
}

// parseLenient reads the leading integer of s, like a spreadsheet user
// would expect "12 hrs" to mean 12. Negative or unreadable input is 0.
func parseLenient(s string) int {
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseStrict(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value %d", n)
	}
	return n, nil
}
