package activity

import "strings"

// Validate checks the fields every stored activity must have.
func Validate(act *Activity) error {
	if strings.TrimSpace(act.Year) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(act.Month) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(act.Project) == "" {
		return ErrInvalidInput
	}
	if act.NumberOfHours < 0 || act.NumberOfParticipants < 0 || act.Male < 0 || act.Female < 0 {
		return ErrInvalidInput
	}
	return nil
}
