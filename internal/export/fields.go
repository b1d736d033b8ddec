package export

import (
	"strconv"

	"github.com/ganot/accomplish/internal/domain/activity"
	"github.com/ganot/accomplish/internal/period"
)

// Headers is the column order shared by every export format.
var Headers = []string{
	"Year",
	"Month",
	"Project",
	"Inclusive Dates",
	"Activity Name",
	"Nature of Activity",
	"Number of Hours",
	"Initiated By",
	"Status",
	"Remarks",
	"Partnered Institutions",
	"Number of Participants",
	"Male",
	"Female",
	"Component",
	"MOVs",
}

// Column indexes of the numeric fields in Headers.
const (
	colHours        = 6
	colParticipants = 11
	colMale         = 12
	colFemale       = 13
)

// Values returns an activity's fields in Headers order.
func Values(a activity.Activity) []any {
	return []any{
		a.Year,
		a.Month,
		a.Project,
		a.InclusiveDates,
		a.ActivityName,
		a.NatureOfActivity,
		a.NumberOfHours,
		a.InitiatedBy,
		a.Status,
		a.Remarks,
		a.PartneredInstitutions,
		a.NumberOfParticipants,
		a.Male,
		a.Female,
		a.Component,
		a.MOVs,
	}
}

// Strings is Values rendered as text.
func Strings(a activity.Activity) []string {
	vals := Values(a)
	out := make([]string, len(vals))
	for i, v := range vals {
		switch v := v.(type) {
		case string:
			out[i] = v
		case int:
			out[i] = strconv.Itoa(v)
		}
	}
	return out
}

// Prepare orders activities by month for export.
func Prepare(acts []activity.Activity, order period.Order) []activity.Activity {
	return period.SortByMonth(acts, order, activity.MonthName)
}
