package activity

import "time"

// Activity is a single recorded event, training or outreach instance that
// belongs to a project. Project holds the project's name as it was when the
// activity was last written; ProjectID is the authoritative reference.
type Activity struct {
	ID                    string    `json:"id"`
	Year                  string    `json:"year"`
	Month                 string    `json:"month"`
	Project               string    `json:"project"`
	ProjectID             string    `json:"projectId"`
	Component             string    `json:"component"`
	InclusiveDates        string    `json:"inclusiveDates"`
	ActivityName          string    `json:"activityName"`
	NatureOfActivity      string    `json:"natureOfActivity"`
	NumberOfHours         int       `json:"numberOfHours"`
	InitiatedBy           string    `json:"initiatedBy"`
	Status                string    `json:"status"`
	Remarks               string    `json:"remarks"`
	PartneredInstitutions string    `json:"partneredInstitutions"`
	Beneficiary           string    `json:"beneficiary"`
	NumberOfParticipants  int       `json:"numberOfParticipants"`
	Male                  int       `json:"male"`
	Female                int       `json:"female"`
	MOVs                  string    `json:"movs"`
	CreatedAt             time.Time `json:"createdAt"`
}

// MonthName returns the activity's month, for period helpers.
func MonthName(a Activity) string { return a.Month }

// DeleteResult reports what a delete left behind.
type DeleteResult struct {
	ID                  string `json:"id"`
	ProjectID           string `json:"projectId"`
	RemainingActivities int    `json:"remainingActivities"`
	ProjectDeleted      bool   `json:"projectDeleted"`
}
