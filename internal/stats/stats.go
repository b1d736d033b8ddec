// Package stats computes the dashboard figures over projects and their
// activities.
package stats

import (
	"cmp"
	"slices"
	"strings"

	"github.com/ganot/accomplish/internal/domain/activity"
	"github.com/ganot/accomplish/internal/domain/project"
	"github.com/ganot/accomplish/internal/period"
)

// TopInitiators caps the initiator breakdown.
const TopInitiators = 8

// Dashboard holds every figure the dashboard shows.
type Dashboard struct {
	TotalProjects              int     `json:"totalProjects"`
	TotalActivities            int     `json:"totalActivities"`
	TotalParticipants          int     `json:"totalParticipants"`
	TotalHours                 int     `json:"totalHours"`
	AvgActivitiesPerProject    float64 `json:"avgActivitiesPerProject"`
	AvgParticipantsPerActivity float64 `json:"avgParticipantsPerActivity"`
	Male                       int     `json:"male"`
	Female                     int     `json:"female"`
	// GenderRatio is male per female, with female floored at 1.
	GenderRatio     float64         `json:"genderRatio"`
	GenderByProject []ProjectGender `json:"genderByProject"`
	Monthly         []MonthCount    `json:"monthly"`
	Initiators      []Initiator     `json:"initiators"`
	Partners        []Partner       `json:"partners"`
	Statuses        []StatusCount   `json:"statuses"`
}

type ProjectGender struct {
	ProjectID string `json:"projectId"`
	Project   string `json:"project"`
	Male      int    `json:"male"`
	Female    int    `json:"female"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type Initiator struct {
	Name          string `json:"name"`
	Count         int    `json:"count"`
	Participation int    `json:"participation"`
}

type Partner struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type StatusCount struct {
	Status string        `json:"status"`
	Count  int           `json:"count"`
	Tone   activity.Tone `json:"tone"`
}

// Compute derives the dashboard from projects and the activities already
// filtered for display. Gender totals per project follow the order of
// projects.
func Compute(projects []project.ProjectSummary, acts []activity.Activity) *Dashboard {
	d := &Dashboard{
		TotalProjects:   len(projects),
		TotalActivities: len(acts),
		Monthly:         make([]MonthCount, len(period.Months)),
	}
	for i, m := range period.Months {
		d.Monthly[i].Month = m
	}

	byProject := make(map[string]*ProjectGender, len(projects))
	d.GenderByProject = make([]ProjectGender, len(projects))
	for i, p := range projects {
		d.GenderByProject[i] = ProjectGender{ProjectID: p.ID, Project: p.Name}
		byProject[p.ID] = &d.GenderByProject[i]
	}

	initiators := map[string]*Initiator{}
	var initiatorOrder []string
	partners := map[string]int{}
	statuses := map[string]int{}

	for _, a := range acts {
		d.TotalParticipants += a.NumberOfParticipants
		d.TotalHours += a.NumberOfHours
		d.Male += a.Male
		d.Female += a.Female

		if pg, ok := byProject[a.ProjectID]; ok {
			pg.Male += a.Male
			pg.Female += a.Female
		}

		if n := period.Ordinal(a.Month); n > 0 {
			d.Monthly[n-1].Count++
		}

		name := strings.TrimSpace(a.InitiatedBy)
		if name == "" {
			name = "Unknown"
		}
		in, ok := initiators[name]
		if !ok {
			in = &Initiator{Name: name}
			initiators[name] = in
			initiatorOrder = append(initiatorOrder, name)
		}
		in.Count++
		in.Participation += a.NumberOfParticipants

		for _, partner := range SplitPartners(a.PartneredInstitutions) {
			partners[partner]++
		}

		statuses[a.Status]++
	}

	d.AvgActivitiesPerProject = ratio(d.TotalActivities, d.TotalProjects)
	d.AvgParticipantsPerActivity = ratio(d.TotalParticipants, d.TotalActivities)
	d.GenderRatio = float64(d.Male) / float64(max(d.Female, 1))

	d.Initiators = make([]Initiator, 0, len(initiatorOrder))
	for _, name := range initiatorOrder {
		d.Initiators = append(d.Initiators, *initiators[name])
	}
	slices.SortStableFunc(d.Initiators, func(a, b Initiator) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(d.Initiators) > TopInitiators {
		d.Initiators = d.Initiators[:TopInitiators]
	}

	d.Partners = make([]Partner, 0, len(partners))
	for name, n := range partners {
		d.Partners = append(d.Partners, Partner{Name: name, Count: n})
	}
	slices.SortFunc(d.Partners, func(a, b Partner) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	d.Statuses = make([]StatusCount, 0, len(statuses))
	for status, n := range statuses {
		d.Statuses = append(d.Statuses, StatusCount{Status: status, Count: n, Tone: activity.ToneFor(status)})
	}
	slices.SortFunc(d.Statuses, func(a, b StatusCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Status, b.Status)
	})

	return d
}

// SplitPartners splits a free-text institution list on commas, semicolons
// and newlines. Blank entries are dropped.
func SplitPartners(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
