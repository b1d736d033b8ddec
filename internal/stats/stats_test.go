package stats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ganot/accomplish/internal/domain/activity"
	"github.com/ganot/accomplish/internal/domain/project"
	"github.com/ganot/accomplish/internal/period"
	"github.com/ganot/accomplish/internal/repository/mocks"
)

func TestCompute_Empty(t *testing.T) {
	d := Compute(nil, nil)
	require.Zero(t, d.AvgActivitiesPerProject)
	require.Zero(t, d.AvgParticipantsPerActivity)
	require.Zero(t, d.GenderRatio)
	require.Len(t, d.Monthly, 12)
	require.Empty(t, d.Initiators)
}

func TestCompute(t *testing.T) {
	projects := []project.ProjectSummary{
		{ID: "p1", Name: "Alpha"},
		{ID: "p2", Name: "Beta"},
	}
	acts := []activity.Activity{
		{ProjectID: "p1", Month: "January", NumberOfParticipants: 10, NumberOfHours: 2, Male: 4, Female: 6,
			InitiatedBy: "CES", Status: "Completed", PartneredInstitutions: "LGU, DepEd"},
		{ProjectID: "p1", Month: "january ", NumberOfParticipants: 5, Male: 5,
			InitiatedBy: "", Status: "Completed", PartneredInstitutions: "LGU"},
		{ProjectID: "p2", Month: "July", NumberOfParticipants: 3, Female: 3,
			InitiatedBy: "CES", Status: "Ongoing"},
		{ProjectID: "p2", Month: "Smarch", InitiatedBy: "Dept", Status: "Whatever"},
	}

	d := Compute(projects, acts)
	require.Equal(t, 2, d.TotalProjects)
	require.Equal(t, 4, d.TotalActivities)
	require.Equal(t, 18, d.TotalParticipants)
	require.Equal(t, 2, d.TotalHours)
	require.InDelta(t, 2.0, d.AvgActivitiesPerProject, 1e-9)
	require.InDelta(t, 4.5, d.AvgParticipantsPerActivity, 1e-9)
	require.Equal(t, 9, d.Male)
	require.Equal(t, 9, d.Female)
	require.InDelta(t, 1.0, d.GenderRatio, 1e-9)

	require.Equal(t, []ProjectGender{
		{ProjectID: "p1", Project: "Alpha", Male: 9, Female: 6},
		{ProjectID: "p2", Project: "Beta", Male: 0, Female: 3},
	}, d.GenderByProject)

	require.Equal(t, 2, d.Monthly[0].Count)
	require.Equal(t, 1, d.Monthly[6].Count)
	total := 0
	for _, m := range d.Monthly {
		total += m.Count
	}
	require.Equal(t, 3, total, "unknown months are not charted")

	require.Equal(t, Initiator{Name: "CES", Count: 2, Participation: 13}, d.Initiators[0])
	require.Equal(t, "Unknown", d.Initiators[1].Name)
	require.Equal(t, "Dept", d.Initiators[2].Name)

	require.Equal(t, []Partner{{Name: "LGU", Count: 2}, {Name: "DepEd", Count: 1}}, d.Partners)

	require.Equal(t, StatusCount{Status: "Completed", Count: 2, Tone: activity.ToneGreen}, d.Statuses[0])
	require.Equal(t, activity.ToneGray, d.Statuses[2].Tone)
}

func TestCompute_GenderRatioFloorsFemale(t *testing.T) {
	d := Compute(nil, []activity.Activity{{Male: 7}})
	require.InDelta(t, 7.0, d.GenderRatio, 1e-9)
}

func TestCompute_TopInitiatorsCapped(t *testing.T) {
	var acts []activity.Activity
	for i := range 10 {
		acts = append(acts, activity.Activity{InitiatedBy: string(rune('A' + i))})
	}
	d := Compute(nil, acts)
	require.Len(t, d.Initiators, TopInitiators)
	require.Equal(t, "A", d.Initiators[0].Name, "ties keep first-seen order")
}

func TestSplitPartners(t *testing.T) {
	require.Equal(t, []string{"LGU", "DepEd", "NGO"}, SplitPartners(" LGU ;DepEd,\nNGO, "))
	require.Empty(t, SplitPartners(""))
}

func TestService_DashboardFiltersProject(t *testing.T) {
	ctx := context.Background()

	projects := &mocks.ProjectRepository{}
	projects.On("List", ctx).Return([]project.ProjectSummary{
		{ID: "p1", Name: "Alpha"},
		{ID: "p2", Name: "Beta"},
	}, nil)

	acts := &mocks.ActivityRepository{}
	acts.On("List", ctx, activity.ListOptions{Project: "Beta", Bucket: period.Q3}).
		Return([]activity.Activity{{ProjectID: "p2", Month: "July", Male: 2}}, nil)

	svc := NewService(projects, acts)
	d, err := svc.Dashboard(ctx, Filter{Project: "Beta", Bucket: period.Q3})
	require.NoError(t, err)
	require.Equal(t, 1, d.TotalProjects)
	require.Equal(t, "Beta", d.GenderByProject[0].Project)
	require.Equal(t, 2, d.GenderByProject[0].Male)
}
