package transport_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ganot/accomplish/internal/domain/activity"
	"github.com/ganot/accomplish/internal/domain/project"
	"github.com/ganot/accomplish/internal/testserver"
)

const threeRows = `year,month,ACTUAL ACCOMPLISHMENTS,Activity Name,No of Hours
2024,January,Alpha,Kickoff,4
2024,,Beta,Broken,2
2024,March,Beta,Review,N/A
`

var fixedNow = time.Date(2024, time.May, 10, 9, 0, 0, 0, time.UTC)

func newServer(t *testing.T) *testserver.TestServer {
	t.Helper()
	return testserver.New(t, testserver.Options{Now: func() time.Time { return fixedNow }})
}

func upload(t *testing.T, url, filename, contentType, body string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = io.WriteString(part, body)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(url, mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func createActivity(t *testing.T, ts *testserver.TestServer, req activity.CreateRequest) activity.Activity {
	t.Helper()
	resp := do(t, http.MethodPost, ts.URL("/api/activities"), req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var act activity.Activity
	decode(t, resp, &act)
	return act
}

func TestHealth(t *testing.T) {
	ts := newServer(t)
	resp := do(t, http.MethodGet, ts.URL("/health"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestImport_CSV(t *testing.T) {
	ts := newServer(t)

	resp := upload(t, ts.URL("/api/projects/import"), "report.csv", "text/csv", threeRows)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Success  bool `json:"success"`
		Count    int  `json:"count"`
		Projects int  `json:"projects"`
		Skipped  int  `json:"skipped"`
	}
	decode(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, 2, body.Count)
	require.Equal(t, 2, body.Projects)
	require.Equal(t, 1, body.Skipped)

	resp = do(t, http.MethodGet, ts.URL("/api/activities"), nil)
	var acts []activity.Activity
	decode(t, resp, &acts)
	require.Len(t, acts, 2)
	require.Equal(t, "Kickoff", acts[0].ActivityName)
	require.Equal(t, 4, acts[0].NumberOfHours)
	require.Equal(t, 0, acts[1].NumberOfHours)
	require.Equal(t, "PENDING", acts[1].Status)
	require.NotEqual(t, acts[0].ProjectID, acts[1].ProjectID)
}

func TestImport_ReusesExistingProject(t *testing.T) {
	ts := newServer(t)

	resp := do(t, http.MethodPost, ts.URL("/api/projects"), map[string]string{"name": "Alpha"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var existing project.Project
	decode(t, resp, &existing)

	resp = upload(t, ts.URL("/api/projects/import"), "report.csv", "text/csv", threeRows)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, ts.URL("/api/projects/"+existing.ID), nil)
	var detail struct {
		Name       string              `json:"name"`
		Activities []activity.Activity `json:"activities"`
	}
	decode(t, resp, &detail)
	require.Equal(t, "Alpha", detail.Name)
	require.Len(t, detail.Activities, 1)
}

func TestImport_MissingFile(t *testing.T) {
	ts := newServer(t)

	resp, err := http.Post(ts.URL("/api/projects/import"), "multipart/form-data; boundary=x", strings.NewReader("--x--\r\n"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]any
	decode(t, resp, &body)
	require.Equal(t, "No file provided", body["error"])
}

func TestImport_WrongType(t *testing.T) {
	ts := newServer(t)

	resp := upload(t, ts.URL("/api/projects/import"), "logo.png", "image/png", "not a csv")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]any
	decode(t, resp, &body)
	require.Equal(t, "Invalid file type. Please upload a CSV file.", body["error"])
}

func TestImport_TooLarge(t *testing.T) {
	ts := testserver.New(t, testserver.Options{MaxUploadBytes: 64})

	resp := upload(t, ts.URL("/api/projects/import"), "report.csv", "text/csv", strings.Repeat(threeRows, 10))
	require.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestActivities_CRUD(t *testing.T) {
	ts := newServer(t)

	act := createActivity(t, ts, activity.CreateRequest{Year: "2024", Month: "June", Project: "Alpha", ActivityName: "Seminar"})
	require.NotEmpty(t, act.ProjectID)
	require.Equal(t, "PENDING", act.Status)

	resp := do(t, http.MethodPatch, ts.URL("/api/activities/"+act.ID), map[string]any{"status": "Completed", "male": 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated activity.Activity
	decode(t, resp, &updated)
	require.Equal(t, "Completed", updated.Status)
	require.Equal(t, 3, updated.Male)
	require.Equal(t, "Seminar", updated.ActivityName)

	resp = do(t, http.MethodGet, ts.URL("/api/activities/"+act.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodPost, ts.URL("/api/activities"), map[string]any{"year": "2024", "project": "Alpha"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestActivities_ListFilters(t *testing.T) {
	ts := newServer(t)
	createActivity(t, ts, activity.CreateRequest{Year: "2024", Month: "January", Project: "Alpha"})
	createActivity(t, ts, activity.CreateRequest{Year: "2024", Month: "August", Project: "Alpha"})
	createActivity(t, ts, activity.CreateRequest{Year: "2023", Month: "march", Project: "Beta"})

	var acts []activity.Activity
	decode(t, do(t, http.MethodGet, ts.URL("/api/activities?bucket=s1"), nil), &acts)
	require.Len(t, acts, 2)

	decode(t, do(t, http.MethodGet, ts.URL("/api/activities?year=2024&project=Alpha"), nil), &acts)
	require.Len(t, acts, 2)

	decode(t, do(t, http.MethodGet, ts.URL("/api/activities?limit=1&offset=1"), nil), &acts)
	require.Len(t, acts, 1)
	require.Equal(t, "August", acts[0].Month)

	resp := do(t, http.MethodGet, ts.URL("/api/activities?limit=abc"), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestActivities_DeleteMissing(t *testing.T) {
	ts := newServer(t)

	resp := do(t, http.MethodDelete, ts.URL("/api/activities/nope"), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestActivities_DeletePrunesEmptyProject(t *testing.T) {
	ts := newServer(t)
	first := createActivity(t, ts, activity.CreateRequest{Year: "2024", Month: "June", Project: "Alpha"})
	second := createActivity(t, ts, activity.CreateRequest{Year: "2024", Month: "July", Project: "Alpha"})

	var body struct {
		Message             string `json:"message"`
		RemainingActivities int    `json:"remainingActivities"`
		ProjectDeleted      bool   `json:"projectDeleted"`
	}
	resp := do(t, http.MethodDelete, ts.URL("/api/activities/"+first.ID+"?pruneEmptyProject=true"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &body)
	require.Equal(t, "Activity deleted successfully", body.Message)
	require.Equal(t, 1, body.RemainingActivities)
	require.False(t, body.ProjectDeleted)

	resp = do(t, http.MethodDelete, ts.URL("/api/activities/"+second.ID+"?pruneEmptyProject=true"), nil)
	decode(t, resp, &body)
	require.Equal(t, 0, body.RemainingActivities)
	require.True(t, body.ProjectDeleted)

	resp = do(t, http.MethodGet, ts.URL("/api/projects/"+first.ProjectID), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestActivities_Upcoming(t *testing.T) {
	ts := newServer(t)
	createActivity(t, ts, activity.CreateRequest{Year: "2024", Month: "September", Project: "Alpha", ActivityName: "late"})
	createActivity(t, ts, activity.CreateRequest{Year: "2024", Month: "August", Project: "Alpha", ActivityName: "aug"})
	createActivity(t, ts, activity.CreateRequest{Year: "2024", Month: "May", Project: "Alpha", ActivityName: "may"})
	createActivity(t, ts, activity.CreateRequest{Year: "2024", Month: "April", Project: "Alpha", ActivityName: "past"})

	var acts []activity.Activity
	decode(t, do(t, http.MethodGet, ts.URL("/api/activities/upcoming"), nil), &acts)
	require.Len(t, acts, 2)
	require.Equal(t, "may", acts[0].ActivityName)
	require.Equal(t, "aug", acts[1].ActivityName)
}

func TestProjects_UpdateAndDelete(t *testing.T) {
	ts := newServer(t)
	act := createActivity(t, ts, activity.CreateRequest{Year: "2024", Month: "June", Project: "Alpha"})
	createActivity(t, ts, activity.CreateRequest{Year: "2024", Month: "July", Project: "Alpha"})

	resp := do(t, http.MethodPatch, ts.URL("/api/projects/"+act.ProjectID), map[string]string{"name": "Gamma"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var proj project.Project
	decode(t, resp, &proj)
	require.Equal(t, "Gamma", proj.Name)

	var got activity.Activity
	decode(t, do(t, http.MethodGet, ts.URL("/api/activities/"+act.ID), nil), &got)
	require.Equal(t, "Gamma", got.Project)

	var projects []project.ProjectSummary
	decode(t, do(t, http.MethodGet, ts.URL("/api/projects"), nil), &projects)
	require.Len(t, projects, 1)
	require.Equal(t, 2, projects[0].ActivityCount)

	resp = do(t, http.MethodDelete, ts.URL("/api/projects/"+act.ProjectID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var deleted struct {
		Message           string `json:"message"`
		DeletedActivities int    `json:"deletedActivities"`
	}
	decode(t, resp, &deleted)
	require.Equal(t, "Project deleted successfully", deleted.Message)
	require.Equal(t, 2, deleted.DeletedActivities)

	resp = do(t, http.MethodGet, ts.URL("/api/activities/"+act.ID), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProjects_DuplicateName(t *testing.T) {
	ts := newServer(t)

	resp := do(t, http.MethodPost, ts.URL("/api/projects"), map[string]string{"name": "Alpha"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = do(t, http.MethodPost, ts.URL("/api/projects"), map[string]string{"name": "Alpha"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestExport_CSV(t *testing.T) {
	ts := newServer(t)
	createActivity(t, ts, activity.CreateRequest{Year: "2024", Month: "March", Project: "Alpha", Remarks: `said "hi"`})
	createActivity(t, ts, activity.CreateRequest{Year: "2024", Month: "January", Project: "Alpha"})

	resp := do(t, http.MethodGet, ts.URL("/api/activities/export?format=csv&sort=asc"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	require.Equal(t, `attachment; filename="activities_report_2024-05-10.csv"`, resp.Header.Get("Content-Disposition"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "Year,Month,Project,"))
	require.Contains(t, lines[1], `"January"`)
	require.Contains(t, lines[2], `"said ""hi"""`)
}

func TestExport_Formats(t *testing.T) {
	ts := newServer(t)
	createActivity(t, ts, activity.CreateRequest{Year: "2024", Month: "March", Project: "Alpha"})

	for format, ext := range map[string]string{"excel": "xlsx", "pdf": "pdf", "png": "png"} {
		resp := do(t, http.MethodGet, ts.URL("/api/activities/export?format="+format), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, format)
		require.Equal(t, `attachment; filename="activities_report_2024-05-10.`+ext+`"`, resp.Header.Get("Content-Disposition"))
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NotEmpty(t, data)
	}

	resp := do(t, http.MethodGet, ts.URL("/api/activities/export?format=docx"), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStats(t *testing.T) {
	ts := newServer(t)
	createActivity(t, ts, activity.CreateRequest{Year: "2024", Month: "March", Project: "Alpha", NumberOfParticipants: 10, Male: 4, Female: 6})
	createActivity(t, ts, activity.CreateRequest{Year: "2024", Month: "October", Project: "Beta", NumberOfParticipants: 5, Male: 5})

	var d struct {
		TotalProjects     int     `json:"totalProjects"`
		TotalActivities   int     `json:"totalActivities"`
		TotalParticipants int     `json:"totalParticipants"`
		GenderRatio       float64 `json:"genderRatio"`
	}
	decode(t, do(t, http.MethodGet, ts.URL("/api/stats"), nil), &d)
	require.Equal(t, 2, d.TotalProjects)
	require.Equal(t, 2, d.TotalActivities)
	require.Equal(t, 15, d.TotalParticipants)
	require.InDelta(t, 1.5, d.GenderRatio, 0.0001)

	decode(t, do(t, http.MethodGet, ts.URL("/api/stats?bucket=S1"), nil), &d)
	require.Equal(t, 1, d.TotalActivities)

	resp := do(t, http.MethodGet, ts.URL("/api/stats/chart.png"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}

func TestAuth_Enabled(t *testing.T) {
	ts := testserver.New(t, testserver.Options{AuthEnabled: true})

	resp := do(t, http.MethodGet, ts.URL("/api/projects"), nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, http.MethodGet, ts.URL("/health"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, ts.URL("/api/projects"), nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+ts.Token)
	authed, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer authed.Body.Close()
	require.Equal(t, http.StatusOK, authed.StatusCode)
}
