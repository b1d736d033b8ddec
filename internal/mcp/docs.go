package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `accomplish keeps a register of Projects and the Activities reported under them.

- Project: unique name, created on first reference by an import or a new activity.
- Activity: one reported event (year, month, project, counts of hours and participants, status, partners).

Workflow:
1) Orient with list_projects and get_dashboard_stats.
2) Narrow with list_activities using project, year, status and bucket (Q1-Q4, S1, S2).
3) Load data with import_activities_csv; rows without year, month or project are skipped.
4) Hand reports to people with export_activities_csv.`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "accomplish://docs/import-format",
		Name:        "import-format",
		Title:       "Import format",
		Description: "Columns understood by import_activities_csv and the file upload",
		Content: `# Import format

The first non-blank line is the header. Known headers map to fields:

| Header | Field |
|---|---|
| ACTUAL ACCOMPLISHMENTS | project |
| No of Hours | numberOfHours |
| No. of Participants | numberOfParticipants |
| MOVs | movs |
| Inclusive Dates | inclusiveDates |
| Activity Name | activityName |
| Nature of Activity | natureOfActivity |
| Initiated by | initiatedBy |
| Partnered Institutions | partneredInstitutions |
| Component | component |

Any other header is lower-cased and used as is, so ` + "`Year`" + `, ` + "`Month`" + `,
` + "`Status`" + `, ` + "`Male`" + ` and ` + "`Female`" + ` work directly. Columns with an empty
header are ignored.

- year, month and project are required; rows missing one are skipped.
- Counts read the leading integer; anything else counts as 0.
- status defaults to PENDING.
`,
	},
	{
		URI:         "accomplish://docs/periods",
		Name:        "periods",
		Title:       "Period buckets",
		Description: "Bucket selectors accepted by list, stats and export tools",
		Content: `# Period buckets

- all, year: no filtering
- Q1: January to March, Q2: April to June, Q3: July to September, Q4: October to December
- S1: Q1 and Q2, S2: Q3 and Q4

Month names match case-insensitively. Unknown selectors do not filter.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
