package importer

import "strings"

var headerKeys = map[string]string{
	"ACTUAL ACCOMPLISHMENTS": "project",
	"No of Hours":            "numberOfHours",
	"No. of Participants":    "numberOfParticipants",
	"MOVs":                   "movs",
	"Inclusive Dates":        "inclusiveDates",
	"Activity Name":          "activityName",
	"Nature of Activity":     "natureOfActivity",
	"Initiated by":           "initiatedBy",
	"Partnered Institutions": "partneredInstitutions",
	"Component":              "component",
}

// MapHeaders turns a raw header row into canonical field keys, one per
// column and in the same order. Known spreadsheet headers map through a
// fixed, case-sensitive table; anything else is lower-cased. An empty header
// maps to "" and its column is ignored for every row.
func MapHeaders(headers []string) []string {
	keys := make([]string, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if key, ok := headerKeys[h]; ok {
			keys[i] = key
			continue
		}
		keys[i] = strings.ToLower(h)
	}
	return keys
}

// CanonicalKeys is MapHeaders with the ignored columns removed.
func CanonicalKeys(headers []string) []string {
	var out []string
	for _, k := range MapHeaders(headers) {
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

// mapRow pairs cells with keys. Ignored columns and cells past the header
// are dropped; a short row leaves the missing keys absent.
func mapRow(keys, cells []string) map[string]string {
	rec := make(map[string]string, len(keys))
	for i, key := range keys {
		if key == "" || i >= len(cells) {
			continue
		}
		rec[key] = strings.TrimSpace(cells[i])
	}
	return rec
}
