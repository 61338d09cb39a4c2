// Package athletes models the ESPN "statistics by athlete" payload and
// flattens each athlete record into a single-level row.
package athletes

// Row is one flattened player: column name to scalar value.
// A nil value is written as an empty cell.
type Row map[string]any

// Demographic column names, in output order.
const (
	ColumnPlayerID      = "player_id"
	ColumnTeamID        = "team_id"
	ColumnSport         = "sport"
	ColumnFirstName     = "first_name"
	ColumnLastName      = "last_name"
	ColumnFullName      = "full_name"
	ColumnTeamName      = "team_name"
	ColumnStatsPageLink = "stats_page_link"
	ColumnPosition      = "position"
	ColumnActiveStatus  = "active_status"
)

var demographicColumns = []string{
	ColumnPlayerID,
	ColumnTeamID,
	ColumnSport,
	ColumnFirstName,
	ColumnLastName,
	ColumnFullName,
	ColumnTeamName,
	ColumnStatsPageLink,
	ColumnPosition,
	ColumnActiveStatus,
}

// DemographicColumns returns the ten demographic column names.
func DemographicColumns() []string {
	return append([]string(nil), demographicColumns...)
}

// Columns returns the CSV header: demographic columns followed by the
// statistic columns of every recognized category.
func Columns() []string {
	columns := DemographicColumns()
	for _, name := range categoryOrder {
		columns = append(columns, categoryFields[name]...)
	}
	return columns
}

// Flatten merges an athlete's demographics and statistics into one row.
// Statistic columns overwrite demographic columns of the same name.
func Flatten(record map[string]any) Row {
	row := Demographics(record)
	for k, v := range Stats(record) {
		row[k] = v
	}
	return row
}

// Demographics extracts the ten demographic columns from the record's
// "athlete" object. Every column is present; missing data is nil.
func Demographics(record map[string]any) Row {
	athlete := object(record["athlete"])
	return Row{
		ColumnPlayerID:      athlete["id"],
		ColumnTeamID:        athlete["teamId"],
		ColumnSport:         athlete["type"],
		ColumnFirstName:     athlete["firstName"],
		ColumnLastName:      athlete["lastName"],
		ColumnFullName:      athlete["displayName"],
		ColumnTeamName:      athlete["teamName"],
		ColumnStatsPageLink: firstObject(athlete["links"])["href"],
		ColumnPosition:      object(athlete["position"])["slug"],
		ColumnActiveStatus:  object(athlete["status"])["name"],
	}
}

// Stats extracts the statistic columns of every recognized category.
// Unrecognized categories are skipped.
func Stats(record map[string]any) Row {
	stats := Row{}
	categories, _ := record["categories"].([]any)
	for _, c := range categories {
		category := object(c)
		name, _ := category["name"].(string)
		fields, ok := categoryFields[name]
		if !ok {
			continue
		}
		values, _ := category["values"].([]any)
		for k, v := range zipValues(fields, values) {
			stats[k] = v
		}
	}
	return stats
}

// object returns v as a JSON object, or nil. Indexing a nil map is safe
// and yields nil, which lets lookups chain through missing levels.
func object(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// firstObject returns the first element of a JSON array as an object.
func firstObject(v any) map[string]any {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return nil
	}
	return object(arr[0])
}
