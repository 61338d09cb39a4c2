package athletes

// Category names recognized in an athlete's "categories" list.
const (
	CategoryGeneral   = "general"
	CategoryOffensive = "offensive"
	CategoryDefensive = "defensive"
)

// categoryOrder fixes the column order of the statistic fields.
var categoryOrder = []string{CategoryGeneral, CategoryOffensive, CategoryDefensive}

// categoryFields maps a category name to the column names its values fill,
// in the order the API emits them. It is never modified after init.
var categoryFields = map[string][]string{
	CategoryGeneral: {
		"total_games_played",
		"avg_minutes",
		"avg_personal_fouls",
		"total_double_doubles",
		"total_triple_doubles",
		"total_disqualifications",
		"total_ejections",
		"total_technical_fouls",
		"total_flagrant_fouls",
		"total_minutes",
		"total_rebounds",
		"total_personal_fouls",
		"avg_rebounds",
	},
	CategoryOffensive: {
		"avg_points",
		"avg_field_goal_makes",
		"avg_field_goal_attempts",
		"avg_field_goal_pctg",
		"avg_3pt_makes",
		"avg_3pt_attempts",
		"avg_3pt_pctg",
		"avg_ft_makes",
		"avg_ft_attempts",
		"avg_ft_pctg",
		"avg_assists",
		"avg_turnovers",
		"total_points",
		"total_field_goal_makes",
		"total_field_goal_attempts",
		"total_3pt_makes",
		"total_3pt_attempts",
		"total_ft_makes",
		"total_ft_attempts",
		"total_assists",
		"total_turnovers",
	},
	CategoryDefensive: {
		"avg_steals",
		"avg_blocks",
		"total_steals",
		"total_blocks",
	},
}

// CategoryNames returns the recognized category names in column order.
func CategoryNames() []string {
	return append([]string(nil), categoryOrder...)
}

// CategoryFields returns a copy of the column names for a category.
func CategoryFields(name string) ([]string, bool) {
	fields, ok := categoryFields[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), fields...), true
}

// zipValues pairs a category's values with its column names by position.
// Surplus values and surplus fields are both ignored.
//
// This is the only place that knows the API reports statistics as
// position-aligned arrays.
func zipValues(fields []string, values []any) Row {
	n := min(len(fields), len(values))
	row := make(Row, n)
	for i := 0; i < n; i++ {
		row[fields[i]] = values[i]
	}
	return row
}
