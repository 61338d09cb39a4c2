package athletes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePage(t *testing.T) {
	page, err := DecodePage([]byte(`{
		"pagination": {"pages": 3, "count": 120},
		"athletes": [
			{"athlete": {"id": "1"}},
			{"athlete": {"id": "2"}}
		]
	}`))
	require.NoError(t, err)

	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Athletes, 2)
	assert.Equal(t, "2", object(page.Athletes[1]["athlete"])["id"])
}

func TestDecodePage_TotalPagesDefaults(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "pagination missing", body: `{"athletes": []}`, want: 1},
		{name: "pages missing", body: `{"pagination": {}}`, want: 1},
		{name: "pages zero", body: `{"pagination": {"pages": 0}}`, want: 1},
		{name: "pages negative", body: `{"pagination": {"pages": -4}}`, want: 1},
		{name: "pages string", body: `{"pagination": {"pages": "7"}}`, want: 1},
		{name: "pagination not object", body: `{"pagination": [7]}`, want: 1},
		{name: "pages present", body: `{"pagination": {"pages": 7}}`, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := DecodePage([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.TotalPages)
		})
	}
}

func TestDecodePage_NonObjectAthleteKeepsSlot(t *testing.T) {
	page, err := DecodePage([]byte(`{"athletes": [null, 5, {"athlete": {"id": "9"}}]}`))
	require.NoError(t, err)
	require.Len(t, page.Athletes, 3)

	rows := FlattenPage(page)
	require.Len(t, rows, 3)
	assert.Nil(t, rows[0][ColumnPlayerID])
	assert.Nil(t, rows[1][ColumnPlayerID])
	assert.Equal(t, "9", rows[2][ColumnPlayerID])
}

func TestDecodePage_NotAnObject(t *testing.T) {
	for _, body := range []string{`[]`, `null`, `"text"`, `<html>`, ``} {
		t.Run(body, func(t *testing.T) {
			_, err := DecodePage([]byte(body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnexpectedPayload))
		})
	}
}

func TestFlattenPages_Order(t *testing.T) {
	pages := []Page{
		{Number: 1, Athletes: []map[string]any{
			{"athlete": map[string]any{"id": "a"}},
			{"athlete": map[string]any{"id": "b"}},
		}},
		{Number: 2, Athletes: []map[string]any{
			{"athlete": map[string]any{"id": "c"}},
		}},
		{Number: 3},
	}

	rows := FlattenPages(pages)

	require.Len(t, rows, 3)
	ids := []any{rows[0][ColumnPlayerID], rows[1][ColumnPlayerID], rows[2][ColumnPlayerID]}
	assert.Equal(t, []any{"a", "b", "c"}, ids)
}

func TestFlattenPage_RowPerAthlete(t *testing.T) {
	page, err := DecodePage([]byte(`{"pagination":{"pages":1},"athletes":[
		{"athlete":{"id":"1"},"categories":[{"name":"general","values":[1]}]},
		{"athlete":{"id":"2"},"categories":[{"name":"advanced","values":[1]}]},
		{"athlete":{"id":"3"}}
	]}`))
	require.NoError(t, err)

	rows := FlattenPage(page)

	require.Len(t, rows, 3)
	allowed := map[string]bool{}
	for _, c := range Columns() {
		allowed[c] = true
	}
	for _, row := range rows {
		for _, col := range DemographicColumns() {
			_, ok := row[col]
			assert.True(t, ok, "column %s missing", col)
		}
		for col := range row {
			assert.True(t, allowed[col], "unexpected column %s", col)
		}
	}
	assert.Len(t, rows[0], 11)
	assert.Len(t, rows[1], 10)
}
