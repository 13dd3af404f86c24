package datasource

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"griddle/internal/compare"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rows.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCSVSourceLoad(t *testing.T) {
	path := writeCSV(t, "name,price\nwidget,3\ngadget,1.5\n")
	src := NewCSVSource(path, ',', []string{compare.TypeText, compare.TypeNumber})

	rows, err := src.Load(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, rows, 2, "header row is skipped")

	assert.Equal(t, "widget", rows[0].Value(0))
	assert.Equal(t, 3.0, rows[0].Value(1), "number columns are coerced")
	assert.Equal(t, 1.5, rows[1].Value(1))
	assert.False(t, src.Remote())
}

func TestCSVSourceKeepsUnparsableNumbersAsText(t *testing.T) {
	path := writeCSV(t, "name,price\nwidget,n/a\n")
	src := NewCSVSource(path, ',', []string{compare.TypeText, compare.TypeNumber})

	rows, err := src.Load(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, "n/a", rows[0].Value(1))
}

func TestCSVSourceMissingFile(t *testing.T) {
	src := NewCSVSource(filepath.Join(t.TempDir(), "nope.csv"), ',', nil)
	_, err := src.Load(context.Background(), Query{})
	assert.Error(t, err)
}

func TestHTTPSourceCarriesSortParams(t *testing.T) {
	src := NewHTTPSource("http://rows.test/api/items", []string{"name", "price"})
	httpmock.ActivateNonDefault(src.Client().GetClient())
	defer httpmock.DeactivateAndReset()

	var gotQuery map[string]string
	httpmock.RegisterResponder("GET", "http://rows.test/api/items",
		func(req *http.Request) (*http.Response, error) {
			gotQuery = map[string]string{
				ParamSortColumn:    req.URL.Query().Get(ParamSortColumn),
				ParamSortDirection: req.URL.Query().Get(ParamSortDirection),
			}
			return httpmock.NewStringResponse(200,
				`[{"name":"b","price":2},{"name":"a","price":1}]`), nil
		})

	rows, err := src.Load(context.Background(), Query{SortColumn: "price", SortDirection: "DESC"})
	require.NoError(t, err)

	assert.Equal(t, "price", gotQuery[ParamSortColumn])
	assert.Equal(t, "DESC", gotQuery[ParamSortDirection])
	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[0].Value(0))
	assert.Equal(t, 2.0, rows[0].Value(1))
	assert.True(t, src.Remote())
}

func TestHTTPSourceOmitsSortParamsWhenUnset(t *testing.T) {
	src := NewHTTPSource("http://rows.test/api/items", []string{"name"})
	httpmock.ActivateNonDefault(src.Client().GetClient())
	defer httpmock.DeactivateAndReset()

	var rawQuery string
	httpmock.RegisterResponder("GET", "http://rows.test/api/items",
		func(req *http.Request) (*http.Response, error) {
			rawQuery = req.URL.RawQuery
			return httpmock.NewStringResponse(200, `[]`), nil
		})

	_, err := src.Load(context.Background(), Query{})
	require.NoError(t, err)
	assert.Empty(t, rawQuery)
}

func TestHTTPSourceServerError(t *testing.T) {
	src := NewHTTPSource("http://rows.test/api/items", []string{"name"})
	httpmock.ActivateNonDefault(src.Client().GetClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "http://rows.test/api/items",
		httpmock.NewStringResponder(500, "boom"))

	_, err := src.Load(context.Background(), Query{})
	assert.Error(t, err)
}
