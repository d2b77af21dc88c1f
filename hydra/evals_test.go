package hydra

import (
	"errors"
	"testing"

	"github.com/bryango/hydra-check/model"
	"github.com/stretchr/testify/require"
)

func TestParseEvals(t *testing.T) {
	doc := parseFixture(t, "evals.html")
	tbody, err := LocateTable(doc, "", "")
	require.NoError(t, err)

	evals, err := ParseEvals("jobset 'nixpkgs/trunk'", tbody)
	require.NoError(t, err)
	require.Len(t, evals, 2)

	running := evals[0]
	require.Equal(t, model.IconQueued, running.Icon)
	require.False(t, *running.Finished)
	require.Equal(t, uint64(1809300), *running.ID)
	require.Equal(t, "https://hydra.nixos.org/eval/1809300", *running.URL)
	require.Equal(t, "2024-06-03T10:00:00Z", *running.Datetime)
	require.Equal(t, "2h ago", *running.Relative)
	require.Equal(t, uint64(1717408800), *running.Timestamp)
	require.Equal(t, "Queued", running.Status)
	require.Equal(t, "abc12345", *running.ShortRev)
	require.Equal(t, "nixpkgs → abc12345", *running.InputChanges)
	require.Equal(t, uint64(181234), *running.Succeeded)
	require.Equal(t, uint64(1023), *running.Failed)
	require.Equal(t, uint64(5432), *running.Queued)
	require.Equal(t, "+12", *running.Delta)

	finished := evals[1]
	require.Equal(t, model.IconSucceeded, finished.Icon)
	require.Equal(t, "", finished.Status)
	require.Equal(t, "nixpkgs → def67890", *finished.InputChanges)
	require.Equal(t, uint64(0), *finished.Failed)
	require.Equal(t, uint64(0), *finished.Queued)
	require.True(t, *finished.Finished)
	require.Equal(t, "-3", *finished.Delta)
}

func TestParseEvalsFinishedMatchesQueued(t *testing.T) {
	doc := parseFixture(t, "evals.html")
	evals, err := ParseEvals("jobset", doc.Find("tbody"))
	require.NoError(t, err)
	for _, e := range evals {
		require.Equal(t, *e.Queued == 0, *e.Finished)
	}
}

func TestParseEvalsInvalidCount(t *testing.T) {
	doc := parseHTML(t, `<table><tbody><tr>
		<td><a href="https://hydra.nixos.org/eval/1">1</a></td>
		<td><time data-timestamp="1" datetime="2024-01-01T00:00:00Z">now</time></td>
		<td><tt>abc</tt></td>
		<td>12</td><td>-</td><td></td><td></td>
	</tr></tbody></table>`)

	_, err := ParseEvals("jobset", doc.Find("tbody"))
	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	require.Contains(t, err.Error(), `invalid job count "-"`)
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{in: "", want: 0},
		{in: "  \n ", want: 0},
		{in: "42", want: 42},
		{in: " 7 ", want: 7},
		{in: "n/a", wantErr: true},
		{in: "-1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCount(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseInputs(t *testing.T) {
	doc := parseFixture(t, "eval.html")
	tables := LocateTables(doc, "div#tabs-inputs")
	require.Len(t, tables, 2)

	inputs, truncated, err := ParseInputs("eval 1", tables[1])
	require.NoError(t, err)
	require.False(t, truncated)
	require.Len(t, inputs, 2)

	require.Equal(t, "nixpkgs", *inputs[0].Name)
	require.Equal(t, "Git checkout", *inputs[0].InputType)
	require.Equal(t, "https://github.com/NixOS/nixpkgs.git", *inputs[0].Value)
	require.Equal(t, "def67890aaaabbbbccccddddeeeeffff00001111", *inputs[0].Revision)

	require.Equal(t, "officialRelease", *inputs[1].Name)
	require.Nil(t, inputs[1].Revision)
	require.Nil(t, inputs[1].StorePath)
}

func TestParseInputsTruncated(t *testing.T) {
	doc := parseHTML(t, `<table><tbody>
		<tr><td>a</td><td>b</td><td>c</td><td>d</td><td>e</td></tr>
		<tr><td colspan="5"><a href="?full=1">more</a></td></tr>
	</tbody></table>`)

	inputs, truncated, err := ParseInputs("eval 1", doc.Find("tbody"))
	require.NoError(t, err)
	require.True(t, truncated)
	require.Len(t, inputs, 1)
}

func TestParseInputChanges(t *testing.T) {
	doc := parseFixture(t, "eval.html")
	tables := LocateTables(doc, "div#tabs-inputs")

	changes, err := ParseInputChanges("eval 1", tables[0])
	require.NoError(t, err)
	require.Len(t, changes, 2)

	require.Equal(t, "nixpkgs", changes[0].Input)
	require.Equal(t, "abc12345 to def67890 (diff)", changes[0].Description)
	require.NotNil(t, changes[0].URL)
	require.Equal(t, &model.RevPair{
		"abc12345aaaabbbbccccddddeeeeffff00001111",
		"def67890aaaabbbbccccddddeeeeffff00001111",
	}, changes[0].Revs)
	require.Equal(t, &model.RevPair{"abc12345", "def67890"}, changes[0].ShortRevs)

	require.Equal(t, "officialRelease", changes[1].Input)
	require.Nil(t, changes[1].URL)
	require.Nil(t, changes[1].Revs)
	require.Nil(t, changes[1].ShortRevs)
}

func TestDiffRevs(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want *model.RevPair
	}{
		{
			name: "rev1 first",
			url:  "/api/scmdiff?uri=x&rev1=abc123&rev2=def456&type=git",
			want: &model.RevPair{"abc123", "def456"},
		},
		{
			name: "rev2 first",
			url:  "/api/scmdiff?rev2=def456&type=git&rev1=abc123",
			want: &model.RevPair{"abc123", "def456"},
		},
		{
			name: "only one revision",
			url:  "/api/scmdiff?rev1=abc123",
		},
		{
			name: "no query",
			url:  "https://github.com/NixOS/nixpkgs/compare/abc...def",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DiffRevs(tt.url))
		})
	}
}

func TestShortRevs(t *testing.T) {
	require.Equal(t, &model.RevPair{"abc12345", "def67890"}, ShortRevs("abc12345 to def67890"))
	require.Nil(t, ShortRevs("Changed input type from 'boolean' to 'string'"))
	require.Nil(t, ShortRevs(""))
}
