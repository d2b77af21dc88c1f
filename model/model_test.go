package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusIconJSON(t *testing.T) {
	tests := []struct {
		icon StatusIcon
		want string
	}{
		{IconSucceeded, `"✔"`},
		{IconFailed, `"✖"`},
		{IconCancelled, `"⏹"`},
		{IconQueued, `"⧖"`},
		{IconWarning, `"⚠"`},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			data, err := json.Marshal(tt.icon)
			require.NoError(t, err)
			require.Equal(t, tt.want, string(data))
		})
	}
}

func TestStatusIconDefaultsToWarning(t *testing.T) {
	var icon StatusIcon
	require.Equal(t, IconWarning, icon)
	require.Equal(t, IconWarning, BuildStatus{}.Icon)
}

func TestBuildStatusOmitsEmptyFields(t *testing.T) {
	data, err := json.Marshal(NewBuildPlaceholder("no such job"))
	require.NoError(t, err)
	require.JSONEq(t, `{"icon":"⚠","success":false,"status":"no such job","evals":false}`, string(data))
}

func TestBuildStatusFullJSON(t *testing.T) {
	s := func(v string) *string { return &v }
	b := BuildStatus{
		Icon:      IconSucceeded,
		Success:   true,
		Status:    "Succeeded",
		Timestamp: s("2024-06-01T10:00:00Z"),
		BuildID:   s("261000000"),
		BuildURL:  s("https://hydra.nixos.org/build/261000000"),
		Name:      s("hello-2.12.1"),
		Arch:      s("x86_64-linux"),
		Evals:     true,
	}
	data, err := json.Marshal(b)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "hello-2.12.1", decoded["name"])
	require.Equal(t, true, decoded["evals"])
	require.NotContains(t, decoded, "job_name")
}

func TestEvalInputChangesRevsAreArrays(t *testing.T) {
	c := EvalInputChanges{
		Input:       "nixpkgs",
		Description: "abc123 to def456",
		Revs:        &RevPair{"abc123ffff", "def456ffff"},
	}
	data, err := json.Marshal(c)
	require.NoError(t, err)
	require.JSONEq(t, `{"input":"nixpkgs","description":"abc123 to def456","revs":["abc123ffff","def456ffff"]}`, string(data))
}

func TestEvalDetailsBucketsPointIntoStruct(t *testing.T) {
	var d EvalDetails
	buckets := d.Buckets()
	require.Len(t, buckets, 8)

	*buckets[1].Builds = append(*buckets[1].Builds, NewBuildPlaceholder("x"))
	require.Len(t, d.NowFail, 1)
	require.Equal(t, "now-fail", buckets[1].Name)
}
