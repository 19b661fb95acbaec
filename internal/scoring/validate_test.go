package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"scrape-validator/internal/model"
)

func TestValidateClean(t *testing.T) {
	v := Validate(model.Submission{tweet("a", "1", "hi"), tweet("a", "2", "there")})
	require.False(t, v.FormatFault)
	require.False(t, v.FakeFault)
	require.Empty(t, v.Faults)
	require.Len(t, v.SeenIDs, 2)
}

func TestValidateEmptyAndNil(t *testing.T) {
	for _, sub := range []model.Submission{nil, {}} {
		v := Validate(sub)
		require.False(t, v.FormatFault)
		require.False(t, v.FakeFault)
		require.Empty(t, v.SeenIDs)
	}
}

func TestValidateFormatFaults(t *testing.T) {
	noText := tweet("a", "1", "")
	noTime := tweet("a", "2", "x")
	noTime.Timestamp = ""
	badTime := tweet("a", "3", "x")
	badTime.Timestamp = "last tuesday"

	v := Validate(model.Submission{noText, noTime, badTime})
	require.True(t, v.FormatFault)
	require.False(t, v.FakeFault)
	require.Len(t, v.Faults, 3)
	for _, f := range v.Faults {
		require.ErrorIs(t, f, ErrFormat)
	}
	require.Equal(t, []int{0, 1, 2}, []int{v.Faults[0].Item, v.Faults[1].Item, v.Faults[2].Item})
}

func TestValidateDuplicateID(t *testing.T) {
	v := Validate(model.Submission{tweet("a", "1", "x"), tweet("b", "2", "y"), tweet("a", "1", "x")})
	require.True(t, v.FakeFault)
	require.Len(t, v.Faults, 1)
	require.Equal(t, 2, v.Faults[0].Item)
	require.True(t, errors.Is(v.Faults[0], ErrAuthenticity))
}

func TestValidateProvenance(t *testing.T) {
	tests := []struct {
		name string
		url  string
		ok   bool
	}{
		{name: "final segment", url: "https://x.com/a/status/123", ok: true},
		{name: "trailing slash", url: "https://x.com/a/status/123/", ok: true},
		{name: "query string", url: "https://twitter.com/a/status/123?s=20", ok: true},
		{name: "id missing", url: "https://x.com/a/status/999", ok: false},
		{name: "id not last", url: "https://x.com/a/status/123/photo/1", ok: false},
		{name: "id only as prefix", url: "https://x.com/a/status/1234", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := tweet("a", "123", "x")
			it.URL = tt.url
			v := Validate(model.Submission{it})
			require.Equal(t, !tt.ok, v.FakeFault)
		})
	}
}

func TestValidateCollectsEveryFault(t *testing.T) {
	bad := tweet("a", "1", "")
	bad.URL = "https://x.com/a/status/2"
	v := Validate(model.Submission{bad, tweet("a", "1", "")})
	require.True(t, v.FormatFault)
	require.True(t, v.FakeFault)
	// item 0: text + provenance, item 1: text + duplicate
	require.Len(t, v.Faults, 4)
}

func TestNovelty(t *testing.T) {
	round := model.Round{Submissions: []model.Submission{
		{tweet("a", "1", "x"), tweet("a", "2", "y")},
		{tweet("a", "1", "x"), tweet("a", "2", "y")},
		{tweet("a", "1", "x"), tweet("b", "3", "z")},
		nil,
	}}
	counts := CountOccurrences(round)
	require.Equal(t, map[string]int{"1": 3, "2": 2, "3": 1}, counts)
	require.Equal(t, 3, SharedCount(round.Submissions[0], counts))
	require.Equal(t, 3, SharedCount(round.Submissions[1], counts))
	require.Equal(t, 2, SharedCount(round.Submissions[2], counts))
	require.Equal(t, 0, SharedCount(round.Submissions[3], counts))
}
