package warehouse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSubjectIDs(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"json array", `["SUBJ-1","SUBJ-2"]`, []string{"SUBJ-1", "SUBJ-2"}},
		{"json array with blanks", `["SUBJ-1","","  "]`, []string{"SUBJ-1"}},
		{"legacy comma separated", "SUBJ-1,SUBJ-2, SUBJ-3", []string{"SUBJ-1", "SUBJ-2", "SUBJ-3"}},
		{"single bare value", "SUBJ-1", []string{"SUBJ-1"}},
		{"empty string", "", nil},
		{"whitespace only", "   ", nil},
		{"json but not a string array", `{"nope": true}`, []string{`{"nope": true}`}},
		{"trailing commas", "SUBJ-1,,", []string{"SUBJ-1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, parseSubjectIDs(tc.raw))
		})
	}
}
