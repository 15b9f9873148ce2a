package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadAssignments(t *testing.T) {
	dir := t.TempDir()

	t.Run("semicolon separated subjects", func(t *testing.T) {
		p := writeCSV(t, dir, "book.csv",
			"owner_id,owner_name,owner_contact,subject_ids,region\n"+
				"OWN-1,Jordan Li,jordan@example.com,SUBJ-1;SUBJ-2,EMEA\n"+
				"OWN-2,Sam Ortiz,sam@example.com,SUBJ-3,AMER\n")

		got, err := LoadAssignments(p)
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "OWN-1", got[0].OwnerID)
		require.Equal(t, "Jordan Li", got[0].OwnerName)
		require.Equal(t, []string{"SUBJ-1", "SUBJ-2"}, got[0].SubjectIDs)
		require.Equal(t, "AMER", got[1].Region)
	})

	t.Run("json array subjects", func(t *testing.T) {
		p := writeCSV(t, dir, "json.csv",
			"owner_id,subject_ids\n"+
				`OWN-1,"[""SUBJ-1"",""SUBJ-2""]"`+"\n")

		got, err := LoadAssignments(p)
		require.NoError(t, err)
		require.Equal(t, []string{"SUBJ-1", "SUBJ-2"}, got[0].SubjectIDs)
	})

	t.Run("optional columns may be absent", func(t *testing.T) {
		p := writeCSV(t, dir, "minimal.csv",
			"owner_id,subject_ids\nOWN-1,SUBJ-1\n")

		got, err := LoadAssignments(p)
		require.NoError(t, err)
		require.Empty(t, got[0].OwnerName)
		require.Empty(t, got[0].Region)
	})

	t.Run("missing owner_id is an error", func(t *testing.T) {
		p := writeCSV(t, dir, "noowner.csv",
			"owner_id,subject_ids\n,SUBJ-1\n")

		_, err := LoadAssignments(p)
		require.ErrorContains(t, err, "missing owner_id")
	})

	t.Run("missing subject_ids is an error", func(t *testing.T) {
		p := writeCSV(t, dir, "nosubjects.csv",
			"owner_id,subject_ids\nOWN-1,\n")

		_, err := LoadAssignments(p)
		require.ErrorContains(t, err, "missing subject_ids")
	})

	t.Run("ragged row is an error", func(t *testing.T) {
		p := writeCSV(t, dir, "ragged.csv",
			"owner_id,subject_ids,region\nOWN-1,SUBJ-1\n")

		_, err := LoadAssignments(p)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadAssignments(filepath.Join(dir, "nope.csv"))
		require.ErrorContains(t, err, "open")
	})

	t.Run("headers only yields no assignments", func(t *testing.T) {
		p := writeCSV(t, dir, "empty.csv", "owner_id,subject_ids\n")

		got, err := LoadAssignments(p)
		require.NoError(t, err)
		require.Empty(t, got)
	})
}
