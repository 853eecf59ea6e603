package history

import (
	"os"
	"path/filepath"
	"testing"

	"svcs/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	log := NewLog(path, nil)

	entries, err := log.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, log.Append(Entry{CommitID: "id1", Author: "Alice", Message: "first"}))
	require.NoError(t, log.Append(Entry{CommitID: "id2", Author: "Alice", Message: "second one"}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id1/Alice/first\nid2/Alice/second one", string(raw))

	entries, err = log.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{CommitID: "id1", Author: "Alice", Message: "first"},
		{CommitID: "id2", Author: "Alice", Message: "second one"},
	}, entries)

	newest := Newest(entries)
	assert.Equal(t, "id2", newest[0].CommitID)
	assert.Equal(t, "id1", newest[1].CommitID)
	assert.Equal(t, "id1", entries[0].CommitID, "Newest must not reorder its input")
}

func TestAppendRejectsUnreadableFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	log := NewLog(path, nil)

	tests := []Entry{
		{CommitID: "id", Author: "Alice", Message: "a/b"},
		{CommitID: "id", Author: "A/B", Message: "m"},
		{CommitID: "id", Author: "Alice", Message: "two\nlines"},
	}
	for _, e := range tests {
		err := log.Append(e)
		assert.True(t, errors.IsType(err, errors.ErrorTypeValidation), "entry %+v", e)
	}

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestReadAllMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	require.NoError(t, os.WriteFile(path, []byte("id1/Alice/ok\nid2/Alice/a/b"), 0644))

	_, err := NewLog(path, nil).ReadAll()
	var malformed *MalformedEntryError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 2, malformed.Line)
	assert.Equal(t, 4, malformed.Fields)
}

func TestReadAllEmptyAuthor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	log := NewLog(path, nil)
	require.NoError(t, log.Append(Entry{CommitID: "id1", Message: "anonymous"}))

	entries, err := log.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []Entry{{CommitID: "id1", Message: "anonymous"}}, entries)
}
