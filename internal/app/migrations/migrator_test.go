package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	schema "github.com/yigit/researchdesk/migrations"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, "003", Version("003_create_research.sql"))
	assert.Equal(t, "010", Version("nested/010_x.sql"))
}

func TestPending_SortsAndFiltersSQL(t *testing.T) {
	fsys := fstest.MapFS{
		"002_b.sql": {Data: []byte("SELECT 2;")},
		"001_a.sql": {Data: []byte("SELECT 1;")},
		"README.md": {Data: []byte("notes")},
		"sub/3.sql": {Data: []byte("SELECT 3;")},
		"010_c.sql": {Data: []byte("SELECT 10;")},
	}

	files, err := Pending(fsys)

	require.NoError(t, err)
	assert.Equal(t, []string{"001_a.sql", "002_b.sql", "010_c.sql"}, files)
}

func TestEmbeddedSchema(t *testing.T) {
	files, err := Pending(schema.FS)
	require.NoError(t, err)
	require.NotEmpty(t, files)

	versions := map[string]bool{}
	for _, f := range files {
		v := Version(f)
		assert.False(t, versions[v], "duplicate migration version %s", v)
		versions[v] = true
	}
	assert.Equal(t, "001_create_users.sql", files[0])
}
