package sqlrow_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"rowmapper/mapper"
	"rowmapper/row"
	"rowmapper/sqlrow"
)

type Profile struct {
	Bio     sql.NullString `row:"bio"`
	Website *string        `row:"website"`
}

type Member struct {
	_       struct{} `row:",rename_all=snake_case"`
	ID      int64
	Name    string `row:"full_name"`
	Active  bool
	Rating  float64
	Joined  time.Time
	Avatar  []byte
	Profile Profile `row:",flatten"`
	Karma   int32   `row:",default"`
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.PingContext(ctx))

	_, err = db.ExecContext(ctx, `
CREATE TABLE members (
	id        INTEGER PRIMARY KEY,
	full_name TEXT NOT NULL,
	active    INTEGER NOT NULL,
	rating    REAL NOT NULL,
	joined    TEXT NOT NULL,
	avatar    BLOB,
	bio       TEXT,
	website   TEXT
)`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `
INSERT INTO members (id, full_name, active, rating, joined, avatar, bio, website) VALUES
	(1, 'Ada', 1, 4.5, '2024-03-01T12:00:00Z', x'0102', 'math', 'https://example.com'),
	(2, 'Bo',  0, 3,   '2024-04-02 08:30:00', NULL, NULL, NULL)`)
	require.NoError(t, err)

	return db
}

func TestQuery(t *testing.T) {
	db := openDB(t)
	m := mapper.MustNew()

	members, err := sqlrow.Query[Member](context.Background(), m, db,
		`SELECT id, full_name, active, rating, joined, avatar, bio, website FROM members ORDER BY id`)
	require.NoError(t, err)
	require.Len(t, members, 2)

	ada := members[0]
	assert.Equal(t, int64(1), ada.ID)
	assert.Equal(t, "Ada", ada.Name)
	assert.True(t, ada.Active)
	assert.InDelta(t, 4.5, ada.Rating, 1e-9)
	assert.True(t, ada.Joined.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, []byte{1, 2}, ada.Avatar)
	assert.Equal(t, sql.NullString{String: "math", Valid: true}, ada.Profile.Bio)
	require.NotNil(t, ada.Profile.Website)
	assert.Equal(t, "https://example.com", *ada.Profile.Website)
	assert.Equal(t, int32(0), ada.Karma, "karma is absent from the result set")

	bo := members[1]
	assert.False(t, bo.Active)
	assert.InDelta(t, 3.0, bo.Rating, 1e-9)
	assert.Equal(t, 2024, bo.Joined.Year())
	assert.Nil(t, bo.Avatar)
	assert.False(t, bo.Profile.Bio.Valid)
	assert.Nil(t, bo.Profile.Website)
}

func TestQuery_MatchesInMemoryRow(t *testing.T) {
	type pair struct {
		_    struct{} `row:",positional"`
		ID   int64
		Name string
	}

	db := openDB(t)
	m := mapper.MustNew()

	fromDB, err := sqlrow.QueryOne[pair](context.Background(), m, db,
		`SELECT id, full_name FROM members WHERE id = ?`, 2)
	require.NoError(t, err)

	fromMemory, err := mapper.FromRow[pair](m, row.Positional(int64(2), "Bo"))
	require.NoError(t, err)

	assert.Equal(t, fromMemory, fromDB)
}

func TestQueryOne_NoRows(t *testing.T) {
	db := openDB(t)
	m := mapper.MustNew()

	_, err := sqlrow.QueryOne[Member](context.Background(), m, db,
		`SELECT id, full_name, active, rating, joined, avatar, bio, website FROM members WHERE id = ?`, 42)
	require.Error(t, err)
	assert.True(t, sqlrow.IsNoRows(err))
}

func TestQuery_MissingColumn(t *testing.T) {
	db := openDB(t)
	m := mapper.MustNew()

	_, err := sqlrow.Query[Member](context.Background(), m, db, `SELECT id, full_name FROM members`)
	require.Error(t, err)
	assert.ErrorIs(t, err, row.ErrColumnNotFound)
	assert.Contains(t, err.Error(), "row 0")
}

func TestQuery_SchemaErrorBeforeQuery(t *testing.T) {
	type broken struct {
		C chan int
	}

	db := openDB(t)
	m := mapper.MustNew()

	_, err := sqlrow.Query[broken](context.Background(), m, db, `SELECT nonsense FROM nowhere`)
	require.Error(t, err)
	assert.ErrorIs(t, err, row.ErrUnsupportedSchema)
}

func TestQuery_BadSQL(t *testing.T) {
	db := openDB(t)

	_, err := sqlrow.Query[Member](context.Background(), mapper.MustNew(), db, `SELECT * FROM nowhere`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execute query")
}

func TestSnapshot(t *testing.T) {
	db := openDB(t)

	rows, err := db.QueryContext(context.Background(), `SELECT id, full_name, bio FROM members WHERE id = 2`)
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())

	r, err := sqlrow.Snapshot(rows)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "full_name", "bio"}, r.Columns())

	raw, ok := r.Raw("bio")
	assert.True(t, ok)
	assert.Nil(t, raw)

	var name string
	require.NoError(t, r.ScanName("full_name", &name))
	assert.Equal(t, "Bo", name)
}

func TestCollect_Tx(t *testing.T) {
	db := openDB(t)
	m := mapper.MustNew()
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `UPDATE members SET full_name = 'Bob' WHERE id = 2`)
	require.NoError(t, err)

	rows, err := tx.QueryContext(ctx, `SELECT id, full_name AS name FROM members ORDER BY id`)
	require.NoError(t, err)

	type short struct {
		ID   int64  `row:"id"`
		Name string `row:"name"`
	}

	got, err := sqlrow.Collect[short](m, rows)
	require.NoError(t, err)
	assert.Equal(t, []short{{1, "Ada"}, {2, "Bob"}}, got)
}
