package registry

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCreatesSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS peers").
		WillReturnResult(sqlmock.NewResult(0, 0))

	r := NewWithDB(db, nil)
	require.NoError(t, r.Init(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertPeer(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("INSERT INTO peers").
		WithArgs("http://node-1.example.org", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	r := NewWithDB(db, nil)
	require.NoError(t, r.UpsertPeer(context.Background(), "http://node-1.example.org"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertPeerRejectsEmptyURL(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	r := NewWithDB(db, nil)
	assert.Error(t, r.UpsertPeer(context.Background(), ""))
}

func TestMarkErrored(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("UPDATE peers SET last_errored").
		WithArgs(sqlmock.AnyArg(), "http://node-1.example.org").
		WillReturnResult(sqlmock.NewResult(0, 1))

	r := NewWithDB(db, nil)
	require.NoError(t, r.MarkErrored(context.Background(), "http://node-1.example.org"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPeers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	seen := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	errored := seen.Add(time.Hour)

	rows := sqlmock.NewRows([]string{"url", "last_seen", "last_errored"}).
		AddRow("http://node-1.example.org", seen, errored).
		AddRow("http://node-2.example.org", seen, nil)
	mock.ExpectQuery("SELECT url, last_seen, last_errored FROM peers").
		WillReturnRows(rows)

	r := NewWithDB(db, nil)
	peers, err := r.ListPeers(context.Background())
	require.NoError(t, err)

	require.Len(t, peers, 2)
	assert.Equal(t, "http://node-1.example.org", peers[0].URL)
	require.NotNil(t, peers[0].LastErrored)
	assert.Equal(t, errored, *peers[0].LastErrored)
	assert.Nil(t, peers[1].LastErrored)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPeersQueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT url, last_seen, last_errored FROM peers").
		WillReturnError(assert.AnError)

	r := NewWithDB(db, nil)
	_, err = r.ListPeers(context.Background())
	assert.Error(t, err)
}
