package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockSquadRepo(t *testing.T) (SquadRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	return NewSquadRepository(db), mock
}

func TestFindByInviteCode_QueriesByCode(t *testing.T) {
	repo, mock := setupMockSquadRepo(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "invite_code", "created_at", "updated_at"}).
		AddRow(int64(5), "CS Squad", "ABCD-EFGH-IJKL", now, now)

	mock.ExpectQuery(`SELECT \* FROM "squads" WHERE invite_code = \$1`).
		WithArgs("ABCD-EFGH-IJKL", 1).
		WillReturnRows(rows)

	squad, err := repo.FindByInviteCode("ABCD-EFGH-IJKL")
	require.NoError(t, err)
	require.EqualValues(t, 5, squad.ID)
	require.Equal(t, "CS Squad", squad.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByInviteCode_NotFound(t *testing.T) {
	repo, mock := setupMockSquadRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "squads" WHERE invite_code = \$1`).
		WithArgs("WRONG-CODE-HERE", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByInviteCode("WRONG-CODE-HERE")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
