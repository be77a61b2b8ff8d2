package services

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"fleet_inventory/internal/validators"
)

// newMockDB opens a GORM handle over a sqlmock connection so service
// tests can script the exact SQL conversation.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

type driverRow []driver.Value

func optionRows(rows ...driverRow) *sqlmock.Rows {
	r := sqlmock.NewRows([]string{"id", "pathway_id", "name", "is_default", "sequence", "active"})
	for _, row := range rows {
		r.AddRow(row...)
	}
	return r
}

func pathwayRow(id uint, active bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "active"}).AddRow(id, "North Corridor", active)
}

// Replacing one of two options while promoting a brand-new one: the
// engine must insert the new option unflagged, update the survivor,
// move the default, delete the orphan, and write the new toll list,
// all inside one transaction.
func TestBulkSyncReplaceAndPromote(t *testing.T) {
	db, mock := newMockDB(t)

	payload := []BulkSyncOptionInput{
		{ID: 1, Name: "Coastal", Sequence: 1, Active: true},
		{Name: "Express", IsDefault: true, Sequence: 2, Active: true, Tolls: []TollInput{
			{NodeID: 5, PassTimeMin: 4},
			{NodeID: 6, PassTimeMin: 2},
		}},
	}

	// Pathway fetch, then the two validation batch lookups.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "pathways" WHERE "pathways"."id" = $1`)).
		WillReturnRows(pathwayRow(10, true))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "pathway_options" WHERE id IN ($1)`)).
		WillReturnRows(optionRows(driverRow{1, 10, "Coastal", true, 1, true}))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id" FROM "nodes" WHERE id IN ($1,$2)`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5).AddRow(6))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_xact_lock($1)`)).
		WithArgs(pathwayLockKey(10)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "pathway_options" WHERE pathway_id = $1`)).
		WillReturnRows(optionRows(
			driverRow{1, 10, "Coastal", true, 1, true},
			driverRow{2, 10, "Inland", false, 2, true},
		))

	// 1. create Express (is_default defused until promotion)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "pathway_options"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	// 2. update Coastal's scalar fields
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "pathway_options" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// 3. move the default: clear the old holder, then set Express
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "pathway_options" SET "is_default"=$1`)).
		WithArgs(false, sqlmock.AnyArg(), 10, true, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "pathway_options" SET "is_default"=$1`)).
		WithArgs(true, sqlmock.AnyArg(), 3, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// 4. delete Inland (tolls first, then the soft delete)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "pathway_option_tolls" SET "deleted_at"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "pathway_options" SET "deleted_at"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// 5. replace Express's toll list
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "pathway_option_tolls" SET "deleted_at"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "pathway_option_tolls"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21).AddRow(22))

	// Reload of the committed aggregate.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "pathways" WHERE "pathways"."id" = $1`)).
		WillReturnRows(pathwayRow(10, true))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "pathway_options" WHERE "pathway_options"."pathway_id" = $1`)).
		WillReturnRows(optionRows(
			driverRow{1, 10, "Coastal", false, 1, true},
			driverRow{3, 10, "Express", true, 2, true},
		))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "pathway_option_tolls"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "pathway_option_id", "node_id", "sequence", "pass_time_min"}).
			AddRow(21, 3, 5, 1, 4).
			AddRow(22, 3, 6, 2, 2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "nodes"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(5, "Harbor Gate").
			AddRow(6, "Ridge Gate"))
	mock.ExpectCommit()

	svc := NewOptionSyncService(db)
	pathway, err := svc.BulkSync(context.Background(), 10, payload)
	require.NoError(t, err)

	require.Len(t, pathway.Options, 2)
	assert.Equal(t, "Coastal", pathway.Options[0].Name)
	assert.False(t, pathway.Options[0].IsDefault)

	express := pathway.Options[1]
	assert.Equal(t, "Express", express.Name)
	assert.True(t, express.IsDefault)
	require.Len(t, express.Tolls, 2)
	assert.Equal(t, uint(5), express.Tolls[0].NodeID)
	assert.Equal(t, 1, express.Tolls[0].Sequence)
	assert.Equal(t, "Harbor Gate", express.Tolls[0].Node.Name)
	assert.Equal(t, uint(6), express.Tolls[1].NodeID)
	assert.Equal(t, 2, express.Tolls[1].Sequence)
	assert.Equal(t, "Ridge Gate", express.Tolls[1].Node.Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// Dropping the default without nominating a successor is caught by the
// in-transaction guard and rolled back untouched.
func TestBulkSyncRejectsAbandonedDefault(t *testing.T) {
	db, mock := newMockDB(t)

	payload := []BulkSyncOptionInput{
		{ID: 2, Name: "Inland", Sequence: 1, Active: true},
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "pathways" WHERE "pathways"."id" = $1`)).
		WillReturnRows(pathwayRow(10, true))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "pathway_options" WHERE id IN ($1)`)).
		WillReturnRows(optionRows(driverRow{2, 10, "Inland", false, 2, true}))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_xact_lock($1)`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "pathway_options" WHERE pathway_id = $1`)).
		WillReturnRows(optionRows(
			driverRow{1, 10, "Coastal", true, 1, true},
			driverRow{2, 10, "Inland", false, 2, true},
		))
	mock.ExpectRollback()

	svc := NewOptionSyncService(db)
	_, err := svc.BulkSync(context.Background(), 10, payload)
	require.Error(t, err)

	var verr *validators.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.HasCode(validators.CodeCannotRemoveDefault))
	assert.Contains(t, verr.Error(), "Coastal")

	assert.NoError(t, mock.ExpectationsWereMet())
}

// A store failure mid-execution rolls everything back; nothing is
// retried and the error is not a validation error.
func TestBulkSyncRollsBackOnExecutionFailure(t *testing.T) {
	db, mock := newMockDB(t)

	payload := []BulkSyncOptionInput{
		{Name: "Express", Sequence: 1, Active: true},
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "pathways" WHERE "pathways"."id" = $1`)).
		WillReturnRows(pathwayRow(10, true))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_xact_lock($1)`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "pathway_options" WHERE pathway_id = $1`)).
		WillReturnRows(optionRows())
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "pathway_options"`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	svc := NewOptionSyncService(db)
	_, err := svc.BulkSync(context.Background(), 10, payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	var verr *validators.ValidationError
	assert.False(t, errors.As(err, &verr))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkSyncUnknownPathway(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "pathways" WHERE "pathways"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	svc := NewOptionSyncService(db)
	_, err := svc.BulkSync(context.Background(), 404, []BulkSyncOptionInput{{Name: "Express"}})
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

// The advisory key carries the lock class in its high 32 bits and the
// pathway id in the low 32, so a pathway always maps to one key and
// ids past the int32 range still get keys of their own.
func TestPathwayLockKey(t *testing.T) {
	assert.Equal(t, int64(pathwayOptionSyncLockClass)<<32|int64(10), pathwayLockKey(10))
	assert.Equal(t, pathwayLockKey(7), pathwayLockKey(7))
	assert.NotEqual(t, pathwayLockKey(1), pathwayLockKey(1<<31+1))
	assert.NotEqual(t, pathwayLockKey(1<<31), pathwayLockKey(1<<31+1))
}
