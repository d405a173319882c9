package repo

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

const selectResultForUpdate = `SELECT id, market_name, to_char(result_date,'YYYY-MM-DD'), COALESCE(open_result,''), COALESCE(close_result,''), status FROM results`

func resultRow(open, close, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "market_name", "result_date", "open_result", "close_result", "status"}).
		AddRow("res-1", "Kalyan Morning", "2025-04-01", open, close, status)
}

func TestDeclareResultPersistsNumbers(t *testing.T) {
	p, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectResultForUpdate)).
		WithArgs("res-1").
		WillReturnRows(resultRow("", "", StatusPending))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE results`)).
		WithArgs("123", "456", "res-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r, err := p.DeclareResult(context.Background(), "res-1", "123", "456")
	assert.NoError(t, err)
	assert.Equal(t, "Kalyan Morning", r.MarketName)
	assert.Equal(t, "123", r.OpenResult)
	assert.Equal(t, "declared", r.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeclareResultAmendmentFillsMissingClose(t *testing.T) {
	p, mock := newMock(t)

	// abertura declarada de manhã; a emenda da noite preenche só o fechamento
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectResultForUpdate)).
		WithArgs("res-1").
		WillReturnRows(resultRow("123", "", "declared"))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE results`)).
		WithArgs("123", "456", "res-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r, err := p.DeclareResult(context.Background(), "res-1", "", "456")
	assert.NoError(t, err)
	assert.Equal(t, "123", r.OpenResult)
	assert.Equal(t, "456", r.CloseResult)
	assert.Equal(t, "declared", r.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeclareResultCannotChangeDeclaredNumber(t *testing.T) {
	p, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectResultForUpdate)).
		WithArgs("res-1").
		WillReturnRows(resultRow("123", "", "declared"))
	mock.ExpectRollback()

	_, err := p.DeclareResult(context.Background(), "res-1", "789", "")
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeclareResultFullyDeclaredIsConflict(t *testing.T) {
	p, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectResultForUpdate)).
		WithArgs("res-1").
		WillReturnRows(resultRow("123", "456", "declared"))
	mock.ExpectRollback()

	_, err := p.DeclareResult(context.Background(), "res-1", "123", "456")
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeclareResultUnknownID(t *testing.T) {
	p, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectResultForUpdate)).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id", "market_name", "result_date", "open_result", "close_result", "status"}))
	mock.ExpectRollback()

	_, err := p.DeclareResult(context.Background(), "nope", "123", "")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
