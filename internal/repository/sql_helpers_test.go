package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	teamchat_errors "teamchat/pkg/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestDriverErrorClassification(t *testing.T) {
	wrapped := fmt.Errorf("tx error: %w", &pgconn.PgError{Code: "40001"})
	assert.True(t, isSerializationFailure(wrapped))
	assert.True(t, isSerializationFailure(&pgconn.PgError{Code: "40P01"}))
	assert.False(t, isSerializationFailure(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isSerializationFailure(errors.New("boom")))

	assert.ErrorIs(t, mapWriteError(&pgconn.PgError{Code: "23505"}), teamchat_errors.ErrAlreadyExists)
}

func TestWithTxRejectsUnknownHandles(t *testing.T) {
	err := WithTx(context.Background(), nil, func(DBTX) error { return nil })
	assert.Error(t, err)
}
