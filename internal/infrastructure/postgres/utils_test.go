package postgres

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}
	assert.True(t, isUniqueViolation(dup))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", dup)))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("23505 en el texto no cuenta")))
}

func TestNullHelpers(t *testing.T) {
	empty := ""
	prensa := "Prensa"
	assert.Nil(t, nullIfEmpty(nil))
	assert.Nil(t, nullIfEmpty(&empty))
	assert.Equal(t, "Prensa", nullIfEmpty(&prensa))

	assert.False(t, nullDecimal(nil).Valid)
	v := decimal.RequireFromString("10.50")
	nd := nullDecimal(&v)
	assert.True(t, nd.Valid)
	assert.True(t, v.Equal(nd.Decimal))
}

func TestSchemaIdempotente(t *testing.T) {
	for _, stmt := range schema {
		assert.True(t,
			strings.Contains(stmt, "IF NOT EXISTS"),
			"cada sentencia debe poder reaplicarse: %s", stmt)
	}
}
