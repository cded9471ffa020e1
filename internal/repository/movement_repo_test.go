package repository

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/artmorais77/backend-orise/internal/model"
)

func TestSumAmountsSkipsSuperseded(t *testing.T) {
	movs := []model.CashMovement{
		{Amount: decimal.NewFromInt(100)},
		{Amount: decimal.NewFromFloat(25.50)},
		{Amount: decimal.NewFromInt(30), Superseded: true},
		{Amount: decimal.NewFromFloat(0.01)},
	}

	assert.Equal(t, "125.51", SumAmounts(movs).String())
}

func TestSumAmountsEmpty(t *testing.T) {
	assert.True(t, SumAmounts(nil).IsZero())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "uni_cash_registers_open_store" (SQLSTATE 23505)`)))
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(gorm.ErrRecordNotFound))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(gorm.ErrRecordNotFound))
	assert.False(t, IsNotFound(errors.New("connection refused")))
	assert.False(t, IsNotFound(nil))
}
