package service

import (
	"errors"
	"fmt"
	"testing"

	"hostel-admin/internal/util"

	"github.com/stretchr/testify/assert"
)

func TestError_Kinds(t *testing.T) {
	err := conflictf("rooms.reserve", "Room %d is full (%d/%d)", 4, 3, 3)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Room 4 is full (3/3)", Message(err))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.ErrorIs(t, wrapped, ErrConflict)
	assert.Equal(t, "Room 4 is full (3/3)", Message(wrapped))
}

func TestStoreErr(t *testing.T) {
	base := errors.New("disk I/O error")
	err := storeErr("fees.RecordPayment", base)
	assert.ErrorIs(t, err, base)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Equal(t, "internal server error", Message(err))

	kinded := notFoundf("fees.RecordPayment", "student %d not found", 9)
	assert.Same(t, kinded, storeErr("tx", kinded))
}

func TestCheckAmount(t *testing.T) {
	assert.NoError(t, checkAmount("t", "Fee", 1))
	assert.NoError(t, checkAmount("t", "Fee", util.MaxAmountCent-1))

	err := checkAmount("t", "Fee", 0)
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, util.ErrAmountNotPositive)
	assert.Equal(t, "Fee must be greater than 0", Message(err))

	err = checkAmount("t", "Price", util.MaxAmountCent)
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, util.ErrAmountTooLarge)
	assert.Equal(t, "Price must be less than 10000000.00", Message(err))
}
