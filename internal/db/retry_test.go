package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestWithRetries_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := WithRetries(func() error {
		calls++
		return nil
	}, 3, func(err error) bool { return true })

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetries_RetriesOnDuplicateKey(t *testing.T) {
	calls := 0
	err := WithRetries(func() error {
		calls++
		if calls < 3 {
			return errors.New("duplicate")
		}
		return nil
	}, 3, func(err error) bool { return true })

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetries_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	dupErr := errors.New("duplicate")
	err := WithRetries(func() error {
		calls++
		return dupErr
	}, 2, func(err error) bool { return true })

	assert.ErrorIs(t, err, dupErr)
	assert.Equal(t, 3, calls) // initial attempt + 2 retries
}

func TestWithRetries_NonRetryableFailsImmediately(t *testing.T) {
	calls := 0
	boom := errors.New("connection reset")
	err := WithRetries(func() error {
		calls++
		return boom
	}, 3, func(err error) bool { return false })

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestIsMongoDuplicateKeyError(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
	assert.True(t, IsMongoDuplicateKeyError(dup))

	other := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 121}}}
	assert.False(t, IsMongoDuplicateKeyError(other))

	assert.False(t, IsMongoDuplicateKeyError(errors.New("plain error")))
}
