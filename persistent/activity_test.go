package persistent

import (
	"context"
	"testing"

	"github.com/noslackpact/noslack"
	"github.com/noslackpact/noslack/pgdb"
	"github.com/stretchr/testify/assert"
)

func TestActivityQueries(t *testing.T) {
	if testing.Short() {
		t.SkipNow()
		return
	}
	assert := assert.New(t)
	ctx := context.Background()

	db := pgdb.OpenTest()
	defer db.Close()
	store := ActivityStore{DB: db}

	gym, err := store.Create(ctx, noslack.Activity{
		PactId:       601,
		UserId:       1,
		Name:         "gym",
		NumberOfDays: 5,
		IsPrimary:    true,
	})
	if !assert.NoError(err) {
		return
	}
	reading, err := store.Create(ctx, noslack.Activity{
		PactId: 601,
		UserId: 1,
		Name:   "reading",
	})
	if !assert.NoError(err) {
		return
	}

	selected, err := store.ById(ctx, gym.Id)
	assert.NoError(err)
	assert.Equal("gym", selected.Name)
	assert.True(selected.IsPrimary)
	_, err = store.ById(ctx, 99999999)
	assert.ErrorIs(err, noslack.ErrActivityNotFound)

	activities, err := store.ByUserAndPact(ctx, 1, 601)
	assert.NoError(err)
	assert.Len(activities, 2)

	count, err := store.CountByUserAndPact(ctx, 1, 601)
	assert.NoError(err)
	assert.Equal(2, count)

	exists, err := store.PrimaryExists(ctx, 1, 601)
	assert.NoError(err)
	assert.True(exists)
	exists, err = store.PrimaryExists(ctx, 2, 601)
	assert.NoError(err)
	assert.False(exists)

	// Ids outside the pact are silently dropped.
	inPact, err := store.ByIdsInPact(ctx, []int64{gym.Id, reading.Id, 99999999}, 601)
	assert.NoError(err)
	assert.Len(inPact, 2)
	empty, err := store.ByIdsInPact(ctx, nil, 601)
	assert.NoError(err)
	assert.Empty(empty)
}
