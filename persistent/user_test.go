package persistent

import (
	"context"
	"testing"

	"github.com/noslackpact/noslack"
	"github.com/noslackpact/noslack/pgdb"
	"github.com/stretchr/testify/assert"
)

func TestRegisterUser(t *testing.T) {
	if testing.Short() {
		t.SkipNow()
		return
	}
	assert := assert.New(t)
	ctx := context.Background()

	db := pgdb.OpenTest()
	defer db.Close()
	store := UserStore{DB: db}

	user, err := store.Register(ctx, noslack.User{
		Email: "makin@register.test",
		Name:  "Makin",
		Phone: "+48123123123",
	})
	if !assert.NoError(err) {
		return
	}
	assert.NotZero(user.Id)
	assert.Nil(user.PactDetails)

	// Same email registers as the same user, new details ignored.
	again, err := store.Register(ctx, noslack.User{
		Email: "makin@register.test",
		Name:  "Impostor",
		Phone: "+48000000000",
	})
	if !assert.NoError(err) {
		return
	}
	assert.Equal(user.Id, again.Id)
	assert.Equal("Makin", again.Name)

	selected, err := store.ById(ctx, user.Id)
	assert.NoError(err)
	assert.Equal(again, selected)
}

func TestUserById(t *testing.T) {
	if testing.Short() {
		t.SkipNow()
		return
	}
	assert := assert.New(t)
	ctx := context.Background()

	db := pgdb.OpenTest()
	defer db.Close()
	store := UserStore{DB: db}

	_, err := store.ById(ctx, 99999999)
	assert.ErrorIs(err, noslack.ErrUserNotFound)
}

func TestSetPactDetails(t *testing.T) {
	if testing.Short() {
		t.SkipNow()
		return
	}
	assert := assert.New(t)
	ctx := context.Background()

	db := pgdb.OpenTest()
	defer db.Close()
	store := UserStore{DB: db}

	user, err := store.Register(ctx, noslack.User{
		Email: "makin@details.test",
		Name:  "Makin",
		Phone: "+48123123123",
	})
	if !assert.NoError(err) {
		return
	}

	err = store.SetPactDetails(ctx, user.Id, noslack.PactDetails{
		PactId:            3,
		PrimaryActivityId: 7,
	})
	assert.NoError(err)

	selected, err := store.ById(ctx, user.Id)
	assert.NoError(err)
	if assert.NotNil(selected.PactDetails) {
		assert.Equal(int64(3), selected.PactDetails.PactId)
		assert.Equal(int64(7), selected.PactDetails.PrimaryActivityId)
		assert.Zero(selected.PactDetails.SecondaryActivityId)
	}

	err = store.SetPactDetails(ctx, 99999999, noslack.PactDetails{PactId: 3})
	assert.ErrorIs(err, noslack.ErrUserNotFound)
}

func TestUsersByIds(t *testing.T) {
	if testing.Short() {
		t.SkipNow()
		return
	}
	assert := assert.New(t)
	ctx := context.Background()

	db := pgdb.OpenTest()
	defer db.Close()
	store := UserStore{DB: db}

	first, err := store.Register(ctx, noslack.User{
		Email: "pierwszy@byids.test", Name: "Pierwszy", Phone: "+48100100100",
	})
	assert.NoError(err)
	second, err := store.Register(ctx, noslack.User{
		Email: "drugi@byids.test", Name: "Drugi", Phone: "+48200200200",
	})
	assert.NoError(err)

	users, err := store.ByIds(ctx, []noslack.UserId{first.Id, second.Id, 99999999})
	assert.NoError(err)
	assert.Len(users, 2)

	empty, err := store.ByIds(ctx, nil)
	assert.NoError(err)
	assert.Empty(empty)
}
