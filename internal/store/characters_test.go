package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/maskarada/internal/apperr"
	"github.com/erazemk/maskarada/internal/db"
	"github.com/erazemk/maskarada/internal/model"
)

func TestCreateCharacterOpensPersonalAccount(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "player1", "hash", model.RolePlayer)
	require.NoError(t, err)

	c, err := CreateCharacter(ctx, database, "Vlad", &user.ID)
	require.NoError(t, err)
	assert.True(t, c.ControlledBy(user.ID))
	assert.Empty(t, c.Traits)

	acct, err := GetPersonalAccount(ctx, database, c.ID)
	require.NoError(t, err)
	require.NotNil(t, acct)
	assert.Zero(t, acct.Balance)
	assert.Nil(t, acct.CompanyID)

	// A second personal account is refused.
	_, err = CreateAccount(ctx, database, c.ID, nil)
	assert.Equal(t, apperr.CodeDuplicate, apperr.GetCode(err))

	mine, err := ListCharacters(ctx, database, &user.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestCharacterTraits(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	c := newCharacter(t, database, "Vlad")

	require.NoError(t, AddTrait(ctx, database, c.ID, model.Trait{Kind: model.TraitClan, Name: "Tremere"}))
	require.NoError(t, AddTrait(ctx, database, c.ID, model.Trait{Kind: model.TraitClan, Name: "Ventrue"}))
	require.NoError(t, AddTrait(ctx, database, c.ID, model.Trait{Kind: model.TraitAbility, Name: "Dominate"}))
	require.NoError(t, AddTrait(ctx, database, c.ID, model.Trait{Kind: model.TraitAbility, Name: "Auspex"}))

	got, err := GetCharacter(ctx, database, c.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []model.Trait{
		{Kind: model.TraitClan, Name: "Ventrue"},
		{Kind: model.TraitAbility, Name: "Dominate"},
		{Kind: model.TraitAbility, Name: "Auspex"},
	}, got.Traits)

	require.NoError(t, RemoveTrait(ctx, database, c.ID, model.Trait{Kind: model.TraitAbility, Name: "Auspex"}))
	traits, err := ListTraits(ctx, database, c.ID)
	require.NoError(t, err)
	assert.Len(t, traits, 2)

	err = AddTrait(ctx, database, 9999, model.Trait{Kind: model.TraitFeature, Name: "Scar"})
	assert.Equal(t, apperr.CodeCharacterNotFound, apperr.GetCode(err))
}

func TestDeleteCharacter(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	c := newCharacter(t, database, "Ghoul")
	require.NoError(t, DeleteCharacter(ctx, database, c.ID))

	got, err := GetCharacter(ctx, database, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	err = DeleteCharacter(ctx, database, c.ID)
	assert.Equal(t, apperr.CodeCharacterNotFound, apperr.GetCode(err))
}

func TestCompanies(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	c := newCharacter(t, database, "Vlad")
	company, err := CreateCompany(ctx, database, model.Company{Name: "Blood Bank", CharacterID: c.ID, IsVisible: true})
	require.NoError(t, err)
	assert.Equal(t, 1, company.Level)

	company.IsVisible = false
	company.Level = 3
	require.NoError(t, UpdateCompany(ctx, database, *company))

	visible, err := ListCompanies(ctx, database, 0, true)
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := ListCompanies(ctx, database, c.ID, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 3, all[0].Level)

	_, err = CreateCompany(ctx, database, model.Company{Name: "Ghost", CharacterID: 9999})
	assert.Equal(t, apperr.CodeCharacterNotFound, apperr.GetCode(err))
}
