package services

import (
	"context"
	"testing"

	"love-dice/internal/apperrors"
	"love-dice/internal/catalog"
	"love-dice/internal/models"
	"love-dice/internal/random"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollDareRequiresAcceptedProposal(t *testing.T) {
	f := newFixture(t, random.NewCryptoSource(), 0)
	ctx := context.Background()
	alice := f.createUser(t, "alice", models.GenderFemale)
	bob := f.createUser(t, "bob", models.GenderMale)

	pending := f.propose(t, alice, bob)
	_, err := f.dares.RollDare(ctx, pending.ID, bob.ID, "female")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	declined := f.propose(t, alice, bob)
	_, err = f.proposals.DeclineProposal(ctx, declined.ID, bob.ID)
	require.NoError(t, err)
	_, err = f.dares.RollDare(ctx, declined.ID, bob.ID, "female")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	completed := f.acceptedProposal(t, alice, bob)
	_, err = f.recaps.SubmitRecap(ctx, bob.ID, &models.SubmitRecapRequest{ProposalID: completed.ID})
	require.NoError(t, err)
	_, err = f.dares.RollDare(ctx, completed.ID, bob.ID, "female")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	_, err = f.dares.RollDare(ctx, uuid.New(), bob.ID, "female")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	rolls, err := f.dares.ListDares(ctx, completed.ID)
	require.NoError(t, err)
	assert.Empty(t, rolls)
}

func TestRollDare(t *testing.T) {
	f := newFixture(t, random.NewCryptoSource(), 0)
	ctx := context.Background()
	alice := f.createUser(t, "alice", models.GenderFemale)
	bob := f.createUser(t, "bob", models.GenderMale)
	carol := f.createUser(t, "carol", models.GenderFemale)
	p := f.acceptedProposal(t, alice, bob)

	_, err := f.dares.RollDare(ctx, p.ID, carol.ID, "female")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	cat, err := catalog.Default()
	require.NoError(t, err)

	for _, actor := range []*models.User{alice, bob} {
		roll, err := f.dares.RollDare(ctx, p.ID, actor.ID, "Female")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, roll.RollNumber, 1)
		assert.LessOrEqual(t, roll.RollNumber, 6)
		assert.Equal(t, "female", roll.GenderTag)
		assert.Equal(t, actor.ID, roll.RolledByUserID)
		assert.Equal(t, cat.Version(), roll.CatalogVersion)

		texts := make([]string, 0)
		for _, e := range cat.Pool(roll.RollNumber, "female") {
			texts = append(texts, e.DareText)
		}
		assert.Contains(t, texts, roll.DareText)
	}

	rolls, err := f.dares.ListDares(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, rolls, 2)

	_, err = f.dares.RollDare(ctx, p.ID, bob.ID, " ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestRollDareScriptedSource(t *testing.T) {
	cat, err := catalog.New("test", 6, []catalog.Entry{
		{RollNumber: 2, GenderTag: "male", DareText: "first", DateStage: "meal", Severity: "mild"},
		{RollNumber: 2, GenderTag: "male", DareText: "second", DateStage: "goodbye", Severity: "bold"},
	})
	require.NoError(t, err)

	// die index 1 -> roll 2, then pool index 1 -> "second"
	f := newFixtureWithCatalog(t, cat, random.NewSequenceSource(1, 1), 0)
	alice := f.createUser(t, "alice", models.GenderFemale)
	bob := f.createUser(t, "bob", models.GenderMale)
	p := f.acceptedProposal(t, alice, bob)

	roll, err := f.dares.RollDare(context.Background(), p.ID, alice.ID, "male")
	require.NoError(t, err)
	assert.Equal(t, 2, roll.RollNumber)
	assert.Equal(t, "second", roll.DareText)
	assert.Equal(t, "goodbye", roll.DateStage)
	assert.Equal(t, "bold", roll.Severity)
}

func TestRollDareEmptyPool(t *testing.T) {
	cat, err := catalog.New("test", 6, []catalog.Entry{
		{RollNumber: 1, GenderTag: "male", DareText: "only one"},
	})
	require.NoError(t, err)

	f := newFixtureWithCatalog(t, cat, random.NewSequenceSource(3), 0)
	ctx := context.Background()
	alice := f.createUser(t, "alice", models.GenderFemale)
	bob := f.createUser(t, "bob", models.GenderMale)
	p := f.acceptedProposal(t, alice, bob)

	_, err = f.dares.RollDare(ctx, p.ID, bob.ID, "male")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, err, &apperrors.Error{Code: apperrors.CodeDarePoolEmpty})

	rolls, err := f.dares.ListDares(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, rolls)
}

func TestRollDareLimit(t *testing.T) {
	f := newFixture(t, random.NewCryptoSource(), 2)
	ctx := context.Background()
	alice := f.createUser(t, "alice", models.GenderFemale)
	bob := f.createUser(t, "bob", models.GenderMale)
	p := f.acceptedProposal(t, alice, bob)

	for i := 0; i < 2; i++ {
		_, err := f.dares.RollDare(ctx, p.ID, bob.ID, "male")
		require.NoError(t, err)
	}

	_, err := f.dares.RollDare(ctx, p.ID, bob.ID, "male")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	assert.ErrorIs(t, err, &apperrors.Error{Code: apperrors.CodeDareRollLimit})
}

func TestRollDareDistribution(t *testing.T) {
	f := newFixture(t, random.NewSeededSource(20240214), 0)
	ctx := context.Background()
	alice := f.createUser(t, "alice", models.GenderFemale)
	bob := f.createUser(t, "bob", models.GenderMale)
	p := f.acceptedProposal(t, alice, bob)

	const trials = 1200
	counts := make(map[int]int)
	for i := 0; i < trials; i++ {
		roll, err := f.dares.RollDare(ctx, p.ID, bob.ID, "male")
		require.NoError(t, err)
		counts[roll.RollNumber]++
	}

	expected := float64(trials) / 6
	chi := 0.0
	for roll := 1; roll <= 6; roll++ {
		d := float64(counts[roll]) - expected
		chi += d * d / expected
	}
	// df=5, p=0.001
	assert.Less(t, chi, 20.515, "counts=%v", counts)
}

func TestCatalogSummary(t *testing.T) {
	f := newFixture(t, random.NewCryptoSource(), 0)

	summary := f.dares.CatalogSummary()
	assert.Equal(t, 6, summary.DieSides)
	assert.Equal(t, []string{"female", "male"}, summary.Genders)
	assert.Positive(t, summary.Entries["male"])
	assert.Positive(t, summary.Entries["female"])
}
