package services

import (
	"context"
	"testing"

	"love-dice/internal/catalog"
	"love-dice/internal/database"
	"love-dice/internal/models"
	"love-dice/internal/random"
	"love-dice/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// :memory: is private to a connection, so pin the pool to one.
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db), "failed to migrate database")
	return db
}

type fixture struct {
	db        *gorm.DB
	repo      *repository.Repository
	proposals *ProposalService
	bets      *BetService
	dares     *DareService
	recaps    *RecapService
	users     *UserService
}

func newFixture(t *testing.T, src random.Source, maxRolls int) *fixture {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return newFixtureWithCatalog(t, cat, src, maxRolls)
}

func newFixtureWithCatalog(t *testing.T, cat *catalog.Catalog, src random.Source, maxRolls int) *fixture {
	t.Helper()
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	log := zaptest.NewLogger(t)

	return &fixture{
		db:        db,
		repo:      repo,
		proposals: NewProposalService(repo, log),
		bets:      NewBetService(repo, log),
		dares:     NewDareService(repo, cat, src, maxRolls, log),
		recaps:    NewRecapService(repo, log),
		users:     NewUserService(repo),
	}
}

func (f *fixture) createUser(t *testing.T, username string, gender models.Gender) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		Gender:       gender,
		PasswordHash: "unused",
	}
	require.NoError(t, f.repo.CreateUser(context.Background(), user))
	return user
}

func (f *fixture) propose(t *testing.T, proposer, target *models.User) *models.Proposal {
	t.Helper()
	p, err := f.proposals.CreateProposal(context.Background(), proposer.ID, &models.CreateProposalRequest{
		TargetUsername:    target.Username,
		ProposedMatchName: "Charlie",
		Stakes:            "coffee",
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) acceptedProposal(t *testing.T, proposer, target *models.User) *models.Proposal {
	t.Helper()
	p := f.propose(t, proposer, target)
	p, err := f.proposals.AcceptProposal(context.Background(), p.ID, target.ID)
	require.NoError(t, err)
	return p
}

func (f *fixture) placeBet(t *testing.T, proposalID uuid.UUID, creator *models.User, hidden bool) *models.Bet {
	t.Helper()
	bet, err := f.bets.PlaceBet(context.Background(), creator.ID, &models.PlaceBetRequest{
		ProposalID:     proposalID,
		BetDescription: "I bet they kiss",
		Stake:          "ice cream",
		IsHidden:       hidden,
	})
	require.NoError(t, err)
	return bet
}
