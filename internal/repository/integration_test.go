//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/wakala/fraudguard/internal/domain"
)

type BackingStoresSuite struct {
	suite.Suite
	ctx        context.Context
	containers []testcontainers.Container
	db         *DB
	redisURL   string
}

func TestBackingStoresSuite(t *testing.T) {
	suite.Run(t, new(BackingStoresSuite))
}

func (s *BackingStoresSuite) SetupSuite() {
	s.ctx = context.Background()

	pg, err := tcpostgres.Run(s.ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("fraudguard"),
		tcpostgres.WithUsername("fraudguard"),
		tcpostgres.WithPassword("fraudguard"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err, "start postgres container")
	s.containers = append(s.containers, pg)

	dsn, err := pg.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.db, err = InitDB(DialectPostgres, dsn)
	s.Require().NoError(err)

	rc, err := tcredis.Run(s.ctx, "redis:7-alpine")
	s.Require().NoError(err, "start redis container")
	s.containers = append(s.containers, rc)

	s.redisURL, err = rc.ConnectionString(s.ctx)
	s.Require().NoError(err)
}

func (s *BackingStoresSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	for _, c := range s.containers {
		_ = c.Terminate(s.ctx)
	}
}

func (s *BackingStoresSuite) SetupTest() {
	_, err := s.db.ExecContext(s.ctx, "TRUNCATE transactions, blacklist")
	s.Require().NoError(err)
}

func (s *BackingStoresSuite) TestPostgresHistoryRoundTrip() {
	repo := NewTransactionRepo(s.db)
	ts := time.Date(2026, 2, 2, 3, 4, 5, 600000000, time.UTC)

	_, err := repo.BulkAppend(s.ctx, []domain.Transaction{
		{TransactionID: "a", CardType: "visa", Amount: 10},
		{TransactionID: "b", CardType: "amex", Amount: 20},
	})
	s.Require().NoError(err)

	txn := domain.Transaction{
		TransactionID: "c",
		CardType:      "visa",
		Amount:        30.5,
		Timestamp:     ts,
		Anomalous:     true,
		FraudReasons:  []string{"Geo Drift Detected"},
	}
	s.Require().NoError(repo.Append(s.ctx, txn))

	got, err := repo.Query(s.ctx, "visa")
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	last := got[len(got)-1]
	s.Equal(30.5, last.Amount)
	s.True(ts.Equal(last.Timestamp))
	s.Equal(txn.FraudReasons, last.FraudReasons)

	n, err := repo.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, n)
}

func (s *BackingStoresSuite) TestPostgresBlacklist() {
	repo := NewBlacklistRepo(s.db)
	entry := domain.BlacklistEntry{Value: "ACC-1", Reason: []string{"Abnormal Amount (Behavioral)"}, Timestamp: time.Now()}

	s.Require().NoError(repo.Add(s.ctx, entry))
	s.Require().NoError(repo.Add(s.ctx, entry))

	ok, err := repo.Contains(s.ctx, "ACC-1")
	s.Require().NoError(err)
	s.True(ok)

	rows, err := repo.entriesFor(s.ctx, "ACC-1")
	s.Require().NoError(err)
	s.Len(rows, 2)
	s.Equal(domain.BlacklistTypeAccount, rows[0].Type)
}

func (s *BackingStoresSuite) TestRedisLocations() {
	client, err := OpenRedis(s.ctx, s.redisURL)
	s.Require().NoError(err)
	s.Require().NotNil(client)
	defer client.Close()
	s.Require().NoError(client.FlushAll(s.ctx).Err())

	locs := NewRedisLocations(client)

	_, ok, err := locs.Get(s.ctx, "visa")
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(locs.Set(s.ctx, "visa", "Chennai"))
	loc, ok, err := locs.Get(s.ctx, "visa")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("Chennai", loc)
}

func (s *BackingStoresSuite) TestOpenRedisWithoutURL() {
	client, err := OpenRedis(s.ctx, "")
	s.NoError(err)
	s.Nil(client)
}
