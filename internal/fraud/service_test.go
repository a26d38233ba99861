package fraud

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/wakala/fraudguard/internal/domain"
	"github.com/wakala/fraudguard/internal/metrics"
	"github.com/wakala/fraudguard/internal/repository"
)

// countingBlacklist records how many times Add reached the store.
type countingBlacklist struct {
	*repository.MemoryBlacklist
	mu   sync.Mutex
	adds int
}

func (c *countingBlacklist) Add(ctx context.Context, e domain.BlacklistEntry) error {
	c.mu.Lock()
	c.adds++
	c.mu.Unlock()
	return c.MemoryBlacklist.Add(ctx, e)
}

type failingHistory struct {
	*repository.MemoryHistory
}

func (failingHistory) Append(context.Context, domain.Transaction) error {
	return fmt.Errorf("disk full: %w", repository.ErrStoreUnavailable)
}

type ServiceSuite struct {
	suite.Suite
	ctx       context.Context
	clock     time.Time
	history   *repository.MemoryHistory
	blacklist *countingBlacklist
	locations *repository.MemoryLocations
	metrics   *metrics.Metrics
	service   *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = noon
	s.history = repository.NewMemoryHistory()
	s.blacklist = &countingBlacklist{MemoryBlacklist: repository.NewMemoryBlacklist("9876543210")}
	s.locations = repository.NewMemoryLocations()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.service = s.newService(s.history)
}

func (s *ServiceSuite) newService(h repository.HistoryStore) *Service {
	return NewService(
		NewRules([]string{"203.0.113.5"}, nil, time.UTC),
		h, s.blacklist, s.locations,
		WithClock(func() time.Time { return s.clock }),
		WithDefaultPhone("+910000000000"),
		WithMetrics(s.metrics),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func (s *ServiceSuite) submission(id, location, recipient string) Submission {
	return Submission{
		Amount:                 "100",
		Currency:               "INR",
		Location:               location,
		CardType:               "visa",
		RecipientAccountNumber: recipient,
		SenderAccountNumber:    "S-1",
		TransactionID:          id,
		ClientIP:               "10.0.0.1",
	}
}

func (s *ServiceSuite) TestCleanSubmissionIsRecorded() {
	txn, err := s.service.Submit(s.ctx, s.submission("t-1", "Chennai", "R-1"))
	s.Require().NoError(err)
	s.False(txn.Anomalous)
	s.Empty(txn.FraudReasons)
	s.Equal(noon, txn.Timestamp)
	s.Equal("+910000000000", txn.Phone)

	loc, ok, _ := s.locations.Get(s.ctx, "visa")
	s.True(ok)
	s.Equal("Chennai", loc)

	latest, err := s.service.Latest(s.ctx)
	s.Require().NoError(err)
	s.Require().NotNil(latest)
	s.Equal("t-1", latest.TransactionID)

	s.Equal(1.0, testutil.ToFloat64(s.metrics.Evaluations.WithLabelValues("false")))
	s.Equal(0, s.blacklist.adds)
}

func (s *ServiceSuite) TestLastKnownLocationIgnoresFlaggedTransactions() {
	_, err := s.service.Submit(s.ctx, s.submission("t-1", "Chennai", "R-1"))
	s.Require().NoError(err)

	flagged, err := s.service.Submit(s.ctx, s.submission("t-2", "Delhi", "R-2"))
	s.Require().NoError(err)
	s.True(flagged.Anomalous)
	s.Equal([]string{"Geo Drift Detected"}, flagged.FraudReasons)

	loc, _, _ := s.locations.Get(s.ctx, "visa")
	s.Equal("Chennai", loc)

	// Bangalore is ~290 km from Chennai but ~1740 km from Delhi.
	next, err := s.service.Submit(s.ctx, s.submission("t-3", "Bangalore", "R-3"))
	s.Require().NoError(err)
	s.False(next.Anomalous)

	loc, _, _ = s.locations.Get(s.ctx, "visa")
	s.Equal("Bangalore", loc)
}

func (s *ServiceSuite) TestFlaggedRecipientIsBlacklistedOnce() {
	s.clock = at(1, 0, 0)

	first, err := s.service.Submit(s.ctx, s.submission("t-1", "Chennai", "R-9"))
	s.Require().NoError(err)
	s.Equal([]string{"Transaction During Odd Hours (12 AM - 4 AM)"}, first.FraudReasons)
	s.Equal(1, s.blacklist.adds)

	listed, _ := s.blacklist.Contains(s.ctx, "R-9")
	s.True(listed)

	second, err := s.service.Submit(s.ctx, s.submission("t-2", "Chennai", "R-9"))
	s.Require().NoError(err)
	s.Contains(second.FraudReasons, "Blacklisted Recipient: R-9")
	s.Equal(1, s.blacklist.adds)

	// Daytime traffic to the same recipient is still flagged.
	s.clock = noon
	third, err := s.service.Submit(s.ctx, s.submission("t-3", "Chennai", "R-9"))
	s.Require().NoError(err)
	s.Equal([]string{"Blacklisted Recipient: R-9"}, third.FraudReasons)
}

func (s *ServiceSuite) TestSeededBlacklistAndBlockedIP() {
	sub := s.submission("t-1", "Chennai", "9876543210")
	sub.ClientIP = "203.0.113.5"

	txn, err := s.service.Submit(s.ctx, sub)
	s.Require().NoError(err)
	s.Equal([]string{"Blacklisted IP: 203.0.113.5", "Blacklisted Recipient: 9876543210"}, txn.FraudReasons)
	s.Equal(0, s.blacklist.adds)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.FraudReasons.WithLabelValues(RuleIPBlacklist)))
}

func (s *ServiceSuite) TestBehavioralUsesCardHistory() {
	for i, amount := range []string{"100", "101", "100", "101", "100"} {
		sub := s.submission(fmt.Sprintf("h-%d", i), "Chennai", "R-1")
		sub.Amount = amount
		_, err := s.service.Submit(s.ctx, sub)
		s.Require().NoError(err)
	}

	other := s.submission("amex-1", "Chennai", "R-1")
	other.CardType = "amex"
	other.Amount = "5000"
	txn, err := s.service.Submit(s.ctx, other)
	s.Require().NoError(err)
	s.False(txn.Anomalous, "amex has no history")

	spike := s.submission("t-spike", "Chennai", "R-1")
	spike.Amount = "5000"
	txn, err = s.service.Submit(s.ctx, spike)
	s.Require().NoError(err)
	s.Equal([]string{"Abnormal Amount (Behavioral)"}, txn.FraudReasons)
}

func (s *ServiceSuite) TestValidationErrorRecordsNothing() {
	sub := s.submission("t-1", "Chennai", "R-1")
	sub.Amount = "twelve"

	_, err := s.service.Submit(s.ctx, sub)
	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Equal("amount", verr.Field)

	n, _ := s.history.Count(s.ctx)
	s.Equal(0, n)
}

func (s *ServiceSuite) TestHistoryFailureLeavesNoTrace() {
	svc := s.newService(failingHistory{MemoryHistory: s.history})
	s.clock = at(2, 0, 0)

	_, err := svc.Submit(s.ctx, s.submission("t-1", "Chennai", "R-1"))
	s.Require().Error(err)
	s.True(errors.Is(err, ErrInternal))

	_, ok, _ := s.locations.Get(s.ctx, "visa")
	s.False(ok)
	listed, _ := s.blacklist.Contains(s.ctx, "R-1")
	s.False(listed)
	s.Equal(0.0, testutil.ToFloat64(s.metrics.Evaluations.WithLabelValues("true")))
}

func (s *ServiceSuite) TestLatestWhenEmpty() {
	latest, err := s.service.Latest(s.ctx)
	s.Require().NoError(err)
	s.Nil(latest)

	txns, err := s.service.Transactions(s.ctx)
	s.Require().NoError(err)
	s.Empty(txns)
}

func (s *ServiceSuite) TestConcurrentSubmissionsForOneCard() {
	s.clock = at(1, 0, 0)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.service.Submit(s.ctx, s.submission(fmt.Sprintf("t-%d", i), "Chennai", "R-shared"))
			s.NoError(err)
		}(i)
	}
	wg.Wait()

	n, _ := s.history.Count(s.ctx)
	s.Equal(40, n)
	s.Equal(1, s.blacklist.adds)
	s.Equal(0, s.service.cards.size())
	s.Equal(0, s.service.recipients.size())
}
