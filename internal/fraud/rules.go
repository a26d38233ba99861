package fraud

import (
	"math"
	"time"

	"github.com/wakala/fraudguard/internal/domain"
	"github.com/wakala/fraudguard/internal/geo"
)

const (
	// BehaviorWindow is how many of the most recent amounts feed the z-score.
	BehaviorWindow = 5
	// BehaviorZThreshold is the z-score above which an amount is abnormal.
	BehaviorZThreshold = 2.5
	// GeoDriftKm is the largest distance from the last accepted location that
	// is not flagged.
	GeoDriftKm = 500.0

	oddHourStart = 0
	oddHourEnd   = 4
)

// Rule names, used as metric labels.
const (
	RuleIPBlacklist        = "ip_blacklist"
	RuleRecipientBlacklist = "recipient_blacklist"
	RuleOddHour            = "odd_hour"
	RuleBehavioral         = "behavioral"
	RuleGeoDrift           = "geo_drift"
)

const (
	reasonOddHour    = "Transaction During Odd Hours (12 AM - 4 AM)"
	reasonBehavioral = "Abnormal Amount (Behavioral)"
	reasonGeoDrift   = "Geo Drift Detected"
)

// Signals is the state gathered for one card type and recipient before a
// transaction is evaluated.
type Signals struct {
	// History for the card type, oldest first, not including the transaction
	// being evaluated.
	History              []domain.Transaction
	RecipientBlacklisted bool
	// LastKnownLocation is empty when the card has no accepted transaction.
	LastKnownLocation string
}

// Verdict is the outcome of one evaluation. Rules lines up with Reasons.
type Verdict struct {
	Anomalous bool
	Reasons   []string
	Rules     []string
}

// Rules holds the static reference data the checks run against.
type Rules struct {
	blockedIPs map[string]struct{}
	locations  *geo.Table
	zone       *time.Location
}

// NewRules builds a rule set. A nil zone means time.Local and a nil table
// means geo.DefaultTable().
func NewRules(blockedIPs []string, locations *geo.Table, zone *time.Location) *Rules {
	if zone == nil {
		zone = time.Local
	}
	if locations == nil {
		locations = geo.DefaultTable()
	}
	ips := make(map[string]struct{}, len(blockedIPs))
	for _, ip := range blockedIPs {
		ips[ip] = struct{}{}
	}
	return &Rules{blockedIPs: ips, locations: locations, zone: zone}
}

// Evaluate runs every check against txn and returns it with its verdict
// filled in. It has no side effects. All checks always run so the reasons
// list is complete.
func (r *Rules) Evaluate(txn domain.Transaction, sig Signals) (domain.Transaction, Verdict) {
	v := Verdict{Reasons: []string{}}
	flag := func(rule, reason string) {
		v.Rules = append(v.Rules, rule)
		v.Reasons = append(v.Reasons, reason)
	}

	if _, ok := r.blockedIPs[txn.ClientIP]; ok {
		flag(RuleIPBlacklist, "Blacklisted IP: "+txn.ClientIP)
	}

	if sig.RecipientBlacklisted {
		flag(RuleRecipientBlacklist, "Blacklisted Recipient: "+txn.RecipientAccountNumber)
	}

	if IsOddHour(txn.Timestamp.In(r.zone)) {
		flag(RuleOddHour, reasonOddHour)
	}

	amounts := make([]float64, len(sig.History))
	for i, h := range sig.History {
		amounts[i] = h.Amount
	}
	if DetectBehavioralAnomaly(amounts, txn.Amount) {
		flag(RuleBehavioral, reasonBehavioral)
	}

	if r.DetectGeoDrift(sig.LastKnownLocation, txn.Location) {
		flag(RuleGeoDrift, reasonGeoDrift)
	}

	v.Anomalous = len(v.Reasons) > 0
	txn.Anomalous = v.Anomalous
	txn.FraudReasons = v.Reasons
	return txn, v
}

// IsOddHour reports whether t falls in [00:00, 04:00) of its own zone.
func IsOddHour(t time.Time) bool {
	h := t.Hour()
	return h >= oddHourStart && h < oddHourEnd
}

// DetectBehavioralAnomaly compares current against the last BehaviorWindow
// amounts of history using the population standard deviation. With fewer
// than two amounts, or no variance, it never flags.
func DetectBehavioralAnomaly(history []float64, current float64) bool {
	if len(history) > BehaviorWindow {
		history = history[len(history)-BehaviorWindow:]
	}
	if len(history) < 2 {
		return false
	}

	n := float64(len(history))
	var sum float64
	for _, a := range history {
		sum += a
	}
	mean := sum / n

	var sq float64
	for _, a := range history {
		sq += (a - mean) * (a - mean)
	}
	std := math.Sqrt(sq / n)
	if std == 0 {
		return false
	}

	z := math.Abs(current-mean) / std
	return z > BehaviorZThreshold
}

// DetectGeoDrift reports whether current is more than GeoDriftKm from last.
// Either name missing from the reference table means no drift.
func (r *Rules) DetectGeoDrift(last, current string) bool {
	cur, ok := r.locations.Lookup(current)
	if !ok {
		return false
	}
	prev, ok := r.locations.Lookup(last)
	if !ok {
		return false
	}
	return geo.DistanceKm(prev, cur) > GeoDriftKm
}
