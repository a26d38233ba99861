package domain

import "time"

// BlacklistTypeAccount marks an entry that bars a recipient account.
const BlacklistTypeAccount = "account"

type BlacklistEntry struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Value     string    `json:"value"`
	Reason    []string  `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}
