package domain

import "time"

// User is a challenge participant. Users are never deleted; leaving the
// challenge only clears Active so the sleep history survives a rejoin.
type User struct {
	ID          int64
	DisplayName string
	Timezone    string // IANA zone name, validated at enrollment
	TargetTime  string // goal bedtime, HH:MM
	Active      bool
	JoinedAt    time.Time // UTC
}
