package clock

import "time"

// Clock abstracts time so the ledger and assembler stay deterministic in tests.
type Clock interface {
	Now() time.Time
}

type System struct{}

func (System) Now() time.Time {
	return time.Now()
}
