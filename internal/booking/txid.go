package booking

import (
	"fmt"
	"time"
)

// TransactionID formats the timestamp-derived identifier shown to the
// supplier (and encoded into the ticket QR code by the client):
// "T" + 2-digit day + 2-digit month + 4-digit year + 2-digit hour +
// 2-digit minute + 2-digit second + 3-digit millisecond.
//
// The value is only as unique as the clock reading; the engine makes it
// collision-safe by committing it under a unique key in the same atomic
// step that allocates the token number, retrying with a fresh clock
// reading when two allocations land on the same millisecond.
func TransactionID(now time.Time) string {
	return fmt.Sprintf("T%02d%02d%04d%02d%02d%02d%03d",
		now.Day(), int(now.Month()), now.Year(),
		now.Hour(), now.Minute(), now.Second(),
		now.Nanosecond()/int(time.Millisecond),
	)
}
