package simulation

import "errors"

// ErrRejected is returned by AddRequest when no finished battery is
// available to satisfy the request.
var ErrRejected = errors.New("no finished battery available")

// ErrUnknownDrone is returned by ExchangeBattery when drone_id has no
// reservation in the requests map, and by ExchangeCompleted when drone_id
// has no exchange awaiting acknowledgment.
var ErrUnknownDrone = errors.New("unknown drone id")
