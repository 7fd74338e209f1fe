package model

// Request reserves a finished battery for a drone and holds the depleted
// battery it will hand back on exchange.
type Request struct {
	DroneID         string
	ChargedBattery  *Battery
	NewBattery      *Battery
	DeltaETASeconds int
	// Force records the drone-side "force" flag of the request. It is
	// stored only; AddRequest does not use it to bypass the availability
	// check.
	Force bool
}
