package model

// Family identifies one of the two BGP unicast address families a peer can
// carry a prefix limit for.
type Family int

const (
	IPv4 Family = iota + 1
	IPv6
)

// Keyword returns the Junos family keyword used in configuration statements.
func (f Family) Keyword() string {
	if f == IPv6 {
		return "inet6"
	}
	return "inet"
}

func (f Family) String() string {
	if f == IPv6 {
		return "v6"
	}
	return "v4"
}
