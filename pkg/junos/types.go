// Package junos retrieves and parses the BGP stanza of a Juniper router
// configuration and extracts per-peer prefix-limit records from it.
package junos

import "encoding/json"

// Junos renders configuration JSON with every child wrapped in a one-element
// array and scalar values boxed as {"data": "..."}. The types below mirror
// exactly the slice of that tree this tool reads:
//
//	configuration[0].protocols[0].bgp[0].group[].family[0].inet[0].
//	    unicast[0].prefix-limit[0].maximum[0].data
type Document struct {
	Configuration []Configuration `json:"configuration"`
}

type Configuration struct {
	Protocols []Protocols `json:"protocols"`
}

type Protocols struct {
	BGP []BGP `json:"bgp"`
}

type BGP struct {
	Groups []Group `json:"group"`
}

// Group is one BGP peer group. A group with no family block carries no
// prefix limit and is skipped during extraction.
type Group struct {
	Name   Leaf          `json:"name"`
	PeerAS []Leaf        `json:"peer-as"`
	Family []FamilyBlock `json:"family"`
}

// FamilyBlock holds whichever address-family subtree the group configures.
type FamilyBlock struct {
	Inet  []AddressFamily `json:"inet"`
	Inet6 []AddressFamily `json:"inet6"`
}

type AddressFamily struct {
	Unicast []Unicast `json:"unicast"`
}

type Unicast struct {
	PrefixLimit []PrefixLimit `json:"prefix-limit"`
}

type PrefixLimit struct {
	Maximum []Leaf `json:"maximum"`
}

// Leaf is a boxed scalar value.
type Leaf struct {
	Data string `json:"data"`
}

// ParseError is fatal: a document that does not match the expected nesting
// points at unsupported device syntax, not a recoverable per-peer condition.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "junos: unexpected config shape: " + e.Reason
}

// Parse decodes raw `display json` output and verifies the BGP stanza is
// where this tool expects it.
func Parse(raw []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}
	if len(doc.Configuration) == 0 ||
		len(doc.Configuration[0].Protocols) == 0 ||
		len(doc.Configuration[0].Protocols[0].BGP) == 0 {
		return nil, &ParseError{Reason: "missing configuration/protocols/bgp nesting"}
	}
	return &doc, nil
}
