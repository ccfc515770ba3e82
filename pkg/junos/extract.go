package junos

import (
	"fmt"
	"sort"
	"strconv"

	"maxpfx/pkg/model"
)

// familyKind is the tagged union of what a group's family block can contain.
// Resolving it up front replaces the original probe-whichever-key-is-first
// behavior: inet takes precedence when a group somehow carries both.
type familyKind int

const (
	noFamily familyKind = iota
	inetFamily
	inet6Family
)

func classifyFamily(g Group) (familyKind, *AddressFamily) {
	if len(g.Family) == 0 {
		return noFamily, nil
	}
	block := g.Family[0]
	if len(block.Inet) > 0 {
		return inetFamily, &block.Inet[0]
	}
	if len(block.Inet6) > 0 {
		return inet6Family, &block.Inet6[0]
	}
	return noFamily, nil
}

// ExtractPeers walks the BGP groups and returns one PeerRecord per
// (ASN, family) pair that has a prefix limit configured. Groups without a
// family block have no limit and are skipped. Extraction is all-or-nothing:
// any group that has a family block but is missing the expected nesting
// aborts with a ParseError. When the same (ASN, family) appears in more than
// one group, the last group wins. Output is sorted by (ASN, family).
func ExtractPeers(doc *Document) ([]model.PeerRecord, error) {
	groups := doc.Configuration[0].Protocols[0].BGP[0].Groups

	type key struct {
		asn    int
		family model.Family
	}
	byKey := make(map[key]model.PeerRecord)

	for _, g := range groups {
		kind, af := classifyFamily(g)
		if kind == noFamily {
			if len(g.Family) > 0 {
				return nil, &ParseError{Reason: fmt.Sprintf("group %q: family block without inet or inet6", g.Name.Data)}
			}
			continue
		}
		if len(g.PeerAS) == 0 || g.PeerAS[0].Data == "" {
			return nil, &ParseError{Reason: fmt.Sprintf("group %q: family configured without peer-as", g.Name.Data)}
		}
		asn, err := strconv.Atoi(g.PeerAS[0].Data)
		if err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("group %q: peer-as %q is not numeric", g.Name.Data, g.PeerAS[0].Data)}
		}
		limit, err := configuredMaximum(af)
		if err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("group %q: %v", g.Name.Data, err)}
		}
		family := model.IPv4
		if kind == inet6Family {
			family = model.IPv6
		}
		byKey[key{asn, family}] = model.PeerRecord{
			ASN:             asn,
			Family:          family,
			GroupName:       g.Name.Data,
			ConfiguredLimit: limit,
		}
	}

	out := make([]model.PeerRecord, 0, len(byKey))
	for _, rec := range byKey {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ASN != out[j].ASN {
			return out[i].ASN < out[j].ASN
		}
		return out[i].Family < out[j].Family
	})
	return out, nil
}

func configuredMaximum(af *AddressFamily) (int, error) {
	if len(af.Unicast) == 0 ||
		len(af.Unicast[0].PrefixLimit) == 0 ||
		len(af.Unicast[0].PrefixLimit[0].Maximum) == 0 {
		return 0, fmt.Errorf("missing unicast prefix-limit maximum")
	}
	raw := af.Unicast[0].PrefixLimit[0].Maximum[0].Data
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("prefix-limit maximum %q is not numeric", raw)
	}
	if limit < 0 {
		return 0, fmt.Errorf("prefix-limit maximum %d is negative", limit)
	}
	return limit, nil
}
