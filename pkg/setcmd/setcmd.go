// Package setcmd turns RECONFIGURE results back into Junos set statements
// and writes them to per-family command files for operator review.
package setcmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"maxpfx/pkg/model"
)

// teardownPercent is where the router starts logging that a peer approaches
// its maximum; at the maximum itself the session is hard reset with
// Cease/Maximum Number of Prefixes Reached.
const teardownPercent = 80

const (
	V4FileName = "v4commands.txt"
	V6FileName = "v6commands.txt"
)

// Generate emits two statements per RECONFIGURE result: the new maximum and
// the teardown threshold. The group name is recovered by joining the result
// back to the extracted records on (ASN, family); the family keyword comes
// strictly from the result's own family. Only raises are ever generated -
// MATCH, EXCEPTION and UNRATED produce nothing.
func Generate(results []model.ReconciliationResult, records []model.PeerRecord) (v4, v6 []string) {
	type key struct {
		asn    int
		family model.Family
	}
	groups := make(map[key]string, len(records))
	for _, rec := range records {
		groups[key{rec.ASN, rec.Family}] = rec.GroupName
	}

	for _, r := range results {
		if r.Disposition != model.Reconfigure {
			continue
		}
		group, ok := groups[key{r.ASN, r.Family}]
		if !ok {
			continue
		}
		kw := r.Family.Keyword()
		maxCmd := fmt.Sprintf("set protocols bgp group %s family %s unicast prefix-limit maximum %d", group, kw, r.RecommendedLimit)
		teardownCmd := fmt.Sprintf("set protocols bgp group %s family %s unicast prefix-limit teardown %d", group, kw, teardownPercent)
		if r.Family == model.IPv6 {
			v6 = append(v6, maxCmd, teardownCmd)
		} else {
			v4 = append(v4, maxCmd, teardownCmd)
		}
	}
	return v4, v6
}

// WriteFiles writes the v4 and v6 command sequences under outputDir. A
// family with no commands gets no file at all. Returns the paths written.
func WriteFiles(outputDir string, v4, v6 []string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir output: %w", err)
	}
	var written []string
	for _, f := range []struct {
		name     string
		commands []string
	}{
		{V4FileName, v4},
		{V6FileName, v6},
	} {
		if len(f.commands) == 0 {
			continue
		}
		path := filepath.Join(outputDir, f.name)
		if err := os.WriteFile(path, []byte(strings.Join(f.commands, "\n")+"\n"), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", f.name, err)
		}
		written = append(written, path)
	}
	return written, nil
}
