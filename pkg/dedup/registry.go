// Package dedup tracks which complaints an ingestion run has already seen.
package dedup

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/hazyhaar/ncrp-ingest/pkg/complaint"
	"github.com/shopspring/decimal"
)

// Registry is the set of complaint identifiers and content fingerprints
// seen during one run. A Registry is safe for concurrent use.
type Registry struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{seen: make(map[string]struct{})}
}

// Fingerprint hashes the name, mobile, date-time and amount of r.
// Two filings of the same incident under different identifiers share it.
func Fingerprint(r *complaint.Record) string {
	key := r.ComplainantName + "_" +
		r.Complainant.Mobile + "_" +
		r.DateTime + "_" +
		floatString(r.AmountLost)
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// floatString renders d the way the complaint records have always been keyed:
// shortest form, with ".0" on whole amounts (25000 -> "25000.0").
func floatString(d decimal.Decimal) string {
	s := d.String()
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Check reports whether r's identifier or fingerprint is already registered.
func (g *Registry) Check(r *complaint.Record) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.check(r, Fingerprint(r))
}

// Register adds r's identifier and fingerprint.
func (g *Registry) Register(r *complaint.Record) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.register(r, Fingerprint(r))
}

// CheckAndRegister reports whether r was already seen and, if not,
// registers it. The check and the registration happen under one lock.
func (g *Registry) CheckAndRegister(r *complaint.Record) bool {
	fp := Fingerprint(r)
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.check(r, fp) {
		return true
	}
	g.register(r, fp)
	return false
}

// Len returns the number of registered keys.
func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}

func (g *Registry) check(r *complaint.Record, fp string) bool {
	if r.ComplaintID != "" {
		if _, ok := g.seen[r.ComplaintID]; ok {
			return true
		}
	}
	_, ok := g.seen[fp]
	return ok
}

func (g *Registry) register(r *complaint.Record, fp string) {
	if r.ComplaintID != "" {
		g.seen[r.ComplaintID] = struct{}{}
	}
	g.seen[fp] = struct{}{}
}
