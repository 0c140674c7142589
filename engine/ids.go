package engine

import (
	"strconv"
	"strings"
	"sync/atomic"
)

const ruleUIDPrefix = "rule_"

// idGenerator hands out engine-generated rule UIDs of the form "rule_<n>".
// The source this engine is modeled on recomputes the maximum suffix in use
// by scanning every rule on every call; this keeps a running counter instead
// (spec §9 redesign flag), so generation is O(1) and strictly increasing
// regardless of removals.
type idGenerator struct {
	next atomic.Int64
}

// newIDGenerator seeds the counter from any UIDs already present (e.g. when
// restoring a registry from a snapshot), so that newly generated UIDs never
// collide with ones that used the engine's own naming convention.
func newIDGenerator(existing []string) *idGenerator {
	g := &idGenerator{}
	var max int64 = -1
	for _, uid := range existing {
		if n, ok := parseRuleSuffix(uid); ok && n > max {
			max = n
		}
	}
	g.next.Store(max + 1)
	return g
}

func parseRuleSuffix(uid string) (int64, bool) {
	if !strings.HasPrefix(uid, ruleUIDPrefix) {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(uid, ruleUIDPrefix), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// generate returns the next "rule_<n>" UID, guaranteed strictly greater than any
// previously generated suffix (spec §8 invariant).
func (g *idGenerator) generate() string {
	n := g.next.Add(1) - 1
	return ruleUIDPrefix + strconv.FormatInt(n, 10)
}

// observe folds uid into the counter if it looks like an engine-generated
// ID, so that an externally supplied "rule_7" still protects future
// auto-generated UIDs from colliding with it.
func (g *idGenerator) observe(uid string) {
	if n, ok := parseRuleSuffix(uid); ok {
		for {
			cur := g.next.Load()
			if n < cur {
				return
			}
			if g.next.CompareAndSwap(cur, n+1) {
				return
			}
		}
	}
}
