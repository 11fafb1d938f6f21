// Package featureflags evaluates the FEATURE_FLAGS setting, a comma-separated
// list such as "strict_comments=25%,live_feed=on,data_cache=off".
package featureflags

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Flags known to the dashboard.
const (
	// StrictComments switches a user's comment submissions to the strict policy.
	StrictComments = "strict_comments"
	// LiveFeed enables the websocket feed stream.
	LiveFeed = "live_feed"
	// DataCache enables Redis caching of the raw data endpoints.
	DataCache = "data_cache"
)

// defaults apply when a known flag is not configured.
var defaults = map[string]rule{
	StrictComments: {mode: modeOff, raw: "off"},
	LiveFeed:       {mode: modeOn, raw: "on"},
	DataCache:      {mode: modeOn, raw: "on"},
}

type mode int

const (
	modeOff mode = iota
	modeOn
	modeRollout
)

type rule struct {
	mode    mode
	percent int
	raw     string
}

// Manager holds the parsed flags. A nil Manager has every flag off.
type Manager struct {
	rules map[string]rule
}

// NewManager parses raw. Malformed entries are skipped.
func NewManager(raw string) *Manager {
	rules := make(map[string]rule, len(defaults))
	for name, r := range defaults {
		rules[name] = r
	}

	for _, pair := range strings.Split(raw, ",") {
		name, value, found := strings.Cut(pair, "=")
		name, value = normalize(name), normalize(value)
		if !found || name == "" || value == "" {
			continue
		}
		if r, ok := parseRule(value); ok {
			rules[name] = r
		}
	}

	return &Manager{rules: rules}
}

func parseRule(value string) (rule, bool) {
	switch value {
	case "on", "true", "1":
		return rule{mode: modeOn, raw: value}, true
	case "off", "false", "0":
		return rule{mode: modeOff, raw: value}, true
	}

	pct, err := strconv.Atoi(strings.TrimSuffix(value, "%"))
	if !strings.HasSuffix(value, "%") || err != nil {
		return rule{}, false
	}
	switch {
	case pct <= 0:
		return rule{mode: modeOff, raw: value}, true
	case pct >= 100:
		return rule{mode: modeOn, raw: value}, true
	}
	return rule{mode: modeRollout, percent: pct, raw: value}, true
}

// Enabled reports whether name is on for userID. Partial rollouts are sticky
// per user and never include user 0.
func (m *Manager) Enabled(name string, userID int) bool {
	if m == nil {
		return false
	}
	r, ok := m.rules[normalize(name)]
	if !ok {
		return false
	}

	switch r.mode {
	case modeOn:
		return true
	case modeRollout:
		return userID != 0 && bucket(name, userID) < r.percent
	default:
		return false
	}
}

// Raw returns the configured value of every flag.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.rules))
	for name, r := range m.rules {
		out[name] = r.raw
	}
	return out
}

// Snapshot evaluates every flag for one user.
func (m *Manager) Snapshot(userID int) map[string]bool {
	out := make(map[string]bool, len(m.rules))
	for name := range m.rules {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

// Names lists the flags in alphabetical order.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.rules))
	for name := range m.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func bucket(name string, userID int) int {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s:%d", normalize(name), userID)
	return int(h.Sum32() % 100)
}
