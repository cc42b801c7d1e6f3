package importer

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/common"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/locmatch"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
)

// AliasMatcher evaluates imported names against remembered alias rules.
type AliasMatcher struct {
	compiled map[int64]*regexp.Regexp
	rules    []model.Alias
}

// NewAliasMatcher prepares aliases for matching. Rules pointing at locations
// outside index are ignored, as are regex rules that no longer compile.
func NewAliasMatcher(aliases []model.Alias, index model.LocationIndex, cache *common.RegexCache) *AliasMatcher {
	m := &AliasMatcher{
		compiled: make(map[int64]*regexp.Regexp),
	}

	for _, a := range aliases {
		if _, ok := index[a.LocationID]; !ok {
			continue
		}
		if a.IsRegex {
			re, err := cache.Compile(a.Pattern)
			if err != nil {
				slog.Warn("Skipping alias with invalid pattern", "alias_id", a.ID, "pattern", a.Pattern, "error", err)
				continue
			}
			m.compiled[a.ID] = re
		}
		m.rules = append(m.rules, a)
	}

	// Highest priority first, then oldest rule
	sort.SliceStable(m.rules, func(i, j int) bool {
		if m.rules[i].Priority != m.rules[j].Priority {
			return m.rules[i].Priority > m.rules[j].Priority
		}
		return m.rules[i].ID < m.rules[j].ID
	})

	return m
}

// Len returns the number of usable rules.
func (m *AliasMatcher) Len() int {
	return len(m.rules)
}

// Match returns the first rule, in priority order, that matches name.
// Literal rules compare normalized names; regex rules see the trimmed raw name.
func (m *AliasMatcher) Match(name string) (model.Alias, bool) {
	normalized := locmatch.Normalize(name)
	if normalized == "" {
		return model.Alias{}, false
	}
	raw := strings.TrimSpace(name)

	for _, rule := range m.rules {
		if rule.IsRegex {
			if m.compiled[rule.ID].MatchString(raw) {
				return rule, true
			}
			continue
		}
		if rule.Pattern == normalized {
			return rule, true
		}
	}
	return model.Alias{}, false
}
