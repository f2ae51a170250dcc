package workflow

import (
	"strings"

	"github.com/madamisu/venue_backend/models"
	"github.com/madamisu/venue_backend/utils"
)

// ResolverConfig carries the operator-maintained alias tables. Keys are
// matched both verbatim and width/kana-folded.
type ResolverConfig struct {
	ScenarioAliases map[string]string
	StaffAliases    map[string]string
}

// EntityResolver matches free-text names from the grid against the catalog.
// One resolver serves one import run; the memo caches are not safe for
// concurrent use.
type EntityResolver struct {
	catalog *models.Catalog
	config  ResolverConfig

	scenarioMemo map[string]*models.Scenario
	staffMemo    map[string]*models.Staff
}

func NewEntityResolver(catalog *models.Catalog, config ResolverConfig) *EntityResolver {
	return &EntityResolver{
		catalog:      catalog,
		config:       config,
		scenarioMemo: map[string]*models.Scenario{},
		staffMemo:    map[string]*models.Staff{},
	}
}

// ResolveScenario layers alias lookup over the catalog's exact, folded and
// containment matching. A nil result means the raw text stays unresolved.
func (r *EntityResolver) ResolveScenario(raw string) *models.Scenario {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if hit, ok := r.scenarioMemo[raw]; ok {
		return hit
	}
	name := raw
	if alias := r.scenarioAlias(raw); alias != "" {
		name = alias
	}
	hit := r.catalog.FindScenario(name)
	r.scenarioMemo[raw] = hit
	return hit
}

func (r *EntityResolver) scenarioAlias(raw string) string {
	if alias, ok := r.config.ScenarioAliases[raw]; ok {
		return alias
	}
	if alias, ok := r.config.ScenarioAliases[utils.FoldName(raw)]; ok {
		return alias
	}
	return ""
}

// ResolveStaff resolves one assignee name.
func (r *EntityResolver) ResolveStaff(raw string) *models.Staff {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if hit, ok := r.staffMemo[raw]; ok {
		return hit
	}
	name := raw
	if alias, ok := r.config.StaffAliases[raw]; ok {
		name = alias
	} else if alias, ok := r.config.StaffAliases[utils.FoldName(raw)]; ok {
		name = alias
	}
	hit := r.catalog.FindStaff(name)
	r.staffMemo[raw] = hit
	return hit
}

var assigneeDelims = []string{",", "、", "/", "・"}

// SplitAssignees turns a GM cell into individual names. Parenthesised
// remarks are dropped, and "A→B" means B took the slot over, so only the
// text after the last arrow counts.
func SplitAssignees(raw string) []string {
	text := stripParenthesised(normalizeParens(raw))
	if i := strings.LastIndex(text, "→"); i >= 0 {
		text = text[i+len("→"):]
	}
	for _, d := range assigneeDelims[1:] {
		text = strings.ReplaceAll(text, d, assigneeDelims[0])
	}
	var names []string
	for _, part := range strings.Split(text, assigneeDelims[0]) {
		part = strings.TrimSpace(part)
		if part == "" || part == "?" || part == "？" {
			continue
		}
		names = append(names, part)
	}
	return names
}

func stripParenthesised(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// ResolveAssignees maps a GM cell to staff names as persisted in the
// catalog, keeping unresolved raw names so nothing silently disappears.
func (r *EntityResolver) ResolveAssignees(raw string) (resolved []string, unresolved []string) {
	for _, name := range SplitAssignees(raw) {
		if hit := r.ResolveStaff(name); hit != nil {
			resolved = append(resolved, hit.Name)
		} else {
			resolved = append(resolved, name)
			unresolved = append(unresolved, name)
		}
	}
	return resolved, unresolved
}
