package models

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/madamisu/venue_backend/config"
	"github.com/madamisu/venue_backend/utils"
)

// Catalog is the read-only snapshot of the scenario catalog and staff roster
// taken at the start of a reconciliation run. All lookups run against the
// snapshot, so a catalog refresh landing mid-run cannot produce a mix of old
// and new matches.
type Catalog struct {
	Scenarios []*Scenario
	Staff     []*Staff

	scenarioByTitle map[string]*Scenario
	scenarioByFold  map[string]*Scenario
	staffByName     map[string]*Staff
	staffByFold     map[string]*Staff
}

func NewCatalog(scenarios []*Scenario, staff []*Staff) *Catalog {
	c := &Catalog{
		Scenarios:       scenarios,
		Staff:           staff,
		scenarioByTitle: make(map[string]*Scenario, len(scenarios)),
		scenarioByFold:  make(map[string]*Scenario, len(scenarios)),
		staffByName:     make(map[string]*Staff, len(staff)),
		staffByFold:     make(map[string]*Staff, len(staff)),
	}
	for _, s := range scenarios {
		c.scenarioByTitle[s.Title] = s
		fold := utils.FoldName(s.Title)
		if _, taken := c.scenarioByFold[fold]; !taken {
			c.scenarioByFold[fold] = s
		}
	}
	for _, s := range staff {
		c.staffByName[s.Name] = s
		fold := utils.FoldName(s.Name)
		if _, taken := c.staffByFold[fold]; !taken {
			c.staffByFold[fold] = s
		}
	}
	return c
}

// LoadCatalog fetches both catalogs for the organization in context. The raw
// slices are redis-cached briefly; the snapshot itself is rebuilt per call.
func LoadCatalog(ctx context.Context) (*Catalog, error) {
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, utils.ErrorOrganizationRequired
	}

	var scenarios []*Scenario
	var staff []*Staff

	scenarioKey := "CatalogScenarios:" + organizationId
	staffKey := "CatalogStaff:" + organizationId

	if exists, err := config.GetRedisObject(scenarioKey, &scenarios); err != nil {
		return nil, err
	} else if !exists {
		var err error
		scenarios, err = AllScenarios(ctx)
		if err != nil {
			return nil, err
		}
		if err := config.SetRedisObject(scenarioKey, &scenarios, 5*time.Minute); err != nil {
			return nil, err
		}
	}

	if exists, err := config.GetRedisObject(staffKey, &staff); err != nil {
		return nil, err
	} else if !exists {
		var err error
		staff, err = AllStaff(ctx)
		if err != nil {
			return nil, err
		}
		if err := config.SetRedisObject(staffKey, &staff, 5*time.Minute); err != nil {
			return nil, err
		}
	}

	return NewCatalog(scenarios, staff), nil
}

// InvalidateCatalogCache drops the cached catalogs after a scenario or staff
// edit so the next run sees the new entries.
func InvalidateCatalogCache(organizationId string) error {
	return config.RemoveRedisKey("CatalogScenarios:"+organizationId, "CatalogStaff:"+organizationId)
}

// ExactScenario matches the title byte-for-byte.
func (c *Catalog) ExactScenario(title string) *Scenario {
	return c.scenarioByTitle[title]
}

// ScenarioByFold matches after width/case/kana folding.
func (c *Catalog) ScenarioByFold(title string) *Scenario {
	return c.scenarioByFold[utils.FoldName(title)]
}

func (c *Catalog) ExactStaff(name string) *Staff {
	return c.staffByName[name]
}

func (c *Catalog) StaffByFold(name string) *Staff {
	return c.staffByFold[utils.FoldName(name)]
}

// FindScenario is the registry-level lookup: exact, fold, then containment
// in both directions. Catalog order (title-sorted) makes the containment
// pass deterministic.
func (c *Catalog) FindScenario(raw string) *Scenario {
	if raw == "" {
		return nil
	}
	if s := c.ExactScenario(raw); s != nil {
		return s
	}
	if s := c.ScenarioByFold(raw); s != nil {
		return s
	}
	for _, s := range c.Scenarios {
		if containsEitherWay(s.Title, raw) {
			return s
		}
	}
	return nil
}

// FindStaff mirrors FindScenario for roster names.
func (c *Catalog) FindStaff(raw string) *Staff {
	if raw == "" {
		return nil
	}
	if s := c.ExactStaff(raw); s != nil {
		return s
	}
	if s := c.StaffByFold(raw); s != nil {
		return s
	}
	for _, s := range c.Staff {
		if containsEitherWay(s.Name, raw) {
			return s
		}
	}
	return nil
}

// containsEitherWay reports a fuzzy hit after folding. Prefixes match at any
// length; mid-string containment needs at least 3 runes on the contained
// side, otherwise a single-kana name matches half the catalog.
func containsEitherWay(a, b string) bool {
	fa, fb := utils.FoldName(a), utils.FoldName(b)
	if fa == "" || fb == "" {
		return false
	}
	if strings.HasPrefix(fa, fb) || strings.HasPrefix(fb, fa) {
		return true
	}
	return (utf8.RuneCountInString(fb) >= 3 && strings.Contains(fa, fb)) ||
		(utf8.RuneCountInString(fa) >= 3 && strings.Contains(fb, fa))
}
