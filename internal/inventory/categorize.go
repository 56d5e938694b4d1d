package inventory

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/landscape-community/landscape-mcp/pkg/models"
)

// Category names, in the order they are returned.
const (
	CategoryLocations = "Locations"
	CategoryTeams     = "Teams"
	CategoryOther     = "Other"
)

// DefaultTeams are the tags treated as team names.
var DefaultTeams = []string{
	"Engineering", "SysAdmin", "EarlyAdopters", "CustomerServices",
	"Profitability management", "Corporate Security",
}

// DefaultLocations are the tags treated as sites. ALL is the fleet-wide
// pseudo-location.
var DefaultLocations = []string{
	"ALL", "Sarajevo", "Zagreb", "Belgrade", "Belgrad",
	"Bogota", "Curitiba", "Dublin", "Katowice", "Kosice",
}

// Category is a named, sorted group of tags.
type Category struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// Categorizer assigns tags to categories. The zero value has empty
// allowlists; use NewCategorizer or DefaultCategorizer.
type Categorizer struct {
	teams     map[string]struct{}
	locations map[string]struct{}
}

// NewCategorizer builds a categorizer from team and location allowlists.
// Matching against both lists is case-insensitive.
func NewCategorizer(teams, locations []string) *Categorizer {
	return &Categorizer{
		teams:     lowerSet(teams),
		locations: lowerSet(locations),
	}
}

// DefaultCategorizer uses DefaultTeams and DefaultLocations.
func DefaultCategorizer() *Categorizer {
	return NewCategorizer(DefaultTeams, DefaultLocations)
}

// CategoryOf returns the category for a single tag. First match wins:
//
//  1. exact team name                       -> Teams
//  2. exact location name                   -> Locations
//  3. looksLikeLocation (capitalised, len>2) -> Locations
//  4. anything else                         -> Other
func (c *Categorizer) CategoryOf(tag string) string {
	lower := strings.ToLower(tag)
	if _, ok := c.teams[lower]; ok {
		return CategoryTeams
	}
	if _, ok := c.locations[lower]; ok {
		return CategoryLocations
	}
	if c.looksLikeLocation(tag, lower) {
		return CategoryLocations
	}
	return CategoryOther
}

// looksLikeLocation treats any capitalised tag longer than two characters
// as an unlisted city or site. It is deliberately loose and will file
// capitalised service tags under Locations too.
func (c *Categorizer) looksLikeLocation(tag, lower string) bool {
	first, _ := utf8.DecodeRuneInString(tag)
	if first == utf8.RuneError || !unicode.IsUpper(first) {
		return false
	}
	if _, ok := c.teams[lower]; ok {
		return false
	}
	return utf8.RuneCountInString(tag) > 2
}

// Categorize partitions the distinct tags into Locations, Teams and Other,
// in that order. Each category is sorted and empty categories are omitted.
func (c *Categorizer) Categorize(tags []string) []Category {
	buckets := map[string][]string{}
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		name := c.CategoryOf(tag)
		buckets[name] = append(buckets[name], tag)
	}

	var out []Category
	for _, name := range []string{CategoryLocations, CategoryTeams, CategoryOther} {
		members := buckets[name]
		if len(members) == 0 {
			continue
		}
		sort.Strings(members)
		out = append(out, Category{Name: name, Tags: members})
	}
	return out
}

// DistinctTags returns every tag seen across machines, sorted.
func DistinctTags(machines []models.Machine) []string {
	set := map[string]struct{}{}
	for _, m := range machines {
		for _, t := range m.Tags {
			set[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}
