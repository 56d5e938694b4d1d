package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/landscape-community/landscape-mcp/internal/inventory"
)

func TestCategorize(t *testing.T) {
	c := inventory.DefaultCategorizer()

	got := c.Categorize([]string{"production", "Engineering", "Zagreb", "Berlin", "db", "Zagreb", "sysadmin", "ALL"})

	assert.Equal(t, []inventory.Category{
		{Name: inventory.CategoryLocations, Tags: []string{"ALL", "Berlin", "Zagreb"}},
		{Name: inventory.CategoryTeams, Tags: []string{"Engineering", "sysadmin"}},
		{Name: inventory.CategoryOther, Tags: []string{"db", "production"}},
	}, got)
}

func TestCategoryOf(t *testing.T) {
	c := inventory.DefaultCategorizer()

	tests := []struct {
		tag  string
		want string
	}{
		{tag: "Corporate Security", want: inventory.CategoryTeams},
		{tag: "corporate security", want: inventory.CategoryTeams},
		{tag: "kosice", want: inventory.CategoryLocations},
		// Capitalised tags fall into Locations even when they are not places.
		{tag: "Webserver", want: inventory.CategoryLocations},
		{tag: "DB", want: inventory.CategoryOther},
		{tag: "web-tier", want: inventory.CategoryOther},
		{tag: "", want: inventory.CategoryOther},
		{tag: "Łódź", want: inventory.CategoryLocations},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, c.CategoryOf(tt.tag))
		})
	}
}

func TestCategorizeOmitsEmptyCategories(t *testing.T) {
	c := inventory.DefaultCategorizer()

	assert.Empty(t, c.Categorize(nil))
	assert.Equal(t, []inventory.Category{
		{Name: inventory.CategoryOther, Tags: []string{"a", "b"}},
	}, c.Categorize([]string{"b", "a"}))
}

func TestCustomCategorizer(t *testing.T) {
	c := inventory.NewCategorizer([]string{"Platform"}, []string{"lab"})

	assert.Equal(t, inventory.CategoryTeams, c.CategoryOf("Platform"))
	assert.Equal(t, inventory.CategoryLocations, c.CategoryOf("lab"))
	// Default teams are no longer special, so the heuristic applies.
	assert.Equal(t, inventory.CategoryLocations, c.CategoryOf("Engineering"))
}

func TestDistinctTags(t *testing.T) {
	assert.Equal(t,
		[]string{"database-tier", "production", "staging", "web-tier"},
		inventory.DistinctTags(scenarioFleet(t)))
}
