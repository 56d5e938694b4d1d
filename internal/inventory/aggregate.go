package inventory

import (
	"sort"
	"time"

	"github.com/landscape-community/landscape-mcp/pkg/models"
)

// Placeholders for machines that do not report a distribution. The KPI
// count and the chart use different labels.
const (
	UnknownDistribution      = "N/A"
	UnknownDistributionChart = "Unknown"
)

// MonitoringCardMaxValues is the exclusive upper bound on distinct values
// for an annotation key to get a monitoring card.
const MonitoringCardMaxValues = 10

// DefaultCardExclusions are annotation keys whose values are dates or
// measurements and never make useful cards.
var DefaultCardExclusions = []string{
	"luks_key_exp_date", "disk_usage", "date", "timestamp", "expire", "expiration",
}

// ValueCount is one row of a frequency table.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Frequency is a frequency table ordered by count descending. Ties keep
// the order in which values were first encountered.
type Frequency []ValueCount

// Top returns at most n rows.
func (f Frequency) Top(n int) Frequency {
	if n < 0 || n >= len(f) {
		return f
	}
	return f[:n]
}

// Total sums the counts.
func (f Frequency) Total() int {
	total := 0
	for _, vc := range f {
		total += vc.Count
	}
	return total
}

// Get returns the count for value, or 0.
func (f Frequency) Get(value string) int {
	for _, vc := range f {
		if vc.Value == value {
			return vc.Count
		}
	}
	return 0
}

// counter accumulates counts while remembering first-encounter order.
type counter struct {
	order []string
	count map[string]int
}

func newCounter() *counter {
	return &counter{count: map[string]int{}}
}

func (c *counter) add(value string) {
	if _, ok := c.count[value]; !ok {
		c.order = append(c.order, value)
	}
	c.count[value]++
}

func (c *counter) frequency() Frequency {
	f := make(Frequency, 0, len(c.order))
	for _, v := range c.order {
		f = append(f, ValueCount{Value: v, Count: c.count[v]})
	}
	sort.SliceStable(f, func(i, j int) bool { return f[i].Count > f[j].Count })
	return f
}

// Count tallies the values emitted by fn for every machine.
func Count(machines []models.Machine, fn func(m models.Machine, emit func(string))) Frequency {
	c := newCounter()
	for _, m := range machines {
		fn(m, c.add)
	}
	return c.frequency()
}

// DistinctDistributions counts distinct distribution labels, treating an
// absent label as one more value.
func DistinctDistributions(machines []models.Machine) int {
	set := map[string]struct{}{}
	for _, m := range machines {
		set[m.DistributionOr(UnknownDistribution)] = struct{}{}
	}
	return len(set)
}

// AverageTags is the mean number of tags per machine, or 0 for no machines.
func AverageTags(machines []models.Machine) float64 {
	if len(machines) == 0 {
		return 0
	}
	total := 0
	for _, m := range machines {
		total += len(m.Tags)
	}
	return float64(total) / float64(len(machines))
}

// CountDistributions is the OS distribution chart.
func CountDistributions(machines []models.Machine) Frequency {
	return Count(machines, func(m models.Machine, emit func(string)) {
		emit(m.DistributionOr(UnknownDistributionChart))
	})
}

// CountTags counts machines per tag.
func CountTags(machines []models.Machine) Frequency {
	return Count(machines, func(m models.Machine, emit func(string)) {
		for _, t := range m.Tags {
			emit(t)
		}
	})
}

// CountAnnotationKeys counts machines per annotation key.
func CountAnnotationKeys(machines []models.Machine) Frequency {
	return Count(machines, func(m models.Machine, emit func(string)) {
		for _, k := range sortedKeys(m.Annotations) {
			emit(k)
		}
	})
}

// CountAnnotationValues counts the values of one annotation key across the
// machines that carry it.
func CountAnnotationValues(machines []models.Machine, key string) Frequency {
	return Count(machines, func(m models.Machine, emit func(string)) {
		if v, ok := m.Annotations[key]; ok {
			emit(v)
		}
	})
}

// AnnotationCard is the value breakdown for one low-cardinality key.
type AnnotationCard struct {
	Key    string    `json:"key"`
	Values Frequency `json:"values"`
}

// AnnotationCards builds a card for every annotation key with fewer than
// MonitoringCardMaxValues distinct values, skipping exclude. Cards are in
// first-encounter key order.
func AnnotationCards(machines []models.Machine, exclude []string) []AnnotationCard {
	skip := make(map[string]struct{}, len(exclude))
	for _, k := range exclude {
		skip[k] = struct{}{}
	}

	var keys []string
	perKey := map[string]*counter{}
	for _, m := range machines {
		for _, k := range sortedKeys(m.Annotations) {
			if _, ok := skip[k]; ok {
				continue
			}
			c, ok := perKey[k]
			if !ok {
				c = newCounter()
				perKey[k] = c
				keys = append(keys, k)
			}
			c.add(m.Annotations[k])
		}
	}

	var cards []AnnotationCard
	for _, k := range keys {
		c := perKey[k]
		if len(c.order) >= MonitoringCardMaxValues {
			continue
		}
		cards = append(cards, AnnotationCard{Key: k, Values: c.frequency()})
	}
	return cards
}

// AnnotationKey lists the distinct values seen for one key.
type AnnotationKey struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

// AnnotationIndex returns every annotation key with its distinct values,
// both sorted.
func AnnotationIndex(machines []models.Machine) []AnnotationKey {
	values := map[string]map[string]struct{}{}
	for _, m := range machines {
		for k, v := range m.Annotations {
			if values[k] == nil {
				values[k] = map[string]struct{}{}
			}
			values[k][v] = struct{}{}
		}
	}

	out := make([]AnnotationKey, 0, len(values))
	for k, set := range values {
		vs := make([]string, 0, len(set))
		for v := range set {
			vs = append(vs, v)
		}
		sort.Strings(vs)
		out = append(out, AnnotationKey{Key: k, Values: vs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// TagShare is how many machines in a view carry a tag.
type TagShare struct {
	Tag     string  `json:"tag"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// CategoryBreakdown is a category with per-tag shares.
type CategoryBreakdown struct {
	Name string     `json:"name"`
	Tags []TagShare `json:"tags"`
}

// TagBreakdown counts, for each categorized tag, how many machines carry it
// and what share of machines that is. Tags within a category are ordered by
// count descending, keeping the category's order for ties.
func TagBreakdown(categories []Category, machines []models.Machine) []CategoryBreakdown {
	counts := CountTags(machines)
	out := make([]CategoryBreakdown, 0, len(categories))
	for _, cat := range categories {
		shares := make([]TagShare, 0, len(cat.Tags))
		for _, tag := range cat.Tags {
			n := counts.Get(tag)
			shares = append(shares, TagShare{Tag: tag, Count: n, Percent: percent(n, len(machines))})
		}
		sort.SliceStable(shares, func(i, j int) bool { return shares[i].Count > shares[j].Count })
		out = append(out, CategoryBreakdown{Name: cat.Name, Tags: shares})
	}
	return out
}

// KeyValueCell is one cell of the annotation key by value matrix.
type KeyValueCell struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Count int    `json:"count"`
}

// KeyValueMatrix takes the top keys most common annotation keys and, for
// each, its top values most common values. Values are truncated to
// maxValueLen runes.
func KeyValueMatrix(machines []models.Machine, keys, values, maxValueLen int) []KeyValueCell {
	var cells []KeyValueCell
	for _, k := range CountAnnotationKeys(machines).Top(keys) {
		for _, vc := range CountAnnotationValues(machines, k.Value).Top(values) {
			cells = append(cells, KeyValueCell{Key: k.Value, Value: truncate(vc.Value, maxValueLen), Count: vc.Count})
		}
	}
	return cells
}

// Stats are the headline numbers for a view.
type Stats struct {
	Total         int     `json:"total"`
	Online        int     `json:"online"`
	Offline       int     `json:"offline"`
	Distributions int     `json:"distributions"`
	AverageTags   float64 `json:"average_tags"`
}

// Summarize computes Stats for machines at now.
func Summarize(machines []models.Machine, now time.Time) Stats {
	online, offline := CountStatus(machines, now)
	return Stats{
		Total:         len(machines),
		Online:        online,
		Offline:       offline,
		Distributions: DistinctDistributions(machines),
		AverageTags:   AverageTags(machines),
	}
}

// CountStatus returns the number of online and offline machines at now.
func CountStatus(machines []models.Machine, now time.Time) (online, offline int) {
	for _, m := range machines {
		if StatusOf(m, now) == StatusOnline {
			online++
		} else {
			offline++
		}
	}
	return online, offline
}

// DistinctAnnotationKeys counts distinct annotation keys.
func DistinctAnnotationKeys(machines []models.Machine) int {
	set := map[string]struct{}{}
	for _, m := range machines {
		for k := range m.Annotations {
			set[k] = struct{}{}
		}
	}
	return len(set)
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n])
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
