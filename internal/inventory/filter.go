package inventory

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/landscape-community/landscape-mcp/pkg/models"
)

// StatusFilter selects machines by derived status.
type StatusFilter string

const (
	StatusAll         StatusFilter = "all"
	StatusOnlineOnly  StatusFilter = "online"
	StatusOfflineOnly StatusFilter = "offline"
)

// ParseStatusFilter accepts all, online or offline in any case. The empty
// string means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusOnlineOnly:
		return StatusOnlineOnly, nil
	case StatusOfflineOnly:
		return StatusOfflineOnly, nil
	}
	return "", fmt.Errorf("invalid status filter %q: expected all, online or offline", s)
}

// Criteria is one user's selection for a single rendering pass. The zero
// value selects everything.
type Criteria struct {
	// Tags keeps machines carrying at least one of these tags.
	Tags []string `json:"tags,omitempty"`
	// Annotations maps a key to its allowed values. Keys are ANDed, values
	// for one key are ORed. Keys with no values are ignored.
	Annotations map[string][]string `json:"annotations,omitempty"`
	// Search is matched case-insensitively against hostname, id and
	// annotation values.
	Search string `json:"search,omitempty"`
	// Status is applied after the other predicates.
	Status StatusFilter `json:"status,omitempty"`
}

// Filter applies the tag, annotation and search predicates in that order.
// The status predicate is a separate stage; see FilterStatus and Apply.
// The input slice is never modified.
func Filter(machines []models.Machine, c Criteria) []models.Machine {
	out := slices.Clone(machines)

	if len(c.Tags) > 0 {
		out = keep(out, func(m models.Machine) bool {
			return slices.ContainsFunc(c.Tags, m.HasTag)
		})
	}

	for key, allowed := range c.Annotations {
		if len(allowed) == 0 {
			continue
		}
		out = keep(out, func(m models.Machine) bool {
			return slices.Contains(allowed, m.Annotation(key))
		})
	}

	if c.Search != "" {
		needle := strings.ToLower(c.Search)
		out = keep(out, func(m models.Machine) bool {
			return matchesSearch(m, needle)
		})
	}

	return out
}

// FilterStatus keeps machines whose status at now matches sf.
func FilterStatus(machines []models.Machine, sf StatusFilter, now time.Time) []models.Machine {
	var want Status
	switch sf {
	case StatusOnlineOnly:
		want = StatusOnline
	case StatusOfflineOnly:
		want = StatusOffline
	default:
		return slices.Clone(machines)
	}
	return keep(slices.Clone(machines), func(m models.Machine) bool {
		return StatusOf(m, now) == want
	})
}

// Apply runs Filter followed by the status stage.
func Apply(machines []models.Machine, c Criteria, now time.Time) []models.Machine {
	return FilterStatus(Filter(machines, c), c.Status, now)
}

// View is the result of one filter pass together with the status counts
// shown next to it.
type View struct {
	Machines []models.Machine
	// Online and Offline count the view before the status stage. When a
	// status filter is active the other side is reported as zero.
	Online  int
	Offline int
}

// BuildView filters machines by c and derives the status counts for the
// result.
func BuildView(machines []models.Machine, c Criteria, now time.Time) View {
	filtered := Filter(machines, c)
	online, offline := CountStatus(filtered, now)

	v := View{Machines: filtered, Online: online, Offline: offline}
	switch c.Status {
	case StatusOnlineOnly:
		v.Machines = FilterStatus(filtered, c.Status, now)
		v.Online, v.Offline = len(v.Machines), 0
	case StatusOfflineOnly:
		v.Machines = FilterStatus(filtered, c.Status, now)
		v.Online, v.Offline = 0, len(v.Machines)
	}
	return v
}

// Find returns the machine with the given id.
func Find(machines []models.Machine, id string) (models.Machine, bool) {
	for _, m := range machines {
		if m.ID.String() == id {
			return m, true
		}
	}
	return models.Machine{}, false
}

func matchesSearch(m models.Machine, needle string) bool {
	if strings.Contains(strings.ToLower(m.Hostname), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(m.ID.String()), needle) {
		return true
	}
	for _, v := range m.Annotations {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

// keep filters in place; callers pass a slice they own.
func keep(machines []models.Machine, pred func(models.Machine) bool) []models.Machine {
	out := machines[:0]
	for _, m := range machines {
		if pred(m) {
			out = append(out, m)
		}
	}
	return out
}
