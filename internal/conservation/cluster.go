package conservation

import (
	"fmt"
	"sort"
)

// LocationCluster merges contracts at the same farm location (coordinates
// equal to four decimal places, roughly 11 m) into one map marker.
type LocationCluster struct {
	Key       string               `json:"key" yaml:"key"`
	Latitude  float64              `json:"latitude" yaml:"latitude"`
	Longitude float64              `json:"longitude" yaml:"longitude"`
	Records   []ConservationRecord `json:"records" yaml:"records"`
	Funding   float64              `json:"funding" yaml:"funding"`
	Acres     float64              `json:"acres" yaml:"acres"`
}

// LocationKey returns the clustering key for a coordinate pair.
func LocationKey(lat, lng float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lng)
}

// ClusterLocations groups located records by rounded coordinates. Records
// without a location are skipped. Clusters keep first-appearance order and
// take their coordinates from their first record.
func ClusterLocations(batch []ConservationRecord) []LocationCluster {
	idx := make(map[string]int)
	out := make([]LocationCluster, 0)

	for _, r := range batch {
		if !r.HasLocation() {
			continue
		}
		key := LocationKey(r.Latitude, r.Longitude)
		i, ok := idx[key]
		if !ok {
			i = len(out)
			idx[key] = i
			out = append(out, LocationCluster{Key: key, Latitude: r.Latitude, Longitude: r.Longitude})
		}
		c := &out[i]
		c.Records = append(c.Records, r)
		c.Funding += r.TotalAmount
		c.Acres += r.Acres
	}
	return out
}

// Contracts returns the number of contracts at the location.
func (c LocationCluster) Contracts() int { return len(c.Records) }

// Farm returns the farm name of the first contract at the location.
func (c LocationCluster) Farm() string {
	if len(c.Records) == 0 {
		return ""
	}
	return c.Records[0].Farm
}

// City returns the city of the first contract at the location.
func (c LocationCluster) City() string {
	if len(c.Records) == 0 {
		return ""
	}
	return c.Records[0].City
}

// Years returns the distinct contract years at the location, ascending.
func (c LocationCluster) Years() []int {
	seen := make(map[int]struct{})
	years := make([]int, 0)
	for _, r := range c.Records {
		y := r.Year()
		if y == 0 {
			continue
		}
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Practices returns the distinct practices at the location in the order
// they first appear.
func (c LocationCluster) Practices() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range c.Records {
		if _, ok := seen[r.Practice]; ok {
			continue
		}
		seen[r.Practice] = struct{}{}
		out = append(out, r.Practice)
	}
	return out
}
