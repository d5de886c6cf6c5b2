package conservation

import "github.com/rotisserie/eris"

// Segment is a program funding phase selector.
type Segment string

// Recognized segment selectors.
const (
	SegmentAll Segment = "all"
	Segment1   Segment = "1"
	Segment2   Segment = "2"
	Segment3   Segment = "3"
)

// SegmentInfo describes a selectable segment for presentation.
type SegmentInfo struct {
	Code  Segment `json:"code" yaml:"code"`
	Label string  `json:"label" yaml:"label"`
}

var segmentLabels = map[Segment]string{
	SegmentAll: "All Segments",
	Segment1:   "Segment 1 (2017-2020)",
	Segment2:   "Segment 2 (2020-2023)",
	Segment3:   "Segment 3 (2023-2026)",
}

// Segments lists the selectable segments, wildcard first.
func Segments() []SegmentInfo {
	codes := []Segment{SegmentAll, Segment1, Segment2, Segment3}
	out := make([]SegmentInfo, 0, len(codes))
	for _, c := range codes {
		out = append(out, SegmentInfo{Code: c, Label: segmentLabels[c]})
	}
	return out
}

// String returns the selector code.
func (s Segment) String() string { return string(s) }

// IsWildcard reports whether the selector matches every record. The empty
// selector counts as the wildcard.
func (s Segment) IsWildcard() bool {
	return s == SegmentAll || s == ""
}

// Known reports whether s is the wildcard or a recognized segment code.
func (s Segment) Known() bool {
	if s == "" {
		return true
	}
	_, ok := segmentLabels[s]
	return ok
}

// ParseSegment validates a selector from user input. Filtering never needs
// this; it is for surfaces that want to reject typos up front.
func ParseSegment(s string) (Segment, error) {
	seg := Segment(s)
	if !seg.Known() {
		return "", eris.Errorf("unknown segment: %q (valid: all, 1, 2, 3)", s)
	}
	if seg == "" {
		return SegmentAll, nil
	}
	return seg, nil
}

// FilterBySegment returns the records in the selected segment. The wildcard
// returns the batch itself; an unrecognized selector matches nothing.
func FilterBySegment(batch []ConservationRecord, sel Segment) []ConservationRecord {
	if sel.IsWildcard() {
		return batch
	}
	out := make([]ConservationRecord, 0)
	if !sel.Known() {
		return out
	}
	for _, r := range batch {
		if r.Segment == string(sel) {
			out = append(out, r)
		}
	}
	return out
}

// FilterAllocationsBySegment applies the same selector rules to the funding
// table.
func FilterAllocationsBySegment(batch []FundingAllocation, sel Segment) []FundingAllocation {
	if sel.IsWildcard() {
		return batch
	}
	out := make([]FundingAllocation, 0)
	if !sel.Known() {
		return out
	}
	for _, a := range batch {
		if a.Segment == string(sel) {
			out = append(out, a)
		}
	}
	return out
}
