// Package score holds the pure classification rules shared by the club
// record aggregator.
package score

import "strings"

type Bucket string

const (
	BucketMeeting       Bucket = "meeting"
	BucketEvent         Bucket = "event"
	BucketCompetition   Bucket = "competition"
	BucketPlan          Bucket = "plan"
	BucketCollaboration Bucket = "collaboration"
	BucketOther         Bucket = "other"
)

// ClassifyTitle maps a criterion title to exactly one reporting bucket.
// The rules are ordered first-match, case-sensitive substring checks over
// the Vietnamese titles the catalog ships with. The title doubles as the
// classification key here: retitling a criterion without one of these
// substrings reclassifies it into "other". Details without a criterion get
// an empty title and land in "other" as well.
func ClassifyTitle(title string) Bucket {
	switch {
	case strings.Contains(title, "Sinh hoạt CLB"):
		return BucketMeeting
	case strings.Contains(title, "Sự kiện"):
		return BucketEvent
	case strings.Contains(title, "thi") || strings.Contains(title, "Thi"):
		return BucketCompetition
	case strings.Contains(title, "Kế hoạch"):
		return BucketPlan
	case strings.Contains(title, "Phối hợp"):
		return BucketCollaboration
	default:
		return BucketOther
	}
}

// Totals is one recompute result for a club record.
type Totals struct {
	Meeting       int
	Event         int
	Competition   int
	Plan          int
	Collaboration int
	Other         int
	Total         int
}

// Add books one detail amount into the bucket b.
func (t *Totals) Add(b Bucket, amount int) {
	switch b {
	case BucketMeeting:
		t.Meeting += amount
	case BucketEvent:
		t.Event += amount
	case BucketCompetition:
		t.Competition += amount
	case BucketPlan:
		t.Plan += amount
	case BucketCollaboration:
		t.Collaboration += amount
	default:
		t.Other += amount
	}
	t.Total += amount
}
