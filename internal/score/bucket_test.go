package score

import "testing"

func TestClassifyTitle(t *testing.T) {
	cases := []struct {
		title string
		want  Bucket
	}{
		{"Sinh hoạt CLB tháng 3", BucketMeeting},
		{"Sự kiện chào mừng", BucketEvent},
		{"Cuộc thi lập trình", BucketCompetition},
		{"Thi đấu giao hữu", BucketCompetition},
		{"Kế hoạch hoạt động học kỳ", BucketPlan},
		{"Phối hợp tổ chức với khoa", BucketCollaboration},
		{"Tình nguyện mùa hè", BucketOther},
		{"", BucketOther},
		// order matters: a meeting title that also mentions an event
		// stays a meeting
		{"Sinh hoạt CLB trong Sự kiện lớn", BucketMeeting},
		// lowercase "sự kiện" does not match, the rules are case-sensitive
		{"sự kiện nhỏ", BucketOther},
	}
	for _, c := range cases {
		if got := ClassifyTitle(c.title); got != c.want {
			t.Errorf("ClassifyTitle(%q) = %q, want %q", c.title, got, c.want)
		}
	}
}

func TestTotalsAdd(t *testing.T) {
	var tot Totals
	tot.Add(BucketMeeting, 5)
	tot.Add(BucketEvent, 8)
	tot.Add(BucketCompetition, 10)
	tot.Add(BucketOther, 2)

	if tot.Meeting != 5 || tot.Event != 8 || tot.Competition != 10 || tot.Other != 2 {
		t.Fatalf("unexpected buckets: %+v", tot)
	}
	if tot.Plan != 0 || tot.Collaboration != 0 {
		t.Fatalf("untouched buckets must stay zero: %+v", tot)
	}
	if sum := tot.Meeting + tot.Event + tot.Competition + tot.Plan + tot.Collaboration + tot.Other; sum != tot.Total {
		t.Fatalf("total %d != bucket sum %d", tot.Total, sum)
	}
}
