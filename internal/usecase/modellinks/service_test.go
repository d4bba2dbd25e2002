package modellinks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/practicelink/internal/domain/link"
	"github.com/kailas-cloud/practicelink/internal/domain/problem"
)

// --- Mocks ---

type mockModel struct {
	links   []link.Picked
	err     error
	block   bool
	calls   int
	phrases []string
}

func (m *mockModel) ResolveLinks(ctx context.Context, phrases []string) ([]link.Picked, error) {
	m.calls++
	m.phrases = phrases
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.links, m.err
}

// --- Tests ---

func TestResolve_EmptyInputNoCall(t *testing.T) {
	m := &mockModel{}
	r := New(m, nil, time.Second)

	if got := r.Resolve(context.Background(), nil); len(got) != 0 {
		t.Errorf("expected empty, got %+v", got)
	}
	if got := r.Resolve(context.Background(), []string{" ", ""}); len(got) != 0 {
		t.Errorf("expected empty, got %+v", got)
	}
	if m.calls != 0 {
		t.Errorf("expected no model call, got %d", m.calls)
	}
}

func TestResolve_FiltersAndNormalizes(t *testing.T) {
	m := &mockModel{links: []link.Picked{
		{Title: "", URL: "https://leetcode.com/problems/some-problem/", Site: "GFG"},
		{Title: "Blog", URL: "https://medium.com/two-sum"},
		{Title: "Discuss", URL: "https://leetcode.com/discuss/123"},
		{Title: "Relative", URL: "/problems/two-sum/"},
		{Title: "Pairs", URL: "https://www.geeksforgeeks.org/count-pairs-with-given-sum/", Site: "LeetCode"},
		{Title: "dup", URL: "https://leetcode.com/problems/some-problem/"},
	}}
	r := New(m, nil, time.Second)

	got := r.Resolve(context.Background(), []string{"pair sum", "pairs"})

	if len(got) != 2 {
		t.Fatalf("expected 2 links, got %d: %+v", len(got), got)
	}
	if got[0].Title != "Practice" || got[0].Site != link.SiteLeetCode {
		t.Errorf("first = %+v, want default title and site derived from URL", got[0])
	}
	if got[1].Site != link.SiteGFG || got[1].Title != "Pairs" {
		t.Errorf("second = %+v", got[1])
	}
	if len(m.phrases) != 2 {
		t.Errorf("phrases = %v", m.phrases)
	}
}

func TestResolve_CanonicalTitle(t *testing.T) {
	m := &mockModel{links: []link.Picked{
		{Title: "2 sum problem", URL: "https://leetcode.com/problems/two-sum"},
		{Title: "Coin-Change", URL: "https://leetcode.com/problems/coin-change-ii/"},
		{Title: "TwoSum", URL: "http://leetcode.com/problems/two-sum/"},
	}}
	r := New(m, problem.MustDefaultCatalog(), time.Second)

	got := r.Resolve(context.Background(), []string{"two sum variant"})
	if len(got) != 3 {
		t.Fatalf("expected 3 links, got %+v", got)
	}
	if got[0].Title != "Two Sum" {
		t.Errorf("known URL: title = %q, want Two Sum", got[0].Title)
	}
	if got[1].Title != "Coin-Change" {
		t.Errorf("different slug must keep model title, got %q", got[1].Title)
	}
	if got[2].Title != "Two Sum" {
		t.Errorf("fuzzy title on same slug: got %q, want Two Sum", got[2].Title)
	}
}

func TestResolve_ErrorsYieldEmpty(t *testing.T) {
	r := New(&mockModel{err: errors.New("boom")}, nil, time.Second)
	if got := r.Resolve(context.Background(), []string{"two sum"}); len(got) != 0 {
		t.Errorf("expected empty on error, got %+v", got)
	}

	r = New(&mockModel{block: true}, nil, 20*time.Millisecond)
	if got := r.Resolve(context.Background(), []string{"two sum"}); len(got) != 0 {
		t.Errorf("expected empty on timeout, got %+v", got)
	}
}

func TestResolve_NilModel(t *testing.T) {
	if got := New(nil, nil, 0).Resolve(context.Background(), []string{"two sum"}); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}
