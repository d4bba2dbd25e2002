package problem

import (
	"reflect"
	"testing"
)

func TestDetectBundles(t *testing.T) {
	text := "I was asked reverse a linked list and a variation of coin change problem. Also Two  Sum."
	got := DetectBundles(text)

	var questions []string
	for _, b := range got {
		questions = append(questions, b.Question)
	}
	want := []string{"reverse a linked list", "coin change", "two sum"}
	if !reflect.DeepEqual(questions, want) {
		t.Fatalf("questions = %v, want %v", questions, want)
	}
	if !reflect.DeepEqual(got[0].Queries, []string{"reverse a linked list", "reverse a linked list leetcode"}) {
		t.Errorf("queries = %v", got[0].Queries)
	}
}

func TestDetectBundles_GenericPhrase(t *testing.T) {
	got := DetectBundles("They gave me the classic trapping rain water problem.")
	if len(got) != 1 || got[0].Question != "trapping rain water" {
		t.Errorf("got %+v", got)
	}
}

func TestDetectBundles_None(t *testing.T) {
	if got := DetectBundles("we talked about my internship and the problem was vague"); len(got) != 0 {
		t.Errorf("got %+v", got)
	}
	if got := DetectBundles(""); len(got) != 0 {
		t.Errorf("got %+v", got)
	}
}
