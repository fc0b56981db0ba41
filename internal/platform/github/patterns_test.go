package github

import (
	"reflect"
	"testing"
)

func TestExtractIssueKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Fix ABC-42 login bug", "ABC-42"},
		{"feature/ABC-42-login", "ABC-42"},
		{"XY9-100 and ABC-1", "XY9-100"},
		{"no key here", ""},
		{"lowercase abc-42 does not match", ""},
		{"A-1", "A-1"},
		{"1AB-2 partial", "AB-2"},
	}

	for _, tt := range tests {
		if got := ExtractIssueKey(tt.input); got != tt.want {
			t.Errorf("ExtractIssueKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestExtractIssueKeys(t *testing.T) {
	got := ExtractIssueKeys("ABC-1 relates to DEF-2 and ABC-1 again")
	want := []string{"ABC-1", "DEF-2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractIssueKeys() = %v, want %v", got, want)
	}

	if got := ExtractIssueKeys("nothing"); got != nil {
		t.Errorf("expected nil for no matches, got %v", got)
	}
}

func TestExtractClosingReferences(t *testing.T) {
	tests := []struct {
		message string
		want    []int
	}{
		{"fixes #42", []int{42}},
		{"Fixes #42", []int{42}},
		{"closed #7 and resolves #9", []int{7, 9}},
		{"fix: 12", []int{12}},
		{"resolve #3, fixes #3", []int{3}},
		{"close 100", []int{100}},
		{"fixed#5", []int{5}},
		{"nothing to see", nil},
		{"prefix text fixes nothing", nil},
	}

	for _, tt := range tests {
		if got := ExtractClosingReferences(tt.message); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ExtractClosingReferences(%q) = %v, want %v", tt.message, got, tt.want)
		}
	}
}

func TestKeyMatchesNumber(t *testing.T) {
	tests := []struct {
		key    string
		number int
		want   bool
	}{
		{"ABC-42", 42, true},
		{"ABC-42", 7, false},
		{"ABC-042", 42, true}, // numeric comparison, not string
		{"nokey", 42, false},
		{"ABC-", 0, false},
	}

	for _, tt := range tests {
		if got := KeyMatchesNumber(tt.key, tt.number); got != tt.want {
			t.Errorf("KeyMatchesNumber(%q, %d) = %v, want %v", tt.key, tt.number, got, tt.want)
		}
	}
}

func TestParseEventVariant(t *testing.T) {
	tests := []struct {
		header string
		want   EventVariant
	}{
		{"pull_request", EventPullRequest},
		{"issues", EventIssue},
		{"pull_request_review", EventReview},
		{"push", EventPush},
		{"check_run", EventCheckRun},
		{"deployment", EventUnknown},
		{"", EventUnknown},
	}

	for _, tt := range tests {
		if got := ParseEventVariant(tt.header); got != tt.want {
			t.Errorf("ParseEventVariant(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestFindMapping(t *testing.T) {
	integration := &Integration{
		WorkflowMappings: []WorkflowMapping{
			{
				IssueType: "story",
				StatusMappings: []StatusMapping{
					{GitHubEvent: "pull_request", GitHubStatus: "opened", ProjectStatus: "development"},
					{GitHubEvent: "pull_request", GitHubStatus: "any", ProjectStatus: "review"},
					{GitHubEvent: "commit", GitHubStatus: "pushed", ProjectStatus: "released"},
				},
			},
		},
	}

	tests := []struct {
		name   string
		event  string
		action string
		want   string // expected ProjectStatus, "" = no match
	}{
		{"exact match", "pull_request", "opened", "development"},
		{"wildcard fallback", "pull_request", "merged", "review"},
		{"commit match", "commit", "pushed", "released"},
		{"no event match", "review", "submitted", ""},
		{"first match wins", "pull_request", "opened", "development"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := integration.FindMapping(tt.event, tt.action)
			if tt.want == "" {
				if m != nil {
					t.Errorf("expected no mapping, got %+v", m)
				}
				return
			}
			if m == nil || m.ProjectStatus != tt.want {
				t.Errorf("FindMapping(%q, %q) = %+v, want ProjectStatus %q", tt.event, tt.action, m, tt.want)
			}
		})
	}
}
