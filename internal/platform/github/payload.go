package github

import (
	"encoding/json"
	"fmt"
)

// DeliveryHeader is the header carrying the provider's unique delivery id.
const DeliveryHeader = "X-GitHub-Delivery"

// EventHeader is the header carrying the event type name.
const EventHeader = "X-GitHub-Event"

// rawPayload mirrors the subset of the GitHub webhook payload the tracker
// consumes. Everything else stays in the stored raw body.
type rawPayload struct {
	Action     string `json:"action"`
	Repository struct {
		FullName string `json:"full_name"`
		Name     string `json:"name"`
		Owner    struct {
			Login string `json:"login"`
		} `json:"owner"`
	} `json:"repository"`
	PullRequest *struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
		State  string `json:"state"`
		Merged bool   `json:"merged"`
		Head   struct {
			Ref string `json:"ref"`
		} `json:"head"`
		Base struct {
			Ref string `json:"ref"`
		} `json:"base"`
		HTMLURL string `json:"html_url"`
	} `json:"pull_request"`
	Issue *struct {
		Number  int    `json:"number"`
		Title   string `json:"title"`
		State   string `json:"state"`
		HTMLURL string `json:"html_url"`
	} `json:"issue"`
	Review *struct {
		State string `json:"state"`
		User  struct {
			Login string `json:"login"`
		} `json:"user"`
	} `json:"review"`
	Commits []struct {
		ID      string `json:"id"`
		Message string `json:"message"`
		Author  struct {
			Name string `json:"name"`
		} `json:"author"`
	} `json:"commits"`
	CheckRun *struct {
		Name       string `json:"name"`
		Status     string `json:"status"`
		Conclusion string `json:"conclusion"`
	} `json:"check_run"`
}

// ParsePayload extracts the typed projections for a delivery. The raw body
// is kept verbatim on the record; the projections exist so the processor
// and the read API never re-parse provider JSON.
func ParsePayload(eventType string, body []byte) (*Webhook, error) {
	var raw rawPayload
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse webhook payload: %w", err)
	}

	w := &Webhook{
		EventType: eventType,
		Action:    raw.Action,
		Repository: RepositorySnapshot{
			FullName: raw.Repository.FullName,
			Owner:    raw.Repository.Owner.Login,
			Name:     raw.Repository.Name,
		},
		RawPayload: body,
	}

	if raw.PullRequest != nil {
		w.PullRequest = &PullRequestInfo{
			Number:     raw.PullRequest.Number,
			Title:      raw.PullRequest.Title,
			State:      raw.PullRequest.State,
			HeadBranch: raw.PullRequest.Head.Ref,
			BaseBranch: raw.PullRequest.Base.Ref,
			Merged:     raw.PullRequest.Merged,
			HTMLURL:    raw.PullRequest.HTMLURL,
		}
	}
	if raw.Issue != nil {
		w.Issue = &IssueInfo{
			Number:  raw.Issue.Number,
			Title:   raw.Issue.Title,
			State:   raw.Issue.State,
			HTMLURL: raw.Issue.HTMLURL,
		}
	}
	if raw.Review != nil {
		w.Review = &ReviewInfo{
			State:    raw.Review.State,
			Reviewer: raw.Review.User.Login,
		}
	}
	for _, c := range raw.Commits {
		w.Commits = append(w.Commits, CommitInfo{
			SHA:     c.ID,
			Message: c.Message,
			Author:  c.Author.Name,
		})
	}
	if raw.CheckRun != nil {
		w.CheckRun = &CheckRunInfo{
			Name:       raw.CheckRun.Name,
			Status:     raw.CheckRun.Status,
			Conclusion: raw.CheckRun.Conclusion,
		}
	}

	return w, nil
}
