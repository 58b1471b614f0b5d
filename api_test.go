package main

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestAPIPostsEmpty(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/posts")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	if strings.TrimSpace(string(body)) != "[]" {
		t.Errorf("Expected empty JSON array, got %q", string(body))
	}
}

func TestAPIPosts(t *testing.T) {
	app, ts := newTestServer(t)
	author := seedUser(t, app, "writer", true)

	long := strings.Repeat("x", 300)
	if _, err := app.content.CreatePost(author.ID, "Long read", long, "general", ""); err != nil {
		t.Fatalf("Failed to create post: %v", err)
	}
	seedPost(t, app, author, "Short note")

	resp, err := http.Get(ts.URL + "/api/posts")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var posts []APIPost
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("Expected 2 posts, got %d", len(posts))
	}

	for _, p := range posts {
		if len([]rune(p.Excerpt)) > 200 {
			t.Errorf("Expected excerpt capped at 200 chars, got %d", len([]rune(p.Excerpt)))
		}
		if !strings.Contains(p.URL, "/post/"+p.Slug) {
			t.Errorf("Expected URL to point at the post page, got %q", p.URL)
		}
	}
}
