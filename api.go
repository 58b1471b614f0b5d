package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// APIPostsHandler serves the 20 most recent posts as a JSON array; an empty
// result is always [] rather than null.
func (app *App) APIPostsHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer afterRequestLogging(start, r)

	logger.WithFields(logrus.Fields{
		"method":    r.Method,
		"path":      r.URL.Path,
		"remote_ip": r.RemoteAddr,
	}).Info("APIPostsHandler called")

	posts, err := app.content.RecentPosts(20)
	if err != nil {
		logger.WithError(err).Error("Failed to fetch posts")
		app.metrics.BadRequests.WithLabelValues("api_posts").Inc()
		http.Error(w, "Query execution failed", http.StatusInternalServerError)
		return
	}

	app.metrics.SuccessfulRequests.WithLabelValues("api_posts").Inc()

	w.Header().Set("Content-Type", "application/json")
	if len(posts) == 0 {
		_, err = w.Write([]byte("[]"))
		if err != nil {
			fmt.Print(err.Error())
		}
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	out := make([]APIPost, 0, len(posts))
	for _, p := range posts {
		out = append(out, APIPost{
			ID:      p.ID,
			Title:   p.Title,
			Slug:    p.Slug,
			Excerpt: excerpt(p.Content, 200),
			URL:     fmt.Sprintf("%s://%s/post/%s", scheme, r.Host, p.Slug),
		})
	}

	err = json.NewEncoder(w).Encode(out)
	if err != nil {
		fmt.Print(err.Error())
	}
}

func excerpt(content string, n int) string {
	runes := []rune(content)
	if len(runes) <= n {
		return content
	}
	return string(runes[:n])
}
