package repository

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

const longDescription = "We are hiring a backend engineer to build messaging infrastructure for our alumni network platform."

func TestJobPostCreate(t *testing.T) {
	db := testDB(t)
	repo := NewJobPostRepo(db)
	seedUser(t, db, "alice")

	post, err := repo.Create(ctx(), "alice", longDescription, []string{"https://img.example.com/a.png"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.PostID == "" || len(post.PostID) != 36 {
		t.Fatalf("post id = %q, want a uuid", post.PostID)
	}

	var urls []string
	if err := json.Unmarshal(post.ImageURLs, &urls); err != nil {
		t.Fatalf("image urls not valid JSON: %v", err)
	}
	if len(urls) != 1 || urls[0] != "https://img.example.com/a.png" {
		t.Fatalf("urls = %v", urls)
	}

	if _, err := repo.Create(ctx(), "ghost", longDescription, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("create for unknown user err = %v, want ErrNotFound", err)
	}
}

func TestJobPostLikeOnce(t *testing.T) {
	db := testDB(t)
	repo := NewJobPostRepo(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	post, err := repo.Create(ctx(), "alice", longDescription, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Like(ctx(), post.PostID, bob.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if err := repo.Like(ctx(), post.PostID, bob.ID); !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("second like err = %v, want ErrAlreadyLiked", err)
	}
	// A different user may still like the post.
	if err := repo.Like(ctx(), post.PostID, alice.ID); err != nil {
		t.Fatalf("other user like: %v", err)
	}
	if err := repo.Like(ctx(), "no-such-post", bob.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("like missing post err = %v, want ErrNotFound", err)
	}
}

func TestJobPostComments(t *testing.T) {
	db := testDB(t)
	repo := NewJobPostRepo(db)
	seedUser(t, db, "alice")
	seedUser(t, db, "bob")

	post, err := repo.Create(ctx(), "alice", longDescription, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.AddComment(ctx(), post.PostID, "bob", "interested!"); err != nil {
		t.Fatalf("comment: %v", err)
	}
	if _, err := repo.AddComment(ctx(), post.PostID, "alice", "DM me"); err != nil {
		t.Fatalf("comment: %v", err)
	}

	comments, err := repo.Comments(ctx(), post.PostID)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(comments) != 2 || comments[0].Content != "interested!" || comments[1].Content != "DM me" {
		t.Fatalf("comments = %+v, want insertion order", comments)
	}
}

func TestJobPostDeleteOwnerOnly(t *testing.T) {
	db := testDB(t)
	repo := NewJobPostRepo(db)
	seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	post, err := repo.Create(ctx(), "alice", longDescription, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Like(ctx(), post.PostID, bob.ID); err != nil {
		t.Fatalf("like: %v", err)
	}

	if err := repo.DeleteByUser(ctx(), post.PostID, "bob"); !errors.Is(err, ErrNotPostOwner) {
		t.Fatalf("non-owner delete err = %v, want ErrNotPostOwner", err)
	}
	if err := repo.DeleteByUser(ctx(), post.PostID, "alice"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := repo.GetByPostID(ctx(), post.PostID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("post survived deletion: %v", err)
	}
}

func TestJobPostSearchDateRange(t *testing.T) {
	db := testDB(t)
	repo := NewJobPostRepo(db)
	seedUser(t, db, "alice")

	at := func(ts time.Time) string {
		t.Helper()
		post, err := repo.Create(ctx(), "alice", longDescription, nil)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := db.Model(post).Update("created_at", ts).Error; err != nil {
			t.Fatalf("set created_at: %v", err)
		}
		return post.PostID
	}

	day := func(s string) time.Time {
		ts, err := time.Parse("2006-01-02", s)
		if err != nil {
			t.Fatalf("parse %s: %v", s, err)
		}
		return ts
	}

	inside := at(day("2026-03-10").Add(15 * time.Hour))
	lastMoment := at(day("2026-03-11").Add(23*time.Hour + 59*time.Minute))
	// Exactly midnight of the day after the range ends.
	at(day("2026-03-12"))

	// A caller asking for posts up to 2026-03-11 passes the start of the
	// next day as the exclusive upper bound.
	got, total, err := repo.Search(ctx(), JobPostSearchQuery{
		From: day("2026-03-10"),
		To:   day("2026-03-12"),
		Page: 0,
		Size: 10,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Fatalf("matched %d/%d, want the two posts inside the range", len(got), total)
	}
	for _, p := range got {
		if p.PostID != inside && p.PostID != lastMoment {
			t.Fatalf("unexpected post %s in range", p.PostID)
		}
	}
}

func TestJobPostSearchKeyword(t *testing.T) {
	db := testDB(t)
	repo := NewJobPostRepo(db)
	seedUser(t, db, "alice")

	backend := longDescription
	frontend := "Looking for a frontend developer with strong design sense to join our campus recruiting product team."
	if _, err := repo.Create(ctx(), "alice", backend, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(ctx(), "alice", frontend, nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, total, err := repo.Search(ctx(), JobPostSearchQuery{Keyword: "BACKEND", Page: 0, Size: 10})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 1 || len(got) != 1 {
		t.Fatalf("search matched %d/%d, want exactly the backend post", len(got), total)
	}

	got, total, err = repo.Search(ctx(), JobPostSearchQuery{Page: 0, Size: 10})
	if err != nil {
		t.Fatalf("search all: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Fatalf("unfiltered search = %d/%d, want 2", len(got), total)
	}
	// Newest first.
	if got[0].Description != frontend {
		t.Fatalf("got[0] = %q, want the newer post first", got[0].Description)
	}
}
