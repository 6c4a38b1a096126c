package services

import (
	"errors"
	"testing"

	"github.com/studyconnect/tutorhub/models"
)

func TestPostLifecycle(t *testing.T) {
	f := newFixture(t)

	post, err := CreatePost(f.db, f.tutee.ID, PostInput{
		Title:            "Looking for a statistics tutor",
		Subject:          "Statistics",
		Description:      "Weekly sessions until June",
		BudgetRange:      "25-35",
		LevelOfEducation: "University",
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	got, err := GetPost(f.db, post.ID)
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if got.Title != post.Title {
		t.Fatalf("stored title = %q, want %q", got.Title, post.Title)
	}

	updated, err := UpdatePost(f.db, post.ID, f.tutee.ID, PostInput{Description: "Twice weekly until June"})
	if err != nil {
		t.Fatalf("update post: %v", err)
	}
	if updated.Description != "Twice weekly until June" {
		t.Fatalf("description not updated: %q", updated.Description)
	}
	if updated.Title != post.Title {
		t.Fatalf("update clobbered an omitted field: title = %q", updated.Title)
	}

	otherUser := createUser(t, f.db, "mallory")
	other := createTutee(t, f.db, otherUser)
	if _, err := UpdatePost(f.db, post.ID, other.ID, PostInput{Title: "hijacked"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign update: got %v, want ErrForbidden", err)
	}
	if err := DeletePost(f.db, post.ID, other.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign delete: got %v, want ErrForbidden", err)
	}
}

func TestListPostsBySubject(t *testing.T) {
	f := newFixture(t)
	subjects := []string{"Mathematics", "Physics", "Mathematics"}
	for i, subject := range subjects {
		_, err := CreatePost(f.db, f.tutee.ID, PostInput{Title: "Post", Subject: subject, Description: "d"})
		if err != nil {
			t.Fatalf("create post %d: %v", i, err)
		}
	}

	all, err := ListPosts(f.db, "", nil)
	if err != nil {
		t.Fatalf("list all posts: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d posts, want 3", len(all))
	}

	maths, err := ListPosts(f.db, "Mathematics", nil)
	if err != nil {
		t.Fatalf("list by subject: %v", err)
	}
	if len(maths) != 2 {
		t.Fatalf("got %d Mathematics posts, want 2", len(maths))
	}

	mine, err := ListPosts(f.db, "", &f.tutee.ID)
	if err != nil {
		t.Fatalf("list by author: %v", err)
	}
	if len(mine) != 3 {
		t.Fatalf("got %d posts for author, want 3", len(mine))
	}
}

func TestDeletePostCascadesFavourites(t *testing.T) {
	f := newFixture(t)
	post, err := CreatePost(f.db, f.tutee.ID, PostInput{Title: "Post", Subject: "Chemistry"})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if err := AddFavouritePost(f.db, f.tutor.ID, post.ID); err != nil {
		t.Fatalf("favourite post: %v", err)
	}

	if err := DeletePost(f.db, post.ID, f.tutee.ID); err != nil {
		t.Fatalf("delete post: %v", err)
	}
	if n := countRows(t, f.db, &models.FavouritePost{}, "post_id = ?", post.ID); n != 0 {
		t.Fatalf("got %d dangling favourite rows, want 0", n)
	}
	if _, err := GetPost(f.db, post.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get deleted post: got %v, want ErrNotFound", err)
	}
}
