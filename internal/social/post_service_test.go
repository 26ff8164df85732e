package social

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/pluma-social/pluma/internal/annotate"
	"github.com/pluma-social/pluma/internal/models"
)

func TestCreatePostAnnotations(t *testing.T) {
	repo, _, posts := newServices(t)
	ctx := context.Background()

	u1 := seedAccount(t, repo, "u1", true, false)
	u2 := seedAccount(t, repo, "u2", true, false)

	result, err := posts.CreatePost(ctx, u1.ID, "hi @u2 @u2 #news #News", nil, "")
	if err != nil {
		t.Fatalf("CreatePost() error: %v", err)
	}

	if len(result.Mentions) != 1 || result.Mentions[0].ID != u2.ID {
		t.Errorf("Mention set size = %d, want {u2}", len(result.Mentions))
	}
	if len(result.Tags) != 1 || result.Tags[0].Text != "news" {
		t.Errorf("Tag set = %v, want {news}", result.Tags)
	}

	var linkCount int64
	repo.Gorm().Model(&models.PostTag{}).Where("post_id = ?", result.Post.ID).Count(&linkCount)
	if linkCount != 1 {
		t.Errorf("PostTag rows = %d, want 1", linkCount)
	}
	if result.Post.MessageType != models.MessageTypePost {
		t.Errorf("MessageType = %q, want post", result.Post.MessageType)
	}
}

func TestCreatePostSelfMentionDropped(t *testing.T) {
	repo, _, posts := newServices(t)
	ctx := context.Background()

	alice := seedAccount(t, repo, "alice", true, false)

	result, err := posts.CreatePost(ctx, alice.ID, "note to self @alice", nil, "")
	if err != nil {
		t.Fatalf("CreatePost() error: %v", err)
	}
	if len(result.Mentions) != 0 {
		t.Errorf("Self-mention must produce no mentions, got %d", len(result.Mentions))
	}

	var count int64
	repo.Gorm().Model(&models.Mention{}).Where("post_id = ?", result.Post.ID).Count(&count)
	if count != 0 {
		t.Errorf("Mention rows = %d, want 0", count)
	}
}

func TestCreatePostValidation(t *testing.T) {
	repo, _, posts := newServices(t)
	ctx := context.Background()

	alice := seedAccount(t, repo, "alice", true, false)

	if _, err := posts.CreatePost(ctx, alice.ID, "   ", nil, ""); !errors.Is(err, ErrValidation) {
		t.Errorf("CreatePost(blank) = %v, want ErrValidation", err)
	}
	if _, err := posts.CreatePost(ctx, 9999, "hello", nil, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("CreatePost(unknown author) = %v, want ErrNotFound", err)
	}
}

func TestCreateReply(t *testing.T) {
	repo, _, posts := newServices(t)
	ctx := context.Background()

	alice := seedAccount(t, repo, "alice", true, false)
	bob := seedAccount(t, repo, "bob", true, false)

	root, err := posts.CreatePost(ctx, alice.ID, "root", nil, "")
	if err != nil {
		t.Fatalf("CreatePost() error: %v", err)
	}

	reply, err := posts.CreatePost(ctx, bob.ID, "reply", &root.Post.ID, "")
	if err != nil {
		t.Fatalf("CreatePost(reply) error: %v", err)
	}
	if !reply.Post.ParentID.Valid || reply.Post.ParentID.Int64 != root.Post.ID {
		t.Error("Reply must reference its parent")
	}
	if reply.Post.MessageType != models.MessageTypeReply {
		t.Errorf("MessageType = %q, want reply", reply.Post.MessageType)
	}

	missing := int64(9999)
	if _, err := posts.CreatePost(ctx, bob.ID, "orphan", &missing, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("CreatePost(missing parent) = %v, want ErrNotFound", err)
	}
}

func TestReplyToPrivateParentRequiresFollow(t *testing.T) {
	repo, follows, posts := newServices(t)
	ctx := context.Background()

	owner := seedAccount(t, repo, "owner", true, true)
	viewer := seedAccount(t, repo, "viewer", true, false)

	root, err := posts.CreatePost(ctx, owner.ID, "private root", nil, "")
	if err != nil {
		t.Fatalf("CreatePost() error: %v", err)
	}

	if _, err := posts.CreatePost(ctx, viewer.ID, "reply", &root.Post.ID, ""); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("Reply without a confirmed edge = %v, want ErrAccessDenied", err)
	}

	if _, err := follows.RequestFollow(ctx, viewer.ID, owner.ID); err != nil {
		t.Fatalf("RequestFollow() error: %v", err)
	}
	if err := follows.AcceptRequest(ctx, owner.ID, viewer.ID); err != nil {
		t.Fatalf("AcceptRequest() error: %v", err)
	}

	if _, err := posts.CreatePost(ctx, viewer.ID, "reply", &root.Post.ID, ""); err != nil {
		t.Errorf("Reply after acceptance should succeed, got %v", err)
	}
}

func TestEditPostReplacesAnnotations(t *testing.T) {
	repo, _, posts := newServices(t)
	ctx := context.Background()

	alice := seedAccount(t, repo, "alice", true, false)
	bob := seedAccount(t, repo, "bob", true, false)

	created, err := posts.CreatePost(ctx, alice.ID, "hello @bob #x", nil, "")
	if err != nil {
		t.Fatalf("CreatePost() error: %v", err)
	}

	edited, err := posts.EditPost(ctx, alice.ID, created.Post.ID, "hello #y")
	if err != nil {
		t.Fatalf("EditPost() error: %v", err)
	}
	if len(edited.Mentions) != 0 {
		t.Errorf("Mentions after edit = %d, want 0", len(edited.Mentions))
	}
	if len(edited.Tags) != 1 || edited.Tags[0].Text != "y" {
		t.Errorf("Tags after edit = %v, want {y}", edited.Tags)
	}

	var mentionCount int64
	repo.Gorm().Model(&models.Mention{}).Where("post_id = ?", created.Post.ID).Count(&mentionCount)
	if mentionCount != 0 {
		t.Errorf("Mention rows after edit = %d, want 0", mentionCount)
	}

	// Edit back; bob's mention is recreated unseen
	edited, err = posts.EditPost(ctx, alice.ID, created.Post.ID, "@bob")
	if err != nil {
		t.Fatalf("EditPost() error: %v", err)
	}
	if len(edited.Mentions) != 1 || edited.Mentions[0].ID != bob.ID {
		t.Fatal("Expected bob mentioned after editing back")
	}

	var mention models.Mention
	if err := repo.Gorm().
		Where("user_id = ? AND post_id = ?", bob.ID, created.Post.ID).
		First(&mention).Error; err != nil {
		t.Fatalf("Failed to load mention: %v", err)
	}
	if mention.NotifViewed {
		t.Error("Recreated mention must start unseen")
	}
}

func TestEditPostAuthorOnly(t *testing.T) {
	repo, _, posts := newServices(t)
	ctx := context.Background()

	alice := seedAccount(t, repo, "alice", true, false)
	bob := seedAccount(t, repo, "bob", true, false)

	created, err := posts.CreatePost(ctx, alice.ID, "mine", nil, "")
	if err != nil {
		t.Fatalf("CreatePost() error: %v", err)
	}

	if _, err := posts.EditPost(ctx, bob.ID, created.Post.ID, "hijack"); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("EditPost(non-author) = %v, want ErrAccessDenied", err)
	}
}

func TestDeletePostCascadesToDirectReplies(t *testing.T) {
	repo, _, posts := newServices(t)
	ctx := context.Background()

	alice := seedAccount(t, repo, "alice", true, false)
	bob := seedAccount(t, repo, "bob", true, false)

	root, err := posts.CreatePost(ctx, alice.ID, "root", nil, "")
	if err != nil {
		t.Fatalf("CreatePost() error: %v", err)
	}
	reply, err := posts.CreatePost(ctx, bob.ID, "reply", &root.Post.ID, "")
	if err != nil {
		t.Fatalf("CreatePost(reply) error: %v", err)
	}
	nested, err := posts.CreatePost(ctx, alice.ID, "nested", &reply.Post.ID, "")
	if err != nil {
		t.Fatalf("CreatePost(nested) error: %v", err)
	}

	if err := posts.DeletePost(ctx, alice.ID, root.Post.ID); err != nil {
		t.Fatalf("DeletePost() error: %v", err)
	}

	var rootRow, replyRow, nestedRow models.Post
	repo.Gorm().First(&rootRow, root.Post.ID)
	repo.Gorm().First(&replyRow, reply.Post.ID)
	repo.Gorm().First(&nestedRow, nested.Post.ID)

	if rootRow.Active {
		t.Error("Deleted root must be inactive")
	}
	if replyRow.Active {
		t.Error("Direct reply must be inactive after root deletion")
	}
	if !nestedRow.Active {
		t.Error("Cascade covers direct replies only")
	}

	if err := posts.DeletePost(ctx, alice.ID, root.Post.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Second DeletePost() = %v, want ErrNotFound", err)
	}
}

func TestGetPostVisibility(t *testing.T) {
	repo, follows, posts := newServices(t)
	ctx := context.Background()

	owner := seedAccount(t, repo, "owner", true, true)
	viewer := seedAccount(t, repo, "viewer", true, false)

	created, err := posts.CreatePost(ctx, owner.ID, "secret", nil, "")
	if err != nil {
		t.Fatalf("CreatePost() error: %v", err)
	}

	if _, err := posts.GetPost(ctx, viewer.ID, created.Post.ID); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("GetPost(no edge) = %v, want ErrAccessDenied", err)
	}

	// The owner always sees their own post
	if _, err := posts.GetPost(ctx, owner.ID, created.Post.ID); err != nil {
		t.Errorf("GetPost(owner) error: %v", err)
	}

	if _, err := follows.RequestFollow(ctx, viewer.ID, owner.ID); err != nil {
		t.Fatalf("RequestFollow() error: %v", err)
	}
	if err := follows.AcceptRequest(ctx, owner.ID, viewer.ID); err != nil {
		t.Fatalf("AcceptRequest() error: %v", err)
	}

	if _, err := posts.GetPost(ctx, viewer.ID, created.Post.ID); err != nil {
		t.Errorf("GetPost(confirmed follower) error: %v", err)
	}
}

func TestThreadAssembly(t *testing.T) {
	repo, _, posts := newServices(t)
	ctx := context.Background()

	alice := seedAccount(t, repo, "alice", true, false)

	root, err := posts.CreatePost(ctx, alice.ID, "root", nil, "")
	if err != nil {
		t.Fatalf("CreatePost() error: %v", err)
	}
	r1, err := posts.CreatePost(ctx, alice.ID, "first", &root.Post.ID, "")
	if err != nil {
		t.Fatalf("CreatePost() error: %v", err)
	}
	if _, err := posts.CreatePost(ctx, alice.ID, "second", &root.Post.ID, ""); err != nil {
		t.Fatalf("CreatePost() error: %v", err)
	}
	if _, err := posts.CreatePost(ctx, alice.ID, "nested", &r1.Post.ID, ""); err != nil {
		t.Fatalf("CreatePost() error: %v", err)
	}

	node, err := posts.Thread(ctx, alice.ID, root.Post.ID)
	if err != nil {
		t.Fatalf("Thread() error: %v", err)
	}
	if len(node.Replies) != 2 {
		t.Fatalf("Root replies = %d, want 2", len(node.Replies))
	}
	nested := 0
	for _, child := range node.Replies {
		nested += len(child.Replies)
	}
	if nested != 1 {
		t.Errorf("Nested replies = %d, want 1", nested)
	}
}

func TestThreadDepthBound(t *testing.T) {
	repo, follows, _ := newServices(t)
	ctx := context.Background()

	alice := seedAccount(t, repo, "alice", true, false)
	shallow := NewPostService(repo, follows, annotate.NewService(zap.NewNop()), zap.NewNop(), 1)

	root, err := shallow.CreatePost(ctx, alice.ID, "root", nil, "")
	if err != nil {
		t.Fatalf("CreatePost() error: %v", err)
	}
	reply, err := shallow.CreatePost(ctx, alice.ID, "reply", &root.Post.ID, "")
	if err != nil {
		t.Fatalf("CreatePost() error: %v", err)
	}
	if _, err := shallow.CreatePost(ctx, alice.ID, "too deep", &reply.Post.ID, ""); err != nil {
		t.Fatalf("CreatePost() error: %v", err)
	}

	node, err := shallow.Thread(ctx, alice.ID, root.Post.ID)
	if err != nil {
		t.Fatalf("Thread() error: %v", err)
	}
	if len(node.Replies) != 1 {
		t.Fatalf("Root replies = %d, want 1", len(node.Replies))
	}
	if len(node.Replies[0].Replies) != 0 {
		t.Error("Replies beyond the depth bound must be dropped")
	}
}

func TestToggleLike(t *testing.T) {
	repo, _, posts := newServices(t)
	ctx := context.Background()

	alice := seedAccount(t, repo, "alice", true, false)
	bob := seedAccount(t, repo, "bob", true, false)

	created, err := posts.CreatePost(ctx, alice.ID, "likeable", nil, "")
	if err != nil {
		t.Fatalf("CreatePost() error: %v", err)
	}

	liked, err := posts.ToggleLike(ctx, bob.ID, created.Post.ID)
	if err != nil {
		t.Fatalf("ToggleLike() error: %v", err)
	}
	if !liked {
		t.Error("First toggle must like")
	}

	liked, err = posts.ToggleLike(ctx, bob.ID, created.Post.ID)
	if err != nil {
		t.Fatalf("ToggleLike() error: %v", err)
	}
	if liked {
		t.Error("Second toggle must unlike")
	}

	liked, err = posts.ToggleLike(ctx, bob.ID, created.Post.ID)
	if err != nil {
		t.Fatalf("ToggleLike() error: %v", err)
	}
	if !liked {
		t.Error("Third toggle must re-like")
	}

	// Still a single row per pair
	var count int64
	repo.Gorm().Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", bob.ID, created.Post.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("Like rows = %d, want 1", count)
	}
}

func TestTimeline(t *testing.T) {
	repo, follows, posts := newServices(t)
	ctx := context.Background()

	viewer := seedAccount(t, repo, "viewer", true, false)
	followed := seedAccount(t, repo, "followed", true, false)
	stranger := seedAccount(t, repo, "stranger", true, false)
	requested := seedAccount(t, repo, "requested", true, true)

	if _, err := follows.RequestFollow(ctx, viewer.ID, followed.ID); err != nil {
		t.Fatalf("RequestFollow() error: %v", err)
	}
	if _, err := follows.RequestFollow(ctx, viewer.ID, requested.ID); err != nil {
		t.Fatalf("RequestFollow() error: %v", err)
	}

	if _, err := posts.CreatePost(ctx, viewer.ID, "mine", nil, ""); err != nil {
		t.Fatalf("CreatePost() error: %v", err)
	}
	followedPost, err := posts.CreatePost(ctx, followed.ID, "followed post", nil, "")
	if err != nil {
		t.Fatalf("CreatePost() error: %v", err)
	}
	if _, err := posts.CreatePost(ctx, stranger.ID, "stranger post", nil, ""); err != nil {
		t.Fatalf("CreatePost() error: %v", err)
	}
	if _, err := posts.CreatePost(ctx, requested.ID, "pending post", nil, ""); err != nil {
		t.Fatalf("CreatePost() error: %v", err)
	}
	// Replies never show in the timeline
	if _, err := posts.CreatePost(ctx, followed.ID, "a reply", &followedPost.Post.ID, ""); err != nil {
		t.Fatalf("CreatePost() error: %v", err)
	}

	timeline, err := posts.Timeline(ctx, viewer.ID, 1, 10)
	if err != nil {
		t.Fatalf("Timeline() error: %v", err)
	}
	if len(timeline) != 2 {
		t.Fatalf("Timeline size = %d, want 2", len(timeline))
	}
	for _, p := range timeline {
		if p.AuthorID != viewer.ID && p.AuthorID != followed.ID {
			t.Errorf("Timeline contains post by author %d", p.AuthorID)
		}
	}
}

func TestUserPostsGated(t *testing.T) {
	repo, follows, posts := newServices(t)
	ctx := context.Background()

	owner := seedAccount(t, repo, "owner", true, true)
	viewer := seedAccount(t, repo, "viewer", true, false)

	if _, err := posts.CreatePost(ctx, owner.ID, "hidden", nil, ""); err != nil {
		t.Fatalf("CreatePost() error: %v", err)
	}

	if _, err := posts.UserPosts(ctx, viewer.ID, owner.ID, 1, 10); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("UserPosts(no edge) = %v, want ErrAccessDenied", err)
	}

	if _, err := follows.RequestFollow(ctx, viewer.ID, owner.ID); err != nil {
		t.Fatalf("RequestFollow() error: %v", err)
	}
	if err := follows.AcceptRequest(ctx, owner.ID, viewer.ID); err != nil {
		t.Fatalf("AcceptRequest() error: %v", err)
	}

	list, err := posts.UserPosts(ctx, viewer.ID, owner.ID, 1, 10)
	if err != nil {
		t.Fatalf("UserPosts() error: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("UserPosts() = %d posts, want 1", len(list))
	}
}
