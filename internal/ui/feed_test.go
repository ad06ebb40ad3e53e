package ui

import (
	"testing"
	"time"

	"github.com/rivo/tview"
	"github.com/stretchr/testify/require"

	"agora/internal/client"
	"agora/internal/models"
)

func newFeedFixture(t *testing.T) *FeedScreen {
	t.Helper()
	term := NewUI(&UIConfig{})
	return term.Main.Feed
}

// seedOpenPost puts one post on the feed with one top-level comment (#5)
// shown in the detail pane.
func seedOpenPost(f *FeedScreen) {
	f.setPosts([]models.Post{{ID: 1, Title: "first", User: models.User{Username: "ann"}}})
	f.openPost = 1
	f.comments[1] = []models.Comment{{ID: 5, PostID: 1, Description: "top level", User: models.User{Username: "bob"}}}
	f.renderDetail(1)
}

func TestNestedReplyBumpsParentAndRendersOpenThread(t *testing.T) {
	f := newFeedFixture(t)
	seedOpenPost(f)
	f.expanded[5] = true

	f.AddComment(models.Comment{ID: 9, CommentID: 5, Description: "deeper", User: models.User{Username: "cat"}}, 3)

	require.Equal(t, 3, f.comments[1][0].RepliesCount)
	require.Len(t, f.threads[5], 1)
	require.Equal(t, 9, f.threads[5][0].ID)
	text := f.detail.GetText(true)
	require.Contains(t, text, "deeper")
	require.Contains(t, text, "3 replies")
}

func TestNestedReplyOnCollapsedThreadOnlyBumpsCount(t *testing.T) {
	f := newFeedFixture(t)
	seedOpenPost(f)

	f.AddComment(models.Comment{ID: 9, CommentID: 5, Description: "deeper"}, 1)

	require.Equal(t, 1, f.comments[1][0].RepliesCount)
	require.Empty(t, f.threads[5])
	text := f.detail.GetText(true)
	require.NotContains(t, text, "deeper")
	require.Contains(t, text, "1 replies")
}

func TestNestedReplyForUnloadedParentIsNoop(t *testing.T) {
	f := newFeedFixture(t)
	seedOpenPost(f)

	f.AddComment(models.Comment{ID: 9, CommentID: 77, Description: "orphan"}, 1)

	require.Empty(t, f.threads)
	require.NotContains(t, f.detail.GetText(true), "orphan")
}

func TestSetReactionsReachesThreadComment(t *testing.T) {
	f := newFeedFixture(t)
	seedOpenPost(f)
	f.threads[5] = []models.Comment{{ID: 9, CommentID: 5, Description: "deeper", User: models.User{Username: "cat"}}}
	f.expanded[5] = true
	f.renderDetail(1)

	f.SetReactions(client.ReactionTarget{Kind: "comment", ID: 9}, client.ReactionView{Likes: 4, Dislikes: 1})

	require.Equal(t, 4, f.threads[5][0].NumberOfLikes)
	require.Contains(t, f.detail.GetText(true), "+4 -1")
}

func TestSubmitReplyTargetsCommentWhenChecked(t *testing.T) {
	f := newFeedFixture(t)
	type replyCall struct {
		ID      int
		Type    string
		Content string
	}
	calls := make(chan replyCall, 1)
	f.Handlers.AddReply = func(parentID int, parentType, content string) error {
		calls <- replyCall{ID: parentID, Type: parentType, Content: content}
		return nil
	}

	f.composer.GetFormItemByLabel("Reply to #").(*tview.InputField).SetText("5")
	f.composer.GetFormItemByLabel("To comment").(*tview.Checkbox).SetChecked(true)
	f.composer.GetFormItemByLabel("Reply text").(*tview.InputField).SetText("tiny nitpick")
	f.submitReply()

	select {
	case call := <-calls:
		require.Equal(t, replyCall{ID: 5, Type: "comment", Content: "tiny nitpick"}, call)
	case <-time.After(time.Second):
		t.Fatal("reply was never submitted")
	}
}

func TestToggleThreadFetchesCommentReplies(t *testing.T) {
	f := newFeedFixture(t)
	seedOpenPost(f)
	type repliesCall struct {
		ID   int
		Type string
	}
	calls := make(chan repliesCall, 1)
	f.Handlers.Replies = func(parentID int, parentType string) ([]models.Comment, error) {
		calls <- repliesCall{ID: parentID, Type: parentType}
		return nil, nil
	}

	f.composer.GetFormItemByLabel("Reply to #").(*tview.InputField).SetText("5")
	f.toggleThread()

	select {
	case call := <-calls:
		require.Equal(t, repliesCall{ID: 5, Type: "comment"}, call)
	case <-time.After(time.Second):
		t.Fatal("thread was never requested")
	}
}

func TestToggleThreadCollapsesWithoutRefetch(t *testing.T) {
	f := newFeedFixture(t)
	seedOpenPost(f)
	f.threads[5] = []models.Comment{{ID: 9, CommentID: 5, Description: "deeper"}}
	f.expanded[5] = true
	f.renderDetail(1)
	require.Contains(t, f.detail.GetText(true), "deeper")

	f.composer.GetFormItemByLabel("Reply to #").(*tview.InputField).SetText("5")
	f.toggleThread()

	require.False(t, f.expanded[5])
	require.NotContains(t, f.detail.GetText(true), "deeper")
}
