package client

import (
	"agora/internal/models"
)

// Forum operations the UI calls directly. They are thin wrappers over the
// REST client that translate "Not logged in" into a forced logout; the push
// channel delivers the resulting broadcasts, so most of them return nothing
// for the caller to render.

// FetchPosts loads the feed for one category; zero means every category.
func (cli *Client) FetchPosts(categoryID int) ([]models.Post, error) {
	posts, err := cli.API.Posts(cli.ctx, categoryID)
	if err != nil {
		cli.authCheck(err)
		return nil, err
	}
	return posts, nil
}

// Categories loads the category list for the selector.
func (cli *Client) Categories() ([]models.Category, error) {
	cats, err := cli.API.Categories(cli.ctx)
	if err != nil {
		cli.authCheck(err)
		return nil, err
	}
	return cats, nil
}

// CreatePost publishes a post. The rendered post arrives for everyone,
// author included, as a push frame.
func (cli *Client) CreatePost(title, content string, categoryIDs []int) error {
	if err := cli.API.CreatePost(cli.ctx, title, content, categoryIDs); err != nil {
		cli.authCheck(err)
		return err
	}
	return nil
}

// Replies fetches the comments under a post or comment.
func (cli *Client) Replies(parentID int, parentType string) ([]models.Comment, error) {
	comments, err := cli.API.Replies(cli.ctx, parentID, parentType)
	if err != nil {
		cli.authCheck(err)
		return nil, err
	}
	return comments, nil
}

// AddReply posts a comment. Like CreatePost, the rendered comment comes
// back over the push channel.
func (cli *Client) AddReply(parentID int, parentType, content string) error {
	if err := cli.API.AddReply(cli.ctx, parentID, parentType, content); err != nil {
		cli.authCheck(err)
		return err
	}
	return nil
}

// React toggles the viewer's reaction on a target. The server decides the
// outcome and broadcasts the new counters; nothing changes locally until
// that frame lands.
func (cli *Client) React(t ReactionTarget, like bool) error {
	var err error
	if like {
		err = cli.API.Like(cli.ctx, t.ID, t.Kind)
	} else {
		err = cli.API.Dislike(cli.ctx, t.ID, t.Kind)
	}
	if err != nil {
		cli.authCheck(err)
		return err
	}
	return nil
}

// MyProfile loads the viewer's profile. Opening the profile leaves the chat
// view, so the open chat is closed the same way the feed switch does it.
func (cli *Client) MyProfile() (*models.User, error) {
	cli.Chat.Close(cli.ctx)
	user, err := cli.API.MyProfile(cli.ctx)
	if err != nil {
		cli.authCheck(err)
		return nil, err
	}
	return user, nil
}
