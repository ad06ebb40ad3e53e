package models

import "time"

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Post struct {
	ID               int        `json:"id"`
	UUID             string     `json:"uuid"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	UserID           int        `json:"user_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
	Liked            bool       `json:"liked"`
	Disliked         bool       `json:"disliked"`
	NumberOfLikes    int        `json:"number_of_likes"`
	NumberOfDislikes int        `json:"number_of_dislikes"`
	User             User       `json:"user"`
	Categories       []Category `json:"categories"`
	RepliesCount     int        `json:"repliesCount"`
}

// Comment is a reply to a post or to another comment. Exactly one of
// PostID / CommentID is non-zero and names the parent.
type Comment struct {
	ID               int        `json:"id"`
	PostID           int        `json:"post_id"`
	CommentID        int        `json:"comment_id"`
	Description      string     `json:"description"`
	UserID           int        `json:"user_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
	Liked            bool       `json:"liked"`
	Disliked         bool       `json:"disliked"`
	NumberOfLikes    int        `json:"number_of_likes"`
	NumberOfDislikes int        `json:"number_of_dislikes"`
	User             User       `json:"user"`
	RepliesCount     int        `json:"repliesCount"`
}
