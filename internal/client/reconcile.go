package client

// Reconcile folds a server reaction update into the rendered view. Counters
// are always the server's. The viewer-highlight booleans toggle: an active
// indicator goes dark when the frame is a reaction toggle, an inactive one
// lights up when the server says the viewer holds that reaction. Frames that
// merely redraw content (isLikeAction false) never darken an indicator.
func Reconcile(cur ReactionView, likes, dislikes int, isLikeAction, liked, disliked bool) ReactionView {
	next := ReactionView{
		Likes:         likes,
		Dislikes:      dislikes,
		LikeActive:    cur.LikeActive,
		DislikeActive: cur.DislikeActive,
	}

	if cur.LikeActive && isLikeAction {
		next.LikeActive = false
	} else if !cur.LikeActive && liked {
		next.LikeActive = true
	}

	if cur.DislikeActive && isLikeAction {
		next.DislikeActive = false
	} else if !cur.DislikeActive && disliked {
		next.DislikeActive = true
	}

	return next
}
