package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"agora/internal/client"
	"agora/internal/models"
	"agora/internal/utils"
)

// FeedScreen is the forum pane: category selector, post list, a detail view
// with replies, and the composer. It implements client.FeedSurface; pushed
// posts and reaction updates land here.
type FeedScreen struct {
	*UI
	Layout *tview.Flex

	List     *tview.List
	detail   *tview.TextView
	catDrop  *tview.DropDown
	composer *tview.Form

	categories []models.Category

	// selectedCats is the composer's category selection, ordered, no
	// duplicates.
	selectedCats []int

	posts     []models.Post
	comments  map[int][]models.Comment // parent post id -> loaded replies
	threads   map[int][]models.Comment // parent comment id -> loaded replies
	expanded  map[int]bool             // comment ids with their thread shown
	reactions map[client.ReactionTarget]client.ReactionView
	openPost  int // post id shown in the detail pane, 0 when closed
}

func (f *FeedScreen) Init() {
	f.comments = make(map[int][]models.Comment)
	f.threads = make(map[int][]models.Comment)
	f.expanded = make(map[int]bool)
	f.reactions = make(map[client.ReactionTarget]client.ReactionView)

	f.List = tview.NewList()
	f.List.ShowSecondaryText(true).
		SetSelectedBackgroundColor(f.Theme.GetColor("foreground-dark")).
		SetSelectedTextColor(f.Theme.GetColor("primary"))
	f.List.SetBorder(true).
		SetTitle("[ Posts ]").
		SetTitleColor(f.Theme.GetColor("primary")).
		SetBorderColor(f.Theme.GetColor("border")).
		SetBackgroundColor(f.Theme.GetColor("background"))
	f.List.SetSelectedFunc(func(index int, _, _ string, _ rune) {
		f.openDetail(index)
	})
	f.List.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'l':
			f.reactToSelected(true)
			return nil
		case 'd':
			f.reactToSelected(false)
			return nil
		}
		return event
	})

	f.detail = tview.NewTextView()
	f.detail.SetDynamicColors(true).
		SetWordWrap(true)
	f.detail.SetBorder(true).
		SetTitleColor(f.Theme.GetColor("primary")).
		SetBorderColor(f.Theme.GetColor("border")).
		SetBackgroundColor(f.Theme.GetColor("background"))

	f.catDrop = tview.NewDropDown().SetLabel("Category: ")
	f.catDrop.SetFieldBackgroundColor(f.Theme.GetColor("background")).
		SetFieldTextColor(f.Theme.GetColor("foreground"))

	f.composer = tview.NewForm().
		AddInputField("Title", "", 40, nil, nil).
		AddInputField("Content", "", 60, nil, nil).
		AddInputField("Reply to #", "", 8, nil, nil).
		AddCheckbox("To comment", false, nil).
		AddInputField("Reply text", "", 60, nil, nil)
	f.composer.AddButton("Post", f.submitPost).
		AddButton("Reply", f.submitReply).
		AddButton("Thread", f.toggleThread).
		AddButton("+Category", f.addCategory).
		AddButton("-Category", f.removeLastCategory)
	f.composer.SetHorizontal(true).
		SetBorder(true).
		SetTitle("[ Compose ]").
		SetTitleColor(f.Theme.GetColor("primary")).
		SetBorderColor(f.Theme.GetColor("border")).
		SetBackgroundColor(f.Theme.GetColor("background"))

	left := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(f.catDrop, 1, 0, false).
		AddItem(f.List, 0, 1, true)

	top := tview.NewFlex().
		AddItem(left, 0, 1, true).
		AddItem(f.detail, 0, 1, false)

	f.Layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(top, 0, 1, true).
		AddItem(f.composer, 5, 0, false)
}

// Reload fetches categories and the unfiltered feed. Called after login.
func (f *FeedScreen) Reload() {
	go func() {
		cats, err := f.Handlers.Categories()
		if err != nil {
			f.Queue(func() { f.ShowError("Categories", err.Error()) })
			return
		}
		f.Queue(func() { f.setCategories(cats) })
	}()
	f.fetch(0)
}

func (f *FeedScreen) setCategories(cats []models.Category) {
	f.categories = cats
	options := []string{"All"}
	for _, c := range cats {
		options = append(options, c.Name)
	}
	f.catDrop.SetOptions(options, func(_ string, index int) {
		id := 0
		if index > 0 {
			id = f.categories[index-1].ID
		}
		f.fetch(id)
	})
	f.catDrop.SetCurrentOption(0)
}

func (f *FeedScreen) fetch(categoryID int) {
	go func() {
		posts, err := f.Handlers.FetchPosts(categoryID)
		if err != nil {
			f.Queue(func() { f.ShowError("Posts", err.Error()) })
			return
		}
		f.Queue(func() { f.setPosts(posts) })
	}()
}

// setPosts replaces the feed content. The server sends newest first.
func (f *FeedScreen) setPosts(posts []models.Post) {
	f.posts = posts
	f.reactions = make(map[client.ReactionTarget]client.ReactionView)
	f.comments = make(map[int][]models.Comment)
	f.threads = make(map[int][]models.Comment)
	f.expanded = make(map[int]bool)
	f.openPost = 0
	f.detail.SetText("")
	f.List.Clear()
	for _, p := range posts {
		f.reactions[client.ReactionTarget{Kind: "post", ID: p.ID}] = client.ReactionView{
			Likes:         p.NumberOfLikes,
			Dislikes:      p.NumberOfDislikes,
			LikeActive:    p.Liked,
			DislikeActive: p.Disliked,
		}
		f.List.AddItem(postMain(p), f.postSecondary(p), 0, nil)
	}
}

func postMain(p models.Post) string {
	return fmt.Sprintf("#%d %s", p.ID, p.Title)
}

func (f *FeedScreen) postSecondary(p models.Post) string {
	view := f.reactions[client.ReactionTarget{Kind: "post", ID: p.ID}]
	up := "+"
	if view.LikeActive {
		up = "[green]+[-]"
	}
	down := "-"
	if view.DislikeActive {
		down = "[red]-[-]"
	}
	names := make([]string, len(p.Categories))
	for i, c := range p.Categories {
		names[i] = c.Name
	}
	return fmt.Sprintf("  by %s | %s%d %s%d | %d replies | %s | %s",
		p.User.Username, up, view.Likes, down, view.Dislikes, p.RepliesCount,
		strings.Join(names, ", "), utils.FormatDate(p.CreatedAt))
}

func (f *FeedScreen) reactToSelected(like bool) {
	index := f.List.GetCurrentItem()
	if index < 0 || index >= len(f.posts) {
		return
	}
	target := client.ReactionTarget{Kind: "post", ID: f.posts[index].ID}
	go func() {
		// The outcome arrives as a push frame; nothing changes here.
		if err := f.Handlers.React(target, like); err != nil {
			f.Queue(func() { f.ShowError("Reaction", err.Error()) })
		}
	}()
}

func (f *FeedScreen) openDetail(index int) {
	if index < 0 || index >= len(f.posts) {
		return
	}
	post := f.posts[index]
	f.openPost = post.ID
	go func() {
		comments, err := f.Handlers.Replies(post.ID, "post")
		if err != nil {
			f.Queue(func() { f.ShowError("Replies", err.Error()) })
			return
		}
		f.Queue(func() {
			f.comments[post.ID] = comments
			f.renderDetail(post.ID)
		})
	}()
}

func (f *FeedScreen) renderDetail(postID int) {
	var post *models.Post
	for i := range f.posts {
		if f.posts[i].ID == postID {
			post = &f.posts[i]
			break
		}
	}
	if post == nil {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[::b]%s[-:-:-]\n%s\n\n%s\n\n", post.Title, f.postSecondary(*post), post.Description)
	for _, c := range f.comments[postID] {
		f.writeComment(&b, c, 1)
	}
	f.detail.SetTitle(fmt.Sprintf("[ Post #%d ]", postID))
	f.detail.SetText(b.String())
}

// writeComment renders one comment and, when its thread is expanded, the
// replies under it, one indent level per generation.
func (f *FeedScreen) writeComment(b *strings.Builder, c models.Comment, depth int) {
	target := client.ReactionTarget{Kind: "comment", ID: c.ID}
	view, ok := f.reactions[target]
	if !ok {
		view = client.ReactionView{
			Likes: c.NumberOfLikes, Dislikes: c.NumberOfDislikes,
			LikeActive: c.Liked, DislikeActive: c.Disliked,
		}
		f.reactions[target] = view
	}
	pad := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%s[::b]%s[-:-:-] #%d (+%d -%d", pad, c.User.Username, c.ID, view.Likes, view.Dislikes)
	if c.RepliesCount > 0 {
		fmt.Fprintf(b, ", %d replies", c.RepliesCount)
	}
	fmt.Fprintf(b, ")\n%s%s\n\n", pad, c.Description)
	if f.expanded[c.ID] {
		for _, child := range f.threads[c.ID] {
			f.writeComment(b, child, depth+1)
		}
	}
}

func (f *FeedScreen) submitPost() {
	title := f.composer.GetFormItemByLabel("Title").(*tview.InputField).GetText()
	content := f.composer.GetFormItemByLabel("Content").(*tview.InputField).GetText()
	cats := append([]int(nil), f.selectedCats...)
	go func() {
		if err := f.Handlers.CreatePost(title, content, cats); err != nil {
			f.Queue(func() { f.ShowError("New post", err.Error()) })
			return
		}
		f.Queue(func() {
			f.composer.GetFormItemByLabel("Title").(*tview.InputField).SetText("")
			f.composer.GetFormItemByLabel("Content").(*tview.InputField).SetText("")
			f.selectedCats = nil
		})
	}()
}

func (f *FeedScreen) submitReply() {
	parentID, ok := f.replyTarget()
	if !ok {
		return
	}
	content := f.composer.GetFormItemByLabel("Reply text").(*tview.InputField).GetText()
	parentType := "post"
	if f.composer.GetFormItemByLabel("To comment").(*tview.Checkbox).IsChecked() {
		parentType = "comment"
	}
	go func() {
		if err := f.Handlers.AddReply(parentID, parentType, content); err != nil {
			f.Queue(func() { f.ShowError("Reply", err.Error()) })
			return
		}
		f.Queue(func() {
			f.composer.GetFormItemByLabel("Reply text").(*tview.InputField).SetText("")
		})
	}()
}

// toggleThread shows or hides the replies under the comment named in the
// "Reply to #" field. The thread is fetched on first expand and kept.
func (f *FeedScreen) toggleThread() {
	commentID, ok := f.replyTarget()
	if !ok || f.openPost == 0 {
		return
	}
	if f.expanded[commentID] {
		f.expanded[commentID] = false
		f.renderDetail(f.openPost)
		return
	}
	go func() {
		replies, err := f.Handlers.Replies(commentID, "comment")
		if err != nil {
			f.Queue(func() { f.ShowError("Thread", err.Error()) })
			return
		}
		f.Queue(func() {
			f.threads[commentID] = replies
			f.expanded[commentID] = true
			if f.openPost != 0 {
				f.renderDetail(f.openPost)
			}
		})
	}()
}

func (f *FeedScreen) replyTarget() (int, bool) {
	idText := f.composer.GetFormItemByLabel("Reply to #").(*tview.InputField).GetText()
	var id int
	if _, err := fmt.Sscanf(strings.TrimSpace(idText), "%d", &id); err != nil {
		f.ShowError("Reply", "target number must be numeric")
		return 0, false
	}
	return id, true
}

// addCategory appends the selector's current category to the composer
// selection, keeping the set ordered and duplicate free.
func (f *FeedScreen) addCategory() {
	index, _ := f.catDrop.GetCurrentOption()
	if index <= 0 || index-1 >= len(f.categories) {
		return
	}
	id := f.categories[index-1].ID
	for _, existing := range f.selectedCats {
		if existing == id {
			return
		}
	}
	f.selectedCats = append(f.selectedCats, id)
}

func (f *FeedScreen) removeLastCategory() {
	if len(f.selectedCats) == 0 {
		return
	}
	f.selectedCats = f.selectedCats[:len(f.selectedCats)-1]
}

// PrependPost puts a pushed post on top of the feed.
func (f *FeedScreen) PrependPost(p models.Post) {
	f.posts = append([]models.Post{p}, f.posts...)
	f.reactions[client.ReactionTarget{Kind: "post", ID: p.ID}] = client.ReactionView{
		Likes:         p.NumberOfLikes,
		Dislikes:      p.NumberOfDislikes,
		LikeActive:    p.Liked,
		DislikeActive: p.Disliked,
	}
	f.List.InsertItem(0, postMain(p), f.postSecondary(p), 0, nil)
}

// AddComment folds a pushed comment into the detail pane when its parent is
// visible, and carries the parent's fresh reply count. The parent is a post
// when PostID is set, otherwise the comment named by CommentID.
func (f *FeedScreen) AddComment(c models.Comment, numberOfReplies int) {
	if c.PostID != 0 {
		for i := range f.posts {
			if f.posts[i].ID == c.PostID {
				f.posts[i].RepliesCount = numberOfReplies
				f.List.SetItemText(i, postMain(f.posts[i]), f.postSecondary(f.posts[i]))
				break
			}
		}
		if c.PostID == f.openPost {
			// Newest replies go first, matching the server's ordering.
			f.comments[c.PostID] = append([]models.Comment{c}, f.comments[c.PostID]...)
			f.renderDetail(c.PostID)
		}
		return
	}
	if c.CommentID == 0 {
		return
	}
	if parent := f.findComment(c.CommentID); parent != nil {
		parent.RepliesCount = numberOfReplies
	}
	if f.expanded[c.CommentID] {
		f.threads[c.CommentID] = append([]models.Comment{c}, f.threads[c.CommentID]...)
	}
	if f.openPost != 0 {
		f.renderDetail(f.openPost)
	}
}

// findComment locates a loaded comment by id, in the open post's top level
// or in any fetched thread.
func (f *FeedScreen) findComment(id int) *models.Comment {
	top := f.comments[f.openPost]
	for i := range top {
		if top[i].ID == id {
			return &top[i]
		}
	}
	for parent := range f.threads {
		thread := f.threads[parent]
		for i := range thread {
			if thread[i].ID == id {
				return &thread[i]
			}
		}
	}
	return nil
}

// Reactions implements client.FeedSurface.
func (f *FeedScreen) Reactions(t client.ReactionTarget) (client.ReactionView, bool) {
	view, ok := f.reactions[t]
	return view, ok
}

// SetReactions implements client.FeedSurface.
func (f *FeedScreen) SetReactions(t client.ReactionTarget, view client.ReactionView) {
	f.reactions[t] = view
	if t.Kind == "post" {
		for i := range f.posts {
			if f.posts[i].ID == t.ID {
				f.posts[i].NumberOfLikes = view.Likes
				f.posts[i].NumberOfDislikes = view.Dislikes
				f.List.SetItemText(i, postMain(f.posts[i]), f.postSecondary(f.posts[i]))
				break
			}
		}
		if t.ID == f.openPost {
			f.renderDetail(t.ID)
		}
		return
	}
	// Comment update: redraw the open detail if it shows this comment,
	// top level or inside an expanded thread.
	if f.openPost != 0 {
		if c := f.findComment(t.ID); c != nil {
			c.NumberOfLikes = view.Likes
			c.NumberOfDislikes = view.Dislikes
			f.renderDetail(f.openPost)
		}
	}
}

// Reset wipes the feed for logout.
func (f *FeedScreen) Reset() {
	f.posts = nil
	f.categories = nil
	f.selectedCats = nil
	f.comments = make(map[int][]models.Comment)
	f.threads = make(map[int][]models.Comment)
	f.expanded = make(map[int]bool)
	f.reactions = make(map[client.ReactionTarget]client.ReactionView)
	f.openPost = 0
	f.List.Clear()
	f.detail.SetText("")
}
