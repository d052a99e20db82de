package ui

import (
	"github.com/flutterer/flutterer/api"
	"github.com/flutterer/flutterer/dom"
)

// Comment builds one entry of a floot's comment list.
func Comment(flootID string, c api.Comment, actions Actions) *dom.Node {
	commentID := c.ID
	return dom.Div("comment",
		ProfilePicture(c.Username),
		dom.Div("comment-body",
			dom.Span("comment-author", c.Username),
			dom.Span("comment-message", c.Message),
		),
		DeleteButton(func() {
			actions.DeleteComment(flootID, commentID)
		}),
	)
}

// CommentList builds the floot's comments in insertion order.
func CommentList(f api.Floot, actions Actions) *dom.Node {
	list := dom.Div("comment-list")
	for _, c := range f.Comments {
		list.Append(Comment(f.ID, c, actions))
	}
	return list
}

// NewCommentEntry builds the input row for posting a comment on f. Whatever
// is in the field at click time is sent, including an empty string; the
// backend decides what to accept.
func NewCommentEntry(f api.Floot, actions Actions) *dom.Node {
	input := dom.Input("new-comment-input", "Write a comment...")
	post := dom.Button("post-comment-button", "Post")
	post.OnClick = func(e *dom.Event) {
		actions.CreateComment(f, input.Value)
	}
	return dom.Div("new-comment-entry", input, post)
}

// FlootContent builds the author and message text of a floot.
func FlootContent(f api.Floot) *dom.Node {
	return dom.Div("floot-content",
		dom.Span("floot-author", f.Username),
		dom.Span("floot-message", f.Message),
	)
}

// LikeCommentCount builds the like/comment counter row of a floot card.
func LikeCommentCount(f api.Floot, actions Actions) *dom.Node {
	return dom.Div("like-comment-count",
		LikeCount(f, actions),
		CommentCount(f),
	)
}

// Floot builds one feed card. Clicking the card opens the floot in the
// modal; the nested delete and like controls stop propagation so they never
// trigger that.
func Floot(f api.Floot, actions Actions) *dom.Node {
	card := dom.Div("floot",
		ProfilePicture(f.Username),
		FlootContent(f),
		LikeCommentCount(f, actions),
		DeleteButton(func() {
			actions.DeleteFloot(f)
		}),
	)
	card.OnClick = func(e *dom.Event) {
		actions.OpenFlootInModal(f)
	}
	return card
}

// FlootList builds the feed cards in snapshot order.
func FlootList(floots []api.Floot, actions Actions) *dom.Node {
	list := dom.Div("floot-list")
	for _, f := range floots {
		list.Append(Floot(f, actions))
	}
	return list
}

// NewFlootEntry builds the compose box at the top of the feed.
func NewFlootEntry(selectedUser string, actions Actions) *dom.Node {
	entry := dom.TextArea("new-floot-input", "What's flooting?")
	post := dom.Button("post-floot-button", "Floot")
	post.OnClick = func(e *dom.Event) {
		actions.CreateFloot(entry.Value)
	}
	return dom.Div("new-floot-entry",
		ProfilePicture(selectedUser),
		entry,
		post,
	)
}

// NewsFeed builds the compose box plus the feed.
func NewsFeed(selectedUser string, floots []api.Floot, actions Actions) *dom.Node {
	return dom.Div("news-feed",
		NewFlootEntry(selectedUser, actions),
		FlootList(floots, actions),
	)
}

// AccountSelector builds one button per known user, marking exactly the
// selected one. Each button's handler captures its own label at construction
// time, so handlers stay valid independent of later re-renders.
func AccountSelector(users []string, selectedUser string, actions Actions) *dom.Node {
	sel := dom.Div("account-selector")
	for _, u := range users {
		username := u
		class := "account-button"
		if username == selectedUser {
			class += " selected"
		}
		b := dom.Button(class, username)
		b.OnClick = func(e *dom.Event) {
			actions.ChangeSelectedUser(username)
		}
		sel.Append(b)
	}
	return sel
}

// Sidebar builds the logo and account selector column.
func Sidebar(users []string, selectedUser string, actions Actions) *dom.Node {
	return dom.Div("sidebar",
		dom.Span("logo", "Flutterer"),
		AccountSelector(users, selectedUser, actions),
	)
}

// MainComponent builds the whole client tree from one state snapshot:
// sidebar, news feed, and the modal when a floot is selected.
func MainComponent(users []string, selectedUser string, floots []api.Floot, selected *api.Floot, actions Actions) *dom.Node {
	root := dom.Div("main",
		Sidebar(users, selectedUser, actions),
		NewsFeed(selectedUser, floots, actions),
	)
	if selected != nil {
		root.Append(FlootModal(*selected, actions))
	}
	return root
}
