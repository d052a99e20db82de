package ui

import (
	"fmt"
	"strconv"

	"github.com/flutterer/flutterer/api"
	"github.com/flutterer/flutterer/dom"
)

// ProfilePicture builds the avatar for a username. Images live under a fixed
// path convention; a missing file renders as a broken image, not an error.
func ProfilePicture(username string) *dom.Node {
	return dom.Img("profile-picture", fmt.Sprintf("img/%s.jpg", username))
}

// MaterialIcon builds an icon-font glyph.
func MaterialIcon(name string) *dom.Node {
	n := dom.New("i", map[string]string{"class": "material-icons"})
	n.Text = name
	return n
}

// LikeCount builds the like control with the floot's like count. Clicking it
// must not open the parent card's modal, so the handler stops propagation
// before handing off to the (stubbed) like toggle.
func LikeCount(f api.Floot, actions Actions) *dom.Node {
	n := dom.Div("like-count",
		MaterialIcon("favorite_border"),
		dom.Span("count", strconv.Itoa(f.Likes)),
	)
	n.OnClick = func(e *dom.Event) {
		e.StopPropagation()
		actions.ToggleLike(f)
	}
	return n
}

// CommentCount builds the comment counter. The count is the size of the
// floot's comment mapping, recomputed on every render.
func CommentCount(f api.Floot) *dom.Node {
	return dom.Div("comment-count",
		MaterialIcon("mode_comment"),
		dom.Span("count", strconv.Itoa(len(f.Comments))),
	)
}

// DeleteButton builds a delete control that invokes onDelete. The handler
// stops propagation so the click never reaches the parent card's open-modal
// handler.
func DeleteButton(onDelete func()) *dom.Node {
	n := dom.Div("delete-button", MaterialIcon("delete"))
	n.OnClick = func(e *dom.Event) {
		e.StopPropagation()
		onDelete()
	}
	return n
}
