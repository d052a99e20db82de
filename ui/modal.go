package ui

import (
	"github.com/flutterer/flutterer/api"
	"github.com/flutterer/flutterer/dom"
)

// FlootModal builds the overlay showing one floot in detail: its content,
// the comment list, and a new-comment entry. Deleting the floot from inside
// the modal is not offered, so the card content carries no delete button.
//
// The modal closes on the dedicated close control or on a click landing on
// the dimmed backdrop itself; clicks inside the content box bubble up to the
// backdrop too, so the handler checks the event target is exactly the
// backdrop node.
func FlootModal(f api.Floot, actions Actions) *dom.Node {
	closeButton := dom.Div("modal-close", MaterialIcon("close"))
	closeButton.OnClick = func(e *dom.Event) {
		e.StopPropagation()
		actions.CloseModal()
	}

	content := dom.Div("modal-content",
		closeButton,
		ProfilePicture(f.Username),
		FlootContent(f),
		CommentList(f, actions),
		NewCommentEntry(f, actions),
	)

	backdrop := dom.Div("modal-backdrop", content)
	backdrop.OnClick = func(e *dom.Event) {
		if e.Target == backdrop {
			actions.CloseModal()
		}
	}
	return backdrop
}
