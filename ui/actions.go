// Package ui builds the Flutterer client tree. Every builder is a pure
// function from data to a fresh detached fragment; interactivity is wired by
// handlers that close over the actions capability and the specific item they
// render, so rebuilt lists never share handler state.
package ui

import "github.com/flutterer/flutterer/api"

// Actions is the capability object passed down through the component tree.
// It lets components trigger controller-level state changes without holding
// references to controller state.
type Actions interface {
	ChangeSelectedUser(username string)
	CreateFloot(message string)
	DeleteFloot(f api.Floot)
	OpenFlootInModal(f api.Floot)
	CloseModal()
	CreateComment(f api.Floot, message string)
	DeleteComment(flootID, commentID string)

	// ToggleLike is wired into the like control but performs no network
	// call; likes are displayed, never mutated through the UI.
	ToggleLike(f api.Floot)
}

// NopActions ignores every action. Useful for rendering a read-only tree.
type NopActions struct{}

func (NopActions) ChangeSelectedUser(string)       {}
func (NopActions) CreateFloot(string)              {}
func (NopActions) DeleteFloot(api.Floot)           {}
func (NopActions) OpenFlootInModal(api.Floot)      {}
func (NopActions) CloseModal()                     {}
func (NopActions) CreateComment(api.Floot, string) {}
func (NopActions) DeleteComment(string, string)    {}
func (NopActions) ToggleLike(api.Floot)            {}
