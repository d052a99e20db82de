// Package flutterer implements the client controller: it owns the selected
// user and the last fetched snapshot, exposes the actions capability to the
// component tree, and rebuilds the whole tree from scratch after every state
// change. There is no diffing and no incremental merge; every render
// reflects exactly one fetched snapshot.
package flutterer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/flutterer/flutterer/api"
	"github.com/flutterer/flutterer/dom"
	"github.com/flutterer/flutterer/ui"
)

// DefaultUsers is the enumerated user list known at startup. The first entry
// is the initially selected user.
var DefaultUsers = []string{"Andy Wang", "Ben Yan", "Maria Hernandez", "Kenji Sato"}

// noFloot means no floot is open in the modal.
const noFloot = ""

// Controller drives the Flutterer client.
type Controller struct {
	logger *slog.Logger
	rt     AsyncRequester
	users  []string

	mu           sync.Mutex
	selectedUser string
	snapshot     []api.Floot // nil before the first load
	root         *dom.Node
}

// New creates a controller for the given user list. If users is empty,
// DefaultUsers is used.
func New(users []string, rt AsyncRequester, logger *slog.Logger) *Controller {
	if len(users) == 0 {
		users = DefaultUsers
	}
	return &Controller{
		logger:       logger,
		rt:           rt,
		users:        users,
		selectedUser: users[0],
	}
}

// Start issues the initial feed fetch.
func (c *Controller) Start() {
	c.loadFloots(noFloot)
}

// Tree returns the currently mounted tree, or nil before the first render.
func (c *Controller) Tree() *dom.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.root
}

// SelectedUser returns the currently selected user.
func (c *Controller) SelectedUser() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedUser
}

// loadFloots fetches the full floot collection, replaces the snapshot
// wholesale, and re-renders with openID threaded through unchanged.
func (c *Controller) loadFloots(openID string) {
	c.rt.Do(Request{
		Method: http.MethodGet,
		URL:    "/api/floots",
		OnSuccess: func(body []byte) {
			var snapshot []api.Floot
			if err := json.Unmarshal(body, &snapshot); err != nil {
				c.logger.Error("Could not parse floot list", "error", err.Error())
				return
			}
			c.mu.Lock()
			c.snapshot = snapshot
			c.mu.Unlock()
			c.rerender(openID)
		},
	})
}

// rerender discards the previous tree and builds a fresh one from the
// current snapshot. openID is re-resolved against the snapshot by linear
// scan; if the floot no longer exists the modal silently does not render.
func (c *Controller) rerender(openID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var selected *api.Floot
	if openID != noFloot {
		for i := range c.snapshot {
			if c.snapshot[i].ID == openID {
				f := c.snapshot[i]
				selected = &f
				break
			}
		}
	}
	c.root = ui.MainComponent(c.users, c.selectedUser, c.snapshot, selected, c)
}

type userPayload struct {
	Username string `json:"username"`
}

type postPayload struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// ChangeSelectedUser switches the active user and re-renders with no modal
// open. No network call.
func (c *Controller) ChangeSelectedUser(username string) {
	c.mu.Lock()
	c.selectedUser = username
	c.mu.Unlock()
	c.rerender(noFloot)
}

// CreateFloot posts a new floot as the selected user, then refetches. The
// message is sent as typed, empty string included; acceptance is the
// backend's call.
func (c *Controller) CreateFloot(message string) {
	c.rt.Do(Request{
		Method:  http.MethodPost,
		URL:     "/api/floots",
		Payload: postPayload{Username: c.SelectedUser(), Message: message},
		OnSuccess: func([]byte) {
			c.loadFloots(noFloot)
		},
	})
}

// DeleteFloot deletes a floot, then refetches with no floot selected. If the
// modal was open on that floot it closes, since the floot is gone.
func (c *Controller) DeleteFloot(f api.Floot) {
	c.rt.Do(Request{
		Method:  http.MethodPost,
		URL:     fmt.Sprintf("/api/floots/%s/delete", f.ID),
		Payload: userPayload{Username: c.SelectedUser()},
		OnSuccess: func([]byte) {
			c.loadFloots(noFloot)
		},
	})
}

// OpenFlootInModal re-renders with the floot's ID as the open-modal target,
// showing already fetched data. No network call.
func (c *Controller) OpenFlootInModal(f api.Floot) {
	c.rerender(f.ID)
}

// CloseModal re-renders with no floot selected. No network call.
func (c *Controller) CloseModal() {
	c.rerender(noFloot)
}

// CreateComment posts a comment on f, then refetches with f still open so
// the modal shows the new comment.
func (c *Controller) CreateComment(f api.Floot, message string) {
	flootID := f.ID
	c.rt.Do(Request{
		Method:  http.MethodPost,
		URL:     fmt.Sprintf("/api/floots/%s/comments", flootID),
		Payload: postPayload{Username: c.SelectedUser(), Message: message},
		OnSuccess: func([]byte) {
			c.loadFloots(flootID)
		},
	})
}

// DeleteComment deletes a comment, then refetches with the floot still open.
func (c *Controller) DeleteComment(flootID, commentID string) {
	c.rt.Do(Request{
		Method:  http.MethodPost,
		URL:     fmt.Sprintf("/api/floots/%s/comments/%s/delete", flootID, commentID),
		Payload: userPayload{Username: c.SelectedUser()},
		OnSuccess: func([]byte) {
			c.loadFloots(flootID)
		},
	})
}

// ToggleLike is intentionally a no-op beyond logging: the like control is
// wired but likes are never mutated through the UI.
func (c *Controller) ToggleLike(f api.Floot) {
	c.logger.Debug("Like toggled", "floot_id", f.ID)
}
