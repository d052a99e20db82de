package dom

// Event carries the state of one dispatched click.
type Event struct {
	// Target is the node the click originated on, regardless of which
	// ancestor's handler is currently running.
	Target *Node

	stopped bool
}

// StopPropagation prevents the event from bubbling to ancestor handlers.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Click dispatches a click on target, running handlers from target up
// through its ancestors under root until one stops propagation. It reports
// whether target was found under root.
func Click(root, target *Node) bool {
	path := pathTo(root, target)
	if path == nil {
		return false
	}
	ev := &Event{Target: target}
	for i := len(path) - 1; i >= 0; i-- {
		if h := path[i].OnClick; h != nil {
			h(ev)
			if ev.stopped {
				break
			}
		}
	}
	return true
}

// pathTo returns the chain of nodes from root down to target inclusive, or
// nil if target is not in root's tree.
func pathTo(root, target *Node) []*Node {
	if root == target {
		return []*Node{root}
	}
	for _, c := range root.Children {
		if path := pathTo(c, target); path != nil {
			return append([]*Node{root}, path...)
		}
	}
	return nil
}
