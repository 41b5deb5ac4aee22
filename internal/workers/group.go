package workers

// Group runs a set of workers in registration order.
type Group struct {
	workers []Worker
}

// NewGroup bundles ws into a Group.
func NewGroup(ws ...Worker) *Group {
	return &Group{workers: ws}
}

// Run starts every worker in the group.
func (g *Group) Run() {
	for _, worker := range g.workers {
		worker.Run()
	}
}
