package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/ganot/accomplish/internal/domain/activity"
	"github.com/ganot/accomplish/internal/domain/project"
)

// ErrUnresolvedProject is returned when a record names a project that was
// not resolved for its batch.
var ErrUnresolvedProject = errors.New("unresolved project")

// ProjectResolver finds or creates a project by its unique name.
type ProjectResolver interface {
	Resolve(ctx context.Context, name string) (*project.Project, bool, error)
}

// Resolution maps the project names of a batch to their ids.
type Resolution struct {
	IDs     map[string]string
	Names   []string
	Created int
}

// ResolveProjects find-or-creates every distinct, non-empty project name
// of acts, in first-seen order. Each name hits the resolver once.
func ResolveProjects(ctx context.Context, resolver ProjectResolver, acts []*activity.Activity) (*Resolution, error) {
	res := &Resolution{IDs: make(map[string]string)}
	for _, act := range acts {
		name := act.Project
		if name == "" {
			continue
		}
		if _, seen := res.IDs[name]; seen {
			continue
		}
		proj, created, err := resolver.Resolve(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("resolving project %q: %w", name, err)
		}
		res.IDs[name] = proj.ID
		res.Names = append(res.Names, name)
		if created {
			res.Created++
		}
	}
	return res, nil
}

// Stamp writes the resolved project id onto every activity. An activity
// whose project is missing from the map fails the whole batch.
func (r *Resolution) Stamp(acts []*activity.Activity) error {
	for _, act := range acts {
		id, ok := r.IDs[act.Project]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnresolvedProject, act.Project)
		}
		act.ProjectID = id
	}
	return nil
}
