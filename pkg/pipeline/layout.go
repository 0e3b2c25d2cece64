package pipeline

import (
	"fmt"

	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/layout"
)

// GenerateLayout computes the layout of t without caching.
func GenerateLayout(t *family.Tree, opts Options) (*layout.Layout, error) {
	l, err := layout.Compute(t, opts.Layout)
	if err != nil {
		return nil, fmt.Errorf("compute layout: %w", err)
	}
	return l, nil
}
