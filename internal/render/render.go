package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/a-h/templ"
	"github.com/tkilaker/magazine/internal/magazine"
)

// ErrorImage is the static asset referenced by ErrorView
const ErrorImage = "images/oops.gif"

// News renders p into region. A nil payload renders the error view.
func News(ctx context.Context, region *Region, p *magazine.Payload) error {
	if p == nil {
		return Error(ctx, region)
	}
	return into(ctx, region, NewsView(p))
}

// Error renders the fixed error view into region
func Error(ctx context.Context, region *Region) error {
	return into(ctx, region, ErrorView())
}

// into renders c fully before touching the region, so a failed render
// leaves the previous content in place.
func into(ctx context.Context, region *Region, c templ.Component) error {
	var b strings.Builder
	if err := c.Render(ctx, &b); err != nil {
		return fmt.Errorf("failed to render region %q: %w", region.ID, err)
	}
	region.Replace(b.String())
	return nil
}
