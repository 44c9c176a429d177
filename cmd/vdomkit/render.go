package main

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vdomkit/internal/demo"
	"github.com/vango-dev/vdomkit/internal/errors"
	"github.com/vango-dev/vdomkit/pkg/dom"
	"github.com/vango-dev/vdomkit/pkg/memdom"
	"github.com/vango-dev/vdomkit/pkg/vdom"
)

func renderCmd() *cobra.Command {
	var (
		clicks    []string
		mutations bool
	)

	cmd := &cobra.Command{
		Use:   "render [app]",
		Short: "Render an app and print its markup",
		Long: `Render a demo app into an in-memory document and print the markup.

Each --click dispatches a click on the first element carrying that
class, in order, before the markup is printed. With --mutations the
document operations each step produced are printed as well.

Apps: ` + strings.Join(demo.Apps, ", ") + `

Examples:
  vdomkit render
  vdomkit render counter --click inc --click inc --mutations
  vdomkit render todo --click add`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: demo.Apps,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "counter"
			if len(args) == 1 {
				name = args[0]
			}
			return runRender(cmd, name, clicks, mutations)
		},
	}

	cmd.Flags().StringArrayVarP(&clicks, "click", "c", nil, "Click the first element with this class (repeatable)")
	cmd.Flags().BoolVarP(&mutations, "mutations", "m", false, "Print the mutations of each step")

	return cmd
}

func runRender(cmd *cobra.Command, name string, clicks []string, mutations bool) error {
	app, err := demo.New(name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	doc := memdom.New()
	root := doc.CreateElement("div")
	doc.Drain()

	r := vdom.NewRenderer(vdom.WithLogger(slog.Default().With("component", "vdom")))
	if err := r.Render(app, root); err != nil {
		return err
	}
	printStep := func(title string) {
		ms := doc.Drain()
		if !mutations {
			return
		}
		fmt.Fprintf(out, "# %s (%d mutations)\n", title, len(ms))
		for _, m := range ms {
			fmt.Fprintf(out, "  %s\n", m)
		}
	}
	printStep("render")

	for _, cls := range clicks {
		el := findByClass(root, cls)
		if el == nil {
			return errors.Newf(errors.CategoryCLI, "no element with class %q", cls).
				WithSuggestion("Run without --click to see the markup")
		}
		if err := doc.Dispatch(el, dom.Event{Type: "click"}); err != nil {
			return err
		}
		if err := r.TakeError(); err != nil {
			return err
		}
		printStep("click ." + cls)
	}

	fmt.Fprintln(out, memdom.InnerHTML(root))
	return nil
}

// findByClass returns the first element in document order whose class list
// contains cls.
func findByClass(n dom.Node, cls string) dom.Element {
	if el, ok := n.(*memdom.Element); ok {
		if v, ok := el.Attribute("class"); ok && slices.Contains(strings.Fields(v), cls) {
			return el
		}
	}
	for _, c := range n.ChildNodes() {
		if found := findByClass(c, cls); found != nil {
			return found
		}
	}
	return nil
}
