// Package errors provides structured, coded errors for vdomkit.
//
// Every failure the reconciler or the live server can report has a short
// code (e.g. "E101") that maps to a message and a longer explanation:
//
//	err := errors.New("E103").
//	    WithDetailf("prop %q on <%s> holds %T", name, tag, value).
//	    WithSuggestion("Use vdom.OnClick or dom.NewListener to build handlers")
//
// Errors implement Unwrap, so the standard library's errors.Is and errors.As
// work across wrapped causes. Code lets callers branch on a failure without
// string matching:
//
//	if errors.Code(err) == "E107" { ... }
//
// # Categories
//
//   - render: reconciliation pass failures (bad virtual nodes, bad props)
//   - component: stateful component runtime failures
//   - protocol: wire format failures in the live server
//   - config: configuration loading failures
package errors
