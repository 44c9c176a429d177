// Package memdom is an in-memory implementation of the dom interfaces.
//
// Every node gets a numeric ID when it is created and every mutation is
// appended to the owning Document's log. The log is what tests assert on and
// what the live server streams to clients:
//
//	doc := memdom.New()
//	root := doc.CreateElement("div")
//	r.Render(vdom.Div(vdom.Text("hi")), root)
//	for _, m := range doc.Drain() {
//	    fmt.Println(m)
//	}
//
// Listeners are invoked synchronously by Dispatch. There is no bubbling or
// capture phase; the target's own listeners run in registration order.
package memdom
