package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Render Errors (E101-E199)
	// ============================================

	"E101": {
		Category: CategoryRender,
		Message:  "Nil virtual node",
		Detail:   "A nil *VNode reached the reconciler. Drop empty children before building the tree or filter them in the render function.",
	},
	"E102": {
		Category: CategoryRender,
		Message:  "Virtual node has no type",
		Detail:   "Every node needs a tag, text content, or a component type. Build nodes with vdom.CreateElement or the element helpers.",
	},
	"E103": {
		Category: CategoryRender,
		Message:  "Invalid event listener",
		Detail:   "Props whose name starts with \"on\" must hold a *dom.Listener.",
	},
	"E104": {
		Category: CategoryRender,
		Message:  "Live node lacks a required capability",
		Detail:   "The reconciler needed an element or text node but the document returned something else.",
	},
	"E105": {
		Category: CategoryComponent,
		Message:  "Component factory returned nil",
		Detail:   "The factory passed to vdom.Define must return a new, non-nil instance.",
	},
	"E106": {
		Category: CategoryComponent,
		Message:  "Component rendered nil",
		Detail:   "Render must return a node. Return an empty element instead of nil.",
	},
	"E107": {
		Category: CategoryComponent,
		Message:  "State change on an unmounted component",
		Detail:   "SetState was called on an instance that is not attached to a live node.",
	},

	// ============================================
	// Protocol Errors (E201-E299)
	// ============================================

	"E201": {
		Category: CategoryProtocol,
		Message:  "Malformed frame",
		Detail:   "The frame could not be decoded.",
	},
	"E202": {
		Category: CategoryProtocol,
		Message:  "Unknown node",
		Detail:   "The event targets a node ID that is not part of the session document.",
	},
	"E203": {
		Category: CategoryProtocol,
		Message:  "Frame too large",
		Detail:   "The frame exceeds the configured size limit.",
	},
	"E204": {
		Category: CategoryProtocol,
		Message:  "Event listener panicked",
		Detail:   "A listener panicked while handling a client event. The session is closed because its document may be inconsistent.",
	},
	"E205": {
		Category: CategoryProtocol,
		Message:  "Update failed while handling an event",
		Detail:   "A state change triggered by a client event failed to reconcile. The session is closed because its document may be inconsistent.",
	},

	// ============================================
	// Config Errors (E301-E399)
	// ============================================

	"E301": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "vdomkit.json could not be parsed.",
	},
	"E302": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},
}

// GetAllCodes returns all registered error codes in sorted order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for a code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds or replaces an error template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
