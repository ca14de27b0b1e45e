package mcp

import (
	"fmt"
	"net/url"
	"strings"
)

// resourceNode is one segment of the resource routing tree: scheme, then host, then path segments.
type resourceNode struct {
	child map[string]*resourceNode

	// wild marks a {param} segment that matches any value.
	wild      bool
	paramName string

	mimeType string
	handler  ResourceHandlerFunc
}

func newResourceNode() *resourceNode {
	return &resourceNode{child: make(map[string]*resourceNode)}
}

// isParamSegment reports whether a path segment is a {param} placeholder.
func isParamSegment(s string) bool {
	return len(s) > 2 && strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")
}

// isTemplate reports whether the URI has at least one {param} segment.
func isTemplate(uri *url.URL) bool {
	for _, s := range pathSegments(uri) {
		if isParamSegment(s) {
			return true
		}
	}
	return false
}

func pathSegments(uri *url.URL) []string {
	p := strings.Trim(uri.Path, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// matching finds the node serving uri and collects its path parameters.
// Literal segments take precedence over {param} segments.
func (n *resourceNode) matching(uri *url.URL) (*resourceNode, map[string]string, error) {
	r, ok := n.child[uri.Scheme]
	if !ok {
		return nil, nil, fmt.Errorf("scheme '%s' not found", uri.Scheme)
	}
	r, ok = r.child[uri.Host]
	if !ok {
		return nil, nil, fmt.Errorf("host '%s' not found", uri.Host)
	}
	params := make(map[string]string)
	for _, p := range pathSegments(uri) {
		next, ok := r.child[p]
		if !ok {
			next = nil
			for _, v := range r.child {
				if v.wild {
					params[v.paramName] = p
					next = v
					break
				}
			}
		}
		if next == nil {
			return nil, nil, fmt.Errorf("path '%s' not found", p)
		}
		r = next
	}
	if r.handler == nil {
		return nil, nil, fmt.Errorf("'%s' is not registered as a resource", uri.String())
	}
	return r, params, nil
}

// addRoute registers handler for uri, creating intermediate nodes as needed.
func (n *resourceNode) addRoute(uri *url.URL, handler ResourceHandlerFunc, mimeType string) {
	current := n.getOrCreateChild(uri.Scheme).getOrCreateChild(uri.Host)
	for _, segment := range pathSegments(uri) {
		current = current.getOrCreateChild(segment)
	}
	current.handler = handler
	current.mimeType = mimeType
}

func (n *resourceNode) getOrCreateChild(segment string) *resourceNode {
	node, ok := n.child[segment]
	if !ok {
		node = newResourceNode()
		if isParamSegment(segment) {
			node.wild = true
			node.paramName = strings.TrimSuffix(strings.TrimPrefix(segment, "{"), "}")
		}
		n.child[segment] = node
	}
	return node
}

// walk calls fn for every node that serves a resource.
func (n *resourceNode) walk(fn func(*resourceNode)) {
	if n.handler != nil {
		fn(n)
	}
	for _, v := range n.child {
		v.walk(fn)
	}
}
