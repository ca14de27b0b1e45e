package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/url"
	"sync"

	"golang.org/x/exp/jsonrpc2"
)

type Context interface {
	// Get retrieves data from the context.
	Get(key any) any
	// Set saves data in the context.
	Set(key any, val any)
	// JSONRPCRequest returns the JSONRPC request
	JSONRPCRequest() jsonrpc2.Request
	// Context returns the context
	Context() context.Context
	// SetContext sets the context
	SetContext(ctx context.Context)
	// SessionID returns the ID issued on initialize
	SessionID() string
}

var _ Context = (*baseContext)(nil)

type baseContext struct {
	ctx               context.Context
	store             sync.Map
	sessionID         string
	jsonrpcRequest    *jsonrpc2.Request
	jsonUnmarshalFunc JSONUnmarshalFunc
	jsonMarshalFunc   JSONMarshalFunc
}

func (c *baseContext) Get(key any) any {
	v, _ := c.store.Load(key)
	return v
}

func (c *baseContext) Set(key any, val any) {
	c.store.Store(key, val)
}

func (c *baseContext) JSONRPCRequest() jsonrpc2.Request {
	if c.jsonrpcRequest == nil {
		return jsonrpc2.Request{}
	}
	return *c.jsonrpcRequest
}

func (c *baseContext) Context() context.Context {
	return c.ctx
}

func (c *baseContext) SetContext(ctx context.Context) {
	c.ctx = ctx
}

func (c *baseContext) SessionID() string {
	return c.sessionID
}

func (c *baseContext) bind(ctx context.Context, sessionID string, req *jsonrpc2.Request) {
	c.ctx = ctx
	c.sessionID = sessionID
	c.jsonrpcRequest = req
}

func (c *baseContext) reset() {
	c.store.Clear()
	c.jsonrpcRequest = nil
	c.sessionID = ""
	c.ctx = nil
}

// ToolContext is the context for Tool handlers
type ToolContext interface {
	Context
	// Bind binds the tool arguments into i.
	Bind(i any) error
	// ToolName returns the name of the Tool
	ToolName() string
	// Arguments return the arguments passed to the Tool
	Arguments() json.RawMessage
	// String appends plain text content
	String(s string) error
	// JSON appends i encoded as JSON text content
	JSON(i any) error
	// StringResource appends an embedded text resource
	StringResource(uri *url.URL, s string, mimeType string) error
	// JSONResource appends an embedded JSON resource
	JSONResource(uri *url.URL, i any, mimeType string) error
}

var _ ToolContext = (*toolContext)(nil)

type toolContext struct {
	baseContext
	toolName string
	args     json.RawMessage
	dest     *callToolResult
}

func (c *toolContext) ToolName() string {
	return c.toolName
}

func (c *toolContext) Arguments() json.RawMessage {
	return c.args
}

func (c *toolContext) Bind(i any) error {
	if len(c.args) == 0 {
		return nil
	}
	return c.jsonUnmarshalFunc(c.args, i)
}

func (c *toolContext) String(s string) error {
	c.dest.Content = append(c.dest.Content, textContent(s))
	return nil
}

func (c *toolContext) JSON(i any) error {
	b, err := c.jsonMarshalFunc(i)
	if err != nil {
		return err
	}
	return c.String(string(b))
}

func (c *toolContext) StringResource(uri *url.URL, s string, mimeType string) error {
	if mimeType == "" {
		mimeType = "text/plain"
	}
	c.dest.Content = append(c.dest.Content, content{
		Type: "resource",
		Resource: &ResourceContent{
			URI:      uri.String(),
			MimeType: mimeType,
			Text:     s,
		},
	})
	return nil
}

func (c *toolContext) JSONResource(uri *url.URL, i any, mimeType string) error {
	b, err := c.jsonMarshalFunc(i)
	if err != nil {
		return err
	}
	if mimeType == "" {
		mimeType = "application/json"
	}
	return c.StringResource(uri, string(b), mimeType)
}

func (c *toolContext) reset() {
	c.baseContext.reset()
	c.toolName = ""
	c.args = nil
	c.dest = nil
}

func newToolContext(jsonUnmarshalFunc JSONUnmarshalFunc, jsonMarshalFunc JSONMarshalFunc) *toolContext {
	return &toolContext{
		baseContext: baseContext{
			jsonUnmarshalFunc: jsonUnmarshalFunc,
			jsonMarshalFunc:   jsonMarshalFunc,
		},
	}
}

// ResourceContext is the context for resource handlers
type ResourceContext interface {
	Context
	// ResourceURI returns the uri of the resource
	ResourceURI() *url.URL
	// MimeType returns the mime type the resource was registered with
	MimeType() string
	// Param retrieves the path parameter by name
	Param(name string) string
	// String sends plain text content
	String(s string) error
	// JSON sends JSON content
	JSON(i any) error
	// Blob sends blob content
	//
	//  - data: the blob data
	//  - mimeType: (Optional) the mime type of the blob. if not provided, a resource mime type will be used.
	Blob(data []byte, mimeType string) error
}

var _ ResourceContext = (*resourceContext)(nil)

type resourceContext struct {
	baseContext
	uri              *url.URL
	mimeType         string
	pathParams       map[string]string
	base64StringFunc Base64StringFunc
	dest             *readResourceResult
}

func (c *resourceContext) ResourceURI() *url.URL {
	return c.uri
}

func (c *resourceContext) MimeType() string {
	return c.mimeType
}

func (c *resourceContext) Param(name string) string {
	return c.pathParams[name]
}

func (c *resourceContext) String(s string) error {
	mimeType := c.mimeType
	if mimeType == "" {
		mimeType = "text/plain"
	}
	c.dest.Contents = append(c.dest.Contents, ResourceContent{
		URI:      c.uri.String(),
		MimeType: mimeType,
		Text:     s,
	})
	return nil
}

func (c *resourceContext) JSON(i any) error {
	b, err := c.jsonMarshalFunc(i)
	if err != nil {
		return err
	}
	mimeType := c.mimeType
	if mimeType == "" {
		mimeType = "application/json"
	}
	c.dest.Contents = append(c.dest.Contents, ResourceContent{
		URI:      c.uri.String(),
		MimeType: mimeType,
		Text:     string(b),
	})
	return nil
}

func (c *resourceContext) Blob(data []byte, mimeType string) error {
	switch {
	case mimeType != "":
		// do nothing
	case c.mimeType != "":
		mimeType = c.mimeType
	default:
		mimeType = "application/octet-stream"
	}
	c.dest.Contents = append(c.dest.Contents, ResourceContent{
		URI:      c.uri.String(),
		MimeType: mimeType,
		Blob:     c.base64StringFunc(data),
	})
	return nil
}

func (c *resourceContext) reset() {
	c.baseContext.reset()
	c.uri = nil
	c.mimeType = ""
	c.pathParams = nil
	c.dest = nil
}

func newResourceContext(jsonUnmarshalFunc JSONUnmarshalFunc, jsonMarshalFunc JSONMarshalFunc) *resourceContext {
	return &resourceContext{
		baseContext: baseContext{
			jsonUnmarshalFunc: jsonUnmarshalFunc,
			jsonMarshalFunc:   jsonMarshalFunc,
		},
		base64StringFunc: base64.StdEncoding.EncodeToString,
	}
}

// ResourceListContext is the context for resource list handlers
type ResourceListContext interface {
	Context
	// Resources returns the registered resources that are not templates, keyed by URI.
	Resources() map[string]Resource
	// SetResource publishes a concrete resource under uri.
	SetResource(uri string, resource Resource)
}

var _ ResourceListContext = (*resourceListContext)(nil)

type resourceListContext struct {
	baseContext
	resources map[string]Resource
	dest      map[string]Resource
}

func (c *resourceListContext) Resources() map[string]Resource {
	return c.resources
}

func (c *resourceListContext) SetResource(uri string, resource Resource) {
	resource.URI = uri
	c.dest[uri] = resource
}

func (c *resourceListContext) reset() {
	c.baseContext.reset()
	c.resources = nil
	c.dest = nil
}

func newResourceListContext(jsonUnmarshalFunc JSONUnmarshalFunc, jsonMarshalFunc JSONMarshalFunc) *resourceListContext {
	return &resourceListContext{
		baseContext: baseContext{
			jsonUnmarshalFunc: jsonUnmarshalFunc,
			jsonMarshalFunc:   jsonMarshalFunc,
		},
	}
}

// PromptContext is the context for prompt handlers
type PromptContext interface {
	Context
	// PromptName returns the name of the prompt
	PromptName() string
	// Arguments returns the arguments passed to the prompt
	Arguments() map[string]string
	// Param returns one argument, or "" if it was not passed
	Param(name string) string
	// Bind binds the arguments into i.
	Bind(i any) error
	// User appends a user message
	User(text string)
	// Assistant appends an assistant message
	Assistant(text string)
	// String appends a message for the named role
	String(role string, text string) error
}

var _ PromptContext = (*promptContext)(nil)

type promptContext struct {
	baseContext
	promptName string
	args       map[string]string
	dest       *getPromptResult
}

func (c *promptContext) PromptName() string {
	return c.promptName
}

func (c *promptContext) Arguments() map[string]string {
	return c.args
}

func (c *promptContext) Param(name string) string {
	return c.args[name]
}

func (c *promptContext) Bind(i any) error {
	if len(c.args) == 0 {
		return nil
	}
	b, err := c.jsonMarshalFunc(c.args)
	if err != nil {
		return err
	}
	return c.jsonUnmarshalFunc(b, i)
}

func (c *promptContext) User(text string) {
	c.message(PromptRoleUser, text)
}

func (c *promptContext) Assistant(text string) {
	c.message(PromptRoleAssistant, text)
}

func (c *promptContext) String(role string, text string) error {
	r := PromptRoleFromString(role)
	if err := r.Validate(); err != nil {
		return err
	}
	c.message(r, text)
	return nil
}

func (c *promptContext) message(role PromptRole, text string) {
	c.dest.Messages = append(c.dest.Messages, promptMessage{
		Role:    role.String(),
		Content: textContent(text),
	})
}

func (c *promptContext) reset() {
	c.baseContext.reset()
	c.promptName = ""
	c.args = nil
	c.dest = nil
}

func newPromptContext(jsonUnmarshalFunc JSONUnmarshalFunc, jsonMarshalFunc JSONMarshalFunc) *promptContext {
	return &promptContext{
		baseContext: baseContext{
			jsonUnmarshalFunc: jsonUnmarshalFunc,
			jsonMarshalFunc:   jsonMarshalFunc,
		},
	}
}
