// Package mcp serves the Model Context Protocol over a jsonrpc2 listener.
package mcp

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/invopop/jsonschema"
	"golang.org/x/exp/jsonrpc2"

	"github.com/miyamo2/amap-flomo-mcp/internal/mcp/transport"
)

// Server is the MCP server instance.
type Server struct {
	name         string
	version      string
	instructions string

	// startupMutex locks the configuration while the server is being set up or running.
	startupMutex sync.RWMutex

	jsonUnmarshalFunc JSONUnmarshalFunc
	jsonMarshalFunc   JSONMarshalFunc
	nowFunc           NowFunc
	logger            *slog.Logger

	capabilities ServerCapabilities

	toolMiddleware  []ToolMiddlewareFunc
	toolContextPool sync.Pool
	tools           map[string]Tool

	resourceMiddleware      []ResourceMiddlewareFunc
	resourceContextPool     sync.Pool
	resources               map[string]Resource
	resourceNode            *resourceNode
	resourceTemplates       map[string]ResourceTemplate
	resourceListHandler     ResourceListHandlerFunc
	resourceListContextPool sync.Pool

	promptContextPool sync.Pool
	prompts           map[string]Prompt

	sessionStore SessionStore
}

// ToolHandlerFunc defines a function to serve Tool requests.
type ToolHandlerFunc func(c ToolContext) error

// ToolMiddlewareFunc defines a function to process Tool middleware.
type ToolMiddlewareFunc func(next ToolHandlerFunc) ToolHandlerFunc

// ResourceHandlerFunc defines a function to serve resource requests.
type ResourceHandlerFunc func(c ResourceContext) error

// ResourceMiddlewareFunc defines a function to process resource middleware.
type ResourceMiddlewareFunc func(next ResourceHandlerFunc) ResourceHandlerFunc

// ResourceListHandlerFunc defines a function to serve resource list requests.
type ResourceListHandlerFunc func(c ResourceListContext) error

// ResourceListMiddlewareFunc defines a function to process resource list middleware.
type ResourceListMiddlewareFunc func(next ResourceListHandlerFunc) ResourceListHandlerFunc

// PromptHandlerFunc defines a function to serve prompts/get requests.
type PromptHandlerFunc func(c PromptContext) error

// DefaultResourceListHandler publishes every registered resource that is not a template.
func DefaultResourceListHandler(c ResourceListContext) error {
	for k, v := range c.Resources() {
		c.SetResource(k, v)
	}
	return nil
}

// JSONUnmarshalFunc defines a function to unmarshal JSON data.
type JSONUnmarshalFunc func(data []byte, v any) error

// JSONMarshalFunc defines a function to marshal JSON data.
type JSONMarshalFunc func(v any) ([]byte, error)

// Base64StringFunc defines a function to encode binary data to a base64 string.
type Base64StringFunc func(data []byte) string

// NowFunc defines a function to get the current time.
type NowFunc func() time.Time

// Option configures the Server.
type Option func(*Server)

// WithVersion sets the server version reported on initialize. Defaults to "1.0.0".
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// WithInstructions sets the usage hint returned on initialize.
func WithInstructions(instructions string) Option {
	return func(s *Server) {
		s.instructions = instructions
	}
}

// WithJSONUnmarshalFunc sets the JSON unmarshal function.
func WithJSONUnmarshalFunc(f JSONUnmarshalFunc) Option {
	return func(s *Server) {
		s.jsonUnmarshalFunc = f
	}
}

// WithJSONMarshalFunc sets the JSON marshal function.
func WithJSONMarshalFunc(f JSONMarshalFunc) Option {
	return func(s *Server) {
		s.jsonMarshalFunc = f
	}
}

// WithNowFunc sets the function to get the current time.
func WithNowFunc(f NowFunc) Option {
	return func(s *Server) {
		s.nowFunc = f
	}
}

// WithSessionStore sets the SessionStore.
func WithSessionStore(store SessionStore) Option {
	return func(s *Server) {
		s.sessionStore = store
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// New creates a new Server.
func New(name string, options ...Option) *Server {
	s := &Server{
		name:                name,
		version:             "1.0.0",
		jsonMarshalFunc:     json.Marshal,
		jsonUnmarshalFunc:   json.Unmarshal,
		nowFunc:             time.Now,
		logger:              slog.Default(),
		tools:               make(map[string]Tool),
		resources:           make(map[string]Resource),
		resourceNode:        newResourceNode(),
		resourceTemplates:   make(map[string]ResourceTemplate),
		resourceListHandler: DefaultResourceListHandler,
		prompts:             make(map[string]Prompt),
		sessionStore:        &InMemorySessionStore{},
	}
	s.lock()
	defer s.startupMutex.Unlock()

	for _, opt := range options {
		opt(s)
	}
	s.toolContextPool = sync.Pool{
		New: func() any {
			return newToolContext(s.jsonUnmarshalFunc, s.jsonMarshalFunc)
		},
	}
	s.resourceContextPool = sync.Pool{
		New: func() any {
			return newResourceContext(s.jsonUnmarshalFunc, s.jsonMarshalFunc)
		},
	}
	s.resourceListContextPool = sync.Pool{
		New: func() any {
			return newResourceListContext(s.jsonUnmarshalFunc, s.jsonMarshalFunc)
		},
	}
	s.promptContextPool = sync.Pool{
		New: func() any {
			return newPromptContext(s.jsonUnmarshalFunc, s.jsonMarshalFunc)
		},
	}
	return s
}

// lock takes the startup mutex or panics if it is held.
func (s *Server) lock() {
	if !s.startupMutex.TryLock() {
		panic(ErrLockingConflicts)
	}
}

type toolOptions struct {
	description string
	annotations *ToolAnnotations
	middlewares []ToolMiddlewareFunc
}

// ToolOption configures the Tool options.
type ToolOption func(*toolOptions)

// ToolWithDescription configures the Tool description.
func ToolWithDescription(description string) ToolOption {
	return func(o *toolOptions) {
		o.description = description
	}
}

// ToolWithAnnotations configures the Tool annotations.
func ToolWithAnnotations(annotations ToolAnnotations) ToolOption {
	return func(o *toolOptions) {
		o.annotations = &annotations
	}
}

// ToolWithMiddleware configures the Tool middleware. The first one runs outermost.
func ToolWithMiddleware(middlewares ...ToolMiddlewareFunc) ToolOption {
	return func(o *toolOptions) {
		o.middlewares = append(o.middlewares, middlewares...)
	}
}

// Tool registers a new Tool.
//
//   - name: the name of the Tool
//   - req: a value of the argument type; its JSON schema becomes the Tool input schema
//   - handler: the handler function for the Tool
//   - options: (optional) the options for the Tool
func (s *Server) Tool(name string, req any, handler ToolHandlerFunc, options ...ToolOption) {
	s.lock()
	defer s.startupMutex.Unlock()

	if s.capabilities.Tools == nil {
		s.capabilities.Tools = &ToolCapability{}
	}
	opts := &toolOptions{}
	for _, o := range options {
		o(opts)
	}
	ref := jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
	}
	schema := ref.Reflect(req)
	schema.Version = ""
	s.tools[name] = Tool{
		Name:        name,
		Description: opts.description,
		InputSchema: schema,
		Annotations: opts.annotations,
		handler:     chain(handler, opts.middlewares),
	}
}

type resourceOptions struct {
	description string
	mimeType    string
	middlewares []ResourceMiddlewareFunc
}

// ResourceOption configures the resource options.
type ResourceOption func(*resourceOptions)

// ResourceWithDescription configures the resource description.
func ResourceWithDescription(description string) ResourceOption {
	return func(o *resourceOptions) {
		o.description = description
	}
}

// ResourceWithMimeType configures the resource MIME type.
func ResourceWithMimeType(mimeType string) ResourceOption {
	return func(o *resourceOptions) {
		o.mimeType = mimeType
	}
}

// ResourceWithMiddleware configures the resource middleware. The first one runs outermost.
func ResourceWithMiddleware(middlewares ...ResourceMiddlewareFunc) ResourceOption {
	return func(o *resourceOptions) {
		o.middlewares = append(o.middlewares, middlewares...)
	}
}

// Resource registers a new resource.
// If the URI contains {param} path segments, it is registered as a resource template.
//
//   - name: the name of the resource
//   - uri: the URI of the resource
//   - handler: the handler function for the resource
//   - options: (optional) the options for the resource
func (s *Server) Resource(name, uri string, handler ResourceHandlerFunc, options ...ResourceOption) {
	s.lock()
	defer s.startupMutex.Unlock()

	if s.capabilities.Resources == nil {
		s.capabilities.Resources = &ResourceCapability{}
	}
	opts := &resourceOptions{}
	for _, o := range options {
		o(opts)
	}
	resourceURI, err := url.Parse(uri)
	if err != nil {
		panic(err)
	}
	s.resourceNode.addRoute(resourceURI, chain(handler, opts.middlewares), opts.mimeType)
	if isTemplate(resourceURI) {
		s.resourceTemplates[uri] = ResourceTemplate{
			URITemplate: uri,
			Name:        name,
			Description: opts.description,
			MimeType:    opts.mimeType,
		}
		return
	}
	s.resources[uri] = Resource{
		URI:         uri,
		Name:        name,
		Description: opts.description,
		MimeType:    opts.mimeType,
	}
}

// ResourceList registers the resources/list handler.
func (s *Server) ResourceList(handler ResourceListHandlerFunc, middleware ...ResourceListMiddlewareFunc) {
	s.lock()
	defer s.startupMutex.Unlock()

	if s.capabilities.Resources == nil {
		s.capabilities.Resources = &ResourceCapability{}
	}
	s.resourceListHandler = chain(handler, middleware)
}

type promptOptions struct {
	description string
	arguments   []PromptArgument
}

// PromptOption configures the prompt options.
type PromptOption func(*promptOptions)

// PromptWithDescription configures the prompt description.
func PromptWithDescription(description string) PromptOption {
	return func(o *promptOptions) {
		o.description = description
	}
}

// PromptWithArguments configures the arguments the prompt accepts.
func PromptWithArguments(arguments ...PromptArgument) PromptOption {
	return func(o *promptOptions) {
		o.arguments = append(o.arguments, arguments...)
	}
}

// Prompt registers a new prompt.
func (s *Server) Prompt(name string, handler PromptHandlerFunc, options ...PromptOption) {
	s.lock()
	defer s.startupMutex.Unlock()

	if s.capabilities.Prompts == nil {
		s.capabilities.Prompts = &PromptCapability{}
	}
	opts := &promptOptions{}
	for _, o := range options {
		o(opts)
	}
	s.prompts[name] = Prompt{
		Name:        name,
		Description: opts.description,
		Arguments:   opts.arguments,
		handler:     handler,
	}
}

// UseInTools adds middleware around every Tool handler.
func (s *Server) UseInTools(middleware ...ToolMiddlewareFunc) {
	s.lock()
	defer s.startupMutex.Unlock()
	s.toolMiddleware = append(s.toolMiddleware, middleware...)
}

// UseInResources adds middleware around every resource handler.
func (s *Server) UseInResources(middleware ...ResourceMiddlewareFunc) {
	s.lock()
	defer s.startupMutex.Unlock()
	s.resourceMiddleware = append(s.resourceMiddleware, middleware...)
}

// chain wraps h so that middlewares[0] runs first.
func chain[H any, M ~func(H) H](h H, middlewares []M) H {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

type startOptions struct {
	ctx      context.Context
	listener jsonrpc2.Listener
	framer   jsonrpc2.Framer
	ready    chan<- struct{}
}

// StartOption configures the startup settings.
type StartOption func(*startOptions)

// StartWithContext sets the context; canceling it stops the server.
func StartWithContext(ctx context.Context) StartOption {
	return func(o *startOptions) {
		o.ctx = ctx
	}
}

// StartWithListener sets the jsonrpc2.Listener. Defaults to stdio.
func StartWithListener(listener jsonrpc2.Listener) StartOption {
	return func(o *startOptions) {
		o.listener = listener
	}
}

// StartWithFramer sets the jsonrpc2.Framer. Defaults to newline-delimited JSON.
func StartWithFramer(framer jsonrpc2.Framer) StartOption {
	return func(o *startOptions) {
		o.framer = framer
	}
}

// StartWithReadySignal closes ready once the server accepts connections.
func StartWithReadySignal(ready chan<- struct{}) StartOption {
	return func(o *startOptions) {
		o.ready = ready
	}
}

// Start serves until the listener is exhausted or the context is canceled.
func (s *Server) Start(options ...StartOption) error {
	s.lock()
	// Locked until the jsonrpc2 server is shut down.
	defer s.startupMutex.Unlock()

	o := &startOptions{
		ctx:    context.Background(),
		framer: transport.DefaultStdioFramer(),
	}
	for _, opt := range options {
		opt(o)
	}
	ctx, cancel := context.WithCancel(o.ctx)
	defer cancel()
	if o.listener == nil {
		o.listener = transport.NewStdio(ctx)
	}
	context.AfterFunc(ctx, func() {
		o.listener.Close()
	})

	for name, tool := range s.tools {
		tool.handler = chain(tool.handler, s.toolMiddleware)
		s.tools[name] = tool
	}
	s.resourceNode.walk(func(n *resourceNode) {
		n.handler = chain(n.handler, s.resourceMiddleware)
	})

	b := &binder{server: s, framer: o.framer}
	srv, err := jsonrpc2.Serve(ctx, o.listener, b)
	if err != nil {
		return err
	}
	s.logger.Info("mcp_server_started", "name", s.name, "version", s.version)
	if o.ready != nil {
		close(o.ready)
	}
	err = srv.Wait()
	b.discardSessions(context.WithoutCancel(ctx))
	s.logger.Info("mcp_server_stopped", "name", s.name)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// compatibility check
var _ jsonrpc2.Binder = (*binder)(nil)

type binder struct {
	server *Server
	framer jsonrpc2.Framer

	mu    sync.Mutex
	conns []*conn
}

func (b *binder) Bind(_ context.Context, _ *jsonrpc2.Connection) (jsonrpc2.ConnectionOptions, error) {
	c := &conn{
		server:   b.server,
		inflight: make(map[string]context.CancelFunc),
	}
	b.mu.Lock()
	b.conns = append(b.conns, c)
	b.mu.Unlock()
	return jsonrpc2.ConnectionOptions{
		Framer:    b.framer,
		Preempter: c,
		Handler:   c,
	}, nil
}

// discardSessions deletes the sessions opened by every connection.
func (b *binder) discardSessions(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.conns {
		if id := c.session(); id != "" {
			if err := b.server.sessionStore.Delete(ctx, id); err != nil {
				b.server.logger.Warn("mcp_session_delete_error", "session", id, "err", err)
			}
		}
	}
	b.conns = nil
}

// compatibility check
var (
	_ jsonrpc2.Handler   = (*conn)(nil)
	_ jsonrpc2.Preempter = (*conn)(nil)
)

// conn is the per-connection state: the session and the requests still running.
type conn struct {
	server *Server

	mu        sync.Mutex
	sessionID string
	inflight  map[string]context.CancelFunc
}

func (c *conn) session() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Preempt handles cancellation ahead of the request queue so it can reach a running request.
func (c *conn) Preempt(_ context.Context, req *jsonrpc2.Request) (interface{}, error) {
	if req.Method != MethodNotificationCancelled {
		return nil, jsonrpc2.ErrNotHandled
	}
	var params cancelledNotificationParams
	if err := c.server.jsonUnmarshalFunc(req.Params, &params); err != nil {
		return nil, jsonrpc2.ErrInvalidParams
	}
	key := fmt.Sprint(params.RequestID)
	c.mu.Lock()
	cancel, ok := c.inflight[key]
	c.mu.Unlock()
	if ok {
		c.server.logger.Debug("mcp_request_cancelled", "id", key, "reason", params.Reason)
		cancel()
	}
	return nil, nil
}

// track registers a cancelable context for a call; done must be called when it finishes.
func (c *conn) track(ctx context.Context, id jsonrpc2.ID) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	key := fmt.Sprint(id.Raw())
	c.mu.Lock()
	c.inflight[key] = cancel
	c.mu.Unlock()
	return ctx, func() {
		c.mu.Lock()
		delete(c.inflight, key)
		c.mu.Unlock()
		cancel()
	}
}

// Handle See: jsonrpc2.Handler.Handle
func (c *conn) Handle(ctx context.Context, req *jsonrpc2.Request) (interface{}, error) {
	if !req.IsCall() {
		c.server.logger.Debug("mcp_notification", "method", req.Method)
		return nil, nil
	}
	ctx, done := c.track(ctx, req.ID)
	defer done()

	start := c.server.nowFunc()
	result, err := c.dispatch(ctx, req)
	c.server.logger.Debug("mcp_request",
		"method", req.Method,
		"session", c.session(),
		"duration_ms", c.server.nowFunc().Sub(start).Milliseconds(),
		"err", err)
	if err != nil {
		return nil, err
	}
	b, err := c.server.jsonMarshalFunc(result)
	if err != nil {
		return nil, jsonrpc2.NewError(codeInternalError, err.Error())
	}
	return json.RawMessage(b), nil
}

func (c *conn) dispatch(ctx context.Context, req *jsonrpc2.Request) (interface{}, error) {
	switch req.Method {
	case MethodInitialize:
		return c.handleInitialize(ctx, req)
	case MethodPing:
		return struct{}{}, nil
	}

	sessionID := c.session()
	if sessionID == "" {
		return nil, ErrSessionNotInitialized
	}
	if _, err := c.server.sessionStore.Context(ctx, sessionID); err != nil {
		return nil, ErrSessionNotInitialized
	}

	switch req.Method {
	case MethodToolsList:
		return c.handleToolsList()
	case MethodToolsCall:
		return c.handleToolsCall(ctx, sessionID, req)
	case MethodResourcesList:
		return c.handleResourcesList(ctx, sessionID, req)
	case MethodResourcesTemplatesList:
		return c.handleResourcesTemplatesList()
	case MethodResourcesRead:
		return c.handleResourcesRead(ctx, sessionID, req)
	case MethodPromptsList:
		return c.handlePromptsList()
	case MethodPromptsGet:
		return c.handlePromptsGet(ctx, sessionID, req)
	default:
		return nil, jsonrpc2.ErrMethodNotFound
	}
}

func (c *conn) handleInitialize(ctx context.Context, req *jsonrpc2.Request) (interface{}, error) {
	var params initializeRequestParams
	if err := c.server.jsonUnmarshalFunc(req.Params, &params); err != nil {
		return nil, jsonrpc2.ErrInvalidParams
	}

	id, err := c.server.sessionStore.Issue(ctx)
	if err != nil {
		return nil, jsonrpc2.NewError(codeInternalError, err.Error())
	}
	c.mu.Lock()
	previous := c.sessionID
	c.sessionID = id
	c.mu.Unlock()
	if previous != "" {
		if err := c.server.sessionStore.Delete(ctx, previous); err != nil {
			c.server.logger.Warn("mcp_session_delete_error", "session", previous, "err", err)
		}
	}

	protocolVersion := params.ProtocolVersion
	if !SupportedProtocolVersions[protocolVersion] {
		protocolVersion = LatestProtocolVersion
	}
	c.server.logger.Info("mcp_session_started",
		"session", id,
		"client", params.ClientInfo.Name,
		"protocol_version", protocolVersion)

	return &initializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities:    c.server.capabilities,
		ServerInfo: implementation{
			Name:    c.server.name,
			Version: c.server.version,
		},
		Instructions: c.server.instructions,
	}, nil
}

func (c *conn) handleToolsList() (interface{}, error) {
	tools := make([]Tool, 0, len(c.server.tools))
	for _, t := range c.server.tools {
		tools = append(tools, t)
	}
	slices.SortFunc(tools, func(a, b Tool) int { return cmp.Compare(a.Name, b.Name) })
	return &listToolsResult{Tools: tools}, nil
}

func (c *conn) handleToolsCall(ctx context.Context, sessionID string, req *jsonrpc2.Request) (interface{}, error) {
	var params callToolRequestParams
	if err := c.server.jsonUnmarshalFunc(req.Params, &params); err != nil {
		return nil, jsonrpc2.ErrInvalidParams
	}
	tool, ok := c.server.tools[params.Name]
	if !ok {
		return nil, jsonrpc2.NewError(codeInvalidParams, fmt.Sprintf("unknown tool: %s", params.Name))
	}

	tc := c.server.toolContextPool.Get().(*toolContext)
	result := &callToolResult{Content: []content{}}
	tc.bind(ctx, sessionID, req)
	tc.toolName = params.Name
	tc.args = params.Arguments
	tc.dest = result
	defer func() {
		tc.reset()
		c.server.toolContextPool.Put(tc)
	}()

	if err := tool.handler(tc); err != nil {
		c.server.logger.Warn("tool_call_error", "tool", params.Name, "err", err)
		return &callToolResult{
			Content: []content{textContent(err.Error())},
			IsError: true,
		}, nil
	}
	return result, nil
}

func (c *conn) handleResourcesList(ctx context.Context, sessionID string, req *jsonrpc2.Request) (interface{}, error) {
	dest := make(map[string]Resource)
	rc := c.server.resourceListContextPool.Get().(*resourceListContext)
	rc.bind(ctx, sessionID, req)
	rc.resources = c.server.resources
	rc.dest = dest
	defer func() {
		rc.reset()
		c.server.resourceListContextPool.Put(rc)
	}()

	if err := c.server.resourceListHandler(rc); err != nil {
		return nil, jsonrpc2.NewError(codeInternalError, err.Error())
	}
	resources := make([]Resource, 0, len(dest))
	for _, r := range dest {
		resources = append(resources, r)
	}
	slices.SortFunc(resources, func(a, b Resource) int { return cmp.Compare(a.URI, b.URI) })
	return &listResourcesResult{Resources: resources}, nil
}

func (c *conn) handleResourcesTemplatesList() (interface{}, error) {
	templates := make([]ResourceTemplate, 0, len(c.server.resourceTemplates))
	for _, t := range c.server.resourceTemplates {
		templates = append(templates, t)
	}
	slices.SortFunc(templates, func(a, b ResourceTemplate) int { return cmp.Compare(a.URITemplate, b.URITemplate) })
	return &listResourceTemplatesResult{ResourceTemplates: templates}, nil
}

func (c *conn) handleResourcesRead(ctx context.Context, sessionID string, req *jsonrpc2.Request) (interface{}, error) {
	var params readResourceRequestParams
	if err := c.server.jsonUnmarshalFunc(req.Params, &params); err != nil {
		return nil, jsonrpc2.ErrInvalidParams
	}
	uri, err := url.Parse(params.URI)
	if err != nil || params.URI == "" {
		return nil, jsonrpc2.ErrInvalidParams
	}
	route, pathParams, err := c.server.resourceNode.matching(uri)
	if err != nil {
		return nil, jsonrpc2.NewError(codeResourceNotFound, fmt.Sprintf("resource not found: %s", err))
	}

	rc := c.server.resourceContextPool.Get().(*resourceContext)
	dest := &readResourceResult{Contents: []ResourceContent{}}
	rc.bind(ctx, sessionID, req)
	rc.uri = uri
	rc.mimeType = route.mimeType
	rc.pathParams = pathParams
	rc.dest = dest
	defer func() {
		rc.reset()
		c.server.resourceContextPool.Put(rc)
	}()

	if err := route.handler(rc); err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return nil, jsonrpc2.NewError(codeResourceNotFound, err.Error())
		}
		return nil, jsonrpc2.NewError(codeInternalError, err.Error())
	}
	return dest, nil
}

func (c *conn) handlePromptsList() (interface{}, error) {
	prompts := make([]Prompt, 0, len(c.server.prompts))
	for _, p := range c.server.prompts {
		prompts = append(prompts, p)
	}
	slices.SortFunc(prompts, func(a, b Prompt) int { return cmp.Compare(a.Name, b.Name) })
	return &listPromptsResult{Prompts: prompts}, nil
}

func (c *conn) handlePromptsGet(ctx context.Context, sessionID string, req *jsonrpc2.Request) (interface{}, error) {
	var params getPromptRequestParams
	if err := c.server.jsonUnmarshalFunc(req.Params, &params); err != nil {
		return nil, jsonrpc2.ErrInvalidParams
	}
	prompt, ok := c.server.prompts[params.Name]
	if !ok {
		return nil, jsonrpc2.NewError(codeInvalidParams, fmt.Sprintf("unknown prompt: %s", params.Name))
	}
	for _, arg := range prompt.Arguments {
		if arg.Required && params.Arguments[arg.Name] == "" {
			return nil, jsonrpc2.NewError(codeInvalidParams, fmt.Sprintf("missing required argument: %s", arg.Name))
		}
	}

	pc := c.server.promptContextPool.Get().(*promptContext)
	dest := &getPromptResult{
		Description: prompt.Description,
		Messages:    []promptMessage{},
	}
	pc.bind(ctx, sessionID, req)
	pc.promptName = params.Name
	pc.args = params.Arguments
	pc.dest = dest
	defer func() {
		pc.reset()
		c.server.promptContextPool.Put(pc)
	}()

	if err := prompt.handler(pc); err != nil {
		return nil, jsonrpc2.NewError(codeInternalError, err.Error())
	}
	return dest, nil
}
