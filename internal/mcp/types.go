package mcp

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

const (
	ProtocolVersion20250326 string = "2025-03-26"
	ProtocolVersion20241105 string = "2024-11-05"
	ProtocolVersion20241007 string = "2024-10-07"
	LatestProtocolVersion          = ProtocolVersion20250326
)

var SupportedProtocolVersions = map[string]bool{
	LatestProtocolVersion:   true,
	ProtocolVersion20241105: true,
	ProtocolVersion20241007: true,
}

// JSONRPCVersion is the JSON-RPC version spoken on the wire.
const JSONRPCVersion = "2.0"

const (
	// MethodInitialize Initiates connection and negotiates protocol capabilities.
	// https://modelcontextprotocol.io/specification/2024-11-05/basic/lifecycle/#initialization
	MethodInitialize string = "initialize"

	// MethodPing Verifies connection liveness between client and server.
	// https://modelcontextprotocol.io/specification/2024-11-05/basic/utilities/ping/
	MethodPing string = "ping"

	// MethodResourcesList Lists all available server resources.
	// https://modelcontextprotocol.io/specification/2024-11-05/server/resources/
	MethodResourcesList string = "resources/list"

	// MethodResourcesTemplatesList Provides URI templates for constructing resource URIs.
	MethodResourcesTemplatesList string = "resources/templates/list"

	// MethodResourcesRead retrieves content of a specific resource by URI.
	MethodResourcesRead string = "resources/read"

	// MethodPromptsList lists all available prompt templates.
	// https://modelcontextprotocol.io/specification/2024-11-05/server/prompts/
	MethodPromptsList string = "prompts/list"

	// MethodPromptsGet Retrieves a specific prompt template with filled parameters.
	MethodPromptsGet string = "prompts/get"

	// MethodToolsList Lists all available executable tools.
	// https://modelcontextprotocol.io/specification/2024-11-05/server/tools/
	MethodToolsList string = "tools/list"

	// MethodToolsCall Invokes a specific Tool with provided parameters.
	MethodToolsCall string = "tools/call"

	MethodNotificationInitialized = "notifications/initialized"

	// MethodNotificationCancelled asks the server to abandon an in-flight request.
	// https://modelcontextprotocol.io/specification/2025-03-26/basic/utilities/cancellation
	MethodNotificationCancelled = "notifications/cancelled"
)

// implementation describes the name and version of an MCP implementation.
type implementation struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// initializeRequestParams sent from the client to the server when it first connects.
type initializeRequestParams struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ClientInfo      implementation `json:"clientInfo"`
}

// initializeResult sent from the server after receiving an initialize request from the client.
type initializeResult struct {
	// ProtocolVersion is the version the server wants to use.
	// If the client cannot support this version, it MUST disconnect.
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      implementation     `json:"serverInfo"`
	Instructions    string             `json:"instructions,omitempty"`
}

// ServerCapabilities is the set of features the server announces on initialize.
type ServerCapabilities struct {
	Prompts   *PromptCapability   `json:"prompts,omitempty"`
	Resources *ResourceCapability `json:"resources,omitempty"`
	Tools     *ToolCapability     `json:"tools,omitempty"`
}

// PromptCapability represents server capabilities for prompts.
type PromptCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// ResourceCapability represents server capabilities for resources.
type ResourceCapability struct {
	Subscribe   bool `json:"subscribe,omitempty"`
	ListChanged bool `json:"listChanged,omitempty"`
}

// ToolCapability represents server capabilities for tools.
type ToolCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// cancelledNotificationParams is sent by the client to abandon a request it issued.
type cancelledNotificationParams struct {
	RequestID any    `json:"requestId"`
	Reason    string `json:"reason,omitempty"`
}

// Tool defines a Tool that the client can call.
type Tool struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
	Annotations *ToolAnnotations   `json:"annotations,omitempty"`

	handler ToolHandlerFunc
}

// ToolAnnotations represents additional properties describing a Tool to clients.
//
// NOTE: all properties in ToolAnnotations are **hints**.
type ToolAnnotations struct {
	Title           string `json:"title,omitempty"`
	ReadOnlyHint    bool   `json:"readOnlyHint,omitempty"`
	DestructiveHint bool   `json:"destructiveHint,omitempty"`
	IdempotentHint  bool   `json:"idempotentHint,omitempty"`
	OpenWorldHint   bool   `json:"openWorldHint,omitempty"`
}

type listToolsResult struct {
	Tools []Tool `json:"tools"`
}

// callToolRequestParams is used by the client to invoke a Tool provided by the server.
type callToolRequestParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// callToolResult is the reply to tools/call. IsError reports a failure inside the Tool itself.
type callToolResult struct {
	Content []content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// content is one entry of a tool result or a prompt message.
type content struct {
	Type     string           `json:"type"`
	Text     string           `json:"text,omitempty"`
	Resource *ResourceContent `json:"resource,omitempty"`
}

func textContent(s string) content {
	return content{Type: "text", Text: s}
}

// ResourceContent is the body of a resource, either text or base64 blob.
type ResourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"`
}

// Resource that the server is capable of reading.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ResourceTemplate describes a family of resources addressed by an RFC 6570 URI template.
type ResourceTemplate struct {
	URITemplate string `json:"uriTemplate"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

type listResourcesResult struct {
	Resources []Resource `json:"resources"`
}

type listResourceTemplatesResult struct {
	ResourceTemplates []ResourceTemplate `json:"resourceTemplates"`
}

type readResourceRequestParams struct {
	URI string `json:"uri"`
}

type readResourceResult struct {
	Contents []ResourceContent `json:"contents"`
}

// Prompt is a message template the client can fill in.
type Prompt struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`

	handler PromptHandlerFunc
}

// PromptArgument describes one argument a Prompt accepts.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

type listPromptsResult struct {
	Prompts []Prompt `json:"prompts"`
}

type getPromptRequestParams struct {
	Name      string            `json:"name"`
	Arguments map[string]string `json:"arguments,omitempty"`
}

type getPromptResult struct {
	Description string          `json:"description,omitempty"`
	Messages    []promptMessage `json:"messages"`
}

type promptMessage struct {
	Role    string  `json:"role"`
	Content content `json:"content"`
}

// PromptRole is the speaker of a prompt message.
type PromptRole int

const (
	PromptRoleUnknown PromptRole = iota - 1
	PromptRoleUser
	PromptRoleAssistant
)

// Validate returns ErrInvalidPromptRole for anything but user and assistant.
func (r PromptRole) Validate() error {
	switch r {
	case PromptRoleUser, PromptRoleAssistant:
		return nil
	}
	return ErrInvalidPromptRole
}

func (r PromptRole) String() string {
	switch r {
	case PromptRoleUser:
		return "user"
	case PromptRoleAssistant:
		return "assistant"
	}
	return "unknown"
}

// PromptRoleFromString parses a role name; unrecognised names yield PromptRoleUnknown.
func PromptRoleFromString(s string) PromptRole {
	switch s {
	case "user":
		return PromptRoleUser
	case "assistant":
		return PromptRoleAssistant
	}
	return PromptRoleUnknown
}
