package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"clipwright/internal/logging"
	"clipwright/internal/router"
	"clipwright/internal/session"
)

// Server hosts the tools of one session.
type Server struct {
	mcp     *mcp.Server
	session *session.Session
	logger  *slog.Logger
}

// New registers every tool for s.
func New(s *session.Session, name, version string, logger *slog.Logger) *Server {
	if strings.TrimSpace(name) == "" {
		name = "clipwright"
	}
	srv := &Server{
		mcp:     mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil),
		session: s,
		logger:  logging.NewComponentLogger(logger, "mcp"),
	}
	for _, domain := range router.Domains() {
		mcp.AddTool(srv.mcp, DomainTool(domain), srv.domainHandler(domain))
	}
	mcp.AddTool(srv.mcp, &mcp.Tool{
		Name:        router.RenderCommand,
		Description: "Render the current project into a video. Use only after all edits are done. Blocks until the render finishes and returns the result URL and saved file.",
	}, srv.renderHandler)
	mcp.AddTool(srv.mcp, &mcp.Tool{
		Name:        "list_commands",
		Description: "List the commands of every domain, or of one domain, with their argument layout.",
	}, srv.listCommandsHandler)
	mcp.AddTool(srv.mcp, &mcp.Tool{
		Name:        "project_snapshot",
		Description: "Return the current project as the render request body it would submit.",
	}, srv.snapshotHandler)
	return srv
}

// Run serves until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.logger.Info("mcp server starting",
		logging.EventType("mcp_start"),
		logging.String(logging.FieldSessionID, s.session.ID()),
	)
	return s.mcp.Run(ctx, transport)
}

// ToolName returns the tool name of a domain.
func ToolName(domain router.Domain) string {
	return string(domain) + "_agent"
}

// DomainTool describes the tool of one domain, listing its commands.
func DomainTool(domain router.Domain) *mcp.Tool {
	var b strings.Builder
	fmt.Fprintf(&b, "Use when doing video editing that requires %s.", router.Purpose(domain))
	b.WriteString(" Commands:")
	for _, spec := range router.Specs(domain) {
		b.WriteString(" ")
		b.WriteString(spec.Usage())
		b.WriteString(";")
	}
	b.WriteString(" Times are (start, length) in seconds.")
	return &mcp.Tool{Name: ToolName(domain), Description: b.String()}
}

// CommandInput is the input of a domain tool.
type CommandInput struct {
	Command string `json:"command" jsonschema:"command name owned by this domain, e.g. add_text"`
	Args    string `json:"args,omitempty" jsonschema:"parenthesized comma separated arguments, e.g. (Sport Time, 0.0, 7.0)"`
}

// CommandOutput reports what a command did.
type CommandOutput struct {
	Command string `json:"command" jsonschema:"command that ran"`
	Outcome string `json:"outcome" jsonschema:"applied, lookup_miss, duplicate_noop or unchanged"`
	Target  string `json:"target,omitempty" jsonschema:"element the command addressed"`
	Message string `json:"message" jsonschema:"human readable result"`
}

func (s *Server) domainHandler(domain router.Domain) mcp.ToolHandlerFor[CommandInput, CommandOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CommandInput) (*mcp.CallToolResult, CommandOutput, error) {
		in := router.Instruction{
			Domain:  domain,
			Command: strings.TrimSpace(input.Command),
			Args:    strings.TrimSpace(input.Args),
		}
		result, err := s.session.Apply(ctx, in)
		if err != nil {
			return nil, CommandOutput{}, err
		}
		return nil, CommandOutput{
			Command: in.Command,
			Outcome: string(result.Outcome),
			Target:  result.Target,
			Message: result.Message,
		}, nil
	}
}

// RenderInput is the empty input of render_video.
type RenderInput struct{}

// RenderOutput reports a finished render attempt.
type RenderOutput struct {
	JobID        int64  `json:"job_id,omitempty" jsonschema:"render history id"`
	RemoteID     string `json:"remote_id,omitempty" jsonschema:"render service job id"`
	State        string `json:"state" jsonschema:"done, failed or cancelled"`
	URL          string `json:"url,omitempty" jsonschema:"hosted video URL"`
	ArtifactPath string `json:"artifact_path,omitempty" jsonschema:"local file the video was saved to"`
	Polls        int    `json:"polls" jsonschema:"status polls issued"`
	Error        string `json:"error,omitempty" jsonschema:"why the render did not produce a video"`
}

func (s *Server) renderHandler(ctx context.Context, _ *mcp.CallToolRequest, _ RenderInput) (*mcp.CallToolResult, RenderOutput, error) {
	report, err := s.session.Render(ctx)
	if err != nil {
		return nil, RenderOutput{}, err
	}
	return nil, RenderOutput{
		JobID:        report.JobID,
		RemoteID:     report.RemoteID,
		State:        string(report.State),
		URL:          report.URL,
		ArtifactPath: report.ArtifactPath,
		Polls:        report.Polls,
		Error:        report.Error,
	}, nil
}

// ListCommandsInput optionally restricts the catalog to one domain.
type ListCommandsInput struct {
	Domain string `json:"domain,omitempty" jsonschema:"domain to list, e.g. video; empty lists all"`
}

// CommandInfo describes one command.
type CommandInfo struct {
	Name    string `json:"name" jsonschema:"command name"`
	Usage   string `json:"usage" jsonschema:"argument layout"`
	Summary string `json:"summary,omitempty" jsonschema:"what the command does"`
}

// DomainCommands groups the commands of a domain.
type DomainCommands struct {
	Domain   string        `json:"domain" jsonschema:"domain name"`
	Tool     string        `json:"tool" jsonschema:"tool that accepts these commands"`
	Commands []CommandInfo `json:"commands" jsonschema:"commands owned by the domain"`
}

// CommandCatalog is the list_commands output.
type CommandCatalog struct {
	Domains []DomainCommands `json:"domains" jsonschema:"domains in catalog order"`
}

func (s *Server) listCommandsHandler(_ context.Context, _ *mcp.CallToolRequest, input ListCommandsInput) (*mcp.CallToolResult, CommandCatalog, error) {
	domains := router.Domains()
	if strings.TrimSpace(input.Domain) != "" {
		domain, err := router.ParseDomain(input.Domain)
		if err != nil {
			return nil, CommandCatalog{}, err
		}
		domains = []router.Domain{domain}
	}
	catalog := CommandCatalog{Domains: make([]DomainCommands, 0, len(domains))}
	for _, domain := range domains {
		group := DomainCommands{Domain: string(domain), Tool: ToolName(domain), Commands: []CommandInfo{}}
		for _, spec := range router.Specs(domain) {
			group.Commands = append(group.Commands, CommandInfo{Name: spec.Name, Usage: spec.Usage(), Summary: spec.Summary})
		}
		catalog.Domains = append(catalog.Domains, group)
	}
	return nil, catalog, nil
}

// SnapshotInput is the empty input of project_snapshot.
type SnapshotInput struct{}

// SnapshotOutput describes the project.
type SnapshotOutput struct {
	SessionID string `json:"session_id" jsonschema:"session identifier"`
	Name      string `json:"name" jsonschema:"session name, used as the video file name"`
	Clips     int    `json:"clips" jsonschema:"number of clips across all registries"`
	Rendering bool   `json:"rendering" jsonschema:"whether a render is in progress"`
	Edit      string `json:"edit" jsonschema:"render request body as JSON"`
}

func (s *Server) snapshotHandler(_ context.Context, _ *mcp.CallToolRequest, _ SnapshotInput) (*mcp.CallToolResult, SnapshotOutput, error) {
	info := s.session.Info()
	body, err := json.Marshal(info.Edit)
	if err != nil {
		return nil, SnapshotOutput{}, fmt.Errorf("encode edit: %w", err)
	}
	return nil, SnapshotOutput{
		SessionID: info.ID,
		Name:      info.Name,
		Clips:     info.Clips,
		Rendering: info.Rendering,
		Edit:      string(body),
	}, nil
}
