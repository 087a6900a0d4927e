package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/clefworks/midigen/internal/logger"
	"github.com/clefworks/midigen/internal/midi"
	"github.com/clefworks/midigen/internal/services"
)

const serverName = "midigen"

// New builds the MCP server and registers the create_midi tool. Tool-name
// dispatch and method-not-found responses are the library's job; the handler
// only ever sees create_midi calls.
func New(version string, builder *services.BuildService) *server.MCPServer {
	s := server.NewMCPServer(serverName, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions("Renders declarative musical compositions (tempo, time signature, per-track note lists) into standard MIDI files."),
	)

	tool := mcp.NewTool("create_midi",
		mcp.WithDescription("Create a standard MIDI file from a declarative composition. "+
			"Provide the composition inline or via composition_file, never both."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Name of the piece, echoed in the confirmation message."),
		),
		mcp.WithObject("composition",
			mcp.Description("Composition as {bpm, timeSignature?, tracks}; a JSON-encoded string is also accepted. Mutually exclusive with composition_file."),
		),
		mcp.WithString("composition_file",
			mcp.Description("Path to a UTF-8 JSON file holding the composition. Mutually exclusive with composition."),
		),
		mcp.WithString("output_path",
			mcp.Required(),
			mcp.Description("Destination for the .mid file. Absolute paths are used verbatim; relative paths keep only their final segment and land in the configured MIDI directory."),
		),
	)

	s.AddTool(tool, createMIDIHandler(builder))
	return s
}

func createMIDIHandler(builder *services.BuildService) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, err := req.RequireString("title")
		if err != nil {
			return mcp.NewToolResultError("Invalid parameters: " + err.Error()), nil
		}

		args := req.GetArguments()
		build := services.BuildRequest{
			Title:           title,
			Composition:     args["composition"],
			CompositionFile: req.GetString("composition_file", ""),
			OutputPath:      req.GetString("output_path", ""),
		}

		result, err := builder.Build(ctx, build, progressSink(ctx, req))
		if err != nil {
			if errors.Is(err, services.ErrInvalidParams) {
				return mcp.NewToolResultError("Invalid parameters: " + err.Error()), nil
			}
			logger.Error("create_midi build failed", err, logger.Fields{
				"title": title,
			})
			return mcp.NewToolResultError("Internal error: " + err.Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf(
			"Created MIDI file %q at %s (%d tracks, %d notes)",
			result.Title, result.Path, result.TrackCount, result.NoteCount,
		)), nil
	}
}

// progressSink adapts the MCP progress notification channel to the build
// service's sink. Without a client-supplied progress token there is nobody
// listening, so the build runs with a nil sink.
func progressSink(ctx context.Context, req mcp.CallToolRequest) midi.ProgressFunc {
	meta := req.Params.Meta
	if meta == nil || meta.ProgressToken == nil {
		return nil
	}
	srv := server.ServerFromContext(ctx)
	if srv == nil {
		return nil
	}

	token := meta.ProgressToken
	return func(percent int, message string) {
		err := srv.SendNotificationToClient(ctx, "notifications/progress", map[string]any{
			"progressToken": token,
			"progress":      percent,
			"total":         100,
			"message":       message,
		})
		if err != nil {
			// Progress is best effort; a dead notification channel must not
			// fail the build.
			logger.Debug("progress notification dropped", logger.Fields{
				"percent": percent,
			})
		}
	}
}
