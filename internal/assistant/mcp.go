package assistant

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	mcpServerName    = "zeno"
	mcpServerVersion = "1.0.0"
)

// NewMCPServer публикует словарь действий как MCP-инструменты.
func NewMCPServer(b *Bridge) *server.MCPServer {
	s := server.NewMCPServer(mcpServerName, mcpServerVersion, server.WithToolCapabilities(false))

	s.AddTool(
		mcp.NewTool(ActionCreateTask,
			mcp.WithDescription("Create a task"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Task title")),
			mcp.WithString("description", mcp.Description("Optional description")),
			mcp.WithString("priority", mcp.Description("Priority: low, medium, high (default: medium)")),
			mcp.WithString("dueDate", mcp.Description("Due date, YYYY-MM-DD or RFC3339")),
		),
		b.tool(ActionCreateTask, "title", "description", "priority", "dueDate"),
	)

	s.AddTool(
		mcp.NewTool(ActionStartPomodoro,
			mcp.WithDescription("Start a pomodoro session"),
			mcp.WithString("type", mcp.Description("focus, short-break or long-break (default: focus)")),
			mcp.WithNumber("duration", mcp.Description("Duration in minutes")),
			mcp.WithString("label", mcp.Description("Optional label")),
		),
		b.tool(ActionStartPomodoro, "type", "duration", "label"),
	)

	s.AddTool(
		mcp.NewTool(ActionCreateNote,
			mcp.WithDescription("Create a note or journal entry"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
			mcp.WithString("content", mcp.Description("Note text, markdown allowed")),
			mcp.WithString("category", mcp.Description("personal, work, learning, ideas, meeting, journal or other")),
			mcp.WithString("mood", mcp.Description("excellent, good, neutral, sad or stressed")),
		),
		b.tool(ActionCreateNote, "title", "content", "category", "mood"),
	)

	s.AddTool(
		mcp.NewTool(ActionListTasks,
			mcp.WithDescription("List tasks, optionally filtered by status"),
			mcp.WithString("status", mcp.Description("pending, in-progress or done")),
		),
		b.tool(ActionListTasks, "status"),
	)

	s.AddTool(
		mcp.NewTool(ActionAnalyzeProductivity,
			mcp.WithDescription("Summarise today's focus time, task completion and activity streak"),
		),
		b.tool(ActionAnalyzeProductivity),
	)

	s.AddTool(
		mcp.NewTool(ActionGenerateDailyPlan,
			mcp.WithDescription("Build a focus plan for today from overdue, due and high priority tasks"),
		),
		b.tool(ActionGenerateDailyPlan),
	)

	return s
}

func (b *Bridge) tool(name string, keys ...string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		params := make(map[string]any, len(keys))
		args := req.GetArguments()
		for _, k := range keys {
			if v, ok := args[k]; ok {
				params[k] = v
			}
		}

		result := b.Execute(ctx, Action{Type: name, Params: params})
		if !result.Success {
			return mcp.NewToolResultError(result.Error), nil
		}

		text := result.Message
		if result.Data != nil {
			data, err := json.MarshalIndent(result.Data, "", "  ")
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("кодирование результата: %v", err)), nil
			}
			text += "\n\n" + string(data)
		}
		return mcp.NewToolResultText(text), nil
	}
}
