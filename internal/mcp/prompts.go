package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("conference_poster",
		mcp.WithPromptDescription("Lay out a conference poster with title, authors and the usual research sections"),
		mcp.WithArgument("title",
			mcp.ArgumentDescription("Poster title"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("pageSize",
			mcp.ArgumentDescription("Page size preset, e.g. A0"),
		),
	), s.handleConferencePosterPrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("tidy_poster",
		mcp.WithPromptDescription("Clean up the active poster: consistent styles, no stray line breaks, tidy layout"),
	), s.handleTidyPosterPrompt)
}

func (s *Server) handleConferencePosterPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	title := req.Params.Arguments["title"]
	pageSize := req.Params.Arguments["pageSize"]
	if pageSize == "" {
		pageSize = "A0"
	}
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Lay out a conference poster: %s", title),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Create a scientific conference poster titled "%s". Follow these steps:

1. Use open_poster with pageSize "%s", then get_editor_state to learn the page dimensions
2. Add a title box across the top with add_text_box, then resize_text_box to most of the page width
3. Style it with set_text_style: fontSize around 72, fontWeight bold, textAlign center
4. Add an authors and affiliations box under the title (fontSize around 32, textAlign center)
5. Add section boxes: Introduction, Methods, Results, Conclusions and References, each with placeholder text
6. Use arrange_text_boxes, then move_text_box and resize_text_box to build two or three columns
7. Give section boxes a solid border (borderStyle solid, borderWidth 2)
8. Save the result with save_template (category "science")

Keep every box inside the page; positions and sizes are page pixels at 100%% zoom.`, title, pageSize),
				},
			},
		},
	}, nil
}

func (s *Server) handleTidyPosterPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Tidy the active poster",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: `Tidy up the poster in the active session. Follow these steps:

1. Use list_text_boxes to see every box
2. For boxes whose text was pasted from a PDF, use remove_line_breaks to join hard-wrapped lines
3. Make body text consistent with set_text_style: the same fontFamily and fontSize for all section boxes
4. Align section headings the same way
5. If boxes overlap, use arrange_text_boxes or move_text_box to separate them
6. Finish with save_template so the changes are kept

Do not delete boxes unless the user asks; delete_text_box needs their approval.`,
				},
			},
		},
	}, nil
}
