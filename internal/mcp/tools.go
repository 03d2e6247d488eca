package mcp

import "github.com/mark3labs/mcp-go/mcp"

// generateFortuneTool defines the generate_fortune MCP tool.
var generateFortuneTool = mcp.NewTool("generate_fortune",
	mcp.WithDescription("Generate a 2026 fortune reading (yearly summary, daily card, love match, career) as Markdown."),
	mcp.WithString("birth_date",
		mcp.Required(),
		mcp.Description("Birth date in YYYY-MM-DD format"),
	),
	mcp.WithString("birth_time",
		mcp.Description("Birth time in HH:MM format, omit if unknown"),
	),
	mcp.WithString("gender",
		mcp.Description("Gender (default female)"),
		mcp.Enum("female", "male"),
	),
	mcp.WithString("mbti",
		mcp.Description("MBTI type such as ENFP (default ENFP)"),
	),
)

// luckyNumbersTool defines the lucky_numbers MCP tool.
var luckyNumbersTool = mcp.NewTool("lucky_numbers",
	mcp.WithDescription("Pull the lucky slot machine lever and return six numbers between 1 and 45 plus a lucky initial."),
	mcp.WithString("birth_date",
		mcp.Description("Birth date in YYYY-MM-DD format. When given, the numbers come from that day's fortune."),
	),
	mcp.WithString("mbti",
		mcp.Description("MBTI type used with birth_date"),
	),
)
