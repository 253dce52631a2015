package api

import (
	"log/slog"
	"strings"

	"github.com/hazyhaar/ncrp-ingest/pkg/ingest"
	"github.com/hazyhaar/ncrp-ingest/pkg/kit"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCPTools registers the three ingestion MCP tools on the server.
// File paths are confined to cfg.InputDir as for HTTP.
func RegisterMCPTools(srv *server.MCPServer, p *ingest.Pipeline, cfg Config) {
	logger := cfg.logger()
	registerIngestFile(srv, p, cfg.InputDir, logger)
	registerIngestBatch(srv, p, cfg.InputDir, logger)
	registerIngestText(srv, p, logger)
}

func registerIngestFile(srv *server.MCPServer, p *ingest.Pipeline, inputDir string, logger *slog.Logger) {
	tool := mcp.NewTool("ingest_file",
		mcp.WithDescription("Process one complaint file (CSV, Excel or NCRP PDF report) into a validated, normalized record."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Input file, relative to the server's input directory")),
	)

	ep := kit.Logging(logger, "ingest_file")(ingestFileEndpoint(p, inputDir))
	kit.RegisterMCPTool(srv, tool, ep, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		path, _ := req.GetArguments()["path"].(string)
		return &kit.MCPDecodeResult{Request: &ingestFileReq{Path: path}}, nil
	})
}

func registerIngestBatch(srv *server.MCPServer, p *ingest.Pipeline, inputDir string, logger *slog.Logger) {
	tool := mcp.NewTool("ingest_batch",
		mcp.WithDescription("Process several complaint files (up to 100) and return per-file summaries with batch counters."),
		mcp.WithString("paths", mcp.Description("Comma-separated input files, relative to the input directory")),
		mcp.WithString("dir", mcp.Description("Sub-directory of the input directory whose files are all processed, in name order")),
	)

	ep := kit.Logging(logger, "ingest_batch")(ingestBatchEndpoint(p, inputDir))
	kit.RegisterMCPTool(srv, tool, ep, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		r := &ingestBatchReq{}
		if v, _ := args["paths"].(string); v != "" {
			for _, path := range strings.Split(v, ",") {
				if path = strings.TrimSpace(path); path != "" {
					r.Paths = append(r.Paths, path)
				}
			}
		}
		r.Dir, _ = args["dir"].(string)
		return &kit.MCPDecodeResult{Request: r}, nil
	})
}

func registerIngestText(srv *server.MCPServer, p *ingest.Pipeline, logger *slog.Logger) {
	tool := mcp.NewTool("ingest_text",
		mcp.WithDescription("Process the extracted text of an NCRP acknowledgement report."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Full report text")),
		mcp.WithString("source", mcp.Description("Name recorded as the record's source file")),
	)

	ep := kit.Logging(logger, "ingest_text")(ingestTextEndpoint(p))
	kit.RegisterMCPTool(srv, tool, ep, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		text, _ := args["text"].(string)
		source, _ := args["source"].(string)
		return &kit.MCPDecodeResult{Request: &ingestTextReq{Text: text, Source: source}}, nil
	})
}
