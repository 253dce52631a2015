package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hazyhaar/ncrp-ingest/pkg/complaint"
	"github.com/hazyhaar/ncrp-ingest/pkg/ingest"
	"github.com/hazyhaar/ncrp-ingest/pkg/kit"
)

// MaxBatchFiles caps the number of files accepted in one batch request.
const MaxBatchFiles = 100

// Shared request types used by both HTTP and MCP transports.

type ingestFileReq struct {
	Path string `json:"path"`
}

type ingestBatchReq struct {
	Paths []string `json:"paths,omitempty"`
	Dir   string   `json:"dir,omitempty"`
}

type ingestTextReq struct {
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
}

// Endpoints backed by one pipeline. Paths in requests name files under the
// input directory; see resolve.

func ingestFileEndpoint(p *ingest.Pipeline, inputDir string) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*ingestFileReq)
		if req.Path == "" {
			return nil, errors.New("path is empty")
		}
		path, err := resolve(inputDir, req.Path)
		if err != nil {
			return nil, err
		}
		return p.ProcessFile(ctx, path), nil
	}
}

func ingestBatchEndpoint(p *ingest.Pipeline, inputDir string) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*ingestBatchReq)
		var paths []string
		switch {
		case req.Dir != "" && len(req.Paths) > 0:
			return nil, errors.New("give either paths or dir, not both")
		case req.Dir != "":
			dir, err := resolve(inputDir, req.Dir)
			if err != nil {
				return nil, err
			}
			if paths, err = ingest.ListInputs(dir); err != nil {
				return nil, err
			}
		default:
			for _, name := range req.Paths {
				path, err := resolve(inputDir, name)
				if err != nil {
					return nil, err
				}
				paths = append(paths, path)
			}
		}
		if len(paths) == 0 {
			return nil, errors.New("no input files")
		}
		if len(paths) > MaxBatchFiles {
			return nil, fmt.Errorf("too many files (max %d, got %d)", MaxBatchFiles, len(paths))
		}
		return p.ProcessBatch(ctx, paths), nil
	}
}

func ingestTextEndpoint(p *ingest.Pipeline) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*ingestTextReq)
		if req.Text == "" {
			return nil, errors.New("text is empty")
		}
		// Unnamed submissions are told apart by request ID.
		source := req.Source
		if source == "" {
			id := kit.GetRequestID(ctx)
			if id == "" {
				id = uuid.NewString()
			}
			source = "text-" + id
		}
		return p.ProcessText(ctx, req.Text, source), nil
	}
}

// statusCode maps a file result to the HTTP status the API answers with.
func statusCode(res complaint.Result) int {
	switch res.ErrorType {
	case "":
		return 200
	case complaint.ErrorInputNotFound:
		return 404
	case complaint.ErrorUnsupportedFormat, complaint.ErrorEncodingExhausted, complaint.ErrorDocumentUnreadable:
		return 422
	default:
		return 500
	}
}
