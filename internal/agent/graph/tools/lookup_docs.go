package tools

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/netops-assistant/server/internal/agent/model"
	errx "github.com/netops-assistant/server/internal/core/error"
	"github.com/netops-assistant/server/internal/rag"
)

var (
	ErrDocsNotLoaded = errors.New("knowledge base not loaded")
	ErrDocsNoMatch   = errors.New("nothing found in the documentation")
)

// MetaSource is the document metadata key holding the originating file.
const MetaSource = "source"

func lookupDocsTool(docs retriever.Retriever) definition {
	params := map[string]*schema.ParameterInfo{
		"query": {
			Type:     schema.String,
			Desc:     "What to look for in the internal network documentation, e.g. a device name, a VLAN purpose or a procedure.",
			Required: true,
		},
	}
	return definition{
		name:   ToolLookupDocs,
		params: params,
		tool: utils.NewTool(
			&schema.ToolInfo{
				Name:        ToolLookupDocs,
				Desc:        "Search the internal network documentation. Use it when the CMDB does not know a device or when the user asks about procedures and conventions.",
				ParamsOneOf: schema.NewParamsOneOfByParams(params),
			},
			func(ctx context.Context, in *model.LookupDocsInput) (*model.LookupDocsOutput, error) {
				if docs == nil {
					return nil, errx.New(ErrDocsNotLoaded, http.StatusServiceUnavailable, ErrDocsNotLoaded.Error())
				}
				found, err := docs.Retrieve(ctx, in.Query)
				if errors.Is(err, rag.ErrNotIndexed) {
					return nil, errx.New(err, http.StatusServiceUnavailable, ErrDocsNotLoaded.Error())
				}
				if err != nil {
					return nil, fmt.Errorf("retrieve docs: %w", err)
				}
				if len(found) == 0 {
					return nil, errx.NotFound(ErrDocsNoMatch)
				}
				out := &model.LookupDocsOutput{Documents: make([]model.DocSnippet, 0, len(found))}
				for _, d := range found {
					if d == nil {
						continue
					}
					src, _ := d.MetaData[MetaSource].(string)
					out.Documents = append(out.Documents, model.DocSnippet{
						Source:  src,
						Content: d.Content,
						Score:   d.Score(),
					})
				}
				return out, nil
			},
		),
	}
}
