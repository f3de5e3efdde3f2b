package agent

import (
	"context"
	"encoding/json"

	"github.com/akolanti/FaqSearch/internal/customHttpClient"
	"github.com/akolanti/FaqSearch/internal/domain/ragError"
	"github.com/akolanti/FaqSearch/internal/rag"
	"github.com/akolanti/FaqSearch/pkg/logger_i"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const systemPrompt = "You are a helpful customer service assistant. You have access to company policy documents " +
	"and can search them to answer customer questions accurately. Always use the search_faq function to find " +
	"relevant information before answering policy-related questions."

// Agent wraps an OpenAI chat loop around the retrieval service. The model
// decides when to call search_faq, we execute it locally and feed the
// results back for the final answer.
type Agent struct {
	client      openai.Client
	service     rag.Service
	model       string
	defaultTopK int
	logger      *logger_i.Logger
}

func New(service rag.Service, apiKey string, model string, defaultTopK int) (*Agent, error) {
	if apiKey == "" {
		return nil, ragError.New(ragError.KindConfiguration, "agent.New", "OPENAI_API_KEY is not set")
	}

	return &Agent{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithHTTPClient(customHttpClient.NewPooledClient()),
		),
		service:     service,
		model:       model,
		defaultTopK: defaultTopK,
		logger:      logger_i.NewLogger("Agent"),
	}, nil
}

func searchFaqTool() openai.ChatCompletionToolUnionParam {
	return openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
		Name: "search_faq",
		Description: openai.String("Search company policy PDFs for answers to questions about refunds, " +
			"warranties, delivery, returns, and other policies."),
		Parameters: openai.FunctionParameters{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The question or topic to search for in the policy documents",
				},
				"top_k": map[string]any{
					"type":        "integer",
					"description": "Number of results to return (default: 3)",
					"default":     3,
				},
			},
			"required": []string{"query"},
		},
	})
}

// Answer runs the two phase tool loop: first call lets the model request
// searches, second call turns the results into the reply.
func (a *Agent) Answer(ctx context.Context, userMessage string) (string, error) {
	const op = "agent.Answer"

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userMessage),
		},
		Tools: []openai.ChatCompletionToolUnionParam{searchFaqTool()},
	}

	completion, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", ragError.Wrap(ragError.KindUnknown, op, err)
	}
	if len(completion.Choices) == 0 {
		return "", ragError.New(ragError.KindUnknown, op, "model returned no choices")
	}

	message := completion.Choices[0].Message
	if len(message.ToolCalls) == 0 {
		return message.Content, nil
	}

	params.Messages = append(params.Messages, message.ToParam())
	for _, toolCall := range message.ToolCalls {
		a.logger.Info("Searching policies", "tool", toolCall.Function.Name, "args", toolCall.Function.Arguments)
		payload := a.dispatchTool(ctx, toolCall.Function.Name, toolCall.Function.Arguments)
		params.Messages = append(params.Messages, openai.ToolMessage(payload, toolCall.ID))
	}

	final, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", ragError.Wrap(ragError.KindUnknown, op, err)
	}
	if len(final.Choices) == 0 {
		return "", ragError.New(ragError.KindUnknown, op, "model returned no choices")
	}
	return final.Choices[0].Message.Content, nil
}

type searchFaqArgs struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// dispatchTool executes a requested tool call and always returns a JSON
// payload. Failures are encoded as {"error": ...} so the model can explain
// them instead of the loop dying.
func (a *Agent) dispatchTool(ctx context.Context, name string, rawArgs string) string {
	if name != "search_faq" {
		return errorPayload("unknown tool: " + name)
	}

	var args searchFaqArgs
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return errorPayload("invalid tool arguments: " + err.Error())
	}
	if args.TopK <= 0 {
		args.TopK = a.defaultTopK
	}

	results, err := a.service.Search(ctx, args.Query, args.TopK)
	if err != nil {
		a.logger.Warn("search_faq failed", "error", err)
		return errorPayload(err.Error())
	}

	encoded, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return errorPayload(err.Error())
	}
	return string(encoded)
}

func errorPayload(message string) string {
	encoded, _ := json.Marshal(map[string]string{"error": message})
	return string(encoded)
}
