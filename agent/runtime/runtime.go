// Package runtime drives one conversational turn through the chat model:
// tool calls are executed against the connected servers, handoff tools switch
// the active agent, and the loop ends on a plain assistant reply.
package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/rs/zerolog/log"

	contractx "github.com/wanderkit/concierge/agent/contract"
)

const handoffToolPrefix = "transfer_to_"

// maxIterations bounds the model round trips in a single turn so a looping
// model cannot spin forever against the tool servers.
const maxIterations = 10

type Config struct {
	APIKey              string        `envconfig:"API_KEY" required:"true"`
	BaseURL             string        `envconfig:"BASE_URL" default:""`
	Model               string        `envconfig:"MODEL" default:"gpt-4o-mini"`
	Temperature         float64       `envconfig:"TEMPERATURE" default:"0.2"`
	MaxCompletionTokens int64         `envconfig:"MAX_COMPLETION_TOKENS" default:"2048"`
	Timeout             time.Duration `envconfig:"TIMEOUT" default:"60s"`
}

// ChatModel is the narrow slice of the OpenAI client the runner needs.
type ChatModel interface {
	Complete(ctx context.Context, params openaisdk.ChatCompletionNewParams) (*openaisdk.ChatCompletion, error)
}

type OpenAIModel struct {
	client openaisdk.Client
	cfg    Config
}

func NewOpenAIModel(cfg Config) *OpenAIModel {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIModel{client: openaisdk.NewClient(opts...), cfg: cfg}
}

func (m *OpenAIModel) Complete(ctx context.Context, params openaisdk.ChatCompletionNewParams) (*openaisdk.ChatCompletion, error) {
	if params.Model == "" {
		params.Model = openaisdk.ChatModel(m.cfg.Model)
	}
	params.Temperature = openaisdk.Float(m.cfg.Temperature)
	params.MaxCompletionTokens = openaisdk.Int(m.cfg.MaxCompletionTokens)

	completion, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: chat completion: %v", contractx.ErrUpstream, err)
	}
	return completion, nil
}

// Agent couples an instruction prompt with the tools the agent may call.
// Handoff targets are configured separately on the runner.
type Agent struct {
	Name         contractx.AgentName
	Description  string
	Instructions string
	Tools        []contractx.ToolDef
}

// TurnOutput is everything one turn produced: the final reply, the messages
// to append to the session history, and where the conversation landed.
type TurnOutput struct {
	Reply     string
	Messages  []openaisdk.ChatCompletionMessageParamUnion
	NextAgent contractx.AgentName
	Handoffs  []contractx.Handoff
}

type Runner struct {
	model    ChatModel
	agents   map[contractx.AgentName]*Agent
	handoffs map[contractx.AgentName][]contractx.AgentName
}

func NewRunner(model ChatModel, agents []*Agent, handoffs map[contractx.AgentName][]contractx.AgentName) *Runner {
	byName := make(map[contractx.AgentName]*Agent, len(agents))
	for _, a := range agents {
		byName[a.Name] = a
	}
	return &Runner{model: model, agents: byName, handoffs: handoffs}
}

// Run executes one turn starting from the given agent. History must already
// end with the user's message; the returned Messages continue from there.
func (r *Runner) Run(ctx context.Context, start contractx.AgentName, history []openaisdk.ChatCompletionMessageParamUnion) (TurnOutput, error) {
	current, ok := r.agents[start]
	if !ok {
		return TurnOutput{}, fmt.Errorf("%w: unknown agent %q", contractx.ErrValidation, start)
	}

	out := TurnOutput{NextAgent: start}

	for i := 0; i < maxIterations; i++ {
		params := openaisdk.ChatCompletionNewParams{
			Messages: r.buildMessages(current, history, out.Messages),
			Tools:    r.buildTools(current),
		}

		completion, err := r.model.Complete(ctx, params)
		if err != nil {
			return TurnOutput{}, err
		}
		if len(completion.Choices) == 0 {
			return TurnOutput{}, fmt.Errorf("%w: completion returned no choices", contractx.ErrUpstream)
		}

		msg := completion.Choices[0].Message
		out.Messages = append(out.Messages, msg.ToParam())

		if len(msg.ToolCalls) == 0 {
			out.Reply = msg.Content
			out.NextAgent = current.Name
			return out, nil
		}

		for _, call := range msg.ToolCalls {
			name := call.Function.Name

			if target, isHandoff := r.handoffTarget(current, name); isHandoff {
				out.Handoffs = append(out.Handoffs, contractx.Handoff{From: current.Name, To: target.Name})
				out.Messages = append(out.Messages, openaisdk.ToolMessage(
					fmt.Sprintf(`{"assistant": %q}`, target.Name), call.ID))
				log.Debug().
					Str("from", string(current.Name)).
					Str("to", string(target.Name)).
					Msg("agent handoff")
				current = target
				continue
			}

			out.Messages = append(out.Messages, openaisdk.ToolMessage(
				r.invokeTool(ctx, current, name, call.Function.Arguments), call.ID))
		}
	}

	return TurnOutput{}, fmt.Errorf("%w: turn exceeded %d model iterations", contractx.ErrUpstream, maxIterations)
}

func (r *Runner) buildMessages(current *Agent, history, collected []openaisdk.ChatCompletionMessageParamUnion) []openaisdk.ChatCompletionMessageParamUnion {
	msgs := make([]openaisdk.ChatCompletionMessageParamUnion, 0, 1+len(history)+len(collected))
	msgs = append(msgs, openaisdk.SystemMessage(current.Instructions))
	msgs = append(msgs, history...)
	msgs = append(msgs, collected...)
	return msgs
}

func (r *Runner) buildTools(current *Agent) []openaisdk.ChatCompletionToolUnionParam {
	tools := make([]openaisdk.ChatCompletionToolUnionParam, 0, len(current.Tools)+len(r.handoffs[current.Name]))
	for _, def := range current.Tools {
		tools = append(tools, openaisdk.ChatCompletionFunctionTool(openaisdk.FunctionDefinitionParam{
			Name:        def.Name,
			Description: openaisdk.String(def.Description),
			Parameters:  openaisdk.FunctionParameters(def.Schema),
		}))
	}
	for _, target := range r.handoffs[current.Name] {
		agent, ok := r.agents[target]
		if !ok {
			continue
		}
		tools = append(tools, openaisdk.ChatCompletionFunctionTool(openaisdk.FunctionDefinitionParam{
			Name:        handoffToolName(target),
			Description: openaisdk.String(fmt.Sprintf("Handoff to the %s agent to handle the request. %s", target, agent.Description)),
			Parameters: openaisdk.FunctionParameters(map[string]any{
				"type":                 "object",
				"properties":           map[string]any{},
				"required":             []string{},
				"additionalProperties": false,
			}),
		}))
	}
	return tools
}

func (r *Runner) handoffTarget(current *Agent, toolName string) (*Agent, bool) {
	if !strings.HasPrefix(toolName, handoffToolPrefix) {
		return nil, false
	}
	target := contractx.AgentName(strings.TrimPrefix(toolName, handoffToolPrefix))
	for _, allowed := range r.handoffs[current.Name] {
		if allowed == target {
			agent, ok := r.agents[target]
			return agent, ok
		}
	}
	return nil, false
}

// invokeTool runs one tool call and renders the outcome as the tool message
// content. Failures become text for the model to relay rather than aborting
// the turn.
func (r *Runner) invokeTool(ctx context.Context, current *Agent, name, rawArgs string) string {
	var def *contractx.ToolDef
	for i := range current.Tools {
		if current.Tools[i].Name == name {
			def = &current.Tools[i]
			break
		}
	}
	if def == nil {
		return fmt.Sprintf("Tool %s is not available to this agent.", name)
	}

	args := map[string]any{}
	if rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return fmt.Sprintf("Invalid tool arguments: %v", err)
		}
	}

	res, err := def.Invoke(ctx, args)
	if err != nil {
		log.Warn().Err(err).Str("tool", name).Msg("tool call failed")
		return fmt.Sprintf("Tool %s failed: %v", name, err)
	}
	return res.Content
}

func handoffToolName(target contractx.AgentName) string {
	return handoffToolPrefix + string(target)
}
