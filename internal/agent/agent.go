// Package agent drives the AI assistant: it reacts to new chat messages,
// runs the bounded tool-calling loop against the LLM factory, and writes the
// final answer back into the channel.
package agent

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"ai-writing-assistant/internal/metrics"
	"ai-writing-assistant/pkg/chat"
	"ai-writing-assistant/pkg/llmprovider"
	"ai-writing-assistant/pkg/log"
	"ai-writing-assistant/pkg/pricing"
)

// Generator is the LLM routing surface the agent depends on.
type Generator interface {
	Generate(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
	DefaultModel() string
}

// Agent handles one chat channel's assistant behavior. Invocations triggered
// by different messages run independently; the metrics recorder is the only
// shared mutable state.
type Agent struct {
	llm        Generator
	chatClient chat.Client
	registry   *Registry
	recorder   *metrics.Recorder
	l          log.Logger

	lastInteraction atomic.Int64 // unix milliseconds
}

// New creates an Agent.
func New(llm Generator, chatClient chat.Client, registry *Registry, recorder *metrics.Recorder, l log.Logger) *Agent {
	a := &Agent{
		llm:        llm,
		chatClient: chatClient,
		registry:   registry,
		recorder:   recorder,
		l:          l,
	}
	a.lastInteraction.Store(time.Now().UnixMilli())
	return a
}

// LastInteraction returns when the agent last saw a user message.
func (a *Agent) LastInteraction() time.Time {
	return time.UnixMilli(a.lastInteraction.Load())
}

// HandleMessage processes one new-message event end to end. Self-generated
// and empty messages are ignored to prevent feedback loops.
func (a *Agent) HandleMessage(ctx context.Context, event *chat.MessageEvent) {
	msg := event.Message
	if msg == nil || msg.AIGenerated {
		return
	}
	if msg.Text == "" {
		return
	}

	a.lastInteraction.Store(time.Now().UnixMilli())

	taskContext := ""
	if writingTask, ok := msg.Custom["writingTask"].(string); ok && writingTask != "" {
		taskContext = "Writing Task: " + writingTask
	}
	model, _ := msg.Custom["model"].(string)

	placeholder, err := a.chatClient.SendMessage(ctx, event.CID, "", true)
	if err != nil {
		a.l.Errorf(ctx, "agent: failed to create placeholder message: %v", err)
		return
	}

	a.sendIndicator(ctx, placeholder, chat.EventTypeIndicatorUpdate, chat.AIStateThinking)

	if err := a.generate(ctx, placeholder, model, systemPrompt(time.Now(), taskContext), msg.Text); err != nil {
		a.l.Errorf(ctx, "agent: error generating response: %v", err)

		text := err.Error()
		if text == "" {
			text = MsgGenerationFailed
		}
		if updateErr := a.chatClient.PartialUpdateMessage(ctx, placeholder.ID, map[string]interface{}{
			"text": text,
		}); updateErr != nil {
			a.l.Errorf(ctx, "agent: failed to write error text: %v", updateErr)
		}

		a.sendIndicator(ctx, placeholder, chat.EventTypeIndicatorUpdate, chat.AIStateError)
		return
	}

	a.sendIndicator(ctx, placeholder, chat.EventTypeIndicatorClear, "")
}

// generate runs the tool-calling loop and writes the final answer plus usage
// metadata into the placeholder message.
func (a *Agent) generate(ctx context.Context, placeholder *chat.Message, model, system, userText string) error {
	messages := []llmprovider.Message{
		{Role: llmprovider.RoleSystem, Content: system},
		{Role: llmprovider.RoleUser, Content: userText},
	}

	var totalUsage llmprovider.Usage
	finalResponse := ""
	answered := false

	startedAt := time.Now()
	for round := 0; round < MaxRounds; round++ {
		req := &llmprovider.Request{
			Messages:    messages,
			Model:       model,
			Temperature: defaultTemperature,
		}
		// Only the first round offers tools; once results are in context the
		// model should answer rather than search again.
		if round == 0 {
			req.Tools = a.registry.Definitions()
		}

		resp, err := a.llm.Generate(ctx, req)
		if err != nil {
			return err
		}

		totalUsage.PromptTokens += resp.Usage.PromptTokens
		totalUsage.CompletionTokens += resp.Usage.CompletionTokens
		totalUsage.TotalTokens += resp.Usage.TotalTokens

		if len(resp.ToolCalls) > 0 {
			a.sendIndicator(ctx, placeholder, chat.EventTypeIndicatorUpdate, chat.AIStateExternalSources)

			messages = append(messages, llmprovider.Message{
				Role:    llmprovider.RoleAssistant,
				Content: resp.Content,
			})
			messages = append(messages, a.executeToolCalls(ctx, resp.ToolCalls)...)
			continue
		}

		finalResponse = resp.Content
		answered = true
		break
	}

	// Round budget exhausted with the model still asking for tools: emit an
	// explicit truncation notice rather than empty text.
	if !answered {
		a.l.Warnf(ctx, "agent: round budget (%d) exhausted without a final answer", MaxRounds)
		finalResponse = MsgResponseTruncated
	}

	latencyMs := time.Since(startedAt).Milliseconds()
	resolvedModel := model
	if resolvedModel == "" {
		resolvedModel = a.llm.DefaultModel()
	}

	usageMeta := map[string]interface{}{
		"promptTokens":     totalUsage.PromptTokens,
		"completionTokens": totalUsage.CompletionTokens,
		"totalTokens":      totalUsage.TotalTokens,
		"latencyMs":        latencyMs,
	}

	var costPtr *float64
	if cost, ok := pricing.EstimateCostUSD(resolvedModel, totalUsage.PromptTokens, totalUsage.CompletionTokens); ok {
		usageMeta["costUSD"] = cost
		costPtr = &cost
	}

	a.recorder.RecordRequest(metrics.Sample{
		Model:            resolvedModel,
		LatencyMs:        latencyMs,
		PromptTokens:     totalUsage.PromptTokens,
		CompletionTokens: totalUsage.CompletionTokens,
		CostUSD:          costPtr,
	})

	return a.chatClient.PartialUpdateMessage(ctx, placeholder.ID, map[string]interface{}{
		"text": finalResponse,
		"custom": map[string]interface{}{
			"usage": usageMeta,
			"model": resolvedModel,
		},
	})
}

// executeToolCalls runs each requested tool and returns the tool-result turns
// to append. Unknown tool names are skipped; tool failures become in-band
// JSON error payloads so the loop always continues.
func (a *Agent) executeToolCalls(ctx context.Context, calls []llmprovider.ToolCall) []llmprovider.Message {
	var results []llmprovider.Message
	for _, call := range calls {
		tool, ok := a.registry.Get(call.Name)
		if !ok {
			a.l.Infof(ctx, "agent: skipping unrecognized tool %q", call.Name)
			continue
		}

		a.l.Infof(ctx, "agent: calling tool %s", call.Name)
		result, err := tool.Execute(ctx, json.RawMessage(call.Arguments))
		if err != nil {
			a.l.Errorf(ctx, "agent: tool %s failed: %v", call.Name, err)
			result = errorPayload(err)
		}

		results = append(results, llmprovider.Message{
			Role:       llmprovider.RoleTool,
			Content:    result,
			ToolCallID: call.ID,
		})
	}
	return results
}

// sendIndicator broadcasts an AI state event tied to the placeholder message.
// Indicator delivery is best-effort; a failure never aborts the invocation.
func (a *Agent) sendIndicator(ctx context.Context, placeholder *chat.Message, eventType, aiState string) {
	err := a.chatClient.SendEvent(ctx, chat.Event{
		Type:      eventType,
		AIState:   aiState,
		CID:       placeholder.CID,
		MessageID: placeholder.ID,
	})
	if err != nil {
		a.l.Warnf(ctx, "agent: failed to send %s event: %v", eventType, err)
	}
}

func errorPayload(err error) string {
	payload, marshalErr := json.Marshal(map[string]string{"error": err.Error()})
	if marshalErr != nil {
		return `{"error":"tool execution failed"}`
	}
	return string(payload)
}
