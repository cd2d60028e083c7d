package agent

import (
	"cmp"
	"slices"

	ai "github.com/archestra-ai/secure-agent"
	"github.com/archestra-ai/secure-agent/event"
)

// Event is an observation of a run.
type Event = event.Event

// TerminationReason says why a run ended. It is the Message of RunEnd.
type TerminationReason string

const (
	TerminationComplete  TerminationReason = "complete"  // answered without tool calls
	TerminationMaxSteps  TerminationReason = "max_steps" // step limit reached
	TerminationTimeout   TerminationReason = "timeout"   // run deadline passed
	TerminationCancelled TerminationReason = "cancelled" // caller cancelled
	TerminationCustom    TerminationReason = "custom"    // stop predicate matched
	TerminationRejected  TerminationReason = "rejected"  // every call of a step refused
	TerminationError     TerminationReason = "error"     // model call failed
)

// Result is the outcome of a finished run.
type Result struct {
	RunID       string
	Response    *ai.Response // last model turn
	Steps       int          // model calls made
	Termination TerminationReason
	TotalUsage  ai.Usage
	Error       error // set with TerminationError

	history []ai.Message
}

// Messages returns the conversation: instructions, input and every assistant
// and tool turn the run added.
func (r *Result) Messages() []ai.Message {
	return slices.Clone(r.history)
}

// LastMessages returns up to n trailing messages of the conversation.
func (r *Result) LastMessages(n int) []ai.Message {
	if n <= 0 {
		return nil
	}
	return slices.Clone(r.history[max(0, len(r.history)-n):])
}

// collector rebuilds a Result from a run's events. A step's turn and tool
// results are held until the next step starts, then stored with the results
// in call order.
type collector struct {
	res       Result
	assistant *ai.Message
	results   []ai.ToolResult
}

func newCollector(conversation []ai.Message) *collector {
	return &collector{res: Result{history: conversation}}
}

func (c *collector) observe(e Event) {
	switch e.Type {
	case event.RunStart:
		c.res.RunID = e.RunID

	case event.StepStart:
		c.flush()

	case event.StepEnd:
		c.res.Steps = e.Step
		c.res.Response = e.Response
		if e.Response != nil {
			c.res.TotalUsage = c.res.TotalUsage.Add(e.Response.Usage)
			turn := ai.NewAssistantMessage(e.MessageID, e.Response)
			c.assistant = &turn
		}

	case event.ToolCallResult:
		if e.ToolResult != nil {
			c.results = append(c.results, *e.ToolResult)
		}

	case event.RunEnd:
		c.res.Termination = TerminationReason(e.Message)

	case event.RunError:
		c.res.Termination = TerminationError
		c.res.Error = e.Error
	}
}

func (c *collector) flush() {
	if c.assistant != nil {
		c.res.history = append(c.res.history, *c.assistant)
		sortByCall(c.results, c.assistant.ToolCalls)
		c.assistant = nil
	}
	if len(c.results) > 0 {
		c.res.history = append(c.res.history, ai.NewToolResultMessage(c.results...))
		c.results = nil
	}
}

func (c *collector) result() (*Result, error) {
	c.flush()
	return &c.res, c.res.Error
}

// sortByCall orders results like the calls that produced them. Refusals are
// reported first and parallel calls finish in any order.
func sortByCall(results []ai.ToolResult, calls []ai.ToolCall) {
	pos := make(map[string]int, len(calls))
	for i, c := range calls {
		pos[c.ID] = i
	}
	slices.SortStableFunc(results, func(a, b ai.ToolResult) int {
		return cmp.Compare(pos[a.ToolCallID], pos[b.ToolCallID])
	})
}
