// Package orchestrator drives the retrieval-and-answer loop as an explicit
// state machine: classify intent, select a strategy, search, evaluate, and
// either deliver the answer or replan with an untried strategy until the
// attempt budget runs out.
package orchestrator

import "fmt"

// State names one node of the orchestration state machine.
type State string

const (
	StateAnalyzeQuery    State = "analyze_query"
	StateSelectStrategy  State = "select_strategy"
	StateExecuteSearch   State = "execute_search"
	StateEvaluateResults State = "evaluate_results"
	StateNotifyUser      State = "notify_user"
	StateReplanStrategy  State = "replan_strategy"
	StateGenerateAnswer  State = "generate_answer"
	StateEvaluateAnswer  State = "evaluate_answer"
	StateReturnResponse  State = "return_response"
	StateReturnPartial   State = "return_partial"
	StateReturnBest      State = "return_best"
	StateDone            State = "done"
)

// Outcome is the result of a conditional gate.
type Outcome string

const (
	OutcomeSatisfied Outcome = "satisfied"
	OutcomeAccept    Outcome = "accept"
	OutcomeRetry     Outcome = "retry"
	OutcomeAllDone   Outcome = "all_done"
)

// transitions is the static edge table for unconditional states. Gated
// states (evaluate_results, evaluate_answer) route through their outcome
// instead.
var transitions = map[State]State{
	StateAnalyzeQuery:   StateSelectStrategy,
	StateSelectStrategy: StateExecuteSearch,
	StateExecuteSearch:  StateEvaluateResults,
	StateNotifyUser:     StateReplanStrategy,
	StateReplanStrategy: StateExecuteSearch,
	StateGenerateAnswer: StateEvaluateAnswer,
	StateReturnResponse: StateDone,
	StateReturnPartial:  StateDone,
	StateReturnBest:     StateDone,
}

// resultGates routes evaluate_results outcomes.
var resultGates = map[Outcome]State{
	OutcomeSatisfied: StateGenerateAnswer,
	OutcomeRetry:     StateNotifyUser,
	OutcomeAllDone:   StateReturnBest,
}

// answerGates routes evaluate_answer outcomes.
var answerGates = map[Outcome]State{
	OutcomeAccept:  StateReturnResponse,
	OutcomeRetry:   StateNotifyUser,
	OutcomeAllDone: StateReturnBest,
}

// next resolves the state that follows current given the gate outcome.
// outcome is ignored for unconditional states.
func next(current State, outcome Outcome) (State, error) {
	switch current {
	case StateEvaluateResults:
		if to, ok := resultGates[outcome]; ok {
			return to, nil
		}
		return "", fmt.Errorf("no transition from %s on outcome %q", current, outcome)
	case StateEvaluateAnswer:
		if to, ok := answerGates[outcome]; ok {
			return to, nil
		}
		return "", fmt.Errorf("no transition from %s on outcome %q", current, outcome)
	default:
		if to, ok := transitions[current]; ok {
			return to, nil
		}
		return "", fmt.Errorf("no transition from state %q", current)
	}
}
