package decision

import "fmt"

type ExecStatus string

const (
	ExecOK      ExecStatus = "ok"
	ExecError   ExecStatus = "error"
	ExecSkipped ExecStatus = "skipped"
)

// ExecResult is the outcome of executing an Action. ExecSkipped marks the
// sentinel case: the action carried no bound callable, so nothing ran.
type ExecResult struct {
	Status ExecStatus
	Action string
	Result any
	Err    string
}

// Action is the single output of a decision cycle. Deciding and executing
// are separate steps: the caller may inspect or log an Action before
// committing its side effects with Execute.
type Action struct {
	Name        string
	Description string

	// Run is the callable bound at construction time. Optional.
	Run func() (any, error)
}

// Execute invokes the bound callable, converting any failure (returned
// error or panic) into data rather than propagating it.
func (a Action) Execute() (res ExecResult) {
	if a.Run == nil {
		return ExecResult{Status: ExecSkipped, Action: a.Name}
	}
	defer func() {
		if r := recover(); r != nil {
			res = ExecResult{Status: ExecError, Action: a.Name, Err: fmt.Sprint(r)}
		}
	}()
	result, err := a.Run()
	if err != nil {
		return ExecResult{Status: ExecError, Action: a.Name, Err: err.Error()}
	}
	return ExecResult{Status: ExecOK, Action: a.Name, Result: result}
}
