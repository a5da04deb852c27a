package runtime

import (
	"fmt"

	"github.com/tsxlang/tsx/pkg/token"
)

// CallStack tracks the active call chain for stack-overflow detection and
// Error.stack rendering, grounded on the teacher's CallStack
// (runtime/callstack.go).
type CallStack struct {
	frames   []StackFrame
	maxDepth int
}

func NewCallStack(maxDepth int) *CallStack {
	if maxDepth <= 0 {
		maxDepth = 2000
	}
	return &CallStack{maxDepth: maxDepth}
}

func (cs *CallStack) Push(functionName string, pos token.Position) error {
	if len(cs.frames) >= cs.maxDepth {
		return fmt.Errorf("RangeError: Maximum call stack size exceeded")
	}
	cs.frames = append(cs.frames, StackFrame{FunctionName: functionName, Pos: pos})
	return nil
}

func (cs *CallStack) Pop() {
	if len(cs.frames) > 0 {
		cs.frames = cs.frames[:len(cs.frames)-1]
	}
}

func (cs *CallStack) Snapshot() []StackFrame {
	out := make([]StackFrame, len(cs.frames))
	copy(out, cs.frames)
	return out
}

func (cs *CallStack) Depth() int { return len(cs.frames) }
