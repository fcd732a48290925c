// Package dsl 提供基于 CEL (Common Expression Language) 的布尔规则求值器，
// 用于自定义定价规则的触发条件（见 price 包的 CustomRule）。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

// getCELEnv 获取或创建 CEL 环境，定义规则可见的变量。
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("features", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Evaluator 是规则求值器。表达式在首次求值时编译并缓存，之后复用。
//
// 表达式语法（CEL 标准语法），变量 features 为规则输入：
//   - 数值：features.stock < 10.0 / features.demand >= 80.0
//   - 字符串：features.category == "clearance"
//   - 逻辑：features.stock < 10.0 && features.demand > 80.0
//
// 表达式必须返回布尔值，否则求值报错。
type Evaluator struct {
	mu       sync.Mutex
	programs map[string]cel.Program
}

func NewEvaluator() *Evaluator {
	return &Evaluator{programs: make(map[string]cel.Program)}
}

// Evaluate 对输入求值一条表达式，返回布尔结果。
// 空表达式视为恒真。
func (e *Evaluator) Evaluate(expr string, features map[string]any) (bool, error) {
	if expr == "" {
		return true, nil
	}

	prg, err := e.program(expr)
	if err != nil {
		return false, err
	}

	out, _, err := prg.Eval(map[string]any{"features": features})
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// program 返回编译后的表达式，带缓存。
func (e *Evaluator) program(expr string) (cel.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if prg, ok := e.programs[expr]; ok {
		return prg, nil
	}

	env, err := getCELEnv()
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %v", err)
	}
	e.programs[expr] = prg
	return prg, nil
}
