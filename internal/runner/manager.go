// Package runner executes YAML keyword suites against the keyword library.
// Steps are dispatched by reflection so new keywords are runnable without
// touching the runner.
package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	log "github.com/sirupsen/logrus"

	"github.com/formrobot/formrobot/internal/keyword"
)

// Result is a value registered by a suite step, referenced from later steps
// as #name#.
type Result struct {
	Value any
}

type Manager struct {
	library *keyword.Library
	dir     string
	suites  map[string]Suite
	results map[string]Result
	debug   bool
}

// NewManager loads every suite under dir. With debug enabled the suites are
// reloaded before each run so edits take effect without a restart.
func NewManager(dir string, library *keyword.Library, debug bool) (*Manager, error) {
	m := &Manager{
		library: library,
		dir:     dir,
		suites:  make(map[string]Suite),
		results: make(map[string]Result),
		debug:   debug,
	}
	if err := m.LoadSuites(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) SetVariable(name string, value any) {
	m.results[name] = Result{Value: value}
}

// SuiteNames lists the loaded suites.
func (m *Manager) SuiteNames() []string {
	names := make([]string, 0, len(m.suites))
	for name := range m.suites {
		names = append(names, name)
	}
	return names
}

func (m *Manager) LoadSuite(name, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var suite Suite
	if err = yaml.Unmarshal(data, &suite); err != nil {
		return err
	}

	m.suites[name] = suite
	return nil
}

// LoadSuites scans all yaml files in the suites directory and registers each
// one under its filename.
func (m *Manager) LoadSuites() error {
	yamlFiles, err := filepath.Glob(filepath.Join(m.dir, "*.yaml"))
	if err != nil {
		return fmt.Errorf("failed to scan yaml files: %v", err)
	}

	ymlFiles, err := filepath.Glob(filepath.Join(m.dir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to scan yml files: %v", err)
	}

	allFiles := append(yamlFiles, ymlFiles...)

	for _, filePath := range allFiles {
		fileName := filepath.Base(filePath)
		name := strings.TrimSuffix(fileName, filepath.Ext(fileName))

		log.Debugf("Loading suite file: %s -> %s", name, filePath)

		if err = m.LoadSuite(name, filePath); err != nil {
			return fmt.Errorf("failed to load suite file %s: %v", filePath, err)
		}
	}

	log.Debugf("Total loaded %d suite files", len(allFiles))
	return nil
}

// Run executes the named suite step by step. A step failure aborts the suite
// unless the step carries continue_on_failure.
func (m *Manager) Run(name string) error {
	if m.debug {
		if err := m.LoadSuites(); err != nil {
			log.Debugf("suite reload failed: %v", err)
		}
	}
	suite, ok := m.suites[name]
	if !ok {
		return fmt.Errorf("suite '%s' not found", name)
	}

	log.Infof("Running suite '%s' (%d steps)", name, len(suite.Steps))
	for _, step := range suite.Steps {
		if err := m.runStep(step); err != nil {
			if step.ContinueOnFailure {
				log.Warnf("step %d (%s) failed, continuing: %v", step.Index, step.Keyword, err)
				continue
			}
			return fmt.Errorf("step %d (%s) failed: %w", step.Index, step.Keyword, err)
		}
	}
	return nil
}

func (m *Manager) runStep(step Step) error {
	if step.Description != "" {
		log.Infof("Step %d: %s", step.Index, step.Description)
	}

	attempts := step.Retry + 1
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			log.Debugf("retrying step %d (%s), attempt %d of %d", step.Index, step.Keyword, attempt+1, attempts)
		}
		var value any
		value, err = m.ExecuteKeyword(step.Keyword, step.Args)
		if err == nil {
			if step.Register != "" {
				log.Debugf("store result to variable #%s#", step.Register)
				m.results[step.Register] = Result{Value: value}
			}
			return nil
		}
	}
	return err
}

// ExecuteKeyword dispatches a keyword by name, converting the string
// arguments to the method's parameter types. It returns the first non-error
// return value, if any.
func (m *Manager) ExecuteKeyword(name string, args []string) (any, error) {
	libValue := reflect.ValueOf(m.library)

	method, found := reflect.TypeOf(m.library).MethodByName(name)
	if !found {
		return nil, fmt.Errorf("keyword '%s' not found", name)
	}
	if name == "KeywordNames" {
		return nil, fmt.Errorf("keyword '%s' not found", name)
	}

	log.Debugf("execute keyword: %s with args %v", name, args)

	// NumIn counts the receiver; a variadic tail absorbs any surplus.
	methodFunc := method.Type
	fixed := methodFunc.NumIn() - 1
	if methodFunc.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, fmt.Errorf("keyword '%s' needs at least %d arguments, got %d", name, fixed, len(args))
		}
	} else if len(args) != fixed {
		return nil, fmt.Errorf("keyword '%s' needs %d arguments, got %d", name, fixed, len(args))
	}

	callArgs := make([]reflect.Value, 0, len(args))
	for i, arg := range args {
		paramIndex := i + 1
		if methodFunc.IsVariadic() && paramIndex >= methodFunc.NumIn()-1 {
			paramIndex = methodFunc.NumIn() - 1
		}
		paramType := methodFunc.In(paramIndex)
		if methodFunc.IsVariadic() && paramIndex == methodFunc.NumIn()-1 {
			paramType = paramType.Elem()
		}

		input := strings.TrimSpace(arg)
		if len(input) > 2 && input[0] == '#' && input[len(input)-1] == '#' {
			stored, hasKey := m.results[input[1:len(input)-1]]
			if !hasKey {
				return nil, fmt.Errorf("variable %s is not set", input)
			}
			// A []string variable expands into a variadic tail.
			if items, ok := stored.Value.([]string); ok && methodFunc.IsVariadic() && paramIndex == methodFunc.NumIn()-1 {
				for _, item := range items {
					callArgs = append(callArgs, reflect.ValueOf(item))
				}
				continue
			}
			callArgs = append(callArgs, reflect.ValueOf(stored.Value))
			continue
		}

		value, err := convertToType(input, paramType)
		if err != nil {
			return nil, fmt.Errorf("argument %d of keyword '%s': %v", i+1, name, err)
		}
		callArgs = append(callArgs, value)
	}

	results := libValue.MethodByName(name).Call(callArgs)
	return handleResults(results)
}

// convertToType converts string input to the specified type.
func convertToType(input string, targetType reflect.Type) (reflect.Value, error) {
	switch targetType.Kind() {
	case reflect.String:
		return reflect.ValueOf(input), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		val, err := strconv.ParseInt(input, 10, 64)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("cannot convert to integer: %v", err)
		}
		return reflect.ValueOf(val).Convert(targetType), nil

	case reflect.Float32, reflect.Float64:
		val, err := strconv.ParseFloat(input, 64)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("cannot convert to float: %v", err)
		}
		return reflect.ValueOf(val).Convert(targetType), nil

	case reflect.Bool:
		val, err := strconv.ParseBool(input)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("cannot convert to boolean: %v", err)
		}
		return reflect.ValueOf(val), nil

	default:
		return reflect.Value{}, fmt.Errorf("unsupported parameter type: %s", targetType.String())
	}
}

// handleResults splits a keyword's return values into (value, error). The
// trailing error return, when present, becomes the error; the first remaining
// value is the keyword's result.
func handleResults(results []reflect.Value) (any, error) {
	if len(results) == 0 {
		return nil, nil
	}

	last := results[len(results)-1]
	var err error
	values := results
	if last.Type() == reflect.TypeOf((*error)(nil)).Elem() {
		if !last.IsNil() {
			err = last.Interface().(error)
		}
		values = results[:len(results)-1]
	}

	if len(values) == 0 {
		return nil, err
	}
	return values[0].Interface(), err
}
