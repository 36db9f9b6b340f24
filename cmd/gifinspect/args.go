// Handles command line arguments for gifinspect.
package main

import (
	"fmt"
	"os"

	"github.com/InfinityTools/go-cmdargs"
	"github.com/InfinityTools/go-logging"
)

const (
	cmdoptHelp       = "help"
	cmdoptVersion    = "version"
	cmdoptVerbose    = "verbose"
	cmdoptSilent     = "silent"
	cmdoptLogStyle   = "log-style"
	cmdoptMode       = "mode"
	cmdoptExport     = "export"
	cmdoptOutput     = "output"
	cmdoptFrameStep  = "frame-step"
	cmdoptLoopFrames = "loop-frames"
	cmdoptBatch      = "batch"
)

type optBool struct {
	value bool
	set   bool
}

type optInt struct {
	value int
	set   bool
}

type optText struct {
	value string
	set   bool
}

type cmdOptions struct {
	help       optBool
	version    optBool
	verbose    optBool
	logStyle   optBool
	mode       optText
	export     optText
	output     optText
	frameStep  optInt
	loopFrames optBool
	batch      optText

	optionsLength int
	argSelf       string
	argsExtra     []string
}

var options cmdOptions

func loadArgs(args []string) error {
	params := cmdargs.Create()
	params.AddParameter(cmdoptHelp, nil, 0)
	params.AddParameter(cmdoptVersion, nil, 0)
	params.AddParameter(cmdoptVerbose, nil, 0)
	params.AddParameter(cmdoptSilent, nil, 0)
	params.AddParameter(cmdoptLogStyle, nil, 0)
	params.AddParameter(cmdoptMode, nil, 1)
	params.AddParameter(cmdoptExport, nil, 1)
	params.AddParameter(cmdoptOutput, nil, 1)
	params.AddParameter(cmdoptFrameStep, nil, 1)
	params.AddParameter(cmdoptLoopFrames, nil, 0)
	params.AddParameter(cmdoptBatch, nil, 1)

	err := params.Evaluate(args)
	if err != nil {
		return err
	}

	options.argSelf = params.GetArgSelf()
	options.argsExtra = make([]string, 0)
	for i := 0; i < params.GetArgExtraLength(); i++ {
		s := params.GetArgExtra(i).ToString()
		if s == "-" {
			options.argsExtra = append(options.argsExtra, s)
			continue
		}
		expanded := params.GetExpandedArgExtra(i)
		if len(expanded) == 0 {
			expanded = []string{s}
		}
		for _, name := range expanded {
			fi, err := os.Stat(name)
			if err != nil {
				return fmt.Errorf("input at %d: %v", len(options.argsExtra), err)
			}
			if !fi.Mode().IsRegular() {
				return fmt.Errorf("input does not exist: %q", name)
			}
			options.argsExtra = append(options.argsExtra, name)
		}
	}

	options.optionsLength = 0
	for idx := 0; idx < params.GetArgLength(); idx++ {
		name, ok := params.GetArgNameByPosition(idx)
		if !ok {
			logging.Warnf("Could not parse command line option at index %d. Skipping...\n", idx)
			continue
		}
		nArgs := params.GetArgParamLength(name)
		arguments := make([]cmdargs.Generic, 0, nArgs)
		for a := 0; a < nArgs; a++ {
			if v, ok := params.GetArgParam(name, a); ok {
				arguments = append(arguments, v)
			}
		}
		arg := struct {
			Name      string
			Arguments []cmdargs.Generic
		}{Name: name, Arguments: arguments}
		switch arg.Name {
		case cmdoptHelp:
			options.help = optBool{true, true}
			return nil
		case cmdoptVersion:
			options.version = optBool{true, true}
			return nil
		case cmdoptVerbose:
			if !options.verbose.set {
				options.optionsLength++
			}
			options.verbose = optBool{true, true}
		case cmdoptSilent:
			if !options.verbose.set {
				options.optionsLength++
			}
			options.verbose = optBool{false, true}
		case cmdoptLogStyle:
			if !options.logStyle.set {
				options.optionsLength++
			}
			options.logStyle = optBool{true, true}
		case cmdoptMode:
			if !options.mode.set {
				options.optionsLength++
			}
			if len(arg.Arguments) > 0 {
				options.mode = optText{arg.Arguments[0].ToString(), true}
			}
		case cmdoptExport:
			if !options.export.set {
				options.optionsLength++
			}
			if len(arg.Arguments) > 0 {
				options.export = optText{arg.Arguments[0].ToString(), true}
			}
		case cmdoptOutput:
			if !options.output.set {
				options.optionsLength++
			}
			if len(arg.Arguments) > 0 {
				options.output = optText{arg.Arguments[0].ToString(), true}
			}
		case cmdoptFrameStep:
			if !options.frameStep.set {
				options.optionsLength++
			}
			if len(arg.Arguments) > 0 {
				if i, x := arg.Arguments[0].Int(); x && i > 0 {
					options.frameStep = optInt{int(i), true}
				} else {
					return fmt.Errorf("option %q: invalid argument %v", arg.Name, arg.Arguments[0])
				}
			}
		case cmdoptLoopFrames:
			if !options.loopFrames.set {
				options.optionsLength++
			}
			options.loopFrames = optBool{true, true}
		case cmdoptBatch:
			if !options.batch.set {
				options.optionsLength++
			}
			if len(arg.Arguments) > 0 {
				options.batch = optText{arg.Arguments[0].ToString(), true}
			}
		}
	}

	return nil
}

func argsHelp() (bool, bool)       { return options.help.value, options.help.set }
func argsVersion() (bool, bool)    { return options.version.value, options.version.set }
func argsVerbose() (bool, bool)    { return options.verbose.value, options.verbose.set }
func argsLogStyle() (bool, bool)   { return options.logStyle.value, options.logStyle.set }
func argsMode() (string, bool)     { return options.mode.value, options.mode.set }
func argsExport() (string, bool)   { return options.export.value, options.export.set }
func argsOutput() (string, bool)   { return options.output.value, options.output.set }
func argsFrameStep() (int, bool)   { return options.frameStep.value, options.frameStep.set }
func argsLoopFrames() (bool, bool) { return options.loopFrames.value, options.loopFrames.set }
func argsBatch() (string, bool)    { return options.batch.value, options.batch.set }
func argsExtraLength() int         { return len(options.argsExtra) }
func argsExtra(idx int) string     { return options.argsExtra[idx] }
