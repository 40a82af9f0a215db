// Copyright 2015 Comcast Cable Communications Management, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// End Copyright

package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/tidwall/pretty"

	"github.com/playrules/rulesys/config"
	"github.com/playrules/rulesys/core"
	"github.com/playrules/rulesys/service"
	"github.com/playrules/rulesys/storage/bolt"
)

var parseFlags = flag.NewFlagSet("parse", flag.ExitOnError)
var parseSimpleFile = parseFlags.String("simple", "", "path to a file of simple-rule lines")
var parseCompoundFile = parseFlags.String("compound", "", "path to a file of compound-rule lines")
var parseResultFile = parseFlags.String("results", "", "path to a file of rule-result lines")

var runFlags = flag.NewFlagSet("run", flag.ExitOnError)
var runSimpleFile = runFlags.String("simple", "", "path to a file of simple-rule lines")
var runCompoundFile = runFlags.String("compound", "", "path to a file of compound-rule lines")
var runResultFile = runFlags.String("results", "", "path to a file of rule-result lines")
var runEvents = runFlags.String("events", "", "path to a newline-delimited JSON event file")
var runSave = runFlags.String("save", "", "path to save the final state blob to")
var runQuiet = runFlags.Bool("quiet", false, "discard log output (outcomes still print to stdout)")

var serveFlags = flag.NewFlagSet("serve", flag.ExitOnError)
var serveAddr = serveFlags.String("addr", "", "listen address, overriding RULESYS_ADDR")
var serveQuiet = serveFlags.Bool("quiet", false, "discard log output, overriding RULESYS_QUIET")

var stateFlags = flag.NewFlagSet("state", flag.ExitOnError)
var stateLoad = stateFlags.String("load", "", "path to a saved state blob")
var stateSave = stateFlags.String("save", "", "path to re-save the loaded blob to, as a round-trip check")

func usage() {
	fmt.Fprintln(os.Stderr, "usage: rulesys <parse|run|serve|state> [flags]")
	parseFlags.PrintDefaults()
	runFlags.PrintDefaults()
	serveFlags.PrintDefaults()
	stateFlags.PrintDefaults()
}

func readLines(filename string) ([]string, error) {
	if filename == "" {
		return nil, nil
	}
	bs, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return strings.Split(string(bs), "\n"), nil
}

func loadRules(ctx *core.Context, simpleFile, compoundFile, resultFile string) *core.State {
	var lines []string
	for _, f := range []string{simpleFile, compoundFile, resultFile} {
		ls, err := readLines(f)
		if err != nil {
			core.Log(core.CRIT, ctx, "rulesys.loadRules", "error", err, "file", f)
			os.Exit(1)
		}
		lines = append(lines, ls...)
	}
	parsed := core.ParseRules(lines)
	for _, e := range parsed.Errors {
		fmt.Fprintf(os.Stderr, "parse error: %s\n", e.Error())
	}
	st := core.NewState(parsed.Simple, parsed.Compound, parsed.Results)
	fmt.Fprintf(os.Stderr, "loaded %d simple, %d compound, %d result rules (%d errors)\n",
		len(parsed.Simple), len(parsed.Compound), len(parsed.Results), len(parsed.Errors))
	return st
}

func parseCmd(args []string) {
	parseFlags.Parse(args)
	ctx := core.NewContext("parse")
	loadRules(ctx, *parseSimpleFile, *parseCompoundFile, *parseResultFile)
}

func runCmd(args []string) {
	runFlags.Parse(args)
	ctx := core.NewContext("run")
	if *runQuiet {
		ctx.Logger = &core.NoopLogger{}
	}
	st := loadRules(ctx, *runSimpleFile, *runCompoundFile, *runResultFile)

	if *runEvents == "" {
		fmt.Fprintln(os.Stderr, "run: -events is required")
		os.Exit(1)
	}
	f, err := os.Open(*runEvents)
	if err != nil {
		core.Log(core.CRIT, ctx, "rulesys.run", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		raw, err := core.ParseJSONString(ctx, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bad event line: %v\n", err)
			continue
		}
		event, err := core.DecodeEvent(ctx, raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bad event: %v\n", err)
			continue
		}
		reports := st.Update(ctx, event)
		bs, _ := json.Marshal(reports)
		fmt.Println(string(pretty.Pretty(bs)))
	}
	if err := scanner.Err(); err != nil {
		core.Log(core.ERROR, ctx, "rulesys.run", "error", err)
	}

	if *runSave != "" {
		blob, err := st.Save(ctx)
		if err != nil {
			core.Log(core.CRIT, ctx, "rulesys.run", "error", err)
			os.Exit(1)
		}
		if err := ioutil.WriteFile(*runSave, blob, 0644); err != nil {
			core.Log(core.CRIT, ctx, "rulesys.run", "error", err)
			os.Exit(1)
		}
	}
}

func serveCmd(args []string) {
	serveFlags.Parse(args)
	ctx := core.NewContext("serve")

	conf, err := config.Load()
	if err != nil {
		core.Log(core.CRIT, ctx, "rulesys.serve", "error", err)
		os.Exit(1)
	}
	if *serveAddr != "" {
		conf.Addr = *serveAddr
	}
	if *serveQuiet {
		conf.Quiet = true
	}

	verb, err := core.ParseVerbosity(conf.Verbosity)
	if err != nil {
		core.Log(core.CRIT, ctx, "rulesys.serve", "error", err)
		os.Exit(1)
	}
	ctx.Verbosity = verb
	if conf.Quiet {
		ctx.Logger = &core.NoopLogger{}
	}
	if conf.RandSeed != 0 {
		ctx.Rand = core.SeededSampler(conf.RandSeed)
	}

	var store core.StateStore
	switch conf.StorageType {
	case "mem":
		store, err = core.NewMemStateStore(ctx)
	case "bolt":
		store, err = bolt.NewStore(ctx, conf.StoragePath)
	default:
		err = fmt.Errorf("unknown storage type %q", conf.StorageType)
	}
	if err != nil {
		core.Log(core.CRIT, ctx, "rulesys.serve", "error", err)
		os.Exit(1)
	}
	defer store.Close(ctx)

	svc := service.NewService(ctx, store)
	srv := service.NewServer(ctx, svc)
	if conf.MaxPending > 0 {
		srv.SetMaxPending(int32(conf.MaxPending))
	}

	core.Log(core.INFO, ctx, "rulesys.serve", "addr", conf.Addr, "storage", conf.StorageType)
	if err := srv.Start(ctx, conf.Addr); err != nil {
		core.Log(core.CRIT, ctx, "rulesys.serve", "error", err)
		os.Exit(1)
	}
}

func stateCmd(args []string) {
	stateFlags.Parse(args)
	ctx := core.NewContext("state")

	if *stateLoad == "" {
		fmt.Fprintln(os.Stderr, "state: -load is required")
		os.Exit(1)
	}
	blob, err := ioutil.ReadFile(*stateLoad)
	if err != nil {
		core.Log(core.CRIT, ctx, "rulesys.state", "error", err)
		os.Exit(1)
	}
	st, err := core.LoadState(ctx, blob)
	if err != nil {
		core.Log(core.CRIT, ctx, "rulesys.state", "error", err)
		os.Exit(1)
	}

	summary := map[string]int{
		"enabled_simple":    len(st.EnabledSimple),
		"disabled_simple":   len(st.DisabledSimple),
		"enabled_compound":  len(st.EnabledCompound),
		"disabled_compound": len(st.DisabledCompound),
		"enabled_results":   len(st.EnabledResult),
		"disabled_results":  len(st.DisabledResult),
	}
	bs, _ := json.Marshal(summary)
	fmt.Println(string(pretty.Pretty(bs)))

	if *stateSave != "" {
		roundTripped, err := st.Save(ctx)
		if err != nil {
			core.Log(core.CRIT, ctx, "rulesys.state", "error", err)
			os.Exit(1)
		}
		if err := ioutil.WriteFile(*stateSave, roundTripped, 0644); err != nil {
			core.Log(core.CRIT, ctx, "rulesys.state", "error", err)
			os.Exit(1)
		}
	}
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "parse":
		parseCmd(os.Args[2:])
	case "run":
		runCmd(os.Args[2:])
	case "serve":
		serveCmd(os.Args[2:])
	case "state":
		stateCmd(os.Args[2:])
	case "help", "-h", "-help", "--help":
		usage()
	default:
		usage()
		os.Exit(1)
	}
}
