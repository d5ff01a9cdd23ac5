package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/claude/repcounter/internal/client"
	"github.com/claude/repcounter/internal/workout"
	"github.com/google/uuid"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const usage = `Usage: repcounter-ctl [flags] <command> [args]

Commands:
  status              show the current set, rep and phase
  start|pause|resume|reset
  config              show the workout configuration
  set key=value ...   change configuration fields (e.g. set sets=4 eccentric_duration=2.5)
  presets             list saved presets
  apply <id>          load a preset and reset the workout
  save <name>         save the current configuration as a preset

Flags:
`

func main() {
	serverURL := flag.String("server", envOr("REPCOUNTER_SERVER", "http://localhost:8080"), "RepCounter server URL")
	apiKey := flag.String("key", os.Getenv("REPCOUNTER_API_KEY"), "API key (default $REPCOUNTER_API_KEY)")
	asJSON := flag.Bool("json", false, "print raw JSON")
	version := flag.Bool("version", false, "print version and exit")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version {
		fmt.Println("repcounter-ctl", Version)
		return
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := client.New(*serverURL, *apiKey)
	out, err := run(ctx, c, flag.Arg(0), flag.Args()[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(out)
		return
	}
	fmt.Println(describe(out))
}

func run(ctx context.Context, c *client.Client, cmd string, args []string) (any, error) {
	switch cmd {
	case "status":
		return c.State(ctx)
	case "start":
		return c.Start(ctx)
	case "pause":
		return c.Pause(ctx)
	case "resume":
		return c.Resume(ctx)
	case "reset":
		return c.Reset(ctx)
	case "config":
		return c.Configuration(ctx)
	case "set":
		patch, err := parsePatch(args)
		if err != nil {
			return nil, err
		}
		return c.UpdateConfiguration(ctx, patch)
	case "presets":
		return c.ListPresets(ctx)
	case "apply":
		if len(args) != 1 {
			return nil, fmt.Errorf("apply takes one preset id")
		}
		id, err := uuid.Parse(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid preset id %q", args[0])
		}
		return c.ApplyPreset(ctx, id)
	case "save":
		if len(args) == 0 {
			return nil, fmt.Errorf("save needs a preset name")
		}
		return c.SavePreset(ctx, strings.Join(args, " "))
	default:
		return nil, fmt.Errorf("unknown command %q", cmd)
	}
}

// parsePatch turns key=value arguments into a ConfigPatch by way of the
// patch's JSON field names.
func parsePatch(args []string) (workout.ConfigPatch, error) {
	var patch workout.ConfigPatch
	if len(args) == 0 {
		return patch, fmt.Errorf("set needs at least one key=value")
	}
	fields := make(map[string]json.RawMessage, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok || k == "" {
			return patch, fmt.Errorf("expected key=value, got %q", a)
		}
		fields[k] = json.RawMessage(v)
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return patch, fmt.Errorf("invalid value: %w", err)
	}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		return patch, fmt.Errorf("invalid configuration: %w", err)
	}
	return patch, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
