package main

import (
	"bufio"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dd0wney/chronograph/pkg/config"
	"github.com/dd0wney/chronograph/pkg/graph"
	"github.com/dd0wney/chronograph/pkg/graphqlapi"
	"github.com/dd0wney/chronograph/pkg/ingestapi"
	"github.com/dd0wney/chronograph/pkg/logging"
	"github.com/dd0wney/chronograph/pkg/snapshot"
	"github.com/dd0wney/chronograph/pkg/tprop"
	"github.com/dd0wney/chronograph/pkg/view"
	"github.com/dd0wney/chronograph/pkg/window"
)

type CLI struct {
	graph   *graph.Graph
	scanner *bufio.Scanner
	logger  logging.Logger
	cfg     *config.GraphConfig
}

func main() {
	configPath := flag.String("config", "", "YAML config file (shard count, snapshot, server addresses)")
	shards := flag.Int("shards", 0, "shard count for a freshly created graph, overrides config")
	snapshotPath := flag.String("snapshot", "", "snapshot file to load at startup, overrides config")
	flag.Parse()

	printBanner()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Printf("failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *shards > 0 {
		cfg.ShardCount = *shards
	}
	if *snapshotPath != "" {
		cfg.Snapshot.Path = *snapshotPath
	}

	logger := logging.NewDefaultLogger()

	var g *graph.Graph
	if *snapshotPath != "" {
		fmt.Printf("loading snapshot from %s...\n", cfg.Snapshot.Path)
		loaded, err := snapshot.LoadWithLogger(cfg.Snapshot.Path, logger)
		if err != nil {
			fmt.Printf("failed to load snapshot: %v\n", err)
			os.Exit(1)
		}
		g = loaded
	} else {
		g = graph.NewWithLogger(cfg.ShardCount, logger)
	}

	fmt.Printf("graph ready: %d vertices, %d edges\n\n", g.NumVertices(), g.NumEdges())

	cli := &CLI{
		graph:   g,
		scanner: bufio.NewScanner(os.Stdin),
		logger:  logger,
		cfg:     cfg,
	}

	fmt.Println("Type 'help' for available commands, 'exit' to quit")
	fmt.Println()

	cli.run()
}

func printBanner() {
	banner := `
  _____ _                                            _
 / ____| |                                          | |
| |    | |__  _ __ ___  _ __   ___   __ _ _ __ __ _ | |ph
| |    | '_ \| '__/ _ \| '_ \ / _ \ / _` + "`" + ` | '__/ _` + "`" + ` || |
| |____| | | | | | (_) | | | | (_) | (_| | | | (_| || |
 \_____|_| |_|_|  \___/|_| |_|\___/ \__, |_|  \__,_||_|
                                     __/ |
                                    |___/
`
	fmt.Println(banner)
}

func (cli *CLI) run() {
	for {
		fmt.Print("chronograph> ")

		if !cli.scanner.Scan() {
			break
		}

		input := strings.TrimSpace(cli.scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			fmt.Println("goodbye")
			break
		}

		cli.executeCommand(input)
		fmt.Println()
	}
}

func (cli *CLI) executeCommand(input string) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case "help":
		cli.showHelp()

	case "stats", "status":
		cli.showStats()

	case "config":
		cli.showConfig()

	case "add-vertex", "av":
		cli.addVertex(args)

	case "add-edge", "ae":
		cli.addEdge(args)

	case "degree", "deg":
		cli.showDegree(args)

	case "neighbours", "neighbors", "nb":
		cli.showNeighbours(args)

	case "properties", "props":
		cli.showProperties(args)

	case "save":
		cli.saveSnapshot(args)

	case "load":
		cli.loadSnapshot(args)

	case "serve-graphql":
		cli.serveGraphQL(args)

	case "serve-ingest":
		cli.serveIngest(args)

	case "demo":
		cli.runDemo()

	case "clear":
		fmt.Print("\033[H\033[2J")

	default:
		fmt.Printf("unknown command: %s (type 'help' for available commands)\n", command)
	}
}

func (cli *CLI) showHelp() {
	help := `
Available commands:

  stats                               show vertex/edge counts and time range
  config                              show the active configuration
  add-vertex <time> <gid> [k=v ...]   touch a vertex, optionally writing properties
  av                                  shorthand for add-vertex
  add-edge <time> <src> <dst> [k=v ...] touch an edge, optionally writing properties
  ae                                  shorthand for add-edge
  degree <gid> [out|in|both] [start end]  show a vertex's degree, optionally windowed
  neighbours <gid> [out|in] [start end]   list a vertex's neighbours, optionally windowed
  properties <gid> <name>             show a property's full history
  save <path>                         write a snapshot of the current graph
  load <path>                         replace the current graph with a snapshot
  serve-graphql <addr>                serve the read-only GraphQL API (blocks)
  serve-ingest <addr>                 serve the JWT-secured ingest API (blocks)
  demo                                populate a small worked example
  clear                               clear the screen
  help                                show this help
  exit/quit                           exit the CLI

Property values are parsed as int64, float64 or bool when they look like
one, and as a string otherwise.
`
	fmt.Println(help)
}

func (cli *CLI) showStats() {
	fmt.Println("graph statistics")
	fmt.Println("----------------")
	fmt.Printf("  vertices: %d\n", cli.graph.NumVertices())
	fmt.Printf("  edges:    %d\n", cli.graph.NumEdges())
	if earliest, ok := cli.graph.EarliestTime(); ok {
		fmt.Printf("  earliest: %d\n", earliest)
	}
	if latest, ok := cli.graph.LatestTime(); ok {
		fmt.Printf("  latest:   %d\n", latest)
	}
}

func (cli *CLI) showConfig() {
	fmt.Println("active configuration")
	fmt.Println("---------------------")
	fmt.Printf("  shard count:   %d\n", cli.cfg.ShardCount)
	fmt.Printf("  snapshot path: %s\n", cli.cfg.Snapshot.Path)
	fmt.Printf("  graphql addr:  %s\n", cli.cfg.GraphQL.ListenAddr)
	fmt.Printf("  ingest addr:   %s\n", cli.cfg.Ingest.ListenAddr)
	fmt.Printf("  log level:     %s\n", cli.cfg.Log.Level)
}

func (cli *CLI) addVertex(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: add-vertex <time> <gid> [k=v ...]")
		return
	}
	t, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Printf("invalid time: %v\n", err)
		return
	}
	gid, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		fmt.Printf("invalid gid: %v\n", err)
		return
	}
	props, err := parseProps(args[2:])
	if err != nil {
		fmt.Printf("invalid properties: %v\n", err)
		return
	}

	if err := cli.graph.AddVertex(t, gid, props); err != nil {
		fmt.Printf("failed to add vertex: %v\n", err)
		return
	}
	fmt.Printf("touched vertex %d at t=%d\n", gid, t)
}

func (cli *CLI) addEdge(args []string) {
	if len(args) < 3 {
		fmt.Println("usage: add-edge <time> <src> <dst> [k=v ...]")
		return
	}
	t, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Printf("invalid time: %v\n", err)
		return
	}
	src, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		fmt.Printf("invalid src: %v\n", err)
		return
	}
	dst, err := strconv.ParseUint(args[2], 10, 64)
	if err != nil {
		fmt.Printf("invalid dst: %v\n", err)
		return
	}
	props, err := parseProps(args[3:])
	if err != nil {
		fmt.Printf("invalid properties: %v\n", err)
		return
	}

	if err := cli.graph.AddEdge(t, src, dst, props); err != nil {
		fmt.Printf("failed to add edge: %v\n", err)
		return
	}
	fmt.Printf("touched edge %d -> %d at t=%d\n", src, dst, t)
}

func (cli *CLI) showDegree(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: degree <gid> [out|in|both] [start end]")
		return
	}
	gid, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Printf("invalid gid: %v\n", err)
		return
	}
	dir, rest := parseDirection(args[1:], graph.Both)
	w, err := parseWindow(rest)
	if err != nil {
		fmt.Printf("invalid window: %v\n", err)
		return
	}

	deg, err := cli.graph.DegreeWindow(gid, dir, w)
	if err != nil {
		fmt.Printf("failed to compute degree: %v\n", err)
		return
	}
	fmt.Printf("degree(%d) = %d\n", gid, deg)
}

func (cli *CLI) showNeighbours(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: neighbours <gid> [out|in] [start end]")
		return
	}
	gid, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Printf("invalid gid: %v\n", err)
		return
	}
	dir, rest := parseDirection(args[1:], graph.Out)
	w, err := parseWindow(rest)
	if err != nil {
		fmt.Printf("invalid window: %v\n", err)
		return
	}

	root := view.NewBase(cli.graph)
	var v view.GraphView = root
	if w != window.Unbounded {
		v = view.NewWindowedView(root, w)
	}
	vv, ok := v.Vertex(gid)
	if !ok {
		fmt.Printf("vertex %d not found\n", gid)
		return
	}

	fmt.Printf("neighbours of %d:\n", gid)
	for nv := range vv.Neighbours(dir) {
		fmt.Printf("  -> %d\n", nv.Id())
	}
}

func (cli *CLI) showProperties(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: properties <gid> <name>")
		return
	}
	gid, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Printf("invalid gid: %v\n", err)
		return
	}
	hist, err := cli.graph.PropertyHistory(gid, args[1])
	if err != nil {
		fmt.Printf("failed to read property history: %v\n", err)
		return
	}
	for _, tv := range hist {
		fmt.Printf("  t=%d -> %s\n", tv.Time, tv.Value.String())
	}
}

func (cli *CLI) saveSnapshot(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: save <path>")
		return
	}
	stats, err := snapshot.SaveWithLogger(cli.graph, args[0], cli.logger)
	if err != nil {
		fmt.Printf("failed to save snapshot: %v\n", err)
		return
	}
	fmt.Printf("saved %d bytes (%d compressed, %.1f%% smaller) in %v\n",
		stats.BytesUncompressed, stats.BytesCompressed, stats.CompressionRatio*100, stats.Duration)
}

func (cli *CLI) loadSnapshot(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: load <path>")
		return
	}
	g, err := snapshot.LoadWithLogger(args[0], cli.logger)
	if err != nil {
		fmt.Printf("failed to load snapshot: %v\n", err)
		return
	}
	cli.graph = g
	fmt.Printf("loaded %d vertices, %d edges\n", g.NumVertices(), g.NumEdges())
}

func (cli *CLI) serveGraphQL(args []string) {
	addr := cli.cfg.GraphQL.ListenAddr
	if len(args) >= 1 {
		addr = args[0]
	}
	schema, err := graphqlapi.GenerateSchema(cli.graph)
	if err != nil {
		fmt.Printf("failed to build graphql schema: %v\n", err)
		return
	}
	fmt.Printf("serving graphql on %s (ctrl-c to stop)\n", addr)
	if err := http.ListenAndServe(addr, graphqlapi.NewHandler(schema)); err != nil {
		fmt.Printf("graphql server stopped: %v\n", err)
	}
}

func (cli *CLI) serveIngest(args []string) {
	addr := cli.cfg.Ingest.ListenAddr
	if len(args) >= 1 {
		addr = args[0]
	}
	secret := cli.cfg.Ingest.JWTSecret
	if secret == "" {
		secret = "chronograph-default-dev-secret!!"
	}
	jwtManager, err := ingestapi.NewJWTManager(secret, time.Hour)
	if err != nil {
		fmt.Printf("failed to build jwt manager: %v\n", err)
		return
	}
	server := ingestapi.NewServer(cli.graph, jwtManager, "dev-key", cli.logger)
	fmt.Printf("serving ingest api on %s (ctrl-c to stop)\n", addr)
	if err := http.ListenAndServe(addr, server.Routes()); err != nil {
		fmt.Printf("ingest server stopped: %v\n", err)
	}
}

func (cli *CLI) runDemo() {
	fmt.Println("populating worked example...")

	vertices := []uint64{1, 2, 3}
	for _, gid := range vertices {
		if err := cli.graph.AddVertex(0, gid, nil); err != nil {
			fmt.Printf("failed to add vertex %d: %v\n", gid, err)
			return
		}
	}

	edges := [][2]uint64{{1, 2}, {2, 1}, {2, 3}}
	for _, e := range edges {
		if err := cli.graph.AddEdge(1, e[0], e[1], nil); err != nil {
			fmt.Printf("failed to add edge %d -> %d: %v\n", e[0], e[1], err)
			return
		}
	}

	fmt.Println("demo data created")
	fmt.Println("try:")
	fmt.Println("  degree 2 both")
	fmt.Println("  neighbours 2 out")
	fmt.Println("  degree 2 in 0 1")
}

func parseDirection(args []string, def graph.Direction) (graph.Direction, []string) {
	if len(args) == 0 {
		return def, args
	}
	switch strings.ToLower(args[0]) {
	case "out":
		return graph.Out, args[1:]
	case "in":
		return graph.In, args[1:]
	case "both":
		return graph.Both, args[1:]
	default:
		return def, args
	}
}

func parseWindow(args []string) (window.Window, error) {
	if len(args) < 2 {
		return window.Unbounded, nil
	}
	start, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return window.Window{}, err
	}
	end, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return window.Window{}, err
	}
	return window.New(start, end), nil
}

// parseProps turns "key=value" arguments into typed property updates,
// inferring bool, int64 or float64 before falling back to string.
func parseProps(args []string) ([]graph.PropUpdate, error) {
	out := make([]graph.PropUpdate, 0, len(args))
	for _, arg := range args {
		kv := strings.SplitN(arg, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		name, raw := kv[0], kv[1]
		out = append(out, graph.PropUpdate{Name: name, Value: parseScalar(raw)})
	}
	return out, nil
}

func parseScalar(raw string) tprop.Prop {
	if b, err := strconv.ParseBool(raw); err == nil {
		return tprop.BoolProp(b)
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return tprop.I64Prop(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return tprop.F64Prop(f)
	}
	return tprop.StrProp(raw)
}
