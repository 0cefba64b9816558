package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-scoregraph/pkg/logging"
	"github.com/dd0wney/cluso-scoregraph/pkg/scoregraph"
	"github.com/dd0wney/cluso-scoregraph/pkg/topology"
)

// engine is the surface shared by *scoregraph.Forest and *scoregraph.General.
type engine interface {
	AddNode(id scoregraph.NodeID, base scoregraph.Score) error
	AddEdge(a, b scoregraph.NodeID) (scoregraph.Recalculation, error)
	RemoveEdge(a, b scoregraph.NodeID) (scoregraph.Recalculation, error)
	RemoveNode(id scoregraph.NodeID) (scoregraph.Recalculation, error)
	UpdateBaseValue(id scoregraph.NodeID, value scoregraph.Score) (scoregraph.Recalculation, error)
	Score(id scoregraph.NodeID) (scoregraph.Score, error)
	BaseValue(id scoregraph.NodeID) (scoregraph.Score, error)
	Neighbors(id scoregraph.NodeID) ([]scoregraph.NodeID, error)
	NodeIDs() []scoregraph.NodeID
	Edges() []scoregraph.Edge
	Stats() scoregraph.Stats
	Variant() scoregraph.Variant
	Consistent() (bool, []scoregraph.NodeID)
}

// recalculator is implemented by the general variant only.
type recalculator interface {
	Recalculate() scoregraph.Recalculation
}

var errUsage = errors.New("usage")

type runner struct {
	eng    engine
	out    io.Writer
	logger logging.Logger
}

func newRunner(eng engine, out io.Writer, logger logging.Logger) *runner {
	return &runner{eng: eng, out: out, logger: logger.With(logging.Component("cli"))}
}

// run executes every line of in and returns how many failed. A failing line
// is reported and the script continues.
func (r *runner) run(in io.Reader) (int, error) {
	scanner := bufio.NewScanner(in)
	failures := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := r.exec(line); err != nil {
			failures++
			fmt.Fprintln(r.out, errorStyle.Render(fmt.Sprintf("line %d: %s: %v", lineNo, line, err)))
			r.logger.Debug("command failed", logging.Int("line", lineNo), logging.Error(err))
		}
	}
	return failures, scanner.Err()
}

// exec runs a single command.
func (r *runner) exec(line string) error {
	parts := strings.Fields(line)
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "help":
		fmt.Fprint(r.out, helpText)
		return nil

	case "node", "add":
		if len(args) != 2 {
			return usage("node <id> <base>")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		base, err := parseScore(args[1])
		if err != nil {
			return err
		}
		if err := r.eng.AddNode(id, base); err != nil {
			return err
		}
		fmt.Fprintln(r.out, okStyle.Render(fmt.Sprintf("node %d added (base %g)", id, base)))
		return nil

	case "edge", "link":
		a, b, err := parsePair(args, "edge <a> <b>")
		if err != nil {
			return err
		}
		rc, err := r.eng.AddEdge(a, b)
		if err != nil {
			return err
		}
		r.report(fmt.Sprintf("edge %d-%d", a, b), rc)
		return nil

	case "unedge", "unlink":
		a, b, err := parsePair(args, "unedge <a> <b>")
		if err != nil {
			return err
		}
		rc, err := r.eng.RemoveEdge(a, b)
		if err != nil {
			return err
		}
		r.report(fmt.Sprintf("edge %d-%d removed", a, b), rc)
		return nil

	case "rm", "remove":
		if len(args) != 1 {
			return usage("rm <id>")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		rc, err := r.eng.RemoveNode(id)
		if err != nil {
			return err
		}
		r.report(fmt.Sprintf("node %d removed", id), rc)
		return nil

	case "base":
		if len(args) != 2 {
			return usage("base <id> <value>")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		v, err := parseScore(args[1])
		if err != nil {
			return err
		}
		rc, err := r.eng.UpdateBaseValue(id, v)
		if err != nil {
			return err
		}
		r.report(fmt.Sprintf("node %d base %g", id, v), rc)
		return nil

	case "score":
		if len(args) != 1 {
			return usage("score <id>")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		s, err := r.eng.Score(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "score %d = %g\n", id, s)
		return nil

	case "scores", "ls":
		fmt.Fprintln(r.out, renderScores(r.eng))
		return nil

	case "stats":
		fmt.Fprintln(r.out, renderStats(r.eng.Stats()))
		return nil

	case "recalc":
		rec, ok := r.eng.(recalculator)
		if !ok {
			return fmt.Errorf("%s graphs recalculate on every mutation", r.eng.Variant())
		}
		r.report("recalc", rec.Recalculate())
		return nil

	case "check":
		return r.check()

	default:
		return fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
}

// check cross-validates the engine with the gonum view of its structure.
func (r *runner) check() error {
	report := topology.Analyze(r.eng)
	consistent, stale := r.eng.Consistent()
	fmt.Fprintln(r.out, renderCheck(report, consistent))

	switch {
	case r.eng.Variant() == scoregraph.VariantForest && !report.Acyclic:
		return fmt.Errorf("forest contains %d independent cycles", report.CircuitRank)
	case !consistent:
		return fmt.Errorf("stale scores on nodes %v", stale)
	}
	return nil
}

func (r *runner) report(what string, rc scoregraph.Recalculation) {
	fmt.Fprintln(r.out, renderRecalculation(what, rc))
	if !rc.Converged {
		r.logger.Warn("recalculation did not settle",
			logging.Operation(what),
			logging.PassID(rc.PassID),
			logging.Iterations(rc.Iterations))
	}
}

func usage(form string) error {
	return fmt.Errorf("%w: %s", errUsage, form)
}

func parsePair(args []string, form string) (scoregraph.NodeID, scoregraph.NodeID, error) {
	if len(args) != 2 {
		return 0, 0, usage(form)
	}
	a, err := parseID(args[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := parseID(args[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func parseID(s string) (scoregraph.NodeID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid node id %q", s)
	}
	return scoregraph.NodeID(n), nil
}

func parseScore(s string) (scoregraph.Score, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q", s)
	}
	return v, nil
}

const helpText = `commands:
  node <id> <base>     add a node
  edge <a> <b>         connect two nodes
  unedge <a> <b>       disconnect two nodes
  rm <id>              remove a node and its edges
  base <id> <value>    change a node's base value
  score <id>           print one score
  scores               print every node
  stats                print graph statistics
  recalc               run a full recalculation (general only)
  check                verify structure and scores
`
