// Package uci implements the line-oriented Universal Chess Interface
// protocol boundary: it owns the current position and game history and
// drives the search package, but holds no chess logic of its own.
package uci

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fatih/color"

	"github.com/halcyonchess/halcyon/internal/board"
	"github.com/halcyonchess/halcyon/internal/config"
	"github.com/halcyonchess/halcyon/internal/nnue"
	"github.com/halcyonchess/halcyon/internal/search"
)

// UCI owns the engine-facing protocol state: the current position, its
// played-move history (for repetition detection), and the shared search
// resources (transposition table and NNUE network).
type UCI struct {
	cfg config.Config

	engine *search.Engine
	tt     *search.Table
	net    *nnue.Network

	pos *board.Position
	rep *search.RepetitionTracker

	searching  atomic.Bool
	searchDone chan struct{}

	moveOverhead int64
	chess960     bool
	debugLog     *os.File
}

func New(cfg config.Config) *UCI {
	net := nnue.NewZero()
	if cfg.NNUE.WeightsPath != "" {
		if f, err := os.Open(cfg.NNUE.WeightsPath); err == nil {
			defer f.Close()
			if loaded, err := nnue.Load(f); err == nil {
				net = loaded
			} else {
				fmt.Fprintf(os.Stderr, "info string failed to load NNUE weights: %v\n", err)
				os.Exit(1)
			}
		}
	}
	tt := search.NewTable(cfg.Hash.SizeMB)
	u := &UCI{
		cfg:          cfg,
		engine:       search.NewEngine(tt, net),
		tt:           tt,
		net:          net,
		moveOverhead: 30,
	}
	u.resetPosition()
	return u
}

// send writes a protocol line to stdout and, when a debug log file is
// configured, mirrors it there too.
func (u *UCI) send(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	fmt.Println(line)
	if u.debugLog != nil {
		fmt.Fprintln(u.debugLog, "<", line)
	}
}

func (u *UCI) logReceived(line string) {
	if u.debugLog != nil {
		fmt.Fprintln(u.debugLog, ">", line)
	}
}

func (u *UCI) resetPosition() {
	pos, err := board.FromFEN(board.StartFEN)
	if err != nil {
		panic(err) // the startpos FEN is a compile-time constant
	}
	u.pos = pos
	u.rep = search.NewRepetitionTracker()
	u.rep.Push(u.pos.Zobrist())
}

// Run reads UCI commands from stdin until "quit" or EOF.
func (u *UCI) Run() {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		u.logReceived(line)
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.send("readyok")
		case "ucinewgame":
			u.resetPosition()
			u.tt.Clear()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "ponderhit":
			// No pondering support: ponderhit behaves like the search
			// already running toward the right move.
		case "setoption":
			u.handleSetOption(args)
		case "d":
			u.printDebugBoard()
		case "perft":
			u.handlePerft(args)
		case "bench":
			u.handleBench(args)
		case "quit":
			u.handleStop()
			if u.debugLog != nil {
				u.debugLog.Close()
			}
			return
		}
	}
}

func (u *UCI) handleUCI() {
	u.send("id name Halcyon")
	u.send("id author the halcyonchess project")
	u.send("")
	u.send("option name Hash type spin default 64 min 1 max 4096")
	u.send("option name EvalFile type string default <empty>")
	u.send("option name Move Overhead type spin default 30 min 0 max 5000")
	u.send("option name Ponder type check default false")
	u.send("option name UCI_Chess960 type check default false")
	u.send("option name Debug Log File type string default <empty>")
	u.send("uciok")
}

func (u *UCI) handleSetOption(args []string) {
	// "setoption name <Name> value <Value>"
	var name, value string
	var inName, inValue bool
	for _, a := range args {
		switch a {
		case "name":
			inName, inValue = true, false
			continue
		case "value":
			inName, inValue = false, true
			continue
		}
		if inName {
			if name != "" {
				name += " "
			}
			name += a
		} else if inValue {
			if value != "" {
				value += " "
			}
			value += a
		}
	}

	switch strings.ToLower(name) {
	case "hash":
		if n, err := strconv.Atoi(value); err == nil {
			u.tt = search.NewTable(n)
			u.engine = search.NewEngine(u.tt, u.net)
		}
	case "evalfile":
		if f, err := os.Open(value); err == nil {
			defer f.Close()
			if net, err := nnue.Load(f); err == nil {
				u.net = net
				u.engine = search.NewEngine(u.tt, u.net)
			}
		}
	case "move overhead":
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			u.moveOverhead = n
		}
	case "uci_chess960":
		u.chess960 = strings.EqualFold(value, "true")
	case "ponder":
		// No pondering support beyond tolerating "go ponder"/"ponderhit";
		// nothing to store.
	case "debug log file":
		if u.debugLog != nil {
			u.debugLog.Close()
			u.debugLog = nil
		}
		if value != "" {
			if f, err := os.Create(value); err == nil {
				u.debugLog = f
			}
		}
	}
}

func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var moveStart int
	switch args[0] {
	case "startpos":
		pos, _ := board.FromFEN(board.StartFEN)
		u.pos = pos
		moveStart = 1
	case "fen":
		end := len(args)
		for i := 1; i < len(args); i++ {
			if args[i] == "moves" {
				end = i
				break
			}
		}
		pos, err := board.FromFEN(strings.Join(args[1:end], " "))
		if err != nil {
			fmt.Fprintf(os.Stderr, "info string invalid FEN: %v\n", err)
			return
		}
		u.pos = pos
		moveStart = end
	default:
		return
	}

	u.rep = search.NewRepetitionTracker()
	u.rep.Push(u.pos.Zobrist())

	for i, a := range args {
		if a == "moves" {
			moveStart = i + 1
			break
		}
	}
	for i := moveStart; i < len(args); i++ {
		m := u.parseMove(args[i])
		if m.IsNull() {
			fmt.Fprintf(os.Stderr, "info string invalid move: %s\n", args[i])
			return
		}
		child := u.pos.MakeMove(m)
		u.pos = &child
		u.rep.Push(u.pos.Zobrist())
	}
}

// parseMove resolves a UCI long-algebraic move string against the
// current position's legal moves, since the bare board.Move encoding
// can't distinguish promotion/castling shapes without that context.
func (u *UCI) parseMove(s string) board.Move {
	var list board.MoveList
	u.pos.GenerateLegal(&list)
	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		if board.FormatUCI(u.pos, m) == s {
			return m
		}
	}
	return board.NullMove
}

func (u *UCI) handleGo(args []string) {
	lim := parseGoArgs(args, u.pos.SideToMove())
	lim.MoveOverhead = u.moveOverhead

	u.searching.Store(true)
	u.searchDone = make(chan struct{})
	pos := u.pos
	rep := u.rep

	go func() {
		defer close(u.searchDone)
		best := u.engine.Search(pos, rep, lim, func(info search.Info) {
			u.printInfo(pos, info)
		})
		u.send("bestmove %s", moveOrNone(pos, best))
		u.searching.Store(false)
	}()
}

func moveOrNone(pos *board.Position, m board.Move) string {
	if m.IsNull() {
		return "0000"
	}
	return board.FormatUCI(pos, m)
}

func parseGoArgs(args []string, stm board.Color) search.Limits {
	var lim search.Limits
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			i++
			lim.Depth = atoiSafe(args, i)
		case "nodes":
			i++
			lim.Nodes = uint64(atoiSafe(args, i))
		case "movetime":
			i++
			lim.MoveTime = int64(atoiSafe(args, i))
		case "wtime":
			i++
			lim.WhiteTime = int64(atoiSafe(args, i))
		case "btime":
			i++
			lim.BlackTime = int64(atoiSafe(args, i))
		case "winc":
			i++
			lim.WhiteInc = int64(atoiSafe(args, i))
		case "binc":
			i++
			lim.BlackInc = int64(atoiSafe(args, i))
		case "movestogo":
			i++
			lim.MovesToGo = atoiSafe(args, i)
		case "infinite":
			lim.Infinite = true
		}
	}
	// search.Limits names clocks WhiteTime/WhiteInc generically as "my"
	// clock; when the engine is Black, swap so the time manager always
	// reads the mover's own clock from the White fields.
	if stm == board.Black {
		lim.WhiteTime, lim.BlackTime = lim.BlackTime, lim.WhiteTime
		lim.WhiteInc, lim.BlackInc = lim.BlackInc, lim.WhiteInc
	}
	return lim
}

func atoiSafe(args []string, i int) int {
	if i >= len(args) {
		return 0
	}
	n, _ := strconv.Atoi(args[i])
	return n
}

func (u *UCI) printInfo(pos *board.Position, info search.Info) {
	var pv strings.Builder
	p := *pos
	for _, m := range info.PV {
		pv.WriteString(board.FormatUCI(&p, m))
		pv.WriteByte(' ')
		p = p.MakeMove(m)
	}
	scoreStr := fmt.Sprintf("cp %d", info.Score)
	if mate := search.MateIn(info.Score); mate != 0 {
		scoreStr = fmt.Sprintf("mate %d", mate)
	}
	u.send("info depth %d seldepth %d score %s nodes %d hashfull %d pv %s",
		info.Depth, info.SelDepth, scoreStr, info.Nodes, info.HashFull, strings.TrimSpace(pv.String()))
}

func (u *UCI) handleStop() {
	if u.searching.Load() {
		u.engine.Stop()
		<-u.searchDone
	}
}

func (u *UCI) printDebugBoard() {
	u.send("%s", u.pos.ToFEN())
	u.send("%s", renderBoard(u.pos))
}

func renderBoard(pos *board.Position) string {
	var b strings.Builder
	abs := pos.ToFEN()
	rows := strings.Split(strings.Fields(abs)[0], "/")
	for _, row := range rows {
		for _, c := range row {
			if c >= '1' && c <= '8' {
				for i := 0; i < int(c-'0'); i++ {
					b.WriteString(" . ")
				}
				continue
			}
			if c >= 'A' && c <= 'Z' {
				b.WriteString(" " + color.New(color.FgCyan).Sprint(string(c)) + " ")
			} else {
				b.WriteString(" " + color.New(color.FgMagenta).Sprint(string(c)) + " ")
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (u *UCI) handlePerft(args []string) {
	depth := 1
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}
	start := time.Now()
	total := perft(u.pos, depth)
	elapsed := time.Since(start)
	u.send("perft %d: %d nodes in %s (%.0f nps)", depth, total, elapsed, float64(total)/elapsed.Seconds())
}

func perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var list board.MoveList
	pos.GenerateLegal(&list)
	if depth == 1 {
		return uint64(list.Len())
	}
	var total uint64
	for i := 0; i < list.Len(); i++ {
		child := pos.MakeMove(list.At(i))
		total += perft(&child, depth-1)
	}
	return total
}

func (u *UCI) handleBench(args []string) {
	depth := 10
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}
	pos, _ := board.FromFEN(board.StartFEN)
	rep := search.NewRepetitionTracker()
	rep.Push(pos.Zobrist())
	start := time.Now()
	u.engine.Search(pos, rep, search.Limits{Depth: depth}, nil)
	elapsed := time.Since(start)
	u.send("bench: depth %d in %s", depth, elapsed)
}
