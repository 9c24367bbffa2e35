package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"uno-tally/internal/config"
	"uno-tally/internal/offline"
)

// tally is the offline scorekeeping client. Games live in a local data
// directory and sync to the server whenever the connection is marked online.
func main() {
	dataDir := flag.String("data", defaultDataDir(), "directory for local game data")
	serverURL := flag.String("server", "http://localhost:8080", "base URL of the sync server")
	startOnline := flag.Bool("online", false, "start with connectivity marked online")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	if env := os.Getenv("TALLY_SERVER_URL"); env != "" && *serverURL == "http://localhost:8080" {
		*serverURL = env
	}

	medium, err := offline.NewFileMedium(*dataDir)
	if err != nil {
		log.Fatalf("failed to open data dir %s: %v", *dataDir, err)
	}
	store, err := offline.NewStore(medium)
	if err != nil {
		log.Fatalf("failed to load local store: %v", err)
	}
	manager := offline.NewManager(store)
	monitor := offline.NewMonitor(*startOnline)
	syncer := offline.NewSyncer(store, offline.NewClient(*serverURL), monitor)
	syncer.OnSyncComplete(func(result offline.Result) {
		if result.Success {
			fmt.Printf("sync: %s (%d games, %d actions)\n", result.Message, result.SyncedGames, result.SyncedActions)
			return
		}
		fmt.Printf("sync: %s\n", result.Message)
		for _, msg := range result.Errors {
			fmt.Printf("  - %s\n", msg)
		}
	})

	repl := &repl{manager: manager, store: store, monitor: monitor, syncer: syncer}
	repl.run()
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".uno-tally"
	}
	return home + "/.uno-tally"
}

type repl struct {
	manager *offline.Manager
	store   *offline.Store
	monitor *offline.Monitor
	syncer  *offline.Syncer
}

func (r *repl) run() {
	fmt.Println("uno-tally offline client. Type 'help' for commands.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]
		if cmd == "quit" || cmd == "exit" {
			return
		}
		r.dispatch(cmd, args)
	}
}

func (r *repl) dispatch(cmd string, args []string) {
	switch cmd {
	case "help":
		r.printHelp()
	case "new":
		r.newGame(args)
	case "points":
		r.addPoints(args)
	case "end":
		r.endGame(args)
	case "replay":
		r.replay()
	case "status":
		r.status()
	case "games":
		r.listGames()
	case "log":
		r.printLog()
	case "online":
		r.monitor.SetOnline(true)
		fmt.Println("connectivity: online")
	case "offline":
		r.monitor.SetOnline(false)
		fmt.Println("connectivity: offline")
	case "sync":
		result := r.syncer.PerformSync(context.Background())
		if !result.Success && result.SyncedGames == 0 && result.SyncedActions == 0 && len(result.Errors) == 0 {
			fmt.Printf("sync: %s\n", result.Message)
		}
	case "clear":
		if err := r.store.ClearAll(); err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		fmt.Println("local data cleared")
	default:
		fmt.Printf("unknown command %q, type 'help'\n", cmd)
	}
}

func (r *repl) printHelp() {
	fmt.Print(`commands:
  new <name> <name> [...]   start a game (2-10 players)
  points <player> <points>  add points to a player of the current game
  end [player]              end the current game, optionally naming the winner
  replay                    new game with the same players as the current one
  status                    show the current game
  games                     list all local games
  log                       show the pending action log
  online | offline          toggle connectivity (going online triggers sync)
  sync                      sync now
  clear                     wipe all local data
  quit
`)
}

func (r *repl) newGame(names []string) {
	game, err := r.manager.CreateGame(names)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Printf("started game %s with %s\n", game.ID, strings.Join(game.PlayerNames(), ", "))
}

// resolvePlayer accepts a player name (case-insensitive) or a 1-based index
// into the roster.
func resolvePlayer(game offline.Game, ref string) (offline.Player, bool) {
	if index, err := strconv.Atoi(ref); err == nil {
		if index >= 1 && index <= len(game.Players) {
			return game.Players[index-1], true
		}
		return offline.Player{}, false
	}
	for _, player := range game.Players {
		if strings.EqualFold(player.Name, ref) {
			return player, true
		}
	}
	return offline.Player{}, false
}

func (r *repl) addPoints(args []string) {
	if len(args) != 2 {
		fmt.Println("usage: points <player> <points>")
		return
	}
	game, ok := r.manager.CurrentGame()
	if !ok {
		fmt.Println("no current game, start one with 'new'")
		return
	}
	player, ok := resolvePlayer(game, args[0])
	if !ok {
		fmt.Printf("no player %q in the current game\n", args[0])
		return
	}
	points, err := strconv.Atoi(args[1])
	if err != nil || points < 1 {
		fmt.Println("points must be a positive integer")
		return
	}
	applied, err := r.manager.AddPoints(game.ID, player.ID, points)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	if !applied {
		fmt.Println("could not add points, is the game still active?")
		return
	}
	fmt.Printf("added %d points to %s\n", points, player.Name)
	r.status()
}

func (r *repl) endGame(args []string) {
	game, ok := r.manager.CurrentGame()
	if !ok {
		fmt.Println("no current game")
		return
	}
	winnerID := ""
	winnerName := ""
	if len(args) > 0 {
		player, ok := resolvePlayer(game, strings.Join(args, " "))
		if !ok {
			fmt.Printf("no player %q in the current game\n", strings.Join(args, " "))
			return
		}
		winnerID = player.ID
		winnerName = player.Name
	}
	applied, err := r.manager.EndGame(game.ID, winnerID)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	if !applied {
		fmt.Println("could not end the game, is it still active?")
		return
	}
	if winnerName != "" {
		fmt.Printf("game over, %s wins\n", winnerName)
	} else {
		fmt.Println("game over")
	}
}

func (r *repl) replay() {
	current, ok := r.manager.CurrentGame()
	if !ok {
		fmt.Println("no current game")
		return
	}
	game, err := r.manager.ReplayWithSamePlayers(current.ID)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Printf("started game %s with %s\n", game.ID, strings.Join(game.PlayerNames(), ", "))
}

func (r *repl) status() {
	game, ok := r.manager.CurrentGame()
	if !ok {
		fmt.Println("no current game")
		return
	}
	printGame(game)
	stats := r.store.Stats()
	state := "offline"
	if r.monitor.Online() {
		state = "online"
	}
	fmt.Printf("connectivity: %s, unsynced: %d games, %d actions\n", state, stats.UnsyncedGames, stats.UnsyncedActions)
}

func (r *repl) listGames() {
	games := r.store.Games()
	if len(games) == 0 {
		fmt.Println("no local games")
		return
	}
	for _, game := range games {
		synced := "unsynced"
		if game.Synced {
			synced = "synced"
		}
		fmt.Printf("%s  %s  %s  %s\n", game.ID, game.Status, synced, strings.Join(game.PlayerNames(), ", "))
	}
}

func (r *repl) printLog() {
	actions := r.store.UnsyncedActions()
	if len(actions) == 0 {
		fmt.Println("action log is empty")
		return
	}
	for _, action := range actions {
		fmt.Printf("%s  %s  game=%s\n", action.Timestamp.Format("15:04:05"), action.Type, action.GameID)
	}
}

func printGame(game offline.Game) {
	fmt.Printf("game %s (%s)\n", game.ID, game.Status)
	for i, player := range game.Players {
		marker := " "
		if game.WinnerID != "" && player.ID == game.WinnerID {
			marker = "*"
		}
		fmt.Printf("  %d. %s %s: %d\n", i+1, marker, player.Name, player.Points)
	}
}
