package main

import (
	"flag"
	"fmt"
	"math/rand"
	"strings"

	"github.com/rs/zerolog"

	"cardroom.com/tourney/game"
	"cardroom.com/tourney/logging"
	"cardroom.com/tourney/util"
	"cardroom.com/tourney/util/random"
)

// Standalone driver: runs a bot-vs-bot tournament to completion and
// prints the result. Useful for soaking the engine and for eyeballing
// the event log.
func main() {
	var players = flag.String("players", "Bob,Dev,Kamal,Dave,Anna,Aditya", "comma separated participant names")
	var chips = flag.Int("chips", 1000, "starting stack per seat")
	var smallBlind = flag.Int("sb", 10, "small blind")
	var bigBlind = flag.Int("bb", 20, "big blind")
	var seed = flag.Int64("seed", 0, "shuffle seed (0 picks a random one)")
	var maxHands = flag.Int("max-hands", 100000, "abort after this many hands")
	flag.Parse()

	level, err := zerolog.ParseLevel(util.EngineEnvironment.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	mainLogger := logging.GetZeroLogger("main", nil)

	names := strings.Split(*players, ",")
	if *seed == 0 {
		*seed = random.NewSeed()
	}

	engine, err := game.NewEngine(names, game.ModeBotBattle, game.Options{
		StartingChips: int32(*chips),
		SmallBlind:    int32(*smallBlind),
		BigBlind:      int32(*bigBlind),
		DisableDelays: true,
		RandSource:    rand.NewSource(*seed),
	})
	if err != nil {
		mainLogger.Fatal().Msgf("Cannot create engine: %s", err)
	}

	snap, err := engine.StartTournament()
	if err != nil {
		mainLogger.Fatal().Msgf("Cannot start tournament: %s", err)
	}

	for hand := 0; hand < *maxHands; hand++ {
		if snap.Phase == game.PhaseTournamentComplete {
			break
		}
		snap, err = engine.StartNextHand()
		if err != nil {
			mainLogger.Fatal().Msgf("Tournament aborted: %s", err)
		}
	}

	if snap.Phase == game.PhaseTournamentComplete {
		winner := snap.Seats[snap.WinnerSeat]
		fmt.Printf("%s wins the tournament with %d chips after %d hands (seed %d)\n",
			winner.Name, winner.Chips, snap.HandNum, *seed)
	} else {
		fmt.Printf("Tournament still running after %d hands (seed %d)\n", snap.HandNum, *seed)
	}
}
