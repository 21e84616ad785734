// An offline harness for the decision engine: feed lines as turns, see
// decisions. No Discord, no provider. Control commands:
//
//	/listen on|off   toggle listening mode
//	/quit            exit
//
// Everything else (including [DIRECTIVE] lines) is submitted as a message.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/nereth/stagemind/internal/config"
	"github.com/nereth/stagemind/internal/logging"
	"github.com/nereth/stagemind/internal/mind"
)

const channelID = "cli"

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
	log := logging.Setup(cfg.LogLevel, "")

	registry := mind.NewRegistry(nil, log)
	engine := mind.NewEngine(registry, mind.EngineConfig{
		PersonaName:      cfg.PersonaName,
		ExpertiseDomains: cfg.ExpertiseDomains,
		Resolver:         mind.ResolverConfig{EmpathyOverride: cfg.EmpathyOverride},
	}, log)

	fmt.Printf("%s decision harness. Speak as [Name] message. /quit to exit.\n", cfg.PersonaName)

	sc := bufio.NewScanner(os.Stdin)
	turn := 0
	for {
		fmt.Print("> ")
		if !sc.Scan() {
			return
		}
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			continue
		case line == "/quit":
			return
		case strings.HasPrefix(line, "/listen"):
			on := strings.TrimSpace(strings.TrimPrefix(line, "/listen")) == "on"
			engine.SetListening(channelID, on, "cli toggle")
			fmt.Printf("listening=%v\n", on)
			continue
		}

		turn++
		dec := engine.Decide(mind.Incoming{
			Message: line,
			Channel: mind.ChannelContext{ChannelID: channelID},
			Turn:    turn,
		})

		fmt.Printf("respond=%v type=%s confidence=%.2f\n", dec.ShouldRespond, dec.Type, dec.Confidence)
		fmt.Printf("  reasoning: %s\n", dec.Reasoning)
		if dec.ShouldRespond {
			fmt.Printf("  style=%s tone=%s approach=%s address=%s relationship=%s\n",
				dec.Style, dec.Tone, dec.Approach, dec.AddressCharacter, dec.RelationshipTone)
			turn++
			engine.RecordPersonaReply(channelID, "(persona reply)", turn, dec.AddressCharacter)
		}
	}
}
