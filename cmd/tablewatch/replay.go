package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coder/quartz"
	"github.com/sanity-io/litter"

	"github.com/pokertools/tablewatch/internal/session"
)

type ReplayCmd struct {
	Script string `kong:"arg,help='Path to the HCL session script'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
	Dump   bool   `kong:"help='Dump snapshots as Go values instead of JSON'"`
}

func (c *ReplayCmd) Run() error {
	logger := setupLogger(c.Debug)

	script, err := session.LoadScript(c.Script)
	if err != nil {
		return err
	}
	// Replay at full speed regardless of the scripted tick rate.
	script.Session.TickMS = 0

	sess, err := session.New(script, logger, quartz.NewReal())
	if err != nil {
		return err
	}
	if err := sess.Run(context.Background()); err != nil {
		return err
	}

	snap := sess.Game().Snapshot()
	fmt.Println(bannerStyle.Render(fmt.Sprintf("%s: %d hands", script.Session.Room, len(snap.Rounds))))

	for i, round := range snap.Rounds {
		result := lostStyle.Render("lost")
		if round.Won {
			result = wonStyle.Render("won")
		}
		fmt.Printf("%s pot %d, %s\n", handStyle.Render(fmt.Sprintf("hand %d:", i+1)), round.Pot, result)

		if c.Dump {
			fmt.Println(litter.Sdump(round))
			continue
		}
		data, err := json.MarshalIndent(round, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	}
	return nil
}
