package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/pokertools/tablewatch/internal/session"
	"github.com/pokertools/tablewatch/internal/watch"
)

type ServeCmd struct {
	Script string `kong:"arg,help='Path to the HCL session script'"`
	Addr   string `kong:"default=':8080',help='Address to serve observers on'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
	Loop   bool   `kong:"help='Restart the script with fresh stacks when it finishes'"`
}

func (c *ServeCmd) Run() error {
	logger := setupLogger(c.Debug)

	script, err := session.LoadScript(c.Script)
	if err != nil {
		return err
	}

	server := watch.NewServer(c.Addr, logger)

	fmt.Println(bannerStyle.Render(fmt.Sprintf("broadcasting %s on ws://%s/ws", script.Session.Room, c.Addr)))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		return server.Stop()
	})
	g.Go(func() error {
		for {
			sess, err := session.New(script, logger, quartz.NewReal(), server)
			if err != nil {
				return err
			}
			if err := sess.Run(ctx); err != nil {
				return err
			}
			if !c.Loop {
				// Keep serving the final state until interrupted.
				<-ctx.Done()
				return ctx.Err()
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
