package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/carddelivery/internal/cli"
	"github.com/julianstephens/carddelivery/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}
	ctx.PerformAutomaticBackup(store)

	p := tea.NewProgram(tui.NewModel(tui.Options{
		Service:   ctx.BookingService(store),
		Store:     store,
		Validator: ctx.Validator,
		Cities:    ctx.Cities,
		Catalog:   ctx.Catalog,
		Resolver:  ctx.Resolver,
	}), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}
