package lookup

import (
	"fmt"

	"github.com/julianstephens/carddelivery/internal/cli"
	"github.com/julianstephens/carddelivery/internal/constants"
)

// CitiesListCmd prints the delivery allow-list.
type CitiesListCmd struct{}

func (c *CitiesListCmd) Run(ctx *cli.Context) error {
	names := ctx.Cities.Names()
	ctx.Println(cli.HeadingStyle.Render(fmt.Sprintf("Delivery cities (%d)", len(names))))
	for _, name := range names {
		ctx.Println("  " + name)
	}
	return nil
}

// CitiesSuggestCmd prints the dropdown entries for a typed prefix.
type CitiesSuggestCmd struct {
	Query string `arg:"" help:"Letters typed into the city field."`
}

func (c *CitiesSuggestCmd) Run(ctx *cli.Context) error {
	matches := ctx.Cities.Suggest(c.Query)
	if len(matches) == 0 {
		if len([]rune(c.Query)) < constants.MinSuggestRunes {
			ctx.Println(cli.MutedStyle.Render(fmt.Sprintf("Type at least %d letters to see suggestions", constants.MinSuggestRunes)))
			return nil
		}
		ctx.Println(cli.MutedStyle.Render("No matching cities"))
		return nil
	}
	for _, name := range matches {
		ctx.Println(name)
	}
	return nil
}
