package lookup

import (
	"fmt"

	"github.com/julianstephens/carddelivery/internal/cli"
	"github.com/julianstephens/carddelivery/internal/dates"
)

// DatesCmd prints today, the earliest bookable day and any requested offsets.
type DatesCmd struct {
	Ahead []int `arg:"" optional:"" help:"Day offsets from today to resolve."`
}

func (c *DatesCmd) Run(ctx *cli.Context) error {
	r := ctx.Resolver
	today := r.Today()

	ctx.Println(cli.Field("Timezone:", r.Location().String()))
	ctx.Println(cli.Field("Today:", dates.Format(today)))
	ctx.Println(cli.Field("Earliest bookable:", dates.Format(r.EarliestBookable())))

	if len(c.Ahead) == 0 {
		return nil
	}

	ctx.Println()
	ctx.Println(cli.HeadingStyle.Render("Offsets"))
	for _, n := range c.Ahead {
		d := r.Ahead(n)
		note := ""
		if d.Before(r.EarliestBookable()) {
			note = " " + cli.MutedStyle.Render("(too soon)")
		}
		ctx.Printf("%s %s, picker: %s, %d month step(s)%s\n",
			cli.LabelStyle.Render(fmt.Sprintf("%+d:", n)),
			dates.Format(d),
			dates.MonthTitle(d),
			dates.MonthSteps(today, d),
			note,
		)
	}
	return nil
}
